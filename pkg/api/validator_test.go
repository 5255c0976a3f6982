package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/utils"
)

func ptr[T any](v T) *T { return &v }

func TestGenerateParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  GenerateParams
		wantErr error
	}{
		{"empty uses defaults", GenerateParams{}, nil},
		{"custom", GenerateParams{Width: ptr(100.0), Height: ptr(80.0), Rooms: ptr(40)}, nil},
		{"width too large", GenerateParams{Width: ptr(10000.0)}, ErrInvalidPayload},
		{"zero height", GenerateParams{Height: ptr(0.0)}, ErrInvalidPayload},
		{"negative rooms", GenerateParams{Rooms: ptr(-3)}, ErrInvalidPayload},
		{"seed name", GenerateParams{SeedName: ptr("crypt")}, nil},
		{"empty seed name", GenerateParams{SeedName: ptr("")}, ErrInvalidPayload},
		{"zero retries", GenerateParams{MaxRetries: ptr(0)}, ErrInvalidPayload},
		{"inverted room sizes", GenerateParams{MinRoomSize: ptr(10.0), MaxRoomSize: ptr(4.0)}, dungeon.ErrInvalidConfig},
		{"zero hallway", GenerateParams{HallwayWidth: ptr(0.0)}, dungeon.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateParams_Apply(t *testing.T) {
	base := dungeon.DefaultConfig()

	cfg := GenerateParams{
		Seed:        ptr(int64(17)),
		Width:       ptr(32.0),
		Height:      ptr(100.0),
		MinRoomSize: ptr(3.0),
		MaxSpacing:  ptr(12.0),
	}.Apply(base)

	if cfg.Seed != 17 {
		t.Errorf("Expected seed 17, got %d", cfg.Seed)
	}
	if cfg.DungeonSize.Width != 32 || cfg.DungeonSize.Height != 100 {
		t.Errorf("Unexpected dungeon size %v", cfg.DungeonSize)
	}
	// Область появления не больше карты
	if cfg.CreationBounds.Width != 32 || cfg.CreationBounds.Height != base.CreationBounds.Height {
		t.Errorf("Unexpected creation bounds %v", cfg.CreationBounds)
	}
	if cfg.MinimumRoomWidth != 3 || cfg.MinimumRoomHeight != 3 {
		t.Error("MinRoomSize should set both dimensions")
	}
	if cfg.MaximumRoomWidth != base.MaximumRoomWidth {
		t.Error("Unset fields must keep their defaults")
	}
	if cfg.MaxRoomSpacing != 12 {
		t.Errorf("Expected max spacing 12, got %g", cfg.MaxRoomSpacing)
	}
	if cfg.MaximumRetries != DefaultMaxRetries {
		t.Errorf("Expected default retry cap %d, got %d", DefaultMaxRetries, cfg.MaximumRetries)
	}
}

func TestGenerateParams_ApplySeedName(t *testing.T) {
	base := dungeon.DefaultConfig()

	named := GenerateParams{SeedName: ptr("crypt")}.Apply(base)
	if named.Seed != utils.StringToSeed("crypt") {
		t.Errorf("Expected seed from name, got %d", named.Seed)
	}
	if again := (GenerateParams{SeedName: ptr("crypt")}).Apply(base); again.Seed != named.Seed {
		t.Error("Same name must give the same seed")
	}

	// Явный сид важнее имени
	explicit := GenerateParams{Seed: ptr(int64(9)), SeedName: ptr("crypt")}.Apply(base)
	if explicit.Seed != 9 {
		t.Errorf("Expected explicit seed 9, got %d", explicit.Seed)
	}

	if unset := (GenerateParams{}).Apply(base); unset.Seed != base.Seed {
		t.Errorf("Seed should stay %d without seed fields, got %d", base.Seed, unset.Seed)
	}
}

func TestDecode(t *testing.T) {
	t.Run("valid step", func(t *testing.T) {
		var p StepPayload
		cmd := ClientCommand{Action: ActionStep, Payload: json.RawMessage(`{"count":5}`)}
		if err := Decode(cmd, &p); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if p.Count != 5 {
			t.Errorf("Expected count 5, got %d", p.Count)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		var p RunPayload
		if err := Decode(ClientCommand{Action: ActionRun}, &p); err != nil {
			t.Errorf("Decode() error = %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		var p GenerateParams
		cmd := ClientCommand{Action: ActionGenerate, Payload: json.RawMessage(`{"rooms":"many"}`)}
		if err := Decode(cmd, &p); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("Expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("fails validation", func(t *testing.T) {
		var p RunPayload
		cmd := ClientCommand{Action: ActionRun, Payload: json.RawMessage(`{"delayMs":-1}`)}
		if err := Decode(cmd, &p); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("Expected ErrInvalidPayload, got %v", err)
		}
	})
}
