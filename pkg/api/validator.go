package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/utils"
)

const (
	MaxDungeonSide = 512
	MaxRooms       = 500
	MaxStepCount   = 1000
	MaxDelayMs     = 2000
	// DefaultMaxRetries ограничивает перезапуски для сессий, где клиент не задал свой лимит.
	DefaultMaxRetries = 100
)

var ErrInvalidPayload = errors.New("invalid payload")

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p GenerateParams) Validate() error {
	if p.Width != nil && (*p.Width < 1 || *p.Width > MaxDungeonSide) {
		return fmt.Errorf("%w: width must be in [1, %d]", ErrInvalidPayload, MaxDungeonSide)
	}
	if p.Height != nil && (*p.Height < 1 || *p.Height > MaxDungeonSide) {
		return fmt.Errorf("%w: height must be in [1, %d]", ErrInvalidPayload, MaxDungeonSide)
	}
	if p.Rooms != nil && (*p.Rooms < 0 || *p.Rooms > MaxRooms) {
		return fmt.Errorf("%w: rooms must be in [0, %d]", ErrInvalidPayload, MaxRooms)
	}
	if p.SeedName != nil && *p.SeedName == "" {
		return fmt.Errorf("%w: seedName must not be empty", ErrInvalidPayload)
	}
	if p.MaxRetries != nil && *p.MaxRetries < 1 {
		return fmt.Errorf("%w: maxRetries must be positive", ErrInvalidPayload)
	}
	return p.Apply(dungeon.DefaultConfig()).Validate()
}

// Apply накладывает заданные поля на cfg. Seed важнее SeedName.
// Размер комнаты задает и ширину, и высоту. Без явного MaxRetries подставляется
// DefaultMaxRetries: сервер не должен зависать на неудачных параметрах.
func (p GenerateParams) Apply(cfg dungeon.Config) dungeon.Config {
	switch {
	case p.Seed != nil:
		cfg.Seed = *p.Seed
	case p.SeedName != nil:
		cfg.Seed = utils.StringToSeed(*p.SeedName)
	}
	if p.Width != nil {
		cfg.DungeonSize.Width = *p.Width
	}
	if p.Height != nil {
		cfg.DungeonSize.Height = *p.Height
	}
	cfg.CreationBounds = geometry.Size{
		Width:  min(cfg.CreationBounds.Width, cfg.DungeonSize.Width),
		Height: min(cfg.CreationBounds.Height, cfg.DungeonSize.Height),
	}
	if p.Rooms != nil {
		cfg.InitialRoomCreationCount = *p.Rooms
	}
	if p.MinRoomSize != nil {
		cfg.MinimumRoomWidth = *p.MinRoomSize
		cfg.MinimumRoomHeight = *p.MinRoomSize
	}
	if p.MaxRoomSize != nil {
		cfg.MaximumRoomWidth = *p.MaxRoomSize
		cfg.MaximumRoomHeight = *p.MaxRoomSize
	}
	if p.Spacing != nil {
		cfg.MinimumRoomSpacing = *p.Spacing
	}
	if p.MaxSpacing != nil {
		cfg.MaxRoomSpacing = *p.MaxSpacing
	}
	if p.HallwayWidth != nil {
		cfg.HallwayWidth = *p.HallwayWidth
	}
	cfg.MaximumRetries = DefaultMaxRetries
	if p.MaxRetries != nil {
		cfg.MaximumRetries = *p.MaxRetries
	}
	return cfg
}

func (p StepPayload) Validate() error {
	if p.Count < 0 || p.Count > MaxStepCount {
		return fmt.Errorf("%w: count must be in [0, %d]", ErrInvalidPayload, MaxStepCount)
	}
	return nil
}

func (p RunPayload) Validate() error {
	if p.DelayMs < 0 || p.DelayMs > MaxDelayMs {
		return fmt.Errorf("%w: delayMs must be in [0, %d]", ErrInvalidPayload, MaxDelayMs)
	}
	return nil
}

// Decode разбирает payload команды в v и проверяет его, если v умеет
// проверять себя. Пустой payload оставляет v без изменений.
func Decode(cmd ClientCommand, v any) error {
	if len(cmd.Payload) > 0 {
		if err := json.Unmarshal(cmd.Payload, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, cmd.Action, err)
		}
	}
	if validator, ok := v.(Validator); ok {
		return validator.Validate()
	}
	return nil
}
