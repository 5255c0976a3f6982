package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func generatedLayout(t *testing.T) (*dungeon.Generator[*dungeon.DefaultRoom, *dungeon.DefaultHallway], *Layout) {
	t.Helper()

	cfg := dungeon.DefaultConfig()
	cfg.Seed = 31337
	cfg.CreationBounds = geometry.Size{Width: 40, Height: 40}
	cfg.InitialRoomCreationCount = 8
	cfg.MaxRoomSpacing = 200
	cfg.MaximumRetries = 50

	g := dungeon.NewDefaultGenerator(cfg)
	g.RunCompleteGeneration()

	layout, err := LayoutFromGenerator(g)
	if err != nil {
		t.Fatalf("LayoutFromGenerator() error = %v", err)
	}
	return g, layout
}

func TestHeaderSize(t *testing.T) {
	if n := binary.Size(LayoutFileHeader{}); n != 32 {
		t.Errorf("Expected 32-byte header, got %d", n)
	}
	if n := binary.Size(HallwayHeader{}); n != 6 {
		t.Errorf("Expected 6-byte hallway header, got %d", n)
	}
}

func TestLayoutFromGenerator(t *testing.T) {
	g, layout := generatedLayout(t)

	if len(layout.Rooms) != len(g.Rooms()) {
		t.Errorf("Expected %d rooms, got %d", len(g.Rooms()), len(layout.Rooms))
	}
	if len(layout.Hallways) != len(g.Dungeon().Hallways()) {
		t.Errorf("Expected %d hallways, got %d", len(g.Dungeon().Hallways()), len(layout.Hallways))
	}
	if !layout.Grid().Equal(g.To2DGrid()) {
		t.Error("Layout grid should match generator grid")
	}
}

func TestWriteReadLayout(t *testing.T) {
	_, layout := generatedLayout(t)

	var buf bytes.Buffer
	if err := WriteLayout(&buf, layout); err != nil {
		t.Fatalf("WriteLayout() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), MagicHeader) {
		t.Error("File should start with the magic header")
	}

	loaded, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, layout) {
		t.Errorf("Loaded layout differs:\n got %+v\nwant %+v", loaded, layout)
	}
}

func TestReadLayout_Errors(t *testing.T) {
	_, layout := generatedLayout(t)
	var valid bytes.Buffer
	if err := WriteLayout(&valid, layout); err != nil {
		t.Fatal(err)
	}

	badMagic := append([]byte("XXXX"), valid.Bytes()[4:]...)

	badVersion := append([]byte(nil), valid.Bytes()...)
	binary.LittleEndian.PutUint32(badVersion[4:8], 7)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"bad magic", badMagic, ErrInvalidMagic},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"truncated header", valid.Bytes()[:10], nil},
		{"truncated body", valid.Bytes()[:valid.Len()-3], nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLayout(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteLayout_Rejects(t *testing.T) {
	room := geometry.NewRectXYWH(1, 1, 4, 4)

	tests := []struct {
		name   string
		layout *Layout
	}{
		{"unknown room", &Layout{
			Size:     geometry.Size{Width: 10, Height: 10},
			Rooms:    []geometry.Rect{room},
			Hallways: []Hallway{{From: 0, To: 3}},
		}},
		{"size too large", &Layout{Size: geometry.Size{Width: 70000, Height: 10}}},
		{"negative size", &Layout{Size: geometry.Size{Width: -1, Height: 10}}},
		// uint16 в заголовке отбросил бы дробную часть
		{"fractional width", &Layout{Size: geometry.Size{Width: 10.5, Height: 10}}},
		{"fractional height", &Layout{Size: geometry.Size{Width: 10, Height: 0.25}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WriteLayout(&bytes.Buffer{}, tt.layout)
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestLayoutService_SaveReportsMkdirError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, layout := generatedLayout(t)
	path, err := NewLayoutService(filepath.Join(blocker, "layouts")).Save(layout)
	if err == nil {
		t.Fatalf("Expected error when save dir is under a file, saved to %q", path)
	}
	if path != "" {
		t.Errorf("Expected empty path on error, got %q", path)
	}
}

func TestLayoutService_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "layouts")
	service := NewLayoutService(dir)

	g, layout := generatedLayout(t)

	path, err := service.Save(layout)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Ext(path) != FileExt || filepath.Dir(path) != dir {
		t.Errorf("Unexpected save path %q", path)
	}

	loaded, err := service.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Grid().Equal(g.To2DGrid()) {
		t.Error("Loaded layout should rasterize to the generated grid")
	}

	if _, err := service.Load(filepath.Join(dir, "missing.dgl")); err == nil {
		t.Error("Expected error for missing file")
	}
}
