package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `DGLY` // 4 байта
	Version1    uint32 = 1
	FileExt            = ".dgl"
)

// ErrInvalidLayout - раскладку нельзя записать без потерь.
var ErrInvalidLayout = errors.New("layout cannot be encoded")

// LayoutFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type LayoutFileHeader struct {
	Magic        [4]byte // 4 байта
	Version      uint32  // 4 байта
	Seed         int64   // 8 байт
	Timestamp    int64   // 8 байт
	Width        uint16  // 2 байта
	Height       uint16  // 2 байта
	RoomCount    uint16  // 2 байта
	HallwayCount uint16  // 2 байта
}

// RectRecord - прямоугольник комнаты или коридора.
type RectRecord struct {
	X, Y, W, H float64 // 32 байта
}

type PointRecord struct {
	X, Y float64 // 16 байт
}

// HallwayHeader - заголовок каждого коридора. From/To - индексы комнат.
type HallwayHeader struct {
	From       uint16 // 2
	To         uint16 // 2
	PointCount uint8  // 1
	RectCount  uint8  // 1
}

// Hallway - коридор в сохраненной раскладке.
type Hallway struct {
	From   int              `json:"from"`
	To     int              `json:"to"`
	Points []geometry.Point `json:"points"`
	Rects  []geometry.Rect  `json:"rects"`
}

// Layout - готовое подземелье без графа: комнаты, коридоры и размер карты.
type Layout struct {
	Seed      int64           `json:"seed"`
	Timestamp int64           `json:"timestamp"`
	Size      geometry.Size   `json:"size"`
	Rooms     []geometry.Rect `json:"rooms"`
	Hallways  []Hallway       `json:"hallways"`
}

// Grid растеризует сохраненную раскладку так же, как это делает генератор.
func (l *Layout) Grid() dungeon.Grid {
	rects := make([]geometry.Rect, 0, len(l.Rooms)+2*len(l.Hallways))
	rects = append(rects, l.Rooms...)
	for _, h := range l.Hallways {
		rects = append(rects, h.Rects...)
	}
	return dungeon.Rasterize(l.Size, rects)
}

// LayoutFromGenerator снимает раскладку с генератора. Без построенного
// подземелья сохраняются только комнаты.
func LayoutFromGenerator(g *dungeon.Generator[*dungeon.DefaultRoom, *dungeon.DefaultHallway]) (*Layout, error) {
	cfg := g.Config()
	layout := &Layout{
		Seed:      cfg.Seed,
		Timestamp: time.Now().Unix(),
		Size:      cfg.DungeonSize,
		Rooms:     make([]geometry.Rect, 0, len(g.Rooms())),
		Hallways:  make([]Hallway, 0),
	}

	index := make(map[*dungeon.DefaultRoom]int, len(g.Rooms()))
	for i, room := range g.Rooms() {
		index[room] = i
		layout.Rooms = append(layout.Rooms, room.Rect())
	}

	d := g.Dungeon()
	if d == nil {
		return layout, nil
	}
	for _, edge := range d.Edges() {
		from, ok := index[edge.From.Data]
		if !ok {
			return nil, fmt.Errorf("hallway starts at unknown room %v", edge.From.Data)
		}
		to, ok := index[edge.To.Data]
		if !ok {
			return nil, fmt.Errorf("hallway ends at unknown room %v", edge.To.Data)
		}
		layout.Hallways = append(layout.Hallways, Hallway{
			From:   from,
			To:     to,
			Points: edge.Data.Points(),
			Rects:  edge.Data.Rects(),
		})
	}
	return layout, nil
}

type LayoutService struct {
	SaveDir string
}

func NewLayoutService(dir string) *LayoutService {
	return &LayoutService{SaveDir: dir}
}

// Save пишет раскладку в SaveDir (папка создается, если ее нет) и
// возвращает путь к файлу.
func (s *LayoutService) Save(layout *Layout) (string, error) {
	if err := os.MkdirAll(s.SaveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save dir: %w", err)
	}

	filename := fmt.Sprintf("dungeon_%d_%d%s", layout.Seed, layout.Timestamp, FileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteLayout(w, layout); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}

	logger.Log.WithFields(logrus.Fields{
		"path":     path,
		"rooms":    len(layout.Rooms),
		"hallways": len(layout.Hallways),
	}).Info("Layout saved")
	return path, nil
}

func WriteLayout(w io.Writer, l *Layout) error {
	if !validSide(l.Size.Width) || !validSide(l.Size.Height) {
		return fmt.Errorf("%w: dungeon size must be whole cells in [0, %d], got %v", ErrInvalidLayout, math.MaxUint16, l.Size)
	}
	if len(l.Rooms) > math.MaxUint16 || len(l.Hallways) > math.MaxUint16 {
		return fmt.Errorf("%w: too many rooms or hallways: %d/%d", ErrInvalidLayout, len(l.Rooms), len(l.Hallways))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := LayoutFileHeader{
		Version:      Version1,
		Seed:         l.Seed,
		Timestamp:    l.Timestamp,
		Width:        uint16(l.Size.Width),
		Height:       uint16(l.Size.Height),
		RoomCount:    uint16(len(l.Rooms)),
		HallwayCount: uint16(len(l.Hallways)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Пишем комнаты
	for _, r := range l.Rooms {
		if err := binary.Write(w, binary.LittleEndian, toRecord(r)); err != nil {
			return fmt.Errorf("failed to write room: %w", err)
		}
	}

	// 3. Пишем коридоры
	for _, h := range l.Hallways {
		if len(h.Points) > math.MaxUint8 || len(h.Rects) > math.MaxUint8 {
			return fmt.Errorf("%w: hallway too long: %d points, %d rects", ErrInvalidLayout, len(h.Points), len(h.Rects))
		}
		if h.From < 0 || h.From >= len(l.Rooms) || h.To < 0 || h.To >= len(l.Rooms) {
			return fmt.Errorf("%w: hallway %d->%d references unknown room", ErrInvalidLayout, h.From, h.To)
		}

		hh := HallwayHeader{
			From:       uint16(h.From),
			To:         uint16(h.To),
			PointCount: uint8(len(h.Points)),
			RectCount:  uint8(len(h.Rects)),
		}
		if err := binary.Write(w, binary.LittleEndian, &hh); err != nil {
			return err
		}

		for _, p := range h.Points {
			if err := binary.Write(w, binary.LittleEndian, PointRecord{X: p.X, Y: p.Y}); err != nil {
				return err
			}
		}
		for _, r := range h.Rects {
			if err := binary.Write(w, binary.LittleEndian, toRecord(r)); err != nil {
				return err
			}
		}
	}

	return nil
}

// validSide - сторона карты хранится в uint16 без дробной части.
func validSide(v float64) bool {
	return v >= 0 && v <= math.MaxUint16 && v == math.Trunc(v)
}

func toRecord(r geometry.Rect) RectRecord {
	return RectRecord{X: r.Origin.X, Y: r.Origin.Y, W: r.Size.Width, H: r.Size.Height}
}
