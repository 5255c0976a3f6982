package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

func (s *LayoutService) Load(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLayout(bufio.NewReader(f))
}

func ReadLayout(r io.Reader) (*Layout, error) {
	// 1. Читаем заголовок целиком
	var header LayoutFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}

	layout := &Layout{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Size:      geometry.Size{Width: float64(header.Width), Height: float64(header.Height)},
		Rooms:     make([]geometry.Rect, header.RoomCount),
		Hallways:  make([]Hallway, header.HallwayCount),
	}

	// 2. Читаем комнаты
	for i := range layout.Rooms {
		var rec RectRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read room %d: %w", i, err)
		}
		layout.Rooms[i] = fromRecord(rec)
	}

	// 3. Читаем коридоры
	for i := range layout.Hallways {
		var hh HallwayHeader
		if err := binary.Read(r, binary.LittleEndian, &hh); err != nil {
			return nil, fmt.Errorf("failed to read hallway %d: %w", i, err)
		}
		if int(hh.From) >= len(layout.Rooms) || int(hh.To) >= len(layout.Rooms) {
			return nil, fmt.Errorf("hallway %d references unknown room", i)
		}

		h := Hallway{
			From:   int(hh.From),
			To:     int(hh.To),
			Points: make([]geometry.Point, hh.PointCount),
			Rects:  make([]geometry.Rect, hh.RectCount),
		}
		for j := range h.Points {
			var p PointRecord
			if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
				return nil, err
			}
			h.Points[j] = geometry.Point{X: p.X, Y: p.Y}
		}
		for j := range h.Rects {
			var rec RectRecord
			if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
				return nil, err
			}
			h.Rects[j] = fromRecord(rec)
		}

		layout.Hallways[i] = h
	}

	return layout, nil
}

func fromRecord(rec RectRecord) geometry.Rect {
	return geometry.NewRectXYWH(rec.X, rec.Y, rec.W, rec.H)
}
