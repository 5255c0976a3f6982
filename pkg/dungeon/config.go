package dungeon

import (
	"errors"
	"fmt"
	"time"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
)

var ErrInvalidConfig = errors.New("invalid dungeon config")

// Config хранит параметры генерации. Менять до первого GenerateRooms.
type Config struct {
	// Seed - зерно генератора случайных чисел. 0 - случайное.
	Seed int64

	DungeonSize    geometry.Size
	CreationBounds geometry.Size

	MinimumRoomWidth  float64
	MaximumRoomWidth  float64
	MinimumRoomHeight float64
	MaximumRoomHeight float64

	// MinimumRoomSpacing - зазор, который раскладка держит между комнатами.
	MinimumRoomSpacing float64
	// MaxRoomSpacing - насколько далеко комнаты могут стоять, чтобы их соединили.
	MaxRoomSpacing float64
	HallwayWidth   float64

	InitialRoomCreationCount int
	MaximumStepsBeforeRetry  int
	// MaximumRetries ограничивает число перезапусков раскладки. 0 - без ограничения.
	MaximumRetries int
}

// DefaultConfig создает конфиг по умолчанию (случайный сид).
func DefaultConfig() Config {
	return Config{
		Seed:                     time.Now().UnixNano(),
		DungeonSize:              geometry.Size{Width: 64, Height: 64},
		CreationBounds:           geometry.Size{Width: 64, Height: 64},
		MinimumRoomWidth:         5,
		MaximumRoomWidth:         14,
		MinimumRoomHeight:        5,
		MaximumRoomHeight:        14,
		MinimumRoomSpacing:       2,
		MaxRoomSpacing:           8,
		HallwayWidth:             4,
		InitialRoomCreationCount: 30,
		MaximumStepsBeforeRetry:  50,
	}
}

// Validate нужен внешним слоям (CLI, сервер). Сам генератор принимает любой конфиг.
func (c Config) Validate() error {
	switch {
	case c.DungeonSize.Width < 1 || c.DungeonSize.Height < 1:
		return fmt.Errorf("%w: dungeon size %v", ErrInvalidConfig, c.DungeonSize)
	case c.CreationBounds.Width < 1 || c.CreationBounds.Height < 1:
		return fmt.Errorf("%w: creation bounds %v", ErrInvalidConfig, c.CreationBounds)
	case c.MinimumRoomWidth < 1 || c.MinimumRoomHeight < 1:
		return fmt.Errorf("%w: minimum room size must be at least 1", ErrInvalidConfig)
	case c.MaximumRoomWidth < c.MinimumRoomWidth || c.MaximumRoomHeight < c.MinimumRoomHeight:
		return fmt.Errorf("%w: maximum room size is below minimum", ErrInvalidConfig)
	case c.MinimumRoomSpacing < 0 || c.MaxRoomSpacing < 0:
		return fmt.Errorf("%w: spacing must not be negative", ErrInvalidConfig)
	case c.HallwayWidth <= 0:
		return fmt.Errorf("%w: hallway width %g", ErrInvalidConfig, c.HallwayWidth)
	case c.InitialRoomCreationCount < 0:
		return fmt.Errorf("%w: room count %d", ErrInvalidConfig, c.InitialRoomCreationCount)
	case c.MaximumStepsBeforeRetry < 1:
		return fmt.Errorf("%w: maximum steps before retry %d", ErrInvalidConfig, c.MaximumStepsBeforeRetry)
	case c.MaximumRetries < 0:
		return fmt.Errorf("%w: maximum retries %d", ErrInvalidConfig, c.MaximumRetries)
	}
	return nil
}
