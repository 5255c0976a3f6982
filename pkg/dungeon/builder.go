package dungeon

import "github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"

// Builder предоставляет fluent API для настройки генератора
type Builder struct {
	cfg Config
}

// NewBuilder создает builder с конфигом по умолчанию
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithConfig заменяет конфиг целиком
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithSeed устанавливает зерно
func (b *Builder) WithSeed(seed int64) *Builder {
	b.cfg.Seed = seed
	return b
}

// WithSize устанавливает размер карты. Область появления комнат
// подрезается, если она больше карты.
func (b *Builder) WithSize(width, height float64) *Builder {
	b.cfg.DungeonSize = geometry.Size{Width: width, Height: height}
	b.cfg.CreationBounds.Width = min(b.cfg.CreationBounds.Width, width)
	b.cfg.CreationBounds.Height = min(b.cfg.CreationBounds.Height, height)
	return b
}

// WithCreationBounds устанавливает область, в которой появляются комнаты
func (b *Builder) WithCreationBounds(width, height float64) *Builder {
	b.cfg.CreationBounds = geometry.Size{Width: width, Height: height}
	return b
}

// WithRooms устанавливает число комнат начальной раскладки
func (b *Builder) WithRooms(count int) *Builder {
	b.cfg.InitialRoomCreationCount = count
	return b
}

func (b *Builder) WithRoomWidth(minWidth, maxWidth float64) *Builder {
	b.cfg.MinimumRoomWidth = minWidth
	b.cfg.MaximumRoomWidth = maxWidth
	return b
}

func (b *Builder) WithRoomHeight(minHeight, maxHeight float64) *Builder {
	b.cfg.MinimumRoomHeight = minHeight
	b.cfg.MaximumRoomHeight = maxHeight
	return b
}

// WithSpacing: minimum - зазор раскладки, maximum - дальность соединения
func (b *Builder) WithSpacing(minimum, maximum float64) *Builder {
	b.cfg.MinimumRoomSpacing = minimum
	b.cfg.MaxRoomSpacing = maximum
	return b
}

func (b *Builder) WithHallwayWidth(width float64) *Builder {
	b.cfg.HallwayWidth = width
	return b
}

// WithRetryPolicy: steps - шагов расталкивания до перезапуска,
// retries - лимит перезапусков (0 - без лимита)
func (b *Builder) WithRetryPolicy(steps, retries int) *Builder {
	b.cfg.MaximumStepsBeforeRetry = steps
	b.cfg.MaximumRetries = retries
	return b
}

func (b *Builder) Config() Config {
	return b.cfg
}

// Build проверяет конфиг и создает генератор с комнатами по умолчанию
func (b *Builder) Build() (*Generator[*DefaultRoom, *DefaultHallway], error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return NewDefaultGenerator(b.cfg), nil
}
