package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

const (
	FrameTypeFrame = "FRAME"
	FrameTypeDone  = "DONE"
	FrameTypeError = "ERROR"
)

// Frame это корневой объект, который сервер отправляет клиенту.
// Он представляет собой снимок генератора после очередного шага.
type Frame struct {
	// Type тип сообщения: FRAME (промежуточный шаг), DONE (коридоры построены), ERROR.
	Type string `json:"type"`

	// Phase название выполненной фазы (placement, fitting, rounding, graph, hallways).
	Phase string `json:"phase,omitempty"`

	// Seed зерно, с которым запущен генератор. Позволяет повторить карту.
	Seed int64 `json:"seed"`

	// Steps число шагов расталкивания с последнего перезапуска раскладки.
	Steps int `json:"steps"`

	// Retries сколько раз раскладка начиналась заново.
	Retries int `json:"retries"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Rooms текущий набор комнат.
	Rooms []RoomView `json:"rooms,omitempty"`

	// Hallways коридоры. Появляются после фазы graph, геометрия - после hallways.
	Hallways []HallwayView `json:"hallways,omitempty"`

	// Map растеризованная карта, строка на ряд. Только в DONE.
	Map []string `json:"map,omitempty"`

	// Error текст ошибки для ERROR.
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// RectView это DTO для прямоугольника в координатах карты.
type RectView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RoomView это DTO для комнаты. ID стабилен в пределах одной раскладки.
type RoomView struct {
	ID   int      `json:"id"`
	Rect RectView `json:"rect"`
}

// PointView это DTO для точки ломаной коридора.
type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HallwayView это DTO для коридора между двумя комнатами.
type HallwayView struct {
	From   int         `json:"from"`
	To     int         `json:"to"`
	Points []PointView `json:"points,omitempty"`
	Rects  []RectView  `json:"rects,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

const (
	// ActionGenerate создает новый генератор с параметрами из GenerateParams.
	ActionGenerate = "GENERATE"
	// ActionStep выполняет StepPayload.Count шагов и присылает кадр после каждого.
	ActionStep = "STEP"
	// ActionRun прогоняет генерацию до конца, присылая кадр после каждого шага.
	ActionRun = "RUN"
)

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// GenerateParams используется для GENERATE. Отсутствующие поля берутся
// из конфига по умолчанию.
type GenerateParams struct {
	Seed         *int64   `json:"seed,omitempty"`
	SeedName     *string  `json:"seedName,omitempty"` // сид из строки, если Seed не задан
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`
	Rooms        *int     `json:"rooms,omitempty"`
	MinRoomSize  *float64 `json:"minRoomSize,omitempty"`
	MaxRoomSize  *float64 `json:"maxRoomSize,omitempty"`
	Spacing      *float64 `json:"spacing,omitempty"`
	MaxSpacing   *float64 `json:"maxSpacing,omitempty"`
	HallwayWidth *float64 `json:"hallwayWidth,omitempty"`
	MaxRetries   *int     `json:"maxRetries,omitempty"`
}

// StepPayload используется для STEP.
type StepPayload struct {
	Count int `json:"count,omitempty"` // 0 - один шаг
}

// RunPayload используется для RUN.
type RunPayload struct {
	DelayMs int `json:"delayMs,omitempty"` // Пауза между кадрами
}
