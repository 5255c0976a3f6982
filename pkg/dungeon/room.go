package dungeon

import "github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"

// Room - всё, у чего есть изменяемый прямоугольник.
// Генератор двигает комнаты на месте, поэтому реализации должны быть
// ссылочными (указатели): копия значения потеряет SetRect.
type Room interface {
	Rect() geometry.Rect
	SetRect(geometry.Rect)
}

// RoomConstraint - ограничение типа комнаты для генератора: комнату можно
// использовать как вершину графа.
type RoomConstraint interface {
	comparable
	Room
}

// Hallway - коридор: ломаная маршрута и прямоугольники, на которые она
// растеризуется. Так же, как и Room, должен быть ссылочным типом.
type Hallway interface {
	Points() []geometry.Point
	SetPoints([]geometry.Point)
	Rects() []geometry.Rect
	SetRects([]geometry.Rect)
}

// RoomFactory создает комнату из прямоугольника.
type RoomFactory[R RoomConstraint] func(rect geometry.Rect) R

// HallwayFactory создает пустой коридор.
type HallwayFactory[H Hallway] func() H

// DefaultRoom - комната по умолчанию. ID выдает генератор, он стабилен
// всё время жизни комнаты и не зависит от ее положения.
type DefaultRoom struct {
	ID   int
	rect geometry.Rect
}

func NewDefaultRoom(id int, rect geometry.Rect) *DefaultRoom {
	return &DefaultRoom{ID: id, rect: rect}
}

func (r *DefaultRoom) Rect() geometry.Rect        { return r.rect }
func (r *DefaultRoom) SetRect(rect geometry.Rect) { r.rect = rect }

func (r *DefaultRoom) String() string {
	return r.rect.Center().String()
}

type DefaultHallway struct {
	points []geometry.Point
	rects  []geometry.Rect
}

func NewDefaultHallway() *DefaultHallway {
	return &DefaultHallway{}
}

func (h *DefaultHallway) Points() []geometry.Point          { return h.points }
func (h *DefaultHallway) SetPoints(points []geometry.Point) { h.points = points }
func (h *DefaultHallway) Rects() []geometry.Rect            { return h.rects }
func (h *DefaultHallway) SetRects(rects []geometry.Rect)    { h.rects = rects }
