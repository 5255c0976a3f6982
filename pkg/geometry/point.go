package geometry

import (
	"fmt"
	"math"
)

// Point - позиция или вектор на плоскости. Один и тот же тип используется
// и для координат, и для смещений (OffsetBy / DiffOf).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero - начало координат.
var Zero = Point{}

func (p Point) OffsetBy(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

func (p Point) Offset(x, y float64) Point {
	return p.OffsetBy(Point{X: x, Y: y})
}

// DiffOf возвращает вектор p - other.
func (p Point) DiffOf(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// DistanceFrom - евклидово расстояние между точками.
func (p Point) DistanceFrom(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RoundedUp округляет обе координаты вверх (ceil), чтобы точка легла на сетку.
func (p Point) RoundedUp() Point {
	return Point{X: math.Ceil(p.X), Y: math.Ceil(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("x:%g,y:%g", p.X, p.Y)
}
