package geometry

import "math"

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// DirectionFromPoint классифицирует вектор по atan2(x, y).
// Сравнение идет только с точными углами 0, ±π/4, π/2, -π/2 и π,
// всё остальное считается Down. Корректно для осевых векторов,
// других маршрутизатор коридоров не выдает.
func DirectionFromPoint(v Point) Direction {
	z := math.Atan2(v.X, v.Y)
	switch z {
	case 0, -math.Pi / 4, math.Pi / 4:
		return Up
	case math.Pi:
		return Down
	case math.Pi / 2:
		return Right
	case -math.Pi / 2:
		return Left
	default:
		return Down
	}
}
