package dungeon

import (
	"math"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
)

// GenerateLineHallways прокладывает ломаную для каждого ребра дерева:
// от центра исходной комнаты сначала по вертикали до y центра целевой.
// Если целевая комната уже задета вертикальным отрезком (см.
// Rect.IntersectsLine), достаточно двух точек, иначе добавляется
// горизонтальный участок до x центра целевой комнаты.
func (g *Generator[R, H]) GenerateLineHallways() {
	if g.dungeon == nil {
		return
	}

	for _, edge := range g.dungeon.Edges() {
		toRect := edge.To.Data.Rect()

		origin := edge.From.Data.Rect().Center()
		diff := toRect.Center().DiffOf(origin)
		bend := origin.OffsetBy(geometry.Point{Y: diff.Y})

		points := []geometry.Point{origin, bend}
		if !toRect.IntersectsLine(origin, bend) {
			points = append(points, bend.OffsetBy(geometry.Point{X: diff.X}))
		}
		edge.Data.SetPoints(points)
	}
}

// GenerateHallways строит граф (если его еще нет), ломаные и
// прямоугольники коридоров шириной HallwayWidth.
func (g *Generator[R, H]) GenerateHallways() {
	g.GenerateDungeonGraph()
	g.GenerateLineHallways()

	for _, hallway := range g.dungeon.Hallways() {
		hallway.SetRects(hallwayRects(hallway.Points(), g.cfg.HallwayWidth))
	}
	g.grid = nil
}

// hallwayRects превращает ломаную из 2-3 точек в 1-2 прямоугольника.
// Концы округляются вверх. Вертикальный участок идет первым, начало
// прямоугольника выбирается по направлению участка.
func hallwayRects(points []geometry.Point, width float64) []geometry.Rect {
	if len(points) < 2 {
		return nil
	}

	halfWidth := math.Ceil(width / 2)

	start, bend := points[0].RoundedUp(), points[1].RoundedUp()
	length := start.DistanceFrom(bend)

	var origin geometry.Point
	if geometry.DirectionFromPoint(start.DiffOf(bend)) == geometry.Down {
		origin = start.Offset(-halfWidth, 0)
	} else {
		origin = bend.Offset(-halfWidth, 0)
	}
	rects := []geometry.Rect{
		geometry.NewRect(origin, geometry.Size{Width: width, Height: length}),
	}

	if len(points) < 3 {
		return rects
	}

	end := points[2].RoundedUp()
	length = bend.DistanceFrom(end)

	if geometry.DirectionFromPoint(bend.DiffOf(end)) == geometry.Left {
		origin = bend.Offset(0, -halfWidth)
	} else {
		origin = end.Offset(0, -halfWidth)
	}
	return append(rects, geometry.NewRect(origin, geometry.Size{Width: length, Height: width}))
}
