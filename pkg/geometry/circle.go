package geometry

type Circle struct {
	Center Point
	Radius float64
}

// CircleFittedTo возвращает описанную окружность прямоугольника
// (радиус - половина диагонали).
func CircleFittedTo(r Rect) Circle {
	return Circle{Center: r.Center(), Radius: r.DiagonalLength() / 2}
}

// Intersects - проверка "досягаемости": истина, когда
// (r1-r2)² <= d² <= (r1+r2)². Срабатывает и для касающихся,
// и для вложенных окружностей.
func (c Circle) Intersects(other Circle) bool {
	radiusDiff := (c.Radius - other.Radius) * (c.Radius - other.Radius)
	radiusSum := (c.Radius + other.Radius) * (c.Radius + other.Radius)

	dx := c.Center.X - other.Center.X
	dy := c.Center.Y - other.Center.Y
	centerDist := dx*dx + dy*dy

	return radiusDiff <= centerDist && centerDist <= radiusSum
}
