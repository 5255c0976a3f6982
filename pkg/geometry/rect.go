package geometry

import "math"

// Rect - прямоугольник с началом в Origin (минимальный угол) и размером Size.
//
// Все конструкторы нормализуют отрицательные ширину/высоту: начало
// сдвигается, размер берется по модулю. Поэтому у построенного через
// конструктор Rect размер всегда неотрицательный.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

func NewRect(origin Point, size Size) Rect {
	r := Rect{Origin: origin, Size: size}
	r.normalize()
	return r
}

func NewRectXYWH(x, y, width, height float64) Rect {
	return NewRect(Point{X: x, Y: y}, Size{Width: width, Height: height})
}

// NewRectCentered строит прямоугольник заданного размера вокруг центра.
func NewRectCentered(center Point, size Size) Rect {
	origin := Point{X: center.X - size.Width/2, Y: center.Y - size.Height/2}
	return NewRect(origin, size)
}

func (r *Rect) normalize() {
	if r.Size.Width < 0 {
		r.Origin.X += r.Size.Width
		r.Size.Width = math.Abs(r.Size.Width)
	}
	if r.Size.Height < 0 {
		r.Origin.Y += r.Size.Height
		r.Size.Height = math.Abs(r.Size.Height)
	}
}

func (r Rect) MinX() float64 { return r.Origin.X }
func (r Rect) MinY() float64 { return r.Origin.Y }
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// SetCenter двигает только Origin, размер не меняется.
func (r *Rect) SetCenter(center Point) {
	r.Origin = Point{X: center.X - r.Size.Width/2, Y: center.Y - r.Size.Height/2}
}

// End - противоположный Origin угол.
func (r Rect) End() Point {
	return r.Origin.OffsetBy(Point{X: r.Size.Width, Y: r.Size.Height})
}

func (r Rect) DiagonalLength() float64 {
	return r.Origin.DistanceFrom(r.End())
}

// Contains - полуоткрытая проверка: x ∈ [MinX, MaxX), y ∈ [MinY, MaxY).
// Точка на правой/нижней границе не принадлежит прямоугольнику.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() &&
		p.Y >= r.MinY() && p.Y < r.MaxY()
}

// ContainsRect истинно, если все четыре угла other лежат внутри r.
func (r Rect) ContainsRect(other Rect) bool {
	return r.Contains(other.Origin) &&
		r.Contains(Point{X: other.MaxX(), Y: other.MinY()}) &&
		r.Contains(Point{X: other.MaxX(), Y: other.MaxY()}) &&
		r.Contains(Point{X: other.MinX(), Y: other.MaxY()})
}

// Intersects - проверка по разделяющим осям на открытых интервалах.
// Касание гранями пересечением не считается.
func (r Rect) Intersects(other Rect) bool {
	return r.MinX() < other.MaxX() && other.MinX() < r.MaxX() &&
		r.MinY() < other.MaxY() && other.MinY() < r.MaxY()
}

// IntersectsLine проверяет только концы отрезка: истина, если хотя бы один
// из них строго внутри прямоугольника. Отрезок, который проходит насквозь
// без концов внутри, не обнаруживается.
func (r Rect) IntersectsLine(a, b Point) bool {
	return r.strictlyInside(a) || r.strictlyInside(b)
}

func (r Rect) strictlyInside(p Point) bool {
	return p.X > r.MinX() && p.X < r.MaxX() && p.Y > r.MinY() && p.Y < r.MaxY()
}

// Inset сжимает прямоугольник на inset с каждой стороны относительно центра.
// Отрицательное значение расширяет его.
func (r Rect) Inset(inset float64) Rect {
	size := Size{Width: r.Size.Width - inset*2, Height: r.Size.Height - inset*2}
	return NewRectCentered(r.Center(), size)
}

// Equal сравнивает размер и центр.
func (r Rect) Equal(other Rect) bool {
	return r.Size == other.Size && r.Center() == other.Center()
}

func (r Rect) String() string {
	return r.Origin.String() + "/" + r.Size.String()
}
