package dungeon

import "github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"

const (
	CellEmpty    = 0
	CellOccupied = 1
)

// Grid - карта занятости, grid[y][x]. 0 - пусто, 1 - комната или коридор.
type Grid [][]int

func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	grid := make(Grid, height)
	for y := range grid {
		grid[y] = make([]int, width)
	}
	return grid
}

func (g Grid) Height() int { return len(g) }

func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At возвращает CellEmpty для координат за пределами сетки.
func (g Grid) At(x, y int) int {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return CellEmpty
	}
	return g[y][x]
}

func (g Grid) Occupied(x, y int) bool {
	return g.At(x, y) == CellOccupied
}

// OccupiedCount - число занятых клеток.
func (g Grid) OccupiedCount() int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == CellOccupied {
				n++
			}
		}
	}
	return n
}

func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	clone := make(Grid, len(g))
	for y, row := range g {
		clone[y] = append([]int(nil), row...)
	}
	return clone
}

func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(other[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Rasterize помечает все целые клетки [x0, x0+w) × [y0, y0+h) каждого
// прямоугольника. Всё, что выходит за сетку, молча отсекается.
func Rasterize(size geometry.Size, rects []geometry.Rect) Grid {
	width, height := int(size.Width), int(size.Height)
	grid := NewGrid(width, height)

	for _, rect := range rects {
		x0 := clamp(int(rect.Origin.X), 0, width)
		x1 := clamp(int(rect.Origin.X+rect.Size.Width), 0, width)
		y0 := clamp(int(rect.Origin.Y), 0, height)
		y1 := clamp(int(rect.Origin.Y+rect.Size.Height), 0, height)

		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				grid[y][x] = CellOccupied
			}
		}
	}
	return grid
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// To2DGrid растеризует комнаты и коридоры в сетку размером DungeonSize.
// Результат кэшируется: повторные вызовы без GenerateRooms возвращают
// ту же карту. Каждый вызов отдает копию, кэш снаружи не изменить.
func (g *Generator[R, H]) To2DGrid() Grid {
	if g.grid != nil {
		return g.grid.Clone()
	}

	rects := make([]geometry.Rect, 0, len(g.layoutRooms))
	for _, room := range g.layoutRooms {
		rects = append(rects, room.Rect())
	}
	if g.dungeon != nil {
		for _, hallway := range g.dungeon.Hallways() {
			rects = append(rects, hallway.Rects()...)
		}
	}

	g.grid = Rasterize(g.cfg.DungeonSize, rects)
	return g.grid.Clone()
}
