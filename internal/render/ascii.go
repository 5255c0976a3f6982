package render

import (
	"strings"

	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
)

const (
	GlyphFloor  = '#'
	GlyphEmpty  = '.'
	GlyphCenter = 'o'
)

// Rows возвращает карту построчно. markers - точки (например, центры
// комнат), которые рисуются поверх символом GlyphCenter.
func Rows(grid dungeon.Grid, markers ...geometry.Point) []string {
	rows := make([][]rune, grid.Height())
	for y := range rows {
		row := make([]rune, len(grid[y]))
		for x, cell := range grid[y] {
			if cell == dungeon.CellOccupied {
				row[x] = GlyphFloor
			} else {
				row[x] = GlyphEmpty
			}
		}
		rows[y] = row
	}

	for _, m := range markers {
		x, y := int(m.X), int(m.Y)
		if y >= 0 && y < len(rows) && x >= 0 && x < len(rows[y]) {
			rows[y][x] = GlyphCenter
		}
	}

	out := make([]string, len(rows))
	for y, row := range rows {
		out[y] = string(row)
	}
	return out
}

// ASCII - то же, что Rows, одной строкой с переводом строки после каждого ряда.
func ASCII(grid dungeon.Grid, markers ...geometry.Point) string {
	var sb strings.Builder
	for _, row := range Rows(grid, markers...) {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
