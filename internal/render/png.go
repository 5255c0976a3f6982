package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/RedECSEngine/RandomDungeonGenerator/internal/storage"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
)

var (
	colorBackground = color.RGBA{24, 24, 32, 255}
	colorRoom       = color.RGBA{200, 180, 120, 255}
	colorRoomEdge   = color.RGBA{120, 100, 60, 255}
	colorHallway    = color.RGBA{140, 140, 150, 255}
	colorRoute      = color.RGBA{220, 60, 60, 255}
)

// PNG рисует раскладку: коридоры, поверх них комнаты, поверх - ломаные
// маршрутов. Одна клетка карты - scale пикселей.
func PNG(path string, layout *storage.Layout, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("invalid scale %g", scale)
	}
	w := int(layout.Size.Width * scale)
	h := int(layout.Size.Height * scale)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty image for dungeon size %v", layout.Size)
	}

	m := image.NewRGBA(image.Rect(0, 0, w, h))
	gc := draw2dimg.NewGraphicContext(m)

	gc.SetFillColor(colorBackground)
	fillRect(gc, geometry.NewRect(geometry.Zero, layout.Size), scale)

	gc.SetLineWidth(1)
	gc.SetFillColor(colorHallway)
	gc.SetStrokeColor(colorHallway)
	for _, hallway := range layout.Hallways {
		for _, r := range hallway.Rects {
			fillRect(gc, r, scale)
		}
	}

	gc.SetFillColor(colorRoom)
	gc.SetStrokeColor(colorRoomEdge)
	for _, r := range layout.Rooms {
		fillRect(gc, r, scale)
	}

	gc.SetLineWidth(2)
	gc.SetStrokeColor(colorRoute)
	for _, hallway := range layout.Hallways {
		if len(hallway.Points) < 2 {
			continue
		}
		gc.MoveTo(hallway.Points[0].X*scale, hallway.Points[0].Y*scale)
		for _, p := range hallway.Points[1:] {
			gc.LineTo(p.X*scale, p.Y*scale)
		}
		gc.Stroke()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func fillRect(gc *draw2dimg.GraphicContext, r geometry.Rect, scale float64) {
	gc.MoveTo(r.MinX()*scale, r.MinY()*scale)
	gc.LineTo(r.MaxX()*scale, r.MinY()*scale)
	gc.LineTo(r.MaxX()*scale, r.MaxY()*scale)
	gc.LineTo(r.MinX()*scale, r.MaxY()*scale)
	gc.Close()
	gc.FillStroke()
}
