package view

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bakerboysgame/notropolis-client/internal/world"
)

// Minimap renders the whole map at a few pixels per tile with the camera's
// viewport rectangle on top, and resolves clicks back to tile coordinates
// for re-centring.
type Minimap struct {
	X int // screen position of the minimap panel
	Y int
	W int
	H int
}

// CellSize returns the pixels-per-tile scale for a grid, at least 1.
func (m *Minimap) CellSize(grid *world.Grid) int {
	if grid == nil || grid.Width == 0 || grid.Height == 0 {
		return 1
	}
	cw := m.W / grid.Width
	ch := m.H / grid.Height
	size := cw
	if ch < size {
		size = ch
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Contains reports whether a screen point is inside the minimap panel.
func (m *Minimap) Contains(px, py int) bool {
	return px >= m.X && px < m.X+m.W && py >= m.Y && py < m.Y+m.H
}

// TileAt resolves a screen point to the tile under it, false when outside
// the painted map area.
func (m *Minimap) TileAt(grid *world.Grid, px, py int) (int, int, bool) {
	if grid == nil || !m.Contains(px, py) {
		return 0, 0, false
	}
	size := m.CellSize(grid)
	tx := (px - m.X) / size
	ty := (py - m.Y) / size
	if tx >= grid.Width || ty >= grid.Height {
		return 0, 0, false
	}
	return tx, ty, true
}

// Draw paints the minimap: terrain colours, owner colours on owned tiles,
// and the camera viewport rectangle.
func (m *Minimap) Draw(dst *ebiten.Image, sc *Scene, cam *Camera, viewW, viewH int) {
	if sc == nil || sc.Grid == nil {
		return
	}
	size := m.CellSize(sc.Grid)

	vector.FillRect(dst, float32(m.X-2), float32(m.Y-2),
		float32(sc.Grid.Width*size+4), float32(sc.Grid.Height*size+4),
		color.RGBA{R: 10, G: 12, B: 10, A: 230}, false)

	for y := 0; y < sc.Grid.Height; y++ {
		for x := 0; x < sc.Grid.Width; x++ {
			tile := sc.Grid.At(x, y)
			var col color.RGBA
			if tile.Owned() {
				if c, ok := sc.OwnerColours[tile.OwnerID]; ok {
					col = c
				} else {
					col = defaultHighlight
				}
			} else {
				cr, cg, cb := tile.Terrain.FallbackColour()
				col = color.RGBA{R: cr, G: cg, B: cb, A: 255}
			}
			vector.FillRect(dst, float32(m.X+x*size), float32(m.Y+y*size), float32(size), float32(size), col, false)
		}
	}

	rx, ry, rw, rh := m.viewportRect(sc.Grid, cam, viewW, viewH)
	vector.StrokeRect(dst, rx, ry, rw, rh, 1.5,
		color.RGBA{R: 255, G: 255, B: 255, A: 200}, false)
}

// viewportRect computes the camera viewport rectangle in minimap pixels.
// The fractional pan offset folds into the centre so the rectangle tracks
// the view mid-drag, not just after the pan collapses into whole tiles.
func (m *Minimap) viewportRect(grid *world.Grid, cam *Camera, viewW, viewH int) (x, y, w, h float32) {
	size := float64(m.CellSize(grid))
	spanX := float64(viewW) / cam.TileScreenW()
	spanY := float64(viewH) / cam.TileScreenH()
	cx := float64(cam.CenterX) - cam.PanX/cam.TileScreenW()
	cy := float64(cam.CenterY) - cam.PanY/cam.TileScreenH()
	return float32(float64(m.X) + (cx-spanX/2)*size),
		float32(float64(m.Y) + (cy-spanY/2)*size),
		float32(spanX * size),
		float32(spanY * size)
}
