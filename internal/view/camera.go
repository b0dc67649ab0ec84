package view

import "math"

// zoomStep is the multiplicative zoom change applied per wheel notch.
const zoomStep = 1.12

// Camera holds the ephemeral view state for one mounted map view: centre
// tile, clamped zoom and the fractional pixel pan offset. It is recreated per
// view and never shared between views.
type Camera struct {
	CenterX      int
	CenterY      int
	Zoom         float64
	PanX         float64 // fractional pixel pan, kept within one tile by recentring
	PanY         float64
	BaseTileSize float64
	MinZoom      float64
	MaxZoom      float64
	MapW         int
	MapH         int
	Edge         EdgePolicy
}

// NewCamera creates a camera centred on the map.
func NewCamera(mapW, mapH int, baseTileSize, minZoom, maxZoom float64, edge EdgePolicy) *Camera {
	return &Camera{
		CenterX:      mapW / 2,
		CenterY:      mapH / 2,
		Zoom:         1.0,
		BaseTileSize: baseTileSize,
		MinZoom:      minZoom,
		MaxZoom:      maxZoom,
		MapW:         mapW,
		MapH:         mapH,
		Edge:         edge,
	}
}

// TileScreenW returns the on-screen width of one tile at the current zoom.
func (c *Camera) TileScreenW() float64 { return c.BaseTileSize * c.Zoom }

// TileScreenH returns the on-screen height of one tile diamond.
func (c *Camera) TileScreenH() float64 { return c.BaseTileSize / 2 * c.Zoom }

// ZoomBy applies wheel notches, multiplicative per notch, clamped to the
// view's range. Zooming never moves the camera centre.
func (c *Camera) ZoomBy(notches float64) {
	if notches == 0 {
		return
	}
	c.Zoom *= math.Pow(zoomStep, notches)
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// ApplyPan accumulates a drag delta into the pan offset. On a clamped map,
// movement in a direction the camera cannot go any further is dropped rather
// than stored, so reversing direction never has to unwind a large offset.
// Whenever the accumulated offset exceeds one tile's screen size the centre
// tile shifts by the whole-tile delta and the fractional offset resets, which
// keeps the offset numerically bounded over long drags.
func (c *Camera) ApplyPan(dx, dy float64) {
	if c.Edge == EdgeClamp {
		// Dragging the world right (dx > 0) moves the centre west.
		if (dx > 0 && c.CenterX <= 0) || (dx < 0 && c.CenterX >= c.MapW-1) {
			dx = 0
		}
		if (dy > 0 && c.CenterY <= 0) || (dy < 0 && c.CenterY >= c.MapH-1) {
			dy = 0
		}
	}
	c.PanX += dx
	c.PanY += dy
	c.recenter()
}

// recenter folds whole-tile pan overflow into the centre tile.
func (c *Camera) recenter() {
	tw := c.TileScreenW()
	th := c.TileScreenH()
	if tw <= 0 || th <= 0 {
		return
	}
	shiftX := int(c.PanX / tw)
	shiftY := int(c.PanY / th)
	if shiftX == 0 && shiftY == 0 {
		return
	}
	c.CenterX -= shiftX
	c.CenterY -= shiftY
	if shiftX != 0 {
		c.PanX = 0
	}
	if shiftY != 0 {
		c.PanY = 0
	}
	c.clampCenter()
}

// CenterOn moves the camera centre to a tile, resetting any fractional pan.
func (c *Camera) CenterOn(x, y int) {
	c.CenterX = x
	c.CenterY = y
	c.PanX = 0
	c.PanY = 0
	c.clampCenter()
}

func (c *Camera) clampCenter() {
	switch c.Edge {
	case EdgeWrap:
		c.CenterX = wrapMod(c.CenterX, c.MapW)
		c.CenterY = wrapMod(c.CenterY, c.MapH)
	default:
		if c.CenterX < 0 {
			c.CenterX = 0
		}
		if c.CenterX > c.MapW-1 {
			c.CenterX = c.MapW - 1
		}
		if c.CenterY < 0 {
			c.CenterY = 0
		}
		if c.CenterY > c.MapH-1 {
			c.CenterY = c.MapH - 1
		}
	}
}

// ScreenToTile resolves a screen position to the tile under it, given the
// viewport centre the camera renders at.
func (c *Camera) ScreenToTile(screenX, screenY, viewCenterX, viewCenterY float64) (int, int) {
	relX, relY := ScreenToGrid(screenX, screenY, viewCenterX+c.PanX, viewCenterY+c.PanY, c.Zoom, c.BaseTileSize)
	x := c.CenterX + relX
	y := c.CenterY + relY
	if c.Edge == EdgeWrap {
		return wrapMod(x, c.MapW), wrapMod(y, c.MapH)
	}
	return x, y
}

// BaseTileSizeFor picks the responsive base tile size for a screen width.
func BaseTileSizeFor(screenW int) float64 {
	if screenW < 900 {
		return 48
	}
	return 64
}
