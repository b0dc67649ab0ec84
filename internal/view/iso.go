package view

import "math"

// Isometric diamond projection. At zoom 1 a tile is baseTileSize px wide and
// baseTileSize/2 px tall on screen; the fixed 2:1 angle is baked into these
// ratios, no other rotation is supported.

// GridToScreen converts a tile coordinate relative to the camera centre tile
// into the screen position of the tile's diamond centre.
func GridToScreen(tileX, tileY int, screenCenterX, screenCenterY, zoom, baseTileSize float64) (float64, float64) {
	halfW := baseTileSize / 2 * zoom
	halfH := baseTileSize / 4 * zoom
	sx := screenCenterX + (float64(tileX)-float64(tileY))*halfW
	sy := screenCenterY + (float64(tileX)+float64(tileY))*halfH
	return sx, sy
}

// ScreenToGrid is the inverse of GridToScreen under the same centre, zoom and
// base tile size, rounding to the nearest tile.
func ScreenToGrid(screenX, screenY, screenCenterX, screenCenterY, zoom, baseTileSize float64) (int, int) {
	halfW := baseTileSize / 2 * zoom
	halfH := baseTileSize / 4 * zoom
	a := (screenX - screenCenterX) / halfW
	b := (screenY - screenCenterY) / halfH
	tx := math.Round((a + b) / 2)
	ty := math.Round((b - a) / 2)
	return int(tx), int(ty)
}
