package view

// EdgePolicy selects how the camera and culling treat map edges. The city
// view clamps, the world map wraps; one renderer serves both.
type EdgePolicy uint8

const (
	EdgeClamp EdgePolicy = iota // coordinates outside the map are excluded
	EdgeWrap                    // coordinates wrap modulo the map size (toroidal)
)

// TileCoord is a culled tile position paired with the camera-relative offset
// it should be drawn at. For a wrapping map X,Y are the wrapped storage
// coordinates while DX,DY keep the unwrapped draw offset.
type TileCoord struct {
	X, Y   int
	DX, DY int
}

// VisibleTiles returns the tiles within radius of the centre tile, row-major
// (y ascending, then x ascending) so overlapping sprites paint back-to-front
// in a stable order. The sequence is finite and recomputed per render.
func VisibleTiles(centerX, centerY, mapW, mapH, radius int, policy EdgePolicy) []TileCoord {
	if mapW <= 0 || mapH <= 0 || radius < 0 {
		return nil
	}
	out := make([]TileCoord, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x := centerX + dx
			y := centerY + dy
			switch policy {
			case EdgeWrap:
				out = append(out, TileCoord{X: wrapMod(x, mapW), Y: wrapMod(y, mapH), DX: dx, DY: dy})
			default:
				if x < 0 || x >= mapW || y < 0 || y >= mapH {
					continue
				}
				out = append(out, TileCoord{X: x, Y: y, DX: dx, DY: dy})
			}
		}
	}
	return out
}

// wrapMod is a modulo that stays non-negative for negative inputs.
func wrapMod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
