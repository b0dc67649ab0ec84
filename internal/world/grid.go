package world

// Grid is the client-side tile store for one map, row-major like the server
// sends it: index = y*Width + x.
type Grid struct {
	Width  int
	Height int
	Tiles  []Tile
}

// NewGrid creates a grid of free land.
func NewGrid(width, height int) *Grid {
	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i].X = i % width
		tiles[i].Y = i / width
	}
	return &Grid{Width: width, Height: height, Tiles: tiles}
}

// InBounds returns true if (x, y) is within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns a pointer to the tile at (x, y), or nil if out of bounds.
func (g *Grid) At(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.Tiles[y*g.Width+x]
}

// TerrainAt returns the terrain at (x, y). Out-of-bounds reads as free land.
func (g *Grid) TerrainAt(x, y int) Terrain {
	if !g.InBounds(x, y) {
		return TerrainFreeLand
	}
	return g.Tiles[y*g.Width+x].Terrain
}

// sameTerrain reports whether (x, y) holds the given terrain. Out-of-bounds
// never matches, so map edges read as missing neighbours.
func (g *Grid) sameTerrain(x, y int, t Terrain) bool {
	return g.InBounds(x, y) && g.Tiles[y*g.Width+x].Terrain == t
}

// Neighbours returns the same-type adjacency record for (x, y).
// Grid north is +y and east is +x.
func (g *Grid) Neighbours(x, y int, t Terrain) NeighbourMask {
	var m NeighbourMask
	if g.sameTerrain(x, y+1, t) {
		m |= NeighbourNorth
	}
	if g.sameTerrain(x+1, y, t) {
		m |= NeighbourEast
	}
	if g.sameTerrain(x, y-1, t) {
		m |= NeighbourSouth
	}
	if g.sameTerrain(x-1, y, t) {
		m |= NeighbourWest
	}
	return m
}

// Paint sets the terrain at (x, y) and refreshes auto-tile variants for the
// tile and its four direct neighbours. Only adjacency within distance 1 can
// change any tile's variant, so nothing further is touched.
func (g *Grid) Paint(x, y int, t Terrain) {
	tile := g.At(x, y)
	if tile == nil {
		return
	}
	tile.Terrain = t
	g.refreshVariantAround(x, y)
}

// Erase resets the tile at (x, y) to free land and refreshes neighbours.
func (g *Grid) Erase(x, y int) {
	g.Paint(x, y, TerrainFreeLand)
}

func (g *Grid) refreshVariantAround(x, y int) {
	g.refreshVariant(x, y)
	g.refreshVariant(x, y+1)
	g.refreshVariant(x+1, y)
	g.refreshVariant(x, y-1)
	g.refreshVariant(x-1, y)
}

func (g *Grid) refreshVariant(x, y int) {
	tile := g.At(x, y)
	if tile == nil {
		return
	}
	if !tile.Terrain.AutoTileable() {
		tile.Variant = ""
		return
	}
	tile.Variant = SelectVariant(tile.Terrain, g.Neighbours(x, y, tile.Terrain))
}

// RefreshAllVariants recomputes every auto-tile variant, used after a bulk
// tile load from the server.
func (g *Grid) RefreshAllVariants() {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.refreshVariant(x, y)
		}
	}
}
