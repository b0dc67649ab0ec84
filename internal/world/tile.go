package world

// Coord is a tile grid coordinate, used to key per-tile lookups.
type Coord struct {
	X int
	Y int
}

// Tile is one grid cell of a game map. Terrain and ownership are
// server-authoritative; the client never derives profit, damage or cost
// locally, it only renders what the server sent.
type Tile struct {
	X       int
	Y       int
	Terrain Terrain
	// Variant is the auto-tile sub-shape. Meaningful only when
	// Terrain.AutoTileable(); empty for everything else.
	Variant string
	// OwnerID is the owning company id, 0 when unowned.
	OwnerID int
	Special SpecialBuilding
}

// Owned returns true if a company owns this tile.
func (t *Tile) Owned() bool { return t.OwnerID != 0 }

// BuildingInstance is a constructed building occupying exactly one tile.
type BuildingInstance struct {
	TileX     int
	TileY     int
	TypeID    string
	CompanyID int
	// DamagePct is in [0,100]; the renderer darkens the sprite in proportion.
	DamagePct int
	OnFire    bool
	Collapsed bool
	ForSale   bool
	SalePrice int64
}

// GameMap is a map's immutable metadata. Tiles are carried separately in a Grid.
type GameMap struct {
	ID           string
	Width        int
	Height       int
	Country      string
	LocationType string
	// HeroThreshold is the hero-condition percentage for this location.
	HeroThreshold int
}
