package api

import "github.com/bakerboysgame/notropolis-client/internal/world"

// Wire payloads. The backend owns this contract; the client converts to the
// concrete world types at the edge and never passes raw maps around.

// TilePayload is one tile as the server sends it.
type TilePayload struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Terrain string `json:"terrain"`
	Variant string `json:"variant,omitempty"`
	OwnerID int    `json:"owner_id,omitempty"`
	Special string `json:"special,omitempty"`
}

// ToWorld converts the payload to a world.Tile. The variant is kept only for
// auto-tileable terrain, anything else reads as absent.
func (p TilePayload) ToWorld() world.Tile {
	t := world.Tile{
		X:       p.X,
		Y:       p.Y,
		Terrain: world.TerrainFromName(p.Terrain),
		OwnerID: p.OwnerID,
		Special: world.SpecialFromName(p.Special),
	}
	if t.Terrain.AutoTileable() {
		t.Variant = p.Variant
	}
	return t
}

// BuildingPayload is one constructed building as the server sends it.
type BuildingPayload struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	TypeID    string `json:"type_id"`
	CompanyID int    `json:"company_id"`
	DamagePct int    `json:"damage_pct"`
	OnFire    bool   `json:"on_fire"`
	Collapsed bool   `json:"collapsed"`
	ForSale   bool   `json:"for_sale"`
	SalePrice int64  `json:"sale_price,omitempty"`
}

// ToWorld converts the payload to a world.BuildingInstance.
func (p BuildingPayload) ToWorld() world.BuildingInstance {
	return world.BuildingInstance{
		TileX:     p.X,
		TileY:     p.Y,
		TypeID:    p.TypeID,
		CompanyID: p.CompanyID,
		DamagePct: p.DamagePct,
		OnFire:    p.OnFire,
		Collapsed: p.Collapsed,
		ForSale:   p.ForSale,
		SalePrice: p.SalePrice,
	}
}

// MapPayload is a game map's metadata.
type MapPayload struct {
	ID            string `json:"id"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Country       string `json:"country"`
	LocationType  string `json:"location_type"`
	HeroThreshold int    `json:"hero_threshold"`
}

// ToWorld converts the payload to a world.GameMap.
func (p MapPayload) ToWorld() world.GameMap {
	return world.GameMap{
		ID:            p.ID,
		Width:         p.Width,
		Height:        p.Height,
		Country:       p.Country,
		LocationType:  p.LocationType,
		HeroThreshold: p.HeroThreshold,
	}
}

// MapTiles is the bulk tile response for one map.
type MapTiles struct {
	Map       MapPayload        `json:"map"`
	Tiles     []TilePayload     `json:"tiles"`
	Buildings []BuildingPayload `json:"buildings"`
}

// TileDetail is the detail lookup for one tile.
type TileDetail struct {
	Tile      TilePayload      `json:"tile"`
	Building  *BuildingPayload `json:"building,omitempty"`
	OwnerName string           `json:"owner_name,omitempty"`
}

// ActionResult is what every game action POST returns: a success flag and
// the updated entities. The client never derives these values locally.
type ActionResult struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Tile     *TilePayload     `json:"tile,omitempty"`
	Building *BuildingPayload `json:"building,omitempty"`
	Balance  int64            `json:"balance,omitempty"`
}

// GenerationStatus is the asset-generation queue poll response.
type GenerationStatus struct {
	State        string `json:"state"` // queued | generating | ready | failed
	Position     int    `json:"position"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// LoginResponse carries the bearer token and the player's company.
type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	CompanyID int    `json:"company_id"`
}
