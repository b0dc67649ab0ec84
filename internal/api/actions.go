package api

import (
	"context"
	"fmt"
	"net/http"
)

// Maps lists the maps the player can enter.
func (c *Client) Maps(ctx context.Context) ([]MapPayload, error) {
	var out struct {
		Maps []MapPayload `json:"maps"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/maps", nil, &out); err != nil {
		return nil, err
	}
	return out.Maps, nil
}

// MapTiles fetches the full tile and building state for one map.
func (c *Client) MapTiles(ctx context.Context, mapID string) (*MapTiles, error) {
	var out MapTiles
	if err := c.do(ctx, http.MethodGet, "/api/maps/"+mapID+"/tiles", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TileDetail looks up one tile, serving repeat reads for the selection panel
// from the client-side cache.
func (c *Client) TileDetail(ctx context.Context, mapID string, x, y int) (*TileDetail, error) {
	key := tileKey(mapID, x, y)
	if d, ok := c.tiles.Get(key); ok {
		return d, nil
	}
	var out TileDetail
	path := fmt.Sprintf("/api/maps/%s/tiles/%d/%d", mapID, x, y)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	c.tiles.SetWithTTL(key, &out, 1, tileCacheTTL)
	c.tiles.Wait()
	return &out, nil
}

type actionRequest struct {
	MapID string `json:"map_id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	// Optional per-action fields.
	TypeID    string `json:"type_id,omitempty"`
	Price     int64  `json:"price,omitempty"`
	Level     int    `json:"level,omitempty"`
	ToCompany int    `json:"to_company,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
}

// postAction runs one game action and invalidates the affected tile
// neighbourhood regardless of outcome; the server may have partially applied
// side effects even on a reported failure.
func (c *Client) postAction(ctx context.Context, name string, req actionRequest) (*ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, "/api/actions/"+name, req, &out)
	c.invalidateAround(req.MapID, req.X, req.Y)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Build constructs a building of the given type on an owned tile.
func (c *Client) Build(ctx context.Context, mapID string, x, y int, typeID string) (*ActionResult, error) {
	return c.postAction(ctx, "build", actionRequest{MapID: mapID, X: x, Y: y, TypeID: typeID})
}

// Demolish removes the building on a tile.
func (c *Client) Demolish(ctx context.Context, mapID string, x, y int) (*ActionResult, error) {
	return c.postAction(ctx, "demolish", actionRequest{MapID: mapID, X: x, Y: y})
}

// Buy purchases a tile or a listed building at the server's price.
func (c *Client) Buy(ctx context.Context, mapID string, x, y int) (*ActionResult, error) {
	return c.postAction(ctx, "buy", actionRequest{MapID: mapID, X: x, Y: y})
}

// Sell lists the building on a tile for the given price.
func (c *Client) Sell(ctx context.Context, mapID string, x, y int, price int64) (*ActionResult, error) {
	return c.postAction(ctx, "sell", actionRequest{MapID: mapID, X: x, Y: y, Price: price})
}

// Repair restores a damaged building.
func (c *Client) Repair(ctx context.Context, mapID string, x, y int) (*ActionResult, error) {
	return c.postAction(ctx, "repair", actionRequest{MapID: mapID, X: x, Y: y})
}

// Attack launches an attack on another company's building.
func (c *Client) Attack(ctx context.Context, mapID string, x, y int) (*ActionResult, error) {
	return c.postAction(ctx, "attack", actionRequest{MapID: mapID, X: x, Y: y})
}

// SetSecurity buys the given security level for a building.
func (c *Client) SetSecurity(ctx context.Context, mapID string, x, y, level int) (*ActionResult, error) {
	return c.postAction(ctx, "security", actionRequest{MapID: mapID, X: x, Y: y, Level: level})
}

// Transfer wires money to another company through the bank.
func (c *Client) Transfer(ctx context.Context, toCompany int, amount int64) (*ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, "/api/bank/transfer", actionRequest{ToCompany: toCompany, Amount: amount}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerationStatus polls the asset-generation queue for the admin tool. The
// pipeline itself runs server-side; the client only displays progress.
func (c *Client) GenerationStatus(ctx context.Context, jobID string) (*GenerationStatus, error) {
	var out GenerationStatus
	if err := c.do(ctx, http.MethodGet, "/api/generation/"+jobID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Admin map CRUD, used by the builder.

// CreateMap registers a new map shell.
func (c *Client) CreateMap(ctx context.Context, m MapPayload) (*MapPayload, error) {
	var out MapPayload
	if err := c.do(ctx, http.MethodPost, "/api/admin/maps", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMap edits map metadata.
func (c *Client) UpdateMap(ctx context.Context, m MapPayload) error {
	return c.do(ctx, http.MethodPut, "/api/admin/maps/"+m.ID, m, nil)
}

// UploadTiles bulk-saves authored terrain from the builder.
func (c *Client) UploadTiles(ctx context.Context, mapID string, tiles []TilePayload) error {
	body := struct {
		Tiles []TilePayload `json:"tiles"`
	}{Tiles: tiles}
	err := c.do(ctx, http.MethodPut, "/api/admin/maps/"+mapID+"/tiles", body, nil)
	if err == nil {
		c.tiles.Clear()
	}
	return err
}
