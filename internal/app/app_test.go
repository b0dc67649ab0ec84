package app

import (
	"strings"
	"testing"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/world"
)

func testMapTiles() *api.MapTiles {
	return &api.MapTiles{
		Map: api.MapPayload{ID: "m1", Width: 4, Height: 3, Country: "uk", LocationType: "city"},
		Tiles: []api.TilePayload{
			{X: 1, Y: 1, Terrain: "road", Variant: "crossroad"},
			{X: 2, Y: 1, Terrain: "water"},
			{X: 3, Y: 2, Terrain: "free_land", OwnerID: 9},
		},
		Buildings: []api.BuildingPayload{
			{X: 3, Y: 2, TypeID: "shop", CompanyID: 9, DamagePct: 40, OnFire: true},
			{X: 0, Y: 0, TypeID: "apartment", CompanyID: 2},
		},
	}
}

func TestBuildWorld(t *testing.T) {
	w := buildWorld(testMapTiles())

	if w.grid.Width != 4 || w.grid.Height != 3 {
		t.Fatalf("grid %dx%d", w.grid.Width, w.grid.Height)
	}
	if got := w.grid.At(1, 1); got.Terrain != world.TerrainRoad || got.Variant != "crossroad" {
		t.Fatalf("road tile not converted: %+v", got)
	}
	if got := w.grid.At(0, 2); got.Terrain != world.TerrainFreeLand {
		t.Fatalf("unlisted tile should default to free land, got %v", got.Terrain)
	}
	b := w.buildings[world.Coord{X: 3, Y: 2}]
	if b == nil || b.TypeID != "shop" || !b.OnFire {
		t.Fatalf("building not converted: %+v", b)
	}
}

func TestBuildingTypeIDs_SortedDistinct(t *testing.T) {
	w := buildWorld(testMapTiles())
	w.buildings[world.Coord{X: 1, Y: 0}] = &world.BuildingInstance{TypeID: "shop"}

	ids := buildingTypeIDs(w.buildings)
	if len(ids) != 2 || ids[0] != "apartment" || ids[1] != "shop" {
		t.Fatalf("ids %v", ids)
	}
}

func TestAssignOwnerColours_ActiveOwnerFirst(t *testing.T) {
	w := buildWorld(testMapTiles())

	colours := assignOwnerColours(w, 9)
	if colours[9] != ownerPalette[0] {
		t.Fatal("active company should take the first palette slot")
	}
	if _, ok := colours[2]; !ok {
		t.Fatal("building owner missing a colour")
	}
	if _, ok := colours[0]; ok {
		t.Fatal("owner id 0 is unowned and must not get a colour")
	}

	// Stable across rebuilds of the same world.
	again := assignOwnerColours(w, 9)
	for id, c := range colours {
		if again[id] != c {
			t.Fatalf("colour for owner %d changed between calls", id)
		}
	}
}

func TestTilePayloads_RoundTripsGrid(t *testing.T) {
	w := buildWorld(testMapTiles())
	w.grid.Paint(2, 2, world.TerrainRoad)

	payloads := tilePayloads(w.grid)
	if len(payloads) != 12 {
		t.Fatalf("expected one payload per tile, got %d", len(payloads))
	}

	byCoord := map[world.Coord]api.TilePayload{}
	for _, p := range payloads {
		byCoord[world.Coord{X: p.X, Y: p.Y}] = p
	}
	if p := byCoord[world.Coord{X: 2, Y: 2}]; p.Terrain != "road" || p.Variant == "" {
		t.Fatalf("painted road should carry its variant: %+v", p)
	}
	if p := byCoord[world.Coord{X: 3, Y: 2}]; p.OwnerID != 9 {
		t.Fatalf("owner lost on export: %+v", p)
	}
	if p := byCoord[world.Coord{X: 0, Y: 0}]; p.Terrain != "free_land" || p.Special != "" {
		t.Fatalf("empty tile export: %+v", p)
	}
}

func TestTileSummary(t *testing.T) {
	w := buildWorld(testMapTiles())

	lines := tileSummary(w.grid.At(3, 2), &api.TileDetail{OwnerName: "Acme Ltd"}, w.buildings)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"(3, 2)", "owner: Acme Ltd", "building: shop", "damage: 40%", "ON FIRE"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("summary missing %q:\n%s", want, joined)
		}
	}

	lines = tileSummary(w.grid.At(2, 1), nil, w.buildings)
	joined = strings.Join(lines, "\n")
	if !strings.Contains(joined, "water") || !strings.Contains(joined, "unclaimed") {
		t.Fatalf("water summary:\n%s", joined)
	}

	if got := tileSummary(nil, nil, nil); got != nil {
		t.Fatalf("nil tile should produce no lines, got %v", got)
	}
}

func TestPtIn(t *testing.T) {
	if !ptIn(5, 5, 0, 0, 10, 10) {
		t.Fatal("interior point")
	}
	if ptIn(10, 5, 0, 0, 10, 10) {
		t.Fatal("right edge is exclusive")
	}
	if ptIn(-1, 5, 0, 0, 10, 10) {
		t.Fatal("outside left")
	}
}

func TestTextBoxDisplay_Masked(t *testing.T) {
	tb := newTextBox("Password", true)
	tb.Value = "hunter2"
	if got := tb.display(); got != "*******" {
		t.Fatalf("masked display %q", got)
	}
	tb.Mask = false
	if got := tb.display(); got != "hunter2" {
		t.Fatalf("plain display %q", got)
	}
}
