package world

import "testing"

func TestGrid_Bounds(t *testing.T) {
	g := NewGrid(4, 3)
	if !g.InBounds(0, 0) || !g.InBounds(3, 2) {
		t.Fatal("corners should be in bounds")
	}
	if g.InBounds(4, 0) || g.InBounds(0, 3) || g.InBounds(-1, 0) {
		t.Fatal("out-of-range coordinates should be out of bounds")
	}
	if g.At(4, 0) != nil {
		t.Fatal("At out of bounds should return nil")
	}
	if g.TerrainAt(-1, -1) != TerrainFreeLand {
		t.Fatal("out-of-bounds terrain should read as free land")
	}
}

func TestGrid_TileCoordinates(t *testing.T) {
	g := NewGrid(5, 4)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tile := g.At(x, y)
			if tile.X != x || tile.Y != y {
				t.Fatalf("tile at (%d,%d) carries (%d,%d)", x, y, tile.X, tile.Y)
			}
		}
	}
}

func TestGrid_NeighboursNoWraparound(t *testing.T) {
	g := NewGrid(6, 6)
	g.Paint(0, 0, TerrainRoad)
	g.Paint(5, 0, TerrainRoad)
	g.Paint(0, 5, TerrainRoad)

	// Corner tiles must not see same-type tiles on the far edge.
	if m := g.Neighbours(0, 0, TerrainRoad); m != 0 {
		t.Fatalf("(0,0) mask %04b, want none", m)
	}
	if m := g.Neighbours(5, 0, TerrainRoad); m != 0 {
		t.Fatalf("(5,0) mask %04b, want none", m)
	}
}

func TestGrid_RefreshAllVariants(t *testing.T) {
	g := NewGrid(10, 10)
	// Write terrain directly, as a bulk server load would, then refresh.
	for x := 2; x <= 6; x++ {
		g.At(x, 4).Terrain = TerrainRoad
	}
	g.RefreshAllVariants()

	if v := g.At(2, 4).Variant; v != VariantDeadEndW {
		t.Fatalf("west end: got %q, want %q", v, VariantDeadEndW)
	}
	if v := g.At(4, 4).Variant; v != VariantStraightEW {
		t.Fatalf("middle: got %q, want %q", v, VariantStraightEW)
	}
	if v := g.At(6, 4).Variant; v != VariantDeadEndE {
		t.Fatalf("east end: got %q, want %q", v, VariantDeadEndE)
	}
}

func TestTerrainNameRoundTrip(t *testing.T) {
	for terr := TerrainFreeLand; terr < terrainCount; terr++ {
		if got := TerrainFromName(terr.String()); got != terr {
			t.Fatalf("terrain %d name %q round-tripped to %d", terr, terr.String(), got)
		}
	}
	if got := TerrainFromName("volcano"); got != TerrainFreeLand {
		t.Fatalf("unknown name should map to free land, got %d", got)
	}
}
