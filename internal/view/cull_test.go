package view

import "testing"

func TestVisibleTiles_ClampExcludesOutOfRange(t *testing.T) {
	tiles := VisibleTiles(0, 0, 10, 10, 2, EdgeClamp)
	if len(tiles) != 9 { // 3x3 corner survives of the 5x5 window
		t.Fatalf("got %d tiles, want 9", len(tiles))
	}
	for _, c := range tiles {
		if c.X < 0 || c.X >= 10 || c.Y < 0 || c.Y >= 10 {
			t.Fatalf("clamped culling produced out-of-range tile (%d,%d)", c.X, c.Y)
		}
	}
}

func TestVisibleTiles_WrapIsToroidal(t *testing.T) {
	tiles := VisibleTiles(0, 0, 10, 10, 1, EdgeWrap)
	if len(tiles) != 9 {
		t.Fatalf("got %d tiles, want full 3x3 window", len(tiles))
	}
	// The north-west entry wraps to the far corner but keeps its draw offset.
	first := tiles[0]
	if first.X != 9 || first.Y != 9 || first.DX != -1 || first.DY != -1 {
		t.Fatalf("wrap corner: got %+v", first)
	}
}

func TestVisibleTiles_RowMajorOrder(t *testing.T) {
	tiles := VisibleTiles(5, 5, 20, 20, 3, EdgeClamp)
	for i := 1; i < len(tiles); i++ {
		prev, cur := tiles[i-1], tiles[i]
		if cur.Y < prev.Y || (cur.Y == prev.Y && cur.X <= prev.X) {
			t.Fatalf("not row-major at %d: %+v then %+v", i, prev, cur)
		}
	}
}

func TestVisibleTiles_Restartable(t *testing.T) {
	a := VisibleTiles(7, 3, 16, 16, 4, EdgeWrap)
	b := VisibleTiles(7, 3, 16, 16, 4, EdgeWrap)
	if len(a) != len(b) {
		t.Fatalf("length differs between runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestVisibleTiles_DegenerateInputs(t *testing.T) {
	if got := VisibleTiles(0, 0, 0, 5, 2, EdgeClamp); got != nil {
		t.Fatalf("zero-width map should cull to nothing, got %d", len(got))
	}
	if got := VisibleTiles(0, 0, 5, 5, -1, EdgeWrap); got != nil {
		t.Fatalf("negative radius should cull to nothing, got %d", len(got))
	}
}
