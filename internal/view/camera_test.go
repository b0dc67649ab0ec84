package view

import (
	"math"
	"testing"
)

func TestCamera_ZoomClamped(t *testing.T) {
	c := NewCamera(50, 50, 64, 0.5, 2.0, EdgeClamp)
	for i := 0; i < 200; i++ {
		c.ZoomBy(1)
	}
	if c.Zoom != 2.0 {
		t.Fatalf("zoom in: got %v, want clamp at 2.0", c.Zoom)
	}
	for i := 0; i < 200; i++ {
		c.ZoomBy(-1)
	}
	if c.Zoom != 0.5 {
		t.Fatalf("zoom out: got %v, want clamp at 0.5", c.Zoom)
	}
}

func TestCamera_ZoomDoesNotMoveCenter(t *testing.T) {
	c := NewCamera(50, 50, 64, 0.5, 4.0, EdgeClamp)
	c.CenterOn(10, 20)
	c.ZoomBy(3)
	c.ZoomBy(-5)
	if c.CenterX != 10 || c.CenterY != 20 {
		t.Fatalf("zoom moved the centre to (%d,%d)", c.CenterX, c.CenterY)
	}
}

func TestCamera_PanRecentersWholeTiles(t *testing.T) {
	c := NewCamera(50, 50, 64, 0.5, 2.0, EdgeClamp)
	c.CenterOn(25, 25)
	// One tile is 64px wide at zoom 1; dragging 70px right crosses one tile.
	c.ApplyPan(70, 0)
	if c.CenterX != 24 {
		t.Fatalf("centre should shift one tile west, got x=%d", c.CenterX)
	}
	if c.PanX != 0 {
		t.Fatalf("fractional pan should reset, got %v", c.PanX)
	}
}

func TestCamera_PanStaysBounded(t *testing.T) {
	c := NewCamera(500, 500, 64, 0.5, 2.0, EdgeWrap)
	for i := 0; i < 10000; i++ {
		c.ApplyPan(13, 7)
	}
	if math.Abs(c.PanX) > c.TileScreenW() || math.Abs(c.PanY) > c.TileScreenH() {
		t.Fatalf("pan offset unbounded after long drag: (%v,%v)", c.PanX, c.PanY)
	}
}

func TestCamera_EdgeClampedPanDropsMovement(t *testing.T) {
	c := NewCamera(50, 50, 64, 0.5, 2.0, EdgeClamp)
	c.CenterOn(0, 25)
	// Dragging the world right would move the centre past x=0: dropped, not stored.
	c.ApplyPan(40, 0)
	if c.PanX != 0 {
		t.Fatalf("out-of-bounds pan was stored: %v", c.PanX)
	}
	// Reversing direction works immediately, with no offset to unwind.
	c.ApplyPan(-10, 0)
	if c.PanX != -10 {
		t.Fatalf("in-bounds pan after reversal: got %v, want -10", c.PanX)
	}
}

func TestCamera_WrapPanCrossesSeam(t *testing.T) {
	c := NewCamera(20, 20, 64, 0.5, 2.0, EdgeWrap)
	c.CenterOn(0, 0)
	c.ApplyPan(70, 0) // one whole tile west of x=0 wraps to the far edge
	if c.CenterX != 19 {
		t.Fatalf("wrap pan: got x=%d, want 19", c.CenterX)
	}
}

func TestCamera_CenterOnClamps(t *testing.T) {
	c := NewCamera(30, 30, 64, 0.5, 2.0, EdgeClamp)
	c.CenterOn(-5, 99)
	if c.CenterX != 0 || c.CenterY != 29 {
		t.Fatalf("got (%d,%d), want (0,29)", c.CenterX, c.CenterY)
	}
}

func TestBaseTileSizeFor(t *testing.T) {
	if BaseTileSizeFor(800) != 48 {
		t.Fatal("narrow screens use the small tile size")
	}
	if BaseTileSizeFor(1280) != 64 {
		t.Fatal("wide screens use the full tile size")
	}
}
