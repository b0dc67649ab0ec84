package view

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bakerboysgame/notropolis-client/internal/world"
)

// Scene is the committed state the compositor renders one frame from. It is
// rebuilt by the owning screen whenever server state or selection changes;
// the compositor itself holds no game state.
type Scene struct {
	Map       *world.GameMap
	Grid      *world.Grid
	Buildings map[world.Coord]*world.BuildingInstance

	SelectedX    int
	SelectedY    int
	HasSelection bool

	// ActiveCompany and Tracked select which owners get a tinted outline
	// behind their buildings; the tint resolves through OwnerColours.
	ActiveCompany int
	Tracked       map[int]bool
	OwnerColours  map[int]color.RGBA
}

// defaultHighlight is the outline tint for owners missing from OwnerColours.
var defaultHighlight = color.RGBA{R: 255, G: 214, B: 64, A: 255}

var backgroundFill = color.RGBA{R: 18, G: 22, B: 18, A: 255}

// Compositor draws one frame of the isometric city view as a pure function
// of the camera and a Scene. A missing sprite degrades to a flat-colour
// shape; no draw call may halt the frame.
type Compositor struct {
	Cam     *Camera
	Sprites *SpriteCache

	fillSrc *ebiten.Image // tiny white source for tint fills
	tintBuf *ebiten.Image // reused outline tint buffer
}

// NewCompositor wires a compositor to its camera and sprite cache. No
// textures are allocated until the first frame.
func NewCompositor(cam *Camera, sprites *SpriteCache) *Compositor {
	return &Compositor{Cam: cam, Sprites: sprites}
}

// Frame renders the scene to dst. The map centres in the viewW x viewH
// region at dst's top left; dst may be wider when a side panel overlays the
// rest. Screens must resolve clicks against the same viewport size they
// pass here, or picking drifts off the drawn tiles.
func (r *Compositor) Frame(dst *ebiten.Image, sc *Scene, viewW, viewH int) {
	if sc == nil || sc.Grid == nil {
		dst.Fill(backgroundFill)
		return
	}
	cx := float64(viewW)/2 + r.Cam.PanX
	cy := float64(viewH)/2 + r.Cam.PanY

	r.drawBackground(dst, dst.Bounds().Dx(), dst.Bounds().Dy())

	radius := int(math.Ceil((float64(viewW)/r.Cam.TileScreenW()+float64(viewH)/r.Cam.TileScreenH())/2)) + 2
	tiles := VisibleTiles(r.Cam.CenterX, r.Cam.CenterY, sc.Grid.Width, sc.Grid.Height, radius, r.Cam.Edge)

	for _, tc := range tiles {
		r.drawTile(dst, sc, tc, cx, cy)
	}
}

// drawBackground tile-paints the scrolling backdrop texture aligned to the
// pan offset so it wraps seamlessly while dragging.
func (r *Compositor) drawBackground(dst *ebiten.Image, w, h int) {
	bg, ok := r.Sprites.Get(KeyBackground)
	if !ok {
		dst.Fill(backgroundFill)
		return
	}
	bw := bg.Bounds().Dx()
	bh := bg.Bounds().Dy()
	if bw == 0 || bh == 0 {
		dst.Fill(backgroundFill)
		return
	}
	offX := int(r.Cam.PanX) % bw
	offY := int(r.Cam.PanY) % bh
	if offX > 0 {
		offX -= bw
	}
	if offY > 0 {
		offY -= bh
	}
	for y := offY; y < h; y += bh {
		for x := offX; x < w; x += bw {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			dst.DrawImage(bg, op)
		}
	}
}

func (r *Compositor) drawTile(dst *ebiten.Image, sc *Scene, tc TileCoord, cx, cy float64) {
	tile := sc.Grid.At(tc.X, tc.Y)
	if tile == nil {
		return
	}
	sx, sy := GridToScreen(tc.DX, tc.DY, cx, cy, r.Cam.Zoom, r.Cam.BaseTileSize)
	tileW := r.Cam.TileScreenW()
	tileH := r.Cam.TileScreenH()
	bottom := sy + tileH/2

	// Terrain layer. Free land is bare background.
	if tile.Terrain != world.TerrainFreeLand {
		if img, ok := r.Sprites.Get(TerrainKey(tile.Terrain, tile.Variant)); ok {
			r.drawAnchored(dst, img, sx, bottom, tileW)
		} else {
			cr, cg, cb := tile.Terrain.FallbackColour()
			vector.FillRect(dst, float32(sx-tileW/2), float32(sy-tileH/2), float32(tileW), float32(tileH),
				color.RGBA{R: cr, G: cg, B: cb, A: 255}, false)
		}
	}

	// Landmark layer.
	if tile.Special != world.SpecialNone {
		if img, ok := r.Sprites.Get(SpecialKey(tile.Special)); ok {
			r.drawAnchored(dst, img, sx, bottom, tileW)
		} else {
			cr, cg, cb := tile.Special.FallbackColour()
			vector.FillRect(dst, float32(sx-tileW/4), float32(bottom-tileH), float32(tileW/2), float32(tileH),
				color.RGBA{R: cr, G: cg, B: cb, A: 255}, false)
		}
	}

	// Building layer with outline, damage, fire and for-sale decorations.
	if b := sc.Buildings[world.Coord{X: tc.X, Y: tc.Y}]; b != nil {
		r.drawBuilding(dst, sc, b, sx, bottom, tileW, tileH)
	} else if tile.Owned() {
		// Claim stake on owned land with nothing built yet.
		if img, ok := r.Sprites.Get(KeyStake); ok {
			r.drawAnchored(dst, img, sx, bottom, tileW/3)
		} else {
			vector.FillRect(dst, float32(sx-2), float32(bottom-tileH*0.8), 4, float32(tileH*0.8),
				color.RGBA{R: 200, G: 170, B: 90, A: 255}, false)
		}
	}

	if sc.HasSelection && sc.SelectedX == tc.X && sc.SelectedY == tc.Y {
		if img, ok := r.Sprites.Get(KeySelection); ok {
			r.drawAnchored(dst, img, sx, bottom, tileW)
		} else {
			r.strokeDiamond(dst, sx, sy, tileW, tileH, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
}

func (r *Compositor) drawBuilding(dst *ebiten.Image, sc *Scene, b *world.BuildingInstance, sx, bottom, tileW, tileH float64) {
	img, ok := r.Sprites.Get(BuildingKey(b.TypeID))

	highlighted := b.CompanyID == sc.ActiveCompany || sc.Tracked[b.CompanyID]
	if highlighted && ok {
		r.drawOutline(dst, sc, b, img, sx, bottom, tileW)
	}

	if !ok {
		// Flat block fallback keyed by owner colour.
		col := r.ownerColour(sc, b.CompanyID)
		vector.FillRect(dst, float32(sx-tileW/4), float32(bottom-tileH*1.5), float32(tileW/2), float32(tileH*1.5), col, false)
	} else {
		op := &ebiten.DrawImageOptions{}
		scale := tileW / float64(img.Bounds().Dx())
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(sx-tileW/2, bottom-float64(img.Bounds().Dy())*scale)
		if b.Collapsed {
			op.ColorScale.Scale(0.45, 0.42, 0.40, 1)
		}
		dst.DrawImage(img, op)

		// Damage darkening: a second pass of the same sprite as a translucent
		// black silhouette, proportional to damage percent.
		if b.DamagePct > 0 {
			dark := &ebiten.DrawImageOptions{}
			dark.GeoM = op.GeoM
			dark.ColorScale.Scale(0, 0, 0, float32(b.DamagePct)/100*0.6)
			dst.DrawImage(img, dark)
		}
	}

	if b.OnFire {
		if fire, fok := r.Sprites.Get(KeyFire); fok {
			r.drawAnchored(dst, fire, sx, bottom-tileH/2, tileW*0.6)
		} else {
			vector.FillRect(dst, float32(sx-tileW/6), float32(bottom-tileH*1.2), float32(tileW/3), float32(tileH*0.5),
				color.RGBA{R: 235, G: 110, B: 30, A: 200}, false)
		}
	}
	if b.ForSale {
		if sale, sok := r.Sprites.Get(KeyForSale); sok {
			r.drawAnchored(dst, sale, sx+tileW/3, bottom, tileW/4)
		} else {
			r.strokeDiamond(dst, sx, bottom-tileH/2, tileW, tileH, color.RGBA{R: 80, G: 220, B: 120, A: 255})
		}
	}
}

// drawOutline composites the white silhouette outline filled with the owner
// tint and draws it behind the building. The outline asset is OutlinePad px
// larger on each side than the base sprite, scaled by the same factor.
func (r *Compositor) drawOutline(dst *ebiten.Image, sc *Scene, b *world.BuildingInstance, base *ebiten.Image, sx, bottom, tileW float64) {
	outline, ok := r.Sprites.Get(OutlineKey(b.TypeID))
	if !ok {
		return
	}
	ow := outline.Bounds().Dx()
	oh := outline.Bounds().Dy()
	if ow == 0 || oh == 0 {
		return
	}

	if r.fillSrc == nil {
		r.fillSrc = ebiten.NewImage(3, 3)
		r.fillSrc.Fill(color.White)
	}
	if r.tintBuf == nil || r.tintBuf.Bounds().Dx() != ow || r.tintBuf.Bounds().Dy() != oh {
		r.tintBuf = ebiten.NewImage(ow, oh)
	}
	r.tintBuf.Clear()
	r.tintBuf.DrawImage(outline, nil)

	// Fill inside the existing alpha with the owner tint.
	tint := r.ownerColour(sc, b.CompanyID)
	fill := &ebiten.DrawImageOptions{}
	fill.GeoM.Scale(float64(ow)/3, float64(oh)/3)
	fill.Blend = ebiten.BlendSourceIn
	fill.ColorScale.ScaleWithColor(tint)
	r.tintBuf.DrawImage(r.fillSrc, fill)

	scale := tileW / float64(base.Bounds().Dx())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(sx-tileW/2-OutlinePad*scale, bottom+OutlinePad*scale-float64(oh)*scale)
	dst.DrawImage(r.tintBuf, op)
}

func (r *Compositor) ownerColour(sc *Scene, companyID int) color.RGBA {
	if c, ok := sc.OwnerColours[companyID]; ok {
		return c
	}
	return defaultHighlight
}

func (r *Compositor) strokeDiamond(dst *ebiten.Image, cx, cy, w, h float64, col color.RGBA) {
	hw := float32(w / 2)
	hh := float32(h / 2)
	x := float32(cx)
	y := float32(cy)
	vector.StrokeLine(dst, x, y-hh, x+hw, y, 2, col, false)
	vector.StrokeLine(dst, x+hw, y, x, y+hh, 2, col, false)
	vector.StrokeLine(dst, x, y+hh, x-hw, y, 2, col, false)
	vector.StrokeLine(dst, x-hw, y, x, y-hh, 2, col, false)
}

// drawAnchored draws img scaled to targetW wide with its bottom centre at
// (cx, bottom).
func (r *Compositor) drawAnchored(dst *ebiten.Image, img *ebiten.Image, cx, bottom, targetW float64) {
	iw := img.Bounds().Dx()
	ih := img.Bounds().Dy()
	if iw == 0 || ih == 0 {
		return
	}
	scale := targetW / float64(iw)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx-targetW/2, bottom-float64(ih)*scale)
	dst.DrawImage(img, op)
}
