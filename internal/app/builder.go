package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/view"
	"github.com/bakerboysgame/notropolis-client/internal/world"
)

// builderZoomMin/Max: the builder zooms further out than the city view so a
// whole large map fits on screen while laying roads.
const (
	builderZoomMin = 0.5
	builderZoomMax = 4.0
)

// paletteTerrains is the paint palette order. Free land acts as the eraser.
var paletteTerrains = []world.Terrain{
	world.TerrainFreeLand,
	world.TerrainWater,
	world.TerrainRoad,
	world.TerrainDirtTrack,
	world.TerrainTrees,
	world.TerrainRocks,
}

// builderScreen is the map editor: terrain painting with live auto-tile
// re-evaluation, bulk save to the server and a clipboard JSON export.
type builderScreen struct {
	app   *App
	world *loadedWorld

	cam     *view.Camera
	comp    *view.Compositor
	tracker *view.PointerTracker
	scene   view.Scene

	brush    world.Terrain
	painting bool
	dirty    bool

	saving   bool
	saveRes  chan error
	status   string
	statusAt time.Time

	paletteBtns []*button
	saveBtn     *button
	exportBtn   *button
	backBtn     *button
}

func newBuilderScreen(a *App, w *loadedWorld) *builderScreen {
	edge := view.EdgeClamp
	if a.cfg.WrapEdges {
		edge = view.EdgeWrap
	}
	cam := view.NewCamera(w.gameMap.Width, w.gameMap.Height,
		view.BaseTileSizeFor(a.w), builderZoomMin, builderZoomMax, edge)

	s := &builderScreen{
		app:     a,
		world:   w,
		cam:     cam,
		comp:    view.NewCompositor(cam, w.sprites),
		tracker: view.NewPointerTracker(),
		brush:   world.TerrainRoad,
		saveRes: make(chan error, 1),
	}
	s.scene = view.Scene{
		Map:          &w.gameMap,
		Grid:         w.grid,
		Buildings:    w.buildings,
		Tracked:      map[int]bool{},
		OwnerColours: assignOwnerColours(w, a.companyID),
	}
	return s
}

func (s *builderScreen) layout() {
	x := 12
	y := 40
	s.paletteBtns = s.paletteBtns[:0]
	for _, t := range paletteTerrains {
		label := t.String()
		if t == world.TerrainFreeLand {
			label = "erase"
		}
		s.paletteBtns = append(s.paletteBtns, &button{Label: label, X: x, Y: y, W: 120, H: 28})
		y += 34
	}
	y += 10
	s.saveBtn = &button{Label: "Save", X: x, Y: y, W: 120, H: 30, Disabled: s.saving || !s.dirty}
	s.exportBtn = &button{Label: "Copy JSON", X: x, Y: y + 38, W: 120, H: 30}
	s.backBtn = &button{Label: "Back", X: x, Y: y + 76, W: 120, H: 30}
}

func (s *builderScreen) update() error {
	s.layout()

	select {
	case err := <-s.saveRes:
		s.saving = false
		if errors.Is(err, api.ErrUnauthorized) {
			s.app.showLogin("session expired, sign in again")
			return nil
		}
		if err != nil {
			s.setStatus(api.UserMessage(err))
		} else {
			s.dirty = false
			s.setStatus("map saved")
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.app.showCity(s.world)
		return nil
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		s.cam.ZoomBy(wy)
	}

	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if !s.uiClick(mx, my) {
			s.painting = true
			s.paintAt(mx, my)
		}
	}
	if s.painting {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			s.paintAt(mx, my)
		} else {
			s.painting = false
		}
	}

	// Right-drag pans; painting and panning never mix.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		s.tracker.Begin(float64(mx), float64(my))
	}
	if s.tracker.Dragging() {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
			dx, dy := s.tracker.Move(float64(mx), float64(my))
			s.cam.ApplyPan(dx, dy)
		} else {
			s.tracker.End()
		}
	}
	return nil
}

// uiClick handles palette and command buttons; it reports whether the click
// landed on any of them.
func (s *builderScreen) uiClick(mx, my int) bool {
	for i, b := range s.paletteBtns {
		if b.hit(mx, my) {
			s.brush = paletteTerrains[i]
			return true
		}
	}
	switch {
	case s.saveBtn.hit(mx, my):
		s.save()
		return true
	case s.exportBtn.hit(mx, my):
		s.export()
		return true
	case s.backBtn.hit(mx, my):
		s.app.showCity(s.world)
		return true
	}
	return false
}

func (s *builderScreen) paintAt(mx, my int) {
	tx, ty := s.cam.ScreenToTile(float64(mx), float64(my), float64(s.app.w)/2, float64(s.app.h)/2)
	if !s.world.grid.InBounds(tx, ty) {
		return
	}
	tile := s.world.grid.At(tx, ty)
	if tile.Terrain == s.brush {
		return
	}
	if s.brush == world.TerrainFreeLand {
		s.world.grid.Erase(tx, ty)
	} else {
		s.world.grid.Paint(tx, ty, s.brush)
	}
	s.dirty = true
}

// tilePayloads flattens a grid back to the wire form for save and export.
func tilePayloads(g *world.Grid) []api.TilePayload {
	out := make([]api.TilePayload, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.At(x, y)
			out = append(out, api.TilePayload{
				X:       t.X,
				Y:       t.Y,
				Terrain: t.Terrain.String(),
				Variant: t.Variant,
				OwnerID: t.OwnerID,
				Special: t.Special.String(),
			})
		}
	}
	return out
}

func (s *builderScreen) save() {
	if s.saving || !s.dirty {
		return
	}
	s.saving = true
	s.setStatus("saving...")
	tiles := tilePayloads(s.world.grid)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.saveRes <- s.app.api.UploadTiles(ctx, s.world.gameMap.ID, tiles)
	}()
}

// export copies the whole map as JSON, the same payload the save sends.
func (s *builderScreen) export() {
	doc := api.MapTiles{
		Map: api.MapPayload{
			ID:            s.world.gameMap.ID,
			Width:         s.world.gameMap.Width,
			Height:        s.world.gameMap.Height,
			Country:       s.world.gameMap.Country,
			LocationType:  s.world.gameMap.LocationType,
			HeroThreshold: s.world.gameMap.HeroThreshold,
		},
		Tiles: tilePayloads(s.world.grid),
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.setStatus("export failed")
		return
	}
	if err := clipboard.WriteAll(string(b)); err != nil {
		s.setStatus("clipboard unavailable")
		return
	}
	s.setStatus("map JSON copied")
}

func (s *builderScreen) setStatus(msg string) {
	s.status = msg
	s.statusAt = time.Now()
}

func (s *builderScreen) draw(dst *ebiten.Image) {
	s.comp.Frame(dst, &s.scene, s.app.w, s.app.h)

	// Palette panel backdrop.
	vector.FillRect(dst, 6, 30, 132, float32(len(s.paletteBtns)*34+130), panelFill, false)
	for i, b := range s.paletteBtns {
		b.draw(dst)
		if paletteTerrains[i] == s.brush {
			vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, focusBorder, false)
		}
	}
	s.saveBtn.draw(dst)
	s.exportBtn.draw(dst)
	s.backBtn.draw(dst)

	if s.status != "" && time.Since(s.statusAt) < 4*time.Second {
		text.Draw(dst, s.status, uiFace, 12, s.app.h-16, textColour)
	}

	hud := fmt.Sprintf("builder  zoom %.2fx  [Esc] back", s.cam.Zoom)
	if s.dirty {
		hud += "  *unsaved"
	}
	ebitenutil.DebugPrintAt(dst, hud, 150, 8)
}
