package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/view"
	"github.com/bakerboysgame/notropolis-client/internal/world"
)

const panelW = 260

// cityZoomMin/Max bound the city view zoom range.
const (
	cityZoomMin = 0.5
	cityZoomMax = 2.0
)

// ownerPalette colours company holdings on the map and minimap. Owners are
// assigned colours in first-seen order; overflow reuses the palette.
var ownerPalette = []color.RGBA{
	{R: 239, G: 83, B: 80, A: 255},
	{R: 66, G: 165, B: 245, A: 255},
	{R: 102, G: 187, B: 106, A: 255},
	{R: 255, G: 167, B: 38, A: 255},
	{R: 171, G: 71, B: 188, A: 255},
	{R: 38, G: 198, B: 218, A: 255},
}

type detailOutcome struct {
	x, y   int
	detail *api.TileDetail
	err    error
}

type actionOutcome struct {
	verb   string
	x, y   int
	result *api.ActionResult
	err    error
}

// cityScreen is the main play view: the isometric map, the minimap and the
// tile panel with the game actions. One action may be in flight at a time;
// the buttons disable until its outcome lands.
type cityScreen struct {
	app   *App
	world *loadedWorld

	cam     *view.Camera
	comp    *view.Compositor
	tracker *view.PointerTracker
	mini    view.Minimap
	scene   view.Scene

	detail    *api.TileDetail
	detailFor world.Coord
	details   chan detailOutcome

	pending  bool
	outcomes chan actionOutcome
	banner   string
	bannerAt time.Time

	buildTypes []string
	buildIdx   int
	security   int
	priceBox   *textBox

	buttons []*button
}

func newCityScreen(a *App, w *loadedWorld) *cityScreen {
	edge := view.EdgeClamp
	if a.cfg.WrapEdges {
		edge = view.EdgeWrap
	}
	cam := view.NewCamera(w.gameMap.Width, w.gameMap.Height,
		view.BaseTileSizeFor(a.w), cityZoomMin, cityZoomMax, edge)

	types := buildingTypeIDs(w.buildings)
	if len(types) == 0 {
		types = []string{"shack"}
	}

	s := &cityScreen{
		app:        a,
		world:      w,
		cam:        cam,
		comp:       view.NewCompositor(cam, w.sprites),
		tracker:    view.NewPointerTracker(),
		details:    make(chan detailOutcome, 4),
		outcomes:   make(chan actionOutcome, 4),
		buildTypes: types,
		priceBox:   newTextBox("Asking price", false),
	}
	s.priceBox.Value = "1000"
	s.scene = view.Scene{
		Map:           &w.gameMap,
		Grid:          w.grid,
		Buildings:     w.buildings,
		ActiveCompany: a.companyID,
		Tracked:       map[int]bool{},
		OwnerColours:  assignOwnerColours(w, a.companyID),
	}
	return s
}

// assignOwnerColours gives the active company the first palette slot, then
// every other owner on the map a stable colour.
func assignOwnerColours(w *loadedWorld, active int) map[int]color.RGBA {
	colours := map[int]color.RGBA{}
	next := 0
	take := func(id int) {
		if id == 0 {
			return
		}
		if _, ok := colours[id]; ok {
			return
		}
		colours[id] = ownerPalette[next%len(ownerPalette)]
		next++
	}
	take(active)
	for y := 0; y < w.grid.Height; y++ {
		for x := 0; x < w.grid.Width; x++ {
			take(w.grid.At(x, y).OwnerID)
		}
	}
	for _, b := range w.buildings {
		take(b.CompanyID)
	}
	return colours
}

func (s *cityScreen) layout() {
	s.mini = view.Minimap{X: 12, Y: s.app.h - 12 - 160, W: 160, H: 160}
}

func (s *cityScreen) viewW() int { return s.app.w - panelW }

func (s *cityScreen) update() error {
	s.layout()
	s.drain()

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.app.showBuilder(s.world)
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.scene.HasSelection = false
		s.detail = nil
	}

	mx, my := ebiten.CursorPosition()
	overPanel := mx >= s.viewW()

	if _, wy := ebiten.Wheel(); wy != 0 && s.overMapView(mx, my) {
		s.cam.ZoomBy(wy)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case s.mini.Contains(mx, my):
			if tx, ty, ok := s.mini.TileAt(s.world.grid, mx, my); ok {
				s.cam.CenterOn(tx, ty)
			}
		case overPanel:
			s.panelClick(mx, my)
		default:
			s.tracker.Begin(float64(mx), float64(my))
		}
	}

	if s.tracker.Dragging() {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			dx, dy := s.tracker.Move(float64(mx), float64(my))
			s.cam.ApplyPan(dx, dy)
		} else {
			if s.tracker.End() {
				s.selectAt(mx, my)
			}
		}
	}

	s.priceBox.update()
	return nil
}

// overMapView reports whether a screen point is over the map itself rather
// than the side panel or the minimap.
func (s *cityScreen) overMapView(mx, my int) bool {
	return mx < s.viewW() && !s.mini.Contains(mx, my)
}

// pickTile resolves a screen position to a tile using the same viewport the
// compositor centres the map in.
func (s *cityScreen) pickTile(mx, my int) (int, int, bool) {
	tx, ty := s.cam.ScreenToTile(float64(mx), float64(my), float64(s.viewW())/2, float64(s.app.h)/2)
	if !s.world.grid.InBounds(tx, ty) {
		return 0, 0, false
	}
	return tx, ty, true
}

// selectAt resolves a click to a tile and kicks off the detail fetch.
func (s *cityScreen) selectAt(mx, my int) {
	tx, ty, ok := s.pickTile(mx, my)
	if !ok {
		s.scene.HasSelection = false
		s.detail = nil
		return
	}
	s.scene.SelectedX, s.scene.SelectedY = tx, ty
	s.scene.HasSelection = true
	s.detail = nil
	s.detailFor = world.Coord{X: tx, Y: ty}
	s.fetchDetail(tx, ty)
}

func (s *cityScreen) fetchDetail(x, y int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		d, err := s.app.api.TileDetail(ctx, s.world.gameMap.ID, x, y)
		s.details <- detailOutcome{x: x, y: y, detail: d, err: err}
	}()
}

func (s *cityScreen) drain() {
	for {
		select {
		case d := <-s.details:
			if errors.Is(d.err, api.ErrUnauthorized) {
				s.app.showLogin("session expired, sign in again")
				return
			}
			// Stale responses for a tile we have moved off are dropped.
			if d.x == s.detailFor.X && d.y == s.detailFor.Y {
				if d.err != nil {
					s.setBanner(api.UserMessage(d.err))
				} else {
					s.detail = d.detail
				}
			}
		case o := <-s.outcomes:
			s.pending = false
			if errors.Is(o.err, api.ErrUnauthorized) {
				s.app.showLogin("session expired, sign in again")
				return
			}
			if o.err != nil {
				s.setBanner(api.UserMessage(o.err))
				continue
			}
			s.applyResult(o)
		default:
			return
		}
	}
}

// applyResult folds a successful action's entities back into the world and
// refreshes the open detail panel.
func (s *cityScreen) applyResult(o actionOutcome) {
	if !o.result.Success {
		s.setBanner(o.result.Message)
		return
	}
	if o.result.Message != "" {
		s.setBanner(o.result.Message)
	}
	coord := world.Coord{X: o.x, Y: o.y}
	if o.result.Tile != nil {
		if t := s.world.grid.At(o.result.Tile.X, o.result.Tile.Y); t != nil {
			*t = o.result.Tile.ToWorld()
		}
	}
	if o.result.Building != nil {
		b := o.result.Building.ToWorld()
		s.world.buildings[world.Coord{X: b.TileX, Y: b.TileY}] = &b
		if o.verb == "build" {
			s.ensureBuildingSprite(b.TypeID)
		}
	} else if o.verb == "demolish" {
		delete(s.world.buildings, coord)
	}
	if s.scene.HasSelection && s.detailFor == coord {
		s.fetchDetail(o.x, o.y)
	}
}

// ensureBuildingSprite loads the sprite pair for a freshly built type. A
// brand-new type may still be in the asset generation queue, so this polls
// the queue until the sprite is ready; the flat-colour fallback covers the
// wait. Fire and forget, bounded by the poll limit.
func (s *cityScreen) ensureBuildingSprite(typeID string) {
	key := view.BuildingKey(typeID)
	if _, ok := s.world.sprites.Get(key); ok || s.world.sprites.Failed(key) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		for {
			st, err := s.app.api.GenerationStatus(ctx, typeID)
			if err != nil {
				return
			}
			if st.State == "ready" {
				s.world.sprites.LoadAll(ctx, []string{key, view.OutlineKey(typeID)})
				return
			}
			if st.State == "failed" {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
	}()
}

func (s *cityScreen) setBanner(msg string) {
	if msg == "" {
		return
	}
	s.banner = msg
	s.bannerAt = time.Now()
}

func (s *cityScreen) runAction(verb string, call func(ctx context.Context) (*api.ActionResult, error)) {
	if s.pending || !s.scene.HasSelection {
		return
	}
	s.pending = true
	x, y := s.scene.SelectedX, s.scene.SelectedY
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res, err := call(ctx)
		s.outcomes <- actionOutcome{verb: verb, x: x, y: y, result: res, err: err}
	}()
}

func (s *cityScreen) panelClick(mx, my int) {
	for _, b := range s.buttons {
		if !b.hit(mx, my) {
			continue
		}
		x, y := s.scene.SelectedX, s.scene.SelectedY
		mapID := s.world.gameMap.ID
		switch b.Label {
		case "Build":
			typeID := s.buildTypes[s.buildIdx]
			s.runAction("build", func(ctx context.Context) (*api.ActionResult, error) {
				return s.app.api.Build(ctx, mapID, x, y, typeID)
			})
		case "Demolish":
			s.runAction("demolish", func(ctx context.Context) (*api.ActionResult, error) {
				return s.app.api.Demolish(ctx, mapID, x, y)
			})
		case "Buy":
			s.runAction("buy", func(ctx context.Context) (*api.ActionResult, error) {
				return s.app.api.Buy(ctx, mapID, x, y)
			})
		case "Sell":
			price, err := strconv.ParseInt(s.priceBox.Value, 10, 64)
			if err != nil || price <= 0 {
				s.setBanner("asking price must be a positive number")
				return
			}
			s.runAction("sell", func(ctx context.Context) (*api.ActionResult, error) {
				return s.app.api.Sell(ctx, mapID, x, y, price)
			})
		case "Repair":
			s.runAction("repair", func(ctx context.Context) (*api.ActionResult, error) {
				return s.app.api.Repair(ctx, mapID, x, y)
			})
		case "Attack":
			s.runAction("attack", func(ctx context.Context) (*api.ActionResult, error) {
				return s.app.api.Attack(ctx, mapID, x, y)
			})
		default:
			switch {
			case b.Label == buildTypeLabel(s.buildTypes[s.buildIdx]):
				s.buildIdx = (s.buildIdx + 1) % len(s.buildTypes)
			case b.Label == securityLabel(s.security):
				s.security = (s.security + 1) % 4
				level := s.security
				s.runAction("security", func(ctx context.Context) (*api.ActionResult, error) {
					return s.app.api.SetSecurity(ctx, mapID, x, y, level)
				})
			}
		}
		return
	}
	if s.priceBox.contains(mx, my) {
		s.priceBox.focused = true
	} else {
		s.priceBox.focused = false
	}
}

func buildTypeLabel(t string) string  { return "Type: " + t }
func securityLabel(level int) string { return fmt.Sprintf("Security: %d", level) }

func (s *cityScreen) draw(dst *ebiten.Image) {
	s.comp.Frame(dst, &s.scene, s.viewW(), s.app.h)
	s.mini.Draw(dst, &s.scene, s.cam, s.viewW(), s.app.h)
	s.drawPanel(dst)

	if s.banner != "" && time.Since(s.bannerAt) < 5*time.Second {
		bw := text.BoundString(uiFace, s.banner).Dx()
		x := (s.viewW() - bw) / 2
		vector.FillRect(dst, float32(x-10), 14, float32(bw+20), 26, panelFill, false)
		text.Draw(dst, s.banner, uiFace, x, 32, errColour)
	}

	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("zoom %.2fx  [B] builder", s.cam.Zoom), 12, 8)
}

// drawPanel renders the right-hand tile panel: detail lines, then the action
// buttons laid out top to bottom.
func (s *cityScreen) drawPanel(dst *ebiten.Image) {
	px := s.viewW()
	vector.FillRect(dst, float32(px), 0, panelW, float32(s.app.h), panelFill, false)
	vector.StrokeLine(dst, float32(px), 0, float32(px), float32(s.app.h), 1, panelBorder, false)

	x := px + 14
	y := 28
	line := func(str string, col color.RGBA) {
		text.Draw(dst, str, uiFace, x, y, col)
		y += 20
	}

	line(s.app.username, textColour)
	line(s.world.gameMap.Country+" / "+s.world.gameMap.LocationType, mutedColour)
	y += 8

	if !s.scene.HasSelection {
		line("click a tile to inspect it", mutedColour)
		s.buttons = nil
		return
	}

	tile := s.world.grid.At(s.scene.SelectedX, s.scene.SelectedY)
	for _, str := range tileSummary(tile, s.detail, s.world.buildings) {
		line(str, textColour)
	}
	y += 8

	s.priceBox.X = x
	s.priceBox.Y = y + 14
	s.priceBox.W = panelW - 28
	s.priceBox.H = 28
	s.priceBox.draw(dst)
	y += 54

	s.buttons = s.buttons[:0]
	add := func(label string) {
		b := &button{Label: label, X: x, Y: y, W: panelW - 28, H: 30, Disabled: s.pending}
		s.buttons = append(s.buttons, b)
		b.draw(dst)
		y += 38
	}
	add(buildTypeLabel(s.buildTypes[s.buildIdx]))
	add("Build")
	add("Demolish")
	add("Buy")
	add("Sell")
	add("Repair")
	add("Attack")
	add(securityLabel(s.security))

	if s.pending {
		text.Draw(dst, "working...", uiFace, x, y+8, mutedColour)
	}
}

// tileSummary formats the detail panel lines for a selected tile.
func tileSummary(tile *world.Tile, detail *api.TileDetail, buildings map[world.Coord]*world.BuildingInstance) []string {
	if tile == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("tile (%d, %d)  %s", tile.X, tile.Y, tile.Terrain)}
	if tile.Special != world.SpecialNone {
		lines = append(lines, "landmark: "+tile.Special.String())
	}
	if detail != nil && detail.OwnerName != "" {
		lines = append(lines, "owner: "+detail.OwnerName)
	} else if tile.Owned() {
		lines = append(lines, fmt.Sprintf("owner: company %d", tile.OwnerID))
	} else {
		lines = append(lines, "unclaimed")
	}
	if b := buildings[world.Coord{X: tile.X, Y: tile.Y}]; b != nil {
		lines = append(lines, "building: "+b.TypeID)
		if b.Collapsed {
			lines = append(lines, "condition: collapsed")
		} else if b.DamagePct > 0 {
			lines = append(lines, fmt.Sprintf("damage: %d%%", b.DamagePct))
		}
		if b.OnFire {
			lines = append(lines, "ON FIRE")
		}
		if b.ForSale {
			lines = append(lines, fmt.Sprintf("for sale: $%d", b.SalePrice))
		}
	}
	return lines
}
