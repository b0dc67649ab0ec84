package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/view"
	"github.com/bakerboysgame/notropolis-client/internal/world"
)

// loadedWorld is everything the map screens need, assembled once per mount.
type loadedWorld struct {
	gameMap   world.GameMap
	grid      *world.Grid
	buildings map[world.Coord]*world.BuildingInstance
	sprites   *view.SpriteCache
}

type worldResult struct {
	world *loadedWorld
	err   error
}

// loadingScreen fetches the map and preloads sprites, drawing a progress bar
// while the cache fills. Sprite failures are not fatal; the compositor falls
// back to flat colours for anything missing.
type loadingScreen struct {
	app     *App
	results chan worldResult
	world   *loadedWorld
	err     error
	status  string

	retryBtn button
}

func newLoadingScreen(a *App) *loadingScreen {
	s := &loadingScreen{app: a, results: make(chan worldResult, 1), status: "fetching map"}
	s.start()
	return s
}

func (s *loadingScreen) start() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		maps, err := s.app.api.Maps(ctx)
		if err != nil {
			s.results <- worldResult{err: err}
			return
		}
		if len(maps) == 0 {
			s.results <- worldResult{err: errors.New("no maps available")}
			return
		}
		mt, err := s.app.api.MapTiles(ctx, maps[0].ID)
		if err != nil {
			s.results <- worldResult{err: err}
			return
		}
		s.results <- worldResult{world: buildWorld(mt)}
	}()
}

// buildWorld converts the bulk tile payload into grid form.
func buildWorld(mt *api.MapTiles) *loadedWorld {
	m := mt.Map.ToWorld()
	grid := world.NewGrid(m.Width, m.Height)
	for _, p := range mt.Tiles {
		if t := grid.At(p.X, p.Y); t != nil {
			*t = p.ToWorld()
		}
	}
	buildings := make(map[world.Coord]*world.BuildingInstance, len(mt.Buildings))
	for _, p := range mt.Buildings {
		b := p.ToWorld()
		buildings[world.Coord{X: b.TileX, Y: b.TileY}] = &b
	}
	return &loadedWorld{gameMap: m, grid: grid, buildings: buildings}
}

// buildingTypeIDs collects the distinct building sprite types in the world.
func buildingTypeIDs(buildings map[world.Coord]*world.BuildingInstance) []string {
	seen := map[string]bool{}
	for _, b := range buildings {
		seen[b.TypeID] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *loadingScreen) update() error {
	select {
	case r := <-s.results:
		if r.err != nil {
			if errors.Is(r.err, api.ErrUnauthorized) {
				s.app.showLogin("session expired, sign in again")
				return nil
			}
			s.err = r.err
			break
		}
		s.world = r.world
		s.status = "loading sprites"
		s.world.sprites = view.NewSpriteCache(s.app.cfg.AssetBase, s.app.log.WithField("mod", "sprites"))
		// Preload registers the batch before update returns, so the
		// Loading gate below holds until every sprite has resolved.
		keys := view.Manifest(buildingTypeIDs(s.world.buildings))
		s.world.sprites.Preload(context.Background(), keys)
	default:
	}

	if s.err != nil {
		s.retryBtn = button{Label: "Retry", X: s.app.w/2 - 70, Y: s.app.h/2 + 40, W: 140, H: 34}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			if mx, my := ebiten.CursorPosition(); s.retryBtn.hit(mx, my) {
				s.err = nil
				s.status = "fetching map"
				s.start()
			}
		}
		return nil
	}

	if s.world != nil && s.world.sprites != nil && !s.world.sprites.Loading() {
		s.app.showCity(s.world)
	}
	return nil
}

func (s *loadingScreen) draw(dst *ebiten.Image) {
	dst.Fill(color.RGBA{R: 14, G: 17, B: 22, A: 255})

	if s.err != nil {
		msg := api.UserMessage(s.err)
		mw := text.BoundString(uiFace, msg).Dx()
		text.Draw(dst, msg, uiFace, (s.app.w-mw)/2, s.app.h/2, errColour)
		s.retryBtn.draw(dst)
		return
	}

	barW := 360
	barH := 14
	x := (s.app.w - barW) / 2
	y := s.app.h / 2

	progress := 0.0
	if s.world != nil && s.world.sprites != nil {
		progress = s.world.sprites.Progress()
	}
	vector.StrokeRect(dst, float32(x), float32(y), float32(barW), float32(barH), 1, panelBorder, false)
	vector.FillRect(dst, float32(x+2), float32(y+2), float32(float64(barW-4)*progress), float32(barH-4),
		color.RGBA{R: 120, G: 180, B: 90, A: 255}, false)

	label := fmt.Sprintf("%s  %d%%", s.status, int(progress*100))
	lw := text.BoundString(uiFace, label).Dx()
	text.Draw(dst, label, uiFace, (s.app.w-lw)/2, y-12, mutedColour)
}
