package view

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // sprite assets are PNG
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/bakerboysgame/notropolis-client/internal/world"
)

// spriteWorkers bounds how many sprite fetches run at once during preload.
const spriteWorkers = 4

// Sprite key prefixes. The URL construction scheme is an internal convention
// of this loader, not a public contract.
const (
	KeyBackground = "background"
	KeyStake      = "overlay_stake"
	KeyFire       = "overlay_fire"
	KeyForSale    = "overlay_forsale"
	KeySelection  = "overlay_selection"
)

// TerrainKey returns the sprite key for a terrain, with the auto-tile variant
// suffix when present.
func TerrainKey(t world.Terrain, variant string) string {
	if variant != "" {
		return "terrain_" + t.String() + "_" + variant
	}
	return "terrain_" + t.String()
}

// BuildingKey returns the sprite key for a building type.
func BuildingKey(typeID string) string { return "building_" + typeID }

// OutlineKey returns the key of the white silhouette outline asset for a
// building type. The outline is OutlinePad px larger on each side than the
// base sprite at natural size.
func OutlineKey(typeID string) string { return "outline_" + typeID }

// SpecialKey returns the sprite key for a special-building landmark.
func SpecialKey(s world.SpecialBuilding) string { return "special_" + s.String() }

// OutlinePad is how many pixels the outline asset extends past the base
// sprite on each side, at natural sprite size.
const OutlinePad = 8

// Manifest lists every sprite the city view needs up front: terrain, road
// variants, landmarks, overlays, and the given building types with their
// outlines.
func Manifest(buildingTypes []string) []string {
	keys := []string{KeyBackground, KeyStake, KeyFire, KeyForSale, KeySelection}
	// Free land renders as bare ground, so it has no sprite of its own.
	for _, t := range []world.Terrain{world.TerrainWater, world.TerrainDirtTrack, world.TerrainTrees, world.TerrainRocks} {
		keys = append(keys, TerrainKey(t, ""))
	}
	for _, v := range world.RoadVariants {
		keys = append(keys, TerrainKey(world.TerrainRoad, v))
	}
	for _, s := range []world.SpecialBuilding{world.SpecialTemple, world.SpecialBank, world.SpecialPoliceStation} {
		keys = append(keys, SpecialKey(s))
	}
	for _, bt := range buildingTypes {
		keys = append(keys, BuildingKey(bt), OutlineKey(bt))
	}
	return keys
}

// SpriteCache bulk-loads the sprite manifest and serves synchronous lookups
// once loaded. A failed load is permanently absent for the session; the
// compositor falls back to flat colours, it never aborts a frame. The cache
// is an explicit service instance injected into the renderer, created per
// view and disposed with it.
type SpriteCache struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry

	mu     sync.RWMutex
	images map[string]*ebiten.Image
	failed map[string]bool
	total  int
	done   int
}

// NewSpriteCache creates an empty cache fetching from baseURL.
func NewSpriteCache(baseURL string, log *logrus.Entry) *SpriteCache {
	return &SpriteCache{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
		images:  make(map[string]*ebiten.Image),
		failed:  make(map[string]bool),
	}
}

// URLFor builds the asset URL for a logical sprite key.
func (c *SpriteCache) URLFor(key string) string {
	return c.baseURL + "/sprites/" + key + ".png"
}

// LoadAll fetches every manifest key with a small worker pool and returns
// when the batch has resolved. Individual failures are logged and recorded,
// never fatal.
func (c *SpriteCache) LoadAll(ctx context.Context, keys []string) {
	c.begin(keys)
	c.fetchBatch(ctx, keys)
}

// Preload registers the batch, then fetches it in the background. Loading
// reports true from the moment Preload returns, so a caller polling once per
// frame cannot observe the gap before the workers start.
func (c *SpriteCache) Preload(ctx context.Context, keys []string) {
	c.begin(keys)
	go c.fetchBatch(ctx, keys)
}

func (c *SpriteCache) begin(keys []string) {
	c.mu.Lock()
	c.total += len(keys)
	c.mu.Unlock()
}

func (c *SpriteCache) fetchBatch(ctx context.Context, keys []string) {
	work := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < spriteWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range work {
				c.loadOne(ctx, key)
			}
		}()
	}
	for _, key := range keys {
		work <- key
	}
	close(work)
	wg.Wait()
}

func (c *SpriteCache) loadOne(ctx context.Context, key string) {
	img, err := c.fetch(ctx, key)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
	if err != nil {
		c.failed[key] = true
		if c.log != nil {
			c.log.WithField("sprite", key).WithError(err).Warn("sprite load failed, using colour fallback")
		}
		return
	}
	c.images[key] = img
}

func (c *SpriteCache) fetch(ctx context.Context, key string) (*ebiten.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URLFor(key), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("sprite fetch: %s", resp.Status)
	}
	decoded, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return ebiten.NewImageFromImage(decoded), nil
}

// Get returns the loaded sprite for a key, or false when it is missing,
// failed, or not yet loaded.
func (c *SpriteCache) Get(key string) (*ebiten.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok && img != nil
}

// Failed reports whether a key's load has failed for the session.
func (c *SpriteCache) Failed(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failed[key]
}

// Loading reports whether a preload batch is still in flight.
func (c *SpriteCache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done < c.total
}

// Progress returns batch completion in [0,1]. An empty manifest is complete.
func (c *SpriteCache) Progress() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.total == 0 {
		return 1
	}
	return float64(c.done) / float64(c.total)
}

// Dispose drops every entry. The ebiten images are released by GC.
func (c *SpriteCache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images = make(map[string]*ebiten.Image)
	c.failed = make(map[string]bool)
	c.total = 0
	c.done = 0
}
