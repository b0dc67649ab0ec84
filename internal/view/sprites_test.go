package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bakerboysgame/notropolis-client/internal/world"
)

func TestManifest_CoversRoadVariantsAndOutlines(t *testing.T) {
	keys := Manifest([]string{"shop", "factory"})
	want := []string{
		"terrain_water",
		"terrain_road_crossroad",
		"terrain_road_deadend_w",
		"special_police_station",
		"building_shop",
		"outline_shop",
		"building_factory",
		"outline_factory",
		KeyBackground, KeyStake, KeyFire, KeyForSale, KeySelection,
	}
	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Fatalf("manifest missing %q", w)
		}
	}
	if have["terrain_free_land"] {
		t.Fatal("free land must not be in the manifest")
	}
}

func TestTerrainKey_VariantSuffix(t *testing.T) {
	if k := TerrainKey(world.TerrainRoad, world.VariantCornerNE); k != "terrain_road_corner_ne" {
		t.Fatalf("got %q", k)
	}
	if k := TerrainKey(world.TerrainTrees, ""); k != "terrain_trees" {
		t.Fatalf("got %q", k)
	}
}

func TestSpriteCache_FailuresDoNotAbortBatch(t *testing.T) {
	// Half the keys 404, the rest return bytes that are not a PNG. Every key
	// must resolve (as failed) and the batch must finish.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path)%2 == 0 {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("not a png"))
	}))
	defer srv.Close()

	c := NewSpriteCache(srv.URL, nil)
	keys := []string{"terrain_water", "building_shop", "outline_shop", "overlay_fire", "background"}
	c.LoadAll(context.Background(), keys)

	if c.Loading() {
		t.Fatal("batch should have resolved")
	}
	if p := c.Progress(); p != 1 {
		t.Fatalf("progress %v, want 1", p)
	}
	for _, k := range keys {
		if _, ok := c.Get(k); ok {
			t.Fatalf("key %q should be absent", k)
		}
		if !c.Failed(k) {
			t.Fatalf("key %q should be recorded as failed", k)
		}
	}
}

func TestSpriteCache_PreloadGatesUntilBatchResolves(t *testing.T) {
	// The server blocks every fetch until released. Preload must report the
	// batch as loading from the moment it returns, never letting a caller
	// that polls per frame slip past before the workers have started.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewSpriteCache(srv.URL, nil)
	c.Preload(context.Background(), []string{"terrain_water", "terrain_rocks"})
	if !c.Loading() {
		t.Fatal("batch must report loading as soon as it is registered")
	}
	if p := c.Progress(); p != 0 {
		t.Fatalf("progress %v before any fetch resolved", p)
	}

	close(release)
	deadline := time.Now().Add(5 * time.Second)
	for c.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("batch did not resolve")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if p := c.Progress(); p != 1 {
		t.Fatalf("progress %v after resolve, want 1", p)
	}
}

func TestSpriteCache_URLConstruction(t *testing.T) {
	c := NewSpriteCache("http://assets.local", nil)
	got := c.URLFor("terrain_road_tjunction_s")
	if !strings.HasSuffix(got, "/sprites/terrain_road_tjunction_s.png") {
		t.Fatalf("unexpected sprite URL %q", got)
	}
}

func TestSpriteCache_EmptyManifestIsComplete(t *testing.T) {
	c := NewSpriteCache("http://assets.local", nil)
	if c.Loading() {
		t.Fatal("empty cache should not report loading")
	}
	if c.Progress() != 1 {
		t.Fatal("empty cache progress should be 1")
	}
}
