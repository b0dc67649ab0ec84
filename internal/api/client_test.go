package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/bakerboysgame/notropolis-client/internal/config"
	"github.com/bakerboysgame/notropolis-client/internal/world"
)

func testClient(t *testing.T, base string) *Client {
	t.Helper()
	cfg := &config.Config{APIBase: base, AssetBase: base, Dir: t.TempDir()}
	log := logrus.New()
	log.SetOutput(io.Discard)
	c, err := New(cfg, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestLogin_PersistsTokenAndSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var req loginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Username != "ada" {
				t.Errorf("username %q", req.Username)
			}
			json.NewEncoder(w).Encode(LoginResponse{Token: "tok-123", Username: "ada", CompanyID: 7})
		case "/api/maps":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("authorization header %q", got)
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("missing request id")
			}
			json.NewEncoder(w).Encode(map[string]any{"maps": []MapPayload{{ID: "m1"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	resp, err := c.Login(context.Background(), "ada", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.CompanyID != 7 {
		t.Fatalf("company id %d", resp.CompanyID)
	}

	if _, err := c.Maps(context.Background()); err != nil {
		t.Fatalf("Maps: %v", err)
	}
	// The token survives a fresh client against the same config dir.
	b, err := os.ReadFile(c.tokenPath())
	if err != nil || string(b) != "tok-123" {
		t.Fatalf("persisted token %q err %v", b, err)
	}
}

func TestUnauthorized_ClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	c.setToken("stale")
	c.saveToken("stale")

	_, err := c.Maps(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if c.currentToken() != "" {
		t.Fatal("token not cleared")
	}
	if _, err := os.Stat(c.tokenPath()); !os.IsNotExist(err) {
		t.Fatal("token file should be removed")
	}
}

func TestTileDetail_CachedAndInvalidatedByActions(t *testing.T) {
	var detailHits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/maps/m1/tiles/5/5":
			detailHits.Add(1)
			json.NewEncoder(w).Encode(TileDetail{Tile: TilePayload{X: 5, Y: 5, Terrain: "free_land", OwnerID: 3}})
		case r.URL.Path == "/api/actions/build":
			json.NewEncoder(w).Encode(ActionResult{Success: true})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.TileDetail(ctx, "m1", 5, 5); err != nil {
			t.Fatalf("TileDetail: %v", err)
		}
	}
	if n := detailHits.Load(); n != 1 {
		t.Fatalf("detail fetched %d times, want 1 (cached)", n)
	}

	// Building on a neighbouring tile invalidates (5,5).
	if _, err := c.Build(ctx, "m1", 5, 6, "shop"); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := c.TileDetail(ctx, "m1", 5, 5); err != nil {
		t.Fatalf("TileDetail after build: %v", err)
	}
	if n := detailHits.Load(); n != 2 {
		t.Fatalf("detail fetched %d times after invalidation, want 2", n)
	}
}

func TestAPIError_MessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"insufficient funds"}`)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.Buy(context.Background(), "m1", 1, 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := UserMessage(err); got != "insufficient funds" {
		t.Fatalf("user message %q", got)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error shape: %v", err)
	}
}

func TestUserMessage_NetworkErrorIsFriendly(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:1") // nothing listens here
	_, err := c.Maps(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if got := UserMessage(err); got != "could not reach the server, try again" {
		t.Fatalf("user message %q", got)
	}
}

func TestHasSession(t *testing.T) {
	c := testClient(t, "http://unused")

	if c.HasSession() {
		t.Fatal("no token should mean no session")
	}
	c.setToken(signedToken(t, time.Now().Add(time.Hour)))
	if !c.HasSession() {
		t.Fatal("fresh token should mean a session")
	}
	c.setToken(signedToken(t, time.Now().Add(-time.Hour)))
	if c.HasSession() {
		t.Fatal("expired token should mean no session")
	}
	c.setToken("not-a-jwt")
	if c.HasSession() {
		t.Fatal("garbage token should mean no session")
	}
}

func TestTilePayload_VariantOnlyForAutoTileable(t *testing.T) {
	road := TilePayload{X: 1, Y: 2, Terrain: "road", Variant: "corner_ne"}.ToWorld()
	if road.Variant != "corner_ne" {
		t.Fatalf("road variant lost: %q", road.Variant)
	}
	water := TilePayload{X: 1, Y: 2, Terrain: "water", Variant: "corner_ne"}.ToWorld()
	if water.Variant != "" {
		t.Fatalf("non-road kept variant %q", water.Variant)
	}
	if water.Terrain != world.TerrainWater {
		t.Fatalf("terrain mapping broken: %v", water.Terrain)
	}
}
