package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bakerboysgame/notropolis-client/internal/config"
)

// tileCacheTTL bounds how stale a cached tile detail may get. Mutating
// actions invalidate the touched coordinates immediately; the TTL only
// covers changes made by other players.
const tileCacheTTL = 30 * time.Second

// Client is the REST client for the Notropolis backend. All game state is
// server-authoritative; this client fetches, posts actions and caches
// read-mostly tile detail, nothing more.
type Client struct {
	base string
	http *http.Client
	log  *logrus.Entry
	cfg  *config.Config

	mu    sync.Mutex
	token string

	tiles *ristretto.Cache[string, *TileDetail]
}

// New creates a client for the configured backend, loading any persisted
// session token.
func New(cfg *config.Config, log *logrus.Logger) (*Client, error) {
	tiles, err := ristretto.NewCache(&ristretto.Config[string, *TileDetail]{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:  cfg.APIBase,
		http:  &http.Client{Timeout: 10 * time.Second},
		log:   log.WithField("component", "api"),
		cfg:   cfg,
		tiles: tiles,
	}
	c.token = c.loadToken()
	return c, nil
}

// Base returns the backend base URL.
func (c *Client) Base() string { return c.base }

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// do runs one JSON request. Every call carries the bearer token and a fresh
// request id; a 401 clears the stored session before reporting it.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.currentToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.ClearSession()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func tileKey(mapID string, x, y int) string {
	return fmt.Sprintf("%s|%d|%d", mapID, x, y)
}

// invalidateAround drops the cached detail for a tile and its four direct
// neighbours, matching the auto-tile refresh radius: anything further cannot
// have changed from an action on this tile.
func (c *Client) invalidateAround(mapID string, x, y int) {
	c.tiles.Del(tileKey(mapID, x, y))
	c.tiles.Del(tileKey(mapID, x, y+1))
	c.tiles.Del(tileKey(mapID, x+1, y))
	c.tiles.Del(tileKey(mapID, x, y-1))
	c.tiles.Del(tileKey(mapID, x-1, y))
	c.tiles.Wait()
}
