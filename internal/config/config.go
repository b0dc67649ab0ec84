package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config carries the handful of settings the client reads at startup.
// Values come from the environment, optionally seeded from a .env file in
// the working directory.
type Config struct {
	APIBase   string // REST backend base URL
	AssetBase string // sprite asset base URL, defaults to APIBase
	LogLevel  string
	WrapEdges bool   // toroidal maps: panning wraps instead of clamping
	Dir       string // per-user config dir for token, username, logs
}

// Load reads the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBase:   getenv("NOTROPOLIS_API_URL", "http://localhost:8700"),
		LogLevel:  getenv("NOTROPOLIS_LOG_LEVEL", "info"),
		AssetBase: os.Getenv("NOTROPOLIS_ASSET_URL"),
		WrapEdges: getenv("NOTROPOLIS_MAP_EDGE", "clamp") == "wrap",
	}
	if cfg.AssetBase == "" {
		cfg.AssetBase = cfg.APIBase
	}

	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	cfg.Dir = filepath.Join(base, "notropolis")
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path resolves a file name inside the config dir.
func (c *Config) Path(name string) string {
	return filepath.Join(c.Dir, name)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
