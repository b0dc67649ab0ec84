package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTROPOLIS_API_URL", "")
	t.Setenv("NOTROPOLIS_ASSET_URL", "")
	t.Setenv("NOTROPOLIS_LOG_LEVEL", "")
	t.Setenv("NOTROPOLIS_MAP_EDGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBase != "http://localhost:8700" {
		t.Fatalf("api base %q", cfg.APIBase)
	}
	if cfg.AssetBase != cfg.APIBase {
		t.Fatalf("asset base should default to api base, got %q", cfg.AssetBase)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level %q", cfg.LogLevel)
	}
	if cfg.WrapEdges {
		t.Fatal("edges should clamp by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOTROPOLIS_API_URL", "https://api.example.test")
	t.Setenv("NOTROPOLIS_ASSET_URL", "https://cdn.example.test")
	t.Setenv("NOTROPOLIS_LOG_LEVEL", "debug")
	t.Setenv("NOTROPOLIS_MAP_EDGE", "wrap")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBase != "https://api.example.test" || cfg.AssetBase != "https://cdn.example.test" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.WrapEdges {
		t.Fatal("wrap edge policy not applied")
	}
}

func TestPath(t *testing.T) {
	cfg := &Config{Dir: filepath.Join(os.TempDir(), "notropolis-test")}
	got := cfg.Path("token.json")
	if filepath.Dir(got) != cfg.Dir || filepath.Base(got) != "token.json" {
		t.Fatalf("unexpected path %q", got)
	}
}
