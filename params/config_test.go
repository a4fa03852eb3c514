package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

var boardEnv = []string{
	"BOARD_CURRENCY", "BOARD_DEPTH", "BOARD_GROUPING", "BOARD_ASSETS",
	"STORE_PATH", "TX_LOG_FILE", "API_ADDR", "API_ALLOWED_ORIGINS", "LOG_FILE", "LOG_LEVEL",
}

// clearEnv unsets every key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range boardEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	def := Default()
	if cfg.Board.Currency != money.GBP || cfg.Board.Depth != orderbook.DefaultDepth {
		t.Errorf("board defaults = %+v", cfg.Board)
	}
	if cfg.API.Addr != def.API.Addr || cfg.Storage.Path != "" {
		t.Errorf("defaults changed: api=%s store=%q", cfg.API.Addr, cfg.Storage.Path)
	}

	ar, err := cfg.Board.AssetRegistry()
	if err != nil {
		t.Fatalf("AssetRegistry: %v", err)
	}
	if ar.Count() != len(market.BuiltinAssets()) {
		t.Errorf("default assets = %v", ar.List())
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "BOARD_DEPTH=5\nBOARD_CURRENCY=usd\nAPI_ADDR=:9999\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// ENV wins over the .env file
	t.Setenv("API_ADDR", ":7000")
	t.Setenv("BOARD_GROUPING", "price")
	t.Setenv("BOARD_ASSETS", "btc,Dogecoin")
	t.Setenv("STORE_PATH", "/tmp/board-db")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadFromEnv(envFile)
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Board.Depth != 5 {
		t.Errorf("depth = %d, want 5", cfg.Board.Depth)
	}
	if cfg.Board.Currency != money.USD {
		t.Errorf("currency = %s, want USD", cfg.Board.Currency)
	}
	if cfg.API.Addr != ":7000" {
		t.Errorf("addr = %s, want :7000", cfg.API.Addr)
	}
	if cfg.Board.Grouping != orderbook.GroupByPrice {
		t.Errorf("grouping = %v, want price", cfg.Board.Grouping)
	}
	if cfg.Storage.Path != "/tmp/board-db" {
		t.Errorf("store path = %s", cfg.Storage.Path)
	}
	if len(cfg.API.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", cfg.API.AllowedOrigins)
	}

	ar, err := cfg.Board.AssetRegistry()
	if err != nil {
		t.Fatalf("AssetRegistry: %v", err)
	}
	if !ar.Exists(market.Bitcoin) || !ar.Exists(market.Asset("Dogecoin")) || ar.Exists(market.Ethereum) {
		t.Errorf("assets = %v", ar.List())
	}
}

func TestLoadFromEnvEmptyLogFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_FILE", "")
	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Log.File != "" {
		t.Errorf("log file = %q, want console only", cfg.Log.File)
	}
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct{ key, val string }{
		{"BOARD_DEPTH", "-1"},
		{"BOARD_DEPTH", "11"},
		{"BOARD_CURRENCY", "pounds"},
		{"BOARD_GROUPING", "asset"},
		{"BOARD_ASSETS", "BTC,,ETH"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
