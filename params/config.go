package params

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/uhyunpark/liveboard/pkg/app/core/market"
	"github.com/uhyunpark/liveboard/pkg/app/core/money"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

type Board struct {
	Currency money.Currency
	Depth    int // price levels per side in a summary
	Grouping orderbook.Grouping
	Assets   []market.Asset // tradable coins; empty means the built-ins
}

type Storage struct {
	// Path of the Pebble order journal. Empty keeps the board in memory only.
	Path string
	// TxLogFile receives one JSON line per accepted place/cancel. Empty disables it.
	TxLogFile string
}

type API struct {
	Addr           string
	AllowedOrigins []string
}

type Log struct {
	File  string
	Level string
}

type Config struct {
	Board   Board
	Storage Storage
	API     API
	Log     Log
}

func Default() Config {
	return Config{
		Board: Board{
			Currency: money.GBP,
			Depth:    orderbook.DefaultDepth,
			Grouping: orderbook.GroupByAssetAndPrice,
		},
		Storage: Storage{
			TxLogFile: "data/transactions.log",
		},
		API: API{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Log: Log{
			File:  "data/board.log",
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) (Config, error) {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if cur := os.Getenv("BOARD_CURRENCY"); cur != "" {
		c, err := money.ParseCurrency(cur)
		if err != nil {
			return cfg, fmt.Errorf("BOARD_CURRENCY: %w", err)
		}
		cfg.Board.Currency = c
	}

	if depth := os.Getenv("BOARD_DEPTH"); depth != "" {
		n, err := strconv.Atoi(depth)
		if err != nil || n <= 0 || n > orderbook.DefaultDepth {
			return cfg, fmt.Errorf("BOARD_DEPTH: want 1..%d, got %q", orderbook.DefaultDepth, depth)
		}
		cfg.Board.Depth = n
	}

	if grouping := os.Getenv("BOARD_GROUPING"); grouping != "" {
		g, err := orderbook.ParseGrouping(grouping)
		if err != nil {
			return cfg, fmt.Errorf("BOARD_GROUPING: %w", err)
		}
		cfg.Board.Grouping = g
	}

	// Assets from comma-separated list, e.g. "BTC,ETH,Dogecoin"
	if assets := os.Getenv("BOARD_ASSETS"); assets != "" {
		for _, name := range strings.Split(assets, ",") {
			a, err := market.ParseAsset(name)
			if err != nil {
				return cfg, fmt.Errorf("BOARD_ASSETS: %w", err)
			}
			cfg.Board.Assets = append(cfg.Board.Assets, a)
		}
	}

	cfg.Storage.Path = getEnv("STORE_PATH", cfg.Storage.Path)
	if txLog, ok := os.LookupEnv("TX_LOG_FILE"); ok {
		cfg.Storage.TxLogFile = txLog
	}

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	if origins := os.Getenv("API_ALLOWED_ORIGINS"); origins != "" {
		cfg.API.AllowedOrigins = strings.Split(origins, ",")
	}

	// An explicitly empty LOG_FILE logs to the console only
	if logFile, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.Log.File = logFile
	}
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

// AssetRegistry builds the registry of tradable assets described by b
func (b Board) AssetRegistry() (*market.AssetRegistry, error) {
	if len(b.Assets) == 0 {
		return market.DefaultAssets(), nil
	}
	ar := market.NewAssetRegistry()
	for _, a := range b.Assets {
		if err := ar.Register(a); err != nil {
			return nil, err
		}
	}
	return ar, nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
