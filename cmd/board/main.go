package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/uhyunpark/liveboard/params"
	"github.com/uhyunpark/liveboard/pkg/api"
	"github.com/uhyunpark/liveboard/pkg/app/core/board"
	"github.com/uhyunpark/liveboard/pkg/storage"
	"github.com/uhyunpark/liveboard/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg, err := params.LoadFromEnv("") // "" means load from .env in current directory
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Setup logging (console, plus a file unless LOG_FILE is empty)
	var logger *zap.Logger
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.File, cfg.Log.Level)
	} else {
		logger, err = util.NewLogger(cfg.Log.Level)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Log.File, "level", cfg.Log.Level)

	assets, err := cfg.Board.AssetRegistry()
	if err != nil {
		sugar.Fatalw("asset_registry_failed", "err", err)
	}

	opts := []board.Option{
		board.WithLogger(sugar.Named("board")),
		board.WithAssets(assets),
	}

	// ---- Persistence (optional) ----
	if cfg.Storage.Path != "" {
		store, err := storage.NewPebbleStore(cfg.Storage.Path)
		if err != nil {
			sugar.Fatalw("open_store_failed", "path", cfg.Storage.Path, "err", err)
		}
		defer store.Close()
		opts = append(opts, board.WithJournal(store))
		sugar.Infow("store_opened", "path", cfg.Storage.Path)
	}

	if cfg.Storage.TxLogFile != "" {
		wal, err := storage.NewFileWAL(cfg.Storage.TxLogFile)
		if err != nil {
			sugar.Fatalw("open_tx_log_failed", "path", cfg.Storage.TxLogFile, "err", err)
		}
		defer wal.Close()
		opts = append(opts, board.WithAuditLog(wal))
	}

	// ---- Board ----
	b, err := board.New(board.Config{
		Currency: cfg.Board.Currency,
		Depth:    cfg.Board.Depth,
		Grouping: cfg.Board.Grouping,
	}, opts...)
	if err != nil {
		sugar.Fatalw("board_init_failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Restore(ctx); err != nil {
		sugar.Fatalw("board_restore_failed", "err", err)
	}

	sugar.Infow("board_ready",
		"currency", cfg.Board.Currency,
		"depth", cfg.Board.Depth,
		"grouping", cfg.Board.Grouping.String(),
		"assets", assets.Count(),
		"open_orders", b.Len(),
	)

	// ---- API ----
	server := api.NewServer(b, cfg.API.AllowedOrigins, sugar.Named("api"))
	if err := server.Run(ctx, cfg.API.Addr); err != nil {
		sugar.Errorw("api_server_stopped", "err", err)
		return
	}
	sugar.Infow("shutdown_complete")
}
