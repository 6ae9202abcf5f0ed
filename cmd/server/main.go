package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dayanaadylkhanova/crossword/internal/adapter/storage"
	"github.com/dayanaadylkhanova/crossword/internal/adapter/transport/httpapi"
	"github.com/dayanaadylkhanova/crossword/internal/adapter/transport/tcp"
	"github.com/dayanaadylkhanova/crossword/internal/app"
	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/service"
	"github.com/dayanaadylkhanova/crossword/pkg/config"
	"github.com/dayanaadylkhanova/crossword/pkg/logger"
	"github.com/dayanaadylkhanova/crossword/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.NewJSON(logger.LevelFromEnv(cfg.LogLevel), "crossword-server")

	dbCfg := storage.InMemoryConfig()
	if cfg.DataDir != "" {
		dbCfg = storage.DefaultConfig(cfg.DataDir)
	} else {
		log.Warn("DATA_DIR not set; puzzles are kept in memory only")
	}
	dbCfg.Logger = log
	db, err := storage.Open(dbCfg)
	if err != nil {
		log.Error("storage open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New()
	cw := service.NewCrossword(log, storage.NewStore(db), entity.AccountID(cfg.ContractAccount), cfg.GrantAllowance, m)
	// Seeds the unsolved gauge and fails fast on a drifted index.
	if _, err := cw.UnsolvedPuzzles(context.Background()); err != nil {
		log.Error("unsolved index check failed", slog.Any("err", err))
		db.Close()
		os.Exit(1)
	}
	pow := service.NewHashcash(cfg.PoWDifficulty, cfg.PoWTTL)

	tcpSrv := tcp.NewServer(log, cfg.ListenAddr, cfg.PoWTTL, cfg.ShutdownWait, pow, service.NewGuard(cw), m)
	httpSrv := httpapi.NewServer(log, cfg.HTTPAddr, cfg.ShutdownWait, cw, m)

	if err := app.New(log, tcpSrv, httpSrv).Run(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		db.Close()
		os.Exit(1)
	}
}
