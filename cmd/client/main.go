package main

import (
	"os"

	"github.com/dayanaadylkhanova/crossword/pkg/logger"
)

func main() {
	log := logger.New(os.Stderr, logger.LevelFromEnv(os.Getenv("LOG_LEVEL")), "crossword-client")
	if err := newRootCmd().Execute(); err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}
