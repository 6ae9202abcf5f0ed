package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

type App struct {
	log     *slog.Logger
	runners []Runner
}

func New(log *slog.Logger, runners ...Runner) *App {
	return &App{log: log, runners: runners}
}

// Run serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every runner and stops them all as soon as one fails.
func (a *App) RunContext(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range a.runners {
		r := r
		g.Go(func() error {
			if err := r.Run(gctx); err != nil {
				a.log.Error("runner stopped with error", "runner", r.Name(), "err", err)
				return fmt.Errorf("%s: %w", r.Name(), err)
			}
			a.log.Info("runner stopped", "runner", r.Name())
			return nil
		})
	}
	return g.Wait()
}
