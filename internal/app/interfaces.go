package app

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=./app_mock.go -package=app

// Runner is a long-lived listener that returns once ctx is done and it has drained.
type Runner interface {
	Name() string
	Run(ctx context.Context) error
}
