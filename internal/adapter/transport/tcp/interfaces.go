package tcp

import (
	"context"
	"time"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./server_mock.go -package=tcp

type PoW interface {
	NewChallenge() (entity.Challenge, error)
	Verify(ch entity.Challenge, sol entity.Solution) error
}

// Executor runs one authenticated request bound to the connection's challenge.
type Executor interface {
	Execute(ctx context.Context, ch entity.Challenge, req entity.Request) (any, error)
}

type Recorder interface {
	ObserveCall(method, code string, elapsed time.Duration)
}
