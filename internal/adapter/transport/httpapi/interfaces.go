package httpapi

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./httpapi_mock.go -package=httpapi

// Reader is the read-only slice of the puzzle service served over HTTP.
type Reader interface {
	UnsolvedPuzzles(ctx context.Context) ([]entity.PuzzleView, error)
	Puzzle(ctx context.Context, id entity.PublicKey) (entity.PuzzleView, error)
	Balance(ctx context.Context, account entity.AccountID) (decimal.Decimal, error)
}

type MetricsHandler interface {
	Handler() http.Handler
}
