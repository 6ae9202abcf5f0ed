package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

// PuzzleStore is the sole persistence for puzzle records. Insert overwrites.
type PuzzleStore interface {
	Get(id entity.PublicKey) (entity.Puzzle, bool, error)
	Insert(id entity.PublicKey, p entity.Puzzle) (prev *entity.Puzzle, err error)
}

// UnsolvedIndex holds exactly the ids whose stored status is Unsolved.
type UnsolvedIndex interface {
	Insert(id entity.PublicKey) error
	Remove(id entity.PublicKey) error
	List() ([]entity.PublicKey, error)
}

// Ledger is the host side of the contract: capability grants and value custody.
type Ledger interface {
	Grant(g entity.Grant) error
	Revoke(key entity.PublicKey) error
	Lookup(key entity.PublicKey) (entity.Grant, bool, error)
	Deposit(amount decimal.Decimal) error
	Transfer(to entity.AccountID, amount decimal.Decimal) error
	Balance(account entity.AccountID) (decimal.Decimal, error)
	Escrow() (decimal.Decimal, error)
}

// Tx is one atomic unit of work over all shared state.
type Tx interface {
	Puzzles() PuzzleStore
	Unsolved() UnsolvedIndex
	Ledger() Ledger
}

// Store runs fn in a transaction; Update commits only when fn returns nil.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}
