package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/ports"
)

// Crossword is the puzzle lifecycle state machine. Calls are processed one at
// a time and every call commits all of its effects or none of them.
type Crossword struct {
	log       *slog.Logger
	store     ports.Store
	contract  entity.AccountID
	allowance decimal.Decimal
	rec       Recorder

	mu sync.Mutex
}

func NewCrossword(log *slog.Logger, store ports.Store, contract entity.AccountID, allowance decimal.Decimal, rec Recorder) *Crossword {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Crossword{log: log, store: store, contract: contract, allowance: allowance, rec: rec}
}

// NewPuzzle registers a puzzle keyed by the credential derived from its solution,
// escrows the attached deposit and grants that credential the submit_solution method.
func (c *Crossword) NewPuzzle(ctx context.Context, id entity.PublicKey, dims entity.CoordinatePair, answers []entity.Answer, deposit decimal.Decimal, creator entity.AccountID) error {
	if _, err := id.Scheme(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Update(ctx, func(tx ports.Tx) error {
		prev, err := tx.Puzzles().Insert(id, entity.Puzzle{
			Status:     entity.Unsolved{},
			Reward:     deposit,
			Creator:    creator,
			Dimensions: dims,
			Answers:    answers,
		})
		if err != nil {
			return err
		}
		if prev != nil {
			return fmt.Errorf("%w: %s", entity.ErrDuplicatePuzzle, id)
		}
		if _, taken, err := tx.Ledger().Lookup(id); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: puzzle key already holds a grant", entity.ErrBadRequest)
		}
		if err := tx.Unsolved().Insert(id); err != nil {
			return err
		}
		if err := tx.Ledger().Deposit(deposit); err != nil {
			return err
		}
		return tx.Ledger().Grant(entity.Grant{
			Key:       id,
			Method:    entity.MethodSubmitSolution,
			Puzzle:    id,
			Allowance: c.allowance,
			Receiver:  c.contract,
		})
	})
	if err != nil {
		return err
	}

	c.rec.PuzzleTransition(entity.Unsolved{}.Name())
	c.rec.AddUnsolved(1)
	c.log.Info("puzzle created", "pk", id.String(), "creator", creator, "reward", deposit.String())
	return nil
}

// SubmitSolution moves the caller's puzzle to Solved, hands the claim capability
// to solverPK and revokes the caller's own capability.
func (c *Crossword) SubmitSolution(ctx context.Context, caller, solverPK entity.PublicKey) error {
	if _, err := solverPK.Scheme(); err != nil {
		return err
	}
	if solverPK.Equal(caller) {
		return fmt.Errorf("%w: solver key must differ from the puzzle key", entity.ErrBadRequest)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Update(ctx, func(tx ports.Tx) error {
		if err := authorize(tx, caller, entity.MethodSubmitSolution); err != nil {
			return err
		}
		if err := c.solve(tx, caller, solverPK); err != nil {
			return &consumedError{err: err}
		}
		return nil
	})
	if err != nil {
		return c.settleFailure(ctx, caller, err)
	}

	c.rec.PuzzleTransition(entity.Solved{}.Name())
	c.rec.AddUnsolved(-1)
	c.log.Info("puzzle solved", "pk", caller.String(), "solver_pk", solverPK.String())
	return nil
}

func (c *Crossword) solve(tx ports.Tx, id, solverPK entity.PublicKey) error {
	puzzle, found, err := tx.Puzzles().Get(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", entity.ErrPuzzleNotFound, id)
	}
	if _, ok := puzzle.Status.(entity.Unsolved); !ok {
		return fmt.Errorf("%w: status %s", entity.ErrAlreadySolved, puzzle.Status.Name())
	}
	if _, taken, err := tx.Ledger().Lookup(solverPK); err != nil {
		return err
	} else if taken {
		return fmt.Errorf("%w: solver key already holds a grant", entity.ErrBadRequest)
	}

	puzzle.Status = entity.Solved{SolverCredential: solverPK}
	if _, err := tx.Puzzles().Insert(id, puzzle); err != nil {
		return err
	}
	if err := tx.Unsolved().Remove(id); err != nil {
		return err
	}
	if err := tx.Ledger().Grant(entity.Grant{
		Key:       solverPK,
		Method:    entity.MethodClaimReward,
		Puzzle:    id,
		Allowance: c.allowance,
		Receiver:  c.contract,
	}); err != nil {
		return err
	}
	return tx.Ledger().Revoke(id)
}

// ClaimReward releases the escrowed reward of the puzzle the caller solved.
// puzzleID may be empty; the caller's grant names the puzzle.
func (c *Crossword) ClaimReward(ctx context.Context, caller, puzzleID entity.PublicKey, receiver entity.AccountID, memo string) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		reward decimal.Decimal
		target entity.PublicKey
	)
	err := c.store.Update(ctx, func(tx ports.Tx) error {
		grant, err := authorizeGrant(tx, caller, entity.MethodClaimReward)
		if err != nil {
			return err
		}
		if len(puzzleID) > 0 && !puzzleID.Equal(grant.Puzzle) {
			return fmt.Errorf("%w: grant is scoped to another puzzle", entity.ErrUnauthorized)
		}
		target = grant.Puzzle
		reward, err = c.claim(tx, caller, target, receiver, memo)
		if err != nil {
			return &consumedError{err: err}
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, c.settleFailure(ctx, caller, err)
	}

	c.rec.PuzzleTransition(entity.Claimed{}.Name())
	c.log.Info("puzzle claimed",
		"pk", target.String(),
		"receiver", receiver,
		"memo", memo,
		"reward", reward.String(),
	)
	return reward, nil
}

func (c *Crossword) claim(tx ports.Tx, solver, id entity.PublicKey, receiver entity.AccountID, memo string) (decimal.Decimal, error) {
	puzzle, found, err := tx.Puzzles().Get(id)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, fmt.Errorf("%w: %s", entity.ErrPuzzleNotFound, id)
	}
	solved, ok := puzzle.Status.(entity.Solved)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: status %s", entity.ErrNotYetSolved, puzzle.Status.Name())
	}
	if !solved.SolverCredential.Equal(solver) {
		return decimal.Zero, fmt.Errorf("%w: caller is not the recorded solver", entity.ErrUnauthorized)
	}

	puzzle.Status = entity.Claimed{Memo: memo}
	if _, err := tx.Puzzles().Insert(id, puzzle); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Ledger().Transfer(receiver, puzzle.Reward); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Ledger().Revoke(solver); err != nil {
		return decimal.Zero, err
	}
	return puzzle.Reward, nil
}

// Puzzle returns the public view of one puzzle in any state.
func (c *Crossword) Puzzle(ctx context.Context, id entity.PublicKey) (entity.PuzzleView, error) {
	var view entity.PuzzleView
	err := c.store.View(ctx, func(tx ports.Tx) error {
		p, found, err := tx.Puzzles().Get(id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", entity.ErrPuzzleNotFound, id)
		}
		view, err = entity.NewPuzzleView(id, p)
		return err
	})
	return view, err
}

func (c *Crossword) Balance(ctx context.Context, account entity.AccountID) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := c.store.View(ctx, func(tx ports.Tx) error {
		var err error
		bal, err = tx.Ledger().Balance(account)
		return err
	})
	return bal, err
}

func authorize(tx ports.Tx, caller entity.PublicKey, method string) error {
	_, err := authorizeGrant(tx, caller, method)
	return err
}

// authorizeGrant is the host's access-key check: the caller must hold a grant
// for exactly this method.
func authorizeGrant(tx ports.Tx, caller entity.PublicKey, method string) (entity.Grant, error) {
	g, found, err := tx.Ledger().Lookup(caller)
	if err != nil {
		return entity.Grant{}, err
	}
	if !found || g.Method != method {
		return entity.Grant{}, fmt.Errorf("%w: %s", entity.ErrUnauthorized, method)
	}
	return g, nil
}

// consumedError marks a failure that happened after the caller's capability
// was accepted.
type consumedError struct {
	err error
}

func (e *consumedError) Error() string { return e.err.Error() }
func (e *consumedError) Unwrap() error { return e.err }

// settleFailure revokes a capability that was presented for a call that can
// never succeed, then returns the original error.
func (c *Crossword) settleFailure(ctx context.Context, caller entity.PublicKey, err error) error {
	var ce *consumedError
	if !errors.As(err, &ce) {
		return err
	}
	if !entity.IsLifecycleError(ce.err) {
		return ce.err
	}
	rerr := c.store.Update(ctx, func(tx ports.Tx) error {
		return tx.Ledger().Revoke(caller)
	})
	if rerr != nil {
		c.log.Error("revoke dangling grant failed", "pk", caller.String(), "err", rerr)
	} else {
		c.log.Warn("revoked dangling grant", "pk", caller.String(), "reason", ce.err.Error())
	}
	return ce.err
}
