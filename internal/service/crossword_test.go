package service

import (
	"bytes"
	"context"
	"log/slog"
	mrand "math/rand/v2"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayanaadylkhanova/crossword/internal/adapter/storage"
	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/ports"
)

func loggerSilent() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

type fixture struct {
	cw    *Crossword
	store *storage.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := storage.Open(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st := storage.NewStore(db)
	return fixture{
		cw:    NewCrossword(loggerSilent(), st, "crossword.test", decimal.RequireFromString("0.25"), nil),
		store: st,
	}
}

func pk(fill byte) entity.PublicKey {
	return entity.NewPublicKey(entity.SchemeED25519, bytes.Repeat([]byte{fill}, 32))
}

var oneAnswer = []entity.Answer{{
	Num: 1, Start: entity.CoordinatePair{X: 1, Y: 1}, Direction: entity.Across, Length: 8, Clue: "not far but",
}}

var dims = entity.CoordinatePair{X: 19, Y: 13}

func (f fixture) puzzle(t *testing.T, id entity.PublicKey) entity.Puzzle {
	t.Helper()
	var p entity.Puzzle
	require.NoError(t, f.store.View(context.Background(), func(tx ports.Tx) error {
		var found bool
		var err error
		p, found, err = tx.Puzzles().Get(id)
		require.True(t, found, "puzzle %s missing", id)
		return err
	}))
	return p
}

func (f fixture) grant(t *testing.T, key entity.PublicKey) (entity.Grant, bool) {
	t.Helper()
	var (
		g     entity.Grant
		found bool
	)
	require.NoError(t, f.store.View(context.Background(), func(tx ports.Tx) error {
		var err error
		g, found, err = tx.Ledger().Lookup(key)
		return err
	}))
	return g, found
}

// forceGrant plants a capability directly, standing in for a stale or replayed grant.
func (f fixture) forceGrant(t *testing.T, key entity.PublicKey, method string, puzzle entity.PublicKey) {
	t.Helper()
	require.NoError(t, f.store.Update(context.Background(), func(tx ports.Tx) error {
		return tx.Ledger().Grant(entity.Grant{Key: key, Method: method, Puzzle: puzzle})
	}))
}

func (f fixture) escrow(t *testing.T) decimal.Decimal {
	t.Helper()
	var pool decimal.Decimal
	require.NoError(t, f.store.View(context.Background(), func(tx ports.Tx) error {
		var err error
		pool, err = tx.Ledger().Escrow()
		return err
	}))
	return pool
}

// assertIndexConsistent checks that the unsolved index equals the set of known
// ids whose status is Unsolved.
func (f fixture) assertIndexConsistent(t *testing.T, known []entity.PublicKey) {
	t.Helper()
	require.NoError(t, f.store.View(context.Background(), func(tx ports.Tx) error {
		ids, err := tx.Unsolved().List()
		require.NoError(t, err)
		indexed := make(map[string]bool, len(ids))
		for _, id := range ids {
			indexed[string(id)] = true
		}
		want := 0
		for _, id := range known {
			p, found, err := tx.Puzzles().Get(id)
			require.NoError(t, err)
			if !found {
				assert.False(t, indexed[string(id)], "index lists absent puzzle %s", id)
				continue
			}
			_, unsolved := p.Status.(entity.Unsolved)
			assert.Equal(t, unsolved, indexed[string(id)], "index mismatch for %s (status %s)", id, p.Status.Name())
			if unsolved {
				want++
			}
		}
		assert.Len(t, ids, want)
		return nil
	}))
}

func TestNewPuzzle_GrantsSubmitAndEscrows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))

	p := f.puzzle(t, pk(1))
	assert.Equal(t, entity.Unsolved{}, p.Status)
	assert.True(t, p.Reward.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, entity.AccountID("alice"), p.Creator)
	assert.Equal(t, dims, p.Dimensions)

	g, found := f.grant(t, pk(1))
	require.True(t, found)
	assert.Equal(t, entity.MethodSubmitSolution, g.Method)
	assert.True(t, g.Puzzle.Equal(pk(1)))
	assert.Equal(t, entity.AccountID("crossword.test"), g.Receiver)
	assert.True(t, f.escrow(t).Equal(decimal.NewFromInt(5)))
	f.assertIndexConsistent(t, []entity.PublicKey{pk(1)})
}

func TestNewPuzzle_DuplicateLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	err := f.cw.NewPuzzle(ctx, pk(1), entity.CoordinatePair{X: 3, Y: 3}, nil, decimal.NewFromInt(9), "mallory")
	require.ErrorIs(t, err, entity.ErrDuplicatePuzzle)

	p := f.puzzle(t, pk(1))
	assert.Equal(t, entity.AccountID("alice"), p.Creator)
	assert.True(t, p.Reward.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, dims, p.Dimensions)
	assert.True(t, f.escrow(t).Equal(decimal.NewFromInt(5)), "failed call must not escrow")
	f.assertIndexConsistent(t, []entity.PublicKey{pk(1)})
}

func TestNewPuzzle_UnknownScheme(t *testing.T) {
	f := newFixture(t)
	err := f.cw.NewPuzzle(context.Background(), entity.PublicKey{7, 1, 2}, dims, oneAnswer, decimal.Zero, "alice")
	require.ErrorIs(t, err, entity.ErrUnknownKeyScheme)
}

func TestSubmitSolution_RotatesCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))

	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)))

	p := f.puzzle(t, pk(1))
	solved, ok := p.Status.(entity.Solved)
	require.True(t, ok, "status = %s", p.Status.Name())
	assert.True(t, solved.SolverCredential.Equal(pk(2)))

	_, found := f.grant(t, pk(1))
	assert.False(t, found, "puzzle grant must be revoked")
	g, found := f.grant(t, pk(2))
	require.True(t, found)
	assert.Equal(t, entity.MethodClaimReward, g.Method)
	assert.True(t, g.Puzzle.Equal(pk(1)))
	f.assertIndexConsistent(t, []entity.PublicKey{pk(1)})
}

type gaugeRecorder struct {
	unsolved    int
	transitions []string
}

func (r *gaugeRecorder) PuzzleTransition(status string) { r.transitions = append(r.transitions, status) }
func (r *gaugeRecorder) AddUnsolved(delta int)          { r.unsolved += delta }
func (r *gaugeRecorder) SetUnsolved(n int)              { r.unsolved = n }

func TestRecorder_UnsolvedGaugeFollowsCommittedCalls(t *testing.T) {
	f := newFixture(t)
	rec := &gaugeRecorder{unsolved: 0}
	f.cw.rec = rec
	ctx := context.Background()

	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(2), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	assert.Equal(t, 2, rec.unsolved)

	require.ErrorIs(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"), entity.ErrDuplicatePuzzle)
	assert.Equal(t, 2, rec.unsolved, "failed create must not move the gauge")

	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(3)))
	assert.Equal(t, 1, rec.unsolved)

	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(9), pk(4)), entity.ErrUnauthorized)
	_, err := f.cw.ClaimReward(ctx, pk(3), nil, "bob", "")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.unsolved, "claim does not touch the unsolved index")

	views, err := f.cw.UnsolvedPuzzles(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(views), rec.unsolved)
	assert.Equal(t, []string{"Unsolved", "Unsolved", "Solved", "Claimed"}, rec.transitions)
}

func TestSubmitSolution_RequiresGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))

	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(9), pk(2)), entity.ErrUnauthorized)

	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)))
	// the consumed capability cannot be replayed
	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(1), pk(3)), entity.ErrUnauthorized)

	// a claim grant does not authorize solving
	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(2), pk(3)), entity.ErrUnauthorized)
}

func TestSubmitSolution_AlreadySolvedLeavesStatusAndRevokes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)))

	f.forceGrant(t, pk(1), entity.MethodSubmitSolution, pk(1))
	err := f.cw.SubmitSolution(ctx, pk(1), pk(3))
	require.ErrorIs(t, err, entity.ErrAlreadySolved)

	p := f.puzzle(t, pk(1))
	assert.Equal(t, entity.Solved{SolverCredential: pk(2)}, p.Status)
	_, found := f.grant(t, pk(3))
	assert.False(t, found, "failed solve must not grant")
	_, found = f.grant(t, pk(1))
	assert.False(t, found, "dangling capability must be revoked on the failure path")

	// claimed puzzles also reject solving
	_, err = f.cw.ClaimReward(ctx, pk(2), nil, "bob", "done")
	require.NoError(t, err)
	f.forceGrant(t, pk(1), entity.MethodSubmitSolution, pk(1))
	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(1), pk(4)), entity.ErrAlreadySolved)
	assert.Equal(t, entity.Claimed{Memo: "done"}, f.puzzle(t, pk(1)).Status)
	f.assertIndexConsistent(t, []entity.PublicKey{pk(1)})
}

func TestSubmitSolution_MissingPuzzleRevokesGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.forceGrant(t, pk(1), entity.MethodSubmitSolution, pk(1))

	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)), entity.ErrPuzzleNotFound)
	_, found := f.grant(t, pk(1))
	assert.False(t, found)
}

func TestSubmitSolution_RejectsReusedSolverKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(2), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(9)))

	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(2), pk(9)), entity.ErrBadRequest)
	require.ErrorIs(t, f.cw.SubmitSolution(ctx, pk(2), pk(2)), entity.ErrBadRequest)

	assert.Equal(t, entity.Unsolved{}, f.puzzle(t, pk(2)).Status)
	_, found := f.grant(t, pk(2))
	assert.True(t, found, "a rejected request is not a consumed capability")
}

func TestClaimReward_NotYetSolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	f.forceGrant(t, pk(2), entity.MethodClaimReward, pk(1))

	_, err := f.cw.ClaimReward(ctx, pk(2), pk(1), "bob", "early")
	require.ErrorIs(t, err, entity.ErrNotYetSolved)

	assert.Equal(t, entity.Unsolved{}, f.puzzle(t, pk(1)).Status)
	assert.True(t, f.escrow(t).Equal(decimal.NewFromInt(5)))
	bal, err := f.cw.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	_, found := f.grant(t, pk(2))
	assert.False(t, found)
	f.assertIndexConsistent(t, []entity.PublicKey{pk(1)})
}

func TestClaimReward_AlreadyClaimed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)))
	_, err := f.cw.ClaimReward(ctx, pk(2), pk(1), "bob", "first")
	require.NoError(t, err)

	// the claim capability is gone after a successful claim
	_, err = f.cw.ClaimReward(ctx, pk(2), pk(1), "bob", "again")
	require.ErrorIs(t, err, entity.ErrUnauthorized)

	f.forceGrant(t, pk(2), entity.MethodClaimReward, pk(1))
	_, err = f.cw.ClaimReward(ctx, pk(2), pk(1), "bob", "again")
	require.ErrorIs(t, err, entity.ErrNotYetSolved)

	assert.Equal(t, entity.Claimed{Memo: "first"}, f.puzzle(t, pk(1)).Status)
	bal, err := f.cw.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(5)), "reward paid exactly once, got %s", bal)
	assert.True(t, f.escrow(t).IsZero())
}

func TestClaimReward_ScopedToGrantPuzzle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.NewFromInt(5), "alice"))
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(3), dims, oneAnswer, decimal.NewFromInt(7), "alice"))
	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)))
	require.NoError(t, f.cw.SubmitSolution(ctx, pk(3), pk(4)))

	_, err := f.cw.ClaimReward(ctx, pk(2), pk(3), "bob", "steal")
	require.ErrorIs(t, err, entity.ErrUnauthorized)
	assert.Equal(t, entity.Solved{SolverCredential: pk(4)}, f.puzzle(t, pk(3)).Status)

	_, found := f.grant(t, pk(2))
	assert.True(t, found, "a mis-scoped request does not consume the capability")
}

func TestClaimReward_PaysRecordedReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(1), dims, oneAnswer, decimal.RequireFromString("1.5"), "alice"))
	require.NoError(t, f.cw.NewPuzzle(ctx, pk(3), dims, oneAnswer, decimal.NewFromInt(100), "carol"))
	require.NoError(t, f.cw.SubmitSolution(ctx, pk(1), pk(2)))

	got, err := f.cw.ClaimReward(ctx, pk(2), nil, "bob", "thanks")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1.5")), "reward %s", got)

	bal, err := f.cw.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, f.escrow(t).Equal(decimal.NewFromInt(100)))
}

func TestUnsolvedPuzzles_CorruptIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Update(ctx, func(tx ports.Tx) error {
		return tx.Unsolved().Insert(pk(8))
	}))

	_, err := f.cw.UnsolvedPuzzles(ctx)
	require.ErrorIs(t, err, entity.ErrCorruptIndex)
}

func TestLifecycle_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	P, S, A := pk(1), pk(2), entity.AccountID("a.test")
	R := decimal.RequireFromString("10")

	require.NoError(t, f.cw.NewPuzzle(ctx, P, entity.CoordinatePair{X: 19, Y: 13}, oneAnswer, R, "creator.test"))

	views, err := f.cw.UnsolvedPuzzles(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, P.String(), views[0].SolutionPublicKey)
	assert.Equal(t, entity.Unsolved{}, views[0].Status)
	assert.True(t, views[0].Reward.Equal(R))

	before, err := f.cw.Balance(ctx, A)
	require.NoError(t, err)

	require.NoError(t, f.cw.SubmitSolution(ctx, P, S))
	views, err = f.cw.UnsolvedPuzzles(ctx)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.cw.ClaimReward(ctx, S, nil, A, "done")
	require.NoError(t, err)
	assert.Equal(t, entity.Claimed{Memo: "done"}, f.puzzle(t, P).Status)

	after, err := f.cw.Balance(ctx, A)
	require.NoError(t, err)
	assert.True(t, after.Sub(before).Equal(R), "balance delta %s; want %s", after.Sub(before), R)

	view, err := f.cw.Puzzle(ctx, P)
	require.NoError(t, err)
	assert.Equal(t, "Claimed", view.Status.Name())
}

// TestLifecycle_IndexMatchesStoreUnderRandomCalls drives random create/solve/claim
// calls, valid or not, and checks the index after each one.
func TestLifecycle_IndexMatchesStoreUnderRandomCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := mrand.New(mrand.NewPCG(7, 11))

	var known []entity.PublicKey
	for i := 0; i < 200; i++ {
		puzzleKey := pk(byte(1 + r.IntN(8)))
		solverKey := pk(byte(100 + r.IntN(40)))
		switch r.IntN(3) {
		case 0:
			if err := f.cw.NewPuzzle(ctx, puzzleKey, dims, oneAnswer, decimal.NewFromInt(int64(r.IntN(10))), "fuzz"); err == nil {
				known = append(known, puzzleKey)
			}
		case 1:
			_ = f.cw.SubmitSolution(ctx, puzzleKey, solverKey)
		case 2:
			_, _ = f.cw.ClaimReward(ctx, solverKey, nil, "fuzz-receiver", "m")
		}
		f.assertIndexConsistent(t, known)
	}
}
