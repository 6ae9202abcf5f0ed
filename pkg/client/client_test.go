package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayanaadylkhanova/crossword/internal/adapter/storage"
	"github.com/dayanaadylkhanova/crossword/internal/adapter/transport/tcp"
	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/internal/service"
	"github.com/dayanaadylkhanova/crossword/pkg/keys"
	"github.com/dayanaadylkhanova/crossword/pkg/metrics"
)

func startServer(t *testing.T) string {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := storage.Open(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New()
	cw := service.NewCrossword(log, storage.NewStore(db), "crossword.test", decimal.RequireFromString("0.25"), m)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := tcp.NewServer(log, addr, time.Minute, 200*time.Millisecond, service.NewHashcash(4, time.Minute), service.NewGuard(cw), m)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})

	require.Eventually(t, func() bool {
		c, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}
		_ = c.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)
	return addr
}

func TestCall_PuzzleLifecycleOverTCP(t *testing.T) {
	c := New(startServer(t), 5*time.Second)
	ctx := context.Background()

	creator := keys.FromPhrase("creator key")
	answer := keys.FromPhrase("the Answer phrase")
	solver := keys.FromPhrase("solver key")

	var created entity.PuzzleView
	err := c.Call(ctx, &creator, entity.MethodNewPuzzle, entity.NewPuzzleParams{
		AnswerPK:   answer.Public,
		Dimensions: entity.CoordinatePair{X: 19, Y: 13},
		Answers: []entity.Answer{{
			Num: 1, Start: entity.CoordinatePair{X: 0, Y: 0}, Direction: entity.Across, Length: 5, Clue: "greeting",
		}},
		Deposit: decimal.NewFromInt(10),
		Creator: "alice",
	}, &created)
	require.NoError(t, err)
	assert.Equal(t, entity.Unsolved{}, created.Status)

	var unsolved []entity.PuzzleView
	require.NoError(t, c.Call(ctx, nil, entity.MethodUnsolved, nil, &unsolved))
	require.Len(t, unsolved, 1)
	assert.Equal(t, answer.Public.String(), unsolved[0].SolutionPublicKey)

	require.NoError(t, c.Call(ctx, &answer, entity.MethodSubmitSolution, entity.SubmitSolutionParams{SolverPK: solver.Public}, nil))

	err = c.Call(ctx, &answer, entity.MethodSubmitSolution, entity.SubmitSolutionParams{SolverPK: creator.Public}, nil)
	assert.True(t, errors.Is(err, entity.ErrUnauthorized), "rotated key must lose its grant, got %v", err)
	assert.True(t, IsRejected(err))

	var paid entity.BalanceResult
	require.NoError(t, c.Call(ctx, &solver, entity.MethodClaimReward, entity.ClaimRewardParams{
		ReceiverAccID: "bob", Memo: "done",
	}, &paid))
	assert.True(t, paid.Balance.Equal(decimal.NewFromInt(10)))

	var view entity.PuzzleView
	require.NoError(t, c.Call(ctx, nil, entity.MethodPuzzle, entity.PuzzleParams{PublicKey: answer.Public}, &view))
	assert.Equal(t, entity.Claimed{Memo: "done"}, view.Status)

	require.NoError(t, c.Call(ctx, nil, entity.MethodUnsolved, nil, &unsolved))
	assert.Empty(t, unsolved)
}

func TestCall_Rejections(t *testing.T) {
	c := New(startServer(t), 5*time.Second)
	ctx := context.Background()
	kp := keys.FromPhrase("someone")

	err := c.Call(ctx, nil, entity.MethodPuzzle, entity.PuzzleParams{PublicKey: kp.Public}, nil)
	assert.True(t, errors.Is(err, entity.ErrPuzzleNotFound), "got %v", err)

	err = c.Call(ctx, nil, entity.MethodNewPuzzle, entity.NewPuzzleParams{}, nil)
	assert.True(t, errors.Is(err, entity.ErrBadSignature), "got %v", err)

	err = c.Call(ctx, &kp, "drop_tables", nil, nil)
	assert.True(t, errors.Is(err, entity.ErrUnknownMethod), "got %v", err)
}

func TestCall_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	err = New(addr, time.Second).Call(context.Background(), nil, entity.MethodUnsolved, nil, nil)
	require.Error(t, err)
	assert.False(t, IsRejected(err))
}
