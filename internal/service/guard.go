package service

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

// Guard authenticates a request before it reaches the state machine: it checks
// the signature over the challenge-bound payload and decodes typed parameters.
type Guard struct {
	cw       *Crossword
	validate *validator.Validate
}

func NewGuard(cw *Crossword) *Guard {
	return &Guard{cw: cw, validate: validator.New()}
}

// Execute runs one request issued against challenge ch and returns its result.
func (g *Guard) Execute(ctx context.Context, ch entity.Challenge, req entity.Request) (any, error) {
	switch req.Method {
	case entity.MethodUnsolved:
		return g.cw.UnsolvedPuzzles(ctx)

	case entity.MethodPuzzle:
		var p entity.PuzzleParams
		if err := g.decode(req.Params, &p); err != nil {
			return nil, err
		}
		return g.cw.Puzzle(ctx, p.PublicKey)

	case entity.MethodBalance:
		var p entity.BalanceParams
		if err := g.decode(req.Params, &p); err != nil {
			return nil, err
		}
		bal, err := g.cw.Balance(ctx, p.Account)
		if err != nil {
			return nil, err
		}
		return entity.BalanceResult{Account: p.Account, Balance: bal}, nil

	case entity.MethodNewPuzzle:
		if err := VerifySignature(ch, req); err != nil {
			return nil, err
		}
		var p entity.NewPuzzleParams
		if err := g.decode(req.Params, &p); err != nil {
			return nil, err
		}
		if p.Dimensions.X == 0 || p.Dimensions.Y == 0 {
			return nil, fmt.Errorf("%w: dimensions must be non-zero", entity.ErrBadRequest)
		}
		if p.Deposit.IsNegative() {
			return nil, fmt.Errorf("%w: deposit %s", entity.ErrInvalidAmount, p.Deposit)
		}
		if err := g.cw.NewPuzzle(ctx, p.AnswerPK, p.Dimensions, p.Answers, p.Deposit, p.Creator); err != nil {
			return nil, err
		}
		return g.cw.Puzzle(ctx, p.AnswerPK)

	case entity.MethodSubmitSolution:
		if err := VerifySignature(ch, req); err != nil {
			return nil, err
		}
		var p entity.SubmitSolutionParams
		if err := g.decode(req.Params, &p); err != nil {
			return nil, err
		}
		if err := g.cw.SubmitSolution(ctx, req.PublicKey, p.SolverPK); err != nil {
			return nil, err
		}
		return g.cw.Puzzle(ctx, req.PublicKey)

	case entity.MethodClaimReward:
		if err := VerifySignature(ch, req); err != nil {
			return nil, err
		}
		var p entity.ClaimRewardParams
		if err := g.decode(req.Params, &p); err != nil {
			return nil, err
		}
		reward, err := g.cw.ClaimReward(ctx, req.PublicKey, p.CrosswordPK, p.ReceiverAccID, p.Memo)
		if err != nil {
			return nil, err
		}
		return entity.BalanceResult{Account: p.ReceiverAccID, Balance: reward}, nil

	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownMethod, req.Method)
	}
}

func (g *Guard) decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrBadRequest, err)
	}
	if err := g.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrBadRequest, err)
	}
	return nil
}

// VerifySignature proves the caller holds the private half of req.PublicKey.
// Only ed25519 signatures are verified; other schemes are rejected.
func VerifySignature(ch entity.Challenge, req entity.Request) error {
	scheme, err := req.PublicKey.Scheme()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrBadSignature, err)
	}
	if scheme != entity.SchemeED25519 {
		return fmt.Errorf("%w: %s signatures are not supported", entity.ErrBadSignature, scheme)
	}
	body := req.PublicKey.Body()
	if len(body) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: bad key length %d", entity.ErrBadSignature, len(body))
	}
	sig, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrBadSignature, err)
	}
	if !ed25519.Verify(ed25519.PublicKey(body), entity.SigningPayload(ch, req.Method, req.Params), sig) {
		return entity.ErrBadSignature
	}
	return nil
}
