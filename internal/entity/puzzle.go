package entity

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountID names a ledger account that can receive rewards.
type AccountID string

// CoordinatePair is a grid position; the origin (0,0) is the top left square.
type CoordinatePair struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

type Direction string

const (
	Across Direction = "Across"
	Down   Direction = "Down"
)

// Answer is clue metadata; the answer text itself is never stored.
type Answer struct {
	Num       uint8          `json:"num" validate:"required"`
	Start     CoordinatePair `json:"start"`
	Direction Direction      `json:"direction" validate:"required,oneof=Across Down"`
	Length    uint8          `json:"length" validate:"required"`
	Clue      string         `json:"clue" validate:"max=512"`
}

// PuzzleStatus is one of Unsolved, Solved or Claimed.
type PuzzleStatus interface {
	isPuzzleStatus()
	Name() string
}

type Unsolved struct{}

type Solved struct {
	SolverCredential PublicKey
}

type Claimed struct {
	Memo string
}

func (Unsolved) isPuzzleStatus() {}
func (Solved) isPuzzleStatus()   {}
func (Claimed) isPuzzleStatus()  {}

func (Unsolved) Name() string { return "Unsolved" }
func (Solved) Name() string   { return "Solved" }
func (Claimed) Name() string  { return "Claimed" }

func (Unsolved) MarshalJSON() ([]byte, error) {
	return []byte(`"Unsolved"`), nil
}

func (s Solved) MarshalJSON() ([]byte, error) {
	type body struct {
		SolverPK PublicKey `json:"solver_pk"`
	}
	return json.Marshal(map[string]body{"Solved": {SolverPK: s.SolverCredential}})
}

func (c Claimed) MarshalJSON() ([]byte, error) {
	type body struct {
		Memo string `json:"memo"`
	}
	return json.Marshal(map[string]body{"Claimed": {Memo: c.Memo}})
}

// UnmarshalStatus decodes the externally tagged status form produced by the variants' MarshalJSON.
func UnmarshalStatus(data []byte) (PuzzleStatus, error) {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == "Unsolved" {
			return Unsolved{}, nil
		}
		return nil, fmt.Errorf("unknown puzzle status %q", name)
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("decode puzzle status: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("puzzle status must have exactly one variant, got %d", len(tagged))
	}
	if raw, ok := tagged["Solved"]; ok {
		var b struct {
			SolverPK PublicKey `json:"solver_pk"`
		}
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode Solved status: %w", err)
		}
		return Solved{SolverCredential: b.SolverPK}, nil
	}
	if raw, ok := tagged["Claimed"]; ok {
		var b struct {
			Memo string `json:"memo"`
		}
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode Claimed status: %w", err)
		}
		return Claimed{Memo: b.Memo}, nil
	}
	if _, ok := tagged["Unsolved"]; ok {
		return Unsolved{}, nil
	}
	return nil, fmt.Errorf("unknown puzzle status %s", string(data))
}

// Puzzle is the stored record, keyed by the credential derived from the solution phrase.
type Puzzle struct {
	Status     PuzzleStatus    `json:"status"`
	Reward     decimal.Decimal `json:"reward"`
	Creator    AccountID       `json:"creator"`
	Dimensions CoordinatePair  `json:"dimensions"`
	Answers    []Answer        `json:"answer"`
}

func (p *Puzzle) UnmarshalJSON(data []byte) error {
	type alias Puzzle
	aux := struct {
		*alias
		Status json.RawMessage `json:"status"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	st, err := UnmarshalStatus(aux.Status)
	if err != nil {
		return err
	}
	p.Status = st
	return nil
}

// PuzzleView is the public projection of a puzzle.
type PuzzleView struct {
	SolutionPublicKey string          `json:"solution_public_key"`
	Status            PuzzleStatus    `json:"status"`
	Reward            decimal.Decimal `json:"reward"`
	Creator           AccountID       `json:"creator"`
	Dimensions        CoordinatePair  `json:"dimensions"`
	Answers           []Answer        `json:"answer"`
}

func (v *PuzzleView) UnmarshalJSON(data []byte) error {
	type alias PuzzleView
	aux := struct {
		*alias
		Status json.RawMessage `json:"status"`
	}{alias: (*alias)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	st, err := UnmarshalStatus(aux.Status)
	if err != nil {
		return err
	}
	v.Status = st
	return nil
}

// NewPuzzleView projects a stored puzzle; it fails only when the key scheme is unknown.
func NewPuzzleView(id PublicKey, p Puzzle) (PuzzleView, error) {
	encoded, err := EncodePublicKey(id)
	if err != nil {
		return PuzzleView{}, err
	}
	return PuzzleView{
		SolutionPublicKey: encoded,
		Status:            p.Status,
		Reward:            p.Reward,
		Creator:           p.Creator,
		Dimensions:        p.Dimensions,
		Answers:           p.Answers,
	}, nil
}

// Grant is a capability bound to one key allowing exactly one method on the
// contract account, scoped to a single puzzle.
type Grant struct {
	Key       PublicKey       `json:"public_key"`
	Method    string          `json:"method"`
	Puzzle    PublicKey       `json:"puzzle"`
	Allowance decimal.Decimal `json:"allowance"`
	Receiver  AccountID       `json:"receiver"`
}
