package entity

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	MethodNewPuzzle      = "new_puzzle"
	MethodSubmitSolution = "submit_solution"
	MethodClaimReward    = "claim_reward"
	MethodUnsolved       = "get_unsolved_puzzles"
	MethodPuzzle         = "get_puzzle"
	MethodBalance        = "get_balance"
)

// IsKnownMethod reports whether m is one of the methods the server dispatches.
func IsKnownMethod(m string) bool {
	switch m {
	case MethodNewPuzzle, MethodSubmitSolution, MethodClaimReward, MethodUnsolved, MethodPuzzle, MethodBalance:
		return true
	}
	return false
}

// Request is the single line a client sends after reading the challenge.
type Request struct {
	Nonce     string          `json:"nonce"`
	Method    string          `json:"method"`
	PublicKey PublicKey       `json:"public_key,omitempty"`
	Signature string          `json:"signature,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	OK     bool            `json:"ok"`
	Code   string          `json:"code,omitempty"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// SigningPayload is the byte string a caller signs: salt:expires:method:params.
func SigningPayload(ch Challenge, method string, params []byte) []byte {
	exp := strconv.FormatInt(ch.Expires, 10)
	payload := make([]byte, 0, len(ch.SaltB64)+len(exp)+len(method)+len(params)+3)
	payload = append(payload, ch.SaltB64...)
	payload = append(payload, ':')
	payload = append(payload, exp...)
	payload = append(payload, ':')
	payload = append(payload, method...)
	payload = append(payload, ':')
	payload = append(payload, params...)
	return payload
}

type NewPuzzleParams struct {
	AnswerPK   PublicKey       `json:"answer_pk" validate:"required"`
	Dimensions CoordinatePair  `json:"dimensions"`
	Answers    []Answer        `json:"answers" validate:"required,min=1,dive"`
	Deposit    decimal.Decimal `json:"deposit"`
	Creator    AccountID       `json:"creator" validate:"required,max=64"`
}

type SubmitSolutionParams struct {
	SolverPK PublicKey `json:"solver_pk" validate:"required"`
}

type ClaimRewardParams struct {
	CrosswordPK   PublicKey `json:"crossword_pk,omitempty"`
	ReceiverAccID AccountID `json:"receiver_acc_id" validate:"required,max=64"`
	Memo          string    `json:"memo" validate:"max=256"`
}

type PuzzleParams struct {
	PublicKey PublicKey `json:"public_key" validate:"required"`
}

type BalanceParams struct {
	Account AccountID `json:"account" validate:"required,max=64"`
}

type BalanceResult struct {
	Account AccountID       `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}
