package entity

import "errors"

var (
	ErrDuplicatePuzzle  = errors.New("puzzle with that key already exists")
	ErrPuzzleNotFound   = errors.New("puzzle not found")
	ErrAlreadySolved    = errors.New("puzzle already solved")
	ErrNotYetSolved     = errors.New("puzzle should have Solved status to be claimed")
	ErrUnknownKeyScheme = errors.New("unknown key scheme")
	ErrCorruptIndex     = errors.New("unsolved index references a missing puzzle")

	ErrUnauthorized       = errors.New("caller is not authorized for this method")
	ErrBadSignature       = errors.New("request signature is invalid")
	ErrInsufficientEscrow = errors.New("escrow balance is insufficient")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrBadRequest         = errors.New("bad request")
	ErrUnknownMethod      = errors.New("unknown method")

	ErrUnsupportedChallenge = errors.New("unsupported challenge")
	ErrChallengeExpired     = errors.New("challenge expired")
	ErrWorkInvalid          = errors.New("pow invalid")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrDuplicatePuzzle, "DUPLICATE_PUZZLE"},
	{ErrPuzzleNotFound, "PUZZLE_NOT_FOUND"},
	{ErrAlreadySolved, "ALREADY_SOLVED"},
	{ErrNotYetSolved, "NOT_YET_SOLVED"},
	{ErrUnknownKeyScheme, "UNKNOWN_KEY_SCHEME"},
	{ErrCorruptIndex, "CORRUPT_INDEX"},
	{ErrUnauthorized, "UNAUTHORIZED"},
	{ErrBadSignature, "BAD_SIGNATURE"},
	{ErrInsufficientEscrow, "INSUFFICIENT_ESCROW"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrBadRequest, "BAD_REQUEST"},
	{ErrUnknownMethod, "UNKNOWN_METHOD"},
	{ErrUnsupportedChallenge, "UNSUPPORTED_CHALLENGE"},
	{ErrChallengeExpired, "CHALLENGE_EXPIRED"},
	{ErrWorkInvalid, "POW_INVALID"},
}

// ErrorCode maps an error to the stable code sent to clients.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "INTERNAL"
}

// IsLifecycleError reports whether err is a precondition failure of the puzzle state machine.
func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrPuzzleNotFound) ||
		errors.Is(err, ErrAlreadySolved) ||
		errors.Is(err, ErrNotYetSolved)
}

// ErrorFromCode is the inverse of ErrorCode for known codes; it returns nil otherwise.
func ErrorFromCode(code string) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	return nil
}
