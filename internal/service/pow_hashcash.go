package service

import (
	"context"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"time"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

const hashcashAlgo = "sha256-leading-zero-bits"

// Hashcash issues per-connection challenges. The salt doubles as the nonce
// that request signatures are bound to, so it is drawn even when difficulty is 0.
type Hashcash struct {
	difficulty int
	ttl        time.Duration
	now        func() time.Time
}

func NewHashcash(difficulty int, ttl time.Duration) *Hashcash {
	return &Hashcash{difficulty: difficulty, ttl: ttl, now: time.Now}
}

func (h *Hashcash) NewChallenge() (entity.Challenge, error) {
	salt := make([]byte, 16)
	if _, err := crand.Read(salt); err != nil {
		return entity.Challenge{}, fmt.Errorf("draw salt: %w", err)
	}
	return entity.Challenge{
		Version:    1,
		Algo:       hashcashAlgo,
		Difficulty: h.difficulty,
		SaltB64:    base64.StdEncoding.EncodeToString(salt),
		Expires:    h.now().Add(h.ttl).Unix(),
	}, nil
}

func leadingZeroBits(b []byte) int {
	total := 0
	for _, by := range b {
		if by == 0 {
			total += 8
			continue
		}
		total += bits.LeadingZeros8(by)
		break
	}
	return total
}

func powMessage(salt []byte, expires int64, nonceHex string) []byte {
	payload := make([]byte, 0, len(salt)+1+20+1+len(nonceHex))
	payload = append(payload, salt...)
	payload = append(payload, ':')
	payload = append(payload, []byte(strconv.FormatInt(expires, 10))...)
	payload = append(payload, ':')
	payload = append(payload, []byte(nonceHex)...)
	return payload
}

func (h *Hashcash) Verify(ch entity.Challenge, sol entity.Solution) error {
	if ch.Algo != hashcashAlgo || ch.Version != 1 {
		return entity.ErrUnsupportedChallenge
	}
	if h.now().Unix() > ch.Expires {
		return entity.ErrChallengeExpired
	}
	salt, err := base64.StdEncoding.DecodeString(ch.SaltB64)
	if err != nil {
		return fmt.Errorf("%w: bad salt: %v", entity.ErrUnsupportedChallenge, err)
	}
	sum := sha256.Sum256(powMessage(salt, ch.Expires, strings.ToLower(sol.Nonce)))
	if leadingZeroBits(sum[:]) < ch.Difficulty {
		return entity.ErrWorkInvalid
	}
	return nil
}

// SolveChallenge searches hex nonces until one meets the challenge difficulty.
func SolveChallenge(ctx context.Context, ch entity.Challenge) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(ch.SaltB64)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	for i := uint64(0); ; i++ {
		if i%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if time.Now().Unix() > ch.Expires {
				return "", entity.ErrChallengeExpired
			}
		}
		nonce := strconv.FormatUint(i, 16)
		sum := sha256.Sum256(powMessage(salt, ch.Expires, nonce))
		if leadingZeroBits(sum[:]) >= ch.Difficulty {
			return nonce, nil
		}
	}
}
