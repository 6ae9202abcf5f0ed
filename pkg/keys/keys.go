// Package keys derives credentials from secret phrases and signs requests with them.
package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

type KeyPair struct {
	Private ed25519.PrivateKey
	Public  entity.PublicKey
}

// Normalize lowercases the phrase and collapses runs of whitespace, so
// "Not  far But" and "not far but" derive the same key.
func Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// FromPhrase derives an ed25519 keypair whose seed is sha256 of the normalized phrase.
func FromPhrase(phrase string) KeyPair {
	seed := sha256.Sum256([]byte(Normalize(phrase)))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return KeyPair{
		Private: priv,
		Public:  entity.NewPublicKey(entity.SchemeED25519, pub),
	}
}

// Sign returns the base64 signature over the payload bound to challenge ch.
func (kp KeyPair) Sign(ch entity.Challenge, method string, params []byte) string {
	sig := ed25519.Sign(kp.Private, entity.SigningPayload(ch, method, params))
	return base64.StdEncoding.EncodeToString(sig)
}

// SignRequest fills the public key and signature of req.
func (kp KeyPair) SignRequest(ch entity.Challenge, req *entity.Request) {
	req.PublicKey = kp.Public
	req.Signature = kp.Sign(ch, req.Method, req.Params)
}
