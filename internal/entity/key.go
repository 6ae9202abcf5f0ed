package entity

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

type KeyScheme byte

const (
	SchemeED25519   KeyScheme = 0
	SchemeSECP256K1 KeyScheme = 1
)

func (s KeyScheme) String() string {
	switch s {
	case SchemeED25519:
		return "ed25519"
	case SchemeSECP256K1:
		return "secp256k1"
	default:
		return fmt.Sprintf("scheme(%d)", byte(s))
	}
}

// keyLen is the body length that ParsePublicKey accepts per scheme.
// EncodePublicKey does not check it, so a secp256k1 key with a 32-byte body
// encodes but does not parse back.
func (s KeyScheme) keyLen() int {
	if s == SchemeSECP256K1 {
		return 64
	}
	return 32
}

// PublicKey is a credential identifier: one scheme tag byte followed by the key body.
type PublicKey []byte

func NewPublicKey(scheme KeyScheme, body []byte) PublicKey {
	pk := make(PublicKey, 0, len(body)+1)
	pk = append(pk, byte(scheme))
	return append(pk, body...)
}

func (pk PublicKey) Scheme() (KeyScheme, error) {
	if len(pk) == 0 {
		return 0, fmt.Errorf("%w: empty key", ErrUnknownKeyScheme)
	}
	switch s := KeyScheme(pk[0]); s {
	case SchemeED25519, SchemeSECP256K1:
		return s, nil
	default:
		return 0, fmt.Errorf("%w: tag %d", ErrUnknownKeyScheme, pk[0])
	}
}

// Body returns the key bytes without the scheme tag.
func (pk PublicKey) Body() []byte {
	if len(pk) == 0 {
		return nil
	}
	return pk[1:]
}

func (pk PublicKey) Equal(other PublicKey) bool {
	return string(pk) == string(other)
}

// EncodePublicKey renders the human readable "<scheme>:<base58 body>" form.
// Only the tag is checked; the body length is not.
func EncodePublicKey(pk PublicKey) (string, error) {
	scheme, err := pk.Scheme()
	if err != nil {
		return "", err
	}
	return scheme.String() + ":" + base58.Encode(pk.Body()), nil
}

func (pk PublicKey) String() string {
	s, err := EncodePublicKey(pk)
	if err != nil {
		return fmt.Sprintf("invalid-key(%x)", []byte(pk))
	}
	return s
}

// ParsePublicKey accepts "ed25519:<base58>" or "secp256k1:<base58>".
// A bare base58 string is read as ed25519.
func ParsePublicKey(s string) (PublicKey, error) {
	s = strings.TrimSpace(s)
	prefix, body, found := strings.Cut(s, ":")
	if !found {
		prefix, body = "ed25519", s
	}
	var scheme KeyScheme
	switch strings.ToLower(prefix) {
	case "ed25519":
		scheme = SchemeED25519
	case "secp256k1":
		scheme = SchemeSECP256K1
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyScheme, prefix)
	}
	raw, err := base58.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base58 key: %v", ErrBadRequest, err)
	}
	if len(raw) != scheme.keyLen() {
		return nil, fmt.Errorf("%w: bad %s key length %d; want %d", ErrBadRequest, scheme, len(raw), scheme.keyLen())
	}
	return NewPublicKey(scheme, raw), nil
}

// MarshalText encodes an empty key as "" so optional key fields stay encodable.
func (pk PublicKey) MarshalText() ([]byte, error) {
	if len(pk) == 0 {
		return []byte{}, nil
	}
	s, err := EncodePublicKey(pk)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (pk *PublicKey) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*pk = nil
		return nil
	}
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}
