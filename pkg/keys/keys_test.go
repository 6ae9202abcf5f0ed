package keys

import (
	"testing"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
)

func TestFromPhrase_DeterministicAndNormalized(t *testing.T) {
	t.Parallel()

	a := FromPhrase("Not  far   but")
	b := FromPhrase("not far but")
	if !a.Public.Equal(b.Public) {
		t.Fatalf("normalized phrases derived different keys: %s vs %s", a.Public, b.Public)
	}
	c := FromPhrase("not far")
	if a.Public.Equal(c.Public) {
		t.Fatalf("different phrases derived the same key")
	}
	if s, err := a.Public.Scheme(); err != nil || s != entity.SchemeED25519 {
		t.Fatalf("scheme = %v, err = %v; want ed25519", s, err)
	}
	if len(a.Public.Body()) != 32 {
		t.Fatalf("body length = %d; want 32", len(a.Public.Body()))
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Hello   World ": "hello world",
		"\tTAB\nline":      "tab line",
		"":                 "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q; want %q", in, got, want)
		}
	}
}
