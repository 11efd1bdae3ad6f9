package felt

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	addresses := []string{
		"0xabc",
		"0xABC",
		"0x04daa17763b286d1e59b97c283c0b8c949994c361e426a28f743c67bdfcf2bbe",
		"0x0",
	}

	for _, addr := range addresses {
		once, err := Normalize(addr)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", addr, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", once, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", addr, once, twice)
		}
	}
}

func TestNormalizeEquivalentRepresentations(t *testing.T) {
	a, err := Normalize("0xabc")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize("0x0000abc")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Normalize("0xABC")
	if err != nil {
		t.Fatal(err)
	}

	if a != b || a != c {
		t.Errorf("equivalent representations diverged: %q %q %q", a, b, c)
	}
	if len(a) != 66 {
		t.Errorf("expected 66-character output, got %d (%q)", len(a), a)
	}
	if !strings.HasPrefix(a, "0x0") {
		t.Errorf("expected 0x0 prefix, got %q", a)
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	for _, addr := range []string{"", "abc", "0x", "0xzz", "12345"} {
		if _, err := Normalize(addr); !errors.Is(err, ErrInvalidAddressFormat) {
			t.Errorf("Normalize(%q): expected ErrInvalidAddressFormat, got %v", addr, err)
		}
	}
}

func TestToHex(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0xabc", "0xabc"},
		{"0XABC", "0XABC"},
		{"2748", "0x0000000000000000000000000000000000000000000000000000000000000abc"},
		{"", ""},
		{"STRK", "0x5354524b"},
	}

	for _, tc := range cases {
		if got := ToHex(tc.in); got != tc.want {
			t.Errorf("ToHex(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	// An uppercase prefix must survive as hex so the normalized identity is
	// preserved rather than the address being re-encoded as text.
	upper, err := Normalize(ToHex("0Xabc"))
	if err != nil {
		t.Fatalf("Normalize(ToHex(0Xabc)) failed: %v", err)
	}
	lower, err := Normalize("0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if upper != lower {
		t.Errorf("0X and 0x prefixes diverged: %q vs %q", upper, lower)
	}
}

func TestShorten(t *testing.T) {
	got := Shorten("0x04daa17763b286d1e59b97c283c0b8c949994c361e426a28f743c67bdfcf2bbe")
	if got != "0x04d.." {
		t.Errorf("Shorten = %q, want %q", got, "0x04d..")
	}
}

func TestParseFelt(t *testing.T) {
	hexVal, err := ParseFelt("0xff")
	if err != nil || hexVal.Int64() != 255 {
		t.Errorf("ParseFelt(0xff) = %v, %v", hexVal, err)
	}
	decVal, err := ParseFelt("255")
	if err != nil || decVal.Int64() != 255 {
		t.Errorf("ParseFelt(255) = %v, %v", decVal, err)
	}
	if _, err := ParseFelt("nope"); err == nil {
		t.Error("ParseFelt(nope): expected error")
	}
}
