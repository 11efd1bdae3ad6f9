// Package felt canonicalizes Starknet felt252 addresses and values so that
// identity comparisons are plain string equality.
package felt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidAddressFormat is returned when an address is not a 0x-prefixed hex string.
var ErrInvalidAddressFormat = errors.New("invalid address format")

const paddedHexLen = 64

// Normalize converts any valid hex address into its canonical form: a
// lowercase "0x" string padded to 64 hex digits, with the first digit forced
// to '0' to match the 252-bit felt address space. Two addresses refer to the
// same identity iff their normalized forms are equal.
func Normalize(address string) (string, error) {
	if !strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X") {
		return "", fmt.Errorf("%w: %q must start with 0x", ErrInvalidAddressFormat, address)
	}

	hexPart := strings.ToLower(address[2:])
	if hexPart == "" || !isHex(hexPart) {
		return "", fmt.Errorf("%w: %q is not hexadecimal", ErrInvalidAddressFormat, address)
	}

	// Strip leading zeros, keeping at least one digit, then re-pad.
	hexPart = strings.TrimLeft(hexPart, "0")
	if hexPart == "" {
		hexPart = "0"
	}
	if len(hexPart) > paddedHexLen {
		return "", fmt.Errorf("%w: %q exceeds 252 bits", ErrInvalidAddressFormat, address)
	}
	hexPart = strings.Repeat("0", paddedHexLen-len(hexPart)) + hexPart

	return "0x0" + hexPart[1:], nil
}

// MustNormalize is Normalize for addresses already known to be well formed,
// such as constants from configuration.
func MustNormalize(address string) string {
	normalized, err := Normalize(address)
	if err != nil {
		panic(err)
	}
	return normalized
}

// ToHex converts a value into a hex string. Hex input passes through
// unchanged; a base-10 numeric string is converted and padded to 64 hex
// digits; anything else is treated as raw text and hex-encoded.
func ToHex(value string) string {
	if value == "" {
		return ""
	}
	if (strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X")) && isHex(value[2:]) && len(value) > 2 {
		return value
	}
	if n, ok := new(big.Int).SetString(value, 10); ok && isDecimal(value) {
		h := n.Text(16)
		if len(h) < paddedHexLen {
			h = strings.Repeat("0", paddedHexLen-len(h)) + h
		}
		return "0x" + h
	}
	return "0x" + hex.EncodeToString([]byte(value))
}

// Shorten renders a normalized address for display: the first five characters
// of the hex string followed by "..".
func Shorten(normalized string) string {
	if len(normalized) <= 5 {
		return normalized + ".."
	}
	return normalized[:5] + ".."
}

// ParseFelt parses a felt given either as a hex string or a base-10 numeric
// string into a big integer.
func ParseFelt(value string) (*big.Int, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		n, ok := new(big.Int).SetString(value[2:], 16)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddressFormat, value)
		}
		return n, nil
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddressFormat, value)
	}
	return n, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
