package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"Swift", "Steady", "Prudent", "Bold", "Liquid",
	"Solvent", "Patient", "Golden", "Iron", "Silver",
	"Quiet", "Bright", "Early", "Late", "Deep",
	"Nimble", "Sharp", "Calm", "Steel", "Prime",
}

var nouns = []string{
	"Lender", "Keeper", "Falcon", "Vault", "Anchor",
	"Ledger", "Beacon", "Harbor", "Oracle", "Compass",
	"Summit", "Bridge", "Signal", "Mint", "Quill",
	"Cipher", "Channel", "Course", "Meridian", "Atlas",
}

// GenerateNickname creates a default display name for a first-time wallet
// in the format "Adjective_Noun_XXXX" where XXXX is a random 4-digit number
func GenerateNickname() (string, error) {
	adjIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(adjectives))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random adjective: %w", err)
	}

	nounIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(nouns))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random noun: %w", err)
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	nickname := fmt.Sprintf("%s_%s_%04d",
		adjectives[adjIdx.Int64()],
		nouns[nounIdx.Int64()],
		suffix.Int64(),
	)

	return nickname, nil
}
