// internal/slots/slots.go

// Package slots issues the per-candidate invitation tokens for a lobby.
// Tokens are the only secret in a join link, so they come from crypto/rand
// and are never derived from the lobby ID.
package slots

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// TokenLen is the fixed token width. 8 characters over a 62-symbol
	// alphabet gives ~47.6 bits per token; collisions within one lobby's
	// candidate pool are still detected and retried below.
	TokenLen = 8

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewToken returns a fresh random token of TokenLen URL-safe characters.
func NewToken() (string, error) {
	buf := make([]byte, TokenLen)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Allocate generates one token per candidate identity. The returned map is
// token -> identity. Tokens are guaranteed pairwise distinct: a generated
// token that collides with an earlier one is discarded and redrawn.
func Allocate(candidates []string) (map[string]string, error) {
	out := make(map[string]string, len(candidates))
	for _, identity := range candidates {
		for {
			tok, err := NewToken()
			if err != nil {
				return nil, err
			}
			if _, taken := out[tok]; taken {
				continue
			}
			out[tok] = identity
			break
		}
	}
	return out, nil
}
