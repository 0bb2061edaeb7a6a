// Package shortcode generates compact random tokens for recipe permalinks.
package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	DefaultLength      = 10
	DefaultAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultMaxAttempts = 16
)

var ErrExhausted = errors.New("short code: no free code found within attempt budget")

// ExistsFunc reports whether a code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Generator struct {
	length      int
	alphabet    []rune
	maxAttempts int
}

func New(length int, alphabet string, maxAttempts int) (*Generator, error) {
	if length <= 0 {
		return nil, fmt.Errorf("short code length must be > 0, got %d", length)
	}
	runes := []rune(alphabet)
	if len(runes) < 2 {
		return nil, fmt.Errorf("short code alphabet must have at least 2 characters")
	}
	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if _, dup := seen[r]; dup {
			return nil, fmt.Errorf("short code alphabet has duplicate character %q", r)
		}
		seen[r] = struct{}{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{length: length, alphabet: runes, maxAttempts: maxAttempts}, nil
}

// Default returns a generator with length 10 over [a-zA-Z0-9].
func Default() *Generator {
	g, _ := New(DefaultLength, DefaultAlphabet, DefaultMaxAttempts)
	return g
}

func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Random returns one code without checking for collisions.
func (g *Generator) Random() (string, error) {
	size := big.NewInt(int64(len(g.alphabet)))
	out := make([]rune, g.length)
	for i := range out {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = g.alphabet[n.Int64()]
	}
	return string(out), nil
}

// Generate draws codes until exists reports a free one. The pre-check is only
// advisory: callers must still rely on the unique index when inserting.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := g.Random()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check short code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
