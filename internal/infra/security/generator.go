package security

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

// Generator produces the random artifacts the service hands out: numeric
// codes, initial passwords, and login handles.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// WithSource replaces the randomness source, primarily for tests.
func (g *Generator) WithSource(r io.Reader) *Generator {
	if r != nil {
		g.rand = r
	}
	return g
}

// NumericCode generates a fixed-length string of decimal digits.
func (g *Generator) NumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive")
	}

	digits := make([]byte, length)
	for i := range digits {
		d, err := g.uniformIndex(10)
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(d)
	}

	return string(digits), nil
}

// Password generates an initial password from letters, digits, and the
// !@#$% symbol set.
func (g *Generator) Password(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive")
	}

	chars := make([]byte, length)
	for i := range chars {
		idx, err := g.uniformIndex(len(passwordAlphabet))
		if err != nil {
			return "", err
		}
		chars[i] = passwordAlphabet[idx]
	}

	return string(chars), nil
}

// Handle derives a login handle from the person's name: the first two letters
// of the given name, the first four of the family name (lowercased), and a
// random suffix between 100 and 999.
func (g *Generator) Handle(firstName, lastName string) (string, error) {
	prefix := handleFragment(firstName, 2) + handleFragment(lastName, 4)

	n, err := g.uniformWord(900)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%d", prefix, 100+n), nil
}

// uniformIndex draws a value in [0, n) without modulo bias by discarding
// bytes above the largest multiple of n.
func (g *Generator) uniformIndex(n int) (int, error) {
	limit := 256 - 256%n
	var buf [1]byte
	for {
		if _, err := io.ReadFull(g.rand, buf[:]); err != nil {
			return 0, fmt.Errorf("read random bytes: %w", err)
		}
		if int(buf[0]) < limit {
			return int(buf[0]) % n, nil
		}
	}
}

// uniformWord is uniformIndex over two-byte draws, for ranges beyond 256.
func (g *Generator) uniformWord(n int) (int, error) {
	limit := 65536 - 65536%n
	var buf [2]byte
	for {
		if _, err := io.ReadFull(g.rand, buf[:]); err != nil {
			return 0, fmt.Errorf("read random bytes: %w", err)
		}
		v := int(buf[0])<<8 | int(buf[1])
		if v < limit {
			return v % n, nil
		}
	}
}

func handleFragment(s string, max int) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes)
}
