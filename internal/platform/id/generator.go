package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator mints opaque identifiers for externally visible references
// such as request ids.
type Generator interface {
	NewID() (string, error)
}

// HexGenerator produces fixed-width lowercase hex ids from crypto/rand.
type HexGenerator struct {
	size int
}

func NewHexGenerator(size int) *HexGenerator {
	if size < 8 {
		size = 8
	}
	return &HexGenerator{size: size}
}

func (g *HexGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
