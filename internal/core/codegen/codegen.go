// Package codegen produces short, human-presentable ticket codes.
//
// Codes are a brand prefix followed by the first hex digits of a random
// 128-bit identifier, upper-cased. Uniqueness is enforced by storage; callers
// regenerate on a duplicate.
package codegen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPrefix = "APAE-"
	DefaultLength = 8
)

type Generator struct {
	prefix string
	length int
	random func() (uuid.UUID, error)
}

func New(prefix string, length int) *Generator {
	if length <= 0 || length > 32 {
		length = DefaultLength
	}
	// Scanned codes are upper-cased by Normalize, so the prefix must be too.
	return &Generator{prefix: strings.ToUpper(prefix), length: length, random: uuid.NewRandom}
}

func (g *Generator) Next() (string, error) {
	id, err := g.random()
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}

	digits := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return g.prefix + digits[:g.length], nil
}

// Normalize trims and upper-cases a code as presented at a scanner.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
