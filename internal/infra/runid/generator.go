// Package runid generates launch identifiers.
package runid

import (
	"github.com/google/uuid"

	"github.com/orion-lang/orion/internal/domain"
)

// Ensure Generator implements domain.RunIDGenerator.
var _ domain.RunIDGenerator = (*Generator)(nil)

// Generator produces random UUIDs.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewRunID returns a new random UUID string.
func (g *Generator) NewRunID() string {
	return uuid.NewString()
}
