package setlist

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces document-unique identifiers for sets and songs.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (v4) UUID strings.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator generates prefix-1, prefix-2, ... in order.
// Useful where ids must be predictable, such as tests and fixtures.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewSequenceGenerator creates a sequence generator with the given prefix.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID() string {
	return g.Prefix + "-" + strconv.FormatInt(g.n.Add(1), 10)
}
