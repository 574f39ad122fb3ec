package brackets

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator issues identifiers for tournaments and matches.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type sequentialIDs struct {
	prefix string
	next   atomic.Uint64
}

// SequentialIDs returns a deterministic counter: prefix1, prefix2, ...
func SequentialIDs(prefix string) IDGenerator {
	return &sequentialIDs{prefix: prefix}
}

func (s *sequentialIDs) NewID() string {
	return fmt.Sprintf("%s%d", s.prefix, s.next.Add(1))
}

// Shuffler permutes n elements in place through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

// Shuffle runs a uniform Fisher-Yates pass over the global source.
func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// RandomShuffler draws uniform permutations from the runtime's global source.
var RandomShuffler Shuffler = globalShuffler{}

// SeededShuffler is deterministic for a given seed, so the same catalog always
// produces the same bracket shape.
func SeededShuffler(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

// KeepOrder leaves the catalog order untouched.
var KeepOrder Shuffler = keepOrder{}

type Option func(*SingleEliminationGenerator)

func WithIDGenerator(ids IDGenerator) Option {
	return func(g *SingleEliminationGenerator) {
		if ids != nil {
			g.ids = ids
		}
	}
}

func WithShuffler(s Shuffler) Option {
	return func(g *SingleEliminationGenerator) {
		if s != nil {
			g.shuffler = s
		}
	}
}
