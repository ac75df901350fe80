package brackets

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

type Format string

const (
	FormatKnockout   Format = "knockout"
	FormatRoundRobin Format = "round_robin"
)

func (f Format) Valid() bool {
	return f == FormatKnockout || f == FormatRoundRobin
}

// IDGenerator yields a stable identifier for every generated match, so that
// next/previous links can be wired before anything is persisted.
type IDGenerator func() string

// SequentialIDs returns an IDGenerator producing prefix+"M1", prefix+"M2", ...
func SequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%sM%d", prefix, n)
	}
}

type GenerateBracketParams[P comparable] struct {
	FixtureID    int
	Participants []P
	Teams        TeamMap[P]
	Settings     Settings
	// Rand drives seed shuffling; nil means a time-seeded source.
	Rand *rand.Rand
	// NewID defaults to random UUIDs.
	NewID IDGenerator
}

func (p GenerateBracketParams[P]) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	return defaultRand()
}

func (p GenerateBracketParams[P]) idGenerator() IDGenerator {
	if p.NewID != nil {
		return p.NewID
	}
	return uuid.NewString
}

func (p GenerateBracketParams[P]) validate() error {
	if len(p.Participants) == 0 {
		return fmt.Errorf("%w: participant list is empty", ErrInvalidInput)
	}
	if len(p.Participants) < 2 {
		return fmt.Errorf("%w: at least 2 participants are required, got %d", ErrInvalidInput, len(p.Participants))
	}
	seen := make(map[P]struct{}, len(p.Participants))
	for _, participant := range p.Participants {
		if _, dup := seen[participant]; dup {
			return fmt.Errorf("%w: participant %v listed more than once", ErrInvalidInput, participant)
		}
		seen[participant] = struct{}{}
	}
	return p.Settings.Validate()
}

// Bracket is the complete match set produced by one generation call.
type Bracket[P comparable] struct {
	Format      Format      `json:"format"`
	Matches     []*Match[P] `json:"matches"`
	TotalRounds int         `json:"total_rounds"`
	BracketSize int         `json:"bracket_size,omitempty"`
	Byes        int         `json:"byes"`
	// Feasible is false when the same-team constraint was not fully met.
	Feasible bool     `json:"feasible"`
	Warnings []string `json:"warnings,omitempty"`
}

func (b *Bracket[P]) Index() map[string]*Match[P] {
	index := make(map[string]*Match[P], len(b.Matches))
	for _, m := range b.Matches {
		index[m.ID] = m
	}
	return index
}

func (b *Bracket[P]) MatchesInRound(round int) []*Match[P] {
	var out []*Match[P]
	for _, m := range b.Matches {
		if m.Round == round && !m.IsThirdPlaceMatch {
			out = append(out, m)
		}
	}
	return out
}

// Final returns the root of a knockout tree, or nil for round-robin.
func (b *Bracket[P]) Final() *Match[P] {
	if b.Format != FormatKnockout {
		return nil
	}
	for _, m := range b.Matches {
		if m.Round == b.TotalRounds && !m.IsThirdPlaceMatch {
			return m
		}
	}
	return nil
}

func (b *Bracket[P]) Champion() *P {
	if final := b.Final(); final != nil {
		return final.Winner
	}
	return nil
}

func (b *Bracket[P]) warnf(format string, args ...interface{}) {
	b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
}

type Generator[P comparable] interface {
	GenerateBracket(params GenerateBracketParams[P]) (*Bracket[P], error)

	GetName() string
}

func NewGenerator[P comparable](format Format) (Generator[P], error) {
	switch format {
	case FormatKnockout:
		return NewSingleEliminationGenerator[P](), nil
	case FormatRoundRobin:
		return NewRoundRobinGenerator[P](), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}
