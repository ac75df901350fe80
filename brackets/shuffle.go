package brackets

import (
	"math/rand"
	"time"
)

// NewRand returns a generator for reproducible seeding; pass it through
// GenerateBracketParams.Rand.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// doubleShuffle runs Fisher-Yates twice over items.
func doubleShuffle[T any](rng *rand.Rand, items []T) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	rng.Shuffle(len(items), swap)
	rng.Shuffle(len(items), swap)
}
