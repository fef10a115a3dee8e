package rng_test

import (
	"testing"

	"github.com/dshills/tapestry/pkg/rng"
)

// TestUsage_StageSeedDerivation demonstrates a "derived seed" RNG
// constructed by plain arithmetic on another RNG's seed, not by
// drawing from it.
func TestUsage_StageSeedDerivation(t *testing.T) {
	base := rng.New(123456789)

	derivedA := rng.New(base.Seed() + uint64(len("color")))
	derivedB := rng.New(base.Seed() + uint64(len("shape")))

	if derivedA.Seed() != derivedB.Seed() {
		t.Fatalf("two reference names of equal length must share a derived seed")
	}

	repeat := rng.New(base.Seed() + uint64(len("color")))
	if derivedA.NextU64() != repeat.NextU64() {
		t.Fatalf("derived RNGs from the same formula must produce identical streams")
	}
}

// TestUsage_WeightedSelection demonstrates selecting an index from a
// weighted list of candidate values, the core operation behind
// pkg/selector.
func TestUsage_WeightedSelection(t *testing.T) {
	r := rng.New(42)
	weights := []float64{1, 1, 1}
	idx := rng.Weighted(weights, r)
	if idx < 0 || idx >= len(weights) {
		t.Fatalf("Weighted returned out-of-range index %d", idx)
	}
}
