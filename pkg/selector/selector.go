package selector

import (
	"github.com/pkg/errors"

	"github.com/dshills/tapestry/pkg/expr"
	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/rng"
)

// ApplyFilter returns the subset of values for which node evaluates
// true against ctx (with ctx.Tags set to each candidate's own tags in
// turn). A nil node matches every value.
func ApplyFilter(values []model.DatatypeValue, node expr.Node, ctx *expr.EvalContext) []model.DatatypeValue {
	if node == nil {
		out := make([]model.DatatypeValue, len(values))
		copy(out, values)
		return out
	}
	var out []model.DatatypeValue
	for _, v := range values {
		candidateCtx := &expr.EvalContext{Tags: v.Tags, Selections: ctx.Selections}
		if node.Eval(candidateCtx) {
			out = append(out, v)
		}
	}
	return out
}

// Select draws count values from candidates using r. count == 0
// returns an empty, non-nil slice. count == 1 draws a single weighted
// value. count > 1 with unique draws sequentially without
// replacement, erroring if candidates has fewer than count entries;
// otherwise it samples count values with replacement.
func Select(candidates []model.DatatypeValue, count int, unique bool, r *rng.RNG) ([]model.DatatypeValue, error) {
	if count == 0 {
		return []model.DatatypeValue{}, nil
	}
	if len(candidates) == 0 {
		return nil, errors.New("filter matched no values")
	}
	if count == 1 {
		return []model.DatatypeValue{weightedPick(candidates, r)}, nil
	}
	if unique {
		return sampleUnique(candidates, count, r)
	}
	return sampleWithReplacement(candidates, count, r), nil
}

func weightedPick(candidates []model.DatatypeValue, r *rng.RNG) model.DatatypeValue {
	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		weights[i] = c.Weight
	}
	idx := rng.Weighted(weights, r)
	return candidates[idx]
}

func sampleWithReplacement(candidates []model.DatatypeValue, count int, r *rng.RNG) []model.DatatypeValue {
	out := make([]model.DatatypeValue, count)
	for i := 0; i < count; i++ {
		out[i] = weightedPick(candidates, r)
	}
	return out
}

func sampleUnique(candidates []model.DatatypeValue, count int, r *rng.RNG) ([]model.DatatypeValue, error) {
	if len(candidates) < count {
		return nil, errors.Errorf("unique selection needs %d distinct values, only %d available", count, len(candidates))
	}
	remaining := make([]model.DatatypeValue, len(candidates))
	copy(remaining, candidates)

	out := make([]model.DatatypeValue, 0, count)
	for i := 0; i < count; i++ {
		weights := make([]float64, len(remaining))
		for j, c := range remaining {
			weights[j] = c.Weight
		}
		idx := rng.Weighted(weights, r)
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out, nil
}
