package render

import (
	"strings"

	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/rng"
	"github.com/dshills/tapestry/pkg/scopectx"
)

// RenderFromRulebook resolves rulebookRef (a bare name, resolved
// against main's first-inserted namespace, or "namespace:name"),
// selects an entry point, and renders the section it names.
//
// The entry-point draw consumes from the same RNG stream the section
// render then continues from, seeded directly from seed — unlike a
// reference's Phase-1 count draw, it does not use a derived seed.
//
// If usedEntryPoints is non-nil and the rulebook has batch_variety
// set, entry points already present in *usedEntryPoints are excluded
// from the draw; if that would leave no candidates, the full entry
// point list is used instead. The chosen entry point's section name is
// appended to *usedEntryPoints after the draw.
func (rd *Renderer) RenderFromRulebook(rulebookRef string, seed uint64, usedEntryPoints *[]string) (*Result, error) {
	ns, name, ok := resolveNamespace(rd.main, rd.deps, rulebookRef)
	if !ok {
		return nil, &TargetNotFoundError{Ref: rulebookRef, Target: rulebookRef}
	}
	rb, ok := ns.Rulebooks.Get(name)
	if !ok || len(rb.EntryPoints) == 0 {
		return nil, &TargetNotFoundError{Ref: rulebookRef, Target: rulebookRef}
	}

	st := &renderState{main: rd.main, deps: rd.deps, rng: rng.New(seed)}

	candidates := rb.EntryPoints
	if rb.BatchVariety && usedEntryPoints != nil {
		if filtered := excludeUsed(rb.EntryPoints, *usedEntryPoints); len(filtered) > 0 {
			candidates = filtered
		}
	}

	weights := make([]float64, len(candidates))
	for i, ep := range candidates {
		weights[i] = ep.Weight
	}
	chosen := candidates[rng.Weighted(weights, st.rng)]

	if usedEntryPoints != nil {
		*usedEntryPoints = append(*usedEntryPoints, chosen.PromptSection)
	}

	target := chosen.PromptSection
	if !strings.Contains(target, ":") {
		target = ns.ID + ":" + target
	}

	ctx := scopectx.New()
	for key, value := range rb.ContextDefaults {
		if err := ctx.Set(key, scopectx.Text(value)); err != nil {
			return nil, err
		}
	}

	out, err := st.renderSection(target, ctx, 0)
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:         out.text,
		Seed:           seed,
		SelectedValues: buildSelectedValues(out.selections, ctx),
	}, nil
}

func excludeUsed(entryPoints []model.EntryPoint, used []string) []model.EntryPoint {
	usedSet := make(map[string]bool, len(used))
	for _, u := range used {
		usedSet[u] = true
	}
	var out []model.EntryPoint
	for _, ep := range entryPoints {
		if !usedSet[ep.PromptSection] {
			out = append(out, ep)
		}
	}
	return out
}
