package render

import (
	"sort"
	"strings"

	"github.com/dshills/tapestry/pkg/expr"
	"github.com/dshills/tapestry/pkg/graph"
	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/rng"
	"github.com/dshills/tapestry/pkg/scopectx"
	"github.com/dshills/tapestry/pkg/selector"
	"github.com/dshills/tapestry/pkg/separator"
	"github.com/dshills/tapestry/pkg/template"

	"github.com/dshills/tapestry/pkg/rules"
)

// maxRecursionDepth bounds how many section-within-section renders a
// single call may nest before giving up.
const maxRecursionDepth = 10

// Renderer renders prompt sections out of a resolved main package and
// its fully-loaded dependency map.
type Renderer struct {
	main *model.Package
	deps map[string]*model.Package
}

// New wraps main and its resolved dependency map for rendering. Callers
// are expected to have already run a package through pkg/resolver (so
// extends relationships are flattened) and, ideally, pkg/validate.
func New(main *model.Package, deps map[string]*model.Package) *Renderer {
	return &Renderer{main: main, deps: deps}
}

// renderState threads the shared RNG stream and package set through a
// single top-level call, including every recursive section render it
// triggers.
type renderState struct {
	main *model.Package
	deps map[string]*model.Package
	rng  *rng.RNG
}

// sectionOutput is the intermediate result of rendering one section:
// its substituted text and the Phase-1 selection-context map used to
// produce it.
type sectionOutput struct {
	text       string
	selections map[string]expr.Selection
}

// Render renders the section named by ref (a bare name, resolved
// against main's first-inserted namespace, or a "namespace:name" pair)
// with a fresh seed and optional initial context entries.
func (rd *Renderer) Render(ref string, seed uint64, initial map[string]scopectx.Value) (*Result, error) {
	st := &renderState{main: rd.main, deps: rd.deps, rng: rng.New(seed)}
	ctx := scopectx.New()
	for k, v := range initial {
		if err := ctx.Set(k, v); err != nil {
			return nil, err
		}
	}

	out, err := st.renderSection(ref, ctx, 0)
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:         out.text,
		Seed:           seed,
		SelectedValues: buildSelectedValues(out.selections, ctx),
	}, nil
}

// renderSection implements the three-phase pipeline for one section.
func (st *renderState) renderSection(ref string, ctx *scopectx.Context, depth int) (*sectionOutput, error) {
	if depth > maxRecursionDepth {
		return nil, &RecursionLimitError{Ref: ref, Depth: maxRecursionDepth}
	}

	ns, name, ok := resolveNamespace(st.main, st.deps, ref)
	if !ok {
		return nil, &TargetNotFoundError{Ref: ref, Target: ref}
	}
	sec, ok := ns.PromptSections.Get(name)
	if !ok {
		return nil, &TargetNotFoundError{Ref: ref, Target: ref}
	}

	tokens, err := template.Parse(sec.Template)
	if err != nil {
		return nil, &ParseError{Ref: ref, Err: err}
	}

	order, err := st.orderReferences(ref, sec, tokens)
	if err != nil {
		return nil, err
	}

	selections := map[string]expr.Selection{}
	selectedTexts := map[string][]string{}

	for _, refName := range order {
		refDef, ok := sec.References.Get(refName)
		if !ok {
			// A template placeholder with no matching declared
			// reference falls through to the Context lookup in Phase 3
			// instead of participating in Phase-1 selection.
			continue
		}
		target := refDef.Target
		if target == "" || strings.HasPrefix(target, "context:") {
			continue
		}

		targetNS, targetName, ok := resolveNamespace(st.main, st.deps, target)
		if !ok {
			return nil, &TargetNotFoundError{Ref: ref, Target: target}
		}

		if subSec, ok := targetNS.PromptSections.Get(targetName); ok && subSec != nil {
			subOut, err := st.renderSection(target, scopectx.New(), depth+1)
			if err != nil {
				return nil, err
			}
			selections[refName] = expr.Selection{Text: subOut.text}
			selectedTexts[refName] = []string{subOut.text}
			continue
		}

		dt, ok := targetNS.Datatypes.Get(targetName)
		if !ok {
			return nil, &TargetNotFoundError{Ref: ref, Target: target}
		}

		count := refDef.Min
		if refDef.Min != refDef.Max {
			derived := rng.New(st.rng.Seed() + uint64(len(refName)))
			count = derived.RangeInclusive(refDef.Min, refDef.Max)
		}
		if count == 0 {
			selectedTexts[refName] = []string{}
			continue
		}

		var filterNode expr.Node
		if refDef.Filter != "" {
			filterNode, err = expr.Parse(refDef.Filter)
			if err != nil {
				return nil, &SelectionError{Ref: ref, Field: refName, Err: err}
			}
		}

		candidates := selector.ApplyFilter(dt.Values, filterNode, &expr.EvalContext{Selections: selections})
		if len(candidates) == 0 {
			return nil, &NoMatchError{Ref: ref, Target: target}
		}

		picked, err := selector.Select(candidates, count, refDef.Unique, st.rng)
		if err != nil {
			if refDef.Unique {
				return nil, &UniqueInfeasibleError{Ref: refName, Requested: count, Available: len(candidates)}
			}
			return nil, &SelectionError{Ref: ref, Field: refName, Err: err}
		}

		texts := make([]string, len(picked))
		for i, v := range picked {
			texts[i] = v.Text
		}
		selectedTexts[refName] = texts
		selections[refName] = expr.Selection{Text: picked[0].Text, Tags: picked[0].Tags}
	}

	runRules(st.main, st.deps, selections, ctx)

	text, err := substitute(ref, tokens, sec, ns, selectedTexts, ctx)
	if err != nil {
		return nil, err
	}

	return &sectionOutput{text: text, selections: selections}, nil
}

// orderReferences builds the deduplicated, template-ordered reference
// list for sec and topologically sorts it so that any reference another
// reference's filter depends on (via ref:NAME) is selected first.
func (st *renderState) orderReferences(ref string, sec *model.PromptSection, tokens []template.Token) ([]string, error) {
	seen := map[string]bool{}
	var refOrder []string
	for _, tok := range tokens {
		if tok.Kind == template.KindReference && !seen[tok.Name] {
			seen[tok.Name] = true
			refOrder = append(refOrder, tok.Name)
		}
	}

	depGraph := graph.NewDiGraph()
	for _, name := range refOrder {
		depGraph.AddNode(name)
	}
	for _, refName := range refOrder {
		refDef, ok := sec.References.Get(refName)
		if !ok || refDef.Filter == "" {
			continue
		}
		node, err := expr.Parse(refDef.Filter)
		if err != nil {
			return nil, &SelectionError{Ref: ref, Field: refName, Err: err}
		}
		for dep := range expr.ExtractRefDependencies(node) {
			if seen[dep] {
				depGraph.AddEdge(dep, refName)
			}
		}
	}

	order, topoErr := depGraph.TopoSort(refOrder)
	if topoErr != nil {
		return nil, &CycleError{Ref: ref, Cycle: depGraph.FindCycle()}
	}
	return order, nil
}

func runRules(main *model.Package, deps map[string]*model.Package, selections map[string]expr.Selection, ctx *scopectx.Context) {
	for _, depID := range sortedKeys(deps) {
		dep := deps[depID]
		for _, nsID := range dep.Namespaces.Order() {
			depNS, _ := dep.Namespaces.Get(nsID)
			rules.Run(depNS.Rules.Rules(), selections, ctx)
		}
	}
	for _, nsID := range main.Namespaces.Order() {
		mainNS, _ := main.Namespaces.Get(nsID)
		rules.Run(mainNS.Rules.Rules(), selections, ctx)
	}
}

func substitute(
	ref string,
	tokens []template.Token,
	sec *model.PromptSection,
	ns *model.Namespace,
	selectedTexts map[string][]string,
	ctx *scopectx.Context,
) (string, error) {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Kind == template.KindLiteral {
			sb.WriteString(tok.Text)
			continue
		}

		if texts, ok := selectedTexts[tok.Name]; ok {
			switch len(texts) {
			case 0:
			case 1:
				sb.WriteString(texts[0])
			default:
				sb.WriteString(separator.FormatOrFallback(texts, resolveSeparator(sec, ns, tok.Name)))
			}
			continue
		}

		if has, _ := ctx.Has(tok.Name); has {
			text, err := ctx.GetText(tok.Name)
			if err != nil {
				return "", &UnresolvedReferenceError{Ref: ref, Name: tok.Name}
			}
			sb.WriteString(text)
			continue
		}

		return "", &UnresolvedReferenceError{Ref: ref, Name: tok.Name}
	}
	return sb.String(), nil
}

func resolveSeparator(sec *model.PromptSection, ns *model.Namespace, refName string) *separator.Set {
	refDef, ok := sec.References.Get(refName)
	if !ok || refDef.Separator == "" {
		return nil
	}
	ss, ok := ns.SeparatorSets.Get(refDef.Separator)
	if !ok {
		return nil
	}
	return &separator.Set{Primary: ss.Primary, Secondary: ss.Secondary, Tertiary: ss.Tertiary}
}

func buildSelectedValues(selections map[string]expr.Selection, ctx *scopectx.Context) map[string]string {
	out := make(map[string]string, len(selections))
	for name, sel := range selections {
		out[name] = sel.Text
	}
	for _, key := range ctx.ScopeKeys("prompt") {
		v, _, _ := ctx.Get("prompt:" + key)
		out["context:"+key] = v.AsText()
	}
	for _, key := range ctx.ScopeKeys("global") {
		v, _, _ := ctx.Get("global:" + key)
		out["context:"+key] = v.AsText()
	}
	return out
}

func sortedKeys(m map[string]*model.Package) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
