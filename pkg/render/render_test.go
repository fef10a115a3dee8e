package render_test

import (
	"strings"
	"testing"

	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/render"
	"github.com/dshills/tapestry/pkg/scopectx"
)

func freshPackage(id string) *model.Package {
	return &model.Package{
		ID:         id,
		Version:    model.Version{Major: 1},
		VersionRaw: "1.0.0",
		Metadata:   model.Metadata{Name: id},
		Namespaces: model.NewNamespaceMap(),
	}
}

func addNamespace(pkg *model.Package, id string) *model.Namespace {
	ns := model.NewNamespace(id)
	pkg.Namespaces.Set(id, ns)
	return ns
}

func TestRender_SingleReference(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{
		Name:   "color",
		Values: []model.DatatypeValue{{Text: "red", Weight: 1}},
	})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{
		Name:       "greeting",
		Template:   "hello {c}",
		References: refs,
	})

	r := render.New(pkg, nil)
	out, err := r.Render("main:greeting", 42, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "hello red" {
		t.Fatalf("got %q", out.Output)
	}
	if out.SelectedValues["c"] != "red" {
		t.Fatalf("expected debug map to record c=red, got %v", out.SelectedValues)
	}
}

func TestRender_BareNameResolvesFirstNamespace(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{Name: "color", Values: []model.DatatypeValue{{Text: "red", Weight: 1}}})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	out, err := r.Render("greeting", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "red" {
		t.Fatalf("got %q", out.Output)
	}
}

func TestRender_MultipleValuesUseSeparator(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{
		Name: "color",
		Values: []model.DatatypeValue{
			{Text: "red", Weight: 1},
			{Text: "blue", Weight: 1},
			{Text: "green", Weight: 1},
		},
	})
	ns.SeparatorSets.Set("list", &model.SeparatorSet{Name: "list", Primary: ", ", Secondary: " and "})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 3, Max: 3, Unique: true, Separator: "list"})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	out, err := r.Render("main:greeting", 7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out.Output, ", ") != 1 || strings.Count(out.Output, " and ") != 1 {
		t.Fatalf("expected primary then secondary separator, got %q", out.Output)
	}
}

func TestRender_FilterRestrictsCandidates(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{
		Name: "color",
		Values: []model.DatatypeValue{
			{Text: "red", Weight: 1, Tags: map[string]any{"warm": true}},
			{Text: "blue", Weight: 1, Tags: map[string]any{"warm": false}},
		},
	})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Filter: "tags.warm", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	out, err := r.Render("main:greeting", 99, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "red" {
		t.Fatalf("expected only the warm color to match, got %q", out.Output)
	}
}

func TestRender_CrossReferenceFilterOrdering(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{Name: "color", Values: []model.DatatypeValue{{Text: "red", Weight: 1}}})
	ns.Datatypes.Set("accent", &model.Datatype{
		Name: "accent",
		Values: []model.DatatypeValue{
			{Text: "crimson", Weight: 1, Tags: map[string]any{"allowed": []any{"red"}}},
			{Text: "navy", Weight: 1, Tags: map[string]any{"allowed": []any{"blue"}}},
		},
	})
	refs := model.NewReferenceMap()
	// "a" is declared first in the template but depends on "c", which
	// must therefore be selected first.
	refs.Set("a", &model.Reference{Name: "a", Target: "main:accent", Filter: "ref:c in tags.allowed", Min: 1, Max: 1})
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{a} {c}", References: refs})

	r := render.New(pkg, nil)
	out, err := r.Render("main:greeting", 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "crimson red" {
		t.Fatalf("got %q", out.Output)
	}
}

func TestRender_RecursiveSectionTarget(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{Name: "color", Values: []model.DatatypeValue{{Text: "red", Weight: 1}}})
	innerRefs := model.NewReferenceMap()
	innerRefs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 1, Max: 1})
	ns.PromptSections.Set("inner", &model.PromptSection{Name: "inner", Template: "a {c} thing", References: innerRefs})

	outerRefs := model.NewReferenceMap()
	outerRefs.Set("i", &model.Reference{Name: "i", Target: "main:inner", Min: 1, Max: 1})
	ns.PromptSections.Set("outer", &model.PromptSection{Name: "outer", Template: "there is {i}", References: outerRefs})

	r := render.New(pkg, nil)
	out, err := r.Render("main:outer", 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "there is a red thing" {
		t.Fatalf("got %q", out.Output)
	}
}

func TestRender_RecursionDepthLimit(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	refs := model.NewReferenceMap()
	refs.Set("s", &model.Reference{Name: "s", Target: "main:loop", Min: 1, Max: 1})
	ns.PromptSections.Set("loop", &model.PromptSection{Name: "loop", Template: "{s}", References: refs})

	r := render.New(pkg, nil)
	_, err := r.Render("main:loop", 1, nil)
	if err == nil {
		t.Fatal("expected a recursion limit error")
	}
	var recErr *render.RecursionLimitError
	if !asError(err, &recErr) {
		t.Fatalf("expected RecursionLimitError, got %T: %v", err, err)
	}
}

func TestRender_RulesWriteContextConsumedInSubstitution(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{
		Name:   "color",
		Values: []model.DatatypeValue{{Text: "red", Weight: 1, Tags: map[string]any{"mood": "fierce"}}},
	})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{
		Name:       "greeting",
		Template:   "{c} and {mood}",
		References: refs,
	})
	ns.Rules.Set("mood-rule", &model.Rule{
		Name:  "mood-rule",
		Logic: "ref:c",
		Set:   "context.prompt.mood",
		Value: "ref:c.tags.mood",
	})

	r := render.New(pkg, nil)
	out, err := r.Render("main:greeting", 11, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "red and fierce" {
		t.Fatalf("got %q", out.Output)
	}
}

func TestRender_UnresolvedReferenceError(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.PromptSections.Set("greeting", &model.PromptSection{
		Name:       "greeting",
		Template:   "hello {missing}",
		References: model.NewReferenceMap(),
	})

	r := render.New(pkg, nil)
	_, err := r.Render("main:greeting", 1, nil)
	if err == nil {
		t.Fatal("expected an unresolved reference error")
	}
	var unresolved *render.UnresolvedReferenceError
	if !asError(err, &unresolved) {
		t.Fatalf("expected UnresolvedReferenceError, got %T: %v", err, err)
	}
}

func TestRender_ContextFallbackFromInitial(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.PromptSections.Set("greeting", &model.PromptSection{
		Name:       "greeting",
		Template:   "hello {name}",
		References: model.NewReferenceMap(),
	})

	r := render.New(pkg, nil)
	out, err := r.Render("main:greeting", 1, map[string]scopectx.Value{"name": scopectx.Text("Ada")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "hello Ada" {
		t.Fatalf("got %q", out.Output)
	}
}

func TestRender_NoMatchError(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{Name: "color", Values: []model.DatatypeValue{{Text: "red", Weight: 1}}})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Filter: "tags.nope", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	_, err := r.Render("main:greeting", 1, nil)
	if err == nil {
		t.Fatal("expected a no-match error")
	}
	var noMatch *render.NoMatchError
	if !asError(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %T: %v", err, err)
	}
}

func TestRender_UniqueInfeasibleError(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{Name: "color", Values: []model.DatatypeValue{{Text: "red", Weight: 1}}})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 2, Max: 2, Unique: true})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	_, err := r.Render("main:greeting", 1, nil)
	if err == nil {
		t.Fatal("expected a unique-infeasible error")
	}
	var uniqueErr *render.UniqueInfeasibleError
	if !asError(err, &uniqueErr) {
		t.Fatalf("expected UniqueInfeasibleError, got %T: %v", err, err)
	}
}

func TestRender_CycleError(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{Name: "color", Values: []model.DatatypeValue{{Text: "red", Weight: 1}}})
	refs := model.NewReferenceMap()
	refs.Set("a", &model.Reference{Name: "a", Target: "main:color", Filter: "ref:b", Min: 1, Max: 1})
	refs.Set("b", &model.Reference{Name: "b", Target: "main:color", Filter: "ref:a", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{a} {b}", References: refs})

	r := render.New(pkg, nil)
	_, err := r.Render("main:greeting", 1, nil)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	var cycleErr *render.CycleError
	if !asError(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %T: %v", err, err)
	}
}

func TestRender_TargetNotFoundError(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:nonexistent", Min: 1, Max: 1})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	_, err := r.Render("main:greeting", 1, nil)
	if err == nil {
		t.Fatal("expected a target-not-found error")
	}
	var notFound *render.TargetNotFoundError
	if !asError(err, &notFound) {
		t.Fatalf("expected TargetNotFoundError, got %T: %v", err, err)
	}
}

func TestRender_Determinism(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.Datatypes.Set("color", &model.Datatype{
		Name: "color",
		Values: []model.DatatypeValue{
			{Text: "red", Weight: 1},
			{Text: "blue", Weight: 2},
			{Text: "green", Weight: 1},
		},
	})
	refs := model.NewReferenceMap()
	refs.Set("c", &model.Reference{Name: "c", Target: "main:color", Min: 1, Max: 3})
	ns.PromptSections.Set("greeting", &model.PromptSection{Name: "greeting", Template: "{c}", References: refs})

	r := render.New(pkg, nil)
	first, err := r.Render("main:greeting", 123, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Render("main:greeting", 123, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Output != second.Output {
		t.Fatalf("same seed produced different output: %q vs %q", first.Output, second.Output)
	}
}

func TestRenderFromRulebook_EntryPointSelectionAndContextDefaults(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.PromptSections.Set("alpha", &model.PromptSection{
		Name:       "alpha",
		Template:   "alpha says {greeting}",
		References: model.NewReferenceMap(),
	})
	ns.PromptSections.Set("beta", &model.PromptSection{
		Name:       "beta",
		Template:   "beta says {greeting}",
		References: model.NewReferenceMap(),
	})
	ns.Rulebooks.Set("book", &model.Rulebook{
		Name: "book",
		EntryPoints: []model.EntryPoint{
			{PromptSection: "alpha", Weight: 1},
			{PromptSection: "beta", Weight: 1},
		},
		ContextDefaults: map[string]string{"greeting": "hi"},
	})

	r := render.New(pkg, nil)
	out, err := r.RenderFromRulebook("main:book", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Output, "hi") {
		t.Fatalf("expected context default substituted in, got %q", out.Output)
	}
	if !strings.HasPrefix(out.Output, "alpha") && !strings.HasPrefix(out.Output, "beta") {
		t.Fatalf("expected one of the entry points to be chosen, got %q", out.Output)
	}
}

func TestRenderFromRulebook_BatchVarietyAvoidsRepeats(t *testing.T) {
	pkg := freshPackage("main")
	ns := addNamespace(pkg, "main")
	ns.PromptSections.Set("alpha", &model.PromptSection{Name: "alpha", Template: "alpha", References: model.NewReferenceMap()})
	ns.PromptSections.Set("beta", &model.PromptSection{Name: "beta", Template: "beta", References: model.NewReferenceMap()})
	ns.Rulebooks.Set("book", &model.Rulebook{
		Name: "book",
		EntryPoints: []model.EntryPoint{
			{PromptSection: "alpha", Weight: 1},
			{PromptSection: "beta", Weight: 1},
		},
		BatchVariety: true,
	})

	r := render.New(pkg, nil)
	used := []string{"alpha"}
	out, err := r.RenderFromRulebook("main:book", 1, &used)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Output != "beta" {
		t.Fatalf("expected batch_variety to force the unused entry point, got %q", out.Output)
	}
	if len(used) != 2 || used[1] != "beta" {
		t.Fatalf("expected used entry points to record beta, got %v", used)
	}
}

// asError is a small generic-free helper mirroring errors.As for this
// package's exported error types in tests.
func asError[T any](err error, target *T) bool {
	for err != nil {
		if v, ok := err.(T); ok {
			*target = v
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
