package rules_test

import (
	"testing"

	"github.com/dshills/tapestry/pkg/expr"
	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/rules"
	"github.com/dshills/tapestry/pkg/scopectx"
)

func TestRun_UnconditionalRuleSetsGlobal(t *testing.T) {
	rs := []*model.Rule{
		{Name: "mark", Set: "context.global.seen", Value: "yes"},
	}
	ctx := scopectx.New()
	rules.Run(rs, nil, ctx)

	got, err := ctx.GetText("global:seen")
	if err != nil || got != "yes" {
		t.Fatalf("got %q, err %v", got, err)
	}
}

func TestRun_WhenGuardsOnEvaluabilityNotTruthiness(t *testing.T) {
	// `when` gates on whether its referenced selection exists, not on
	// what it evaluates to: a present-but-falsy tag still fires.
	rs := []*model.Rule{
		{Name: "rare-marker", When: `ref:feature.tags.rare`, Set: "context.prompt.rarity", Value: "rare"},
	}

	ctx := scopectx.New()
	rules.Run(rs, map[string]expr.Selection{}, ctx)
	if ok, _ := ctx.Has("prompt:rarity"); ok {
		t.Fatal("expected rule to be skipped when feature was never selected")
	}

	sel := map[string]expr.Selection{"feature": {Text: "claws", Tags: map[string]any{"rare": false}}}
	ctx2 := scopectx.New()
	rules.Run(rs, sel, ctx2)
	if got, _ := ctx2.GetText("rarity"); got != "rare" {
		t.Fatalf("expected rule to fire once feature is selected, even with a falsy tag, got %q", got)
	}
}

func TestRun_MissingReferenceSkipsSilently(t *testing.T) {
	rs := []*model.Rule{
		{Name: "r", When: `ref:nothere`, Set: "context.prompt.x", Value: "v"},
	}
	ctx := scopectx.New()
	rules.Run(rs, map[string]expr.Selection{}, ctx)
	if ok, _ := ctx.Has("prompt:x"); ok {
		t.Fatal("expected no-op when the referenced value was never selected")
	}
}

func TestRun_FirstWriteWins(t *testing.T) {
	rs := []*model.Rule{
		{Name: "first", Set: "context.prompt.tone", Value: "grim"},
		{Name: "second", Set: "context.prompt.tone", Value: "playful"},
	}
	ctx := scopectx.New()
	rules.Run(rs, nil, ctx)
	got, _ := ctx.GetText("tone")
	if got != "grim" {
		t.Fatalf("expected first write to win, got %q", got)
	}
}

func TestRun_ValueFromRefTagCoercesToContextValue(t *testing.T) {
	rs := []*model.Rule{
		{Name: "copy-danger", Set: "context.prompt.danger", Value: "ref:monster.tags.danger"},
	}
	sel := map[string]expr.Selection{
		"monster": {Text: "wolf", Tags: map[string]any{"danger": 7}},
	}
	ctx := scopectx.New()
	rules.Run(rs, sel, ctx)
	n, ok, err := ctx.GetNumber("prompt:danger")
	if err != nil || !ok || n != 7 {
		t.Fatalf("n=%d ok=%v err=%v", n, ok, err)
	}
}

func TestRun_LogicNonEmptyActsAsExistenceCheck(t *testing.T) {
	// Reserved field: a non-empty `logic` gates firing on whether its
	// referenced values exist, regardless of what it would otherwise
	// evaluate to.
	rs := []*model.Rule{
		{Name: "r", Logic: `ref:companion`, Set: "context.prompt.has_companion", Value: "true"},
	}
	ctx := scopectx.New()
	rules.Run(rs, map[string]expr.Selection{}, ctx)
	if ok, _ := ctx.Has("prompt:has_companion"); ok {
		t.Fatal("expected logic's existence check to block firing")
	}

	ctx2 := scopectx.New()
	rules.Run(rs, map[string]expr.Selection{"companion": {Text: "fox"}}, ctx2)
	if ok, _ := ctx2.Has("prompt:has_companion"); !ok {
		t.Fatal("expected rule to fire once the referenced value exists")
	}
}

func TestTranslateSetPath(t *testing.T) {
	rs := []*model.Rule{{Name: "a", Set: "some_raw_key", Value: "v"}}
	ctx := scopectx.New()
	rules.Run(rs, nil, ctx)
	if got, _ := ctx.GetText("prompt:some_raw_key"); got != "v" {
		t.Fatalf("raw non-context.* set path should be used as-is, got %q", got)
	}
}
