package rules

import (
	"strings"

	"github.com/dshills/tapestry/pkg/expr"
	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/scopectx"
)

// Run evaluates every rule in rules, in declaration order, against
// selections, writing derived facts into ctx. First-write-wins: if a
// rule's destination key is already set, the rule is a no-op rather
// than overwriting it. Malformed when/logic/value expressions are
// treated the same as a reference that does not exist: the rule is
// silently skipped, since validation is expected to have rejected an
// invalid rule before render ever runs.
func Run(rules []*model.Rule, selections map[string]expr.Selection, ctx *scopectx.Context) {
	for _, r := range rules {
		if !shouldFire(r, selections) {
			continue
		}
		key := translateSetPath(r.Set)
		if already, _ := ctx.Has(key); already {
			continue
		}
		val, err := evalValue(r.Value, selections)
		if err != nil {
			continue
		}
		ctx.Set(key, val)
	}
}

func shouldFire(r *model.Rule, selections map[string]expr.Selection) bool {
	if r.When != "" {
		node, err := expr.Parse(r.When)
		if err != nil {
			return false
		}
		for ref := range expr.ExtractRefDependencies(node) {
			if _, ok := selections[ref]; !ok {
				return false
			}
		}
	}
	if r.Logic != "" {
		node, err := expr.Parse(r.Logic)
		if err != nil {
			return false
		}
		for ref := range expr.ExtractRefDependencies(node) {
			if _, ok := selections[ref]; !ok {
				return false
			}
		}
	}
	return true
}

// translateSetPath rewrites a rule's `set` field into the
// scope:key form the scoped context expects:
//
//	context.prompt.X      -> X          (default scope prompt)
//	context.global.X      -> global:X
//	context.<scope>.<rest> -> <scope>:<rest joined by ':'>
//	anything else is used as-is.
func translateSetPath(raw string) string {
	const prefix = "context."
	if !strings.HasPrefix(raw, prefix) {
		return raw
	}
	rest := strings.TrimPrefix(raw, prefix)
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return raw
	}
	scope, tail := parts[0], parts[1]
	if scope == "prompt" {
		return tail
	}
	return scope + ":" + strings.ReplaceAll(tail, ".", ":")
}
