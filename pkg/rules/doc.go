// Package rules evaluates a namespace's coordination rules against a
// render's selection context and writes their derived facts into the
// scoped context.
//
// A rule's `when` guard is the same filter-expression grammar pkg/expr
// parses for references, but it gates on evaluability, not truth: a
// rule fires when every reference its `when` names has a selection,
// whatever the expression would evaluate to (an empty `when` always
// fires; one that does not parse never does). The `logic` field is accepted but
// not evaluated as a second boolean condition: the one implementation
// this was distilled from treats a non-empty `logic` purely as an
// existence check over the references it names, and that quirk is
// preserved here rather than "fixed" into real logic evaluation.
package rules
