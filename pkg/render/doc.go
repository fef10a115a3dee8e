// Package render turns a resolved package plus its dependency map into
// finished prompt text. A render walks one prompt section through
// three phases:
//
//	Phase 1 Selection    parse the template, order its references by
//	                     cross-reference filter dependency (ties break
//	                     by template order), draw a count for each
//	                     reference, filter its target datatype's values,
//	                     and select; a reference targeting another
//	                     section recurses instead of selecting.
//	Phase 2 Enrichment   run every dependency namespace's rules, then
//	                     every main-package namespace's rules, against
//	                     the first selected value of each Phase-1
//	                     reference, writing derived facts into the
//	                     section's Context.
//	Phase 3 Substitution walk the template again, replacing each
//	                     reference placeholder with its selected
//	                     value(s) (joined by its separator set if it
//	                     selected more than one), falling back to the
//	                     Context's default "prompt" scope for anything
//	                     Phase 1 did not select.
//
// A single *rng.RNG stream, seeded once per top-level Render or
// RenderFromRulebook call, drives every weighted selection draw across
// the whole call, including recursive section renders. The one
// exception is a reference's Phase-1 count draw when its min and max
// differ: that draw uses a throwaway RNG seeded from the renderer's
// seed plus the reference's name length, so the count is stable
// without disturbing the shared stream's position. A rulebook's
// entry-point draw is not an exception: it consumes from the same
// shared stream, seeded directly from the call's seed.
//
// Each nested section render gets its own fresh Context; no state
// survives from a child render back into its parent beyond the
// rendered text itself. Recursion deeper than 10 sections fails with
// RecursionLimitError rather than risking runaway cyclic templates
// that validation did not catch.
package render
