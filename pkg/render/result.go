package render

// Result is the output of one top-level Render or RenderFromRulebook
// call.
type Result struct {
	// Output is the fully substituted prompt text.
	Output string

	// Seed is the seed the call was invoked with, echoed back for
	// callers that log or replay renders.
	Seed uint64

	// SelectedValues is a debugging snapshot of the top-level
	// section's own Phase-1 selections (first selected value's text,
	// keyed by reference name) plus every key in the Context's
	// "prompt" and "global" scopes when the render finishes (initial
	// entries as well as Phase-2 writes), keyed as "context:<key>".
	SelectedValues map[string]string
}
