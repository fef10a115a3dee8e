// Package selector draws candidate values from a Datatype's weighted
// value table: filtering by a parsed expression, then sampling one,
// several with replacement, or several without replacement, all
// through a single caller-supplied RNG so the draw sequence stays
// deterministic.
package selector
