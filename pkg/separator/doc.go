// Package separator formats an ordered list of strings according to a
// SeparatorSet's primary/secondary/tertiary joining rules. It has no
// dependency on the rest of the renderer; callers pass in the already
// selected and rendered item strings.
package separator
