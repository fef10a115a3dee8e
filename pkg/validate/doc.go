// Package validate runs a static semantic pass over a resolved
// package plus its dependency map, before any rendering is attempted.
// It produces a Report of errors (which block rendering) and
// warnings (which do not), so that a well-formed package is
// guaranteed never to fail mid-render on a structural problem —
// only on data it cannot control, like an exhausted unique pool at
// render time if the counts involved depend on a filter evaluated
// against live selection state.
package validate
