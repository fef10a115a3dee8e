// Package scopectx implements the scoped key/value context that rules
// write derived facts into and that templates read back from: a
// nested mapping scope -> key -> Value. Keys are written as "scope:key"
// or a bare "key", which defaults to the "prompt" scope. The "prompt"
// and "global" scopes always exist, even in a brand new Context.
package scopectx
