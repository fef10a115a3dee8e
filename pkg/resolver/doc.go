// Package resolver loads a package file together with its transitive
// dependencies, verifying each dependency's declared version
// constraint and detecting cycles in the dependency graph.
//
// Resolution order per dependency: its explicit path (absolute, then
// relative to the referencing file's directory, then relative to the
// current working directory), then each configured search directory
// as "{dir}/{id-with-dots-replaced-by-hyphens}.yaml". The first hit
// wins. A package id already on the current loading stack is a
// circular dependency; a package already fully loaded is reused from
// cache, with its version re-checked against the new constraint.
//
// Once every package in the graph is loaded, Resolve flattens each
// namespace's datatype extends relationships and fills in default
// weights, so every *model.Package returned is final and read-only.
package resolver
