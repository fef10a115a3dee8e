// Package model defines the authored-content data model: packages,
// namespaces, datatypes, prompt sections, references, separator sets,
// rules, and rulebooks.
//
// Packages are parsed once and treated as immutable afterward; nothing
// in this package, or in any package that consumes a *model.Package,
// mutates it post-load except the one-time NormalizeExtends and
// NormalizeWeights pass that pkg/resolver runs after loading.
package model
