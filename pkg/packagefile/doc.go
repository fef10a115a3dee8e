// Package packagefile loads a single authored content package from a
// YAML (or YAML-equivalent JSON) file into a *model.Package.
//
// Two distinct error families are returned: SyntaxError for a file
// that cannot be read or a document that cannot be parsed at all, and
// SchemaError for a document that
// parses but is missing a required top-level key or carries a
// malformed value (an unparseable version string, for instance).
// Dependency resolution, cross-package extends flattening, and
// semantic validation all happen one layer up, in pkg/resolver and
// pkg/validate; this package only turns bytes into one package's data
// model.
package packagefile
