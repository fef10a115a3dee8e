// Package graph is a small generic directed-graph utility shared by
// the dependency resolver (package-id nodes), the validator
// ("<package-id>/<namespace>:<name>" section-reference nodes), and the
// renderer (reference-name nodes within one section). It provides cycle
// detection that names the full cycle chain and a deterministic Kahn
// topological sort over bare string node identifiers.
package graph
