// Package expr implements the filter-expression language (see ast.go
// for the grammar) used by Reference.Filter and by pkg/rules's
// `when`/`logic` guards.
package expr
