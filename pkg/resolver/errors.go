package resolver

import (
	"fmt"
	"strings"
)

// NotFoundError reports a dependency whose package file could not be
// located in any of the searched locations.
type NotFoundError struct {
	ID            string
	SearchedPaths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resolver: dependency %q not found; searched: %s", e.ID, strings.Join(e.SearchedPaths, ", "))
}

// LoadError reports a dependency file that was located but could not
// be parsed.
type LoadError struct {
	ID     string
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("resolver: dependency %q at %s failed to load: %s", e.ID, e.Path, e.Reason)
}

// VersionMismatchError reports a dependency whose loaded version does
// not satisfy the declaring package's version constraint.
type VersionMismatchError struct {
	ID       string
	Required string
	Found    string
	Details  string
}

func (e *VersionMismatchError) Error() string {
	msg := fmt.Sprintf("resolver: dependency %q requires version %s, found %s", e.ID, e.Required, e.Found)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// PackageIDMismatchError reports a dependency file whose declared id
// does not match the id it was required under.
type PackageIDMismatchError struct {
	Expected string
	Found    string
	Path     string
}

func (e *PackageIDMismatchError) Error() string {
	return fmt.Sprintf("resolver: %s declares id %q, expected %q", e.Path, e.Found, e.Expected)
}

// CircularDependencyError reports a dependency cycle, with Cycle
// naming every package id in the chain, closing on itself.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("resolver: circular dependency: %s", strings.Join(e.Cycle, " -> "))
}
