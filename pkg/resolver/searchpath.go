package resolver

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultSearchPaths returns the conventional directory searched for
// dependencies beyond whatever the caller configures explicitly: an
// XDG data directory the user or a package manager can drop resolved
// packages into.
func DefaultSearchPaths() []string {
	return []string{filepath.Join(xdg.DataHome, "tapestry", "packages")}
}
