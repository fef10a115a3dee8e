package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is a MAJOR.MINOR.PATCH semantic version, as carried by
// Package.Version and Dependency.Version.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses a bare "M.m.p" string. It does not accept the
// range-operator prefixes (^, ~, >=) that Dependency.Version allows;
// use ParseConstraint for those.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, errors.Errorf("invalid version %q: want MAJOR.MINOR.PATCH", s)
	}
	var v Version
	nums := [3]*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, errors.Wrapf(err, "invalid version component %q in %q", p, s)
		}
		if n < 0 {
			return Version{}, errors.Errorf("invalid version component %q in %q", p, s)
		}
		*nums[i] = n
	}
	return v, nil
}

// String renders the canonical "M.m.p" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 comparing v to other lexicographically
// over (major, minor, patch).
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpInt(v.Minor, other.Minor)
	}
	return cmpInt(v.Patch, other.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ConstraintKind identifies the operator prefix of a Dependency.Version
// string.
type ConstraintKind int

const (
	ConstraintExact ConstraintKind = iota
	ConstraintCaret
	ConstraintTilde
	ConstraintGTE
)

// Constraint is a parsed Dependency.Version requirement.
type Constraint struct {
	Kind    ConstraintKind
	Version Version
}

// ParseConstraint parses a dependency version requirement: an exact
// "1.2.3", or one of the "^1.2.3", "~1.2.3", ">=1.2.3" range forms.
func ParseConstraint(s string) (Constraint, error) {
	switch {
	case strings.HasPrefix(s, "^"):
		v, err := ParseVersion(s[1:])
		return Constraint{ConstraintCaret, v}, err
	case strings.HasPrefix(s, "~"):
		v, err := ParseVersion(s[1:])
		return Constraint{ConstraintTilde, v}, err
	case strings.HasPrefix(s, ">="):
		v, err := ParseVersion(s[2:])
		return Constraint{ConstraintGTE, v}, err
	default:
		v, err := ParseVersion(s)
		return Constraint{ConstraintExact, v}, err
	}
}

// Satisfies reports whether found meets the constraint, per the truth
// table below.
func (c Constraint) Satisfies(found Version) bool {
	switch c.Kind {
	case ConstraintExact:
		return c.Version == found
	case ConstraintCaret:
		if c.Version.Major == 0 {
			return found.Major == 0 && found.Minor == c.Version.Minor
		}
		return found.Major == c.Version.Major
	case ConstraintTilde:
		return found.Major == c.Version.Major && found.Minor == c.Version.Minor
	case ConstraintGTE:
		return found.Compare(c.Version) >= 0
	default:
		return false
	}
}

// IsRange reports whether the constraint is a flexible range (^, ~, or
// >=) rather than an exact pin, used by the validator's "flexible
// dependency" warning.
func (c Constraint) IsRange() bool {
	return c.Kind != ConstraintExact
}

// IsMajorRange reports whether the constraint allows any version
// within a major line (^ or >=), used by the validator's "major-range
// dependency" warning.
func (c Constraint) IsMajorRange() bool {
	return c.Kind == ConstraintCaret || c.Kind == ConstraintGTE
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintCaret:
		return "^" + c.Version.String()
	case ConstraintTilde:
		return "~" + c.Version.String()
	case ConstraintGTE:
		return ">=" + c.Version.String()
	default:
		return c.Version.String()
	}
}
