package separator

import "strings"

// Set is the formatting rule for a list of strings: a primary
// separator used between all but the last pair, a secondary separator
// used for the final pair (or the only pair, for a two-item list), and
// an optional tertiary separator that replaces secondary before the
// last item once there are three or more items.
type Set struct {
	Primary   string
	Secondary string
	Tertiary  string
}

// Format joins items per the set's rules:
//
//	len 0 -> ""
//	len 1 -> items[0]
//	len 2 -> items[0] + secondary + items[1]
//	len >= 3 -> items[0..n-1] joined by primary, then (tertiary if
//	            present else secondary), then items[n-1]
func (s Set) Format(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + s.Secondary + items[1]
	default:
		last := s.Tertiary
		if last == "" {
			last = s.Secondary
		}
		head := strings.Join(items[:len(items)-1], s.Primary)
		return head + last + items[len(items)-1]
	}
}

// FormatOrFallback formats items with set if set is non-nil, falling
// back to a single-space join otherwise. The fallback mirrors the
// substitution phase's documented behavior for a reference whose named
// separator could not be resolved: validation prevents this in a
// well-formed package, but the runtime path must not fail or produce
// an error value.
func FormatOrFallback(items []string, set *Set) string {
	if set != nil {
		return set.Format(items)
	}
	return strings.Join(items, " ")
}
