package validate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

var foldCase = cases.Lower(language.Und)

func fold(s string) string {
	out, _, err := transform.String(foldCase, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// suggestClosest returns the candidate closest to missing by, in
// order: a case-insensitive prefix match, a case-insensitive
// substring match, or a shared 3-character prefix. Returns "" if none
// of those pass.
func suggestClosest(missing string, candidates []string) string {
	foldedMissing := fold(missing)

	for _, c := range candidates {
		if strings.HasPrefix(fold(c), foldedMissing) {
			return c
		}
	}
	for _, c := range candidates {
		if strings.Contains(fold(c), foldedMissing) {
			return c
		}
	}
	if len(foldedMissing) >= 3 {
		prefix := foldedMissing[:3]
		for _, c := range candidates {
			if strings.HasPrefix(fold(c), prefix) {
				return c
			}
		}
	}
	return ""
}
