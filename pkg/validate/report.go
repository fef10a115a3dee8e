package validate

import (
	"fmt"
	"strings"
)

// Report is the outcome of validating a package: errors block
// rendering, warnings are advisory.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the package has no validation errors. Warnings
// do not affect OK.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Summary renders a human-readable report, errors first.
func (r *Report) Summary() string {
	var b strings.Builder
	if len(r.Errors) == 0 {
		b.WriteString("validation: no errors\n")
	} else {
		fmt.Fprintf(&b, "validation: %d error(s)\n", len(r.Errors))
		for i, e := range r.Errors {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "validation: %d warning(s)\n", len(r.Warnings))
		for i, w := range r.Warnings {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, w)
		}
	}
	return b.String()
}
