package packagefile

import "fmt"

// SyntaxError reports a package file that could not be read, or could
// not be parsed as YAML/JSON at all.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("packagefile: %s: syntax error: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SchemaError reports a package file that parsed but does not satisfy
// the required top-level schema: a missing required key, or a value
// that fails a structural check (an unparseable version string).
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("packagefile: %s: schema error: %s", e.Path, e.Message)
}
