package scopectx

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies which branch of Value is populated.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBoolean
	KindList
)

// Value is a tagged union of text, integer, boolean, and
// list-of-text. Cross-type reads perform the defined coercions:
// text<->number via base 10, text<->boolean via
// {true,yes,1}/{false,no,0} (case-insensitive), and any value read as
// a list becomes a one-element list. A read with no defined coercion
// (a boolean or list read as a number, for instance) returns an error.
type Value struct {
	Kind    Kind
	Text    string
	Number  int64
	Boolean bool
	List    []string
}

func Text(s string) Value       { return Value{Kind: KindText, Text: s} }
func Number(n int64) Value      { return Value{Kind: KindNumber, Number: n} }
func Boolean(b bool) Value      { return Value{Kind: KindBoolean, Boolean: b} }
func List(items []string) Value { return Value{Kind: KindList, List: items} }

var truthyWords = map[string]bool{"true": true, "yes": true, "1": true}
var falsyWords = map[string]bool{"false": true, "no": true, "0": true}

// AsText renders v as a string, converting numbers and booleans to
// their canonical textual form and joining list items with a comma.
func (v Value) AsText() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatInt(v.Number, 10)
	case KindBoolean:
		if v.Boolean {
			return "true"
		}
		return "false"
	case KindList:
		return strings.Join(v.List, ", ")
	default:
		return ""
	}
}

// AsNumber coerces v to an integer. Text is parsed as base-10; other
// kinds cannot be coerced and return an error.
func (v Value) AsNumber() (int64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Number, nil
	case KindText:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Text), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot coerce text %q to number", v.Text)
		}
		return n, nil
	default:
		return 0, errors.Errorf("cannot coerce %v to number", v.Kind)
	}
}

// AsBoolean coerces v to a boolean. Text is matched case-insensitively
// against {true,yes,1} and {false,no,0}.
func (v Value) AsBoolean() (bool, error) {
	switch v.Kind {
	case KindBoolean:
		return v.Boolean, nil
	case KindText:
		lower := strings.ToLower(strings.TrimSpace(v.Text))
		if truthyWords[lower] {
			return true, nil
		}
		if falsyWords[lower] {
			return false, nil
		}
		return false, errors.Errorf("cannot coerce text %q to boolean", v.Text)
	default:
		return false, errors.Errorf("cannot coerce %v to boolean", v.Kind)
	}
}

// AsList coerces v to a list of strings. Any non-list value becomes a
// one-element list of its text rendering.
func (v Value) AsList() []string {
	if v.Kind == KindList {
		out := make([]string, len(v.List))
		copy(out, v.List)
		return out
	}
	return []string{v.AsText()}
}
