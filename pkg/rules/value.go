package rules

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/dshills/tapestry/pkg/expr"
	"github.com/dshills/tapestry/pkg/scopectx"
)

// evalValue interprets a rule's `value` field, a restricted
// sublanguage distinct from the full filter grammar: it is either a
// literal string, `ref:NAME` / `ref:NAME.text` (the selected text), or
// `ref:NAME.tags.TAG` (the selected tag, coerced to a ContextValue).
func evalValue(raw string, selections map[string]expr.Selection) (scopectx.Value, error) {
	if !strings.HasPrefix(raw, "ref:") {
		return scopectx.Text(raw), nil
	}

	path := strings.TrimPrefix(raw, "ref:")
	parts := strings.Split(path, ".")
	if len(parts) == 0 || parts[0] == "" {
		return scopectx.Value{}, errors.Errorf("rule value %q has an empty reference name", raw)
	}
	name := parts[0]
	sel, ok := selections[name]
	if !ok {
		return scopectx.Value{}, errors.Errorf("rule value %q refers to unresolved reference %q", raw, name)
	}

	switch {
	case len(parts) == 1, len(parts) == 2 && parts[1] == "text":
		return scopectx.Text(sel.Text), nil
	case len(parts) == 3 && parts[1] == "tags":
		tag, ok := sel.Tags[parts[2]]
		if !ok {
			return scopectx.Text(""), nil
		}
		return coerceTagToValue(tag), nil
	default:
		return scopectx.Value{}, errors.Errorf("rule value %q is not a supported ref expression", raw)
	}
}

// coerceTagToValue converts a decoded tag value (as produced by the
// package-file YAML/JSON loader) into a ContextValue: JSON string ->
// text, integer -> number, boolean -> bool, array -> list-of-text,
// null -> empty text, object -> canonical JSON text.
func coerceTagToValue(v any) scopectx.Value {
	switch t := v.(type) {
	case nil:
		return scopectx.Text("")
	case string:
		return scopectx.Text(t)
	case bool:
		return scopectx.Boolean(t)
	case int:
		return scopectx.Number(int64(t))
	case int64:
		return scopectx.Number(t)
	case float64:
		return scopectx.Number(int64(t))
	case []any:
		items := make([]string, len(t))
		for i, item := range t {
			items[i] = coerceTagToValue(item).AsText()
		}
		return scopectx.List(items)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return scopectx.Text("")
		}
		return scopectx.Text(string(b))
	}
}
