package model

import "github.com/pkg/errors"

// NormalizeExtends flattens every Datatype.Extends relationship in ns
// into a plain value list: the
// Extends/OverrideTags fields describe a template-method-style merge
// that is resolved once at load time and then discarded. There is no
// runtime polymorphism — after this call returns, Extends and
// OverrideTags on every datatype in ns are zeroed and Values is final.
//
// resolveBase is called for targets outside ns (another namespace of
// the same package, or a dependency); it must already have had its
// own NormalizeExtends applied.
func NormalizeExtends(ns *Namespace, resolveBase func(target string) (*Datatype, bool)) error {
	resolved := make(map[string]bool, ns.Datatypes.Len())
	var visit func(name string, stack map[string]bool) error
	visit = func(name string, stack map[string]bool) error {
		if resolved[name] {
			return nil
		}
		if stack[name] {
			return errors.Errorf("extends cycle at datatype %q", name)
		}
		dt, ok := ns.Datatypes.Get(name)
		if !ok {
			return errors.Errorf("unknown datatype %q", name)
		}
		if dt.Extends == "" {
			resolved[name] = true
			return nil
		}
		stack[name] = true
		var base *Datatype
		if baseLocal, ok := ns.Datatypes.Get(dt.Extends); ok {
			if err := visit(dt.Extends, stack); err != nil {
				return err
			}
			base = baseLocal
		} else if resolveBase != nil {
			b, ok := resolveBase(dt.Extends)
			if !ok {
				return errors.Errorf("datatype %q extends unknown target %q", name, dt.Extends)
			}
			base = b
		} else {
			return errors.Errorf("datatype %q extends unknown target %q", name, dt.Extends)
		}
		delete(stack, name)

		merged := make([]DatatypeValue, 0, len(base.Values)+len(dt.Values))
		for _, v := range base.Values {
			cp := v
			if overrides, ok := dt.OverrideTags[v.Text]; ok {
				cp.Tags = mergeTags(v.Tags, overrides)
			}
			merged = append(merged, cp)
		}
		merged = append(merged, dt.Values...)

		dt.Values = merged
		dt.Extends = ""
		dt.OverrideTags = nil
		resolved[name] = true
		return nil
	}

	for _, name := range ns.Datatypes.Order() {
		if err := visit(name, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func mergeTags(base map[string]any, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// DefaultWeight is applied to a DatatypeValue whose Weight is zero
// the documented default weight.
const DefaultWeight = 1.0

// NormalizeWeights fills in DefaultWeight for any zero-weight value.
// Parsed package files may omit weight entirely, which the YAML
// decoder leaves as the zero value.
func NormalizeWeights(dt *Datatype) {
	for i := range dt.Values {
		if dt.Values[i].Weight == 0 {
			dt.Values[i].Weight = DefaultWeight
		}
	}
}
