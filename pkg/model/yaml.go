package model

import (
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a namespaces mapping, preserving document
// order: a plain map[string]*Namespace would hand iteration order to
// Go's randomized map ordering, which breaks determinism.
func (m *NamespaceMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewNamespaceMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		ns := NewNamespace(key)
		if err := value.Decode(ns); err != nil {
			return err
		}
		ns.ID = key
		m.Set(key, ns)
		return nil
	})
}

func (m *DatatypeMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewDatatypeMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		dt := &Datatype{Name: key}
		if err := value.Decode(dt); err != nil {
			return err
		}
		dt.Name = key
		m.Set(key, dt)
		return nil
	})
}

func (m *PromptSectionMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewPromptSectionMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		s := &PromptSection{Name: key, References: NewReferenceMap()}
		if err := value.Decode(s); err != nil {
			return err
		}
		s.Name = key
		if s.References == nil {
			s.References = NewReferenceMap()
		}
		m.Set(key, s)
		return nil
	})
}

func (m *SeparatorSetMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewSeparatorSetMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		s := &SeparatorSet{Name: key}
		if err := value.Decode(s); err != nil {
			return err
		}
		s.Name = key
		m.Set(key, s)
		return nil
	})
}

func (m *RuleMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewRuleMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		r := &Rule{Name: key}
		if err := value.Decode(r); err != nil {
			return err
		}
		r.Name = key
		m.Set(key, r)
		return nil
	})
}

func (m *RulebookMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewRulebookMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		r := &Rulebook{Name: key}
		if err := value.Decode(r); err != nil {
			return err
		}
		r.Name = key
		m.Set(key, r)
		return nil
	})
}

func (m *ReferenceMap) UnmarshalYAML(node *yaml.Node) error {
	if m.byID == nil {
		*m = *NewReferenceMap()
	}
	return decodeOrderedMapping(node, func(key string, value *yaml.Node) error {
		r := &Reference{Name: key, Min: 1, Max: 1}
		if err := value.Decode(r); err != nil {
			return err
		}
		r.Name = key
		m.Set(key, r)
		return nil
	})
}

// decodeOrderedMapping walks node.Content in document order, calling
// set(key, valueNode) for each pair. node must be a YAML mapping.
func decodeOrderedMapping(node *yaml.Node, set func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"expected a mapping"}}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := set(key, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML decodes a Dependency, accepting either "package_id" or
// its alias "package" for the target package identifier.
func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		PackageID string `yaml:"package_id"`
		Package   string `yaml:"package"`
		Version   string `yaml:"version"`
		Path      string `yaml:"path"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	d.PackageID = raw.PackageID
	if d.PackageID == "" {
		d.PackageID = raw.Package
	}
	d.Version = raw.Version
	d.Path = raw.Path
	return nil
}
