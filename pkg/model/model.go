// Package model holds the value types of an authored content package:
// the datatype tables, prompt-section templates, separator sets,
// coordination rules, and rulebooks. Packages and their dependency
// maps are treated as read-only values once loaded. The only mutation
// this package performs is the load-time NormalizeExtends and
// NormalizeWeights pass that pkg/resolver runs over each datatype.
package model

import "regexp"

// identifierPattern constrains namespace ids and
// datatype/section/separator/rulebook names: lowercase, starting with
// a letter, followed by letters, digits, dots, underscores, or hyphens.
var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

// ValidIdentifier reports whether s is a legal namespace or entity name.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Metadata carries a Package's descriptive fields.
type Metadata struct {
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	Authors        []string `yaml:"authors" json:"authors"`
	BypassFilters  bool     `yaml:"bypass_filters,omitempty" json:"bypass_filters,omitempty"`
}

// Dependency declares a requirement on another package, with an exact
// or range version constraint and an optional explicit file path.
type Dependency struct {
	PackageID string `yaml:"-" json:"package_id"`
	Version   string `yaml:"version" json:"version"`
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Package is the top-level authored unit: an identifier, a semantic
// version, metadata, a set of namespaces, and an ordered dependency
// list.
type Package struct {
	ID           string        `yaml:"id" json:"id"`
	Version      Version       `yaml:"-" json:"-"`
	VersionRaw   string        `yaml:"version" json:"version"`
	Metadata     Metadata      `yaml:"metadata" json:"metadata"`
	Namespaces   *NamespaceMap `yaml:"namespaces" json:"-"`
	Dependencies []Dependency  `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// NamespaceMap is an insertion-order-preserving map from namespace id
// to *Namespace. Iteration order over namespaces must match
// declaration order for deterministic output, which a plain Go map
// cannot provide, so every insertion-preserving mapping in this module
// uses this shape instead of map[string]T.
type NamespaceMap struct {
	order []string
	byID  map[string]*Namespace
}

func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{byID: make(map[string]*Namespace)}
}

func (m *NamespaceMap) Set(id string, ns *Namespace) {
	if _, exists := m.byID[id]; !exists {
		m.order = append(m.order, id)
	}
	m.byID[id] = ns
}

func (m *NamespaceMap) Get(id string) (*Namespace, bool) {
	ns, ok := m.byID[id]
	return ns, ok
}

// Order returns namespace ids in insertion order.
func (m *NamespaceMap) Order() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// First returns the first-inserted namespace, used to resolve bare
// "name" refs against the main package's first-inserted namespace.
func (m *NamespaceMap) First() (*Namespace, bool) {
	if len(m.order) == 0 {
		return nil, false
	}
	return m.Get(m.order[0])
}

func (m *NamespaceMap) Len() int { return len(m.order) }

// Namespace partitions a package's datatypes, prompt sections,
// separator sets, rules, and rulebooks under one local identifier.
type Namespace struct {
	ID             string            `yaml:"id,omitempty" json:"id"`
	Datatypes      *DatatypeMap      `yaml:"datatypes,omitempty" json:"datatypes,omitempty"`
	PromptSections *PromptSectionMap `yaml:"prompt_sections,omitempty" json:"prompt_sections,omitempty"`
	SeparatorSets  *SeparatorSetMap  `yaml:"separator_sets,omitempty" json:"separator_sets,omitempty"`
	Rules          *RuleMap          `yaml:"rules,omitempty" json:"rules,omitempty"`
	Rulebooks      *RulebookMap      `yaml:"rulebooks,omitempty" json:"rulebooks,omitempty"`
	Decisions      []Decision        `yaml:"decisions,omitempty" json:"decisions,omitempty"`
}

func NewNamespace(id string) *Namespace {
	return &Namespace{
		ID:             id,
		Datatypes:      NewDatatypeMap(),
		PromptSections: NewPromptSectionMap(),
		SeparatorSets:  NewSeparatorSetMap(),
		Rules:          NewRuleMap(),
		Rulebooks:      NewRulebookMap(),
	}
}

// Decision is accepted by the schema but never executed by this core;
// Kind "script" in particular must never be evaluated.
type Decision struct {
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`
	Body string `yaml:"body,omitempty" json:"body,omitempty"`
}

// Datatype is a weighted, tagged enumeration of textual values. Values
// from an `extends` base are flattened into Values at load time.
// Extends and OverrideTags are parse-time inputs only and are not
// consulted after NormalizeExtends runs.
type Datatype struct {
	Name         string                    `yaml:"-" json:"name"`
	Values       []DatatypeValue           `yaml:"values" json:"values"`
	Extends      string                    `yaml:"extends,omitempty" json:"extends,omitempty"`
	OverrideTags map[string]map[string]any `yaml:"override_tags,omitempty" json:"override_tags,omitempty"`
}

// DatatypeValue is one weighted entry in a Datatype.
type DatatypeValue struct {
	Text   string         `yaml:"text" json:"text"`
	Tags   map[string]any `yaml:"tags,omitempty" json:"tags,omitempty"`
	Weight float64        `yaml:"weight" json:"weight"`
}

// PromptSection is a template with named reference slots.
type PromptSection struct {
	Name       string        `yaml:"-" json:"name"`
	Template   string        `yaml:"template" json:"template"`
	References *ReferenceMap `yaml:"references,omitempty" json:"references,omitempty"`
}

// Reference describes which datatype or section a template slot draws
// from, and how many values to select.
type Reference struct {
	Name      string `yaml:"-" json:"name"`
	Target    string `yaml:"target" json:"target"`
	Filter    string `yaml:"filter,omitempty" json:"filter,omitempty"`
	Min       int    `yaml:"min" json:"min"`
	Max       int    `yaml:"max" json:"max"`
	Separator string `yaml:"separator,omitempty" json:"separator,omitempty"`
	Unique    bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
}

// SeparatorSet formats a list of strings with 2- or 3-separator rules.
type SeparatorSet struct {
	Name      string `yaml:"-" json:"name"`
	Primary   string `yaml:"primary" json:"primary"`
	Secondary string `yaml:"secondary" json:"secondary"`
	Tertiary  string `yaml:"tertiary,omitempty" json:"tertiary,omitempty"`
}

// Rule is an author-defined coordination rule that writes a derived
// fact into the scoped context.
type Rule struct {
	Name  string `yaml:"-" json:"name"`
	When  string `yaml:"when,omitempty" json:"when,omitempty"`
	Logic string `yaml:"logic,omitempty" json:"logic,omitempty"`
	Set   string `yaml:"set" json:"set"`
	Value string `yaml:"value" json:"value"`
}

// EntryPoint is one weighted prompt-section choice inside a Rulebook.
type EntryPoint struct {
	PromptSection string  `yaml:"prompt_section" json:"prompt_section"`
	Weight        float64 `yaml:"weight" json:"weight"`
}

// Rulebook is a named weighted bundle of prompt-section entry points.
type Rulebook struct {
	Name            string            `yaml:"-" json:"name"`
	Description     string            `yaml:"description,omitempty" json:"description,omitempty"`
	EntryPoints     []EntryPoint      `yaml:"entry_points" json:"entry_points"`
	BatchVariety    bool              `yaml:"batch_variety,omitempty" json:"batch_variety,omitempty"`
	ContextDefaults map[string]string `yaml:"context_defaults,omitempty" json:"context_defaults,omitempty"`
}
