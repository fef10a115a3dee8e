package model

// The following insertion-order-preserving maps back Namespace's five
// entity collections and PromptSection's reference map. Rule execution
// order and reference dedup both depend on insertion order, which a
// bare Go map cannot provide, so each is a small ordered map instead.

type DatatypeMap struct {
	order []string
	byID  map[string]*Datatype
}

func NewDatatypeMap() *DatatypeMap { return &DatatypeMap{byID: make(map[string]*Datatype)} }

func (m *DatatypeMap) Set(name string, d *Datatype) {
	if _, ok := m.byID[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byID[name] = d
}

func (m *DatatypeMap) Get(name string) (*Datatype, bool) { d, ok := m.byID[name]; return d, ok }
func (m *DatatypeMap) Order() []string                   { return append([]string(nil), m.order...) }
func (m *DatatypeMap) Len() int                          { return len(m.order) }

// Items returns the datatypes in declaration order.
func (m *DatatypeMap) Items() []*Datatype {
	out := make([]*Datatype, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type PromptSectionMap struct {
	order []string
	byID  map[string]*PromptSection
}

func NewPromptSectionMap() *PromptSectionMap {
	return &PromptSectionMap{byID: make(map[string]*PromptSection)}
}

func (m *PromptSectionMap) Set(name string, s *PromptSection) {
	if _, ok := m.byID[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byID[name] = s
}

func (m *PromptSectionMap) Get(name string) (*PromptSection, bool) {
	s, ok := m.byID[name]
	return s, ok
}
func (m *PromptSectionMap) Order() []string { return append([]string(nil), m.order...) }
func (m *PromptSectionMap) Len() int        { return len(m.order) }

// Items returns the prompt sections in declaration order.
func (m *PromptSectionMap) Items() []*PromptSection {
	out := make([]*PromptSection, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type SeparatorSetMap struct {
	order []string
	byID  map[string]*SeparatorSet
}

func NewSeparatorSetMap() *SeparatorSetMap {
	return &SeparatorSetMap{byID: make(map[string]*SeparatorSet)}
}

func (m *SeparatorSetMap) Set(name string, s *SeparatorSet) {
	if _, ok := m.byID[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byID[name] = s
}

func (m *SeparatorSetMap) Get(name string) (*SeparatorSet, bool) {
	s, ok := m.byID[name]
	return s, ok
}
func (m *SeparatorSetMap) Order() []string { return append([]string(nil), m.order...) }
func (m *SeparatorSetMap) Len() int        { return len(m.order) }

// Items returns the separator sets in declaration order.
func (m *SeparatorSetMap) Items() []*SeparatorSet {
	out := make([]*SeparatorSet, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type RuleMap struct {
	order []string
	byID  map[string]*Rule
}

func NewRuleMap() *RuleMap { return &RuleMap{byID: make(map[string]*Rule)} }

func (m *RuleMap) Set(name string, r *Rule) {
	if _, ok := m.byID[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byID[name] = r
}

func (m *RuleMap) Get(name string) (*Rule, bool) { r, ok := m.byID[name]; return r, ok }
func (m *RuleMap) Order() []string               { return append([]string(nil), m.order...) }
func (m *RuleMap) Len() int                      { return len(m.order) }

// Rules returns the rules in declaration order, the shape the rules
// processor iterates.
func (m *RuleMap) Rules() []*Rule {
	out := make([]*Rule, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type RulebookMap struct {
	order []string
	byID  map[string]*Rulebook
}

func NewRulebookMap() *RulebookMap { return &RulebookMap{byID: make(map[string]*Rulebook)} }

func (m *RulebookMap) Set(name string, r *Rulebook) {
	if _, ok := m.byID[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byID[name] = r
}

func (m *RulebookMap) Get(name string) (*Rulebook, bool) { r, ok := m.byID[name]; return r, ok }
func (m *RulebookMap) Order() []string                   { return append([]string(nil), m.order...) }
func (m *RulebookMap) Len() int                          { return len(m.order) }

// Items returns the rulebooks in declaration order.
func (m *RulebookMap) Items() []*Rulebook {
	out := make([]*Rulebook, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

type ReferenceMap struct {
	order []string
	byID  map[string]*Reference
}

func NewReferenceMap() *ReferenceMap { return &ReferenceMap{byID: make(map[string]*Reference)} }

func (m *ReferenceMap) Set(name string, r *Reference) {
	if _, ok := m.byID[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byID[name] = r
}

func (m *ReferenceMap) Get(name string) (*Reference, bool) { r, ok := m.byID[name]; return r, ok }
func (m *ReferenceMap) Order() []string                    { return append([]string(nil), m.order...) }
func (m *ReferenceMap) Len() int                            { return len(m.order) }

// Items returns the references in declaration order.
func (m *ReferenceMap) Items() []*Reference {
	out := make([]*Reference, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}
