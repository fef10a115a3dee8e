package validate

import (
	"strings"

	"github.com/dshills/tapestry/pkg/expr"
	"github.com/dshills/tapestry/pkg/graph"
	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/template"
)

const weightSumWarningThreshold = 1000.0

// Validate runs every structural and semantic check over main and its
// resolved dependency map, returning a Report. A Report with no
// Errors is safe to render: Phase-1 target resolution, filter
// parsing, separator resolution, and rulebook structure have all
// already been confirmed to succeed.
func Validate(main *model.Package, deps map[string]*model.Package) *Report {
	r := &Report{}

	checkNaming(main, r)
	checkDependencies(main, r)

	allNames := allQualifiedNames(main, deps)
	sectionGraph := graph.NewDiGraph()
	usedDatatypes := map[string]bool{}

	for _, nsID := range main.Namespaces.Order() {
		ns, _ := main.Namespaces.Get(nsID)
		checkNamespace(main, deps, nsID, ns, allNames, sectionGraph, usedDatatypes, r)
	}

	for _, nsID := range main.Namespaces.Order() {
		ns, _ := main.Namespaces.Get(nsID)
		for _, name := range ns.Datatypes.Order() {
			key := nsID + ":" + name
			if !usedDatatypes[key] {
				r.addWarning("datatype %q in namespace %q is never referenced", name, nsID)
			}
		}
	}

	if cycle := sectionGraph.FindCycle(); cycle != nil {
		r.addError("cycle in prompt-section references: %s", strings.Join(cycle, " -> "))
	}

	return r
}

func checkNaming(main *model.Package, r *Report) {
	for _, nsID := range main.Namespaces.Order() {
		if !model.ValidIdentifier(nsID) {
			r.addError("namespace id %q does not match the naming rule", nsID)
		}
		ns, _ := main.Namespaces.Get(nsID)
		for _, name := range ns.Datatypes.Order() {
			if !model.ValidIdentifier(name) {
				r.addError("datatype name %q in namespace %q does not match the naming rule", name, nsID)
			}
		}
		for _, name := range ns.PromptSections.Order() {
			if !model.ValidIdentifier(name) {
				r.addError("prompt section name %q in namespace %q does not match the naming rule", name, nsID)
			}
		}
		for _, name := range ns.SeparatorSets.Order() {
			if !model.ValidIdentifier(name) {
				r.addError("separator set name %q in namespace %q does not match the naming rule", name, nsID)
			}
		}
		for _, name := range ns.Rulebooks.Order() {
			if !model.ValidIdentifier(name) {
				r.addError("rulebook name %q in namespace %q does not match the naming rule", name, nsID)
			}
		}
	}
}

func checkDependencies(main *model.Package, r *Report) {
	seen := map[string]bool{}
	for _, dep := range main.Dependencies {
		if dep.PackageID == "" {
			r.addError("dependency has an empty package id")
			continue
		}
		if dep.PackageID == main.ID {
			r.addError("dependency %q is the package's own id", dep.PackageID)
		}
		if seen[dep.PackageID] {
			r.addError("dependency %q is declared more than once", dep.PackageID)
		}
		seen[dep.PackageID] = true

		constraint, err := model.ParseConstraint(dep.Version)
		if err != nil {
			r.addError("dependency %q has an invalid version constraint %q", dep.PackageID, dep.Version)
			continue
		}
		if constraint.IsMajorRange() {
			r.addWarning("dependency %q uses a major-range constraint %q", dep.PackageID, dep.Version)
		}
		if constraint.IsRange() {
			r.addWarning("dependency %q uses a flexible version constraint %q", dep.PackageID, dep.Version)
		}
	}
}

func checkNamespace(
	main *model.Package,
	deps map[string]*model.Package,
	nsID string,
	ns *model.Namespace,
	allNames []string,
	sectionGraph *graph.DiGraph,
	usedDatatypes map[string]bool,
	r *Report,
) {
	checkDatatypeWeights(nsID, ns, r)

	usedSeparators := map[string]bool{}

	for _, secName := range ns.PromptSections.Order() {
		sec, _ := ns.PromptSections.Get(secName)
		checkSection(main, deps, nsID, secName, sec, allNames, sectionGraph, usedDatatypes, usedSeparators, r)
	}

	for _, name := range ns.SeparatorSets.Order() {
		if !usedSeparators[name] {
			r.addWarning("separator set %q in namespace %q is never referenced", name, nsID)
		}
	}

	for _, rbName := range ns.Rulebooks.Order() {
		rb, _ := ns.Rulebooks.Get(rbName)
		checkRulebook(main, deps, nsID, rbName, rb, r)
	}
}

func checkDatatypeWeights(nsID string, ns *model.Namespace, r *Report) {
	for _, name := range ns.Datatypes.Order() {
		dt, _ := ns.Datatypes.Get(name)
		sum := 0.0
		for _, v := range dt.Values {
			sum += v.Weight
		}
		if sum > weightSumWarningThreshold {
			r.addWarning("datatype %q in namespace %q has a weight sum of %.1f, over %.0f", name, nsID, sum, weightSumWarningThreshold)
		}
	}
}

func checkSection(
	main *model.Package,
	deps map[string]*model.Package,
	nsID, secName string,
	sec *model.PromptSection,
	allNames []string,
	sectionGraph *graph.DiGraph,
	usedDatatypes, usedSeparators map[string]bool,
	r *Report,
) {
	selfKey := main.ID + "/" + nsID + ":" + secName
	sectionGraph.AddNode(selfKey)

	tokens, err := template.Parse(sec.Template)
	if err != nil {
		r.addError("section %q in namespace %q has a malformed template: %s", secName, nsID, err)
		return
	}

	placeholders := map[string]bool{}
	for _, tok := range tokens {
		if tok.Kind == template.KindReference {
			placeholders[tok.Name] = true
		}
	}

	declared := map[string]bool{}
	if sec.References != nil {
		for _, refName := range sec.References.Order() {
			declared[refName] = true
		}
	}
	for name := range placeholders {
		if !declared[name] {
			r.addError("section %q in namespace %q has placeholder %q with no matching reference", secName, nsID, name)
		}
	}
	if sec.References != nil {
		for _, refName := range sec.References.Order() {
			if !placeholders[refName] {
				r.addWarning("reference %q in section %q (namespace %q) has no matching placeholder", refName, secName, nsID)
			}
		}
	}

	if sec.References == nil {
		return
	}
	for _, refName := range sec.References.Order() {
		ref, _ := sec.References.Get(refName)
		checkReference(main, deps, nsID, secName, selfKey, ref, allNames, sectionGraph, usedDatatypes, usedSeparators, r)
	}
}

func checkReference(
	main *model.Package,
	deps map[string]*model.Package,
	nsID, secName, selfKey string,
	ref *model.Reference,
	allNames []string,
	sectionGraph *graph.DiGraph,
	usedDatatypes, usedSeparators map[string]bool,
	r *Report,
) {
	if ref.Min > ref.Max {
		r.addError("reference %q in section %q (namespace %q) has min %d > max %d", ref.Name, secName, nsID, ref.Min, ref.Max)
	}

	if ref.Filter != "" {
		if _, err := expr.Parse(ref.Filter); err != nil {
			r.addError("reference %q in section %q (namespace %q) has an unparsable filter: %s", ref.Name, secName, nsID, err)
		}
	}

	if ref.Separator != "" {
		if _, ok := namespaceByID(main, nsID).SeparatorSets.Get(ref.Separator); !ok {
			r.addError("reference %q in section %q (namespace %q) uses unknown separator %q", ref.Name, secName, nsID, ref.Separator)
		} else {
			usedSeparators[ref.Separator] = true
		}
	}

	target := ref.Target
	if target == "" || strings.HasPrefix(target, "context:") {
		return
	}

	rt := resolveTarget(main, deps, target)
	if !rt.found() {
		suggestion := suggestClosest(target, allNames)
		if suggestion != "" {
			r.addError("reference %q in section %q (namespace %q) targets unknown %q (did you mean %q?)", ref.Name, secName, nsID, target, suggestion)
		} else {
			r.addError("reference %q in section %q (namespace %q) targets unknown %q", ref.Name, secName, nsID, target)
		}
		return
	}

	if rt.Datatype != nil {
		usedDatatypes[target] = true
		if ref.Unique && ref.Max > 1 && len(rt.Datatype.Values) < ref.Max {
			r.addError("reference %q in section %q (namespace %q) requires %d unique values but target %q only has %d", ref.Name, secName, nsID, ref.Max, target, len(rt.Datatype.Values))
		}
	}
	if rt.Section != nil {
		sectionGraph.AddEdge(selfKey, rt.OwnerPackageID+"/"+target)
	}
}

func checkRulebook(main *model.Package, deps map[string]*model.Package, nsID, rbName string, rb *model.Rulebook, r *Report) {
	if rbName == "" {
		r.addError("rulebook has an empty name in namespace %q", nsID)
	}
	if len(rb.EntryPoints) == 0 {
		r.addError("rulebook %q in namespace %q has no entry points", rbName, nsID)
	}

	seen := map[string]bool{}
	for _, ep := range rb.EntryPoints {
		if ep.Weight <= 0 {
			r.addError("rulebook %q in namespace %q has a non-positive entry point weight for %q", rbName, nsID, ep.PromptSection)
		}
		if seen[ep.PromptSection] {
			r.addError("rulebook %q in namespace %q has duplicate entry point %q", rbName, nsID, ep.PromptSection)
		}
		seen[ep.PromptSection] = true

		target := ep.PromptSection
		if !strings.Contains(target, ":") {
			target = nsID + ":" + target
		}
		rt := resolveTarget(main, deps, target)
		if rt.Section == nil {
			r.addError("rulebook %q in namespace %q entry point %q does not resolve to a prompt section", rbName, nsID, ep.PromptSection)
		}
	}

	for key := range rb.ContextDefaults {
		if key == "" {
			r.addError("rulebook %q in namespace %q has an empty context-default key", rbName, nsID)
			continue
		}
		if idx := strings.IndexByte(key, ':'); idx >= 0 {
			if idx == 0 || idx == len(key)-1 {
				r.addError("rulebook %q in namespace %q has a malformed scoped context-default key %q", rbName, nsID, key)
			}
		}
	}
}

func namespaceByID(main *model.Package, nsID string) *model.Namespace {
	n, _ := main.Namespaces.Get(nsID)
	return n
}
