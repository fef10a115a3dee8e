package validate

import (
	"strings"

	"github.com/dshills/tapestry/pkg/model"
)

// resolvedTarget is what a fully-qualified "namespace:name" reference
// or extends target resolved to, across the main package and its
// dependency map.
type resolvedTarget struct {
	OwnerPackageID string
	Datatype       *model.Datatype
	Section        *model.PromptSection
}

func (t resolvedTarget) found() bool { return t.Datatype != nil || t.Section != nil }

// resolveTarget looks up a "namespace:name" target across main and
// every dependency in deps. Context-scoped and empty targets are the
// caller's responsibility to skip before calling this.
func resolveTarget(main *model.Package, deps map[string]*model.Package, target string) resolvedTarget {
	idx := strings.IndexByte(target, ':')
	if idx < 0 {
		return resolvedTarget{}
	}
	nsID, name := target[:idx], target[idx+1:]

	if ns, ok := main.Namespaces.Get(nsID); ok {
		if rt, ok := lookupInNamespace(ns, name); ok {
			rt.OwnerPackageID = main.ID
			return rt
		}
	}
	for _, dep := range deps {
		if ns, ok := dep.Namespaces.Get(nsID); ok {
			if rt, ok := lookupInNamespace(ns, name); ok {
				rt.OwnerPackageID = dep.ID
				return rt
			}
		}
	}
	return resolvedTarget{}
}

func lookupInNamespace(ns *model.Namespace, name string) (resolvedTarget, bool) {
	if dt, ok := ns.Datatypes.Get(name); ok {
		return resolvedTarget{Datatype: dt}, true
	}
	if sec, ok := ns.PromptSections.Get(name); ok {
		return resolvedTarget{Section: sec}, true
	}
	return resolvedTarget{}, false
}

// allQualifiedNames collects every "namespace:name" datatype and
// section name across main and deps, used to suggest a close match
// for an unresolved reference target.
func allQualifiedNames(main *model.Package, deps map[string]*model.Package) []string {
	var out []string
	collect := func(pkg *model.Package) {
		for _, nsID := range pkg.Namespaces.Order() {
			ns, _ := pkg.Namespaces.Get(nsID)
			for _, name := range ns.Datatypes.Order() {
				out = append(out, nsID+":"+name)
			}
			for _, name := range ns.PromptSections.Order() {
				out = append(out, nsID+":"+name)
			}
		}
	}
	collect(main)
	for _, dep := range deps {
		collect(dep)
	}
	return out
}
