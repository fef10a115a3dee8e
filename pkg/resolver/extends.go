package resolver

import (
	"strings"

	"github.com/dshills/tapestry/pkg/model"
)

// normalizeExtends flattens every datatype's extends relationship
// across main and its full dependency set, once all packages are
// loaded. It must run after every package in the graph is resolved,
// since a datatype's base can live in another namespace of the same
// package or in a dependency.
func normalizeExtends(main *model.Package, deps map[string]*model.Package) error {
	all := make([]*model.Package, 0, len(deps)+1)
	all = append(all, main)
	for _, p := range deps {
		all = append(all, p)
	}

	for _, pkg := range all {
		for _, nsID := range pkg.Namespaces.Order() {
			ns, _ := pkg.Namespaces.Get(nsID)
			resolveBase := func(target string) (*model.Datatype, bool) {
				return resolveExtendsTarget(pkg, deps, target)
			}
			if err := model.NormalizeExtends(ns, resolveBase); err != nil {
				return err
			}
		}
	}
	for _, pkg := range all {
		for _, nsID := range pkg.Namespaces.Order() {
			ns, _ := pkg.Namespaces.Get(nsID)
			for _, name := range ns.Datatypes.Order() {
				dt, _ := ns.Datatypes.Get(name)
				model.NormalizeWeights(dt)
			}
		}
	}
	return nil
}

// resolveExtendsTarget resolves an extends target, either
// "namespace:name" or a bare name searched across every other
// namespace of pkg, falling back to every namespace of every
// dependency in deps.
func resolveExtendsTarget(pkg *model.Package, deps map[string]*model.Package, target string) (*model.Datatype, bool) {
	if idx := strings.IndexByte(target, ':'); idx >= 0 {
		nsID, name := target[:idx], target[idx+1:]
		if ns, ok := pkg.Namespaces.Get(nsID); ok {
			if dt, ok := ns.Datatypes.Get(name); ok {
				return dt, true
			}
		}
		for _, dep := range deps {
			if ns, ok := dep.Namespaces.Get(nsID); ok {
				if dt, ok := ns.Datatypes.Get(name); ok {
					return dt, true
				}
			}
		}
		return nil, false
	}

	for _, nsID := range pkg.Namespaces.Order() {
		ns, _ := pkg.Namespaces.Get(nsID)
		if dt, ok := ns.Datatypes.Get(target); ok {
			return dt, true
		}
	}
	for _, dep := range deps {
		for _, nsID := range dep.Namespaces.Order() {
			ns, _ := dep.Namespaces.Get(nsID)
			if dt, ok := ns.Datatypes.Get(target); ok {
				return dt, true
			}
		}
	}
	return nil, false
}
