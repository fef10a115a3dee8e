package render

import (
	"sort"
	"strings"

	"github.com/dshills/tapestry/pkg/model"
)

// resolveNamespace locates the namespace named by ref, which is
// either a bare "name" (resolved against main's first-inserted
// namespace) or a qualified "namespace:name". It searches main first,
// then every dependency in deterministic (sorted) id order.
func resolveNamespace(main *model.Package, deps map[string]*model.Package, ref string) (ns *model.Namespace, localName string, ok bool) {
	idx := strings.IndexByte(ref, ':')
	if idx < 0 {
		first, hasFirst := main.Namespaces.First()
		if !hasFirst {
			return nil, "", false
		}
		return first, ref, true
	}

	nsID, name := ref[:idx], ref[idx+1:]
	if found, ok := main.Namespaces.Get(nsID); ok {
		return found, name, true
	}

	depIDs := make([]string, 0, len(deps))
	for id := range deps {
		depIDs = append(depIDs, id)
	}
	sort.Strings(depIDs)
	for _, id := range depIDs {
		if found, ok := deps[id].Namespaces.Get(nsID); ok {
			return found, name, true
		}
	}
	return nil, "", false
}
