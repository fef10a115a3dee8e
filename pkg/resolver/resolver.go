package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/tapestry/pkg/graph"
	"github.com/dshills/tapestry/pkg/model"
	"github.com/dshills/tapestry/pkg/packagefile"
)

// Result is the output of a full dependency resolution: the package
// named at the entry path, every transitive dependency keyed by
// package id, and the dependency graph built up along the way (handy
// for pkg/graphviz debug export).
type Result struct {
	Main  *model.Package
	Deps  map[string]*model.Package
	Graph *graph.DiGraph
}

// Resolve loads the package file at path and its transitive
// dependencies. searchPaths is tried in order, followed by
// DefaultSearchPaths().
func Resolve(path string, searchPaths []string) (*Result, error) {
	st := &state{
		searchPaths: append(append([]string{}, searchPaths...), DefaultSearchPaths()...),
		cache:       map[string]*model.Package{},
		depGraph:    graph.NewDiGraph(),
	}

	main, err := packagefile.Load(path)
	if err != nil {
		return nil, err
	}
	st.depGraph.AddNode(main.ID)
	st.cache[main.ID] = main
	st.stack = append(st.stack, main.ID)

	if err := st.resolveDeps(main, filepath.Dir(path)); err != nil {
		return nil, err
	}
	st.stack = st.stack[:len(st.stack)-1]

	deps := make(map[string]*model.Package, len(st.cache))
	for id, p := range st.cache {
		if id != main.ID {
			deps[id] = p
		}
	}
	if err := normalizeExtends(main, deps); err != nil {
		return nil, err
	}
	return &Result{Main: main, Deps: deps, Graph: st.depGraph}, nil
}

type state struct {
	searchPaths []string
	cache       map[string]*model.Package
	stack       []string
	depGraph    *graph.DiGraph
}

func (st *state) resolveDeps(pkg *model.Package, baseDir string) error {
	for _, dep := range pkg.Dependencies {
		st.depGraph.AddEdge(pkg.ID, dep.PackageID)

		if onStack(st.stack, dep.PackageID) {
			cycle := append(append([]string(nil), st.stack...), dep.PackageID)
			return &CircularDependencyError{Cycle: cycle}
		}

		if cached, ok := st.cache[dep.PackageID]; ok {
			if err := verifyVersion(dep, cached); err != nil {
				return err
			}
			continue
		}

		depPath, searched, found := locate(dep, baseDir, st.searchPaths)
		if !found {
			return &NotFoundError{ID: dep.PackageID, SearchedPaths: searched}
		}

		loaded, err := packagefile.Load(depPath)
		if err != nil {
			return &LoadError{ID: dep.PackageID, Path: depPath, Reason: err.Error()}
		}
		if loaded.ID != dep.PackageID {
			return &PackageIDMismatchError{Expected: dep.PackageID, Found: loaded.ID, Path: depPath}
		}
		if err := verifyVersion(dep, loaded); err != nil {
			return err
		}

		st.cache[loaded.ID] = loaded
		st.stack = append(st.stack, loaded.ID)
		if err := st.resolveDeps(loaded, filepath.Dir(depPath)); err != nil {
			return err
		}
		st.stack = st.stack[:len(st.stack)-1]
	}
	return nil
}

func onStack(stack []string, id string) bool {
	for _, s := range stack {
		if s == id {
			return true
		}
	}
	return false
}

func verifyVersion(dep model.Dependency, pkg *model.Package) error {
	constraint, err := model.ParseConstraint(dep.Version)
	if err != nil {
		return &VersionMismatchError{ID: dep.PackageID, Required: dep.Version, Found: pkg.Version.String(), Details: err.Error()}
	}
	if !constraint.Satisfies(pkg.Version) {
		return &VersionMismatchError{ID: dep.PackageID, Required: dep.Version, Found: pkg.Version.String()}
	}
	return nil
}

// locate finds the file backing dep, trying its explicit path (if
// any) before the configured search directories. It returns every
// candidate tried, for use in a NotFoundError.
func locate(dep model.Dependency, baseDir string, searchPaths []string) (path string, searched []string, found bool) {
	if dep.Path != "" {
		var candidates []string
		if filepath.IsAbs(dep.Path) {
			candidates = append(candidates, dep.Path)
		} else {
			candidates = append(candidates, filepath.Join(baseDir, dep.Path))
			if cwd, err := os.Getwd(); err == nil {
				candidates = append(candidates, filepath.Join(cwd, dep.Path))
			}
		}
		for _, c := range candidates {
			searched = append(searched, c)
			if fileExists(c) {
				return c, searched, true
			}
		}
	}

	filename := strings.ReplaceAll(dep.PackageID, ".", "-") + ".yaml"
	for _, dir := range searchPaths {
		c := filepath.Join(dir, filename)
		searched = append(searched, c)
		if fileExists(c) {
			return c, searched, true
		}
	}
	return "", searched, false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
