package packagefile

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/tapestry/pkg/model"
)

var requiredTopLevelKeys = []string{"id", "version", "metadata", "namespaces"}

// Load reads and parses the package file at path, returning its data
// model. It does not resolve dependencies, flatten datatype
// inheritance, or run semantic validation; see pkg/resolver and
// pkg/validate for those.
func Load(path string) (*model.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse parses raw package-file bytes already read from path (path is
// used only to annotate errors).
func Parse(path string, data []byte) (*model.Package, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	if len(doc.Content) == 0 {
		return nil, &SchemaError{Path: path, Message: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &SchemaError{Path: path, Message: "top level of a package file must be a mapping"}
	}

	present := map[string]bool{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		present[root.Content[i].Value] = true
	}
	for _, key := range requiredTopLevelKeys {
		if !present[key] {
			return nil, &SchemaError{Path: path, Message: "missing required top-level key " + key}
		}
	}

	pkg := &model.Package{}
	if err := root.Decode(pkg); err != nil {
		return nil, &SchemaError{Path: path, Message: err.Error()}
	}
	if pkg.Namespaces == nil {
		pkg.Namespaces = model.NewNamespaceMap()
	}

	version, err := model.ParseVersion(pkg.VersionRaw)
	if err != nil {
		return nil, &SchemaError{Path: path, Message: "invalid version string " + strictQuote(pkg.VersionRaw)}
	}
	pkg.Version = version

	normalizeReferenceTargets(pkg)

	return pkg, nil
}

func strictQuote(s string) string {
	return "\"" + s + "\""
}

// normalizeReferenceTargets rewrites every Reference.Target that is
// non-empty, does not start with "context:", and contains no ":" into
// "<namespace-id>:<target>", so every later lookup can assume a fully
// qualified target.
func normalizeReferenceTargets(pkg *model.Package) {
	for _, nsID := range pkg.Namespaces.Order() {
		ns, _ := pkg.Namespaces.Get(nsID)
		for _, secName := range ns.PromptSections.Order() {
			sec, _ := ns.PromptSections.Get(secName)
			if sec.References == nil {
				continue
			}
			for _, refName := range sec.References.Order() {
				ref, _ := sec.References.Get(refName)
				if ref.Target == "" {
					continue
				}
				if strings.HasPrefix(ref.Target, "context:") {
					continue
				}
				if strings.Contains(ref.Target, ":") {
					continue
				}
				ref.Target = nsID + ":" + ref.Target
			}
		}
	}
}
