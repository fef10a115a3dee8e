package packagefile_test

import (
	"testing"

	"github.com/dshills/tapestry/pkg/packagefile"
)

func TestParse_ValidMinimalPackage(t *testing.T) {
	src := `
id: demo
version: 1.0.0
metadata:
  name: Demo Pack
  authors: [ash]
namespaces:
  main:
    datatypes:
      color:
        values:
          - text: red
            weight: 1
          - text: blue
            weight: 1
    prompt_sections:
      greeting:
        template: "a {color} thing"
        references:
          color:
            target: color
`
	pkg, err := packagefile.Parse("demo.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if pkg.ID != "demo" {
		t.Errorf("got id %q", pkg.ID)
	}
	if pkg.Version.String() != "1.0.0" {
		t.Errorf("got version %q", pkg.Version.String())
	}
	ns, ok := pkg.Namespaces.Get("main")
	if !ok {
		t.Fatal("expected namespace main")
	}
	dt, ok := ns.Datatypes.Get("color")
	if !ok || len(dt.Values) != 2 {
		t.Fatalf("got %v ok=%v", dt, ok)
	}
	sec, ok := ns.PromptSections.Get("greeting")
	if !ok {
		t.Fatal("expected section greeting")
	}
	ref, ok := sec.References.Get("color")
	if !ok {
		t.Fatal("expected reference color")
	}
	if ref.Target != "main:color" {
		t.Errorf("expected relative target to be namespace-qualified, got %q", ref.Target)
	}
}

func TestParse_MissingRequiredKeyIsSchemaError(t *testing.T) {
	src := `
id: demo
version: 1.0.0
metadata:
  name: Demo
  authors: []
`
	_, err := packagefile.Parse("demo.yaml", []byte(src))
	if err == nil {
		t.Fatal("expected schema error for missing namespaces")
	}
	var schemaErr *packagefile.SchemaError
	if !asSchemaError(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
}

func TestParse_InvalidVersionIsSchemaError(t *testing.T) {
	src := `
id: demo
version: not-a-version
metadata:
  name: Demo
  authors: []
namespaces: {}
`
	_, err := packagefile.Parse("demo.yaml", []byte(src))
	if err == nil {
		t.Fatal("expected schema error for invalid version")
	}
	var schemaErr *packagefile.SchemaError
	if !asSchemaError(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
}

func TestParse_MalformedYAMLIsSyntaxError(t *testing.T) {
	src := "id: [unclosed"
	_, err := packagefile.Parse("demo.yaml", []byte(src))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var syntaxErr *packagefile.SyntaxError
	if !asSyntaxError(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}
}

func TestParse_DependencyAliasPackage(t *testing.T) {
	src := `
id: demo
version: 1.0.0
metadata:
  name: Demo
  authors: []
namespaces: {}
dependencies:
  - package: other-pack
    version: "^1.0.0"
`
	pkg, err := packagefile.Parse("demo.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(pkg.Dependencies) != 1 || pkg.Dependencies[0].PackageID != "other-pack" {
		t.Fatalf("got %v", pkg.Dependencies)
	}
}

func TestParse_NamespacesPreserveDeclarationOrder(t *testing.T) {
	src := `
id: demo
version: 1.0.0
metadata:
  name: Demo
  authors: []
namespaces:
  zeta: {}
  alpha: {}
  mid: {}
`
	pkg, err := packagefile.Parse("demo.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	order := pkg.Namespaces.Order()
	want := []string{"zeta", "alpha", "mid"}
	if len(order) != len(want) {
		t.Fatalf("got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func asSchemaError(err error, target **packagefile.SchemaError) bool {
	if se, ok := err.(*packagefile.SchemaError); ok {
		*target = se
		return true
	}
	return false
}

func asSyntaxError(err error, target **packagefile.SyntaxError) bool {
	if se, ok := err.(*packagefile.SyntaxError); ok {
		*target = se
		return true
	}
	return false
}
