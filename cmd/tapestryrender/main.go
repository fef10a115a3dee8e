package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/tapestry/pkg/graph"
	"github.com/dshills/tapestry/pkg/graphviz"
	"github.com/dshills/tapestry/pkg/render"
	"github.com/dshills/tapestry/pkg/resolver"
	"github.com/dshills/tapestry/pkg/scopectx"
	"github.com/dshills/tapestry/pkg/validate"
)

const version = "1.0.0"

var (
	packagePath = flag.String("package", "", "Path to the package's root YAML file (required)")
	searchPaths = flag.String("search", "", "Comma-separated directories to search for dependencies, beyond the default path")
	section     = flag.String("section", "", "Section ref to render, e.g. main:greeting (mutually exclusive with -rulebook)")
	rulebook    = flag.String("rulebook", "", "Rulebook ref to render from, e.g. main:intros (mutually exclusive with -section)")
	seedFlag    = flag.Uint64("seed", 1, "Render seed")
	vars        = flag.String("vars", "", "Comma-separated key=value initial context entries")
	skipValid   = flag.Bool("skip-validate", false, "Skip the pre-render validation pass")
	svgOut      = flag.String("svg", "", "If set, write a dependency graph SVG to this path and exit without rendering")
	versionF    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("tapestryrender version %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *packagePath == "" {
		return fmt.Errorf("-package is required")
	}
	if (*section == "") == (*rulebook == "") {
		return fmt.Errorf("exactly one of -section or -rulebook is required")
	}

	var search []string
	if *searchPaths != "" {
		search = strings.Split(*searchPaths, ",")
	}

	result, err := resolver.Resolve(*packagePath, search)
	if err != nil {
		return fmt.Errorf("resolving package: %w", err)
	}

	if *svgOut != "" {
		return writeDependencyGraph(result.Graph, *svgOut)
	}

	if !*skipValid {
		report := validate.Validate(result.Main, result.Deps)
		for _, w := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if !report.OK() {
			return fmt.Errorf("package failed validation:\n%s", report.Summary())
		}
	}

	r := render.New(result.Main, result.Deps)
	initial, err := parseVars(*vars)
	if err != nil {
		return err
	}

	var out *render.Result
	if *section != "" {
		out, err = r.Render(*section, *seedFlag, initial)
	} else {
		out, err = r.RenderFromRulebook(*rulebook, *seedFlag, nil)
	}
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	fmt.Println(out.Output)
	return nil
}

func parseVars(raw string) (map[string]scopectx.Value, error) {
	if raw == "" {
		return nil, nil
	}
	out := map[string]scopectx.Value{}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed -vars entry %q, want key=value", pair)
		}
		out[strings.TrimSpace(kv[0])] = scopectx.Text(strings.TrimSpace(kv[1]))
	}
	return out, nil
}

func writeDependencyGraph(g *graph.DiGraph, path string) error {
	opts := graphviz.DefaultOptions()
	opts.Title = "Package Dependency Graph"
	if err := graphviz.SaveToFile(g, path, opts); err != nil {
		return fmt.Errorf("writing dependency graph: %w", err)
	}
	fmt.Printf("Wrote dependency graph to %s\n", path)
	return nil
}
