package graph

import (
	"reflect"
	"testing"
)

func TestAddEdge_RegistersNodes(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("a", "b")
	nodes := g.Nodes()
	if !reflect.DeepEqual(nodes, []string{"a", "b"}) {
		t.Fatalf("got %v", nodes)
	}
}

func TestFindCycle_None(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	if cycle := g.FindCycle(); cycle != nil {
		t.Fatalf("expected no cycle, got %v", cycle)
	}
}

func TestFindCycle_Direct(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	cycle := g.FindCycle()
	if cycle == nil {
		t.Fatal("expected a cycle")
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Fatalf("cycle should close on itself: %v", cycle)
	}
}

func TestFindCycle_ThreeNode(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("ns:a", "ns:b")
	g.AddEdge("ns:b", "ns:a")
	cycle := g.FindCycle()
	if cycle == nil {
		t.Fatal("expected a cycle")
	}
	if len(cycle) != 3 || cycle[0] != cycle[2] {
		t.Fatalf("expected a 2-node cycle chain, got %v", cycle)
	}
}

func TestTopoSort_LinearOrder(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	order, err := g.TopoSort([]string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", order)
	}
}

func TestTopoSort_TieBreakByDeclarationOrder(t *testing.T) {
	g := NewDiGraph()
	g.AddNode("x")
	g.AddNode("y")
	g.AddNode("z")
	// No edges: all three are independently ready; declaration order
	// must govern the result.
	order, err := g.TopoSort([]string{"z", "y", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"z", "y", "x"}) {
		t.Fatalf("got %v", order)
	}
}

func TestTopoSort_DependencyBeforeDependent(t *testing.T) {
	// "adj" depends on "feature": feature must sort before adj even if
	// adj is declared first.
	g := NewDiGraph()
	g.AddEdge("feature", "adj")
	order, err := g.TopoSort([]string{"adj", "feature"})
	if err != nil {
		t.Fatal(err)
	}
	featureIdx, adjIdx := -1, -1
	for i, n := range order {
		if n == "feature" {
			featureIdx = i
		}
		if n == "adj" {
			adjIdx = i
		}
	}
	if featureIdx >= adjIdx {
		t.Fatalf("expected feature before adj, got %v", order)
	}
}

func TestTopoSort_CycleError(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	if _, err := g.TopoSort([]string{"a", "b"}); err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestReachable(t *testing.T) {
	g := NewDiGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddNode("d")
	r := g.Reachable("a")
	if len(r) != 3 || !r["a"] || !r["b"] || !r["c"] {
		t.Fatalf("got %v", r)
	}
}
