// Package graphviz renders a pkg/graph.DiGraph as an SVG diagram, for
// inspecting a resolved package's dependency graph or a rendered
// section's reference graph without reading the YAML by hand.
package graphviz

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/tapestry/pkg/graph"
)

// Options configures the diagram.
type Options struct {
	Width      int
	Height     int
	NodeRadius int
	EdgeWidth  int
	Margin     int
	Title      string
}

// DefaultOptions returns sensible defaults for a small-to-medium graph.
func DefaultOptions() Options {
	return Options{
		Width:      1000,
		Height:     800,
		NodeRadius: 24,
		EdgeWidth:  2,
		Margin:     60,
		Title:      "Reference Graph",
	}
}

type position struct{ X, Y float64 }

// Export lays g's nodes out on a circle (in node-insertion order, so
// the diagram is reproducible) and draws its edges as arrows between
// them.
func Export(g *graph.DiGraph, opts Options) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("graphviz: graph is nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 24
	}
	if opts.EdgeWidth <= 0 {
		opts.EdgeWidth = 2
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	nodes := g.Nodes()
	positions := calculateLayout(nodes, opts)

	drawEdges(canvas, g, positions, opts)
	drawNodes(canvas, nodes, positions, opts)
	if opts.Title != "" {
		canvas.Text(opts.Width/2, 30, opts.Title,
			"text-anchor:middle;font-size:18px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveToFile writes Export's output to path with 0644 permissions.
func SaveToFile(g *graph.DiGraph, path string, opts Options) error {
	data, err := Export(g, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func calculateLayout(nodes []string, opts Options) map[string]position {
	positions := make(map[string]position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	centerX := float64(opts.Width) / 2
	centerY := float64(opts.Height) / 2
	drawWidth := float64(opts.Width-2*opts.Margin) / 2
	drawHeight := float64(opts.Height-2*opts.Margin) / 2
	radius := math.Min(drawWidth, drawHeight)

	angleStep := 2 * math.Pi / float64(len(nodes))
	for i, id := range nodes {
		angle := float64(i) * angleStep
		positions[id] = position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}

func drawEdges(canvas *svg.SVG, g *graph.DiGraph, positions map[string]position, opts Options) {
	for _, from := range g.Nodes() {
		fromPos, ok := positions[from]
		if !ok {
			continue
		}
		for _, to := range g.Neighbors(from) {
			toPos, ok := positions[to]
			if !ok {
				continue
			}
			canvas.Line(
				int(fromPos.X), int(fromPos.Y),
				int(toPos.X), int(toPos.Y),
				fmt.Sprintf("stroke:#4299e1;stroke-width:%d;opacity:0.8", opts.EdgeWidth),
			)
			drawArrow(canvas, fromPos, toPos)
		}
	}
}

func drawArrow(canvas *svg.SVG, from, to position) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	angle := math.Atan2(dy, dx)

	midX := (from.X + to.X) / 2
	midY := (from.Y + to.Y) / 2
	const arrowSize = 8.0

	tip := position{midX + arrowSize*math.Cos(angle), midY + arrowSize*math.Sin(angle)}
	left := position{midX + arrowSize*math.Cos(angle+2.8), midY + arrowSize*math.Sin(angle+2.8)}
	right := position{midX + arrowSize*math.Cos(angle-2.8), midY + arrowSize*math.Sin(angle-2.8)}

	xs := []int{int(tip.X), int(left.X), int(right.X)}
	ys := []int{int(tip.Y), int(left.Y), int(right.Y)}
	canvas.Polygon(xs, ys, "fill:#4299e1")
}

func drawNodes(canvas *svg.SVG, nodes []string, positions map[string]position, opts Options) {
	for _, id := range nodes {
		pos, ok := positions[id]
		if !ok {
			continue
		}
		canvas.Circle(int(pos.X), int(pos.Y), opts.NodeRadius,
			"fill:#48bb78;stroke:#fff;stroke-width:2;opacity:0.9")
		canvas.Text(int(pos.X), int(pos.Y)+opts.NodeRadius+15, id,
			"text-anchor:middle;font-size:11px;font-family:monospace;fill:#e2e8f0;font-weight:500")
	}
}
