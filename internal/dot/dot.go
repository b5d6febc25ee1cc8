// Package dot draws the subgraph below one feature as a Graphviz diagram.
package dot

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/inodb/gffanno/internal/gff"
	"github.com/inodb/gffanno/internal/graph"
)

// ErrNoRoot is returned when the requested root has no feature.
var ErrNoRoot = errors.New("root feature not found")

// ToDOT returns DOT source for root and everything reachable through its
// offspring. Nodes are numbered in breadth-first order, so features without
// an ID still get a stable name.
func ToDOT(g *graph.Graph, root string) (string, error) {
	start, ok := g.Lookup(root)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoRoot, root)
	}

	names := map[gff.Identity]string{start.ID: "n0"}
	queue := []*gff.Feature{start}

	var nodes, edges bytes.Buffer
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		fmt.Fprintf(&nodes, "  %s [label=%q];\n", names[f.ID], label(f))

		for _, kid := range g.Offspring(f.ID) {
			k, ok := g.Get(kid)
			if !ok {
				continue
			}
			name, seen := names[kid]
			if !seen {
				name = fmt.Sprintf("n%d", len(names))
				names[kid] = name
				queue = append(queue, k)
			}
			fmt.Fprintf(&edges, "  %s -> %s;\n", names[f.ID], name)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String(), nil
}

func label(f *gff.Feature) string {
	id, ok := f.ID.Declared()
	if !ok {
		id = "(no ID)"
	}
	l := f.Category + "\n" + id
	if name, ok := f.Name(); ok && name != id {
		l += "\n" + name
	}
	return fmt.Sprintf("%s\n%s:%d-%d", l, f.Chrom, f.Start, f.End)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
