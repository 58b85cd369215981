package overlap

import (
	"bytes"
	"fmt"
	"strings"
)

// DOTOptions controls [Graph.DOT] output.
type DOTOptions struct {
	// Labels names each region; missing entries fall back to the index.
	Labels []string
	// Colors fills each node; empty entries leave the node white.
	Colors []string
}

// DOT returns the graph in Graphviz DOT format.
func (g *Graph) DOT(opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i := range g.adj {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(opts.Labels, i))}
		if i < len(opts.Colors) && opts.Colors[i] != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", opts.Colors[i]))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(labels []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return fmt.Sprintf("%d", i)
}
