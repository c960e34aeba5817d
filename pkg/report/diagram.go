package report

import (
	"strings"

	"github.com/devicelab-dev/dirspec/pkg/logger"
)

// Edge is one directed link between two declared directory paths.
type Edge struct {
	From string
	To   string
}

// ParseEdges splits each flow expression on its first "->". Expressions
// without an arrow, or with an empty side, are dropped.
func ParseEdges(flow []string) []Edge {
	edges := make([]Edge, 0, len(flow))
	for _, expr := range flow {
		from, to, ok := strings.Cut(expr, "->")
		if !ok {
			logger.Debug("ignoring malformed flow edge %q", expr)
			continue
		}
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from == "" || to == "" {
			logger.Debug("ignoring flow edge with empty endpoint %q", expr)
			continue
		}
		edges = append(edges, Edge{From: from, To: to})
	}
	return edges
}

// NodeID turns a directory path into a Mermaid node identifier.
// Repeated paths map to the same id, so the renderer collapses them.
func NodeID(path string) string {
	return strings.NewReplacer("/", "_", `\`, "_", " ", "_", `"`, "_").Replace(path)
}

// nodeLabel quotes a path for use inside ["..."].
func nodeLabel(path string) string {
	return strings.ReplaceAll(path, `"`, "#quot;")
}

// RenderMermaid renders flow expressions as a fenced Mermaid flowchart, one
// link per valid edge in flow order.
func RenderMermaid(flow []string) string {
	var b strings.Builder
	b.WriteString("```mermaid\n")
	b.WriteString("flowchart LR\n")
	for _, e := range ParseEdges(flow) {
		b.WriteString("    ")
		b.WriteString(NodeID(e.From))
		b.WriteString(`["` + nodeLabel(e.From) + `"]`)
		b.WriteString(" --> ")
		b.WriteString(NodeID(e.To))
		b.WriteString(`["` + nodeLabel(e.To) + `"]`)
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}
