package mdf

import (
	"fmt"
	"strings"
)

// Dump renders the template's wiring as Graphviz DOT text, purely for
// human inspection — nothing in this package parses it back. It works on
// a template before or after Validate; nodes with no successors and no
// declared function name still get a stable label from their kind and id.
func (t *Template) Dump() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	b.WriteString("digraph mdf {\n")
	for _, n := range t.nodes {
		b.WriteString(fmt.Sprintf("  n%d [label=%q];\n", n.id, nodeLabel(n)))
	}
	for _, n := range t.nodes {
		for _, edge := range n.outputMap {
			b.WriteString(fmt.Sprintf("  n%d -> n%d [label=%q];\n", n.id, edge.target, fmt.Sprintf("slot %d", edge.targetSlot)))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func nodeLabel(n *node) string {
	var marker string
	switch {
	case n.isInput:
		marker = " (input)"
	case n.isOutput:
		marker = " (output)"
	}
	if n.kind == Standard && n.function != nil && n.function.Name() != "" {
		return fmt.Sprintf("#%d %s%s", n.id, n.function.Name(), marker)
	}
	return fmt.Sprintf("#%d %s%s", n.id, n.kind, marker)
}
