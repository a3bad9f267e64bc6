package mdf

// validateLocked implements the DFS-based soundness check of spec.md §4.4.
// Callers must hold t.mu. It is only invoked from Validate, and only while
// t.validated is unset.
func (t *Template) validateLocked() error {
	if t.inputNodeID < 0 || t.outputNodeID < 0 {
		return newErr(KindInputOrOutputUnset, "template must have both an input and an output node marked before Validate")
	}
	if t.inputNodeID == t.outputNodeID {
		return newErr(KindInputOutputNotDistinct, "input and output node must be distinct")
	}

	for _, n := range t.nodes {
		if n.isInput || n.isOutput {
			continue
		}
		if len(n.outputMap) != n.outputSize {
			return newErr(KindIncompleteOutputMap, "node %d has an incomplete output map (%d of %d)", n.id, len(n.outputMap), n.outputSize)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(t.nodes))
	visited := 0

	var walk func(id int) error
	walk = func(id int) error {
		color[id] = gray
		visited++
		for _, succ := range t.nodes[id].successors {
			switch color[succ] {
			case white:
				if err := walk(succ); err != nil {
					return err
				}
			case gray:
				return newErr(KindCycleDetected, "cycle detected: node %d reaches node %d which is still on the DFS stack", id, succ)
			case black:
				// cross/forward edge, fine in a DAG
			}
		}
		color[id] = black
		return nil
	}

	if err := walk(t.inputNodeID); err != nil {
		return err
	}
	if visited != len(t.nodes) {
		return newErr(KindUnreachableNodes, "%d of %d nodes are unreachable from the input node", len(t.nodes)-visited, len(t.nodes))
	}
	return nil
}
