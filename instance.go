package mdf

// instance is a single run's mutable clone of a validated Template: fresh
// instanceNodes sharing the template's immutable wiring, per spec.md §4.5.
// Only the Executor touches an instance's fields once created. The instance
// holds its Future, not the other way round, and only queued jobs refer to
// the instance, so ordinary Go garbage collection reclaims it once its last
// job has run; there is no explicit destroy/teardown call (the source's
// deleted-flag bookkeeping has no counterpart here).
type instance struct {
	template *Template
	nodes    []*instanceNode
	future   *Future
}

// clone allocates a fresh instance from a validated template. Validate must
// have already succeeded; Clone does not re-check the graph.
func (t *Template) clone() *instance {
	nodes := make([]*instanceNode, len(t.nodes))
	for i, n := range t.nodes {
		nodes[i] = newInstanceNode(n)
	}
	for i, n := range t.nodes {
		nodes[i].pending.Store(int32(pendingSeed(n)))
	}
	return &instance{template: t, nodes: nodes}
}

// pendingSeed computes a node's initial pending_count. The input node is
// seeded at zero regardless of its declared input_size, since it never
// receives wired input tokens (spec.md §9's Open Question: prefer the
// zero-seed reading over reproducing the source's off-by-one). Every other
// node is seeded to its declared input_size, one unit released per
// writeSlot call.
func pendingSeed(n *node) int {
	if n.isInput {
		return 0
	}
	return n.inputSize
}

// transferTokens fans a firing node's output vector out to its wired
// consumers per the producer's output map, releasing one unit of pending
// count on each target as its slot is written. It returns the id of every
// node whose pending count reached zero as a direct result — the set the
// caller must schedule next — deduplicated in case two of this producer's
// edges happen to complete the same successor's last two slots at once.
func (in *instance) transferTokens(producerID int, out tokenVector) []int {
	wiring := in.nodes[producerID].wiring
	var newlyReady []int
	for i, edge := range wiring.outputMap {
		target := in.nodes[edge.target]
		if target.writeSlot(edge.targetSlot, out[i]) {
			newlyReady = append(newlyReady, edge.target)
		}
	}
	return newlyReady
}

func (in *instance) inputNode() *instanceNode { return in.nodes[in.template.inputNodeID] }

// succeed resolves the instance's Future with the output node's token
// vector. Called from exactly one worker: the one that wins the output
// node's fire claim.
func (in *instance) succeed(tokens []Token) {
	in.future.resolve(tokens, nil)
}

// fail resolves the instance's Future with err. Safe to call from multiple
// workers concurrently (e.g. two nodes panicking in the same instance);
// Future.resolve's sync.Once keeps only the first.
func (in *instance) fail(err error) {
	in.future.resolve(nil, err)
}
