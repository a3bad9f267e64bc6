package mdf

import "sync"

// Template is the mutable graph builder of spec.md §4.3. It owns every
// node appended to it, enforces the construction invariants of §3
// progressively as edges are wired, and becomes permanently immutable the
// first time Validate succeeds. A validated Template may seed any number
// of concurrent Executor runs; a Template that has not yet validated must
// not be shared across goroutines.
type Template struct {
	mu    sync.Mutex
	nodes []*node

	inputNodeID  int // -1 until MarkAsInput
	outputNodeID int // -1 until MarkAsOutput

	validated bool
}

// NewTemplate returns an empty, mutable Template.
func NewTemplate() *Template {
	return &Template{inputNodeID: -1, outputNodeID: -1}
}

// checkMutable returns ErrModificationAfterValidation if the template has
// already been validated. Every builder method that changes the template
// calls it, SendTo and GatherFrom through AddOutput.
func (t *Template) checkMutable() error {
	if t.validated {
		return newErr(KindModificationAfterValidation, "template is validated and frozen")
	}
	return nil
}

func (t *Template) handle(n *node) NodeHandle {
	return NodeHandle{template: t, id: n.id}
}

func (t *Template) node(h NodeHandle) (*node, error) {
	if !h.valid() {
		return nil, newErr(KindNullInstruction, "handle is unset")
	}
	if h.template != t {
		return nil, newErr(KindForeignNodeHandle, "handle belongs to a different template")
	}
	if h.id < 0 || h.id >= len(t.nodes) {
		return nil, newErr(KindForeignNodeHandle, "handle id %d out of range", h.id)
	}
	return t.nodes[h.id], nil
}

// AddFunctionNode appends a STANDARD node wrapping fn and returns its
// handle. fn's declared arity and output arity become the node's
// input_size and output_size.
func (t *Template) AddFunctionNode(fn *Function) (NodeHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return NodeHandle{}, err
	}
	n := newNode(len(t.nodes), Standard, fn.Arity(), fn.OutputArity(), fn)
	t.nodes = append(t.nodes, n)
	return t.handle(n), nil
}

// AddSplitNode appends a SPLIT(n) node: one input, n outputs each carrying
// a copy of that input.
func (t *Template) AddSplitNode(n int) (NodeHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return NodeHandle{}, err
	}
	if n < 1 {
		return NodeHandle{}, newErr(KindSplitMergeZero, "split arity must be >= 1, got %d", n)
	}
	nd := newNode(len(t.nodes), Split, 1, n, nil)
	t.nodes = append(t.nodes, nd)
	return t.handle(nd), nil
}

// AddMergeNode appends a MERGE(n) node: n inputs, one output carrying the
// ordered vector of inputs.
func (t *Template) AddMergeNode(n int) (NodeHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return NodeHandle{}, err
	}
	if n < 1 {
		return NodeHandle{}, newErr(KindSplitMergeZero, "merge arity must be >= 1, got %d", n)
	}
	nd := newNode(len(t.nodes), Merge, n, 1, nil)
	t.nodes = append(t.nodes, nd)
	return t.handle(nd), nil
}

// CloneNode appends a new node with the same kind, arities, and function
// as the node referenced by src, but with empty wiring. src may belong to
// a different template (spec.md §9's Open Question resolves this as
// allowed, matching the source's behaviour); the caller is responsible for
// not outliving src's owning template.
func (t *Template) CloneNode(src NodeHandle) (NodeHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return NodeHandle{}, err
	}
	if !src.valid() {
		return NodeHandle{}, newErr(KindNullInstruction, "clone source handle is unset")
	}
	srcNode, err := src.template.node(src)
	if err != nil {
		return NodeHandle{}, err
	}
	nd := newNode(len(t.nodes), srcNode.kind, srcNode.inputSize, srcNode.outputSize, srcNode.function)
	t.nodes = append(t.nodes, nd)
	return t.handle(nd), nil
}

// wireEdge is the shared per-entry check used by SetOutputMap and
// AddOutput: distinct-slot, no-self-loop, in-range.
func (t *Template) wireEdge(producer *node, target NodeHandle, targetSlot int) (*node, error) {
	targetNode, err := t.node(target)
	if err != nil {
		return nil, err
	}
	if targetNode.id == producer.id {
		return nil, newErr(KindSelfLoop, "node %d cannot wire an output to itself", producer.id)
	}
	if targetSlot < 0 || targetSlot >= targetNode.inputSize {
		return nil, newErr(KindSlotOutOfRange, "slot %d out of range for node %d (input_size=%d)", targetSlot, targetNode.id, targetNode.inputSize)
	}
	if targetNode.dependents.isSet(targetSlot) {
		return nil, newErr(KindSlotAlreadyWired, "slot %d of node %d is already wired", targetSlot, targetNode.id)
	}
	return targetNode, nil
}

// SetOutputMap assigns a node's entire output map at once. The node's
// current output map must be empty, and the new map's length must equal
// its output_size exactly.
func (t *Template) SetOutputMap(producer NodeHandle, targets []NodeHandle, slots []int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	if len(targets) != len(slots) {
		return newErr(KindOutputMapSize, "targets and slots must be the same length")
	}
	pNode, err := t.node(producer)
	if err != nil {
		return err
	}
	if len(pNode.outputMap) != 0 {
		return newErr(KindOutputMapFull, "node %d already has an output map", pNode.id)
	}
	if len(targets) != pNode.outputSize {
		return newErr(KindOutputMapSize, "output map length %d does not match output_size %d", len(targets), pNode.outputSize)
	}
	edges := make([]outputEdge, 0, len(targets))
	touched := make(map[[2]int]bool, len(targets))
	for i, tgt := range targets {
		targetNode, err := t.wireEdge(pNode, tgt, slots[i])
		if err != nil {
			return err
		}
		key := [2]int{targetNode.id, slots[i]}
		if touched[key] {
			return newErr(KindSlotAlreadyWired, "output map wires slot %d of node %d twice", slots[i], targetNode.id)
		}
		touched[key] = true
		edges = append(edges, outputEdge{target: targetNode.id, targetSlot: slots[i]})
	}
	for i, tgt := range targets {
		targetNode, _ := t.node(tgt)
		targetNode.dependents.set(slots[i])
		pNode.addSuccessor(targetNode.id)
	}
	pNode.outputMap = edges
	return nil
}

// AddOutput appends a single entry to a node's output map.
func (t *Template) AddOutput(producer NodeHandle, target NodeHandle, targetSlot int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	pNode, err := t.node(producer)
	if err != nil {
		return err
	}
	if len(pNode.outputMap) >= pNode.outputSize {
		return newErr(KindOutputMapFull, "node %d's output map is already full (output_size=%d)", pNode.id, pNode.outputSize)
	}
	targetNode, err := t.wireEdge(pNode, target, targetSlot)
	if err != nil {
		return err
	}
	targetNode.dependents.set(targetSlot)
	pNode.addSuccessor(targetNode.id)
	pNode.outputMap = append(pNode.outputMap, outputEdge{target: targetNode.id, targetSlot: targetSlot})
	return nil
}

// SendTo is the broadcast wiring helper of spec.md §4.3: it assigns
// producer's outputs to consumers' inputs in declaration order, one output
// per consumer, continuing from wherever the previous SendTo/AddOutput
// call on this producer left off.
func (t *Template) SendTo(producer NodeHandle, consumers ...NodeHandle) error {
	t.mu.Lock()
	pNode, err := t.node(producer)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	for _, c := range consumers {
		t.mu.Lock()
		slot := 0
		cNode, cerr := t.node(c)
		if cerr == nil {
			slot = cNode.lastToken
		}
		t.mu.Unlock()
		if cerr != nil {
			return cerr
		}
		if err := t.AddOutput(producer, c, slot); err != nil {
			return err
		}
		t.mu.Lock()
		pNode.lastOutput++
		cNode.lastToken++
		t.mu.Unlock()
	}
	return nil
}

// GatherFrom is the dual of SendTo: it fills consumer's input slots in
// order from successive producers' next available output. Each producer's
// output continues after its existing output-map entries; the consumer's
// slot continues after the last one a previous SendTo/GatherFrom filled
// (slots wired directly with AddOutput or SetOutputMap do not advance it).
func (t *Template) GatherFrom(consumer NodeHandle, producers ...NodeHandle) error {
	t.mu.Lock()
	cNode, err := t.node(consumer)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	for _, p := range producers {
		t.mu.Lock()
		pNode, perr := t.node(p)
		slot := cNode.lastToken
		t.mu.Unlock()
		if perr != nil {
			return perr
		}
		if err := t.AddOutput(p, consumer, slot); err != nil {
			return err
		}
		t.mu.Lock()
		pNode.lastOutput++
		cNode.lastToken++
		t.mu.Unlock()
	}
	return nil
}

// MarkAsInput designates h as the template's input node. It must have an
// empty dependents bitmask (no incoming edges) and a full output map.
func (t *Template) MarkAsInput(h NodeHandle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	n, err := t.node(h)
	if err != nil {
		return err
	}
	if !n.dependents.allZero() {
		return newErr(KindInputHasIncomingEdges, "node %d has incoming edges and cannot be the input node", n.id)
	}
	if len(n.outputMap) != n.outputSize {
		return newErr(KindIncompleteOutputMap, "input node %d must have a full output map before being marked", n.id)
	}
	n.isInput = true
	t.inputNodeID = n.id
	return nil
}

// MarkAsOutput designates h as the template's terminal node. It must have
// every input slot wired and an empty output map.
func (t *Template) MarkAsOutput(h NodeHandle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	n, err := t.node(h)
	if err != nil {
		return err
	}
	if len(n.outputMap) != 0 {
		return newErr(KindOutputHasOutgoingEdges, "node %d has outgoing edges and cannot be the output node", n.id)
	}
	if !n.dependents.allSet() {
		return newErr(KindSlotOutOfRange, "output node %d does not have every input slot wired", n.id)
	}
	n.isOutput = true
	t.outputNodeID = n.id
	return nil
}

// Validate runs the DFS of spec.md §4.4. It is idempotent: once a template
// has validated successfully, later calls are no-ops that return nil.
func (t *Template) Validate() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.validated {
		return nil
	}
	if err := t.validateLocked(); err != nil {
		return err
	}
	t.validated = true
	return nil
}
