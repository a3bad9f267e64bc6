package mdf

import "fmt"

// Callable is the shape every user-authored leaf function must have: it
// receives the node's input tokens in declared order and returns the
// node's output tokens in declared order. Arity and output arity are fixed
// at construction and never change (spec.md §3).
//
// The core does not diagnose a callable that panics beyond recovering it:
// the firing worker recovers the panic and fails the owning instance's
// Future rather than letting the panic escape the worker pool, and the
// worker goes on to its next job.
type Callable func(args []Token) []Token

// Function is the typed wrapper spec.md §4.1 describes around a user
// callable: it knows its own arity and output arity and knows how to
// invoke the callable to produce a freshly allocated output vector.
type Function struct {
	callable   Callable
	arity      int
	outputSize int
	name       string
}

// NewFunction wraps callable as a Function with the given fixed input and
// output arity. name is used only for diagnostics (error messages, the
// Dump output); it has no effect on execution.
func NewFunction(name string, arity, outputSize int, callable Callable) *Function {
	if callable == nil {
		panic("mdf: NewFunction: callable must not be nil")
	}
	return &Function{callable: callable, arity: arity, outputSize: outputSize, name: name}
}

// Arity returns the function's declared input cardinality.
func (f *Function) Arity() int { return f.arity }

// OutputArity returns the function's declared output cardinality.
func (f *Function) OutputArity() int { return f.outputSize }

// Name returns the function's diagnostic name.
func (f *Function) Name() string { return f.name }

// execute invokes the callable and validates the shape of its result
// against the declared output arity. A user callable that returns the
// wrong number of outputs is a programmer error in the callable itself,
// so this panics rather than trying to guess a recovery — the same
// treatment spec.md §7 gives a callable that panics outright.
func (f *Function) execute(args tokenVector) tokenVector {
	in := make([]Token, len(args))
	copy(in, args)
	out := f.callable(in)
	if len(out) != f.outputSize {
		panic(fmt.Sprintf("mdf: function %q returned %d outputs, want %d", f.name, len(out), f.outputSize))
	}
	return tokenVector(out)
}
