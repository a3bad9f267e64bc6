// Package mdf implements a macro data flow execution engine: a graph of
// coarse-grained nodes connected by typed tokens, where each node fires
// exactly once as soon as every one of its inputs has arrived.
//
// A Template is built once with AddFunctionNode/AddSplitNode/AddMergeNode
// and the wiring helpers (AddOutput, SetOutputMap, SendTo, GatherFrom),
// marked with MarkAsInput/MarkAsOutput, and validated with Validate. A
// validated Template is immutable and may be run any number of times,
// concurrently, on an Executor:
//
//	tmpl := mdf.NewTemplate()
//	in, _ := tmpl.AddFunctionNode(identity)
//	out, _ := tmpl.AddFunctionNode(double)
//	tmpl.AddOutput(in, out, 0)
//	tmpl.MarkAsInput(in)
//	tmpl.MarkAsOutput(out)
//	if err := tmpl.Validate(); err != nil {
//		// handle
//	}
//
//	exec := mdf.NewExecutor(4)
//	defer exec.Shutdown()
//	future, _ := exec.Run(ctx, tmpl, mdf.NewToken(21))
//	tokens, err := future.Get()
package mdf
