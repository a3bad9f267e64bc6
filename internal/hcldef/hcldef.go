// Package hcldef loads a Template from a declarative HCL document instead
// of requiring the caller to write Go builder calls directly. It exists
// alongside the programmatic Template API, not instead of it: the wire
// format below is a thin, optional convenience layer over the same
// AddFunctionNode/AddSplitNode/AddMergeNode/AddOutput/MarkAsInput/
// MarkAsOutput calls a caller could make by hand.
package hcldef

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/mdfgo"
	"github.com/vk/mdfgo/internal/registry"
)

// fileRoot mirrors the top-level blocks a graph description file may
// contain: any number of function/split/merge node declarations plus wire
// declarations connecting them.
type fileRoot struct {
	Functions []functionBlock `hcl:"function,block"`
	Splits    []splitBlock    `hcl:"split,block"`
	Merges    []mergeBlock    `hcl:"merge,block"`
	Wires     []wireBlock     `hcl:"wire,block"`
	Input     string          `hcl:"input"`
	Output    string          `hcl:"output"`
	Remain    hcl.Body        `hcl:",remain"`
}

type functionBlock struct {
	Name   string   `hcl:"name,label"`
	Type   string   `hcl:"type"`
	Args   hcl.Body `hcl:",remain"`
}

type splitBlock struct {
	Name  string `hcl:"name,label"`
	Count int    `hcl:"count"`
}

type mergeBlock struct {
	Name  string `hcl:"name,label"`
	Count int    `hcl:"count"`
}

// wireBlock connects one producer node's next output-map entry to a
// consumer's specific input slot. Order among multiple wire blocks sharing
// the same `from` determines which of the producer's outputs each one
// consumes, mirroring Template.AddOutput's append-in-call-order semantics.
type wireBlock struct {
	From   string `hcl:"from"`
	To     string `hcl:"to"`
	ToSlot int    `hcl:"to_slot"`
}

// Load parses the HCL document at path, resolves every `function` block's
// type against reg, wires the graph per the file's `wire` blocks, marks the
// declared input/output nodes, and returns a validated Template.
func Load(path string, reg *registry.Registry) (*mdf.Template, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hcldef: parse %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("hcldef: decode %s: %w", path, diags)
	}

	tmpl := mdf.NewTemplate()
	handles := make(map[string]mdf.NodeHandle)

	for _, fb := range root.Functions {
		args, err := decodeArgs(fb.Args)
		if err != nil {
			return nil, fmt.Errorf("hcldef: function %q: %w", fb.Name, err)
		}
		fn, err := reg.Build(fb.Type, args)
		if err != nil {
			return nil, fmt.Errorf("hcldef: function %q: %w", fb.Name, err)
		}
		h, err := tmpl.AddFunctionNode(fn)
		if err != nil {
			return nil, fmt.Errorf("hcldef: function %q: %w", fb.Name, err)
		}
		handles[fb.Name] = h
	}
	for _, sb := range root.Splits {
		h, err := tmpl.AddSplitNode(sb.Count)
		if err != nil {
			return nil, fmt.Errorf("hcldef: split %q: %w", sb.Name, err)
		}
		handles[sb.Name] = h
	}
	for _, mb := range root.Merges {
		h, err := tmpl.AddMergeNode(mb.Count)
		if err != nil {
			return nil, fmt.Errorf("hcldef: merge %q: %w", mb.Name, err)
		}
		handles[mb.Name] = h
	}

	for _, w := range root.Wires {
		from, ok := handles[w.From]
		if !ok {
			return nil, fmt.Errorf("hcldef: wire references unknown node %q", w.From)
		}
		to, ok := handles[w.To]
		if !ok {
			return nil, fmt.Errorf("hcldef: wire references unknown node %q", w.To)
		}
		if err := tmpl.AddOutput(from, to, w.ToSlot); err != nil {
			return nil, fmt.Errorf("hcldef: wire %s -> %s: %w", w.From, w.To, err)
		}
	}

	inH, ok := handles[root.Input]
	if !ok {
		return nil, fmt.Errorf("hcldef: input node %q not declared", root.Input)
	}
	outH, ok := handles[root.Output]
	if !ok {
		return nil, fmt.Errorf("hcldef: output node %q not declared", root.Output)
	}
	if err := tmpl.MarkAsInput(inH); err != nil {
		return nil, fmt.Errorf("hcldef: mark input: %w", err)
	}
	if err := tmpl.MarkAsOutput(outH); err != nil {
		return nil, fmt.Errorf("hcldef: mark output: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("hcldef: %w", err)
	}
	return tmpl, nil
}

// decodeArgs turns a function block's remaining HCL attributes into the
// map[string]any a registry.Factory expects, converting each cty.Value with
// gocty into the closest matching Go primitive.
func decodeArgs(body hcl.Body) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		out[name] = ctyToGo(val)
	}
	return out, nil
}

func ctyToGo(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case cty.String:
		var s string
		if err := gocty.FromCtyValue(v, &s); err == nil {
			return s
		}
	case cty.Number:
		var n int
		if err := gocty.FromCtyValue(v, &n); err == nil {
			return n
		}
	case cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err == nil {
			return b
		}
	}
	return v.GoString()
}
