package registry

import (
	"fmt"

	"github.com/vk/mdfgo"
)

// RegisterBuiltins wires the small set of arithmetic and utility function
// types the CLI demo and any hcldef-loaded graph can refer to by name
// without writing Go code. Each factory reads its fixed argument set out of
// args and returns an error if a required key is missing or not an int,
// mirroring the teacher's own runner Input structs failing fast on a
// malformed manifest. The built callables panic on a non-int input token.
func RegisterBuiltins(r *Registry) {
	r.Register("add", func(args map[string]any) (*mdf.Function, error) {
		return mdf.NewFunction("add", 2, 1, func(in []mdf.Token) []mdf.Token {
			a, aok := in[0].Value.(int)
			b, bok := in[1].Value.(int)
			if !aok || !bok {
				panic("add: both inputs must be int")
			}
			return []mdf.Token{mdf.NewToken(a + b)}
		}), nil
	})

	r.Register("multiply", func(args map[string]any) (*mdf.Function, error) {
		factor, ok := args["factor"].(int)
		if !ok {
			return nil, fmt.Errorf("multiply: missing or non-int \"factor\" argument")
		}
		return mdf.NewFunction("multiply", 1, 1, func(in []mdf.Token) []mdf.Token {
			v, ok := in[0].Value.(int)
			if !ok {
				panic("multiply: input must be int")
			}
			return []mdf.Token{mdf.NewToken(v * factor)}
		}), nil
	})

	r.Register("identity", func(args map[string]any) (*mdf.Function, error) {
		return mdf.NewFunction("identity", 1, 1, func(in []mdf.Token) []mdf.Token {
			return []mdf.Token{in[0]}
		}), nil
	})
}
