package mdf

import "testing"

func TestFunction_ExecuteWrongOutputCountPanics(t *testing.T) {
	fn := NewFunction("bad", 1, 2, func(args []Token) []Token {
		return []Token{args[0]} // declared 2 outputs, returns 1
	})
	defer func() {
		if recover() == nil {
			t.Fatal("expected execute to panic on output-arity mismatch")
		}
	}()
	fn.execute(tokenVector{NewToken(1)})
}

func TestFunction_NilCallablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected NewFunction to panic on a nil callable")
		}
	}()
	NewFunction("bad", 1, 1, nil)
}

func TestFunction_ExecuteCopiesArgs(t *testing.T) {
	fn := NewFunction("identity", 1, 1, func(args []Token) []Token {
		out := []Token{args[0]}
		args[0] = NewToken(0) // must not reach the caller's vector
		return out
	})
	in := tokenVector{NewToken(9)}
	out := fn.execute(in)
	if out[0].Value != 9 {
		t.Fatalf("got %v, want 9", out[0].Value)
	}
	if in[0].Value != 9 {
		t.Fatalf("caller's argument vector was modified: got %v, want 9", in[0].Value)
	}
}
