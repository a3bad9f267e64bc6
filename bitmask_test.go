package mdf

import "testing"

func TestBitmask_AllZeroAndAllSet(t *testing.T) {
	b := newBitmask(5)
	if !b.allZero() {
		t.Fatal("fresh bitmask should be all-zero")
	}
	if b.allSet() {
		t.Fatal("fresh bitmask should not be all-set")
	}
	for i := 0; i < 5; i++ {
		b.set(i)
	}
	if !b.allSet() {
		t.Fatal("bitmask with every bit set should report allSet")
	}
	if b.allZero() {
		t.Fatal("fully set bitmask should not report allZero")
	}
}

// TestBitmask_PartialFinalWord exercises exactly the case a naive
// full-word-only allSet check gets wrong: a size that spans more than one
// 64-bit word and ends mid-word.
func TestBitmask_PartialFinalWord(t *testing.T) {
	size := 70 // two words: one full 64-bit word, one 6-bit remainder
	b := newBitmask(size)
	for i := 0; i < size; i++ {
		b.set(i)
	}
	if !b.allSet() {
		t.Fatal("every live bit is set, allSet should be true")
	}
}

func TestBitmask_PartialFinalWordNotFullyMasked(t *testing.T) {
	size := 70
	b := newBitmask(size)
	for i := 0; i < 64; i++ {
		b.set(i)
	}
	// leave bits 64..69 unset
	if b.allSet() {
		t.Fatal("allSet should be false while the final word's live bits are incomplete")
	}
}

func TestBitmask_ExactWordBoundary(t *testing.T) {
	size := 64
	b := newBitmask(size)
	for i := 0; i < size; i++ {
		b.set(i)
	}
	if !b.allSet() {
		t.Fatal("a bitmask exactly one word wide with every bit set should report allSet")
	}
}

func TestBitmask_ZeroSize(t *testing.T) {
	b := newBitmask(0)
	if !b.allZero() {
		t.Fatal("zero-size bitmask is vacuously all-zero")
	}
	if !b.allSet() {
		t.Fatal("zero-size bitmask is vacuously all-set")
	}
}
