package pcode

import (
	"bytes"
	"strings"
	"testing"
)

func TestEmitReturnsConsecutiveAddresses(t *testing.T) {
	l := NewList()

	if addr := l.Emit(Jmp, 0, 0); addr != 0 {
		t.Errorf("first Emit returned %d, want 0", addr)
	}

	if addr := l.Emit(Int, 0, 5); addr != 1 {
		t.Errorf("second Emit returned %d, want 1", addr)
	}

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestBackpatch(t *testing.T) {
	l := NewList()
	jump := l.Emit(Jpc, 0, 0)
	l.Emit(Lit, 0, 1)
	l.Emit(Opr, 0, OprRet)

	l.Backpatch(jump, 2)

	if got := l.At(jump).A; got != 2 {
		t.Errorf("backpatched a = %d, want 2", got)
	}

	// out-of-range and sentinel addresses are ignored
	l.Backpatch(-1, 99)
	l.Backpatch(100, 99)

	for i := 0; i < l.Len(); i++ {
		if l.At(i).A == 99 {
			t.Errorf("sentinel backpatch modified instruction %d", i)
		}
	}
}

func TestListingFormat(t *testing.T) {
	l := NewList()
	l.Emit(Jmp, 0, 2)
	l.Emit(Lit, 0, -7)
	l.Emit(Sto, -1, 6)

	var buff bytes.Buffer
	if err := l.WriteListing(&buff); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}

	want := "   0 JMP 0 2\n   1 LIT 0 -7\n   2 STO -1 6\n"
	if buff.String() != want {
		t.Errorf("listing = %q, want %q", buff.String(), want)
	}
}

// Pretty-printing a buffer and parsing the listing back must reproduce the
// same instruction triples.
func TestListingRoundTrip(t *testing.T) {
	l := NewList()
	l.Emit(Jmp, 0, 8)
	l.Emit(Jmp, 0, 2)
	l.Emit(Int, 0, 6)
	l.Emit(Lod, 1, 5)
	l.Emit(Lod, 1, 5)
	l.Emit(Opr, 0, OprMul)
	l.Emit(Sto, 0, 4)
	l.Emit(Opr, 0, OprRet)
	l.Emit(Int, 0, 5)
	l.Emit(Lit, 0, 6)
	l.Emit(Sto, -1, 5)
	l.Emit(Cal, 0, 2)
	l.Emit(Opr, 0, OprRet)

	var buff bytes.Buffer
	if err := l.WriteListing(&buff); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}

	back, err := ParseListing(&buff)
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}

	if back.Len() != l.Len() {
		t.Fatalf("round trip length = %d, want %d", back.Len(), l.Len())
	}

	for i := 0; i < l.Len(); i++ {
		if back.At(i) != l.At(i) {
			t.Errorf("instruction %d = %+v, want %+v", i, back.At(i), l.At(i))
		}
	}
}

func TestParseListingRejectsGarbage(t *testing.T) {
	for _, bad := range []string{
		"0 NOP 0 0",
		"1 LIT 0 0",
		"0 LIT x 0",
		"0 LIT 0",
	} {
		if _, err := ParseListing(strings.NewReader(bad)); err == nil {
			t.Errorf("ParseListing(%q) succeeded, want error", bad)
		}
	}
}
