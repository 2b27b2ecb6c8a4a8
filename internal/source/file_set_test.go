package source

import "testing"

func TestPositionResolution(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.cgull", []byte("first\nsecond\nthird\n"))
	file := fs.Get(id)

	cases := []struct {
		offset uint32
		line   uint32
		column uint32
	}{
		{0, 1, 0},
		{3, 1, 3},
		{6, 2, 0},
		{13, 3, 0},
		{15, 3, 2},
	}
	for _, tc := range cases {
		pos := file.PositionFor(tc.offset)
		if pos.Line != tc.line || pos.Column != tc.column {
			t.Fatalf("offset %d: got %d:%d, want %d:%d",
				tc.offset, pos.Line, pos.Column, tc.line, tc.column)
		}
	}
}

func TestLineText(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.cgull", []byte("first\nsecond\n"))
	file := fs.Get(id)
	if got := file.LineText(2); got != "second" {
		t.Fatalf("LineText(2) = %q", got)
	}
	if got := file.LineText(9); got != "" {
		t.Fatalf("out-of-range line must be empty, got %q", got)
	}
}

func TestAddComputesHash(t *testing.T) {
	fs := NewFileSet()
	a := fs.Add("a.cgull", []byte("same"))
	b := fs.Add("b.cgull", []byte("same"))
	if fs.Get(a).Hash != fs.Get(b).Hash {
		t.Fatal("identical content must hash identically")
	}
}
