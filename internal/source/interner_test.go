package source

import "testing"

func TestInternReturnsStableIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern("hello")
	b := in.Intern("hello")
	if a != b {
		t.Fatalf("same string interned twice: %d vs %d", a, b)
	}
	c := in.Intern("world")
	if a == c {
		t.Fatal("distinct strings must get distinct IDs")
	}
	if s := in.MustLookup(a); s != "hello" {
		t.Fatalf("lookup returned %q", s)
	}
}

func TestInternEmptyStringIsSentinel(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string must map to the sentinel, got %d", id)
	}
}
