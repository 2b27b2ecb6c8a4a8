package diag

import (
	"testing"

	"cgull/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestBagSortsByPosition(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SemaTypeMismatch, span(30, 31), "third"))
	bag.Add(NewError(SemaRedeclaration, span(5, 6), "first"))
	bag.Add(NewError(SemaUnresolvedReference, span(12, 13), "second"))
	bag.Sort()

	want := []string{"first", "second", "third"}
	for i, d := range bag.Items() {
		if d.Message != want[i] {
			t.Fatalf("item %d: got %q, want %q", i, d.Message, want[i])
		}
	}
}

func TestBagRespectsLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(SemaTypeMismatch, span(0, 1), "a")) {
		t.Fatal("first add must succeed")
	}
	bag.Add(NewError(SemaTypeMismatch, span(1, 2), "b"))
	if bag.Add(NewError(SemaTypeMismatch, span(2, 3), "c")) {
		t.Fatal("adds past the cap must be rejected")
	}
	bag.Add(NewError(SemaTypeMismatch, span(3, 4), "d"))
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
	if bag.Dropped() != 2 {
		t.Fatalf("expected 2 dropped records, got %d", bag.Dropped())
	}
}

func TestSortPutsErrorsBeforeWarningsOnSameSpan(t *testing.T) {
	bag := NewBag(4)
	bag.Add(New(SevWarning, SemaDestructNeverRuns, span(7, 8), "warn"))
	bag.Add(NewError(SemaTypeMismatch, span(7, 8), "err"))
	bag.Sort()
	if bag.Items()[0].Severity != SevError {
		t.Fatal("error must sort before the warning sharing its span")
	}
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	bag := NewBag(4)
	bag.Add(New(SevWarning, SemaTypeMismatch, span(0, 1), "warn"))
	if bag.HasErrors() {
		t.Fatal("warnings are not errors")
	}
	bag.Add(NewError(SemaTypeMismatch, span(0, 1), "err"))
	if !bag.HasErrors() {
		t.Fatal("an error-severity diagnostic must flip HasErrors")
	}
}

func TestDedupCollapsesIdenticalRecords(t *testing.T) {
	bag := NewBag(4)
	bag.Add(NewError(SemaTypeMismatch, span(0, 1), "x"))
	bag.Add(NewError(SemaTypeMismatch, span(0, 1), "x"))
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("expected 1 item after dedup, got %d", bag.Len())
	}
}

func TestCodeLabels(t *testing.T) {
	cases := map[Code]string{
		SemaRedefinition:        "Redefinition",
		SemaRedeclaration:       "Duplicate definition",
		SemaUnresolvedReference: "Unresolved reference",
		SemaUseBeforeDefinition: "Usage before definition",
		SemaTypeMismatch:        "Type mismatch",
		SemaAccessViolation:     "Access violation",
		SemaOutOfBounds:         "Out of bounds",
		SemaAssignmentToConst:   "Assignment to const",
		LexUnknownChar:          "Lexical error",
		SynUnexpectedToken:      "Syntax error",
	}
	for code, want := range cases {
		if got := code.Label(); got != want {
			t.Fatalf("Label(%v) = %q, want %q", code, got, want)
		}
	}
}
