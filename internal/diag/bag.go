package diag

import (
	"cmp"
	"slices"

	"cgull/internal/source"
)

// Bag accumulates the diagnostics of one compilation. It is bounded by the
// driver's --max-diagnostics setting; adds past the cap are counted instead
// of stored so the renderer can say how much was suppressed.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   max,
	}
}

// Add stores a diagnostic. Returns false once the cap is reached; the
// rejected record is counted in Dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped reports how many diagnostics the cap rejected.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors gates the downstream stages: codegen runs only on a bag free of
// error-severity records. Warnings alone never stop the pipeline.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items exposes the accumulated diagnostics; callers must not modify them.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders diagnostics the way they are displayed: by source position,
// errors before warnings on the same span, code as the final tiebreak.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		if c := cmp.Compare(x.Primary.File, y.Primary.File); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Primary.Start, y.Primary.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Primary.End, y.Primary.End); c != 0 {
			return c
		}
		if x.Severity != y.Severity {
			// больший severity раньше
			return cmp.Compare(y.Severity, x.Severity)
		}
		return cmp.Compare(x.Code, y.Code)
	})
}

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// Dedup drops records repeating an earlier code+span+message triple. The
// checker legitimately revisits nodes (field-access hops re-resolve their
// base), and one report per site is enough.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]bool, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := dedupKey{code: d.Code, span: d.Primary, msg: d.Message}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
