package driver

import (
	"testing"

	"cgull/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key source.Digest
	key[0] = 0xAB

	payload := &DiskPayload{
		Path:      "x.cgull",
		HasErrors: false,
		Diagnostics: []CachedDiagnostic{
			{Code: 3007, Severity: 1, Start: 4, End: 9, Message: "Type mismatch"},
		},
		Classes: []CachedClass{
			{Name: "Main", Text: "public class Main {\n}\n"},
		},
	}
	if err := cache.Put(key, payload); err != nil {
		t.Fatal(err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Path != payload.Path || len(got.Diagnostics) != 1 || len(got.Classes) != 1 {
		t.Fatalf("payload mismatch: %+v", got)
	}
	if got.Classes[0].Text != payload.Classes[0].Text {
		t.Fatal("class text must round-trip unchanged")
	}
}

func TestDiskCacheMissOnUnknownKey(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key source.Digest
	if _, ok := cache.Get(key); ok {
		t.Fatal("expected a miss for an unknown key")
	}
}

func TestDiskCachePayloadFromUnit(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "p.cgull", `fn main() { println("hi"); }`)
	unit, err := Compile(source.NewFileSet(), path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	payload := PayloadFor(unit)
	if payload.HasErrors {
		t.Fatal("clean unit must not flag errors")
	}
	found := false
	for _, class := range payload.Classes {
		if class.Name == "Main" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Main class in the payload, got %+v", payload.Classes)
	}
}

func TestDiskCacheReplayDiagnostics(t *testing.T) {
	payload := &DiskPayload{
		HasErrors: true,
		Diagnostics: []CachedDiagnostic{
			{Code: 3007, Severity: 1, Start: 1, End: 2, Message: "boom"},
		},
	}
	bag := payload.ReplayDiagnostics(0, 10)
	if !bag.HasErrors() || bag.Len() != 1 {
		t.Fatalf("replayed bag wrong: len=%d", bag.Len())
	}
}
