package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cgull/internal/source"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileWritesClassFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "hello.cgull", `fn main() { println("Hello"); }`)
	outDir := filepath.Join(dir, "out")

	unit, err := Compile(source.NewFileSet(), path, Options{OutputDir: outDir})
	if err != nil {
		t.Fatal(err)
	}
	if unit.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", unit.Bag.Items())
	}

	data, err := os.ReadFile(filepath.Join(outDir, "Main.jasm"))
	if err != nil {
		t.Fatalf("Main.jasm not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "public class Main {") {
		t.Fatalf("unexpected class header:\n%s", data)
	}
}

func TestCompileRecreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "p.cgull", "fn main() { }")
	outDir := filepath.Join(dir, "out")
	stale := filepath.Join(outDir, "Stale.jasm")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Compile(source.NewFileSet(), path, Options{OutputDir: outDir}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale output must be removed before writing")
	}
}

func TestCompileSkipsEmissionOnErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "bad.cgull", `fn main() { var x: int = "no"; }`)
	outDir := filepath.Join(dir, "out")

	unit, err := Compile(source.NewFileSet(), path, Options{OutputDir: outDir})
	if err != nil {
		t.Fatal(err)
	}
	if !unit.Bag.HasErrors() {
		t.Fatal("expected diagnostics")
	}
	if len(unit.Classes) != 0 {
		t.Fatal("codegen must be gated on error-free analysis")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatal("no output directory should be created on errors")
	}
}

func TestCompileDirOrdersUnits(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.cgull", "fn main() { }")
	writeSource(t, dir, "a.cgull", "fn main() { }")

	units, err := CompileDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if filepath.Base(units[0].Path) != "a.cgull" || filepath.Base(units[1].Path) != "b.cgull" {
		t.Fatalf("units out of order: %s, %s", units[0].Path, units[1].Path)
	}
}

func TestCompileDirEmitsPerFileSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "one.cgull", "fn main() { }")
	writeSource(t, dir, "two.cgull", "fn main() { }")
	outDir := filepath.Join(dir, "out")

	if _, err := CompileDir(context.Background(), dir, Options{OutputDir: outDir}); err != nil {
		t.Fatal(err)
	}
	for _, stem := range []string{"one", "two"} {
		if _, err := os.Stat(filepath.Join(outDir, stem, "Main.jasm")); err != nil {
			t.Fatalf("missing output for %s: %v", stem, err)
		}
	}
}
