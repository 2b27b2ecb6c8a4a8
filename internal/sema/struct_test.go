package sema

import (
	"testing"

	"cgull/internal/diag"
	"cgull/internal/symbols"
)

func TestConstructorMirrorsPublicFields(t *testing.T) {
	res, bag, builder := analyze(t, `
struct Point {
	x: int;
	y: float;
	private { secret: int; }
}`)
	expectClean(t, bag)

	ctorID, ok := res.Constructors[builder.Strings.Intern("Point")]
	if !ok {
		t.Fatal("constructor map has no entry for Point")
	}
	ctor := res.Table.Sym(ctorID)
	if !ctor.StructMethod || !ctor.Defined {
		t.Fatal("constructor must be a defined struct method")
	}
	if len(ctor.Params) != 2 {
		t.Fatalf("expected 2 parameters (public fields only), got %d", len(ctor.Params))
	}
	wantNames := []string{"x", "y"}
	b := res.Types.Builtins()
	wantTypes := []string{res.Types.String(b.Int), res.Types.String(b.Float)}
	for i, paramID := range ctor.Params {
		param := res.Table.Sym(paramID)
		if got := res.Table.Name(param.Name); got != wantNames[i] {
			t.Fatalf("parameter %d name = %q, want %q", i, got, wantNames[i])
		}
		if got := res.Types.String(param.DataType); got != wantTypes[i] {
			t.Fatalf("parameter %d type = %q, want %q", i, got, wantTypes[i])
		}
	}
	if len(ctor.Returns) != 1 || res.Types.String(ctor.Returns[0]) != "Point" {
		t.Fatal("constructor must return the struct type")
	}
}

func TestConstructorDefaultValueInherited(t *testing.T) {
	res, bag, builder := analyze(t, "struct S { x: int = 5; y: int; }")
	expectClean(t, bag)
	ctor := res.Table.Sym(res.Constructors[builder.Strings.Intern("S")])
	first := res.Table.Sym(ctor.Params[0])
	second := res.Table.Sym(ctor.Params[1])
	if !first.HasDefault || second.HasDefault {
		t.Fatalf("expected only the defaulted field to carry HasDefault, got %v/%v",
			first.HasDefault, second.HasDefault)
	}
}

func TestConstructorCollidesWithTopLevelFunction(t *testing.T) {
	_, bag, _ := analyze(t, `
fn Point(x: int, y: int) { }
struct Point { x: int; y: int; }`)
	expectCode(t, bag, diag.SemaRedefinition)
}

func TestStructRedefinitionReported(t *testing.T) {
	_, bag, _ := analyze(t, "struct S { x: int; } struct S { y: int; }")
	expectCode(t, bag, diag.SemaRedefinition)
}

func TestDefaultToStringInjected(t *testing.T) {
	res, bag, builder := analyze(t, "struct S { x: int; }")
	expectClean(t, bag)
	structSym := res.Table.Sym(res.Table.Resolve(res.ProgramScope, builder.Strings.Intern("S")))
	stub := res.Table.Sym(res.Table.Resolve(structSym.MemberScope, builder.Strings.Intern("$toString")))
	if stub == nil || stub.Kind != symbols.SymbolFunction {
		t.Fatal("expected an injected $toString stub")
	}
	if !stub.Builtin || !stub.Defined {
		t.Fatal("the stub must be marked builtin and defined")
	}
	if len(stub.Returns) != 1 || !res.Types.IsString(stub.Returns[0]) {
		t.Fatal("the stub must return string")
	}
}

func TestUserToStringKept(t *testing.T) {
	res, bag, builder := analyze(t, `
struct S {
	x: int;
	fn $toString() -> string { return "S"; }
}`)
	expectClean(t, bag)
	structSym := res.Table.Sym(res.Table.Resolve(res.ProgramScope, builder.Strings.Intern("S")))
	fn := res.Table.Sym(res.Table.Resolve(structSym.MemberScope, builder.Strings.Intern("$toString")))
	if fn == nil || fn.Builtin {
		t.Fatal("user-defined $toString must not be replaced by the stub")
	}
}

func TestBadToStringSignatureReported(t *testing.T) {
	_, bag, _ := analyze(t, `
struct S {
	fn $toString() -> int { return 1; }
}`)
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestDestructDeclarationWarns(t *testing.T) {
	_, bag, _ := analyze(t, `
struct S {
	fn $destruct() { }
}`)
	if bag.HasErrors() {
		t.Fatalf("a valid $destruct must not error: %v", codes(bag))
	}
	expectCode(t, bag, diag.SemaDestructNeverRuns)
	for _, d := range bag.Items() {
		if d.Code == diag.SemaDestructNeverRuns && d.Severity != diag.SevWarning {
			t.Fatalf("expected warning severity, got %v", d.Severity)
		}
	}
}

func TestBadDestructSignatureReported(t *testing.T) {
	_, bag, _ := analyze(t, `
struct S {
	fn $destruct(x: int) { }
}`)
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestUnsupportedSpecialMethodReported(t *testing.T) {
	_, bag, _ := analyze(t, `
struct S {
	fn $shiny() { }
}`)
	expectCode(t, bag, diag.SemaUnresolvedReference)
}
