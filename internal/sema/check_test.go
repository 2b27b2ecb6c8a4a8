package sema

import (
	"testing"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/parser"
	"cgull/internal/source"
)

func analyze(t *testing.T, src string) (*Result, *diag.Bag, *ast.Builder) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.cgull", []byte(src))
	bag := diag.NewBag(100)
	builder := ast.NewBuilder(nil)
	file := parser.ParseFile(fs.Get(id), builder, diag.BagReporter{Bag: bag})
	res := Analyze(builder, file, Options{
		Reporter: diag.BagReporter{Bag: bag},
		FileSet:  fs,
	})
	return res, bag, builder
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func expectClean(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", codes(bag))
	}
}

func expectCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected %v among diagnostics, got %v", code, codes(bag))
}

func TestEveryExpressionGetsAType(t *testing.T) {
	res, bag, builder := analyze(t, `
fn main() {
	var x: int = 1 + 2;
	var s: string = "a" + x;
	if (x > 0) { println(s); }
}`)
	expectClean(t, bag)
	for id := ast.ExprID(1); id <= ast.ExprID(builder.Exprs.Len()); id++ {
		if _, ok := res.ExprTypes[id]; !ok {
			t.Fatalf("expression %d has no recorded type", id)
		}
	}
}

func TestRedeclarationReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: int = 1; var x: int = 2; }")
	expectCode(t, bag, diag.SemaRedeclaration)
}

func TestFunctionRedefinitionReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f(a: int) { } fn f(b: int) { }")
	expectCode(t, bag, diag.SemaRedefinition)
}

func TestOverloadsBySignatureAllowed(t *testing.T) {
	_, bag, _ := analyze(t, "fn f(a: int) { } fn f(b: float) { } fn main() { f(1); f(2.5); }")
	expectClean(t, bag)
}

func TestUnresolvedTypeReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: Missing = 0; }")
	expectCode(t, bag, diag.SemaUnresolvedReference)
}

func TestAssignmentToConstReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { const x: int = 1; x = 2; }")
	expectCode(t, bag, diag.SemaAssignmentToConst)
}

func TestInitTypeMismatchReported(t *testing.T) {
	_, bag, _ := analyze(t, `fn f() { var x: int = "nope"; }`)
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestNumericWideningAllowed(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: float = 1; var y: int = 2.5; }")
	expectClean(t, bag)
}

func TestImplicitStringConversionRecorded(t *testing.T) {
	res, bag, builder := analyze(t, "fn main() { var x: int = 42; println(x); }")
	expectClean(t, bag)
	// the argument expression must be flagged as a coercion site
	found := false
	for id := range res.StringConv {
		expr := builder.Expr(id)
		if expr != nil && expr.Kind == ast.ExprIdent && builder.Name(expr.Text) == "x" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected println argument in the string conversion set, got %v", res.StringConv)
	}
}

func TestNullptrAssignableToAnyPointer(t *testing.T) {
	_, bag, _ := analyze(t, `
struct Point { x: int; }
fn f() {
	var p: int* = nullptr;
	var q: Point* = nullptr;
}`)
	expectClean(t, bag)
}

func TestNullptrNotAssignableToNonPointer(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: int = nullptr; }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestPointerMismatchReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var p: int* = new int(1); var q: float* = p; }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestBreakOutsideLoopReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { break; }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestBreakInsideLoopAllowed(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { loop { break; } }")
	expectClean(t, bag)
}

func TestBitwiseRejectsFloats(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: float = 1.0 << 2.0; }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestBitwiseNotRejectsBool(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: int = ~true; }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestStringOrderingRejected(t *testing.T) {
	_, bag, _ := analyze(t, `fn f() { var b: bool = "a" < "b"; }`)
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestStringEqualityAllowed(t *testing.T) {
	_, bag, _ := analyze(t, `fn f() { var b: bool = "a" == "b"; }`)
	expectClean(t, bag)
}

func TestReturnTypeMismatchReported(t *testing.T) {
	_, bag, _ := analyze(t, `fn f() -> int { return "no"; }`)
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestMissingReturnValueReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() -> int { return; }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestUseBeforeDefinitionReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: int; var y: int = x; }")
	expectCode(t, bag, diag.SemaUseBeforeDefinition)
}

func TestAssignmentDefinesVariable(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var x: int; x = 1; var y: int = x; }")
	expectClean(t, bag)
}

func TestRecursionAllowed(t *testing.T) {
	_, bag, _ := analyze(t, "fn f(n: int) -> int { return f(n - 1); }")
	expectClean(t, bag)
}

func TestUnknownCallReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { missing(); }")
	expectCode(t, bag, diag.SemaUnresolvedReference)
}

func TestTupleIndexOutOfBoundsReported(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var t: (int, string) = (1, \"a\"); var x: int = t[2]; }")
	expectCode(t, bag, diag.SemaOutOfBounds)
}

func TestTupleIndexInBounds(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var t: (int, string) = (1, \"a\"); var x: int = t[0]; }")
	expectClean(t, bag)
}

func TestDestructuringArityMismatch(t *testing.T) {
	_, bag, _ := analyze(t, "fn f() { var (a: int, b: int, c: int) = (1, 2); }")
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestPrivateFieldAccessViolation(t *testing.T) {
	_, bag, _ := analyze(t, `
struct Point {
	x: int;
	private { secret: int; }
}
fn f(p: Point*) {
	var s: int = p->secret;
}`)
	expectCode(t, bag, diag.SemaAccessViolation)
}

func TestMemberAccessInsideStructAllowed(t *testing.T) {
	_, bag, _ := analyze(t, `
struct Point {
	x: int;
	private { secret: int; }
	fn sum() -> int { return x + secret; }
}`)
	expectClean(t, bag)
}
