package parser

import (
	"testing"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/source"
)

func parse(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.cgull", []byte(src))
	bag := diag.NewBag(32)
	builder := ast.NewBuilder(nil)
	file := ParseFile(fs.Get(id), builder, diag.BagReporter{Bag: bag})
	return builder, file, bag
}

func TestParseHelloWorld(t *testing.T) {
	builder, fileID, bag := parse(t, `fn main() { println("Hello"); }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	file := builder.File(fileID)
	if len(file.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(file.Items))
	}
	item := builder.Item(file.Items[0])
	if item.Kind != ast.ItemFn || builder.Name(item.Name) != "main" {
		t.Fatalf("expected fn main, got kind=%d name=%q", item.Kind, builder.Name(item.Name))
	}
	if len(item.Returns) != 0 {
		t.Fatalf("main should have no declared return types")
	}
	block := builder.Block(item.Body)
	if len(block.Stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(block.Stmts))
	}
	stmt := builder.Stmt(block.Stmts[0])
	if stmt.Kind != ast.StmtExpr {
		t.Fatalf("expected an expression statement, got %d", stmt.Kind)
	}
	call := builder.Expr(stmt.Value)
	if call.Kind != ast.ExprCall || builder.Name(call.Text) != "println" {
		t.Fatalf("expected a println call")
	}
}

func TestParsePrecedence(t *testing.T) {
	builder, fileID, bag := parse(t, "fn f() { var x: int = 1 + 2 * 3; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	stmt := builder.Stmt(builder.Block(item.Body).Stmts[0])
	root := builder.Expr(stmt.Value)
	if root.Kind != ast.ExprBinary || root.Bin != ast.BinAdd {
		t.Fatalf("expected + at the root, got %v", root.Bin)
	}
	right := builder.Expr(root.Y)
	if right.Kind != ast.ExprBinary || right.Bin != ast.BinMul {
		t.Fatalf("expected * on the right, got %v", right.Bin)
	}
}

func TestParseStructMembers(t *testing.T) {
	src := `
struct Point {
	x: int;
	y: int;
	private {
		secret: string;
	}
	fn norm() -> float { return 0.0; }
}`
	builder, fileID, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	if item.Kind != ast.ItemStruct {
		t.Fatal("expected a struct item")
	}
	if len(item.Members) != 4 {
		t.Fatalf("expected 4 members, got %d", len(item.Members))
	}
	if !item.Members[2].Private {
		t.Fatal("access block member must be private")
	}
	if !item.Members[3].IsFn {
		t.Fatal("expected a method member")
	}
}

func TestParsePointerAndArrayTypes(t *testing.T) {
	builder, fileID, bag := parse(t, "fn f(p: int*, m: float[][]) { }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	ptr := builder.Type(item.Params[0].Type)
	if ptr.Stars != 1 || ptr.ArraySuffixes != 0 {
		t.Fatalf("expected one pointer star, got %+v", ptr)
	}
	arr := builder.Type(item.Params[1].Type)
	if arr.ArraySuffixes != 2 {
		t.Fatalf("expected two array suffixes, got %+v", arr)
	}
}

func TestParseControlFlow(t *testing.T) {
	src := `
fn main() {
	while (a) { b(); }
	until (c) { d(); }
	for (var i: int = 0; i < 10; i++) { }
	loop { break; }
	if (x) { } else if (y) { } else { }
}`
	builder, fileID, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	block := builder.Block(item.Body)
	want := []ast.StmtKind{ast.StmtWhile, ast.StmtUntil, ast.StmtFor, ast.StmtLoop, ast.StmtIf}
	if len(block.Stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(block.Stmts))
	}
	for i, kind := range want {
		if builder.Stmt(block.Stmts[i]).Kind != kind {
			t.Fatalf("statement %d: expected kind %d, got %d", i, kind, builder.Stmt(block.Stmts[i]).Kind)
		}
	}
	ifStmt := builder.Stmt(block.Stmts[4])
	if len(ifStmt.Conds) != 2 || !ifStmt.Else.IsValid() {
		t.Fatalf("expected two conditions and an else block, got %d/%v", len(ifStmt.Conds), ifStmt.Else)
	}
}

func TestParseFieldAccessChain(t *testing.T) {
	builder, fileID, bag := parse(t, "fn f() { var v: int = a.b->c.0; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	stmt := builder.Stmt(builder.Block(item.Body).Stmts[0])
	access := builder.Expr(stmt.Value)
	if access.Kind != ast.ExprFieldAccess || len(access.Hops) != 3 {
		t.Fatalf("expected a 3-hop field access, got %+v", access)
	}
	if !access.Hops[1].Arrow {
		t.Fatal("second hop must use ->")
	}
	if builder.Name(access.Hops[2].Name) != "0" {
		t.Fatalf("tuple index hop text = %q", builder.Name(access.Hops[2].Name))
	}
}

func TestParseDestructuring(t *testing.T) {
	builder, fileID, bag := parse(t, "fn f() { var (a: int, b: string) = pair(); }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	stmt := builder.Stmt(builder.Block(item.Body).Stmts[0])
	if stmt.Kind != ast.StmtDestructure || len(stmt.Items) != 2 {
		t.Fatalf("expected a 2-item destructuring, got %+v", stmt)
	}
}

func TestParseAllocations(t *testing.T) {
	src := `
fn f() {
	var p: int* = new int(7);
	var q: Point* = new Point(1, 2);
	var m: int[][] = new int[3, 4];
	var a: int[] = {1, 2, 3};
}`
	builder, fileID, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	block := builder.Block(item.Body)
	kinds := []ast.ExprKind{ast.ExprNewPrim, ast.ExprNewStruct, ast.ExprNewArray, ast.ExprArrayLit}
	for i, kind := range kinds {
		value := builder.Expr(builder.Stmt(block.Stmts[i]).Value)
		if value.Kind != kind {
			t.Fatalf("allocation %d: expected kind %d, got %d", i, kind, value.Kind)
		}
	}
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	_, _, bag := parse(t, "fn main() { var := ; } fn other() { }")
	if !bag.HasErrors() {
		t.Fatal("expected syntax diagnostics")
	}
}

func TestParseCastForms(t *testing.T) {
	builder, fileID, bag := parse(t, "fn f() { var x: int = y as int; var z: float = w bits_as float; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	item := builder.Item(builder.File(fileID).Items[0])
	block := builder.Block(item.Body)
	first := builder.Expr(builder.Stmt(block.Stmts[0]).Value)
	if first.Kind != ast.ExprCast || first.Bits {
		t.Fatalf("expected a plain cast, got %+v", first)
	}
	second := builder.Expr(builder.Stmt(block.Stmts[1]).Value)
	if second.Kind != ast.ExprCast || !second.Bits {
		t.Fatalf("expected a bits_as cast, got %+v", second)
	}
}
