package codegen

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/parser"
	"cgull/internal/sema"
	"cgull/internal/source"
	"cgull/internal/symbols"
)

// compileClasses runs the full pipeline over a source snippet and renders
// every generated class to text.
func compileClasses(t *testing.T, src string) (map[string]string, *sema.Result) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.cgull", []byte(src))
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(nil)
	file := parser.ParseFile(fs.Get(id), builder, reporter)
	res := sema.Analyze(builder, file, sema.Options{Reporter: reporter, FileSet: fs})
	if bag.HasErrors() {
		t.Fatalf("analysis diagnostics: %+v", bag.Items())
	}
	classes := Generate(builder, file, res, reporter)
	if bag.HasErrors() {
		t.Fatalf("codegen diagnostics: %+v", bag.Items())
	}
	writer := NewWriter(res.Table, res.Types)
	out := make(map[string]string, len(classes))
	for _, class := range classes {
		var buf bytes.Buffer
		if err := writer.WriteClass(&buf, class); err != nil {
			t.Fatalf("WriteClass(%s): %v", class.Name, err)
		}
		out[class.Name] = buf.String()
	}
	return out, res
}

// methodBody extracts the instruction lines between a method header and its
// closing brace.
func methodBody(t *testing.T, classText, header string) []string {
	t.Helper()
	lines := strings.Split(classText, "\n")
	start := -1
	for i, line := range lines {
		if line == header {
			start = i + 1
			break
		}
	}
	if start < 0 {
		t.Fatalf("method header %q not found in:\n%s", header, classText)
	}
	var body []string
	for _, line := range lines[start:] {
		if line == "}" {
			return body
		}
		body = append(body, line)
	}
	t.Fatalf("method %q not closed", header)
	return nil
}

const mainHeader = "public static main([java/lang/String)V {"

func TestHelloWorld(t *testing.T) {
	classes, _ := compileClasses(t, `fn main() { println("Hello"); }`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"getstatic java/lang/System.out java/io/PrintStream",
		`ldc "Hello"`,
		"invokevirtual java/io/PrintStream.println(java/lang/String)V",
		"return",
	})
}

func TestPrintIntWithImplicitCoercion(t *testing.T) {
	classes, _ := compileClasses(t, "fn main() { var x: int = 42; println(x); }")
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"ldc 42",
		"istore 0",
		"getstatic java/lang/System.out java/io/PrintStream",
		"iload 0",
		"invokestatic java/lang/Integer.toString (I)java/lang/String",
		"invokevirtual java/io/PrintStream.println(java/lang/String)V",
		"return",
	})
}

func TestStructClassWithSynthesizedConstructor(t *testing.T) {
	classes, _ := compileClasses(t, "struct Point { x: int; y: int; }")
	be.Equal(t, classes["Point"], `public class Point {
public x I
public y I
public $toString_()java/lang/String {
aload 0
invokevirtual java/lang/Object.toString() java/lang/String
areturn
}
public <init>(I, I)V {
aload 0
invokespecial java/lang/Object.<init>()V
aload 0
iload 1
putfield Point.x I
aload 0
iload 2
putfield Point.y I
return
}
}
`)
}

func TestIfElseIfElseChain(t *testing.T) {
	classes, _ := compileClasses(t, `
fn main() {
	var a: bool = true;
	if (a) { print("b"); } else if (a) { print("d"); } else { print("e"); }
}`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"iconst 1",
		"istore 0",
		"iload 0",
		"ifeq L1",
		"getstatic java/lang/System.out java/io/PrintStream",
		`ldc "b"`,
		"invokevirtual java/io/PrintStream.print(java/lang/String)V",
		"goto L0",
		"L1:",
		"iload 0",
		"ifeq L2",
		"getstatic java/lang/System.out java/io/PrintStream",
		`ldc "d"`,
		"invokevirtual java/io/PrintStream.print(java/lang/String)V",
		"goto L0",
		"L2:",
		"getstatic java/lang/System.out java/io/PrintStream",
		`ldc "e"`,
		"invokevirtual java/io/PrintStream.print(java/lang/String)V",
		"L0:",
		"return",
	})
}

func TestShortCircuitAnd(t *testing.T) {
	classes, _ := compileClasses(t, `
fn main() {
	var a: bool = true;
	var b: bool = false;
	var z: bool = a && b;
}`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"iconst 1",
		"istore 0",
		"iconst 0",
		"istore 1",
		"iload 0",
		"ifeq L0",
		"iload 1",
		"ifeq L0",
		"iconst 1",
		"goto L1",
		"L0:",
		"iconst 0",
		"L1:",
		"istore 2",
		"return",
	})
}

func TestPointerAllocationDerefAssignAndPrint(t *testing.T) {
	classes, _ := compileClasses(t, `
fn main() {
	var p: int* = new int(7);
	*p = 8;
	println(*p);
}`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"new IntReference",
		"dup",
		"ldc 7",
		"invokespecial IntReference.<init>(I)V",
		"astore 0",
		"aload 0",
		"ldc 8",
		"invokevirtual IntReference.setValue(I)V",
		"getstatic java/lang/System.out java/io/PrintStream",
		"aload 0",
		"invokevirtual IntReference.getValue() I",
		"invokestatic java/lang/Integer.toString (I)java/lang/String",
		"invokevirtual java/io/PrintStream.println(java/lang/String)V",
		"return",
	})
}

func TestWrapperClassShape(t *testing.T) {
	classes, _ := compileClasses(t, "fn main() { var p: int* = new int(1); }")
	be.Equal(t, classes["IntReference"], `public class IntReference {
private value I
public <init>(I)V {
aload 0
invokespecial java/lang/Object.<init>()V
aload 0
iload 1
putfield IntReference.value I
return
}
public getValue()I {
aload 0
getfield IntReference.value I
ireturn
}
public setValue(I)V {
aload 0
iload 1
putfield IntReference.value I
return
}
}
`)
}

func TestWhileLoop(t *testing.T) {
	classes, _ := compileClasses(t, `
fn main() {
	var i: int = 0;
	while (i < 3) { i = i + 1; }
}`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"ldc 0",
		"istore 0",
		"L0:",
		"iload 0",
		"ldc 3",
		"if_icmplt L2",
		"iconst 0",
		"goto L3",
		"L2:",
		"iconst 1",
		"L3:",
		"ifeq L1",
		"iload 0",
		"ldc 1",
		"iadd",
		"istore 0",
		"goto L0",
		"L1:",
		"return",
	})
}

func TestFreeFunctionCallUsesMangledName(t *testing.T) {
	classes, _ := compileClasses(t, `
fn add(a: int, b: int) -> int { return a + b; }
fn main() { var s: int = add(1, 2); }`)
	main := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, main, []string{
		"ldc 1",
		"ldc 2",
		"invokestatic Main.add_int_int_(I, I)I",
		"istore 0",
		"return",
	})
	add := methodBody(t, classes["Main"], "public static add_int_int_(I, I)I {")
	be.Equal(t, add, []string{
		"iload 0",
		"iload 1",
		"iadd",
		"ireturn",
	})
}

func TestMethodCallThroughPointer(t *testing.T) {
	classes, _ := compileClasses(t, `
struct Point {
	x: int;
	fn getX() -> int { return x; }
}
fn main() {
	var p: Point* = new Point(1);
	var v: int = p->getX();
}`)
	main := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, main, []string{
		"new Point",
		"dup",
		"ldc 1",
		"invokespecial Point.<init>(I)V",
		"astore 0",
		"aload 0",
		"invokevirtual Point.getX_()I",
		"istore 1",
		"return",
	})
	getX := methodBody(t, classes["Point"], "public getX_()I {")
	be.Equal(t, getX, []string{
		"aload 0",
		"getfield Point.x I",
		"ireturn",
	})
}

func TestStringConcatenation(t *testing.T) {
	classes, _ := compileClasses(t, `fn main() { var s: string = "n=" + 1; }`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		`ldc "n="`,
		"ldc 1",
		"invokestatic java/lang/Integer.toString (I)java/lang/String",
		"invokedynamic makeConcatWithConstants(java/lang/String, java/lang/String)java/lang/String {\"\\u0001\\u0001\"}",
		"astore 0",
		"return",
	})
}

func TestCastEmission(t *testing.T) {
	classes, _ := compileClasses(t, `
fn main() {
	var f: float = 1 as float;
	var i: int = f as int;
	var s: string = i as string;
	var n: int = "42" as int;
}`)
	body := methodBody(t, classes["Main"], mainHeader)
	be.Equal(t, body, []string{
		"ldc 1",
		"i2f",
		"fstore 0",
		"fload 0",
		"f2i",
		"istore 1",
		"iload 1",
		"invokestatic java/lang/Integer.toString (I)java/lang/String",
		"astore 2",
		`ldc "42"`,
		"invokestatic java/lang/Integer.parseInt(java/lang/String)I",
		"istore 3",
		"return",
	})
}

// every label placed in a method must be defined exactly once and referenced
// by at least one jump
func TestLabelsDefinedOnceAndReferenced(t *testing.T) {
	classes, _ := compileClasses(t, `
fn main() {
	var i: int = 0;
	for (var j: int = 0; j < 4; j++) {
		if (j == 2) { break; }
		i = i + j;
	}
	until (i == 0) {
		if (i == 1) { break; }
		i = i - 1;
	}
	loop { break; }
}`)
	body := methodBody(t, classes["Main"], mainHeader)
	defined := make(map[string]int)
	referenced := make(map[string]int)
	for _, line := range body {
		if strings.HasSuffix(line, ":") {
			defined[strings.TrimSuffix(line, ":")]++
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.HasPrefix(fields[1], "L") &&
			(fields[0] == "goto" || strings.HasPrefix(fields[0], "if")) {
			referenced[fields[1]]++
		}
	}
	for label, count := range defined {
		if count != 1 {
			t.Fatalf("label %s defined %d times", label, count)
		}
		if referenced[label] == 0 {
			t.Fatalf("label %s is never referenced", label)
		}
	}
	for label := range referenced {
		if defined[label] == 0 {
			t.Fatalf("label %s referenced but never defined", label)
		}
	}
}

// parameters and locals form a prefix of the naturals: 0.. for free
// functions, 1.. for struct methods (slot 0 is `this`)
func TestLocalSlotAssignment(t *testing.T) {
	_, res := compileClasses(t, `
struct S {
	x: int;
	fn m(a: int) -> int { var b: int = a; return b; }
}
fn f(a: int, b: float) { var c: int = 1; var d: string = "s"; }`)

	slots := func(fnName string) []int32 {
		var out []int32
		for _, sym := range collectFnLocals(res, fnName) {
			out = append(out, sym)
		}
		return out
	}
	be.Equal(t, slots("f"), []int32{0, 1, 2, 3})
	be.Equal(t, slots("m"), []int32{1, 2})
}

// collectFnLocals gathers the slot numbers of a function's parameters and
// local variables, parameters first, locals sorted by slot.
func collectFnLocals(res *sema.Result, fnName string) []int32 {
	table := res.Table
	fn := table.Sym(resolveFn(res, fnName))
	if fn == nil {
		return nil
	}
	var out []int32
	for _, paramID := range fn.Params {
		out = append(out, table.Sym(paramID).LocalIndex)
	}
	scope := table.Scope(fn.Scope)
	var locals []int32
	for _, symID := range scope.Symbols {
		sym := table.Sym(symID)
		if sym.Kind == symbols.SymbolVariable && table.Name(sym.Name) != "this" {
			locals = append(locals, sym.LocalIndex)
		}
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i] < locals[j] })
	return append(out, locals...)
}

// resolveFn finds a function by base name at the program level or inside any
// struct's member scope.
func resolveFn(res *sema.Result, fnName string) symbols.SymbolID {
	table := res.Table
	name := table.Strings.Intern(fnName)
	if id := table.Resolve(res.ProgramScope, name); id.IsValid() {
		return id
	}
	program := table.Scope(res.ProgramScope)
	for _, symID := range program.Symbols {
		sym := table.Sym(symID)
		if sym == nil || sym.Kind != symbols.SymbolType {
			continue
		}
		if id := table.Resolve(sym.MemberScope, name); id.IsValid() {
			return id
		}
	}
	return symbols.NoSymbolID
}
