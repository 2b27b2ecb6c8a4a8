package symbols

import (
	"testing"

	"cgull/internal/source"
	"cgull/internal/types"
)

func newTestTable() *Table {
	return NewTable(Hints{}, source.NewInterner(), types.NewInterner())
}

func (t *Table) addTestFunction(tb *testing.T, scope ScopeID, name string, params ...types.TypeID) SymbolID {
	tb.Helper()
	fn := &Symbol{
		Name:    t.Strings.Intern(name),
		Kind:    SymbolFunction,
		Scope:   scope,
		Defined: true,
		Returns: []types.TypeID{t.Types.Builtins().Void},
	}
	id := t.Symbols.New(fn)
	for _, paramType := range params {
		param := &Symbol{
			Name:     t.Strings.Intern("p"),
			Kind:     SymbolParameter,
			Scope:    scope,
			DataType: paramType,
		}
		paramID := t.Symbols.New(param)
		sym := t.Sym(id)
		sym.Params = append(sym.Params, paramID)
	}
	if !t.AddFunction(scope, id) {
		tb.Fatalf("AddFunction(%s) failed", name)
	}
	return id
}

func TestMangledName(t *testing.T) {
	table := newTestTable()
	b := table.Types.Builtins()
	fn := table.addTestFunction(t, table.Global, "add", b.Int, b.Int)
	if got := table.MangledName(fn); got != "add_int_int_" {
		t.Fatalf("mangled name = %q, want add_int_int_", got)
	}
	noArgs := table.addTestFunction(t, table.Global, "$toString")
	if got := table.MangledName(noArgs); got != "$toString_" {
		t.Fatalf("mangled name = %q, want $toString_", got)
	}
	ptr := table.addTestFunction(t, table.Global, "deref", table.Types.Pointer(b.Int))
	if got := table.MangledName(ptr); got != "deref_IntReference_" {
		t.Fatalf("mangled name = %q, want deref_IntReference_", got)
	}
}

func TestAddRefusesDuplicates(t *testing.T) {
	table := newTestTable()
	name := table.Strings.Intern("x")
	first := table.Symbols.New(&Symbol{Name: name, Kind: SymbolVariable, Scope: table.Global})
	second := table.Symbols.New(&Symbol{Name: name, Kind: SymbolVariable, Scope: table.Global})
	if !table.Add(table.Global, first) {
		t.Fatal("first insertion must succeed")
	}
	if table.Add(table.Global, second) {
		t.Fatal("duplicate insertion must fail")
	}
}

func TestOverloadsCoexist(t *testing.T) {
	table := newTestTable()
	b := table.Types.Builtins()
	table.addTestFunction(t, table.Global, "print", b.String)
	table.addTestFunction(t, table.Global, "print", b.String, b.Int)

	name := table.Strings.Intern("print")
	exact := table.ResolveFunctionCall(table.Global, name, []types.TypeID{b.String})
	if fn := table.Sym(exact); fn == nil || len(fn.Params) != 1 {
		t.Fatal("expected the one-argument overload")
	}
	two := table.ResolveFunctionCall(table.Global, name, []types.TypeID{b.String, b.Int})
	if fn := table.Sym(two); fn == nil || len(fn.Params) != 2 {
		t.Fatal("expected the two-argument overload")
	}
}

func TestResolveFunctionCallFallsBackOnArity(t *testing.T) {
	table := newTestTable()
	b := table.Types.Builtins()
	table.addTestFunction(t, table.Global, "f", b.Int)

	name := table.Strings.Intern("f")
	// float argument: no exact match, but the arity matches
	got := table.ResolveFunctionCall(table.Global, name, []types.TypeID{b.Float})
	if fn := table.Sym(got); fn == nil || len(fn.Params) != 1 {
		t.Fatal("expected the same-arity fallback overload")
	}
	// wrong arity: no overload at all
	if table.ResolveFunctionCall(table.Global, name, nil).IsValid() {
		t.Fatal("expected no match for zero arguments")
	}
}

func TestResolveWalksParentChain(t *testing.T) {
	table := newTestTable()
	inner := table.NewScope(ScopeBlock, table.Global, source.Span{})
	name := table.Strings.Intern("x")
	sym := table.Symbols.New(&Symbol{Name: name, Kind: SymbolVariable, Scope: table.Global})
	table.Add(table.Global, sym)

	if got := table.Resolve(inner, name); got != sym {
		t.Fatalf("Resolve from child scope = %d, want %d", got, sym)
	}
	if table.Resolve(inner, table.Strings.Intern("missing")).IsValid() {
		t.Fatal("unknown name must not resolve")
	}
}

func TestResolveReturnsOverloadForBaseName(t *testing.T) {
	table := newTestTable()
	b := table.Types.Builtins()
	fn := table.addTestFunction(t, table.Global, "helper", b.Int)
	// the base name is only an overload-set key, not a symbol key
	if got := table.Resolve(table.Global, table.Strings.Intern("helper")); got != fn {
		t.Fatalf("base-name lookup = %d, want %d", got, fn)
	}
}
