// Package sema implements the semantic pipeline: symbol collection, default
// constructor synthesis, special method validation, type checking, and the
// use-before-definition walk. Passes communicate through annotation maps
// keyed by parse-node IDs; no stage observes a later stage's writes.
package sema

import (
	"fmt"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/source"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// Options configure one semantic analysis run.
type Options struct {
	Reporter diag.Reporter
	FileSet  *source.FileSet
}

// Result stores every artefact produced by the passes. It is the only
// channel between semantic analysis and code generation.
type Result struct {
	Table *symbols.Table
	Types *types.Interner

	ProgramScope symbols.ScopeID

	// scope annotations written by the collector
	ItemScopes  map[ast.ItemID]symbols.ScopeID  // functions and structs
	StmtScopes  map[ast.StmtID]symbols.ScopeID  // loops
	BlockScopes map[ast.BlockID]symbols.ScopeID // if branch blocks

	// symbol annotations written by the collector
	FnSymbols     map[ast.ItemID]symbols.SymbolID
	StructSymbols map[ast.ItemID]symbols.SymbolID
	VarSymbols    map[ast.StmtID]symbols.SymbolID
	DestrSymbols  map[ast.StmtID][]symbols.SymbolID

	// constructorMap of the default-constructor pass
	Constructors map[source.StringID]symbols.SymbolID

	// type checker output
	ExprTypes   map[ast.ExprID]types.TypeID
	StringConv  map[ast.ExprID]bool // expressions needing an automatic value->string call
	CallTargets map[ast.ExprID]symbols.SymbolID
	HopTypes    map[ast.ExprID][]types.TypeID // type after each field-access hop
}

// Analyze runs the full pass pipeline over one parsed file. Every pass runs
// even in the presence of errors so that late-stage problems still surface;
// the caller gates code generation on the bag's HasErrors.
func Analyze(builder *ast.Builder, fileID ast.FileID, opts Options) *Result {
	interner := types.NewInterner()
	table := symbols.NewTable(symbols.Hints{}, builder.Strings, interner)

	res := &Result{
		Table:         table,
		Types:         interner,
		ItemScopes:    make(map[ast.ItemID]symbols.ScopeID),
		StmtScopes:    make(map[ast.StmtID]symbols.ScopeID),
		BlockScopes:   make(map[ast.BlockID]symbols.ScopeID),
		FnSymbols:     make(map[ast.ItemID]symbols.SymbolID),
		StructSymbols: make(map[ast.ItemID]symbols.SymbolID),
		VarSymbols:    make(map[ast.StmtID]symbols.SymbolID),
		DestrSymbols:  make(map[ast.StmtID][]symbols.SymbolID),
		Constructors:  make(map[source.StringID]symbols.SymbolID),
		ExprTypes:     make(map[ast.ExprID]types.TypeID),
		StringConv:    make(map[ast.ExprID]bool),
		CallTargets:   make(map[ast.ExprID]symbols.SymbolID),
		HopTypes:      make(map[ast.ExprID][]types.TypeID),
	}

	declareBuiltins(table)

	file := builder.File(fileID)
	if file == nil {
		return res
	}

	// FIRST PASS: collect symbols, handles declaration errors
	collector := &collector{analysis: newAnalysis(builder, opts, res)}
	collector.run(file)

	// SECOND PASS: create default constructors for structs
	synthesizeConstructors(newAnalysis(builder, opts, res), file)

	// THIRD PASS: ensure special methods are valid
	validateSpecialMethods(newAnalysis(builder, opts, res), file)

	// FOURTH PASS: validate types and expressions
	checker := &checker{analysis: newAnalysis(builder, opts, res)}
	checker.run(file)

	// FIFTH PASS: check for use before definition errors
	usedef := &useBeforeDef{analysis: newAnalysis(builder, opts, res)}
	usedef.run(file)

	return res
}

// analysis bundles the shared state every pass needs.
type analysis struct {
	builder  *ast.Builder
	reporter diag.Reporter
	fs       *source.FileSet
	res      *Result
	table    *symbols.Table
	types    *types.Interner
}

func newAnalysis(builder *ast.Builder, opts Options, res *Result) analysis {
	return analysis{
		builder:  builder,
		reporter: opts.Reporter,
		fs:       opts.FileSet,
		res:      res,
		table:    res.Table,
		types:    res.Types,
	}
}

func (a *analysis) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.Error(a.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (a *analysis) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.Warning(a.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (a *analysis) name(id source.StringID) string {
	return a.builder.Name(id)
}

// position resolves a span for inclusion in diagnostic messages.
func (a *analysis) position(sp source.Span) source.Position {
	if a.fs == nil {
		return source.Position{}
	}
	return a.fs.Position(sp)
}

func (a *analysis) void() types.TypeID {
	return a.types.Builtins().Void
}
