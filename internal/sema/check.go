package sema

import (
	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// checker is the fourth pass: it annotates every expression with a resolved
// type, validates statements against their context, and records the sites
// where an automatic value->string conversion must be inserted by codegen.
type checker struct {
	analysis
	currentReturns []types.TypeID
	loopDepth      int
}

func (ck *checker) run(file *ast.File) {
	for _, itemID := range file.Items {
		ck.checkItem(ck.res.ProgramScope, itemID)
	}
}

func (ck *checker) checkItem(scope symbols.ScopeID, itemID ast.ItemID) {
	item := ck.builder.Item(itemID)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		ck.checkStmt(scope, item.Decl)
	case ast.ItemFn:
		ck.checkFn(itemID)
	case ast.ItemStruct:
		structScope := ck.res.ItemScopes[itemID]
		for _, member := range item.Members {
			if member.IsFn {
				ck.checkFn(member.Fn)
				continue
			}
			decl := ck.builder.Stmt(member.Decl)
			if decl != nil && decl.Value.IsValid() {
				ck.checkVarDeclInit(structScope, member.Decl)
			}
		}
	}
}

func (ck *checker) checkFn(itemID ast.ItemID) {
	item := ck.builder.Item(itemID)
	fnScope := ck.res.ItemScopes[itemID]
	fnSym := ck.table.Sym(ck.res.FnSymbols[itemID])
	saved := ck.currentReturns
	if fnSym != nil {
		ck.currentReturns = fnSym.Returns
	} else {
		ck.currentReturns = nil
	}
	ck.checkBlock(fnScope, item.Body)
	ck.currentReturns = saved
}

func (ck *checker) checkBlock(scope symbols.ScopeID, blockID ast.BlockID) {
	block := ck.builder.Block(blockID)
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		ck.checkStmt(scope, stmt)
	}
}

func (ck *checker) checkStmt(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := ck.builder.Stmt(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVarDecl:
		ck.checkVarDeclInit(scope, stmtID)
	case ast.StmtDestructure:
		ck.checkDestructure(scope, stmtID)
	case ast.StmtAssign:
		ck.checkAssign(scope, stmtID)
	case ast.StmtExpr:
		ck.exprType(scope, stmt.Value)
	case ast.StmtReturn:
		ck.checkReturn(scope, stmt)
	case ast.StmtIf:
		for i, cond := range stmt.Conds {
			ck.checkCondition(scope, cond)
			ck.checkBlock(ck.res.BlockScopes[stmt.Blocks[i]], stmt.Blocks[i])
		}
		if stmt.Else.IsValid() {
			ck.checkBlock(ck.res.BlockScopes[stmt.Else], stmt.Else)
		}
	case ast.StmtWhile, ast.StmtUntil:
		loop := ck.res.StmtScopes[stmtID]
		ck.checkCondition(loop, stmt.Cond)
		ck.loopDepth++
		ck.checkBlock(loop, stmt.Body)
		ck.loopDepth--
	case ast.StmtFor:
		loop := ck.res.StmtScopes[stmtID]
		if stmt.Init.IsValid() {
			ck.checkStmt(loop, stmt.Init)
		}
		if stmt.Cond.IsValid() {
			ck.checkCondition(loop, stmt.Cond)
		}
		if stmt.Update.IsValid() {
			ck.exprType(loop, stmt.Update)
		}
		ck.loopDepth++
		ck.checkBlock(loop, stmt.Body)
		ck.loopDepth--
	case ast.StmtLoop:
		loop := ck.res.StmtScopes[stmtID]
		ck.loopDepth++
		ck.checkBlock(loop, stmt.Body)
		ck.loopDepth--
	case ast.StmtBreak:
		if ck.loopDepth == 0 {
			ck.errorf(diag.SemaTypeMismatch, stmt.Span, "break statement outside of a loop")
		}
	}
}

// checkCondition accepts booleans and pointers (non-null reads as true).
func (ck *checker) checkCondition(scope symbols.ScopeID, exprID ast.ExprID) {
	condType := ck.exprType(scope, exprID)
	if ck.types.IsBool(condType) || ck.types.IsPointer(condType) {
		return
	}
	expr := ck.builder.Expr(exprID)
	if expr != nil {
		ck.errorf(diag.SemaTypeMismatch, expr.Span,
			"condition must be a boolean or pointer, got %s", ck.types.String(condType))
	}
}

func (ck *checker) checkVarDeclInit(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := ck.builder.Stmt(stmtID)
	if !stmt.Value.IsValid() {
		return
	}
	initType := ck.exprType(scope, stmt.Value)
	varSym := ck.table.Sym(ck.res.VarSymbols[stmtID])
	if varSym == nil {
		return
	}
	declared := varSym.DataType
	if !ck.compatible(initType, declared, stmt.Value) {
		ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(stmt.Value).Span,
			"Cannot initialize variable of type %s with value of type %s",
			ck.types.String(declared), ck.types.String(initType))
	}
}

func (ck *checker) checkAssign(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := ck.builder.Stmt(stmtID)
	target := ck.builder.Expr(stmt.Target)
	if target == nil || !stmt.Value.IsValid() {
		return
	}

	targetType := ck.exprType(scope, stmt.Target)
	targetDescription := "variable"
	switch target.Kind {
	case ast.ExprIndex:
		targetDescription = "indexed element"
	case ast.ExprDeref:
		targetDescription = "dereferenced pointer"
	case ast.ExprFieldAccess:
		targetDescription = "field"
	}

	valueType := ck.exprType(scope, stmt.Value)
	if !ck.compatible(valueType, targetType, stmt.Value) {
		ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(stmt.Value).Span,
			"Cannot assign value of type %s to %s of type %s",
			ck.types.String(valueType), targetDescription, ck.types.String(targetType))
	}

	if target.Kind == ast.ExprIdent {
		sym := ck.table.Sym(ck.table.Resolve(scope, target.Text))
		if sym != nil && (sym.Kind == symbols.SymbolVariable || sym.Kind == symbols.SymbolParameter) && sym.Constant {
			ck.errorf(diag.SemaAssignmentToConst, stmt.Span,
				"Cannot assign to const variable '%s'", ck.name(target.Text))
		}
	}
}

func (ck *checker) checkDestructure(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := ck.builder.Stmt(stmtID)
	valueType := ck.exprType(scope, stmt.Value)
	tt, ok := ck.types.Lookup(valueType)
	if !ok || tt.Kind != types.KindTuple {
		ck.errorf(diag.SemaTypeMismatch, stmt.Span,
			"Destructuring assignment requires a tuple type, got %s", ck.types.String(valueType))
		return
	}
	elems := ck.types.TupleElems(valueType)
	if len(stmt.Items) != len(elems) {
		ck.errorf(diag.SemaTypeMismatch, stmt.Span,
			"Destructuring assignment has incompatible number of elements")
		return
	}
	syms := ck.res.DestrSymbols[stmtID]
	for i, item := range stmt.Items {
		if i >= len(syms) {
			break
		}
		sym := ck.table.Sym(syms[i])
		if sym == nil {
			continue
		}
		if !ck.compatible(sym.DataType, elems[i], ast.NoExprID) {
			ck.errorf(diag.SemaTypeMismatch, item.Span,
				"Destructuring item %d has incompatible type", i)
		}
	}
}

func (ck *checker) checkReturn(scope symbols.ScopeID, stmt *ast.Stmt) {
	if !stmt.Value.IsValid() {
		if len(ck.currentReturns) == 0 || ck.types.IsVoid(ck.currentReturns[0]) {
			return
		}
		ck.errorf(diag.SemaTypeMismatch, stmt.Span,
			"Function expects return value(s) but none provided")
		return
	}
	returnType := ck.exprType(scope, stmt.Value)
	if len(ck.currentReturns) == 0 {
		ck.errorf(diag.SemaTypeMismatch, stmt.Span, "Function has no return type specified")
		return
	}
	expected := ck.currentReturns[0]
	if !ck.compatible(returnType, expected, stmt.Value) {
		ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(stmt.Value).Span,
			"Return type mismatch: expected %s but got %s",
			ck.types.String(expected), ck.types.String(returnType))
	}
}

// compatible implements areTypesCompatible: equal types, implicit
// value->string (recorded as a coercion site on the source expression),
// nullptr-to-any-pointer, and numeric widening.
func (ck *checker) compatible(src, tgt types.TypeID, srcExpr ast.ExprID) bool {
	if src == tgt {
		return true
	}
	if ck.types.IsString(tgt) && ck.canConvertToString(src) {
		if srcExpr.IsValid() {
			ck.res.StringConv[srcExpr] = true
		}
		return true
	}
	if ck.types.IsPointer(src) && ck.types.IsPointer(tgt) && ck.types.IsVoid(ck.types.Pointee(src)) {
		return true
	}
	if ck.types.IsNumeric(src) && ck.types.IsNumeric(tgt) {
		return true
	}
	return false
}

// canConvertToString: any primitive, any pointer (prints the address), and
// any user-defined type exposing $toString : () -> string.
func (ck *checker) canConvertToString(id types.TypeID) bool {
	tt, ok := ck.types.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindPointer, types.KindPrimitive:
		return true
	case types.KindUserDefined:
		return ck.hasToStringMethod(id)
	default:
		return false
	}
}

func (ck *checker) hasToStringMethod(id types.TypeID) bool {
	tt, ok := ck.types.Lookup(id)
	if !ok || tt.Kind != types.KindUserDefined {
		return false
	}
	structSym := ck.table.Sym(symbols.SymbolID(tt.Ref))
	if structSym == nil || !structSym.MemberScope.IsValid() {
		return false
	}
	fn := ck.table.Sym(ck.table.Resolve(structSym.MemberScope, ck.builder.Strings.Intern("$toString")))
	if fn == nil || fn.Kind != symbols.SymbolFunction || len(fn.Returns) != 1 {
		return false
	}
	return ck.types.IsString(fn.Returns[0])
}
