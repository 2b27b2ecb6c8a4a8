package codegen

import (
	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

func (g *Generator) genBlock(scope symbols.ScopeID, blockID ast.BlockID) {
	block := g.builder.Block(blockID)
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		g.genStmt(scope, stmt)
	}
}

func (g *Generator) genStmt(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := g.builder.Stmt(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVarDecl:
		g.genVarDecl(scope, stmtID, stmt)
	case ast.StmtDestructure:
		g.genDestructure(scope, stmtID, stmt)
	case ast.StmtAssign:
		g.genAssign(scope, stmt)
	case ast.StmtExpr:
		g.emitExpr(scope, stmt.Value)
		if !g.tys.IsVoid(g.exprType(stmt.Value)) {
			g.emit("pop")
		}
	case ast.StmtReturn:
		g.genReturn(scope, stmt)
	case ast.StmtIf:
		g.genIf(scope, stmt)
	case ast.StmtWhile:
		g.genWhile(scope, stmtID, stmt)
	case ast.StmtUntil:
		g.genUntil(scope, stmtID, stmt)
	case ast.StmtFor:
		g.genFor(scope, stmtID, stmt)
	case ast.StmtLoop:
		g.genLoop(scope, stmtID, stmt)
	case ast.StmtBreak:
		if len(g.breakLabels) > 0 {
			g.emit("goto " + g.breakLabels[len(g.breakLabels)-1])
		}
	}
}

func (g *Generator) genVarDecl(scope symbols.ScopeID, stmtID ast.StmtID, stmt *ast.Stmt) {
	symID := g.res.VarSymbols[stmtID]
	sym := g.table.Sym(symID)
	if sym == nil {
		return
	}
	index := g.assignLocal(symID)
	if !stmt.Value.IsValid() {
		return
	}
	g.emitExprConv(scope, stmt.Value)
	g.emitf("%sstore %d", loadPrefix(g.tys, sym.DataType), index)
}

// genDestructure lowers a tuple-literal RHS elementwise. Tuples have no
// runtime representation on the target VM, so anything else is rejected.
func (g *Generator) genDestructure(scope symbols.ScopeID, stmtID ast.StmtID, stmt *ast.Stmt) {
	value := g.builder.Expr(stmt.Value)
	syms := g.res.DestrSymbols[stmtID]
	if value == nil || value.Kind != ast.ExprTuple || len(value.List) != len(syms) {
		diag.Error(g.reporter, diag.SemaTypeMismatch, stmt.Span,
			"destructuring target must be a tuple literal")
		return
	}
	for i, elem := range value.List {
		sym := g.table.Sym(syms[i])
		if sym == nil {
			continue
		}
		index := g.assignLocal(syms[i])
		g.emitExprConv(scope, elem)
		g.emitf("%sstore %d", loadPrefix(g.tys, sym.DataType), index)
	}
}

func (g *Generator) genAssign(scope symbols.ScopeID, stmt *ast.Stmt) {
	target := g.builder.Expr(stmt.Target)
	if target == nil {
		return
	}
	switch target.Kind {
	case ast.ExprIdent:
		sym := g.table.Sym(g.table.Resolve(scope, target.Text))
		if sym == nil {
			return
		}
		switch {
		case sym.StructMember:
			owner := g.table.Sym(sym.ParentStruct)
			g.emit("aload 0")
			g.emitExprConv(scope, stmt.Value)
			g.emitf("putfield %s.%s %s",
				g.table.Name(owner.Name), g.table.Name(sym.Name), jvmType(g.tys, sym.DataType))
		case g.isGlobal(sym):
			g.emitExprConv(scope, stmt.Value)
			g.emitf("putstatic Main.%s %s", g.table.Name(sym.Name), jvmType(g.tys, sym.DataType))
		default:
			g.emitExprConv(scope, stmt.Value)
			g.emitf("%sstore %d", loadPrefix(g.tys, sym.DataType), g.assignLocal(g.table.Resolve(scope, target.Text)))
		}

	case ast.ExprDeref:
		pointerType := g.exprType(target.X)
		pointee, ok := g.tys.Lookup(g.tys.Pointee(pointerType))
		if !ok || pointee.Kind != types.KindPrimitive {
			diag.Error(g.reporter, diag.SemaTypeMismatch, stmt.Span,
				"assignment through a pointer requires a pointer to a primitive")
			return
		}
		g.emitExpr(scope, target.X)
		g.emitExprConv(scope, stmt.Value)
		g.emitf("invokevirtual %s.setValue(%s)V", pointee.Prim.BoxClass(), primDescriptor(pointee.Prim))

	case ast.ExprIndex:
		g.emitExpr(scope, target.X)
		g.emitExpr(scope, target.Y)
		g.emitExprConv(scope, stmt.Value)
		g.emitf("%sastore", loadPrefix(g.tys, g.exprType(stmt.Target)))

	case ast.ExprFieldAccess:
		g.genFieldStore(scope, stmt, target)
	}
}

// genFieldStore emits the chain up to the final hop, then value + putfield.
func (g *Generator) genFieldStore(scope symbols.ScopeID, stmt *ast.Stmt, target *ast.Expr) {
	if len(target.Hops) == 0 {
		return
	}
	steps := g.res.HopTypes[stmt.Target]
	last := len(target.Hops) - 1
	g.emitExpr(scope, target.X)
	ownerType := g.exprType(target.X)
	for i := 0; i < last; i++ {
		ownerType = g.emitHop(scope, ownerType, &target.Hops[i], steps, i)
	}
	finalHop := &target.Hops[last]
	if finalHop.Arrow {
		ownerType = g.tys.Pointee(ownerType)
	}
	if finalHop.Call.IsValid() || finalHop.Index.IsValid() {
		diag.Error(g.reporter, diag.SemaTypeMismatch, stmt.Span, "invalid assignment target")
		return
	}
	fieldType := g.exprType(stmt.Target)
	if last < len(steps) {
		fieldType = steps[last]
	}
	g.emitExprConv(scope, stmt.Value)
	g.emitf("putfield %s.%s %s",
		g.tys.String(ownerType), g.builder.Name(finalHop.Name), jvmType(g.tys, fieldType))
}

func (g *Generator) genReturn(scope symbols.ScopeID, stmt *ast.Stmt) {
	if !stmt.Value.IsValid() {
		g.emit("return")
		return
	}
	g.emitExprConv(scope, stmt.Value)
	if g.tys.IsVoid(g.currentReturn) {
		g.emit("return")
		return
	}
	g.emitf("%sreturn", loadPrefix(g.tys, g.currentReturn))
}

func (g *Generator) genIf(scope symbols.ScopeID, stmt *ast.Stmt) {
	end := g.newLabel()
	hasElse := stmt.Else.IsValid()
	for i, cond := range stmt.Conds {
		lastBranch := i == len(stmt.Conds)-1 && !hasElse
		next := end
		if !lastBranch {
			next = g.newLabel()
		}
		g.emitExpr(scope, cond)
		g.branchIfFalse(g.exprType(cond), next)
		g.genBlock(g.res.BlockScopes[stmt.Blocks[i]], stmt.Blocks[i])
		g.emit("goto " + end)
		if next != end {
			g.placeLabel(next)
		}
	}
	if hasElse {
		g.genBlock(g.res.BlockScopes[stmt.Else], stmt.Else)
	}
	g.placeLabel(end)
}

func (g *Generator) genWhile(scope symbols.ScopeID, stmtID ast.StmtID, stmt *ast.Stmt) {
	loop := g.res.StmtScopes[stmtID]
	start := g.newLabel()
	end := g.newLabel()
	g.placeLabel(start)
	g.emitExpr(loop, stmt.Cond)
	g.branchIfFalse(g.exprType(stmt.Cond), end)
	g.pushBreak(end)
	g.genBlock(loop, stmt.Body)
	g.popBreak()
	g.emit("goto " + start)
	g.placeLabel(end)
}

// genUntil runs the body first; a false condition loops back to the start.
func (g *Generator) genUntil(scope symbols.ScopeID, stmtID ast.StmtID, stmt *ast.Stmt) {
	loop := g.res.StmtScopes[stmtID]
	start := g.newLabel()
	end := g.newLabel()
	g.placeLabel(start)
	g.pushBreak(end)
	g.genBlock(loop, stmt.Body)
	g.popBreak()
	g.emitExpr(loop, stmt.Cond)
	g.branchIfFalse(g.exprType(stmt.Cond), start)
	g.placeLabel(end)
}

func (g *Generator) genLoop(scope symbols.ScopeID, stmtID ast.StmtID, stmt *ast.Stmt) {
	loop := g.res.StmtScopes[stmtID]
	start := g.newLabel()
	end := g.newLabel()
	g.placeLabel(start)
	g.pushBreak(end)
	g.genBlock(loop, stmt.Body)
	g.popBreak()
	g.emit("goto " + start)
	g.placeLabel(end)
}

func (g *Generator) genFor(scope symbols.ScopeID, stmtID ast.StmtID, stmt *ast.Stmt) {
	loop := g.res.StmtScopes[stmtID]
	condLabel := g.newLabel()
	startLabel := g.newLabel()
	updateLabel := g.newLabel()
	endLabel := g.newLabel()

	if stmt.Init.IsValid() {
		g.genStmt(loop, stmt.Init)
	}
	g.placeLabel(condLabel)
	if stmt.Cond.IsValid() {
		g.emitExpr(loop, stmt.Cond)
		g.branchIfFalse(g.exprType(stmt.Cond), endLabel)
	}
	g.emit("goto " + startLabel)
	g.placeLabel(startLabel)
	g.pushBreak(endLabel)
	g.genBlock(loop, stmt.Body)
	g.popBreak()
	g.emit("goto " + updateLabel)
	g.placeLabel(updateLabel)
	if stmt.Update.IsValid() {
		g.emitExpr(loop, stmt.Update)
		if !g.tys.IsVoid(g.exprType(stmt.Update)) {
			g.emit("pop")
		}
	}
	g.emit("goto " + condLabel)
	g.placeLabel(endLabel)
}

// branchIfFalse jumps to the label when the condition value on the stack is
// false; pointer conditions branch on null.
func (g *Generator) branchIfFalse(condType types.TypeID, label string) {
	if g.tys.IsPointer(condType) {
		g.emit("ifnull " + label)
		return
	}
	g.emit("ifeq " + label)
}

func (g *Generator) pushBreak(label string) {
	g.breakLabels = append(g.breakLabels, label)
}

func (g *Generator) popBreak() {
	g.breakLabels = g.breakLabels[:len(g.breakLabels)-1]
}

// isGlobal reports whether the symbol lives in the program scope.
func (g *Generator) isGlobal(sym *symbols.Symbol) bool {
	return sym.Scope == g.res.ProgramScope
}
