package sema

import (
	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/symbols"
)

// useBeforeDef is the fifth pass: a final walk over resolved symbols that
// reports reads and calls preceding the declarer's definition point. It is
// the only pass allowed to flip isDefined bits after collection.
type useBeforeDef struct {
	analysis
}

func (u *useBeforeDef) run(file *ast.File) {
	for _, itemID := range file.Items {
		u.visitItem(u.res.ProgramScope, itemID)
	}
}

func (u *useBeforeDef) visitItem(scope symbols.ScopeID, itemID ast.ItemID) {
	item := u.builder.Item(itemID)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		decl := u.builder.Stmt(item.Decl)
		if decl != nil {
			u.visitExpr(scope, decl.Value)
		}
	case ast.ItemFn:
		// the function becomes defined on entry so recursion is legal
		if sym := u.table.Sym(u.res.FnSymbols[itemID]); sym != nil {
			sym.Defined = true
		}
		u.visitBlock(u.res.ItemScopes[itemID], item.Body)
	case ast.ItemStruct:
		if sym := u.table.Sym(u.res.StructSymbols[itemID]); sym != nil {
			sym.Defined = true
		}
		structScope := u.res.ItemScopes[itemID]
		for _, member := range item.Members {
			if member.IsFn {
				u.visitItem(structScope, member.Fn)
				continue
			}
			decl := u.builder.Stmt(member.Decl)
			if decl != nil {
				u.visitExpr(structScope, decl.Value)
			}
		}
	}
}

func (u *useBeforeDef) visitBlock(scope symbols.ScopeID, blockID ast.BlockID) {
	block := u.builder.Block(blockID)
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		u.visitStmt(scope, stmt)
	}
}

func (u *useBeforeDef) visitStmt(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := u.builder.Stmt(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVarDecl, ast.StmtDestructure, ast.StmtExpr, ast.StmtReturn:
		u.visitExpr(scope, stmt.Value)
	case ast.StmtAssign:
		target := u.builder.Expr(stmt.Target)
		plainIdent := target != nil && target.Kind == ast.ExprIdent
		if !plainIdent {
			u.visitExpr(scope, stmt.Target)
		}
		u.visitExpr(scope, stmt.Value)
		// assigning through a plain identifier defines the variable
		if plainIdent {
			if sym := u.table.Sym(u.table.Resolve(scope, target.Text)); sym != nil {
				sym.Defined = true
			}
		}
	case ast.StmtIf:
		for i, cond := range stmt.Conds {
			u.visitExpr(scope, cond)
			u.visitBlock(u.res.BlockScopes[stmt.Blocks[i]], stmt.Blocks[i])
		}
		if stmt.Else.IsValid() {
			u.visitBlock(u.res.BlockScopes[stmt.Else], stmt.Else)
		}
	case ast.StmtWhile, ast.StmtUntil:
		loop := u.res.StmtScopes[stmtID]
		u.visitExpr(loop, stmt.Cond)
		u.visitBlock(loop, stmt.Body)
	case ast.StmtFor:
		loop := u.res.StmtScopes[stmtID]
		if stmt.Init.IsValid() {
			u.visitStmt(loop, stmt.Init)
		}
		u.visitExpr(loop, stmt.Cond)
		u.visitExpr(loop, stmt.Update)
		u.visitBlock(loop, stmt.Body)
	case ast.StmtLoop:
		u.visitBlock(u.res.StmtScopes[stmtID], stmt.Body)
	case ast.StmtBreak:
	}
}

func (u *useBeforeDef) visitExpr(scope symbols.ScopeID, exprID ast.ExprID) {
	expr := u.builder.Expr(exprID)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent:
		// struct members live from construction on; only plain variables
		// have a definition point inside a body
		sym := u.table.Sym(u.table.Resolve(scope, expr.Text))
		if sym != nil && !sym.Defined && !sym.StructMember {
			u.errorf(diag.SemaUseBeforeDefinition, expr.Span,
				"use of '%s' before its definition", u.name(expr.Text))
		}
		return
	case ast.ExprCall:
		if sym := u.table.Sym(u.table.Resolve(scope, expr.Text)); sym != nil && !sym.Defined {
			u.errorf(diag.SemaUseBeforeDefinition, expr.Span,
				"call to function '%s' before its definition", u.name(expr.Text))
		}
	case ast.ExprCast:
		if node := u.builder.Type(expr.Type); node != nil && node.Kind == ast.TypeName {
			sym := u.table.Sym(u.table.Resolve(scope, node.Name))
			if sym != nil && sym.Kind == symbols.SymbolType && !sym.Defined {
				u.errorf(diag.SemaUseBeforeDefinition, expr.Span,
					"use of '%s' before its definition", u.name(node.Name))
			}
		}
	}
	u.visitExpr(scope, expr.X)
	u.visitExpr(scope, expr.Y)
	u.visitExpr(scope, expr.Z)
	for _, sub := range expr.List {
		u.visitExpr(scope, sub)
	}
	for _, hop := range expr.Hops {
		if hop.Call.IsValid() {
			for _, arg := range u.builder.Expr(hop.Call).List {
				u.visitExpr(scope, arg)
			}
		}
		if hop.Index.IsValid() {
			u.visitExpr(scope, hop.Index)
		}
	}
}
