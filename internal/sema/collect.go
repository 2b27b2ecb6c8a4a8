package sema

import (
	"fmt"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/source"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// collector is the first pass: it builds the scope tree, registers every
// declared symbol, resolves declared types, and reports redeclaration,
// redefinition, and unresolved-name errors.
type collector struct {
	analysis
}

func (c *collector) run(file *ast.File) {
	program := c.table.NewScope(symbols.ScopeProgram, c.table.Global, file.Span)
	c.res.ProgramScope = program
	for _, item := range file.Items {
		c.collectItem(program, item)
	}
}

func (c *collector) collectItem(scope symbols.ScopeID, itemID ast.ItemID) {
	item := c.builder.Item(itemID)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		c.declareVar(scope, item.Decl, varOpts{})
	case ast.ItemFn:
		c.collectFn(scope, itemID, false)
	case ast.ItemStruct:
		c.collectStruct(scope, itemID)
	}
}

func (c *collector) collectStruct(scope symbols.ScopeID, itemID ast.ItemID) {
	item := c.builder.Item(itemID)
	structScope := c.table.NewScope(symbols.ScopeStruct, scope, item.Span)
	c.res.ItemScopes[itemID] = structScope

	pos := c.position(item.NameSpan)
	structSym := &symbols.Symbol{
		Name:        item.Name,
		Kind:        symbols.SymbolType,
		Scope:       structScope,
		Span:        item.NameSpan,
		Line:        pos.Line,
		Column:      pos.Column,
		MemberScope: structScope,
	}
	structID := c.table.Symbols.New(structSym)
	c.table.Sym(structID).TypeRep = c.types.User(types.SymbolRef(structID), c.name(item.Name))
	c.res.StructSymbols[itemID] = structID

	if !c.table.Add(scope, structID) {
		conflict := c.table.Sym(c.table.Resolve(scope, item.Name))
		c.reportConflict(diag.SemaRedefinition, item.NameSpan,
			"redefinition of struct '%s'", c.name(item.Name), conflict)
	}

	for _, member := range item.Members {
		if member.IsFn {
			c.collectFn(structScope, member.Fn, member.Private)
			continue
		}
		c.declareVar(structScope, member.Decl, varOpts{
			structMember: true,
			private:      member.Private,
			parentStruct: structID,
		})
	}
}

func (c *collector) collectFn(scope symbols.ScopeID, itemID ast.ItemID, private bool) {
	item := c.builder.Item(itemID)
	fnScope := c.table.NewScope(symbols.ScopeFunction, scope, item.Span)
	c.res.ItemScopes[itemID] = fnScope

	pos := c.position(item.NameSpan)
	fnSym := &symbols.Symbol{
		Name:    item.Name,
		Kind:    symbols.SymbolFunction,
		Scope:   fnScope,
		Span:    item.NameSpan,
		Line:    pos.Line,
		Column:  pos.Column,
		Defined: true, // for recursion
		Private: private,
	}
	fnID := c.table.Symbols.New(fnSym)
	c.res.FnSymbols[itemID] = fnID

	structID := c.table.StructScopeOf(scope)

	for _, param := range item.Params {
		paramType := resolveType(&c.analysis, scope, param.Type)
		if paramType == types.NoTypeID {
			c.errorf(diag.SemaUnresolvedReference, param.Span,
				"unresolved type %s", c.typeText(param.Type))
			paramType = c.void()
		}
		paramPos := c.position(param.Span)
		paramSym := &symbols.Symbol{
			Name:       param.Name,
			Kind:       symbols.SymbolParameter,
			Scope:      fnScope,
			Span:       param.Span,
			Line:       paramPos.Line,
			Column:     paramPos.Column,
			Defined:    true,
			DataType:   paramType,
			LocalIndex: -1,
		}
		paramID := c.table.Symbols.New(paramSym)
		if !c.table.Add(fnScope, paramID) {
			conflict := c.table.Sym(c.table.Resolve(fnScope, param.Name))
			c.reportConflict(diag.SemaRedeclaration, param.Span,
				"redeclaration of variable '%s'", c.name(param.Name), conflict)
		}
		fn := c.table.Sym(fnID)
		fn.Params = append(fn.Params, paramID)
	}

	// struct methods receive `this` as a local variable in slot 0,
	// not as a declared parameter
	if structID.IsValid() {
		structSym := c.table.Sym(structID)
		thisSym := &symbols.Symbol{
			Name:       c.builder.Strings.Intern("this"),
			Kind:       symbols.SymbolVariable,
			Scope:      fnScope,
			Span:       item.NameSpan,
			Line:       pos.Line,
			Column:     pos.Column,
			Defined:    true,
			DataType:   c.types.Pointer(structSym.TypeRep),
			LocalIndex: -1,
		}
		c.table.Add(fnScope, c.table.Symbols.New(thisSym))
		c.table.Sym(fnID).StructMethod = true
	}

	c.table.Sym(fnID).Returns = c.resolveReturns(scope, item)

	if !c.table.AddFunction(scope, fnID) {
		mangled := c.builder.Strings.Intern(c.table.MangledName(fnID))
		conflict := c.table.Sym(c.table.Resolve(scope, mangled))
		c.reportConflict(diag.SemaRedefinition, item.NameSpan,
			"redefinition of function '%s'", c.name(item.Name), conflict)
	}

	c.collectBlock(fnScope, item.Body)
}

func (c *collector) resolveReturns(scope symbols.ScopeID, item *ast.Item) []types.TypeID {
	if len(item.Returns) == 0 {
		return []types.TypeID{c.void()}
	}
	if item.MultiReturn {
		// several return types collapse into one tuple of types
		elems := make([]types.TypeID, 0, len(item.Returns))
		for _, ret := range item.Returns {
			resolved := resolveType(&c.analysis, scope, ret)
			if resolved == types.NoTypeID {
				c.errorf(diag.SemaUnresolvedReference, item.NameSpan,
					"unresolved type %s", c.typeText(ret))
				resolved = c.void()
			}
			elems = append(elems, resolved)
		}
		return []types.TypeID{c.types.Tuple(elems)}
	}
	resolved := resolveType(&c.analysis, scope, item.Returns[0])
	if resolved == types.NoTypeID {
		c.errorf(diag.SemaUnresolvedReference, item.NameSpan,
			"unresolved type %s", c.typeText(item.Returns[0]))
		resolved = c.void()
	}
	return []types.TypeID{resolved}
}

type varOpts struct {
	structMember bool
	private      bool
	parentStruct symbols.SymbolID
}

func (c *collector) declareVar(scope symbols.ScopeID, stmtID ast.StmtID, opts varOpts) {
	stmt := c.builder.Stmt(stmtID)
	if stmt == nil || stmt.Kind != ast.StmtVarDecl {
		return
	}
	dataType := resolveType(&c.analysis, scope, stmt.Type)
	if dataType == types.NoTypeID {
		c.errorf(diag.SemaUnresolvedReference, stmt.NameSpan,
			"unresolved type %s", c.typeText(stmt.Type))
		dataType = c.void()
	}
	pos := c.position(stmt.NameSpan)
	sym := &symbols.Symbol{
		Name:         stmt.Name,
		Kind:         symbols.SymbolVariable,
		Scope:        scope,
		Span:         stmt.NameSpan,
		Line:         pos.Line,
		Column:       pos.Column,
		Defined:      stmt.Value.IsValid(),
		Private:      opts.private,
		DataType:     dataType,
		Constant:     stmt.IsConst,
		StructMember: opts.structMember,
		ParentStruct: opts.parentStruct,
		HasDefault:   opts.structMember && stmt.Value.IsValid(),
		LocalIndex:   -1,
	}
	symID := c.table.Symbols.New(sym)
	if !c.table.Add(scope, symID) {
		conflict := c.table.Sym(c.table.Resolve(scope, stmt.Name))
		c.reportConflict(diag.SemaRedeclaration, stmt.NameSpan,
			"redeclaration of variable '%s'", c.name(stmt.Name), conflict)
	}
	c.res.VarSymbols[stmtID] = symID
	if stmt.Value.IsValid() {
		c.checkIdents(scope, stmt.Value)
	}
}

func (c *collector) collectBlock(scope symbols.ScopeID, blockID ast.BlockID) {
	block := c.builder.Block(blockID)
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		c.collectStmt(scope, stmt)
	}
}

func (c *collector) collectStmt(scope symbols.ScopeID, stmtID ast.StmtID) {
	stmt := c.builder.Stmt(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVarDecl:
		c.declareVar(scope, stmtID, varOpts{})
	case ast.StmtDestructure:
		var syms []symbols.SymbolID
		for _, item := range stmt.Items {
			itemType := resolveType(&c.analysis, scope, item.Type)
			if itemType == types.NoTypeID {
				c.errorf(diag.SemaUnresolvedReference, item.Span,
					"unresolved type %s", c.typeText(item.Type))
				itemType = c.void()
			}
			pos := c.position(item.Span)
			sym := &symbols.Symbol{
				Name:       item.Name,
				Kind:       symbols.SymbolVariable,
				Scope:      scope,
				Span:       item.Span,
				Line:       pos.Line,
				Column:     pos.Column,
				Defined:    true,
				DataType:   itemType,
				Constant:   stmt.IsConst,
				LocalIndex: -1,
			}
			symID := c.table.Symbols.New(sym)
			if !c.table.Add(scope, symID) {
				conflict := c.table.Sym(c.table.Resolve(scope, item.Name))
				c.reportConflict(diag.SemaRedeclaration, item.Span,
					"redeclaration of variable '%s'", c.name(item.Name), conflict)
			}
			syms = append(syms, symID)
		}
		c.res.DestrSymbols[stmtID] = syms
		c.checkIdents(scope, stmt.Value)
	case ast.StmtAssign:
		c.checkIdents(scope, stmt.Target)
		c.checkIdents(scope, stmt.Value)
	case ast.StmtExpr, ast.StmtReturn:
		c.checkIdents(scope, stmt.Value)
	case ast.StmtIf:
		for _, cond := range stmt.Conds {
			c.checkIdents(scope, cond)
		}
		for _, block := range stmt.Blocks {
			branch := c.table.NewScope(symbols.ScopeBlock, scope, c.builder.Block(block).Span)
			c.res.BlockScopes[block] = branch
			c.collectBlock(branch, block)
		}
		if stmt.Else.IsValid() {
			branch := c.table.NewScope(symbols.ScopeBlock, scope, c.builder.Block(stmt.Else).Span)
			c.res.BlockScopes[stmt.Else] = branch
			c.collectBlock(branch, stmt.Else)
		}
	case ast.StmtWhile, ast.StmtUntil:
		loop := c.table.NewScope(symbols.ScopeLoop, scope, stmt.Span)
		c.res.StmtScopes[stmtID] = loop
		c.checkIdents(loop, stmt.Cond)
		c.collectBlock(loop, stmt.Body)
	case ast.StmtFor:
		loop := c.table.NewScope(symbols.ScopeLoop, scope, stmt.Span)
		c.res.StmtScopes[stmtID] = loop
		if stmt.Init.IsValid() {
			c.collectStmt(loop, stmt.Init)
		}
		c.checkIdents(loop, stmt.Cond)
		c.checkIdents(loop, stmt.Update)
		c.collectBlock(loop, stmt.Body)
	case ast.StmtLoop:
		loop := c.table.NewScope(symbols.ScopeLoop, scope, stmt.Span)
		c.res.StmtScopes[stmtID] = loop
		c.collectBlock(loop, stmt.Body)
	case ast.StmtBreak:
	}
}

// checkIdents walks an expression and reports plain identifiers that do not
// resolve in the current chain. Function names are left to the type checker,
// which resolves them against overload sets.
func (c *collector) checkIdents(scope symbols.ScopeID, exprID ast.ExprID) {
	expr := c.builder.Expr(exprID)
	if expr == nil {
		return
	}
	if expr.Kind == ast.ExprIdent {
		if !c.table.Resolve(scope, expr.Text).IsValid() {
			c.errorf(diag.SemaUnresolvedReference, expr.Span,
				"unresolved variable %s", c.name(expr.Text))
		}
		return
	}
	c.checkIdents(scope, expr.X)
	c.checkIdents(scope, expr.Y)
	c.checkIdents(scope, expr.Z)
	for _, sub := range expr.List {
		c.checkIdents(scope, sub)
	}
	for _, hop := range expr.Hops {
		if hop.Call.IsValid() {
			for _, arg := range c.builder.Expr(hop.Call).List {
				c.checkIdents(scope, arg)
			}
		}
		if hop.Index.IsValid() {
			c.checkIdents(scope, hop.Index)
		}
	}
}

func (c *collector) reportConflict(code diag.Code, sp source.Span, format, name string, conflict *symbols.Symbol) {
	msg := fmt.Sprintf(format, name)
	if conflict != nil {
		msg += fmt.Sprintf(", previously declared at line %d column %d", conflict.Line, conflict.Column)
	}
	diag.Error(c.reporter, code, sp, msg)
}

// typeText renders a syntactic type node for diagnostics.
func (a *analysis) typeText(id ast.TypeID) string {
	node := a.builder.Type(id)
	if node == nil {
		return "?"
	}
	var text string
	switch node.Kind {
	case ast.TypeName:
		text = a.name(node.Name)
	case ast.TypeTuple:
		text = "("
		for i, elem := range node.Elems {
			if i > 0 {
				text += ", "
			}
			text += a.typeText(elem)
		}
		text += ")"
	default:
		text = "?"
	}
	for range node.Stars {
		text += "*"
	}
	for range node.ArraySuffixes {
		text += "[]"
	}
	return text
}
