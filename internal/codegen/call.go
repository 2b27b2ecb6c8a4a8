package codegen

import (
	"cgull/internal/ast"
	"cgull/internal/source"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// emitCallExpr lowers a plain (non-hop) call. Method hops pass asMethod=true
// with the receiver already on the stack.
func (g *Generator) emitCallExpr(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr, asMethod bool) {
	fnID := g.res.CallTargets[exprID]
	fn := g.table.Sym(fnID)
	if fn == nil {
		return
	}
	if fn.Builtin {
		g.emitBuiltinCall(scope, expr, fnID, fn)
		return
	}
	// a struct method called without an explicit receiver gets `this`
	if fn.StructMethod && !asMethod {
		g.emit("aload 0")
	}
	for _, arg := range expr.List {
		g.emitExprConv(scope, arg)
	}
	g.emitCall(fnID)
}

func (g *Generator) emitBuiltinCall(scope symbols.ScopeID, expr *ast.Expr, fnID symbols.SymbolID, fn *symbols.Symbol) {
	name := g.table.Name(fn.Name)
	switch name {
	case "println", "print":
		if len(expr.List) == 2 {
			// print(value, end) lowers into two print(string) calls
			printOne := g.table.ResolveFunctionCall(g.table.Global,
				g.table.Strings.Intern("print"),
				[]types.TypeID{g.tys.Builtins().String})
			for _, arg := range expr.List {
				g.emit("getstatic java/lang/System.out java/io/PrintStream")
				g.emitExprConv(scope, arg)
				g.emitCall(printOne)
			}
			return
		}
		g.emit("getstatic java/lang/System.out java/io/PrintStream")
		for _, arg := range expr.List {
			g.emitExprConv(scope, arg)
		}
		g.emitCall(fnID)
	case "readline", "read":
		// delimiter arguments carry no runtime meaning for the scanner call
		g.emitCall(fnID)
	case "sqrt":
		for _, arg := range expr.List {
			g.emitExprConv(scope, arg)
		}
		g.emit("invokestatic java/lang/Math.sqrt(F)F")
	default:
		for _, arg := range expr.List {
			g.emitExprConv(scope, arg)
		}
		g.emitCall(fnID)
	}
}

// emitFieldAccess emits the head and every hop, leaving the final value.
func (g *Generator) emitFieldAccess(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	g.emitExpr(scope, expr.X)
	steps := g.res.HopTypes[exprID]
	cur := g.exprType(expr.X)
	for i := range expr.Hops {
		cur = g.emitHop(scope, cur, &expr.Hops[i], steps, i)
	}
}

// emitHop lowers one field-access step: an optional unbox/deref for ->, then
// a getfield, an element load, or a method invocation. Returns the type the
// hop leaves on the stack.
func (g *Generator) emitHop(scope symbols.ScopeID, prev types.TypeID, hop *ast.FieldHop, steps []types.TypeID, index int) types.TypeID {
	owner := prev
	if hop.Arrow {
		pointee, ok := g.tys.Lookup(g.tys.Pointee(prev))
		if ok && pointee.Kind == types.KindPrimitive && pointee.Prim != types.PrimVoid {
			g.emitf("invokevirtual %s.getValue() %s", pointee.Prim.BoxClass(), primDescriptor(pointee.Prim))
		}
		owner = g.tys.Pointee(prev)
	}

	result := g.tys.Builtins().Void
	if index < len(steps) {
		result = steps[index]
	}
	ownerName := g.tys.String(owner)

	switch {
	case hop.Call.IsValid():
		call := g.builder.Expr(hop.Call)
		for _, arg := range call.List {
			g.emitExprConv(scope, arg)
		}
		g.emitCall(g.res.CallTargets[hop.Call])
	case hop.Index.IsValid():
		fieldType := g.fieldTypeOf(owner, hop.Name)
		g.emitf("getfield %s.%s %s", ownerName, g.builder.Name(hop.Name), jvmType(g.tys, fieldType))
		g.emitExpr(scope, hop.Index)
		g.emitf("%saload", loadPrefix(g.tys, result))
	default:
		g.emitf("getfield %s.%s %s", ownerName, g.builder.Name(hop.Name), jvmType(g.tys, result))
	}
	return result
}

// fieldTypeOf resolves a member's declared type for descriptor emission.
func (g *Generator) fieldTypeOf(owner types.TypeID, name source.StringID) types.TypeID {
	tt, ok := g.tys.Lookup(owner)
	if !ok || tt.Kind != types.KindUserDefined {
		return g.tys.Builtins().Void
	}
	structSym := g.table.Sym(symbols.SymbolID(tt.Ref))
	if structSym == nil {
		return g.tys.Builtins().Void
	}
	member := g.table.Sym(g.table.Resolve(structSym.MemberScope, name))
	if member == nil {
		return g.tys.Builtins().Void
	}
	return member.DataType
}
