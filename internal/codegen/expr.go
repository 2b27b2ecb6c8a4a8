package codegen

import (
	"strconv"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// emitExprConv emits the expression and, when the checker recorded an
// implicit string conversion site on it, the matching conversion call.
func (g *Generator) emitExprConv(scope symbols.ScopeID, exprID ast.ExprID) {
	g.emitExpr(scope, exprID)
	if g.res.StringConv[exprID] {
		g.emitStringConversion(g.exprType(exprID))
	}
}

func (g *Generator) emitStringConversion(from types.TypeID) {
	tt, ok := g.tys.Lookup(from)
	if !ok {
		return
	}
	switch tt.Kind {
	case types.KindPrimitive:
		switch tt.Prim {
		case types.PrimInt:
			g.emit("invokestatic java/lang/Integer.toString (I)java/lang/String")
		case types.PrimFloat:
			g.emit("invokestatic java/lang/Float.toString (F)java/lang/String")
		case types.PrimBool:
			g.emit("invokestatic java/lang/Boolean.toString (Z)java/lang/String")
		}
	case types.KindUserDefined:
		g.emitf("invokevirtual %s.$toString_() java/lang/String", tt.Name)
	case types.KindPointer, types.KindArray:
		g.emit("invokestatic java/lang/String.valueOf(java/lang/Object)java/lang/String")
	}
}

func (g *Generator) emitExpr(scope symbols.ScopeID, exprID ast.ExprID) {
	expr := g.builder.Expr(exprID)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprLiteral:
		g.emitLiteral(expr)
	case ast.ExprIdent:
		g.emitLoadIdent(scope, expr)
	case ast.ExprCall:
		g.emitCallExpr(scope, exprID, expr, false)
	case ast.ExprFieldAccess:
		g.emitFieldAccess(scope, exprID, expr)
	case ast.ExprIndex:
		g.emitExpr(scope, expr.X)
		g.emitExpr(scope, expr.Y)
		g.emitf("%saload", loadPrefix(g.tys, g.exprType(exprID)))
	case ast.ExprUnary:
		g.emitUnary(scope, expr)
	case ast.ExprPostfix:
		g.emitPostfix(scope, expr)
	case ast.ExprBinary:
		g.emitBinary(scope, exprID, expr)
	case ast.ExprCast:
		g.emitCast(scope, exprID, expr)
	case ast.ExprIfExpr:
		g.emitIfExpr(scope, expr)
	case ast.ExprDeref:
		g.emitExpr(scope, expr.X)
		pointee, ok := g.tys.Lookup(g.tys.Pointee(g.exprType(expr.X)))
		if ok && pointee.Kind == types.KindPrimitive && pointee.Prim != types.PrimVoid {
			g.emitf("invokevirtual %s.getValue() %s", pointee.Prim.BoxClass(), primDescriptor(pointee.Prim))
		}
	case ast.ExprRef:
		g.emitRef(scope, expr)
	case ast.ExprNewPrim:
		g.emitNewPrim(scope, exprID, expr)
	case ast.ExprNewArray:
		g.emitNewArray(scope, exprID, expr)
	case ast.ExprNewStruct:
		g.emitNewStruct(scope, exprID, expr)
	case ast.ExprArrayLit:
		g.emitArrayLit(scope, exprID, expr)
	case ast.ExprTuple:
		diag.Error(g.reporter, diag.SemaTypeMismatch, expr.Span,
			"tuple values outside destructuring have no runtime representation")
	}
}

func (g *Generator) emitLiteral(expr *ast.Expr) {
	text := g.builder.Name(expr.Text)
	switch expr.Lit {
	case ast.LitInt, ast.LitFloat, ast.LitString:
		g.emit("ldc " + text)
	case ast.LitHex:
		// hex and binary literals are emitted as their decimal form
		value, err := strconv.ParseInt(text[2:], 16, 64)
		if err == nil {
			g.emitf("ldc %d", value)
		}
	case ast.LitBin:
		value, err := strconv.ParseInt(text[2:], 2, 64)
		if err == nil {
			g.emitf("ldc %d", value)
		}
	case ast.LitTrue:
		g.emit("iconst 1")
	case ast.LitFalse:
		g.emit("iconst 0")
	case ast.LitNullptr:
		g.emit("aconst_null")
	}
}

func (g *Generator) emitLoadIdent(scope symbols.ScopeID, expr *ast.Expr) {
	sym := g.table.Sym(g.table.Resolve(scope, expr.Text))
	if sym == nil {
		return
	}
	switch {
	case sym.StructMember:
		owner := g.table.Sym(sym.ParentStruct)
		g.emit("aload 0")
		g.emitf("getfield %s.%s %s",
			g.table.Name(owner.Name), g.table.Name(sym.Name), jvmType(g.tys, sym.DataType))
	case g.isGlobal(sym):
		g.emitf("getstatic Main.%s %s", g.table.Name(sym.Name), jvmType(g.tys, sym.DataType))
	default:
		g.emitf("%sload %d", loadPrefix(g.tys, sym.DataType), sym.LocalIndex)
	}
}

func (g *Generator) emitUnary(scope symbols.ScopeID, expr *ast.Expr) {
	operandType := g.exprType(expr.X)
	prefix := loadPrefix(g.tys, operandType)
	switch expr.Unary {
	case ast.UnaryPlus:
		g.emitExpr(scope, expr.X)
	case ast.UnaryMinus:
		g.emitExpr(scope, expr.X)
		g.emit(prefix + "neg")
	case ast.UnaryNot:
		g.emitExpr(scope, expr.X)
		trueLabel := g.newLabel()
		endLabel := g.newLabel()
		// pushes 1 exactly when the operand is false/null
		if g.tys.IsPointer(operandType) {
			g.emit("ifnull " + trueLabel)
		} else {
			g.emit("ifeq " + trueLabel)
		}
		g.emit("iconst 0")
		g.emit("goto " + endLabel)
		g.placeLabel(trueLabel)
		g.emit("iconst 1")
		g.placeLabel(endLabel)
	case ast.UnaryBitNot:
		g.emitExpr(scope, expr.X)
		g.emit("iconst -1")
		g.emit("ixor")
	case ast.UnaryInc, ast.UnaryDec:
		g.emitIncDec(scope, expr.X, expr.Unary == ast.UnaryInc, false, expr)
	}
}

func (g *Generator) emitPostfix(scope symbols.ScopeID, expr *ast.Expr) {
	g.emitIncDec(scope, expr.X, expr.Post == ast.PostfixInc, true, expr)
}

// emitIncDec updates a variable or this-member in place. Postfix leaves the
// pre-update value on the stack; prefix leaves the updated one.
func (g *Generator) emitIncDec(scope symbols.ScopeID, operand ast.ExprID, inc, postfix bool, expr *ast.Expr) {
	target := g.builder.Expr(operand)
	if target == nil || target.Kind != ast.ExprIdent {
		diag.Error(g.reporter, diag.SemaTypeMismatch, expr.Span,
			"increment/decrement target must be a variable")
		return
	}
	sym := g.table.Sym(g.table.Resolve(scope, target.Text))
	if sym == nil {
		return
	}
	prefix := loadPrefix(g.tys, sym.DataType)
	one := "iconst 1"
	if prefix == "f" {
		one = "fconst_1"
	}
	op := prefix + "add"
	if !inc {
		op = prefix + "sub"
	}

	if sym.StructMember {
		owner := g.table.Name(g.table.Sym(sym.ParentStruct).Name)
		name := g.table.Name(sym.Name)
		desc := jvmType(g.tys, sym.DataType)
		if postfix {
			// old value stays below the write-back
			g.emit("aload 0")
			g.emitf("getfield %s.%s %s", owner, name, desc)
		}
		g.emit("aload 0")
		g.emit("aload 0")
		g.emitf("getfield %s.%s %s", owner, name, desc)
		g.emit(one)
		g.emit(op)
		if !postfix {
			g.emit("dup_x1")
		}
		g.emitf("putfield %s.%s %s", owner, name, desc)
		return
	}

	index := sym.LocalIndex
	g.emitf("%sload %d", prefix, index)
	if postfix {
		g.emit("dup")
		g.emit(one)
		g.emit(op)
		g.emitf("%sstore %d", prefix, index)
		return
	}
	g.emit(one)
	g.emit(op)
	g.emit("dup")
	g.emitf("%sstore %d", prefix, index)
}

var arithOps = map[ast.BinOp]string{
	ast.BinAdd: "add",
	ast.BinSub: "sub",
	ast.BinMul: "mul",
	ast.BinDiv: "div",
	ast.BinRem: "rem",
	ast.BinShl: "shl",
	ast.BinShr: "shr",
	ast.BinAnd: "and",
	ast.BinOr:  "or",
	ast.BinXor: "xor",
}

var compareSuffix = map[ast.BinOp]string{
	ast.BinEq: "eq",
	ast.BinNe: "ne",
	ast.BinLt: "lt",
	ast.BinGt: "gt",
	ast.BinLe: "le",
	ast.BinGe: "ge",
}

func (g *Generator) emitBinary(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	switch {
	case expr.Bin.IsLogical():
		g.emitLogical(scope, expr)
	case expr.Bin.IsCompare():
		g.emitCompare(scope, expr)
	case expr.Bin == ast.BinAdd && g.tys.IsString(g.exprType(exprID)):
		// string concatenation
		g.emitExprConv(scope, expr.X)
		g.emitExprConv(scope, expr.Y)
		g.emit("invokedynamic makeConcatWithConstants(java/lang/String, java/lang/String)java/lang/String {\"\\u0001\\u0001\"}")
	default:
		g.emitExpr(scope, expr.X)
		g.emitExpr(scope, expr.Y)
		prefix := loadPrefix(g.tys, g.exprType(expr.X))
		g.emit(prefix + arithOps[expr.Bin])
	}
}

// emitCompare lowers a comparison into a jump to a true-label: the
// fallthrough pushes 0, the true branch pushes 1.
func (g *Generator) emitCompare(scope symbols.ScopeID, expr *ast.Expr) {
	leftType := g.exprType(expr.X)
	g.emitExpr(scope, expr.X)
	g.emitExpr(scope, expr.Y)

	trueLabel := g.newLabel()
	endLabel := g.newLabel()
	suffix := compareSuffix[expr.Bin]

	switch {
	case g.tys.IsString(leftType):
		g.emit("invokevirtual java/lang/String.equals(java/lang/Object)Z")
		if expr.Bin == ast.BinEq {
			g.emit("ifne " + trueLabel)
		} else {
			g.emit("ifeq " + trueLabel)
		}
	case g.tys.IsNumeric(leftType) && loadPrefix(g.tys, leftType) == "f":
		g.emit("fcmpg")
		g.emitf("if%s %s", suffix, trueLabel)
	case g.tys.IsNumeric(leftType) || g.tys.IsBool(leftType):
		g.emitf("if_icmp%s %s", suffix, trueLabel)
	default:
		// references compare by identity; only eq/ne pass the checker
		g.emitf("if_acmp%s %s", suffix, trueLabel)
	}
	g.emit("iconst 0")
	g.emit("goto " + endLabel)
	g.placeLabel(trueLabel)
	g.emit("iconst 1")
	g.placeLabel(endLabel)
}

// emitLogical short-circuits && and || through a fallthrough/exit label pair.
func (g *Generator) emitLogical(scope symbols.ScopeID, expr *ast.Expr) {
	shortLabel := g.newLabel()
	endLabel := g.newLabel()
	isAnd := expr.Bin == ast.BinLogicalAnd

	branch := func(operand ast.ExprID) {
		operandType := g.exprType(operand)
		pointer := g.tys.IsPointer(operandType)
		if isAnd {
			if pointer {
				g.emit("ifnull " + shortLabel)
			} else {
				g.emit("ifeq " + shortLabel)
			}
			return
		}
		if pointer {
			g.emit("ifnonnull " + shortLabel)
		} else {
			g.emit("ifne " + shortLabel)
		}
	}

	g.emitExpr(scope, expr.X)
	branch(expr.X)
	g.emitExpr(scope, expr.Y)
	branch(expr.Y)

	if isAnd {
		g.emit("iconst 1")
		g.emit("goto " + endLabel)
		g.placeLabel(shortLabel)
		g.emit("iconst 0")
	} else {
		g.emit("iconst 0")
		g.emit("goto " + endLabel)
		g.placeLabel(shortLabel)
		g.emit("iconst 1")
	}
	g.placeLabel(endLabel)
}

func (g *Generator) emitIfExpr(scope symbols.ScopeID, expr *ast.Expr) {
	elseLabel := g.newLabel()
	endLabel := g.newLabel()
	g.emitExpr(scope, expr.X)
	g.branchIfFalse(g.exprType(expr.X), elseLabel)
	g.emitExprConv(scope, expr.Y)
	g.emit("goto " + endLabel)
	g.placeLabel(elseLabel)
	g.emitExprConv(scope, expr.Z)
	g.placeLabel(endLabel)
}

func (g *Generator) emitRef(scope symbols.ScopeID, expr *ast.Expr) {
	operandType := g.exprType(expr.X)
	if g.tys.IsPointer(operandType) {
		g.emitExpr(scope, expr.X)
		return
	}
	tt, ok := g.tys.Lookup(operandType)
	if ok && tt.Kind == types.KindPrimitive && tt.Prim != types.PrimVoid {
		// taking the address of a primitive boxes its current value
		box := tt.Prim.BoxClass()
		g.emit("new " + box)
		g.emit("dup")
		g.emitExpr(scope, expr.X)
		g.emitf("invokespecial %s.<init>(%s)V", box, primDescriptor(tt.Prim))
		return
	}
	g.emitExpr(scope, expr.X)
}

func (g *Generator) emitNewPrim(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	pointee, ok := g.tys.Lookup(g.tys.Pointee(g.exprType(exprID)))
	if !ok || pointee.Kind != types.KindPrimitive {
		return
	}
	box := pointee.Prim.BoxClass()
	g.emit("new " + box)
	g.emit("dup")
	g.emitExprConv(scope, expr.X)
	g.emitf("invokespecial %s.<init>(%s)V", box, primDescriptor(pointee.Prim))
}

func (g *Generator) emitNewArray(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	for _, dim := range expr.List {
		g.emitExpr(scope, dim)
	}
	g.emitf("multianewarray %s %d", jvmType(g.tys, g.exprType(exprID)), len(expr.List))
}

func (g *Generator) emitArrayLit(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	arrayType := g.exprType(exprID)
	elemType := g.tys.Elem(arrayType)
	g.emitf("ldc %d", len(expr.List))
	g.emitf("multianewarray %s 1", jvmType(g.tys, arrayType))
	for i, elem := range expr.List {
		g.emit("dup")
		g.emitf("ldc %d", i)
		g.emitExprConv(scope, elem)
		g.emitf("%sastore", loadPrefix(g.tys, elemType))
	}
}

func (g *Generator) emitNewStruct(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	ctor := g.table.Sym(g.res.CallTargets[exprID])
	if ctor == nil {
		return
	}
	structName := g.builder.Name(expr.Text)
	g.emit("new " + structName)
	g.emit("dup")
	descs := ""
	for i, arg := range expr.List {
		g.emitExprConv(scope, arg)
		if i > 0 {
			descs += ", "
		}
		if param := g.table.Sym(ctor.Params[i]); param != nil {
			descs += jvmType(g.tys, param.DataType)
		}
	}
	g.emitf("invokespecial %s.<init>(%s)V", structName, descs)
}

func (g *Generator) emitCast(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) {
	g.emitExpr(scope, expr.X)
	srcType := g.exprType(expr.X)
	tgtType := g.exprType(exprID)
	src, okSrc := g.tys.Lookup(srcType)
	tgt, okTgt := g.tys.Lookup(tgtType)
	if !okSrc || !okTgt {
		return
	}
	switch {
	case srcType == tgtType:
	case src.Kind == types.KindPrimitive && tgt.Kind == types.KindPrimitive:
		g.convertPrimitive(src.Prim, tgt.Prim)
	case src.Kind == types.KindPointer && tgt.Kind == types.KindPrimitive && tgt.Prim == types.PrimInt:
		g.emit("invokestatic java/lang/System.identityHashCode(java/lang/Object)I")
	case src.Kind == types.KindPointer && tgt.Kind == types.KindPrimitive && tgt.Prim == types.PrimString:
		g.emit("invokestatic java/lang/String.valueOf(java/lang/Object)java/lang/String")
	case src.Kind == types.KindUserDefined && tgt.Kind == types.KindPrimitive && tgt.Prim == types.PrimString:
		g.emitf("invokevirtual %s.$toString_() java/lang/String", src.Name)
	}
}

// convertPrimitive emits the primitive-to-primitive bridge: int and bool
// share a JVM category, numeric pairs use i2f/f2i, string conversions go
// through the static toString/parse helpers.
func (g *Generator) convertPrimitive(from, to types.PrimKind) {
	if from == to {
		return
	}
	switch {
	case from == types.PrimInt && to == types.PrimFloat:
		g.emit("i2f")
	case from == types.PrimFloat && to == types.PrimInt:
		g.emit("f2i")
	case (from == types.PrimInt && to == types.PrimBool) || (from == types.PrimBool && to == types.PrimInt):
		// same JVM category, no instruction needed
	case to == types.PrimString:
		g.emitStringConversion(g.tys.Primitive(from))
	case from == types.PrimString:
		switch to {
		case types.PrimInt:
			g.emit("invokestatic java/lang/Integer.parseInt(java/lang/String)I")
		case types.PrimFloat:
			g.emit("invokestatic java/lang/Float.parseFloat(java/lang/String)F")
		case types.PrimBool:
			g.emit("invokestatic java/lang/Boolean.parseBoolean(java/lang/String)Z")
		}
	}
}
