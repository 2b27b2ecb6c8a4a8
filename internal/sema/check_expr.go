package sema

import (
	"strconv"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/source"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// exprType computes and records the type of an expression. Every visited
// node ends up in ExprTypes; unresolved expressions map to the void sentinel.
func (ck *checker) exprType(scope symbols.ScopeID, exprID ast.ExprID) types.TypeID {
	if !exprID.IsValid() {
		return ck.void()
	}
	expr := ck.builder.Expr(exprID)
	if expr == nil {
		return ck.void()
	}
	result := ck.computeExprType(scope, exprID, expr)
	ck.res.ExprTypes[exprID] = result
	return result
}

func (ck *checker) computeExprType(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) types.TypeID {
	b := ck.types.Builtins()
	switch expr.Kind {
	case ast.ExprLiteral:
		switch expr.Lit {
		case ast.LitInt, ast.LitHex, ast.LitBin:
			return b.Int
		case ast.LitFloat:
			return b.Float
		case ast.LitString:
			return b.String
		case ast.LitTrue, ast.LitFalse:
			return b.Bool
		case ast.LitNullptr:
			return b.NullPtr
		}
		return ck.void()

	case ast.ExprIdent:
		sym := ck.table.Sym(ck.table.Resolve(scope, expr.Text))
		if sym != nil && (sym.Kind == symbols.SymbolVariable || sym.Kind == symbols.SymbolParameter) {
			return sym.DataType
		}
		return ck.void()

	case ast.ExprCall:
		return ck.checkCall(scope, exprID, expr)

	case ast.ExprFieldAccess:
		return ck.checkFieldAccess(scope, exprID, expr)

	case ast.ExprIndex:
		return ck.checkIndex(scope, expr)

	case ast.ExprUnary:
		return ck.checkUnary(scope, expr)

	case ast.ExprPostfix:
		operand := ck.exprType(scope, expr.X)
		if !ck.types.IsNumeric(operand) || ck.types.IsBool(operand) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Postfix increment/decrement requires numeric type, got %s", ck.types.String(operand))
		}
		return operand

	case ast.ExprBinary:
		return ck.checkBinary(scope, expr)

	case ast.ExprCast:
		return ck.checkCast(scope, expr)

	case ast.ExprTuple:
		elems := make([]types.TypeID, 0, len(expr.List))
		for _, elem := range expr.List {
			elems = append(elems, ck.exprType(scope, elem))
		}
		return ck.types.Tuple(elems)

	case ast.ExprIfExpr:
		return ck.checkIfExpr(scope, expr)

	case ast.ExprDeref:
		operand := ck.exprType(scope, expr.X)
		if !ck.types.IsPointer(operand) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Cannot dereference non-pointer type %s", ck.types.String(operand))
			return ck.void()
		}
		return ck.types.Pointee(operand)

	case ast.ExprRef:
		operand := ck.exprType(scope, expr.X)
		if ck.types.IsPointer(operand) {
			return operand
		}
		return ck.types.Pointer(operand)

	case ast.ExprNewPrim:
		return ck.checkNewPrim(scope, expr)

	case ast.ExprNewArray:
		return ck.checkNewArray(scope, expr)

	case ast.ExprNewStruct:
		return ck.checkNewStruct(scope, exprID, expr)

	case ast.ExprArrayLit:
		return ck.checkArrayLit(scope, expr)

	default:
		return ck.void()
	}
}

func (ck *checker) checkCall(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) types.TypeID {
	argTypes := make([]types.TypeID, 0, len(expr.List))
	for _, arg := range expr.List {
		argTypes = append(argTypes, ck.exprType(scope, arg))
	}
	fnID := ck.table.ResolveFunctionCall(scope, expr.Text, argTypes)
	fn := ck.table.Sym(fnID)
	if fn == nil {
		ck.errorf(diag.SemaUnresolvedReference, expr.Span,
			"No matching function found for call to '%s'", ck.name(expr.Text))
		return ck.void()
	}
	ck.checkArguments(fn, argTypes, expr)
	ck.res.CallTargets[exprID] = fnID
	return ck.callResultType(fn)
}

func (ck *checker) checkArguments(fn *symbols.Symbol, argTypes []types.TypeID, call *ast.Expr) {
	name := ck.name(fn.Name)
	if len(argTypes) != len(fn.Params) {
		ck.errorf(diag.SemaTypeMismatch, call.Span,
			"Function call to '%s' with incorrect number of arguments. Expected %d, got %d",
			name, len(fn.Params), len(argTypes))
		return
	}
	for i, argType := range argTypes {
		param := ck.table.Sym(fn.Params[i])
		if param == nil {
			continue
		}
		if !ck.compatible(argType, param.DataType, call.List[i]) {
			ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(call.List[i]).Span,
				"Incompatible argument type for parameter %d of function '%s'. Expected %s, got %s",
				i+1, name, ck.types.String(param.DataType), ck.types.String(argType))
		}
	}
}

func (ck *checker) callResultType(fn *symbols.Symbol) types.TypeID {
	switch len(fn.Returns) {
	case 0:
		return ck.void()
	case 1:
		return fn.Returns[0]
	default:
		return ck.types.Tuple(fn.Returns)
	}
}

func (ck *checker) checkFieldAccess(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) types.TypeID {
	cur := ck.exprType(scope, expr.X)
	steps := make([]types.TypeID, 0, len(expr.Hops))
	failed := false
	for i := range expr.Hops {
		hop := &expr.Hops[i]
		if failed {
			steps = append(steps, ck.void())
			continue
		}
		if hop.Arrow {
			if !ck.types.IsPointer(cur) {
				ck.errorf(diag.SemaUnresolvedReference, hop.Span,
					"Cannot dereference non-pointer type %s", ck.types.String(cur))
				failed = true
				steps = append(steps, ck.void())
				continue
			}
			cur = ck.types.Pointee(cur)
		}
		switch {
		case hop.Call.IsValid():
			cur = ck.checkMethodCall(scope, cur, hop)
		case hop.Index.IsValid():
			fieldType, ok := ck.fieldType(scope, cur, hop)
			if !ok {
				failed = true
				cur = ck.void()
				break
			}
			cur = ck.indexElement(scope, fieldType, hop.Index, hop.Span)
		default:
			fieldType, ok := ck.fieldType(scope, cur, hop)
			if !ok {
				failed = true
				cur = ck.void()
				break
			}
			cur = fieldType
		}
		steps = append(steps, cur)
	}
	ck.res.HopTypes[exprID] = steps
	return cur
}

// fieldType resolves one named hop against the current type: a struct member
// or a numeric tuple index.
func (ck *checker) fieldType(scope symbols.ScopeID, base types.TypeID, hop *ast.FieldHop) (types.TypeID, bool) {
	tt, ok := ck.types.Lookup(base)
	if !ok {
		return ck.void(), false
	}
	fieldName := ck.name(hop.Name)
	switch tt.Kind {
	case types.KindUserDefined:
		structSym := ck.table.Sym(symbols.SymbolID(tt.Ref))
		if structSym == nil || !structSym.MemberScope.IsValid() {
			break
		}
		member := ck.table.Sym(ck.table.Resolve(structSym.MemberScope, hop.Name))
		if member == nil || (member.Kind != symbols.SymbolVariable && member.Kind != symbols.SymbolParameter) {
			break
		}
		if member.Private && !ck.scopeWithin(scope, structSym.MemberScope) {
			ck.errorf(diag.SemaAccessViolation, hop.Span,
				"cannot access private field '%s' of struct %s", fieldName, ck.types.String(base))
			return ck.void(), false
		}
		return member.DataType, true
	case types.KindTuple:
		index, err := strconv.Atoi(fieldName)
		if err == nil {
			elems := ck.types.TupleElems(base)
			if index >= 0 && index < len(elems) {
				return elems[index], true
			}
		}
	case types.KindPointer:
		// fields of a pointer require the -> operator
	}
	ck.errorf(diag.SemaUnresolvedReference, hop.Span,
		"Cannot resolve field '%s' in type %s", fieldName, ck.types.String(base))
	return ck.void(), false
}

func (ck *checker) scopeWithin(scope, ancestor symbols.ScopeID) bool {
	for scope.IsValid() {
		if scope == ancestor {
			return true
		}
		sc := ck.table.Scope(scope)
		if sc == nil {
			return false
		}
		scope = sc.Parent
	}
	return false
}

func (ck *checker) checkMethodCall(scope symbols.ScopeID, base types.TypeID, hop *ast.FieldHop) types.TypeID {
	call := ck.builder.Expr(hop.Call)
	argTypes := make([]types.TypeID, 0, len(call.List))
	for _, arg := range call.List {
		argTypes = append(argTypes, ck.exprType(scope, arg))
	}

	tt, ok := ck.types.Lookup(base)
	if !ok || tt.Kind == types.KindPrimitive {
		ck.errorf(diag.SemaUnresolvedReference, hop.Span,
			"Cannot call method '%s' on primitive type %s", ck.name(hop.Name), ck.types.String(base))
		ck.res.ExprTypes[hop.Call] = ck.void()
		return ck.void()
	}
	if tt.Kind != types.KindUserDefined {
		ck.errorf(diag.SemaUnresolvedReference, hop.Span,
			"Type %s does not support method calls", ck.types.String(base))
		ck.res.ExprTypes[hop.Call] = ck.void()
		return ck.void()
	}
	structSym := ck.table.Sym(symbols.SymbolID(tt.Ref))
	if structSym == nil || !structSym.MemberScope.IsValid() {
		ck.res.ExprTypes[hop.Call] = ck.void()
		return ck.void()
	}
	fnID := ck.table.ResolveFunctionCall(structSym.MemberScope, hop.Name, argTypes)
	fn := ck.table.Sym(fnID)
	if fn == nil {
		ck.errorf(diag.SemaUnresolvedReference, hop.Span,
			"Method '%s' not found in type %s", ck.name(hop.Name), ck.types.String(base))
		ck.res.ExprTypes[hop.Call] = ck.void()
		return ck.void()
	}
	ck.checkArguments(fn, argTypes, call)
	ck.res.CallTargets[hop.Call] = fnID
	result := ck.callResultType(fn)
	ck.res.ExprTypes[hop.Call] = result
	return result
}

func (ck *checker) checkIndex(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	base := ck.exprType(scope, expr.X)
	return ck.indexElement(scope, base, expr.Y, expr.Span)
}

// indexElement types `base[index]` for arrays, pointers, and literal-indexed tuples.
func (ck *checker) indexElement(scope symbols.ScopeID, base types.TypeID, indexExpr ast.ExprID, sp source.Span) types.TypeID {
	indexType := ck.exprType(scope, indexExpr)
	tt, ok := ck.types.Lookup(base)
	if !ok {
		return ck.void()
	}

	if tt.Kind == types.KindTuple {
		if !ck.types.IsInteger(indexType) {
			ck.errorf(diag.SemaTypeMismatch, sp,
				"Index type mismatch: expected int but got %s", ck.types.String(indexType))
			return ck.void()
		}
		idx, ok := ck.intLiteralValue(indexExpr)
		if !ok {
			ck.errorf(diag.SemaTypeMismatch, sp,
				"Tuple index must be an integer literal")
			return ck.void()
		}
		elems := ck.types.TupleElems(base)
		if idx < 0 || idx >= len(elems) {
			ck.errorf(diag.SemaOutOfBounds, sp,
				"Index out of bounds for tuple type: %d", idx)
			return ck.void()
		}
		return elems[idx]
	}

	if !ck.types.IsInteger(indexType) {
		ck.errorf(diag.SemaTypeMismatch, sp,
			"Index type mismatch: expected int but got %s", ck.types.String(indexType))
		return ck.void()
	}

	switch tt.Kind {
	case types.KindArray:
		return tt.Elem
	case types.KindPointer:
		return tt.Elem
	default:
		ck.errorf(diag.SemaTypeMismatch, sp,
			"Cannot index type %s (not an array/pointer type)", ck.types.String(base))
		return ck.void()
	}
}

// intLiteralValue extracts the compile-time value of an integer literal.
func (ck *checker) intLiteralValue(exprID ast.ExprID) (int, bool) {
	expr := ck.builder.Expr(exprID)
	if expr == nil || expr.Kind != ast.ExprLiteral {
		return 0, false
	}
	text := ck.name(expr.Text)
	switch expr.Lit {
	case ast.LitInt:
		v, err := strconv.Atoi(text)
		return v, err == nil
	case ast.LitHex:
		v, err := strconv.ParseInt(text[2:], 16, 64)
		return int(v), err == nil
	case ast.LitBin:
		v, err := strconv.ParseInt(text[2:], 2, 64)
		return int(v), err == nil
	default:
		return 0, false
	}
}

func (ck *checker) checkUnary(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	b := ck.types.Builtins()
	operand := ck.exprType(scope, expr.X)
	switch expr.Unary {
	case ast.UnaryPlus, ast.UnaryMinus:
		if !ck.types.IsNumeric(operand) || ck.types.IsBool(operand) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Unary operator requires numeric non-boolean operand, got %s", ck.types.String(operand))
			return b.Int
		}
		return operand
	case ast.UnaryNot:
		if ck.types.IsPointer(operand) {
			return b.Bool
		}
		if !ck.types.IsBool(operand) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Logical NOT operator requires boolean operand, got %s", ck.types.String(operand))
		}
		return b.Bool
	case ast.UnaryBitNot:
		if !ck.types.IsInteger(operand) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Bitwise NOT operator requires integer operand, got %s", ck.types.String(operand))
			return b.Int
		}
		return operand
	case ast.UnaryInc, ast.UnaryDec:
		if !ck.types.IsNumeric(operand) || ck.types.IsBool(operand) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Increment/decrement operator requires numeric operand, got %s", ck.types.String(operand))
		}
		return operand
	default:
		return ck.void()
	}
}

func (ck *checker) checkBinary(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	b := ck.types.Builtins()
	left := ck.exprType(scope, expr.X)
	right := ck.exprType(scope, expr.Y)

	switch {
	case expr.Bin.IsArith():
		// string concatenation with +: the non-string side is coerced
		if expr.Bin == ast.BinAdd && (ck.types.IsString(left) || ck.types.IsString(right)) {
			if !ck.types.IsString(left) {
				if !ck.canConvertToString(left) {
					ck.errorf(diag.SemaTypeMismatch, expr.Span,
						"Operator '+' cannot concatenate %s with string", ck.types.String(left))
					return b.String
				}
				ck.res.StringConv[expr.X] = true
			}
			if !ck.types.IsString(right) {
				if !ck.canConvertToString(right) {
					ck.errorf(diag.SemaTypeMismatch, expr.Span,
						"Operator '+' cannot concatenate string with %s", ck.types.String(right))
					return b.String
				}
				ck.res.StringConv[expr.Y] = true
			}
			return b.String
		}
		if expr.Bin.IsBitwise() {
			if !ck.types.IsInteger(left) || !ck.types.IsInteger(right) {
				ck.errorf(diag.SemaTypeMismatch, expr.Span,
					"Operator '%s' requires integer operands", expr.Bin)
				return b.Int
			}
			return left
		}
		if !ck.types.IsNumeric(left) || !ck.types.IsNumeric(right) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Operator '%s' requires numeric operands", expr.Bin)
			return b.Int
		}
		return left

	case expr.Bin.IsCompare():
		if ck.types.IsString(left) && ck.types.IsString(right) {
			if expr.Bin != ast.BinEq && expr.Bin != ast.BinNe {
				ck.errorf(diag.SemaTypeMismatch, expr.Span,
					"Operator '%s' is not defined for strings", expr.Bin)
			}
			return b.Bool
		}
		if left != right && !ck.compatible(left, right, ast.NoExprID) && !ck.compatible(right, left, ast.NoExprID) {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Cannot compare %s and %s", ck.types.String(left), ck.types.String(right))
		}
		return b.Bool

	case expr.Bin.IsLogical():
		leftOk := ck.types.IsBool(left) || ck.types.IsPointer(left)
		rightOk := ck.types.IsBool(right) || ck.types.IsPointer(right)
		if !leftOk || !rightOk {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"Logical operator '%s' requires boolean operands or pointers", expr.Bin)
		}
		return b.Bool

	default:
		return ck.void()
	}
}

func (ck *checker) checkCast(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	target := resolveType(&ck.analysis, scope, expr.Type)
	if target == types.NoTypeID {
		ck.errorf(diag.SemaTypeMismatch, expr.Span, "Invalid target type for cast")
		return ck.void()
	}
	srcType := ck.exprType(scope, expr.X)

	srcTT, _ := ck.types.Lookup(srcType)
	tgtTT, _ := ck.types.Lookup(target)

	if expr.Bits {
		if srcTT.Kind != types.KindPrimitive || tgtTT.Kind != types.KindPrimitive {
			ck.errorf(diag.SemaTypeMismatch, expr.Span,
				"bits_as can only be used between primitive types")
		}
		return target
	}

	switch {
	case srcType == target:
	case srcTT.Kind == types.KindPrimitive && tgtTT.Kind == types.KindPrimitive:
	case srcTT.Kind == types.KindPointer && ck.types.IsInteger(target):
	case srcTT.Kind == types.KindPointer && ck.types.IsString(target):
	case srcTT.Kind == types.KindUserDefined && ck.types.IsString(target):
	default:
		ck.errorf(diag.SemaTypeMismatch, expr.Span,
			"Invalid cast from %s to %s", ck.types.String(srcType), ck.types.String(target))
	}
	return target
}

func (ck *checker) checkIfExpr(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	condType := ck.exprType(scope, expr.X)
	if !ck.types.IsBool(condType) && !ck.types.IsPointer(condType) {
		ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(expr.X).Span,
			"If expression condition must be a boolean or pointer, got %s", ck.types.String(condType))
	}
	trueType := ck.exprType(scope, expr.Y)
	falseType := ck.exprType(scope, expr.Z)
	switch {
	case trueType == falseType:
		return trueType
	case ck.compatible(trueType, falseType, expr.Y):
		return falseType
	case ck.compatible(falseType, trueType, expr.Z):
		return trueType
	default:
		ck.errorf(diag.SemaTypeMismatch, expr.Span,
			"Branches of if expression have incompatible types: %s and %s",
			ck.types.String(trueType), ck.types.String(falseType))
		return trueType
	}
}

func (ck *checker) checkNewPrim(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	node := ck.builder.Type(expr.Type)
	prim, ok := primitiveByName(ck.name(node.Name))
	if !ok || prim == types.PrimVoid {
		ck.errorf(diag.SemaTypeMismatch, expr.Span, "Invalid primitive type in allocation")
		ck.exprType(scope, expr.X)
		return ck.void()
	}
	primType := ck.types.Primitive(prim)
	initType := ck.exprType(scope, expr.X)
	if !ck.compatible(initType, primType, expr.X) {
		ck.errorf(diag.SemaTypeMismatch, expr.Span,
			"Cannot initialize %s allocation with value of type %s",
			prim, ck.types.String(initType))
	}
	return ck.types.Pointer(primType)
}

func (ck *checker) checkNewArray(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	elem := resolveType(&ck.analysis, scope, expr.Type)
	if elem == types.NoTypeID {
		ck.errorf(diag.SemaTypeMismatch, expr.Span, "Invalid type in array allocation")
		elem = ck.void()
	}
	for _, dim := range expr.List {
		dimType := ck.exprType(scope, dim)
		if !ck.types.IsInteger(dimType) {
			ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(dim).Span,
				"Array dimension must be int, got %s", ck.types.String(dimType))
		}
	}
	result := elem
	for range expr.List {
		result = ck.types.Array(result)
	}
	return result
}

func (ck *checker) checkNewStruct(scope symbols.ScopeID, exprID ast.ExprID, expr *ast.Expr) types.TypeID {
	structSym := ck.table.Sym(ck.table.Resolve(scope, expr.Text))
	if structSym == nil || structSym.Kind != symbols.SymbolType {
		ck.errorf(diag.SemaUnresolvedReference, expr.Span, "Invalid struct type in allocation")
		return ck.void()
	}
	argTypes := make([]types.TypeID, 0, len(expr.List))
	for _, arg := range expr.List {
		argTypes = append(argTypes, ck.exprType(scope, arg))
	}
	ctorID := ck.table.ResolveFunctionCall(scope, expr.Text, argTypes)
	if !ctorID.IsValid() {
		// the synthesized constructor is also published through the map
		if mapped, ok := ck.res.Constructors[expr.Text]; ok {
			if ctor := ck.table.Sym(mapped); ctor != nil && len(ctor.Params) == len(argTypes) {
				ctorID = mapped
			}
		}
	}
	ctor := ck.table.Sym(ctorID)
	if ctor == nil {
		ck.errorf(diag.SemaTypeMismatch, expr.Span,
			"Cannot find constructor for struct '%s' with given parameters", ck.name(expr.Text))
		return ck.void()
	}
	ck.checkArguments(ctor, argTypes, expr)
	ck.res.CallTargets[exprID] = ctorID
	return ck.types.Pointer(structSym.TypeRep)
}

func (ck *checker) checkArrayLit(scope symbols.ScopeID, expr *ast.Expr) types.TypeID {
	if len(expr.List) == 0 {
		ck.errorf(diag.SemaTypeMismatch, expr.Span,
			"Cannot determine element type of empty array literal")
		return ck.void()
	}
	first := ck.exprType(scope, expr.List[0])
	for _, elem := range expr.List[1:] {
		elemType := ck.exprType(scope, elem)
		if !ck.compatible(elemType, first, ast.NoExprID) {
			ck.errorf(diag.SemaTypeMismatch, ck.builder.Expr(elem).Span,
				"Array literal element of type %s does not match %s",
				ck.types.String(elemType), ck.types.String(first))
		}
	}
	return ck.types.Array(first)
}
