package ast

import (
	"cgull/internal/source"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLiteral
	ExprIdent
	ExprCall
	ExprFieldAccess
	ExprIndex
	ExprUnary
	ExprPostfix
	ExprBinary
	ExprCast
	ExprTuple
	ExprIfExpr
	ExprDeref
	ExprRef
	ExprNewPrim
	ExprNewArray
	ExprNewStruct
	ExprArrayLit
)

type LitKind uint8

const (
	LitInt LitKind = iota
	LitHex
	LitBin
	LitFloat
	LitString
	LitTrue
	LitFalse
	LitNullptr
)

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryBitNot
	UnaryInc
	UnaryDec
)

type PostfixOp uint8

const (
	PostfixInc PostfixOp = iota
	PostfixDec
)

type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinShl
	BinShr
	BinAnd
	BinOr
	BinXor
	BinEq
	BinNe
	BinLt
	BinGt
	BinLe
	BinGe
	BinLogicalAnd
	BinLogicalOr
)

// IsArith reports whether the operator is in the arithmetic/bitwise family.
func (op BinOp) IsArith() bool { return op <= BinXor }

// IsBitwise reports whether the operator requires integer operands.
func (op BinOp) IsBitwise() bool {
	switch op {
	case BinShl, BinShr, BinAnd, BinOr, BinXor:
		return true
	}
	return false
}

// IsCompare reports whether the operator yields bool from two compatible operands.
func (op BinOp) IsCompare() bool { return op >= BinEq && op <= BinGe }

// IsLogical reports whether the operator is && or ||.
func (op BinOp) IsLogical() bool { return op == BinLogicalAnd || op == BinLogicalOr }

func (op BinOp) String() string {
	names := [...]string{"+", "-", "*", "/", "%", "<<", ">>", "&", "|", "^",
		"==", "!=", "<", ">", "<=", ">=", "&&", "||"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// FieldHop is one `.name` / `->name` step of a field access chain.
// A hop is a method call when Call is set, an indexed field when Index is set,
// and a plain field (or numeric tuple index) otherwise.
type FieldHop struct {
	Arrow bool
	Name  source.StringID
	Call  ExprID
	Index ExprID
	Span  source.Span
}

// Expr is a flattened parse-tree expression node. The meaning of the operand
// fields depends on Kind; unused fields stay zero.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Lit  LitKind
	Text source.StringID // literal text, identifier, call name, struct name

	X, Y, Z ExprID     // operands (base/index, lhs/rhs, cond/then/else)
	List    []ExprID   // call args, tuple/array elements, allocation dims
	Hops    []FieldHop // field access chain

	Unary UnaryOp
	Post  PostfixOp
	Bin   BinOp

	Type TypeID // cast target, allocated type
	Bits bool   // bits_as cast
}
