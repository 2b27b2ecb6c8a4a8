package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexUnterminatedBlockComment Code = 1004

	// Парсерные
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectType       Code = 2004
	SynExpectExpression Code = 2005
	SynUnclosedDelimiter Code = 2006

	// Семантические: повторяют таксономию репортера компилятора
	SemaRedefinition        Code = 3001
	SemaRedeclaration       Code = 3002
	SemaUnresolvedReference Code = 3003
	SemaUseBeforeDefinition Code = 3004
	SemaUndefinedVariable   Code = 3005
	SemaUndefinedField      Code = 3006
	SemaTypeMismatch        Code = 3007
	SemaAccessViolation     Code = 3008
	SemaOutOfBounds         Code = 3009
	SemaAssignmentToConst   Code = 3010

	// предупреждения
	SemaDestructNeverRuns Code = 3101
)

func (c Code) String() string {
	return fmt.Sprintf("CG%04d", uint16(c))
}

// Label returns the fixed human-readable prefix printed before the message.
func (c Code) Label() string {
	switch c {
	case LexUnknownChar, LexUnterminatedString, LexBadNumber, LexUnterminatedBlockComment:
		return "Lexical error"
	case SynUnexpectedToken, SynExpectSemicolon, SynExpectIdentifier,
		SynExpectType, SynExpectExpression, SynUnclosedDelimiter:
		return "Syntax error"
	case SemaRedefinition:
		return "Redefinition"
	case SemaRedeclaration:
		return "Duplicate definition"
	case SemaUnresolvedReference:
		return "Unresolved reference"
	case SemaUseBeforeDefinition:
		return "Usage before definition"
	case SemaUndefinedVariable:
		return "Undefined variable"
	case SemaUndefinedField:
		return "Undefined field"
	case SemaTypeMismatch:
		return "Type mismatch"
	case SemaAccessViolation:
		return "Access violation"
	case SemaOutOfBounds:
		return "Out of bounds"
	case SemaAssignmentToConst:
		return "Assignment to const"
	case SemaDestructNeverRuns:
		return "Warning"
	default:
		return "Error"
	}
}
