package ast

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/rill/errors"
)

type Expression interface {
	Kind() ExpressionKind
	Span() errors.Span
	String() string
}

type ExpressionKind uint8

const (
	IntLiteralExpressionKind ExpressionKind = iota
	StringLiteralExpressionKind
	IdentExpressionKind
	GroupedExpressionKind
	InfixExpressionKind
	MemberExpressionKind
	CallExpressionKind
)

//
// Int literal
//

type IntLiteralExpression struct {
	Value int64
	Range errors.Span
}

func (self IntLiteralExpression) Kind() ExpressionKind { return IntLiteralExpressionKind }
func (self IntLiteralExpression) Span() errors.Span    { return self.Range }
func (self IntLiteralExpression) String() string       { return fmt.Sprint(self.Value) }

//
// String literal
//

type StringLiteralExpression struct {
	Value string
	Range errors.Span
}

func (self StringLiteralExpression) Kind() ExpressionKind { return StringLiteralExpressionKind }
func (self StringLiteralExpression) Span() errors.Span    { return self.Range }
func (self StringLiteralExpression) String() string       { return fmt.Sprintf("%q", self.Value) }

//
// Ident
//

type IdentExpression struct {
	Ident SpannedIdent
}

func (self IdentExpression) Kind() ExpressionKind { return IdentExpressionKind }
func (self IdentExpression) Span() errors.Span    { return self.Ident.Span() }
func (self IdentExpression) String() string       { return self.Ident.Ident() }

//
// Grouped expression
//

type GroupedExpression struct {
	Inner Expression
	Range errors.Span
}

func (self GroupedExpression) Kind() ExpressionKind { return GroupedExpressionKind }
func (self GroupedExpression) Span() errors.Span    { return self.Range }
func (self GroupedExpression) String() string       { return fmt.Sprintf("(%s)", self.Inner) }

//
// Infix expression
//

type InfixOperator uint8

const (
	PlusInfixOperator InfixOperator = iota
	MinusInfixOperator
	MultiplyInfixOperator
	DivideInfixOperator
	EqualInfixOperator
	NotEqualInfixOperator
)

func (self InfixOperator) String() string {
	switch self {
	case PlusInfixOperator:
		return "+"
	case MinusInfixOperator:
		return "-"
	case MultiplyInfixOperator:
		return "*"
	case DivideInfixOperator:
		return "/"
	case EqualInfixOperator:
		return "=="
	case NotEqualInfixOperator:
		return "!="
	default:
		panic("A new infix operator was added without updating this code")
	}
}

type InfixExpression struct {
	Lhs      Expression
	Rhs      Expression
	Operator InfixOperator
	Range    errors.Span
}

func (self InfixExpression) Kind() ExpressionKind { return InfixExpressionKind }
func (self InfixExpression) Span() errors.Span    { return self.Range }
func (self InfixExpression) String() string {
	return fmt.Sprintf("%s %s %s", self.Lhs, self.Operator, self.Rhs)
}

//
// Member expression
//

type MemberExpression struct {
	Base   Expression
	Member SpannedIdent
	Range  errors.Span
}

func (self MemberExpression) Kind() ExpressionKind { return MemberExpressionKind }
func (self MemberExpression) Span() errors.Span    { return self.Range }
func (self MemberExpression) String() string {
	return fmt.Sprintf("%s.%s", self.Base, self.Member)
}

//
// Call expression
//

type CallExpression struct {
	Base      Expression
	Arguments []Expression
	Range     errors.Span
}

func (self CallExpression) Kind() ExpressionKind { return CallExpressionKind }
func (self CallExpression) Span() errors.Span    { return self.Range }
func (self CallExpression) String() string {
	args := make([]string, 0)
	for _, arg := range self.Arguments {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s(%s)", self.Base, strings.Join(args, ", "))
}
