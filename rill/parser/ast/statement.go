package ast

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/rill/errors"
)

type Statement interface {
	Kind() StatementKind
	Span() errors.Span
	String() string
}

type StatementKind uint8

const (
	ImportStatementKind StatementKind = iota
	LetStatementKind
	ReturnStatementKind
	ExpressionStatementKind
	FnDefinitionStatementKind
	ClassDefinitionStatementKind
)

//
// Import statement
//

type ImportStatement struct {
	Module SpannedIdent
	Range  errors.Span
}

func (self ImportStatement) Kind() StatementKind { return ImportStatementKind }
func (self ImportStatement) Span() errors.Span   { return self.Range }
func (self ImportStatement) String() string {
	return fmt.Sprintf("import %s;", self.Module)
}

//
// Let statement
//

type LetStatement struct {
	Ident      SpannedIdent
	Expression Expression
	Range      errors.Span
}

func (self LetStatement) Kind() StatementKind { return LetStatementKind }
func (self LetStatement) Span() errors.Span   { return self.Range }
func (self LetStatement) String() string {
	return fmt.Sprintf("let %s = %s;", self.Ident, self.Expression)
}

//
// Return statement
//

type ReturnStatement struct {
	Expression Expression // can be nil
	Range      errors.Span
}

func (self ReturnStatement) Kind() StatementKind { return ReturnStatementKind }
func (self ReturnStatement) Span() errors.Span   { return self.Range }
func (self ReturnStatement) String() string {
	if self.Expression == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", self.Expression)
}

//
// Expression statement
//

type ExpressionStatement struct {
	Expression Expression
	Range      errors.Span
}

func (self ExpressionStatement) Kind() StatementKind { return ExpressionStatementKind }
func (self ExpressionStatement) Span() errors.Span   { return self.Range }
func (self ExpressionStatement) String() string {
	return fmt.Sprintf("%s;", self.Expression)
}

//
// Function definition
//

type FunctionDefinition struct {
	Ident      SpannedIdent
	Parameters []FnParam
	ParamSpan  errors.Span
	Body       Block
	Range      errors.Span
}

func (self FunctionDefinition) Kind() StatementKind { return FnDefinitionStatementKind }
func (self FunctionDefinition) Span() errors.Span   { return self.Range }
func (self FunctionDefinition) String() string {
	params := make([]string, 0)
	for _, param := range self.Parameters {
		params = append(params, param.Ident.Ident())
	}
	return fmt.Sprintf("fn %s(%s) %s", self.Ident, strings.Join(params, ", "), self.Body)
}

type FnParam struct {
	Ident SpannedIdent
	Span  errors.Span
}

//
// Class definition
//

type ClassDefinition struct {
	Ident   SpannedIdent
	Methods []FunctionDefinition
	Classes []ClassDefinition
	Range   errors.Span
}

func (self ClassDefinition) Kind() StatementKind { return ClassDefinitionStatementKind }
func (self ClassDefinition) Span() errors.Span   { return self.Range }
func (self ClassDefinition) String() string {
	items := make([]string, 0)
	for _, cls := range self.Classes {
		items = append(items, strings.ReplaceAll(cls.String(), "\n", "\n    "))
	}
	for _, fn := range self.Methods {
		items = append(items, strings.ReplaceAll(fn.String(), "\n", "\n    "))
	}

	if len(items) == 0 {
		return fmt.Sprintf("class %s {}", self.Ident)
	}

	return fmt.Sprintf("class %s {\n    %s\n}", self.Ident, strings.Join(items, "\n    "))
}
