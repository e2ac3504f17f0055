package analyzer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rill-lang/rill/rill/analyzer/scope"
	pAst "github.com/rill-lang/rill/rill/parser/ast"
)

//
// Block
//

func (self *Analyzer) block(node pAst.Block, pushNewScope bool) {
	// push a new scope if required
	if pushNewScope {
		self.currentModule.pushScope()
	}

	for _, statement := range node.Statements {
		self.statement(statement)
	}

	// pop scope if one was pushed at the beginning
	if pushNewScope {
		self.dropScope(true)
	}
}

//
// Statements
//

func (self *Analyzer) statement(node pAst.Statement) {
	switch node.Kind() {
	case pAst.LetStatementKind:
		self.letStatement(node.(pAst.LetStatement))
	case pAst.ReturnStatementKind:
		returnStmt := node.(pAst.ReturnStatement)
		if returnStmt.Expression != nil {
			self.expression(returnStmt.Expression)
		}
	case pAst.ExpressionStatementKind:
		self.expression(node.(pAst.ExpressionStatement).Expression)
	case pAst.FnDefinitionStatementKind:
		self.nestedFunctionDefinition(node.(pAst.FunctionDefinition))
	case pAst.ClassDefinitionStatementKind:
		self.nestedClassDefinition(node.(pAst.ClassDefinition))
	case pAst.ImportStatementKind:
		panic("Encountered an import statement inside a block")
	default:
		panic("A new statement kind was added without updating this code")
	}
}

func (self *Analyzer) letStatement(node pAst.LetStatement) {
	self.expression(node.Expression)

	if shadowed, shadows := self.currentModule.shadowsVar(node.Ident.Ident()); shadows {
		caser := cases.Title(language.AmericanEnglish)
		self.hint(
			fmt.Sprintf("%s '%s' shadowed here", caser.String(shadowed.Origin.Label()), node.Ident.Ident()),
			nil,
			node.Ident.Span(),
		)
	}

	if prev := self.currentModule.addVar(node.Ident.Ident(), NewVar(node.Ident.Span(), NormalVariableOriginKind)); prev != nil {
		self.error(
			fmt.Sprintf("Name '%s' already exists in current scope", node.Ident.Ident()),
			nil,
			node.Ident.Span(),
		)
		self.hint(
			fmt.Sprintf("Name '%s' previously defined here", node.Ident.Ident()),
			nil,
			prev.Span,
		)
	}
}

// A function defined inside another function's body. The definition is
// absorbed into the enclosing function's target, but its body is still
// analyzed inline and its name becomes a local binding.
func (self *Analyzer) nestedFunctionDefinition(node pAst.FunctionDefinition) {
	symbol := scope.NewFuncSymbol(
		node.Ident.Ident(),
		qualifiedName(self.scope.CurrentFullTarget(), node.Ident.Ident()),
	)

	// the binding is added before the body is analyzed so that the function
	// can call itself
	if prev := self.currentModule.addVar(node.Ident.Ident(), NewVar(node.Ident.Span(), FunctionVariableOriginKind)); prev != nil {
		self.error(
			fmt.Sprintf("Name '%s' already exists in current scope", node.Ident.Ident()),
			nil,
			node.Ident.Span(),
		)
	}

	self.functionBody(node, symbol)
}

// A class defined inside a function body. It never becomes a separate target;
// its methods are analyzed inline instead of being deferred.
func (self *Analyzer) nestedClassDefinition(node pAst.ClassDefinition) {
	classFullName := qualifiedName(self.scope.CurrentFullTarget(), node.Ident.Ident())
	symbol := scope.NewClassSymbol(node.Ident.Ident(), classFullName)

	if prev := self.currentModule.addVar(node.Ident.Ident(), NewVar(node.Ident.Span(), ClassVariableOriginKind)); prev != nil {
		self.error(
			fmt.Sprintf("Name '%s' already exists in current scope", node.Ident.Ident()),
			nil,
			node.Ident.Span(),
		)
	}

	self.scope.EnterClass(symbol)
	defer self.scope.LeaveClass()

	for _, method := range node.Methods {
		methodSymbol := scope.NewFuncSymbol(
			method.Ident.Ident(),
			qualifiedName(classFullName, method.Ident.Ident()),
		)
		self.functionBody(method, methodSymbol)
	}

	for _, inner := range node.Classes {
		self.nestedInnerClass(inner, classFullName)
	}
}

// A class nested inside another function-local class: no value binding is
// created, only the scope bookkeeping and inline method analysis.
func (self *Analyzer) nestedInnerClass(node pAst.ClassDefinition, parentFullName string) {
	classFullName := qualifiedName(parentFullName, node.Ident.Ident())
	symbol := scope.NewClassSymbol(node.Ident.Ident(), classFullName)

	self.scope.EnterClass(symbol)
	defer self.scope.LeaveClass()

	for _, method := range node.Methods {
		methodSymbol := scope.NewFuncSymbol(
			method.Ident.Ident(),
			qualifiedName(classFullName, method.Ident.Ident()),
		)
		self.functionBody(method, methodSymbol)
	}

	for _, inner := range node.Classes {
		self.nestedInnerClass(inner, classFullName)
	}
}

//
// Scope dropping
//

func (self *Analyzer) dropScope(remove bool) {
	var dropped valueScope
	if remove {
		dropped = self.currentModule.popScope()
	} else {
		dropped = self.currentModule.Scopes[len(self.currentModule.Scopes)-1]
	}

	// check for unused values
	for key, variable := range dropped.Values {
		if variable.Used || strings.HasPrefix(key, "_") {
			continue
		}
		switch variable.Origin {
		case NormalVariableOriginKind, ParameterVariableOriginKind:
			label := "Variable"
			if variable.Origin == ParameterVariableOriginKind {
				label = "Parameter"
			}

			self.warn(
				fmt.Sprintf("%s '%s' is unused", label, key),
				[]string{fmt.Sprintf("If this is intentional, change the name to '_%s' to hide this message", key)},
				variable.Span,
			)
		case FunctionVariableOriginKind:
			self.warn(
				fmt.Sprintf("Function '%s' is never used", key),
				[]string{fmt.Sprintf("If this is intentional, change the name to '_%s' to hide this message", key)},
				variable.Span,
			)
		case ClassVariableOriginKind:
			self.warn(
				fmt.Sprintf("Class '%s' is never used", key),
				[]string{fmt.Sprintf("If this is intentional, change the name to '_%s' to hide this message", key)},
				variable.Span,
			)
		case ImportedVariableOriginKind:
			self.warn(
				fmt.Sprintf("Import '%s' is unused", key),
				nil,
				variable.Span,
			)
		default:
			panic("A new variable origin kind was added without updating this code")
		}
	}
}
