package parser

import (
	"github.com/rill-lang/rill/rill/errors"
	"github.com/rill-lang/rill/rill/lexer"
	"github.com/rill-lang/rill/rill/parser/ast"
)

type Parser struct {
	Lexer         lexer.Lexer
	Errors        []errors.Error
	PreviousToken lexer.Token
	CurrentToken  lexer.Token
	Filename      string
}

func NewParser(lex lexer.Lexer, filename string) Parser {
	return Parser{
		Lexer:         lex,
		PreviousToken: lexer.UnknownToken(errors.Location{}),
		CurrentToken:  lexer.UnknownToken(errors.Location{}),
		Errors:        make([]errors.Error, 0),
		Filename:      filename,
	}
}

func (self *Parser) next() *errors.Error {
	token, err := self.Lexer.NextToken()
	if err != nil {
		return err
	}

	self.PreviousToken = self.CurrentToken
	self.CurrentToken = token
	return nil
}

func (self *Parser) Parse() (program ast.Program, softErrors []errors.Error, hardError *errors.Error) {
	tree, err := self.program()
	if err != nil {
		return ast.Program{}, self.Errors, err
	}
	return tree, self.Errors, nil
}

func (self *Parser) program() (ast.Program, *errors.Error) {
	if err := self.next(); err != nil {
		return ast.Program{}, err
	}

	tree := ast.Program{
		Imports:   make([]ast.ImportStatement, 0),
		Globals:   make([]ast.LetStatement, 0),
		Classes:   make([]ast.ClassDefinition, 0),
		Functions: make([]ast.FunctionDefinition, 0),
		Filename:  self.Filename,
	}

	for self.CurrentToken.Kind != lexer.EOF {
		switch self.CurrentToken.Kind {
		case lexer.Import:
			importStmt, err := self.importItem()
			if err != nil {
				return ast.Program{}, err
			}
			tree.Imports = append(tree.Imports, importStmt)
		case lexer.Let:
			letStmt, err := self.letStatement()
			if err != nil {
				return ast.Program{}, err
			}
			tree.Globals = append(tree.Globals, letStmt)
		case lexer.Fn:
			fnDefinition, err := self.functionDefinition()
			if err != nil {
				return ast.Program{}, err
			}
			tree.Functions = append(tree.Functions, fnDefinition)
		case lexer.Class:
			classDefinition, err := self.classDefinition()
			if err != nil {
				return ast.Program{}, err
			}
			tree.Classes = append(tree.Classes, classDefinition)
		default:
			return ast.Program{}, self.expectedOneOfErr([]lexer.TokenKind{
				lexer.Import,
				lexer.Let,
				lexer.Fn,
				lexer.Class,
			})
		}
	}

	return tree, nil
}

//
// Import statement
//

func (self *Parser) importItem() (ast.ImportStatement, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	// skip the `import` token
	if err := self.next(); err != nil {
		return ast.ImportStatement{}, err
	}

	moduleIdent := self.CurrentToken.Value
	moduleSpan := self.CurrentToken.Span
	if err := self.expect(lexer.Identifier); err != nil {
		return ast.ImportStatement{}, err
	}

	if err := self.expectRecoverable(lexer.Semicolon); err != nil {
		return ast.ImportStatement{}, err
	}

	return ast.ImportStatement{
		Module: ast.NewSpannedIdent(moduleIdent, moduleSpan),
		Range:  errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}

//
// Let statement
//

func (self *Parser) letStatement() (ast.LetStatement, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	// skip the `let` token
	if err := self.next(); err != nil {
		return ast.LetStatement{}, err
	}

	ident := self.CurrentToken.Value
	identSpan := self.CurrentToken.Span
	if err := self.expect(lexer.Identifier); err != nil {
		return ast.LetStatement{}, err
	}

	if err := self.expect(lexer.Assign); err != nil {
		return ast.LetStatement{}, err
	}

	expression, err := self.expression()
	if err != nil {
		return ast.LetStatement{}, err
	}

	if err := self.expectRecoverable(lexer.Semicolon); err != nil {
		return ast.LetStatement{}, err
	}

	return ast.LetStatement{
		Ident:      ast.NewSpannedIdent(ident, identSpan),
		Expression: expression,
		Range:      errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}

//
// Function definition
//

func (self *Parser) functionDefinition() (ast.FunctionDefinition, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	// skip the `fn` token
	if err := self.next(); err != nil {
		return ast.FunctionDefinition{}, err
	}

	ident := self.CurrentToken.Value
	identSpan := self.CurrentToken.Span
	if err := self.expect(lexer.Identifier); err != nil {
		return ast.FunctionDefinition{}, err
	}

	paramStart := self.CurrentToken.Span.Start
	if err := self.expect(lexer.LParen); err != nil {
		return ast.FunctionDefinition{}, err
	}

	params := make([]ast.FnParam, 0)
	for self.CurrentToken.Kind != lexer.RParen && self.CurrentToken.Kind != lexer.EOF {
		paramIdent := self.CurrentToken.Value
		paramSpan := self.CurrentToken.Span
		if err := self.expect(lexer.Identifier); err != nil {
			return ast.FunctionDefinition{}, err
		}

		params = append(params, ast.FnParam{
			Ident: ast.NewSpannedIdent(paramIdent, paramSpan),
			Span:  paramSpan,
		})

		if self.CurrentToken.Kind != lexer.RParen {
			if err := self.expect(lexer.Comma); err != nil {
				return ast.FunctionDefinition{}, err
			}
		}
	}

	paramEnd := self.CurrentToken.Span.End
	if err := self.expect(lexer.RParen); err != nil {
		return ast.FunctionDefinition{}, err
	}

	body, err := self.block()
	if err != nil {
		return ast.FunctionDefinition{}, err
	}

	return ast.FunctionDefinition{
		Ident:      ast.NewSpannedIdent(ident, identSpan),
		Parameters: params,
		ParamSpan:  errors.NewSpan(paramStart, paramEnd, self.Filename),
		Body:       body,
		Range:      errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}

//
// Class definition
//

func (self *Parser) classDefinition() (ast.ClassDefinition, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	// skip the `class` token
	if err := self.next(); err != nil {
		return ast.ClassDefinition{}, err
	}

	ident := self.CurrentToken.Value
	identSpan := self.CurrentToken.Span
	if err := self.expect(lexer.Identifier); err != nil {
		return ast.ClassDefinition{}, err
	}

	if err := self.expect(lexer.LCurly); err != nil {
		return ast.ClassDefinition{}, err
	}

	methods := make([]ast.FunctionDefinition, 0)
	classes := make([]ast.ClassDefinition, 0)

	for self.CurrentToken.Kind != lexer.RCurly && self.CurrentToken.Kind != lexer.EOF {
		switch self.CurrentToken.Kind {
		case lexer.Fn:
			method, err := self.functionDefinition()
			if err != nil {
				return ast.ClassDefinition{}, err
			}
			methods = append(methods, method)
		case lexer.Class:
			inner, err := self.classDefinition()
			if err != nil {
				return ast.ClassDefinition{}, err
			}
			classes = append(classes, inner)
		default:
			return ast.ClassDefinition{}, self.expectedOneOfErr([]lexer.TokenKind{lexer.Fn, lexer.Class})
		}
	}

	if err := self.expect(lexer.RCurly); err != nil {
		return ast.ClassDefinition{}, err
	}

	return ast.ClassDefinition{
		Ident:   ast.NewSpannedIdent(ident, identSpan),
		Methods: methods,
		Classes: classes,
		Range:   errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}

//
// Block
//

func (self *Parser) block() (ast.Block, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	if err := self.expect(lexer.LCurly); err != nil {
		return ast.Block{}, err
	}

	statements := make([]ast.Statement, 0)
	for self.CurrentToken.Kind != lexer.RCurly && self.CurrentToken.Kind != lexer.EOF {
		statement, err := self.statement()
		if err != nil {
			return ast.Block{}, err
		}
		statements = append(statements, statement)
	}

	if err := self.expect(lexer.RCurly); err != nil {
		return ast.Block{}, err
	}

	return ast.Block{
		Statements: statements,
		Range:      errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}

//
// Statements
//

func (self *Parser) statement() (ast.Statement, *errors.Error) {
	switch self.CurrentToken.Kind {
	case lexer.Let:
		letStmt, err := self.letStatement()
		if err != nil {
			return nil, err
		}
		return letStmt, nil
	case lexer.Return:
		returnStmt, err := self.returnStatement()
		if err != nil {
			return nil, err
		}
		return returnStmt, nil
	case lexer.Fn:
		// nested function definition
		fnDefinition, err := self.functionDefinition()
		if err != nil {
			return nil, err
		}
		return fnDefinition, nil
	case lexer.Class:
		// class defined inside a function body
		classDefinition, err := self.classDefinition()
		if err != nil {
			return nil, err
		}
		return classDefinition, nil
	default:
		return self.expressionStatement()
	}
}

func (self *Parser) returnStatement() (ast.ReturnStatement, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	// skip the `return` token
	if err := self.next(); err != nil {
		return ast.ReturnStatement{}, err
	}

	var expression ast.Expression
	if self.CurrentToken.Kind != lexer.Semicolon {
		expr, err := self.expression()
		if err != nil {
			return ast.ReturnStatement{}, err
		}
		expression = expr
	}

	if err := self.expectRecoverable(lexer.Semicolon); err != nil {
		return ast.ReturnStatement{}, err
	}

	return ast.ReturnStatement{
		Expression: expression,
		Range:      errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}

func (self *Parser) expressionStatement() (ast.ExpressionStatement, *errors.Error) {
	startLocation := self.CurrentToken.Span.Start

	expression, err := self.expression()
	if err != nil {
		return ast.ExpressionStatement{}, err
	}

	if err := self.expectRecoverable(lexer.Semicolon); err != nil {
		return ast.ExpressionStatement{}, err
	}

	return ast.ExpressionStatement{
		Expression: expression,
		Range:      errors.NewSpan(startLocation, self.PreviousToken.Span.End, self.Filename),
	}, nil
}
