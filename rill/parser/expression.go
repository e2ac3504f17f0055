package parser

import (
	"fmt"
	"strconv"

	"github.com/rill-lang/rill/rill/errors"
	"github.com/rill-lang/rill/rill/lexer"
	"github.com/rill-lang/rill/rill/parser/ast"
)

//
// Expressions
//

func (self *Parser) expression() (ast.Expression, *errors.Error) {
	return self.equality()
}

func (self *Parser) equality() (ast.Expression, *errors.Error) {
	lhs, err := self.term()
	if err != nil {
		return nil, err
	}

	for self.CurrentToken.Kind == lexer.Equal || self.CurrentToken.Kind == lexer.NotEqual {
		operator := ast.EqualInfixOperator
		if self.CurrentToken.Kind == lexer.NotEqual {
			operator = ast.NotEqualInfixOperator
		}

		if err := self.next(); err != nil {
			return nil, err
		}

		rhs, err := self.term()
		if err != nil {
			return nil, err
		}

		lhs = ast.InfixExpression{
			Lhs:      lhs,
			Rhs:      rhs,
			Operator: operator,
			Range:    errors.NewSpan(lhs.Span().Start, rhs.Span().End, self.Filename),
		}
	}

	return lhs, nil
}

func (self *Parser) term() (ast.Expression, *errors.Error) {
	lhs, err := self.factor()
	if err != nil {
		return nil, err
	}

	for self.CurrentToken.Kind == lexer.Plus || self.CurrentToken.Kind == lexer.Minus {
		operator := ast.PlusInfixOperator
		if self.CurrentToken.Kind == lexer.Minus {
			operator = ast.MinusInfixOperator
		}

		if err := self.next(); err != nil {
			return nil, err
		}

		rhs, err := self.factor()
		if err != nil {
			return nil, err
		}

		lhs = ast.InfixExpression{
			Lhs:      lhs,
			Rhs:      rhs,
			Operator: operator,
			Range:    errors.NewSpan(lhs.Span().Start, rhs.Span().End, self.Filename),
		}
	}

	return lhs, nil
}

func (self *Parser) factor() (ast.Expression, *errors.Error) {
	lhs, err := self.postfix()
	if err != nil {
		return nil, err
	}

	for self.CurrentToken.Kind == lexer.Multiply || self.CurrentToken.Kind == lexer.Divide {
		operator := ast.MultiplyInfixOperator
		if self.CurrentToken.Kind == lexer.Divide {
			operator = ast.DivideInfixOperator
		}

		if err := self.next(); err != nil {
			return nil, err
		}

		rhs, err := self.postfix()
		if err != nil {
			return nil, err
		}

		lhs = ast.InfixExpression{
			Lhs:      lhs,
			Rhs:      rhs,
			Operator: operator,
			Range:    errors.NewSpan(lhs.Span().Start, rhs.Span().End, self.Filename),
		}
	}

	return lhs, nil
}

// Parses call and member expressions, both of which bind tighter than any infix operator
func (self *Parser) postfix() (ast.Expression, *errors.Error) {
	base, err := self.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch self.CurrentToken.Kind {
		case lexer.Dot:
			if err := self.next(); err != nil {
				return nil, err
			}

			member := self.CurrentToken.Value
			memberSpan := self.CurrentToken.Span
			if err := self.expect(lexer.Identifier); err != nil {
				return nil, err
			}

			base = ast.MemberExpression{
				Base:   base,
				Member: ast.NewSpannedIdent(member, memberSpan),
				Range:  errors.NewSpan(base.Span().Start, memberSpan.End, self.Filename),
			}
		case lexer.LParen:
			if err := self.next(); err != nil {
				return nil, err
			}

			args := make([]ast.Expression, 0)
			for self.CurrentToken.Kind != lexer.RParen && self.CurrentToken.Kind != lexer.EOF {
				arg, err := self.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)

				if self.CurrentToken.Kind != lexer.RParen {
					if err := self.expect(lexer.Comma); err != nil {
						return nil, err
					}
				}
			}

			endLocation := self.CurrentToken.Span.End
			if err := self.expect(lexer.RParen); err != nil {
				return nil, err
			}

			base = ast.CallExpression{
				Base:      base,
				Arguments: args,
				Range:     errors.NewSpan(base.Span().Start, endLocation, self.Filename),
			}
		default:
			return base, nil
		}
	}
}

func (self *Parser) primary() (ast.Expression, *errors.Error) {
	switch self.CurrentToken.Kind {
	case lexer.Int:
		value, err := strconv.ParseInt(self.CurrentToken.Value, 10, 64)
		if err != nil {
			return nil, errors.NewSyntaxError(
				self.CurrentToken.Span,
				fmt.Sprintf("Illegal int literal: %s", err.Error()),
			)
		}

		span := self.CurrentToken.Span
		if err := self.next(); err != nil {
			return nil, err
		}

		return ast.IntLiteralExpression{Value: value, Range: span}, nil
	case lexer.String:
		value := self.CurrentToken.Value
		span := self.CurrentToken.Span
		if err := self.next(); err != nil {
			return nil, err
		}

		return ast.StringLiteralExpression{Value: value, Range: span}, nil
	case lexer.Identifier:
		ident := self.CurrentToken.Value
		span := self.CurrentToken.Span
		if err := self.next(); err != nil {
			return nil, err
		}

		return ast.IdentExpression{Ident: ast.NewSpannedIdent(ident, span)}, nil
	case lexer.LParen:
		startLocation := self.CurrentToken.Span.Start
		if err := self.next(); err != nil {
			return nil, err
		}

		inner, err := self.expression()
		if err != nil {
			return nil, err
		}

		endLocation := self.CurrentToken.Span.End
		if err := self.expect(lexer.RParen); err != nil {
			return nil, err
		}

		return ast.GroupedExpression{
			Inner: inner,
			Range: errors.NewSpan(startLocation, endLocation, self.Filename),
		}, nil
	default:
		return nil, self.expectedOneOfErr([]lexer.TokenKind{
			lexer.Int,
			lexer.String,
			lexer.Identifier,
			lexer.LParen,
		})
	}
}
