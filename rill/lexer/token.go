package lexer

import (
	"github.com/rill-lang/rill/rill/errors"
)

type Token struct {
	Kind  TokenKind
	Value string
	Span  errors.Span
}

type TokenKind uint8

const (
	Unknown TokenKind = iota
	EOF

	Semicolon // ;
	Comma     // ,
	Dot       // .

	LParen // (
	RParen // )
	LCurly // {
	RCurly // }

	Equal    // ==
	NotEqual // !=

	Plus     // +
	Minus    // -
	Multiply // *
	Divide   // /

	Assign // =

	Import // import
	Let    // let
	Fn     // fn
	Class  // class
	Return // return

	String     // "foo" (token includes quotes whilst content excludes them)
	Int        // 42
	Identifier // foobar
)

func newToken(kind TokenKind, value string, span errors.Span) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Span:  span,
	}
}

func UnknownToken(location errors.Location) Token {
	return newToken(Unknown, "", errors.Span{Start: location, End: location})
}

func (self TokenKind) String() string {
	var display string
	switch self {
	case Unknown:
		display = "unknown"
	case EOF:
		display = "EOF"
	case Semicolon:
		display = ";"
	case Comma:
		display = ","
	case Dot:
		display = "."
	case LParen:
		display = "("
	case RParen:
		display = ")"
	case LCurly:
		display = "{"
	case RCurly:
		display = "}"
	case Equal:
		display = "=="
	case NotEqual:
		display = "!="
	case Plus:
		display = "+"
	case Minus:
		display = "-"
	case Multiply:
		display = "*"
	case Divide:
		display = "/"
	case Assign:
		display = "="
	case Import:
		display = "import"
	case Let:
		display = "let"
	case Fn:
		display = "fn"
	case Class:
		display = "class"
	case Return:
		display = "return"
	case String:
		display = "string"
	case Int:
		display = "int"
	case Identifier:
		display = "identifier"
	default:
		panic("A new token kind was added without updating this code")
	}
	return display
}
