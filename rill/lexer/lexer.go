package lexer

import (
	"fmt"

	"github.com/rill-lang/rill/rill/errors"
)

//
// Lexer
//

type Lexer struct {
	currentIndex int
	currentChar  *rune
	nextChar     *rune
	program      []rune
	location     errors.Location
	filename     string
}

func NewLexer(programSource string, filename string) Lexer {
	program := []rune(programSource)
	programLen := len(program)
	var currentChar *rune
	var nextChar *rune

	if programLen == 0 {
		currentChar = nil
		nextChar = nil
	} else if programLen == 1 {
		currentChar = &program[0]
		nextChar = nil
	} else {
		currentChar = &program[0]
		nextChar = &program[1]
	}

	lexer := Lexer{
		currentIndex: 0,
		currentChar:  currentChar,
		nextChar:     nextChar,
		program:      program,
		location:     errors.NewLocation(),
		filename:     filename,
	}
	return lexer
}

func (self *Lexer) advance() {
	// advance location
	self.location.Advance(self.currentChar != nil && *self.currentChar == '\n')

	// advance current & next char
	self.currentIndex++
	programLen := len(self.program)

	if self.currentIndex >= programLen {
		self.currentChar = nil
	} else {
		self.currentChar = &self.program[self.currentIndex]
	}

	if self.currentIndex+1 >= programLen {
		self.nextChar = nil
	} else {
		self.nextChar = &self.program[self.currentIndex+1]
	}
}

func (self *Lexer) skipLineComment() {
	self.advance()
	self.advance()

	for self.currentChar != nil && *self.currentChar != '\n' {
		self.advance()
	}

	self.advance()
}

func (self *Lexer) skipBlockComment() {
	self.advance()
	self.advance()

	for {
		if self.currentChar == nil || self.nextChar == nil {
			break
		}
		if *self.currentChar == '*' && *self.nextChar == '/' {
			self.advance()
			self.advance()
			break
		}

		// skip any other character of this comment
		self.advance()
	}
}

func (self *Lexer) NextToken() (Token, *errors.Error) {
outer:
	for self.currentChar != nil {
		switch *self.currentChar {
		case ' ', '\n', '\t', '\r':
			self.advance()
		case ';':
			return self.makeSingleChar(Semicolon, ';'), nil
		case ',':
			return self.makeSingleChar(Comma, ','), nil
		case '.':
			return self.makeSingleChar(Dot, '.'), nil
		case '=':
			return self.makeEquals(), nil
		case '!':
			return self.makeNotEqual()
		case '(':
			return self.makeSingleChar(LParen, '('), nil
		case ')':
			return self.makeSingleChar(RParen, ')'), nil
		case '{':
			return self.makeSingleChar(LCurly, '{'), nil
		case '}':
			return self.makeSingleChar(RCurly, '}'), nil
		case '+':
			return self.makeSingleChar(Plus, '+'), nil
		case '-':
			return self.makeSingleChar(Minus, '-'), nil
		case '*':
			return self.makeSingleChar(Multiply, '*'), nil
		case '\'', '"':
			return self.makeString()
		case '/':
			if self.nextChar != nil {
				switch *self.nextChar {
				case '/':
					self.skipLineComment()
					continue outer
				case '*':
					self.skipBlockComment()
					continue outer
				}
			}
			return self.makeSingleChar(Divide, '/'), nil
		default:
			if isDigit(*self.currentChar) {
				return self.makeNumber(), nil
			}
			if isLetter(*self.currentChar) {
				return self.makeName(), nil
			}
			return UnknownToken(self.location), errors.NewError(errors.Span{
				Start:    self.location,
				End:      self.location,
				Filename: self.filename,
			}, fmt.Sprintf("illegal character: %c", *self.currentChar), errors.SyntaxError)
		}
	}
	return newToken(
		EOF,
		"EOF",
		errors.Span{
			Start:    self.location,
			End:      self.location,
			Filename: self.filename,
		},
	), nil
}

func (self *Lexer) makeSingleChar(kind TokenKind, value rune) Token {
	token := newToken(
		kind,
		string(value),
		errors.Span{
			Start:    self.location,
			End:      self.location,
			Filename: self.filename,
		},
	)
	self.advance()
	return token
}

func (self *Lexer) makeEquals() Token {
	startLocation := self.location

	if self.nextChar != nil && *self.nextChar == '=' {
		self.advance()
		token := newToken(
			Equal,
			"==",
			errors.Span{
				Start:    startLocation,
				End:      self.location,
				Filename: self.filename,
			},
		)
		self.advance()
		return token
	}

	return self.makeSingleChar(Assign, '=')
}

func (self *Lexer) makeNotEqual() (Token, *errors.Error) {
	startLocation := self.location

	if self.nextChar == nil || *self.nextChar != '=' {
		return UnknownToken(self.location), errors.NewError(errors.Span{
			Start:    startLocation,
			End:      self.location,
			Filename: self.filename,
		}, "expected '=' after '!'", errors.SyntaxError)
	}

	self.advance()
	token := newToken(
		NotEqual,
		"!=",
		errors.Span{
			Start:    startLocation,
			End:      self.location,
			Filename: self.filename,
		},
	)
	self.advance()
	return token, nil
}

func (self *Lexer) makeString() (Token, *errors.Error) {
	startLocation := self.location
	startQuote := *self.currentChar
	var valueBuf []rune

	// skip opening quote
	self.advance()

	for self.currentChar != nil && *self.currentChar != startQuote {
		valueBuf = append(valueBuf, *self.currentChar)
		self.advance()
	}

	// check for closing quote
	if self.currentChar == nil {
		return UnknownToken(startLocation), errors.NewError(errors.Span{
			Start:    startLocation,
			End:      self.location,
			Filename: self.filename,
		}, "String literal never closed", errors.SyntaxError)
	}

	token := newToken(
		String,
		string(valueBuf),
		errors.Span{
			Start:    startLocation,
			End:      self.location,
			Filename: self.filename,
		},
	)

	// skip closing quote
	self.advance()
	return token, nil
}

func (self *Lexer) makeNumber() Token {
	startLocation := self.location
	value := string(*self.currentChar)

	self.advance()

	lastEnd := startLocation
	for self.currentChar != nil && isDigit(*self.currentChar) {
		value += string(*self.currentChar)
		lastEnd = self.location
		self.advance()
	}

	return newToken(
		Int,
		value,
		errors.Span{
			Start:    startLocation,
			End:      lastEnd,
			Filename: self.filename,
		},
	)
}

func (self *Lexer) makeName() Token {
	startLocation := self.location
	value := string(*self.currentChar)
	self.advance()

	lastEnd := startLocation
	for self.currentChar != nil && (isDigit(*self.currentChar) || isLetter(*self.currentChar)) {
		value += string(*self.currentChar)
		lastEnd = self.location
		self.advance()
	}

	var tokenKind TokenKind
	switch value {
	case "import":
		tokenKind = Import
	case "let":
		tokenKind = Let
	case "fn":
		tokenKind = Fn
	case "class":
		tokenKind = Class
	case "return":
		tokenKind = Return
	default:
		tokenKind = Identifier
	}

	return newToken(
		tokenKind,
		value,
		errors.Span{
			Start:    startLocation,
			End:      lastEnd,
			Filename: self.filename,
		},
	)
}

//
// Rune range helper functions
//

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func isLetter(char rune) bool {
	return (char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z') || char == '_'
}
