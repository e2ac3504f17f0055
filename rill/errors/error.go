package errors

import "fmt"

// All ranges inclusive
type Span struct {
	Start    Location
	End      Location
	Filename string
}

func NewSpan(start Location, end Location, filename string) Span {
	return Span{
		Start:    start,
		End:      end,
		Filename: filename,
	}
}

type Location struct {
	Line   uint
	Column uint
	Index  uint
}

func NewLocation() Location {
	return Location{
		Line:   1,
		Column: 1,
		Index:  0,
	}
}

func (self *Location) Advance(newline bool) {
	self.Index += 1
	if newline {
		self.Column = 1
		self.Line += 1
	} else {
		self.Column += 1
	}
}

type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

type ErrorKind uint8

const (
	SyntaxError ErrorKind = iota
)

func (self ErrorKind) String() string {
	switch self {
	case SyntaxError:
		return "SyntaxError"
	default:
		panic("A new error kind was added without updating this code")
	}
}

func NewError(span Span, message string, kind ErrorKind) *Error {
	return &Error{
		Span:    span,
		Message: message,
		Kind:    kind,
	}
}

func NewSyntaxError(span Span, message string) *Error {
	return NewError(span, message, SyntaxError)
}

func (self Error) Display() string {
	return fmt.Sprintf(
		"%s at %s:%d:%d: %s",
		self.Kind,
		self.Span.Filename,
		self.Span.Start.Line,
		self.Span.Start.Column,
		self.Message,
	)
}
