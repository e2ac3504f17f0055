package ast

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/rill/errors"
)

//
// Spanned ident
//

func NewSpannedIdent(ident string, span errors.Span) SpannedIdent {
	return SpannedIdent{
		ident: ident,
		span:  span,
	}
}

type SpannedIdent struct {
	ident string
	span  errors.Span
}

func (self SpannedIdent) Ident() string     { return self.ident }
func (self SpannedIdent) Span() errors.Span { return self.span }
func (self SpannedIdent) String() string    { return self.ident }

//
// Block
//

type Block struct {
	Statements []Statement
	Range      errors.Span
}

func (self Block) String() string {
	if len(self.Statements) == 0 {
		return "{}"
	}

	contents := make([]string, 0)
	for _, stmt := range self.Statements {
		contents = append(contents, strings.ReplaceAll(stmt.String(), "\n", "\n    "))
	}

	return fmt.Sprintf("{\n    %s\n}", strings.Join(contents, "\n    "))
}

//
// Program
//

type Program struct {
	Imports   []ImportStatement
	Globals   []LetStatement
	Classes   []ClassDefinition
	Functions []FunctionDefinition
	Filename  string
}

func (self Program) String() string {
	imports := ""
	for _, item := range self.Imports {
		imports += item.String() + "\n"
	}
	if imports != "" {
		imports += "\n"
	}

	globals := ""
	for _, glob := range self.Globals {
		globals += glob.String() + "\n"
	}
	if globals != "" {
		globals += "\n"
	}

	items := make([]string, 0)
	for _, cls := range self.Classes {
		items = append(items, cls.String())
	}
	for _, fn := range self.Functions {
		items = append(items, fn.String())
	}

	return fmt.Sprintf("%s%s%s", imports, globals, strings.Join(items, "\n\n"))
}
