package analyzer

import (
	"fmt"

	"github.com/rill-lang/rill/rill/analyzer/scope"
	"github.com/rill-lang/rill/rill/errors"
	pAst "github.com/rill-lang/rill/rill/parser/ast"
)

type Module struct {
	ImportsModules []string
	Functions      []*Function
	Classes        []*Class
	Scopes         []valueScope
}

//
// Functions
//

type Function struct {
	Ident      pAst.SpannedIdent
	Symbol     *scope.FuncSymbol
	Parameters []pAst.FnParam
	ParamsSpan errors.Span
	Used       bool
}

func newFunction(ident pAst.SpannedIdent, symbol *scope.FuncSymbol, params []pAst.FnParam, paramsSpan errors.Span) *Function {
	return &Function{
		Ident:      ident,
		Symbol:     symbol,
		Parameters: params,
		ParamsSpan: paramsSpan,
		Used:       false,
	}
}

//
// Classes
//

type Class struct {
	Ident   pAst.SpannedIdent
	Symbol  *scope.ClassSymbol
	Methods []*Function
	Classes []*Class
	Used    bool
}

func newClass(ident pAst.SpannedIdent, symbol *scope.ClassSymbol) *Class {
	return &Class{
		Ident:   ident,
		Symbol:  symbol,
		Methods: make([]*Function, 0),
		Classes: make([]*Class, 0),
		Used:    false,
	}
}

func (self Class) getMethod(ident string) (fn *Function, found bool) {
	for _, fn := range self.Methods {
		if fn.Ident.Ident() == ident {
			return fn, true
		}
	}
	return nil, false
}

//
// Value scoping
//

type valueScope struct {
	Values map[string]*Variable
}

func newValueScope() valueScope {
	return valueScope{
		Values: make(map[string]*Variable),
	}
}

type VariableOriginKind uint8

const (
	NormalVariableOriginKind VariableOriginKind = iota
	ImportedVariableOriginKind
	ParameterVariableOriginKind
	FunctionVariableOriginKind
	ClassVariableOriginKind
)

func (self VariableOriginKind) Label() string {
	switch self {
	case NormalVariableOriginKind:
		return "variable"
	case ImportedVariableOriginKind:
		return "import"
	case ParameterVariableOriginKind:
		return "parameter"
	case FunctionVariableOriginKind:
		return "function"
	case ClassVariableOriginKind:
		return "class"
	default:
		panic("A new variable origin kind was added without updating this code")
	}
}

type Variable struct {
	Span   errors.Span
	Used   bool
	Origin VariableOriginKind
}

func NewVar(span errors.Span, origin VariableOriginKind) Variable {
	return Variable{
		Span:   span,
		Used:   false,
		Origin: origin,
	}
}

//
// Utility methods for scoping
//

func (self *Module) pushScope() {
	self.Scopes = append(self.Scopes, newValueScope())
}

// NOTE: this will fail if len == 0
func (self *Module) popScope() valueScope {
	last := self.Scopes[len(self.Scopes)-1]
	self.Scopes = self.Scopes[:len(self.Scopes)-1]
	return last
}

func (self Module) getVar(ident string) (val *Variable, scope uint, found bool) {
	// iterate through the scopes backwards (more current scopes dominate)
	for idx := len(self.Scopes) - 1; idx >= 0; idx-- {
		val, found := self.Scopes[idx].Values[ident]
		if found {
			return val, uint(idx), true
		}
	}
	return nil, 0, false
}

func (self *Module) addVar(ident string, val Variable) (previous *Variable) {
	prev, alreadyExists := self.Scopes[len(self.Scopes)-1].Values[ident]
	if alreadyExists {
		return prev
	}
	self.Scopes[len(self.Scopes)-1].Values[ident] = &val
	return nil
}

// Reports whether `ident` exists in an outer scope whilst not being defined in
// the current one.
func (self Module) shadowsVar(ident string) (val *Variable, shadows bool) {
	if _, inCurrent := self.Scopes[len(self.Scopes)-1].Values[ident]; inCurrent {
		return nil, false
	}
	for idx := len(self.Scopes) - 2; idx >= 0; idx-- {
		if val, found := self.Scopes[idx].Values[ident]; found {
			return val, true
		}
	}
	return nil, false
}

//
// Utility methods for functions and classes
//

func (self Module) getFunc(ident string) (fn *Function, found bool) {
	for _, fn := range self.Functions {
		if fn.Ident.Ident() == ident {
			return fn, true
		}
	}
	return nil, false
}

func (self *Module) addFunc(function *Function) {
	self.Functions = append(self.Functions, function)
}

func (self Module) getClass(ident string) (cls *Class, found bool) {
	for _, cls := range self.Classes {
		if cls.Ident.Ident() == ident {
			return cls, true
		}
	}
	return nil, false
}

func (self *Module) addClass(class *Class) {
	self.Classes = append(self.Classes, class)
}

//
// Utility for imports
//

func (self Module) Imports(test string) bool {
	for _, module := range self.ImportsModules {
		if module == test {
			return true
		}
	}
	return false
}

func (self *Analyzer) setCurrentModule(name string) {
	module, found := self.modules[name]
	if !found {
		panic(fmt.Sprintf("`setCurrentModule` was called with a non-existing module as its identifier (%s)", name))
	}
	self.currentModuleName = name
	self.currentModule = module
}
