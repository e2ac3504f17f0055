package analyzer

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/rill/analyzer/scope"
	"github.com/rill-lang/rill/rill/diagnostic"
	"github.com/rill-lang/rill/rill/errors"
	"github.com/rill-lang/rill/rill/lexer"
	"github.com/rill-lang/rill/rill/parser"
	pAst "github.com/rill-lang/rill/rill/parser/ast"
)

//
// Host dependencies
//

type Host interface {
	// Resolves the source code of an imported module
	ResolveCodeModule(moduleName string) (code string, moduleFound bool, err error)
	// Whether the entry module must contain a `main` function
	RequireMainFunction() bool
}

//
// Analyzer
//

type Analyzer struct {
	diagnostics       []diagnostic.Diagnostic
	syntaxErrors      []errors.Error
	modules           map[string]*Module
	programs          map[string]pAst.Program
	importEdges       map[string][]importEdge
	resolveFailures   map[string]string
	currentModuleName string
	currentModule     *Module
	scope             *scope.Tracker
	deferred          []deferredMethod
	host              Host
	entryModule       string
}

type importEdge struct {
	To   string
	Span errors.Span
}

// A method body whose analysis was deferred during the top-down traversal of
// its module, to be processed later under its saved scope.
type deferredMethod struct {
	node   pAst.FunctionDefinition
	fn     *Function
	module string
	saved  scope.SavedScope
}

func NewAnalyzer(host Host) Analyzer {
	return Analyzer{
		diagnostics:       make([]diagnostic.Diagnostic, 0),
		syntaxErrors:      make([]errors.Error, 0),
		modules:           make(map[string]*Module),
		programs:          make(map[string]pAst.Program),
		importEdges:       make(map[string][]importEdge),
		resolveFailures:   make(map[string]string),
		currentModuleName: "",
		currentModule:     nil,
		scope:             scope.NewTracker(),
		deferred:          make([]deferredMethod, 0),
		host:              host,
	}
}

//
// Analyzer helper functions
//

func (self *Analyzer) error(message string, notes []string, span errors.Span) {
	self.diagnostics = append(self.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelError,
		Message: message,
		Notes:   notes,
		Span:    span,
		Target:  self.scope.CurrentTarget(),
	})
}

func (self *Analyzer) warn(message string, notes []string, span errors.Span) {
	self.diagnostics = append(self.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelWarning,
		Message: message,
		Notes:   notes,
		Span:    span,
		Target:  self.scope.CurrentTarget(),
	})
}

func (self *Analyzer) hint(message string, notes []string, span errors.Span) {
	self.diagnostics = append(self.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelHint,
		Message: message,
		Notes:   notes,
		Span:    span,
		Target:  self.scope.CurrentTarget(),
	})
}

// Produces the fully-qualified name of `ident` when defined directly inside
// the scope named by `parent`.
func qualifiedName(parent string, ident string) string {
	return fmt.Sprintf("%s.%s", parent, ident)
}

//
// Analyzer logic
//

func (self *Analyzer) Analyze(
	parsedEntryModule pAst.Program,
) (
	modules map[string]*Module,
	diagnostics []diagnostic.Diagnostic,
	syntaxErrors []errors.Error,
) {
	self.entryModule = parsedEntryModule.Filename
	self.programs[self.entryModule] = parsedEntryModule
	self.collectImports(parsedEntryModule)

	// analyze dependencies before their importers so that import resolution
	// can look at completed modules; exactly one module pass is active at a
	// time, which is what allows a single shared scope tracker
	order := self.moduleOrder()
	for _, moduleName := range order {
		self.analyzeModule(moduleName)

		// method bodies deferred during this pass are processed now, outside
		// of the normal top-down traversal order
		self.drainDeferred()
	}

	for _, moduleName := range order {
		self.checkUnused(moduleName)
	}

	return self.modules, self.diagnostics, self.syntaxErrors
}

// Recursively parses all modules reachable from `program` via imports. Only
// parsing happens here; analysis runs later, one module at a time.
func (self *Analyzer) collectImports(program pAst.Program) {
	for _, item := range program.Imports {
		moduleName := item.Module.Ident()
		self.importEdges[program.Filename] = append(self.importEdges[program.Filename], importEdge{
			To:   moduleName,
			Span: item.Span(),
		})

		if _, seen := self.programs[moduleName]; seen {
			continue
		}
		if _, failed := self.resolveFailures[moduleName]; failed {
			continue
		}

		code, found, err := self.host.ResolveCodeModule(moduleName)
		if err != nil {
			self.resolveFailures[moduleName] = fmt.Sprintf("Host error: could not resolve module '%s': %s", moduleName, err.Error())
			continue
		}
		if !found {
			self.resolveFailures[moduleName] = fmt.Sprintf("Module '%s' not found", moduleName)
			continue
		}

		lex := lexer.NewLexer(code, moduleName)
		prs := parser.NewParser(lex, moduleName)
		parsed, softErrors, hardErr := prs.Parse()
		self.syntaxErrors = append(self.syntaxErrors, softErrors...)
		if hardErr != nil {
			self.syntaxErrors = append(self.syntaxErrors, *hardErr)
			self.resolveFailures[moduleName] = fmt.Sprintf("Module '%s' contains syntax errors", moduleName)
			continue
		}

		self.programs[moduleName] = parsed
		self.collectImports(parsed)
	}
}

// Returns all successfully parsed modules, dependencies first.
func (self *Analyzer) moduleOrder() []string {
	order := make([]string, 0, len(self.programs))
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		for _, edge := range self.importEdges[name] {
			if _, parsed := self.programs[edge.To]; parsed {
				visit(edge.To)
			}
		}

		order = append(order, name)
	}

	visit(self.entryModule)
	return order
}

func (self *Analyzer) analyzeModule(moduleName string) {
	program := self.programs[moduleName]

	self.modules[moduleName] = &Module{
		ImportsModules: make([]string, 0),
		Functions:      make([]*Function, 0),
		Classes:        make([]*Class, 0),
		Scopes:         make([]valueScope, 0),
	}
	self.setCurrentModule(moduleName)

	self.scope.EnterModule(moduleName)
	defer self.scope.LeaveModule()

	// add the root scope; it is dropped (but kept for the module's consumers)
	// in `checkUnused` once the deferred method bodies have run
	self.currentModule.pushScope()

	// resolve all import statements
	for _, item := range program.Imports {
		self.importItem(item)
	}

	// register all class and function signatures first (renders order of
	// definition irrelevant)
	for _, cls := range program.Classes {
		self.registerClass(cls, nil)
	}
	for _, fn := range program.Functions {
		self.registerFunction(fn)
	}

	// analyze all global let statements
	for _, item := range program.Globals {
		self.letStatement(item)
	}

	// analyze all top-level function bodies
	for _, fn := range program.Functions {
		if registered, found := self.currentModule.getFunc(fn.Ident.Ident()); found {
			self.functionBody(fn, registered.Symbol)
		}
	}

	// walk class bodies, deferring each method
	for _, cls := range program.Classes {
		if registered, found := self.currentModule.getClass(cls.Ident.Ident()); found {
			self.classBody(cls, registered)
		}
	}

	// check if the `main` function exists
	if self.host.RequireMainFunction() && moduleName == self.entryModule {
		if _, found := self.currentModule.getFunc("main"); !found {
			self.error(
				"Missing 'main' function",
				[]string{"the 'main' function can be implemented like this: `fn main() { ... }`"},
				errors.Span{Filename: program.Filename},
			)
		}
	}

}

// Reports unused module-level values. This must run after every module has
// been analyzed, otherwise a value only used inside a deferred method body or
// by an importing module would be flagged.
func (self *Analyzer) checkUnused(moduleName string) {
	self.setCurrentModule(moduleName)

	self.scope.EnterModule(moduleName)
	defer self.scope.LeaveModule()

	for _, fn := range self.currentModule.Functions {
		if fn.Used || fn.Ident.Ident() == "main" || strings.HasPrefix(fn.Ident.Ident(), "_") {
			continue
		}
		self.warn(
			fmt.Sprintf("Function '%s' is never used", fn.Ident.Ident()),
			[]string{fmt.Sprintf("If this is intentional, change the name to '_%s' to hide this message", fn.Ident.Ident())},
			fn.Ident.Span(),
		)
	}
	for _, cls := range self.currentModule.Classes {
		if cls.Used || strings.HasPrefix(cls.Ident.Ident(), "_") {
			continue
		}
		self.warn(
			fmt.Sprintf("Class '%s' is never used", cls.Ident.Ident()),
			[]string{fmt.Sprintf("If this is intentional, change the name to '_%s' to hide this message", cls.Ident.Ident())},
			cls.Ident.Span(),
		)
	}

	// drop the root scope so that all unused globals are displayed
	// do not remove the scope
	self.dropScope(false)
}

//
// Import resolution
//

func (self *Analyzer) importItem(node pAst.ImportStatement) {
	moduleName := node.Module.Ident()

	if moduleName == self.currentModuleName {
		self.error(
			fmt.Sprintf("Module '%s' cannot import itself", moduleName),
			nil,
			node.Span(),
		)
		return
	}

	if self.currentModule.Imports(moduleName) {
		self.error(
			fmt.Sprintf("Duplicate import of module '%s'", moduleName),
			nil,
			node.Span(),
		)
		return
	}

	self.currentModule.ImportsModules = append(self.currentModule.ImportsModules, moduleName)

	// analyze if this import causes a cyclic dependency
	if path, isCyclic := self.importGraphIsCyclic(self.currentModuleName); isCyclic {
		self.error(
			fmt.Sprintf("Illegal cyclic import: module %s", strings.Join(path, " -> ")),
			nil,
			node.Span(),
		)
	} else if failure, failed := self.resolveFailures[moduleName]; failed {
		self.error(failure, nil, node.Span())
	}

	// the name is bound even if resolution failed, preventing cascading
	// undefined-reference errors
	if prev := self.currentModule.addVar(moduleName, NewVar(node.Span(), ImportedVariableOriginKind)); prev != nil {
		self.error(
			fmt.Sprintf("Name '%s' already exists in current scope", moduleName),
			nil,
			node.Span(),
		)
	}
}

//
// Signature registration
//

func (self *Analyzer) registerFunction(node pAst.FunctionDefinition) {
	if prev, exists := self.currentModule.getFunc(node.Ident.Ident()); exists {
		// check if the identifier conflicts with another function
		self.error(
			fmt.Sprintf("Duplicate function definition of '%s'", node.Ident.Ident()),
			[]string{"Consider changing the name of this function"},
			node.Ident.Span(),
		)
		self.hint(
			fmt.Sprintf("Function '%s' previously defined here", node.Ident.Ident()),
			nil,
			prev.Ident.Span(),
		)
		return
	}
	if prev, exists := self.currentModule.getClass(node.Ident.Ident()); exists {
		self.error(
			fmt.Sprintf("Function '%s' conflicts with a class of the same name", node.Ident.Ident()),
			nil,
			node.Ident.Span(),
		)
		self.hint(
			fmt.Sprintf("Class '%s' previously defined here", node.Ident.Ident()),
			nil,
			prev.Ident.Span(),
		)
		return
	}

	symbol := scope.NewFuncSymbol(
		node.Ident.Ident(),
		qualifiedName(self.scope.CurrentFullTarget(), node.Ident.Ident()),
	)
	self.currentModule.addFunc(newFunction(node.Ident, symbol, node.Parameters, node.ParamSpan))
}

func (self *Analyzer) registerClass(node pAst.ClassDefinition, parent *Class) {
	var siblings []*Class
	if parent == nil {
		siblings = self.currentModule.Classes
	} else {
		siblings = parent.Classes
	}
	for _, sibling := range siblings {
		if sibling.Ident.Ident() == node.Ident.Ident() {
			self.error(
				fmt.Sprintf("Duplicate class definition of '%s'", node.Ident.Ident()),
				[]string{"Consider changing the name of this class"},
				node.Ident.Span(),
			)
			self.hint(
				fmt.Sprintf("Class '%s' previously defined here", node.Ident.Ident()),
				nil,
				sibling.Ident.Span(),
			)
			return
		}
	}

	symbol := scope.NewClassSymbol(
		node.Ident.Ident(),
		qualifiedName(self.scope.CurrentFullTarget(), node.Ident.Ident()),
	)
	class := newClass(node.Ident, symbol)

	// method and nested class names are qualified relative to this class, so
	// the class scope must be active whilst registering them
	self.scope.EnterClass(symbol)
	defer self.scope.LeaveClass()

	for _, method := range node.Methods {
		if prev, exists := class.getMethod(method.Ident.Ident()); exists {
			self.error(
				fmt.Sprintf("Duplicate method definition of '%s'", method.Ident.Ident()),
				[]string{"Consider changing the name of this method"},
				method.Ident.Span(),
			)
			self.hint(
				fmt.Sprintf("Method '%s' previously defined here", method.Ident.Ident()),
				nil,
				prev.Ident.Span(),
			)
			continue
		}

		methodSymbol := scope.NewFuncSymbol(
			method.Ident.Ident(),
			qualifiedName(self.scope.CurrentFullTarget(), method.Ident.Ident()),
		)
		class.Methods = append(class.Methods, newFunction(method.Ident, methodSymbol, method.Parameters, method.ParamSpan))
	}

	for _, inner := range node.Classes {
		self.registerClass(inner, class)
	}

	if parent == nil {
		self.currentModule.addClass(class)
	} else {
		parent.Classes = append(parent.Classes, class)
	}
}

//
// Class bodies and deferred methods
//

// Walks a class body in lexical order, deferring the analysis of every method
// body. The saved scope captured here is all that is needed to process the
// method later, without replaying the traversal that led to it.
func (self *Analyzer) classBody(node pAst.ClassDefinition, class *Class) {
	self.scope.EnterClass(class.Symbol)
	defer self.scope.LeaveClass()

	for _, method := range node.Methods {
		registered, found := class.getMethod(method.Ident.Ident())
		if !found {
			// skipped duplicate
			continue
		}

		self.deferred = append(self.deferred, deferredMethod{
			node:   method,
			fn:     registered,
			module: self.currentModuleName,
			saved:  self.scope.Save(),
		})
	}

	for _, inner := range node.Classes {
		for _, registered := range class.Classes {
			if registered.Ident.Ident() == inner.Ident.Ident() {
				self.classBody(inner, registered)
				break
			}
		}
	}
}

func (self *Analyzer) drainDeferred() {
	for len(self.deferred) != 0 {
		item := self.deferred[0]
		self.deferred = self.deferred[1:]

		self.setCurrentModule(item.module)

		release := self.scope.Restore(item.saved)
		self.functionBody(item.node, item.fn.Symbol)
		release()
	}
}

//
// Function bodies
//

func (self *Analyzer) functionBody(node pAst.FunctionDefinition, symbol *scope.FuncSymbol) {
	self.scope.EnterFunction(symbol)
	defer self.scope.LeaveFunction()

	self.currentModule.pushScope()

	// analyze params (no doubles)
	existentParams := make(map[string]struct{})
	for _, param := range node.Parameters {
		if _, duplicate := existentParams[param.Ident.Ident()]; duplicate {
			self.error(
				fmt.Sprintf("Duplicate declaration of parameter '%s'", param.Ident.Ident()),
				nil,
				param.Span,
			)
			continue
		}
		existentParams[param.Ident.Ident()] = struct{}{}

		self.currentModule.addVar(param.Ident.Ident(), NewVar(param.Ident.Span(), ParameterVariableOriginKind))
	}

	self.block(node.Body, false)

	// drop scope when finished
	self.dropScope(true)
}
