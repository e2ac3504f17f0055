package rill

import (
	"github.com/rill-lang/rill/rill/analyzer"
	"github.com/rill-lang/rill/rill/diagnostic"
	"github.com/rill-lang/rill/rill/errors"
	"github.com/rill-lang/rill/rill/lexer"
	"github.com/rill-lang/rill/rill/parser"
)

type InputProgram struct {
	ProgramText string
	Filename    string
}

// Analyze parses and analyzes the entry module and everything it imports
// (resolved through `host`), returning the per-module symbol tables alongside
// all diagnostics and syntax errors.
func Analyze(
	input InputProgram,
	host analyzer.Host,
) (
	modules map[string]*analyzer.Module,
	diagnostics []diagnostic.Diagnostic,
	syntaxErrors []errors.Error,
) {
	lex := lexer.NewLexer(input.ProgramText, input.Filename)
	prs := parser.NewParser(lex, input.Filename)

	parsed, softErrors, hardErr := prs.Parse()
	if hardErr != nil {
		return nil, nil, append(softErrors, *hardErr)
	}

	analyzerInst := analyzer.NewAnalyzer(host)
	modules, diagnostics, analysisSyntaxErrors := analyzerInst.Analyze(parsed)

	return modules, diagnostics, append(softErrors, analysisSyntaxErrors...)
}

//
// Static host
//

// StaticHost resolves imported modules from an in-memory map, keyed by module
// name.
type StaticHost struct {
	Modules     map[string]string
	RequireMain bool
}

func (self StaticHost) ResolveCodeModule(moduleName string) (code string, moduleFound bool, err error) {
	code, found := self.Modules[moduleName]
	return code, found, nil
}

func (self StaticHost) RequireMainFunction() bool {
	return self.RequireMain
}
