package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rill-lang/rill/rill/diagnostic"
	"github.com/rill-lang/rill/rill/lexer"
	"github.com/rill-lang/rill/rill/parser"
)

//
// Test host
//

type testHost struct {
	modules     map[string]string
	requireMain bool
}

func (self testHost) ResolveCodeModule(moduleName string) (code string, moduleFound bool, err error) {
	code, found := self.modules[moduleName]
	return code, found, nil
}

func (self testHost) RequireMainFunction() bool {
	return self.requireMain
}

//
// Helpers
//

func analyzeModules(t *testing.T, entryModule string, sources map[string]string, requireMain bool) (map[string]*Module, []diagnostic.Diagnostic) {
	lex := lexer.NewLexer(sources[entryModule], entryModule)
	prs := parser.NewParser(lex, entryModule)

	parsed, softErrors, hardErr := prs.Parse()
	if hardErr != nil {
		t.Fatalf("unexpected parser error: %s", hardErr.Display())
	}
	for _, softErr := range softErrors {
		t.Fatalf("unexpected parser error: %s", softErr.Display())
	}

	analyzer := NewAnalyzer(testHost{modules: sources, requireMain: requireMain})
	modules, diagnostics, syntaxErrors := analyzer.Analyze(parsed)
	for _, syntaxErr := range syntaxErrors {
		t.Fatalf("unexpected syntax error in imported module: %s", syntaxErr.Display())
	}

	return modules, diagnostics
}

func analyzeSingle(t *testing.T, program string) (map[string]*Module, []diagnostic.Diagnostic) {
	return analyzeModules(t, "main", map[string]string{"main": program}, false)
}

func findDiagnostic(t *testing.T, diagnostics []diagnostic.Diagnostic, message string) diagnostic.Diagnostic {
	for _, item := range diagnostics {
		if item.Message == message {
			return item
		}
	}

	t.Fatalf("no diagnostic with message %q, got %s", message, messagesOf(diagnostics))
	return diagnostic.Diagnostic{}
}

func messagesOf(diagnostics []diagnostic.Diagnostic) []string {
	messages := make([]string, 0, len(diagnostics))
	for _, item := range diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s", item.Level, item.Message))
	}
	return messages
}

//
// Symbol table tests
//

func TestFullNamesOfNestedDefinitions(t *testing.T) {
	modules, _ := analyzeSingle(t, `
	fn helper() { return 1; }

	fn main() {
		let _cfg = Config;
		helper();
	}

	class Config {
		fn load() { return helper(); }

		class Nested {
			fn inner() { return 2; }
		}
	}
	`)

	module := modules["main"]
	assert.NotNil(t, module)

	assert.Equal(t, "main.helper", module.Functions[0].Symbol.FullName)
	assert.Equal(t, "main.main", module.Functions[1].Symbol.FullName)

	config := module.Classes[0]
	assert.Equal(t, "main.Config", config.Symbol.FullName)
	assert.Equal(t, "main.Config.load", config.Methods[0].Symbol.FullName)

	nested := config.Classes[0]
	assert.Equal(t, "main.Config.Nested", nested.Symbol.FullName)
	assert.Equal(t, "main.Config.Nested.inner", nested.Methods[0].Symbol.FullName)
}

func TestNestedFunctionsShareTheOuterTarget(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn outer() {
		fn inner() {
			return missing;
		}
		inner();
	}

	fn main() {
		outer();
	}
	`)

	// the nested function is not a target of its own
	item := findDiagnostic(t, diagnostics, "Name 'missing' is not defined")
	assert.Equal(t, "main.outer", item.Target)
}

func TestMethodDiagnosticsAreAttributedToTheMethod(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn main() {
		let _w = Worker;
	}

	class Worker {
		fn run() {
			return missing;
		}
	}
	`)

	item := findDiagnostic(t, diagnostics, "Name 'missing' is not defined")
	assert.Equal(t, "main.Worker.run", item.Target)
}

func TestModuleLevelDiagnosticsAreAttributedToTheModule(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	let x = missing;
	fn main() { return x; }
	`)

	item := findDiagnostic(t, diagnostics, "Name 'missing' is not defined")
	assert.Equal(t, "main", item.Target)
}

//
// Deferred method body tests
//

func TestMethodBodiesSeeLaterDefinitions(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	class Worker {
		fn run() {
			return helper() + counter;
		}
	}

	let counter = 0;

	fn helper() { return 1; }

	fn main() {
		let _w = Worker;
	}
	`)

	assert.Empty(t, messagesOf(diagnostics))
}

func TestMethodBodiesOfImportedModulesStayInTheirModule(t *testing.T) {
	_, diagnostics := analyzeModules(t, "main", map[string]string{
		"main": `
		import util;

		fn main() {
			util.helper();
		}
		`,
		"util": `
		fn helper() { return 1; }

		class Cache {
			fn get() {
				return missing;
			}
		}

		fn main() {
			let _c = Cache;
		}
		`,
	}, false)

	item := findDiagnostic(t, diagnostics, "Name 'missing' is not defined")
	assert.Equal(t, "util.Cache.get", item.Target)
	assert.Equal(t, "util", item.Span.Filename)
}

//
// Definition conflict tests
//

func TestDuplicateFunctionDefinition(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn foo() {}
	fn foo() {}
	fn main() { foo(); }
	`)

	item := findDiagnostic(t, diagnostics, "Duplicate function definition of 'foo'")
	assert.Equal(t, diagnostic.DiagnosticLevelError, item.Level)
	findDiagnostic(t, diagnostics, "Function 'foo' previously defined here")
}

func TestFunctionConflictsWithClass(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	class foo {}
	fn foo() {}
	fn main() { let _f = foo; }
	`)

	findDiagnostic(t, diagnostics, "Function 'foo' conflicts with a class of the same name")
	findDiagnostic(t, diagnostics, "Class 'foo' previously defined here")
}

func TestDuplicateMethodDefinition(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	class Worker {
		fn run() {}
		fn run() {}
	}
	fn main() { let _w = Worker; }
	`)

	findDiagnostic(t, diagnostics, "Duplicate method definition of 'run'")
}

func TestDuplicateParameter(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn foo(a, a) { return a; }
	fn main() { foo(1, 2); }
	`)

	findDiagnostic(t, diagnostics, "Duplicate declaration of parameter 'a'")
}

//
// Name resolution tests
//

func TestUndefinedNameSuggestion(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn helper() { return 1; }
	fn main() {
		helpr();
	}
	`)

	item := findDiagnostic(t, diagnostics, "Name 'helpr' is not defined")
	assert.Contains(t, item.Notes, "Did you mean 'helper'?")
}

func TestShadowingHint(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	let value = 1;
	fn main() {
		let value = 2;
		return value;
	}
	`)

	item := findDiagnostic(t, diagnostics, "Variable 'value' shadowed here")
	assert.Equal(t, diagnostic.DiagnosticLevelHint, item.Level)
}

func TestCallArityMismatch(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn add(lhs, rhs) { return lhs + rhs; }
	fn main() {
		add(1);
	}
	`)

	item := findDiagnostic(t, diagnostics, "Function 'add' expects 2 argument(s), however 1 was supplied")
	assert.Equal(t, diagnostic.DiagnosticLevelError, item.Level)
	assert.Contains(t, item.Notes, "Function 'add' is defined as `fn add(lhs, rhs)`")
}

//
// Unused value tests
//

func TestUnusedWarnings(t *testing.T) {
	_, diagnostics := analyzeModules(t, "main", map[string]string{
		"main": `
		import util;

		let global = 1;

		fn helper() {}

		class Config {}

		fn main(arg) {
			let local = 2;
		}
		`,
		"util": "fn main() {}",
	}, false)

	findDiagnostic(t, diagnostics, "Import 'util' is unused")
	findDiagnostic(t, diagnostics, "Variable 'global' is unused")
	findDiagnostic(t, diagnostics, "Function 'helper' is never used")
	findDiagnostic(t, diagnostics, "Class 'Config' is never used")
	findDiagnostic(t, diagnostics, "Parameter 'arg' is unused")
	item := findDiagnostic(t, diagnostics, "Variable 'local' is unused")
	assert.Contains(t, item.Notes, "If this is intentional, change the name to '_local' to hide this message")
}

func TestUnderscorePrefixSilencesUnusedWarnings(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	fn _helper() {}
	fn main(_arg) {
		let _local = 2;
	}
	`)

	assert.Empty(t, messagesOf(diagnostics))
}

//
// Import tests
//

func TestImportedMemberResolution(t *testing.T) {
	_, diagnostics := analyzeModules(t, "main", map[string]string{
		"main": `
		import util;

		fn main() {
			util.greet();
			util.gret();
		}
		`,
		"util": `
		fn greet() {}
		fn main() {}
		`,
	}, false)

	item := findDiagnostic(t, diagnostics, "No variable, function, or class named 'gret' found in module 'util'")
	assert.Contains(t, item.Notes, "Did you mean 'greet'?")
}

func TestDuplicateImport(t *testing.T) {
	_, diagnostics := analyzeModules(t, "main", map[string]string{
		"main": `
		import util;
		import util;

		fn main() {
			util.helper();
		}
		`,
		"util": "fn helper() {}",
	}, false)

	item := findDiagnostic(t, diagnostics, "Duplicate import of module 'util'")
	assert.Equal(t, diagnostic.DiagnosticLevelError, item.Level)
}

func TestSelfImport(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	import main;
	fn main() {}
	`)

	findDiagnostic(t, diagnostics, "Module 'main' cannot import itself")
}

func TestCyclicImport(t *testing.T) {
	_, diagnostics := analyzeModules(t, "a", map[string]string{
		"a": "import b;\nfn main() {}",
		"b": "import a;\nfn main() {}",
	}, false)

	found := false
	for _, item := range diagnostics {
		if item.Level == diagnostic.DiagnosticLevelError && strings.HasPrefix(item.Message, "Illegal cyclic import:") {
			found = true
		}
	}
	assert.True(t, found, "expected a cyclic import error, got %s", messagesOf(diagnostics))
}

func TestUnresolvableImport(t *testing.T) {
	_, diagnostics := analyzeSingle(t, `
	import nope;
	fn main() { nope.foo(); }
	`)

	findDiagnostic(t, diagnostics, "Module 'nope' not found")
}

//
// Entry point tests
//

func TestMissingMainFunction(t *testing.T) {
	_, diagnostics := analyzeModules(t, "main", map[string]string{
		"main": "fn helper() {}\nfn run() { helper(); }",
	}, true)

	findDiagnostic(t, diagnostics, "Missing 'main' function")
}

func TestMainIsOnlyRequiredInTheEntryModule(t *testing.T) {
	_, diagnostics := analyzeModules(t, "main", map[string]string{
		"main": `
		import util;
		fn main() { util.helper(); }
		`,
		"util": "fn helper() {}",
	}, true)

	assert.Empty(t, messagesOf(diagnostics))
}
