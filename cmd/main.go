package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/rill-lang/rill/rill"
	"github.com/rill-lang/rill/rill/analyzer"
	"github.com/rill-lang/rill/rill/diagnostic"
)

const programName = "rill"
const version = "latest"
const fileExtension = ".rill"

//
// File host
//

// Resolves imported modules from `.rill` files next to the entry file
type fileHost struct {
	baseDir     string
	requireMain bool
}

func (self fileHost) ResolveCodeModule(moduleName string) (code string, moduleFound bool, err error) {
	path := filepath.Join(self.baseDir, moduleName+fileExtension)

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	return string(file), true, nil
}

func (self fileHost) RequireMainFunction() bool {
	return self.requireMain
}

//
// Check command
//

func fileValidator(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("Expected exactly one argument <file>")
	}
	return nil
}

func moduleNameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), fileExtension)
}

func checkFile(ctx *cli.Context) error {
	path := ctx.Args().Get(0)

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	host := fileHost{
		baseDir:     filepath.Dir(path),
		requireMain: ctx.Bool("require-main"),
	}

	modules, diagnostics, syntaxErrors := rill.Analyze(
		rill.InputProgram{
			ProgramText: string(file),
			Filename:    moduleNameOf(path),
		},
		host,
	)

	if ctx.Bool("dump") {
		spew.Fdump(os.Stderr, modules)
	}

	useColor := !ctx.Bool("no-color") && term.IsTerminal(int(os.Stdout.Fd()))

	if len(syntaxErrors) != 0 {
		for _, syntaxErr := range syntaxErrors {
			fmt.Println(syntaxErr.Display())
		}
		return cli.Exit("Encountered syntax error(s)", 1)
	}

	if ctx.Bool("json") {
		out, err := json.MarshalIndent(diagnostics, "", "    ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		for _, item := range diagnostics {
			if useColor {
				program, err := sourceOf(host, item, string(file), moduleNameOf(path))
				if err != nil {
					return err
				}
				fmt.Println(item.Display(program))
			} else {
				fmt.Println(item.DisplayPlain())
			}
		}
	}

	errCount := 0
	for _, item := range diagnostics {
		if item.Level == diagnostic.DiagnosticLevelError {
			errCount++
		}
	}
	if errCount != 0 {
		return cli.Exit(fmt.Sprintf("Found %d error(s)", errCount), 1)
	}

	return nil
}

// Loads the source text of the module a diagnostic points into
func sourceOf(host fileHost, item diagnostic.Diagnostic, entrySource string, entryModule string) (string, error) {
	if item.Span.Filename == entryModule || item.Span.Filename == "" {
		return entrySource, nil
	}

	code, found, err := host.ResolveCodeModule(item.Span.Filename)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("Could not read module `%s`", item.Span.Filename)
	}
	return code, nil
}

//
// Targets command
//

func listTargets(ctx *cli.Context) error {
	path := ctx.Args().Get(0)

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	modules, _, syntaxErrors := rill.Analyze(
		rill.InputProgram{
			ProgramText: string(file),
			Filename:    moduleNameOf(path),
		},
		fileHost{baseDir: filepath.Dir(path)},
	)

	if len(syntaxErrors) != 0 {
		for _, syntaxErr := range syntaxErrors {
			fmt.Println(syntaxErr.Display())
		}
		return cli.Exit("Encountered syntax error(s)", 1)
	}

	for moduleName, module := range modules {
		fmt.Println(moduleName)
		printTargets(module)
	}

	return nil
}

func printTargets(module *analyzer.Module) {
	for _, fn := range module.Functions {
		fmt.Printf("  %s\n", fn.Symbol.FullName)
	}

	var walk func(cls *analyzer.Class)
	walk = func(cls *analyzer.Class) {
		for _, method := range cls.Methods {
			fmt.Printf("  %s\n", method.Symbol.FullName)
		}
		for _, inner := range cls.Classes {
			walk(inner)
		}
	}
	for _, cls := range module.Classes {
		walk(cls)
	}
}

func main() {
	// nolint:exhaustruct
	app := &cli.App{
		Name:     programName,
		Version:  version,
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "The Rill Authors",
				Email: "",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "Analyze a Rill file and print all diagnostics",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print diagnostics as JSON",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "Dump the analyzed symbol tables to stderr",
					},
					&cli.BoolFlag{
						Name:  "no-color",
						Usage: "Disable colored output",
					},
					&cli.BoolFlag{
						Name:  "require-main",
						Usage: "Require a `main` function in the entry module",
					},
				},
				Before: fileValidator,
				Action: checkFile,
			},
			{
				Name:      "targets",
				Usage:     "List the dependency-tracking targets of a Rill file and its imports",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action:    listTargets,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
