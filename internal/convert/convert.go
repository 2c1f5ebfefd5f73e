// Package convert lowers a WebIDL syntax tree into TypeScript declarations,
// either as plain ambient declarations or shaped as an Emscripten module.
package convert

import (
	"github.com/emlang-project/webidl-dts-gen/internal/fixes"
	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/parser"
	"github.com/emlang-project/webidl-dts-gen/internal/printer"
	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

// DefaultModule is the module name used in Emscripten mode when none is given.
const DefaultModule = "Module"

// Options selects the output shape. Module and DefaultExport only apply
// when Emscripten is set. Strict reports every diagnostic as an error.
type Options struct {
	Emscripten    bool   `json:"emscripten"`
	Module        string `json:"module"`
	DefaultExport bool   `json:"defaultExport"`
	Strict        bool   `json:"strict"`
}

func (o Options) withDefaults() Options {
	if o.Module == "" {
		o.Module = DefaultModule
	}
	return o
}

// Result is the outcome of a conversion.
type Result struct {
	Output      string       `json:"dts"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Convert parses src and renders it as a TypeScript declaration file.
// Malformed input yields a *parser.ParseError; unsupported constructs are
// reported in Result.Diagnostics and left out of the output.
func Convert(src string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	var popts parser.Options
	if opts.Emscripten {
		popts.Preprocess = fixes.Emscripten
	}

	file, err := parser.ParseString(src, popts)
	if err != nil {
		return nil, err
	}

	stmts, diags := Lower(file.Definitions, opts)
	if opts.Emscripten {
		stmts = EmscriptenModule(opts.Module, stmts, opts.DefaultExport)
	}

	return &Result{
		Output:      printer.Print(stmts, printer.Options{}),
		Diagnostics: diags,
	}, nil
}

// Lower converts definitions into declarations. It never modifies the
// definitions. In Emscripten mode the result is the module body, not yet
// wrapped by EmscriptenModule.
func Lower(defs []idl.Definition, opts Options) ([]tsast.Statement, []Diagnostic) {
	l := &lowerer{
		opts:        opts.withDefaults(),
		enumMembers: map[string]bool{},
	}
	var out []tsast.Statement
	for _, def := range defs {
		out = append(out, l.lowerDefinition(def)...)
	}
	return out, l.diagnostics
}

// lowerer holds the state of one conversion.
type lowerer struct {
	opts        Options
	enumMembers map[string]bool // flattened Emscripten enum members already declared
	diagnostics []Diagnostic
}
