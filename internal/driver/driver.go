// Package driver wires the Lexer, Parser, IRGenerator, Optimizer and Backend
// into the single pure-function compilation pipeline of spec.md §2/§5, and
// restores original_source/src/main.cpp's stage banners behind a -v flag
// (SPEC_FULL.md Supplemented Feature #1). Every stage error is wrapped with
// the source filename via %w (SPEC_FULL.md's Error handling section) so
// callers can errors.As through to the underlying LexError/ParseError/
// SemanticError while still seeing which file failed.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/tinyrange/syc/internal/codegen/x86_64"
	"github.com/tinyrange/syc/internal/ir"
	"github.com/tinyrange/syc/internal/lexer"
	"github.com/tinyrange/syc/internal/parser"
)

// IOError is raised at the driver boundary on file open/write failure
// (spec.md §7).
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// Options controls the driver's optional side output, independent of the
// pipeline's pure result.
type Options struct {
	Verbose    bool
	DumpTokens bool
	DumpIR     bool
	Optimize   bool      // gates whether the Optimizer stage runs at all
	Out        io.Writer // stage banners and -ir/-tokens dumps; defaults to os.Stdout
}

// Result carries every artifact a caller might want after a successful
// compilation: the token stream, the module (optimized when opts.Optimize is
// set), its textual IR form, and the final assembly text.
type Result struct {
	Tokens   []lexer.Token
	Module   *ir.Module
	IRText   string
	Assembly string
}

// Compile runs source through every pipeline stage and returns the final
// assembly text (plus the intermediate artifacts), or the first error from
// whichever stage produced it. It touches no files itself (its only output is
// banners and dumps written to opts.Out) — CompileFile wraps this with file
// reading/writing.
func Compile(filename, source string, opts Options) (Result, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.Verbose {
		fmt.Fprintln(out, "=== Lexical Analysis ===")
	}
	tokens, err := scanAll(source)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", filename, err)
	}
	if opts.DumpTokens {
		for _, t := range tokens {
			fmt.Fprintln(out, t.String())
		}
	}
	if opts.Verbose {
		fmt.Fprintf(out, "Tokens: %d\n\n", len(tokens))
	}

	if opts.Verbose {
		fmt.Fprintln(out, "=== Syntax Analysis ===")
	}
	prog, err := parser.ParseFile(filename, source)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", filename, err)
	}
	if opts.Verbose {
		fmt.Fprintln(out, "Parsing completed successfully")
		fmt.Fprintln(out)
	}

	if opts.Verbose {
		fmt.Fprintln(out, "=== Intermediate Code Generation ===")
	}
	module, err := ir.Generate(prog)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", filename, err)
	}
	if opts.Optimize {
		module = ir.Optimize(module)
	}
	irText := module.Text()
	if opts.DumpIR {
		fmt.Fprint(out, irText)
	}
	if opts.Verbose {
		fmt.Fprintln(out, "IR generation completed")
		fmt.Fprintln(out)
	}

	if opts.Verbose {
		fmt.Fprintln(out, "=== Code Generation ===")
	}
	asm, err := x86_64.Emit(module)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", filename, err)
	}

	return Result{Tokens: tokens, Module: module, IRText: irText, Assembly: asm}, nil
}

// scanAll drains a Lexer into a token slice, stopping at EOF or the first
// LexError.
func scanAll(source string) ([]lexer.Token, error) {
	lx := lexer.New(source)
	var toks []lexer.Token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Type == lexer.EOF {
			break
		}
	}
	return toks, nil
}

// CompileFile reads path, compiles it, and writes the resulting assembly to
// outPath. It is the only place in the module that touches the filesystem
// outside of the CLI's own flag handling.
func CompileFile(path, outPath string, opts Options) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &IOError{Path: path, Err: err}
	}
	res, err := Compile(path, string(data), opts)
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(outPath, []byte(res.Assembly), 0644); err != nil {
		return Result{}, &IOError{Path: outPath, Err: err}
	}
	if opts.Verbose {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintf(out, "Assembly code written to %s\n\nCompilation successful!\n", outPath)
	}
	return res, nil
}
