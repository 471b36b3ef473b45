// Package shade provides a Pure Go HLSL shader front-end.
//
// shade parses HLSL (vertex/pixel/geometry shader) source code into a typed
// abstract syntax tree suitable for semantic analysis and code generation.
//
// The package provides a simple, high-level API for parsing as well as
// lower-level access to the scanner and parser in the hlsl package.
//
// Example usage:
//
//	source := `
//	float4 main() : SV_Target {
//	    return float4(1, 0, 0, 1);
//	}
//	`
//	program, err := shade.Parse("shader.hlsl", source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	shade.Dump(program, os.Stdout)
package shade

import (
	"errors"
	"io"
	"os"

	"github.com/gogpu/shade/hlsl"
)

// Parse parses HLSL source text into an AST.
//
// The name identifies the source in diagnostics and node positions. On the
// first syntax error the returned error carries the single diagnostic line
// and no tree is returned.
func Parse(name, source string) (*hlsl.Program, error) {
	log := &captureLogger{}
	parser := hlsl.NewParser(log)

	program := parser.ParseSource(hlsl.NewSourceCode(name, source))
	if program == nil {
		if log.err != "" {
			return nil, errors.New(log.err)
		}
		return nil, errors.New("scanner initialization failed")
	}
	return program, nil
}

// ParseFile reads and parses an HLSL shader file.
func ParseFile(path string) (*hlsl.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(data))
}

// Dump writes an indented AST listing to w.
func Dump(program *hlsl.Program, w io.Writer) {
	hlsl.DumpAST(program, hlsl.NewStdLogger(w))
}

// captureLogger keeps the first error line so Parse can return it.
type captureLogger struct {
	err string
}

func (l *captureLogger) Info(msg string)    {}
func (l *captureLogger) Warning(msg string) {}

func (l *captureLogger) Error(msg string) {
	if l.err == "" {
		l.err = msg
	}
}

func (l *captureLogger) IncIndent() {}
func (l *captureLogger) DecIndent() {}
