// Package hlsl provides HLSL (High Level Shading Language) parsing.
//
// The package is the front-end of a shader translator: it turns HLSL source
// text (vertex, pixel, and geometry shaders) into a typed abstract syntax
// tree for later semantic analysis and code generation.
//
// # Components
//
//   - Scanner: tokenizes HLSL source code with position tracking
//   - Parser: a recursive-descent parser producing the AST
//   - AST: node definitions for declarations, statements, and expressions
//   - ASTPrinter: a reference Visitor that dumps a tree via a Logger
//
// # Usage
//
// To parse an HLSL shader:
//
//	source := `
//	float4 main() : SV_Target {
//	    return float4(1, 0, 0, 1);
//	}
//	`
//
//	parser := hlsl.NewParser(hlsl.NewStdLogger(os.Stderr))
//	program := parser.ParseSource(hlsl.NewSourceCode("shader.hlsl", source))
//	if program == nil {
//	    // the first syntax error has been reported to the logger
//	}
//
// # Behavior notes
//
// The parser stops at the first syntax error: it reports a single
// diagnostic line and returns no tree. Preprocessor directives are not
// expanded; each directive line is kept verbatim as an opaque node. Binary
// expressions are produced as right-leaning chains without operator
// precedence, which a later pass re-balances.
package hlsl
