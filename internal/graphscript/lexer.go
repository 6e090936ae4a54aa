// Package graphscript is a small declarative language for describing a
// graph fixture as text: inputs, nodes applying a named fixtures
// operator with optional destroy()/view() declarations, and designated
// outputs. It exists only as a convenience front end for cmd/dbgengine
// and the tests in this package — engine.Run never depends on it.
//
// Grounded on kanso's grammar.KansoLexer (participle/v2's
// lexer.MustStateful) and grammar.go's struct-tag grammar style, cut
// down to the handful of productions this format actually needs.
package graphscript

import "github.com/alecthomas/participle/v2/lexer"

var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `-?[0-9]+(\.[0-9]+)?`, nil},
		{"Punct", `[(),:=\[\]]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
