// Package grammars holds sample grammars written with the public
// combinators. The CLI exposes them by name.
package grammars

import (
	"maps"
	"slices"

	"github.com/opal-lang/loquat/core/parser"
)

// Grammar is a named parser.
type Grammar struct {
	Name        string
	Description string
	build       func() parser.Parser[any]
}

// Parser builds the grammar's top-level parser.
func (g Grammar) Parser() parser.Parser[any] {
	return g.build()
}

var registry = map[string]Grammar{
	"json": {Name: "json", Description: "JSON documents (RFC 8259)", build: func() parser.Parser[any] { return JSON() }},
	"arith": {Name: "arith", Description: "arithmetic over + - * / ^ and parentheses", build: func() parser.Parser[any] {
		return parser.Erase(Arith())
	}},
	"csv": {Name: "csv", Description: "comma-separated records with quoted fields", build: func() parser.Parser[any] {
		return parser.Erase(CSV())
	}},
}

// Lookup returns the grammar registered under name.
func Lookup(name string) (Grammar, bool) {
	g, ok := registry[name]
	return g, ok
}

// Names returns the grammar names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
