package sugar

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
)

// Chain is a parser with registry methods callable by name.
type Chain struct {
	p   parser.Parser[any]
	reg *Registry
}

// From starts a chain on p using the global registry.
func From[T any](p parser.Parser[T]) Chain {
	return FromRegistry(Global(), p)
}

// FromRegistry starts a chain on p using reg.
func FromRegistry[T any](reg *Registry, p parser.Parser[T]) Chain {
	invariant.NotNil(reg, "registry")
	return Chain{p: parser.Erase(p), reg: reg}
}

// Call applies the named method. An unknown name panics with suggestions.
func (c Chain) Call(name string, args ...any) Chain {
	m := c.reg.mustLookup(name)
	next := m(c.p, args...)
	invariant.Postcondition(parser.IsParser(next), "parser method %q returned %T, not a parser", name, next)
	return Chain{p: next, reg: c.reg}
}

// Parser returns the chained parser.
func (c Chain) Parser() parser.Parser[any] {
	return c.p
}

// Run runs the chained parser.
func (c Chain) Run(s parser.State) parser.Result[any] {
	return parser.Run(c.p, s)
}
