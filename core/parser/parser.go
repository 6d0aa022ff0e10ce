// Package parser defines the parser execution model: the State threaded
// through a parse, the four-way Result algebra, the Parser capability and its
// lazy variant, and the sequencing rule every combinator is built from.
package parser

import (
	"github.com/opal-lang/loquat/core/internal/lazy"
	"github.com/opal-lang/loquat/core/invariant"
)

// Parser is anything that can be run against a State.
//
// The variant set is closed: Func[T] and *Lazy[T]. Build parsers with Func,
// NewLazy or the combinator packages.
type Parser[T any] interface {
	Run(s State) Result[T]
	valid() bool
}

// marker is satisfied by every Parser[T], whatever T is.
type marker interface {
	valid() bool
}

// Func adapts a function to Parser.
type Func[T any] func(s State) Result[T]

// Run implements Parser.
func (f Func[T]) Run(s State) Result[T] { return f(s) }

func (f Func[T]) valid() bool { return f != nil }

// Lazy is a parser built on first use. It lets recursive and mutually
// recursive grammars refer to parsers that are not constructed yet.
//
// The thunk runs once. It may return another Lazy; the chain is flattened
// and every link remembers the final parser. Lazy parsers are not safe for
// concurrent first use; force them (Run once, or call Force) before sharing.
type Lazy[T any] struct {
	cell *lazy.Cell[Parser[T]]
}

// NewLazy wraps a parser thunk.
func NewLazy[T any](thunk func() Parser[T]) *Lazy[T] {
	return &Lazy[T]{cell: lazy.New(thunk)}
}

func (l *Lazy[T]) valid() bool { return l != nil && l.cell != nil }

// Force evaluates the thunk chain and returns the underlying parser.
func (l *Lazy[T]) Force() Parser[T] {
	invariant.Precondition(l.valid(), "lazy parser is nil")
	return lazy.Force(l.cell, nextParser[T], isFunc[T], "parser")
}

// Run implements Parser.
func (l *Lazy[T]) Run(s State) Result[T] {
	return l.Force().Run(s)
}

func nextParser[T any](p Parser[T]) *lazy.Cell[Parser[T]] {
	if l, ok := p.(*Lazy[T]); ok && l != nil {
		return l.cell
	}
	return nil
}

func isFunc[T any](p Parser[T]) bool {
	f, ok := p.(Func[T])
	return ok && f != nil
}

// IsParser reports whether x is a usable parser of any result type.
func IsParser(x any) bool {
	m, ok := x.(marker)
	return ok && m.valid()
}

// AssertParser panics unless x is a usable parser.
func AssertParser(x any) {
	invariant.Precondition(IsParser(x), "expected a parser, got %T", x)
}

// Run runs p against s. Combinators run their operands through Run rather
// than calling p.Run directly so that telemetry sees every step.
func Run[T any](p Parser[T], s State) Result[T] {
	invariant.Precondition(p != nil && p.valid(), "cannot run a nil parser")
	if s.meter == nil {
		return p.Run(s)
	}
	s.meter.enter()
	r := p.Run(s)
	s.meter.exit()
	return r
}

// Erase converts p to a parser of any, for registries and other
// heterogeneous collections.
func Erase[T any](p Parser[T]) Parser[any] {
	AssertParser(p)
	if ep, ok := any(p).(Parser[any]); ok {
		return ep
	}
	return Func[any](func(s State) Result[any] {
		return MapResult(Run(p, s), func(v T) any { return v })
	})
}

// Narrow converts an erased parser back to a typed one. A successful result
// whose value is not a T is a programming error.
func Narrow[T any](p Parser[any]) Parser[T] {
	AssertParser(p)
	if tp, ok := any(p).(Parser[T]); ok {
		return tp
	}
	return Func[T](func(s State) Result[T] {
		return MapResult(Run(p, s), func(v any) T {
			if v == nil {
				var zero T
				return zero
			}
			t, ok := v.(T)
			invariant.Invariant(ok, "parser produced %T where %T was expected", v, t)
			return t
		})
	})
}
