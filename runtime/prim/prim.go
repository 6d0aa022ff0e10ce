// Package prim provides the primitive parsers every other combinator is
// built from: monadic sequencing, failure and labelling, choice and
// backtracking, repetition, single-token matching and state access.
package prim

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
)

// Pure succeeds with v without consuming input.
func Pure[T any](v T) parser.Parser[T] {
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		return parser.ESuc(parseerr.Unknown(s.Pos), v, s)
	})
}

// Bind runs p, then the parser f builds from its value.
func Bind[T, U any](p parser.Parser[T], f func(T) parser.Parser[U]) parser.Parser[U] {
	parser.AssertParser(p)
	invariant.NotNil(f, "bind continuation")
	return parser.Func[U](func(s parser.State) parser.Result[U] {
		return parser.Compose(parser.Run(p, s), func(v T, next parser.State) parser.Result[U] {
			return parser.Run(f(v), next)
		})
	})
}

// Map applies f to the value of p.
func Map[T, U any](p parser.Parser[T], f func(T) U) parser.Parser[U] {
	parser.AssertParser(p)
	invariant.NotNil(f, "map function")
	return parser.Func[U](func(s parser.State) parser.Result[U] {
		return parser.MapResult(parser.Run(p, s), f)
	})
}

// Then runs p and q in sequence and keeps the value of q.
func Then[T, U any](p parser.Parser[T], q parser.Parser[U]) parser.Parser[U] {
	parser.AssertParser(q)
	return Bind(p, func(T) parser.Parser[U] { return q })
}

// Left runs p and q in sequence and keeps the value of p.
func Left[T, U any](p parser.Parser[T], q parser.Parser[U]) parser.Parser[T] {
	parser.AssertParser(q)
	return Bind(p, func(v T) parser.Parser[T] {
		return Map(q, func(U) T { return v })
	})
}

// Ap runs pf and then p, and applies the function to the value.
func Ap[T, U any](pf parser.Parser[func(T) U], p parser.Parser[T]) parser.Parser[U] {
	parser.AssertParser(p)
	return Bind(pf, func(f func(T) U) parser.Parser[U] { return Map(p, f) })
}

// Loop is the value of one TailRecM step: either the next seed or the final
// value.
type Loop[A, B any] struct {
	done bool
	next A
	val  B
}

// Continue makes TailRecM run another step from a.
func Continue[A, B any](a A) Loop[A, B] { return Loop[A, B]{next: a} }

// Done makes TailRecM stop with b.
func Done[A, B any](b B) Loop[A, B] { return Loop[A, B]{done: true, val: b} }

// TailRecM runs f from initial, feeding each Continue seed back into f until
// a step returns Done. Steps are sequenced like Bind, in a loop.
func TailRecM[A, B any](initial A, f func(A) parser.Parser[Loop[A, B]]) parser.Parser[B] {
	invariant.NotNil(f, "step function")
	return parser.Func[B](func(s parser.State) parser.Result[B] {
		c := parser.Start(s)
		a := initial
		for {
			step, ok := parser.Step(c, f(a))
			if !ok {
				return parser.Abort[B](c)
			}
			if step.done {
				return parser.Finish(c, step.val)
			}
			a = step.next
		}
	})
}
