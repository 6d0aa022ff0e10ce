package monad

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/prim"
)

// LiftM applies f to the value of p.
func LiftM[A, R any](f func(A) R, p parser.Parser[A]) parser.Parser[R] {
	return prim.Map(p, f)
}

// LiftM2 runs pa then pb and combines their values with f.
func LiftM2[A, B, R any](f func(A, B) R, pa parser.Parser[A], pb parser.Parser[B]) parser.Parser[R] {
	invariant.NotNil(f, "lifted function")
	return prim.Bind(pa, func(a A) parser.Parser[R] {
		return prim.Map(pb, func(b B) R { return f(a, b) })
	})
}

// LiftM3 runs three parsers in order and combines their values with f.
func LiftM3[A, B, C, R any](f func(A, B, C) R, pa parser.Parser[A], pb parser.Parser[B], pc parser.Parser[C]) parser.Parser[R] {
	invariant.NotNil(f, "lifted function")
	return prim.Bind(pa, func(a A) parser.Parser[R] {
		return LiftM2(func(b B, c C) R { return f(a, b, c) }, pb, pc)
	})
}

// LiftM4 runs four parsers in order and combines their values with f.
func LiftM4[A, B, C, D, R any](f func(A, B, C, D) R, pa parser.Parser[A], pb parser.Parser[B], pc parser.Parser[C], pd parser.Parser[D]) parser.Parser[R] {
	invariant.NotNil(f, "lifted function")
	return prim.Bind(pa, func(a A) parser.Parser[R] {
		return LiftM3(func(b B, c C, d D) R { return f(a, b, c, d) }, pb, pc, pd)
	})
}

// LiftM5 runs five parsers in order and combines their values with f.
func LiftM5[A, B, C, D, E, R any](f func(A, B, C, D, E) R, pa parser.Parser[A], pb parser.Parser[B], pc parser.Parser[C], pd parser.Parser[D], pe parser.Parser[E]) parser.Parser[R] {
	invariant.NotNil(f, "lifted function")
	return prim.Bind(pa, func(a A) parser.Parser[R] {
		return LiftM4(func(b B, c C, d D, e E) R { return f(a, b, c, d, e) }, pb, pc, pd, pe)
	})
}
