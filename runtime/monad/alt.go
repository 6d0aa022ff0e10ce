package monad

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/prim"
)

// Msum tries ps in order: Mplus(p1, Mplus(p2, ... Mzero)).
func Msum[T any](ps []parser.Parser[T]) parser.Parser[T] {
	acc := prim.Mzero[T]()
	for i := len(ps) - 1; i >= 0; i-- {
		acc = prim.Mplus(ps[i], acc)
	}
	return acc
}

// Guard succeeds with no value if cond holds and is Mzero otherwise.
func Guard(cond bool) parser.Parser[struct{}] {
	if cond {
		return prim.Pure(struct{}{})
	}
	return prim.Mzero[struct{}]()
}

// Mfilter fails with Mzero when the value of p does not satisfy pred.
func Mfilter[T any](pred func(T) bool, p parser.Parser[T]) parser.Parser[T] {
	invariant.NotNil(pred, "mfilter predicate")
	return prim.Bind(p, func(v T) parser.Parser[T] {
		if pred(v) {
			return prim.Pure(v)
		}
		return prim.Mzero[T]()
	})
}

// When runs p if cond holds and succeeds without consuming otherwise.
func When[T any](cond bool, p parser.Parser[T]) parser.Parser[struct{}] {
	if cond {
		return Void(p)
	}
	return prim.Pure(struct{}{})
}

// Unless is When with the condition negated.
func Unless[T any](cond bool, p parser.Parser[T]) parser.Parser[struct{}] {
	return When(!cond, p)
}
