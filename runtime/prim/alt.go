package prim

import (
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
)

// Mzero fails without consuming and without a message.
func Mzero[T any]() parser.Parser[T] {
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		return parser.EErr[T](parseerr.Unknown(s.Pos))
	})
}

// Mplus tries p, and q only if p failed without consuming. When neither
// consumes, their errors are merged.
func Mplus[T any](p, q parser.Parser[T]) parser.Parser[T] {
	parser.AssertParser(p)
	parser.AssertParser(q)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		r1 := parser.Run(p, s)
		if r1.Success || r1.Consumed {
			return r1
		}
		r2 := parser.Run(q, s)
		if r2.Consumed {
			return r2
		}
		err := parseerr.Merge(r1.Err, r2.Err)
		if r2.Success {
			return parser.ESuc(err, r2.Val, r2.State)
		}
		return parser.EErr[T](err)
	})
}

// Try turns a consumed failure of p into an empty one, so alternatives
// after it still run.
func Try[T any](p parser.Parser[T]) parser.Parser[T] {
	parser.AssertParser(p)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		r := parser.Run(p, s)
		if r.Consumed && !r.Success {
			return parser.EErr[T](r.Err)
		}
		return r
	})
}

// LookAhead runs p and, if it succeeds, returns its value without consuming.
// Failures pass through unchanged.
func LookAhead[T any](p parser.Parser[T]) parser.Parser[T] {
	parser.AssertParser(p)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		r := parser.Run(p, s)
		if !r.Success {
			return r
		}
		return parser.ESuc(parseerr.Unknown(s.Pos), r.Val, s)
	})
}
