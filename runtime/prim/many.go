package prim

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
)

// Many runs p until it fails without consuming and collects the values.
// A consumed failure of p is the result.
//
// p must consume input whenever it succeeds; otherwise Many would never
// stop, and it panics instead.
func Many[T any](p parser.Parser[T]) parser.Parser[[]T] {
	parser.AssertParser(p)
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		var out []T
		err := repeat(p, s, func(v T) { out = append(out, v) })
		return finishMany(err, out)
	})
}

// SkipMany is Many without collecting values.
func SkipMany[T any](p parser.Parser[T]) parser.Parser[struct{}] {
	parser.AssertParser(p)
	return parser.Func[struct{}](func(s parser.State) parser.Result[struct{}] {
		return finishMany(repeat(p, s, func(T) {}), struct{}{})
	})
}

type manyEnd struct {
	c      *parser.Cursor
	failed bool
}

func repeat[T any](p parser.Parser[T], s parser.State, keep func(T)) manyEnd {
	c := parser.Start(s)
	for {
		r := parser.Run(p, c.State)
		if r.Success && !r.Consumed {
			invariant.Fail("Many applied to a parser that accepts the empty input")
		}
		v, ok := parser.Advance(c, r)
		if !ok {
			return manyEnd{c: c, failed: r.Consumed}
		}
		keep(v)
	}
}

func finishMany[T any](end manyEnd, v T) parser.Result[T] {
	if end.failed {
		return parser.Abort[T](end.c)
	}
	return parser.Finish(end.c, v)
}
