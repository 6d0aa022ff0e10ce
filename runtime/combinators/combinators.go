package combinators

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/monad"
	"github.com/opal-lang/loquat/runtime/prim"
)

// Choice tries each parser in order until one succeeds or consumes.
func Choice[T any](ps ...parser.Parser[T]) parser.Parser[T] {
	return monad.Msum(ps)
}

// Option runs p and yields def if p fails without consuming.
func Option[T any](def T, p parser.Parser[T]) parser.Parser[T] {
	return prim.Mplus(p, prim.Pure(def))
}

// Maybe is an optional value.
type Maybe[T any] struct {
	Value T
	Valid bool
}

// OptionMaybe runs p and reports whether it produced a value.
func OptionMaybe[T any](p parser.Parser[T]) parser.Parser[Maybe[T]] {
	return Option(Maybe[T]{}, prim.Map(p, func(v T) Maybe[T] { return Maybe[T]{Value: v, Valid: true} }))
}

// Optional runs p and discards its value; it fails only if p consumed.
func Optional[T any](p parser.Parser[T]) parser.Parser[struct{}] {
	return Option(struct{}{}, monad.Void(p))
}

// Between runs open, p and closing and yields the value of p.
func Between[O, C, T any](open parser.Parser[O], closing parser.Parser[C], p parser.Parser[T]) parser.Parser[T] {
	return prim.Then(open, prim.Left(p, closing))
}

// Many1 is prim.Many that requires at least one value.
func Many1[T any](p parser.Parser[T]) parser.Parser[[]T] {
	return prim.Bind(p, func(x T) parser.Parser[[]T] {
		return prim.Map(prim.Many(p), func(xs []T) []T { return append([]T{x}, xs...) })
	})
}

// SkipMany1 is prim.SkipMany that requires at least one match.
func SkipMany1[T any](p parser.Parser[T]) parser.Parser[struct{}] {
	return prim.Then(p, prim.SkipMany(p))
}

// SepBy parses zero or more p separated by sep.
func SepBy[T, S any](p parser.Parser[T], sep parser.Parser[S]) parser.Parser[[]T] {
	return Option([]T(nil), SepBy1(p, sep))
}

// SepBy1 parses one or more p separated by sep.
func SepBy1[T, S any](p parser.Parser[T], sep parser.Parser[S]) parser.Parser[[]T] {
	return prim.Bind(p, func(x T) parser.Parser[[]T] {
		return prim.Map(prim.Many(prim.Then(sep, p)), func(xs []T) []T { return append([]T{x}, xs...) })
	})
}

// EndBy parses zero or more p, each followed by sep.
func EndBy[T, S any](p parser.Parser[T], sep parser.Parser[S]) parser.Parser[[]T] {
	return prim.Many(prim.Left(p, sep))
}

// EndBy1 parses one or more p, each followed by sep.
func EndBy1[T, S any](p parser.Parser[T], sep parser.Parser[S]) parser.Parser[[]T] {
	return Many1(prim.Left(p, sep))
}

// SepEndBy parses zero or more p separated and optionally ended by sep.
func SepEndBy[T, S any](p parser.Parser[T], sep parser.Parser[S]) parser.Parser[[]T] {
	return Option([]T(nil), SepEndBy1(p, sep))
}

// SepEndBy1 parses one or more p separated and optionally ended by sep.
func SepEndBy1[T, S any](p parser.Parser[T], sep parser.Parser[S]) parser.Parser[[]T] {
	parser.AssertParser(p)
	parser.AssertParser(sep)
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		c := parser.Start(s)
		x, ok := parser.Step(c, p)
		if !ok {
			return parser.Abort[[]T](c)
		}
		out := []T{x}
		for {
			rs := parser.Run(sep, c.State)
			if done, failed := stop(c, rs); done {
				return finish(c, failed, out)
			}
			rp := parser.Run(p, c.State)
			invariant.Invariant(rs.Consumed || rp.Consumed || !rp.Success,
				"SepEndBy1 applied to parsers that both accept the empty input")
			if done, failed := stop(c, rp); done {
				return finish(c, failed, out)
			}
			out = append(out, rp.Val)
		}
	})
}

// stop folds r into c. It reports whether the loop is over and, if so,
// whether it ended in failure.
func stop[T any](c *parser.Cursor, r parser.Result[T]) (done bool, failed bool) {
	if _, ok := parser.Advance(c, r); ok {
		return false, false
	}
	return true, r.Consumed
}

func finish[T any](c *parser.Cursor, failed bool, v T) parser.Result[T] {
	if failed {
		return parser.Abort[T](c)
	}
	return parser.Finish(c, v)
}

// Count runs p exactly n times.
func Count[T any](n int, p parser.Parser[T]) parser.Parser[[]T] {
	return monad.ReplicateM(n, p)
}

// ChainL1 parses one or more p separated by op and folds them with the
// operators from the left.
func ChainL1[T any](p parser.Parser[T], op parser.Parser[func(T, T) T]) parser.Parser[T] {
	parser.AssertParser(p)
	parser.AssertParser(op)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		c := parser.Start(s)
		acc, ok := parser.Step(c, p)
		if !ok {
			return parser.Abort[T](c)
		}
		for {
			before := c.State
			ro := parser.Run(op, c.State)
			if done, failed := stop(c, ro); done {
				return finish(c, failed, acc)
			}
			rp := parser.Run(p, c.State)
			y, ok := parser.Advance(c, rp)
			if !ok {
				if retreat(c, before, ro, rp) {
					return parser.Finish(c, acc)
				}
				return parser.Abort[T](c)
			}
			acc = ro.Val(acc, y)
		}
	})
}

// retreat ends a chain before an operator that matched without consuming
// when the operand after it also failed without consuming. The cursor keeps
// both errors and goes back to the state before the operator. It reports
// whether the chain ended this way.
func retreat[O, T any](c *parser.Cursor, before parser.State, ro parser.Result[O], rp parser.Result[T]) bool {
	if ro.Consumed || rp.Consumed {
		return false
	}
	c.State = before
	return true
}

// ChainL is ChainL1 that yields def when there is no p at all.
func ChainL[T any](p parser.Parser[T], op parser.Parser[func(T, T) T], def T) parser.Parser[T] {
	return Option(def, ChainL1(p, op))
}

// ChainR1 parses one or more p separated by op and folds them with the
// operators from the right.
func ChainR1[T any](p parser.Parser[T], op parser.Parser[func(T, T) T]) parser.Parser[T] {
	parser.AssertParser(p)
	parser.AssertParser(op)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		c := parser.Start(s)
		x, ok := parser.Step(c, p)
		if !ok {
			return parser.Abort[T](c)
		}
		operands := []T{x}
		var ops []func(T, T) T
	loop:
		for {
			before := c.State
			ro := parser.Run(op, c.State)
			if done, failed := stop(c, ro); done {
				if failed {
					return parser.Abort[T](c)
				}
				break loop
			}
			rp := parser.Run(p, c.State)
			y, ok := parser.Advance(c, rp)
			if !ok {
				if retreat(c, before, ro, rp) {
					break loop
				}
				return parser.Abort[T](c)
			}
			ops = append(ops, ro.Val)
			operands = append(operands, y)
		}

		acc := operands[len(operands)-1]
		for i := len(ops) - 1; i >= 0; i-- {
			acc = ops[i](operands[i], acc)
		}
		return parser.Finish(c, acc)
	})
}

// ChainR is ChainR1 that yields def when there is no p at all.
func ChainR[T any](p parser.Parser[T], op parser.Parser[func(T, T) T], def T) parser.Parser[T] {
	return Option(def, ChainR1(p, op))
}

// NotFollowedBy succeeds without consuming when p fails, and fails without
// consuming when p succeeds.
func NotFollowedBy[T any](p parser.Parser[T]) parser.Parser[struct{}] {
	parser.AssertParser(p)
	return parser.Func[struct{}](func(s parser.State) parser.Result[struct{}] {
		r := parser.Run(prim.Try(p), s)
		if r.Success {
			return parser.EErr[struct{}](parseerr.NewStrict(s.Pos, []parseerr.Message{
				parseerr.NewMessage(parseerr.Unexpect, prim.ShowToken(r.Val)),
			}))
		}
		return parser.ESuc(parseerr.Unknown(s.Pos), struct{}{}, s)
	})
}

// Reduce folds the values of zero or more p into an accumulator without
// collecting them.
func Reduce[T, A any](p parser.Parser[T], f func(acc A, v T) A, initial A) parser.Parser[A] {
	parser.AssertParser(p)
	invariant.NotNil(f, "reduce function")
	return parser.Func[A](func(s parser.State) parser.Result[A] {
		c := parser.Start(s)
		acc := initial
		for {
			r := parser.Run(p, c.State)
			invariant.Invariant(r.Consumed || !r.Success, "Reduce applied to a parser that accepts the empty input")
			if done, failed := stop(c, r); done {
				return finish(c, failed, acc)
			}
			acc = f(acc, r.Val)
		}
	})
}
