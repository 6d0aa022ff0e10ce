// Package monad provides the traversal, folding and lifting combinators over
// parsers. Every combinator here sequences its steps with parser.Cursor, in a
// loop, so long lists do not grow the stack.
package monad

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/prim"
)

// Sequence runs ps in order and collects their values. An empty list
// succeeds without consuming, with an unknown error at the current position.
func Sequence[T any](ps []parser.Parser[T]) parser.Parser[[]T] {
	for _, p := range ps {
		parser.AssertParser(p)
	}
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		c := parser.Start(s)
		out := make([]T, 0, len(ps))
		for _, p := range ps {
			v, ok := parser.Step(c, p)
			if !ok {
				return parser.Abort[[]T](c)
			}
			out = append(out, v)
		}
		return parser.Finish(c, out)
	})
}

// Sequence_ runs ps in order and discards their values.
func Sequence_[T any](ps []parser.Parser[T]) parser.Parser[struct{}] {
	return prim.Map(Sequence(ps), func([]T) struct{} { return struct{}{} })
}

// MapM runs f(x) for each x in order and collects the values.
func MapM[A, T any](f func(A) parser.Parser[T], xs []A) parser.Parser[[]T] {
	invariant.NotNil(f, "mapM function")
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		c := parser.Start(s)
		out := make([]T, 0, len(xs))
		for _, x := range xs {
			v, ok := parser.Step(c, f(x))
			if !ok {
				return parser.Abort[[]T](c)
			}
			out = append(out, v)
		}
		return parser.Finish(c, out)
	})
}

// MapM_ is MapM, discarding the values.
func MapM_[A, T any](f func(A) parser.Parser[T], xs []A) parser.Parser[struct{}] {
	return prim.Map(MapM(f, xs), func([]T) struct{} { return struct{}{} })
}

// ForM is MapM with its arguments flipped.
func ForM[A, T any](xs []A, f func(A) parser.Parser[T]) parser.Parser[[]T] {
	return MapM(f, xs)
}

// ForM_ is MapM_ with its arguments flipped.
func ForM_[A, T any](xs []A, f func(A) parser.Parser[T]) parser.Parser[struct{}] {
	return MapM_(f, xs)
}

// FoldM threads an accumulator through f for each x in order.
func FoldM[A, B any](f func(acc B, x A) parser.Parser[B], initial B, xs []A) parser.Parser[B] {
	invariant.NotNil(f, "foldM function")
	return parser.Func[B](func(s parser.State) parser.Result[B] {
		c := parser.Start(s)
		acc := initial
		for _, x := range xs {
			v, ok := parser.Step(c, f(acc, x))
			if !ok {
				return parser.Abort[B](c)
			}
			acc = v
		}
		return parser.Finish(c, acc)
	})
}

// FoldM_ is FoldM, discarding the result.
func FoldM_[A, B any](f func(acc B, x A) parser.Parser[B], initial B, xs []A) parser.Parser[struct{}] {
	return prim.Map(FoldM(f, initial, xs), func(B) struct{} { return struct{}{} })
}

// FilterM keeps the xs for which pred's parser yields true.
func FilterM[A any](pred func(A) parser.Parser[bool], xs []A) parser.Parser[[]A] {
	invariant.NotNil(pred, "filterM predicate")
	return parser.Func[[]A](func(s parser.State) parser.Result[[]A] {
		c := parser.Start(s)
		var out []A
		for _, x := range xs {
			keep, ok := parser.Step(c, pred(x))
			if !ok {
				return parser.Abort[[]A](c)
			}
			if keep {
				out = append(out, x)
			}
		}
		return parser.Finish(c, out)
	})
}

// ZipWithM runs f on pairs from xs and ys, stopping at the shorter list.
func ZipWithM[A, B, T any](f func(A, B) parser.Parser[T], xs []A, ys []B) parser.Parser[[]T] {
	invariant.NotNil(f, "zipWithM function")
	n := min(len(xs), len(ys))
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		c := parser.Start(s)
		out := make([]T, 0, n)
		for i := 0; i < n; i++ {
			v, ok := parser.Step(c, f(xs[i], ys[i]))
			if !ok {
				return parser.Abort[[]T](c)
			}
			out = append(out, v)
		}
		return parser.Finish(c, out)
	})
}

// ZipWithM_ is ZipWithM, discarding the values.
func ZipWithM_[A, B, T any](f func(A, B) parser.Parser[T], xs []A, ys []B) parser.Parser[struct{}] {
	return prim.Map(ZipWithM(f, xs, ys), func([]T) struct{} { return struct{}{} })
}

// ReplicateM runs p n times and collects the values.
func ReplicateM[T any](n int, p parser.Parser[T]) parser.Parser[[]T] {
	invariant.Precondition(n >= 0, "replicate count must not be negative, got %d", n)
	parser.AssertParser(p)
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		c := parser.Start(s)
		out := make([]T, 0, n)
		for i := 0; i < n; i++ {
			v, ok := parser.Step(c, p)
			if !ok {
				return parser.Abort[[]T](c)
			}
			out = append(out, v)
		}
		return parser.Finish(c, out)
	})
}

// ReplicateM_ is ReplicateM, discarding the values.
func ReplicateM_[T any](n int, p parser.Parser[T]) parser.Parser[struct{}] {
	return prim.Map(ReplicateM(n, p), func([]T) struct{} { return struct{}{} })
}

// Forever runs p until it fails; the failure is the result. A p that never
// fails makes Forever loop forever.
func Forever[T, U any](p parser.Parser[T]) parser.Parser[U] {
	parser.AssertParser(p)
	return parser.Func[U](func(s parser.State) parser.Result[U] {
		c := parser.Start(s)
		for {
			if _, ok := parser.Step(c, p); !ok {
				return parser.Abort[U](c)
			}
		}
	})
}

// Join runs the parser that p yields.
func Join[T any](p parser.Parser[parser.Parser[T]]) parser.Parser[T] {
	return prim.Bind(p, func(q parser.Parser[T]) parser.Parser[T] { return q })
}

// Void discards the value of p.
func Void[T any](p parser.Parser[T]) parser.Parser[struct{}] {
	return prim.Map(p, func(T) struct{} { return struct{}{} })
}
