package parser

import "github.com/opal-lang/loquat/core/parseerr"

// Cursor folds a sequence of results into one, following the consumed/empty
// rule:
//
//	step consumed, succeeded  -> consumed; pending error is the step's error
//	step empty, succeeded     -> pending error merged with the step's error
//	step consumed, failed     -> the sequence fails with the step's error alone
//	step empty, failed        -> the sequence fails with the merged error
//
// Compose and the looping combinators are all written in terms of Cursor.
type Cursor struct {
	State    State
	Consumed bool
	Err      parseerr.ParseError
}

// Start returns a cursor that has not consumed anything, with an unknown
// error at the position of s.
func Start(s State) *Cursor {
	return &Cursor{State: s, Err: parseerr.Unknown(s.Pos)}
}

// Resume returns a cursor continuing after a successful result.
func Resume[T any](r Result[T]) *Cursor {
	return &Cursor{State: r.State, Consumed: r.Consumed, Err: r.Err}
}

// Advance folds r into c and reports r's value and whether it succeeded.
// After a failure, Abort returns the sequence's result.
func Advance[T any](c *Cursor, r Result[T]) (T, bool) {
	switch {
	case r.Consumed && r.Success:
		c.Consumed = true
		c.Err = r.Err
		c.State = r.State
	case r.Success:
		c.Err = parseerr.Merge(c.Err, r.Err)
		c.State = r.State
	case r.Consumed:
		c.Consumed = true
		c.Err = r.Err
	default:
		c.Err = parseerr.Merge(c.Err, r.Err)
	}
	return r.Val, r.Success
}

// Step runs p from the cursor's state and folds the result in.
func Step[T any](c *Cursor, p Parser[T]) (T, bool) {
	return Advance(c, Run(p, c.State))
}

// Finish builds the successful result of the sequence.
func Finish[T any](c *Cursor, val T) Result[T] {
	if c.Consumed {
		return CSuc(c.Err, val, c.State)
	}
	return ESuc(c.Err, val, c.State)
}

// Abort builds the failed result of the sequence.
func Abort[T any](c *Cursor) Result[T] {
	if c.Consumed {
		return CErr[T](c.Err)
	}
	return EErr[T](c.Err)
}

// Compose sequences a result with a continuation run from its state. This
// is the bind rule: a failure short-circuits; otherwise consumption is the
// OR of both steps, and the first error survives only if the second step
// consumed nothing.
func Compose[T, U any](first Result[T], next func(val T, s State) Result[U]) Result[U] {
	if !first.Success {
		return Failure[U](first)
	}
	c := Resume(first)
	v, ok := Advance(c, next(first.Val, first.State))
	if !ok {
		return Abort[U](c)
	}
	return Finish(c, v)
}
