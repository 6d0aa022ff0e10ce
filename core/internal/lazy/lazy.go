// Package lazy implements the memoised thunk shared by lazy parse errors and
// lazy parsers.
//
// A Cell moves through three states: unevaluated (holding a producer),
// evaluating, and cached. A producer that panics leaves its cells failed;
// forcing a failed cell panics again with the same value. A producer may return a value that is itself backed
// by another pending Cell; Force follows such chains iteratively and writes the
// terminal value into every cell it visited, so later reads never walk the
// chain again.
package lazy

import "github.com/opal-lang/loquat/core/invariant"

type state uint8

const (
	unevaluated state = iota
	evaluating
	cached
	failed
)

// Cell is a lazily computed value of type T.
// Cells are not safe for concurrent forcing.
type Cell[T any] struct {
	state   state
	produce func() T
	value   T
	failure any
}

// New creates an unevaluated cell. The producer runs at most once.
func New[T any](produce func() T) *Cell[T] {
	invariant.NotNil(produce, "lazy producer")
	return &Cell[T]{produce: produce}
}

// Of creates a cell that is already cached.
func Of[T any](value T) *Cell[T] {
	return &Cell[T]{state: cached, value: value}
}

// Cached reports whether the cell already holds its terminal value.
func (c *Cell[T]) Cached() bool {
	return c.state == cached
}

// Force returns the terminal value of the chain starting at c.
//
// next reports the pending cell behind a produced value, or nil when the
// value is terminal. terminal validates the final value; a producer that ends
// on the wrong kind of value is a programming error.
//
// A producer that, directly or through other cells, demands a cell that is
// currently being evaluated causes a panic instead of looping forever.
func Force[T any](c *Cell[T], next func(T) *Cell[T], terminal func(T) bool, what string) T {
	switch c.state {
	case cached:
		return c.value
	case failed:
		panic(c.failure)
	}

	var visited []*Cell[T]
	defer func() {
		if r := recover(); r != nil {
			for _, v := range visited {
				v.state = failed
				v.failure = r
			}
			panic(r)
		}
	}()

	cur := c
	var value T
	for {
		if cur.state == failed {
			panic(cur.failure)
		}
		if cur.state == cached {
			value = cur.value
			break
		}
		invariant.Invariant(cur.state != evaluating,
			"lazy %s demanded its own value while being evaluated", what)

		cur.state = evaluating
		visited = append(visited, cur)

		produce := cur.produce
		invariant.NotNil(produce, "lazy "+what+" producer")
		cur.produce = nil
		value = produce()

		n := next(value)
		if n == nil {
			break
		}
		cur = n
	}

	invariant.Postcondition(terminal(value), "lazy %s resolved to an unexpected value %T", what, value)

	for _, v := range visited {
		v.value = value
		v.state = cached
	}
	return value
}
