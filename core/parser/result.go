package parser

import (
	"reflect"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/stream"
)

// Shape classifies a result as consumed or empty, success or failure.
type Shape uint8

const (
	ShapeCSuc Shape = iota // consumed input and succeeded
	ShapeCErr              // consumed input and failed
	ShapeESuc              // succeeded without consuming
	ShapeEErr              // failed without consuming
)

func (s Shape) String() string {
	switch s {
	case ShapeCSuc:
		return "csuc"
	case ShapeCErr:
		return "cerr"
	case ShapeESuc:
		return "esuc"
	case ShapeEErr:
		return "eerr"
	}
	return "shape(?)"
}

// Result is the outcome of running a parser.
//
// Val and State are meaningful only when Success is true. On success Err
// still carries what else could have been accepted at the stopping point,
// which alternatives merge into their own errors.
type Result[T any] struct {
	Consumed bool
	Success  bool
	Err      parseerr.ParseError
	Val      T
	State    State
}

// CSuc builds a consumed success.
func CSuc[T any](err parseerr.ParseError, val T, s State) Result[T] {
	invariant.NotNil(err, "result error")
	return Result[T]{Consumed: true, Success: true, Err: err, Val: val, State: s}
}

// CErr builds a consumed failure.
func CErr[T any](err parseerr.ParseError) Result[T] {
	invariant.NotNil(err, "result error")
	return Result[T]{Consumed: true, Err: err}
}

// ESuc builds an empty success.
func ESuc[T any](err parseerr.ParseError, val T, s State) Result[T] {
	invariant.NotNil(err, "result error")
	return Result[T]{Success: true, Err: err, Val: val, State: s}
}

// EErr builds an empty failure.
func EErr[T any](err parseerr.ParseError) Result[T] {
	invariant.NotNil(err, "result error")
	return Result[T]{Err: err}
}

// Shape returns the result's variant.
func (r Result[T]) Shape() Shape {
	switch {
	case r.Consumed && r.Success:
		return ShapeCSuc
	case r.Consumed:
		return ShapeCErr
	case r.Success:
		return ShapeESuc
	default:
		return ShapeEErr
	}
}

// MapResult applies f to the value of a successful result.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.Success {
		return Failure[U](r)
	}
	return Result[U]{Consumed: r.Consumed, Success: true, Err: r.Err, Val: f(r.Val), State: r.State}
}

// Failure re-types a failed result.
func Failure[U, T any](r Result[T]) Result[U] {
	invariant.Precondition(!r.Success, "cannot re-type a successful %s result", r.Shape())
	return Result[U]{Consumed: r.Consumed, Err: r.Err}
}

// EqualOptions supplies the equality predicates Result.Equal needs for open
// types. Nil predicates fall back to reflect.DeepEqual.
type EqualOptions[T any] struct {
	Value     func(a, b T) bool
	Input     func(a, b stream.Stream) bool
	UserState func(a, b any) bool
}

// Equal compares two results. Successful results compare consumption,
// value, state and error; if either failed only success, consumption and
// error are compared.
func (r Result[T]) Equal(other Result[T], opts EqualOptions[T]) bool {
	if r.Success != other.Success || r.Consumed != other.Consumed {
		return false
	}
	if !parseerr.Equal(r.Err, other.Err) {
		return false
	}
	if !r.Success {
		return true
	}
	valueEq := opts.Value
	if valueEq == nil {
		valueEq = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	return valueEq(r.Val, other.Val) && r.State.Equal(other.State, opts.Input, opts.UserState)
}
