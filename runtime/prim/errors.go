package prim

import (
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
)

func failWith[T any](t parseerr.MessageType, msg string) parser.Parser[T] {
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		return parser.EErr[T](parseerr.NewStrict(s.Pos, []parseerr.Message{parseerr.NewMessage(t, msg)}))
	})
}

// Fail fails without consuming, with msg as a generic message.
func Fail[T any](msg string) parser.Parser[T] {
	return failWith[T](parseerr.Generic, msg)
}

// Unexpected fails without consuming, reporting msg as unexpected.
func Unexpected[T any](msg string) parser.Parser[T] {
	return failWith[T](parseerr.Unexpect, msg)
}

// Label replaces the expectations of p with label when p does not consume.
func Label[T any](p parser.Parser[T], label string) parser.Parser[T] {
	return Labels(p, label)
}

// Labels replaces the expectations of p with labels when p does not consume.
// An empty success with an unknown error is left alone.
func Labels[T any](p parser.Parser[T], labels ...string) parser.Parser[T] {
	parser.AssertParser(p)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		r := parser.Run(p, s)
		if r.Consumed {
			return r
		}
		if !r.Success {
			return parser.EErr[T](r.Err.SetSpecificTypeMessages(parseerr.Expect, labels))
		}
		err := r.Err
		r.Err = parseerr.NewLazy(func() parseerr.ParseError {
			if err.IsUnknown() {
				return err
			}
			return err.SetSpecificTypeMessages(parseerr.Expect, labels)
		})
		return r
	})
}

// Hidden removes the expectations of p when it does not consume.
func Hidden[T any](p parser.Parser[T]) parser.Parser[T] {
	return Labels(p)
}
