package prim

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
)

func get[T any](f func(parser.State) T) parser.Parser[T] {
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		return parser.ESuc(parseerr.Unknown(s.Pos), f(s), s)
	})
}

func update(f func(parser.State) parser.State) parser.Parser[struct{}] {
	return parser.Func[struct{}](func(s parser.State) parser.Result[struct{}] {
		next := f(s)
		return parser.ESuc(parseerr.Unknown(next.Pos), struct{}{}, next)
	})
}

// GetState returns the whole parser state.
func GetState() parser.Parser[parser.State] {
	return get(func(s parser.State) parser.State { return s })
}

// SetState replaces the parser state with the given one. Its input, position
// and user state are used; config and telemetry stay with the running parse.
func SetState(ns parser.State) parser.Parser[struct{}] {
	return update(func(s parser.State) parser.State {
		return s.SetInput(ns.Input).SetPosition(ns.Pos).SetUserState(ns.UserState)
	})
}

// GetConfig returns the position config.
func GetConfig() parser.Parser[parser.Config] {
	return get(func(s parser.State) parser.Config { return s.Config })
}

// SetConfig replaces the position config for the rest of the parse.
func SetConfig(cfg parser.Config) parser.Parser[struct{}] {
	invariant.Positive(cfg.TabWidth, "tab width")
	return update(func(s parser.State) parser.State { return s.SetConfig(cfg) })
}

// GetInput returns the remaining input.
func GetInput() parser.Parser[stream.Stream] {
	return get(func(s parser.State) stream.Stream { return s.Input })
}

// SetInput replaces the remaining input.
func SetInput(in stream.Stream) parser.Parser[struct{}] {
	invariant.NotNil(in, "input")
	return update(func(s parser.State) parser.State { return s.SetInput(in) })
}

// GetPosition returns the current position.
func GetPosition() parser.Parser[position.SourcePos] {
	return get(func(s parser.State) position.SourcePos { return s.Pos })
}

// SetPosition moves the current position.
func SetPosition(pos position.SourcePos) parser.Parser[struct{}] {
	return update(func(s parser.State) parser.State { return s.SetPosition(pos) })
}

// GetUserState returns the user state as a U. A nil user state yields the
// zero U; any other type mismatch is a programming error.
func GetUserState[U any]() parser.Parser[U] {
	return get(func(s parser.State) U { return userState[U](s) })
}

// SetUserState replaces the user state.
func SetUserState(u any) parser.Parser[struct{}] {
	return update(func(s parser.State) parser.State { return s.SetUserState(u) })
}

// UpdateUserState applies f to the user state.
func UpdateUserState[U any](f func(U) U) parser.Parser[struct{}] {
	invariant.NotNil(f, "user state update")
	return update(func(s parser.State) parser.State {
		return s.SetUserState(f(userState[U](s)))
	})
}

func userState[U any](s parser.State) U {
	var zero U
	if s.UserState == nil {
		return zero
	}
	u, ok := s.UserState.(U)
	invariant.Invariant(ok, "user state is %T, not %T", s.UserState, zero)
	return u
}
