package parser

import (
	"reflect"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
)

// Config holds the settings that affect position tracking.
type Config struct {
	TabWidth    int  // Columns per tab stop; must be positive
	UnicodeMode bool // Count columns in code points instead of UTF-16 units
}

// DefaultConfig returns a tab width of 8 with unicode mode off.
func DefaultConfig() Config {
	return Config{TabWidth: 8}
}

// State is the immutable input threaded through a parse.
type State struct {
	Config    Config
	Input     stream.Stream
	Pos       position.SourcePos
	UserState any

	meter *meter
}

// NewState creates a parser state.
func NewState(cfg Config, input stream.Stream, pos position.SourcePos, userState any) State {
	invariant.Positive(cfg.TabWidth, "tab width")
	invariant.NotNil(input, "input")
	return State{Config: cfg, Input: input, Pos: pos, UserState: userState}
}

// SetConfig returns a copy of s with a different config.
func (s State) SetConfig(cfg Config) State {
	invariant.Positive(cfg.TabWidth, "tab width")
	s.Config = cfg
	return s
}

// SetInput returns a copy of s positioned on another input cursor.
func (s State) SetInput(input stream.Stream) State {
	invariant.NotNil(input, "input")
	s.Input = input
	return s
}

// SetPosition returns a copy of s with a different position.
func (s State) SetPosition(pos position.SourcePos) State {
	s.Pos = pos
	return s
}

// SetUserState returns a copy of s with different user state.
func (s State) SetUserState(u any) State {
	s.UserState = u
	return s
}

// Equal compares two states. Inputs and user states are open types, so the
// caller supplies their equality; a nil predicate means reflect.DeepEqual.
func (s State) Equal(other State, inputEq func(a, b stream.Stream) bool, userStateEq func(a, b any) bool) bool {
	if inputEq == nil {
		inputEq = func(a, b stream.Stream) bool { return reflect.DeepEqual(a, b) }
	}
	if userStateEq == nil {
		userStateEq = func(a, b any) bool { return reflect.DeepEqual(a, b) }
	}
	return s.Config == other.Config &&
		position.Equal(s.Pos, other.Pos) &&
		inputEq(s.Input, other.Input) &&
		userStateEq(s.UserState, other.UserState)
}
