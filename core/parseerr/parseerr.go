// Package parseerr implements parse errors: a position plus typed messages,
// with Parsec's merge rule for combining the errors of alternatives.
//
// A ParseError is either strict (position and messages held directly) or lazy
// (a memoised producer). Combinators merge errors on almost every step, and
// most merged errors are never looked at, so Merge and every transform on a
// lazy error only record what to do. The work happens on first access.
package parseerr

import (
	"slices"

	"github.com/opal-lang/loquat/core/internal/lazy"
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/position"
)

// ParseError describes why a parse failed, or what else could have been
// accepted where a parse succeeded.
//
// The variant set is closed: *StrictError and *LazyError. Every ParseError
// is also an error.
type ParseError interface {
	Pos() position.SourcePos
	Messages() []Message
	IsUnknown() bool
	String() string
	Error() string

	SetPosition(pos position.SourcePos) ParseError
	SetMessages(msgs []Message) ParseError
	AddMessages(msgs []Message) ParseError
	// SetSpecificTypeMessages removes every message of type t and appends
	// one message of type t per text, after the surviving messages.
	SetSpecificTypeMessages(t MessageType, texts []string) ParseError

	strict() *StrictError
}

// StrictError holds its position and messages directly.
type StrictError struct {
	pos  position.SourcePos
	msgs []Message
}

// NewStrict creates a strict error. The message list is copied.
func NewStrict(pos position.SourcePos, msgs []Message) *StrictError {
	return &StrictError{pos: pos, msgs: slices.Clone(msgs)}
}

// Unknown creates an error with no messages.
func Unknown(pos position.SourcePos) *StrictError {
	return &StrictError{pos: pos}
}

func (e *StrictError) strict() *StrictError {
	invariant.NotNil(e, "strict parse error")
	return e
}

// Pos returns the error position.
func (e *StrictError) Pos() position.SourcePos { return e.strict().pos }

// Messages returns a copy of the messages in insertion order.
func (e *StrictError) Messages() []Message { return slices.Clone(e.strict().msgs) }

// IsUnknown reports whether the error carries no messages.
func (e *StrictError) IsUnknown() bool { return len(e.strict().msgs) == 0 }

// String renders the position followed by the formatted messages.
func (e *StrictError) String() string {
	return e.strict().pos.String() + "\n" + MessagesToString(e.msgs)
}

func (e *StrictError) Error() string { return e.String() }

// SetPosition returns a copy of e at another position.
func (e *StrictError) SetPosition(pos position.SourcePos) ParseError {
	return &StrictError{pos: pos, msgs: e.strict().msgs}
}

// SetMessages returns a copy of e with msgs replacing its messages.
func (e *StrictError) SetMessages(msgs []Message) ParseError {
	return NewStrict(e.strict().pos, msgs)
}

// AddMessages returns a copy of e with msgs appended.
func (e *StrictError) AddMessages(msgs []Message) ParseError {
	e.strict()
	out := make([]Message, 0, len(e.msgs)+len(msgs))
	out = append(out, e.msgs...)
	out = append(out, msgs...)
	return &StrictError{pos: e.pos, msgs: out}
}

// SetSpecificTypeMessages implements ParseError.
func (e *StrictError) SetSpecificTypeMessages(t MessageType, texts []string) ParseError {
	e.strict()
	out := make([]Message, 0, len(e.msgs)+len(texts))
	for _, m := range e.msgs {
		if m.Type != t {
			out = append(out, m)
		}
	}
	for _, text := range texts {
		out = append(out, Message{Type: t, Msg: text})
	}
	return &StrictError{pos: e.pos, msgs: out}
}

// LazyError is a parse error computed on first access.
type LazyError struct {
	cell *lazy.Cell[ParseError]
}

// NewLazy creates a lazy error. produce runs at most once, and may return
// another lazy error; chains are flattened on evaluation.
func NewLazy(produce func() ParseError) *LazyError {
	return &LazyError{cell: lazy.New(produce)}
}

func nextCell(v ParseError) *lazy.Cell[ParseError] {
	if l, ok := v.(*LazyError); ok && l != nil {
		return l.cell
	}
	return nil
}

func isStrict(v ParseError) bool {
	s, ok := v.(*StrictError)
	return ok && s != nil
}

func (e *LazyError) strict() *StrictError {
	invariant.NotNil(e, "lazy parse error")
	return lazy.Force(e.cell, nextCell, isStrict, "parse error").(*StrictError)
}

// Evaluated reports whether the error has already been computed.
func (e *LazyError) Evaluated() bool { return e.cell.Cached() }

// Pos implements ParseError.
func (e *LazyError) Pos() position.SourcePos { return e.strict().Pos() }

// Messages implements ParseError.
func (e *LazyError) Messages() []Message { return e.strict().Messages() }

// IsUnknown implements ParseError.
func (e *LazyError) IsUnknown() bool { return e.strict().IsUnknown() }

// String implements ParseError.
func (e *LazyError) String() string { return e.strict().String() }

func (e *LazyError) Error() string { return e.String() }

// SetPosition implements ParseError without forcing e.
func (e *LazyError) SetPosition(pos position.SourcePos) ParseError {
	return NewLazy(func() ParseError { return e.strict().SetPosition(pos) })
}

// SetMessages implements ParseError without forcing e.
func (e *LazyError) SetMessages(msgs []Message) ParseError {
	msgs = slices.Clone(msgs)
	return NewLazy(func() ParseError { return e.strict().SetMessages(msgs) })
}

// AddMessages implements ParseError without forcing e.
func (e *LazyError) AddMessages(msgs []Message) ParseError {
	msgs = slices.Clone(msgs)
	return NewLazy(func() ParseError { return e.strict().AddMessages(msgs) })
}

// SetSpecificTypeMessages implements ParseError without forcing e.
func (e *LazyError) SetSpecificTypeMessages(t MessageType, texts []string) ParseError {
	texts = slices.Clone(texts)
	return NewLazy(func() ParseError { return e.strict().SetSpecificTypeMessages(t, texts) })
}

// Merge combines the errors of two parse attempts. Evaluation is deferred.
//
// An unknown error yields to a known one. Otherwise the error further ahead
// in the input wins outright; at equal positions the messages of a are
// followed by the messages of b, without deduplication.
func Merge(a, b ParseError) ParseError {
	invariant.NotNil(a, "merged error")
	invariant.NotNil(b, "merged error")
	return NewLazy(func() ParseError {
		aUnknown, bUnknown := a.IsUnknown(), b.IsUnknown()
		switch {
		case bUnknown && !aUnknown:
			return a
		case aUnknown && !bUnknown:
			return b
		}

		switch position.Compare(a.Pos(), b.Pos()) {
		case 1:
			return a
		case -1:
			return b
		default:
			sa, sb := a.strict(), b.strict()
			msgs := make([]Message, 0, len(sa.msgs)+len(sb.msgs))
			msgs = append(msgs, sa.msgs...)
			msgs = append(msgs, sb.msgs...)
			return &StrictError{pos: sa.pos, msgs: msgs}
		}
	})
}

// Equal reports whether two errors have the same position and the same
// messages in the same order.
func Equal(a, b ParseError) bool {
	sa, sb := a.strict(), b.strict()
	return position.Equal(sa.pos, sb.pos) && MessagesEqual(sa.msgs, sb.msgs)
}
