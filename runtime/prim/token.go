package prim

import (
	"fmt"
	"strconv"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/position"
)

// TokenSpec describes how Token tests, shows and steps over a token.
type TokenSpec[E any] struct {
	// Test reports whether the token is accepted.
	Test func(tok E) bool
	// Show renders the token for "unexpected" messages. Defaults to ShowToken.
	Show func(tok E) string
	// Next returns the position after the token. Defaults to AdvanceToken.
	Next func(pos position.SourcePos, tok E, cfg parser.Config) position.SourcePos
}

// Token accepts one token of type E that passes spec.Test.
//
// At end of input it fails with an empty system-unexpected message, which
// renders as "unexpected end of input". A rejected token fails with the
// shown token as the system-unexpected message. Neither failure consumes.
func Token[E any](spec TokenSpec[E]) parser.Parser[E] {
	invariant.NotNil(spec.Test, "token test")
	show := spec.Show
	if show == nil {
		show = ShowToken[E]
	}
	next := spec.Next
	if next == nil {
		next = AdvanceToken[E]
	}

	return parser.Func[E](func(s parser.State) parser.Result[E] {
		head, rest, ok := s.Input.Uncons(s.Config.UnicodeMode)
		if !ok {
			return parser.EErr[E](systemUnexpect(s.Pos, ""))
		}
		tok, ok := head.(E)
		invariant.Invariant(ok, "input yielded %T, parser expects %T", head, tok)
		if !spec.Test(tok) {
			return parser.EErr[E](systemUnexpect(s.Pos, show(tok)))
		}
		pos := next(s.Pos, tok, s.Config)
		return parser.CSuc(parseerr.Unknown(pos), tok, s.SetInput(rest).SetPosition(pos))
	})
}

// Satisfy accepts one token that passes pred, with default showing and
// position handling.
func Satisfy[E any](pred func(E) bool) parser.Parser[E] {
	return Token(TokenSpec[E]{Test: pred})
}

// ShowToken quotes runes and strings and formats anything else with %v.
func ShowToken[E any](tok E) string {
	switch v := any(tok).(type) {
	case rune:
		return strconv.Quote(string(v))
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AdvanceToken moves over runes and strings as text and over any other
// token by one column.
func AdvanceToken[E any](pos position.SourcePos, tok E, cfg parser.Config) position.SourcePos {
	switch v := any(tok).(type) {
	case rune:
		return position.AddString(pos, string(v), cfg.TabWidth, cfg.UnicodeMode)
	case string:
		return position.AddString(pos, v, cfg.TabWidth, cfg.UnicodeMode)
	default:
		return pos.SetColumn(pos.Column + 1)
	}
}

func systemUnexpect(pos position.SourcePos, text string) parseerr.ParseError {
	return parseerr.NewStrict(pos, []parseerr.Message{parseerr.NewMessage(parseerr.SystemUnexpect, text)})
}

// AnyToken accepts any single token.
func AnyToken[E any]() parser.Parser[E] {
	return Satisfy(func(E) bool { return true })
}

// EOF succeeds only at the end of input.
func EOF() parser.Parser[struct{}] {
	return parser.Func[struct{}](func(s parser.State) parser.Result[struct{}] {
		head, _, ok := s.Input.Uncons(s.Config.UnicodeMode)
		if !ok {
			return parser.ESuc(parseerr.Unknown(s.Pos), struct{}{}, s)
		}
		return parser.EErr[struct{}](parseerr.NewStrict(s.Pos, []parseerr.Message{
			parseerr.NewMessage(parseerr.Unexpect, ShowToken(head)),
			parseerr.NewMessage(parseerr.Expect, "end of input"),
		}))
	})
}
