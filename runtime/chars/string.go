package chars

import (
	"regexp"
	"unicode/utf8"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
	"github.com/opal-lang/loquat/runtime/prim"
)

// String accepts the exact text s.
//
// A mismatch is reported at the start of s. It consumes if at least one
// character matched, so an alternative needs Try to back out of a partial
// match.
func String(s string) parser.Parser[string] {
	want := []rune(s)
	return parser.Func[string](func(st parser.State) parser.Result[string] {
		if len(want) == 0 {
			return parser.ESuc(parseerr.Unknown(st.Pos), "", st)
		}
		input := st.Input
		for i, w := range want {
			head, rest, ok := input.Uncons(st.Config.UnicodeMode)
			var got rune
			if ok {
				got, ok = head.(rune)
				invariant.Invariant(ok, "String needs character input, got %T", head)
			}
			if !ok || got != w {
				unexpected := ""
				if ok {
					unexpected = quote(string(got))
				}
				err := parseerr.NewStrict(st.Pos, []parseerr.Message{
					parseerr.NewMessage(parseerr.SystemUnexpect, unexpected),
					parseerr.NewMessage(parseerr.Expect, quote(s)),
				})
				if i == 0 {
					return parser.EErr[string](err)
				}
				return parser.CErr[string](err)
			}
			input = rest
		}
		pos := position.AddString(st.Pos, s, st.Config.TabWidth, st.Config.UnicodeMode)
		return parser.CSuc(parseerr.Unknown(pos), s, st.SetInput(input).SetPosition(pos))
	})
}

// Regexp accepts the longest text at the cursor matched by pattern, using
// RE2 syntax. It requires a stream.String input. An empty match succeeds
// without consuming.
func Regexp(pattern string) parser.Parser[string] {
	re := regexp.MustCompile(`^(?:` + pattern + `)`)
	re.Longest()
	label := "/" + pattern + "/"

	return parser.Func[string](func(st parser.State) parser.Result[string] {
		in, ok := st.Input.(stream.String)
		invariant.Precondition(ok, "Regexp needs a stream.String input, got %T", st.Input)

		rest := in.Remaining()
		loc := re.FindStringIndex(rest)
		if loc == nil {
			unexpected := ""
			if r, size := utf8.DecodeRuneInString(rest); size > 0 {
				unexpected = quote(string(r))
			}
			return parser.EErr[string](parseerr.NewStrict(st.Pos, []parseerr.Message{
				parseerr.NewMessage(parseerr.SystemUnexpect, unexpected),
				parseerr.NewMessage(parseerr.Expect, label),
			}))
		}

		text := rest[:loc[1]]
		if text == "" {
			return parser.ESuc(parseerr.Unknown(st.Pos), text, st)
		}
		pos := position.AddString(st.Pos, text, st.Config.TabWidth, st.Config.UnicodeMode)
		return parser.CSuc(parseerr.Unknown(pos), text, st.SetInput(in.Skip(loc[1])).SetPosition(pos))
	})
}

// Token skips trailing white space after p. The skipped white space adds
// no expectations to error messages.
func Token[T any](p parser.Parser[T]) parser.Parser[T] {
	return prim.Left(p, trailingSpace)
}

var trailingSpace = prim.SkipMany(prim.Hidden(space))
