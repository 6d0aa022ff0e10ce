package grammars

import (
	"strconv"
	"unicode/utf16"

	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/chars"
	"github.com/opal-lang/loquat/runtime/combinators"
	"github.com/opal-lang/loquat/runtime/monad"
	"github.com/opal-lang/loquat/runtime/prim"
)

func symbol(c rune) parser.Parser[rune] {
	return chars.Token(chars.Char(c))
}

func keyword[T any](word string, v T) parser.Parser[any] {
	return chars.Token(prim.Map(chars.String(word), func(string) any { return v }))
}

var jsonEscapes = map[rune]rune{
	'"': '"', '\\': '\\', '/': '/', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t',
}

func hex4() parser.Parser[rune] {
	return prim.Map(combinators.Count(4, chars.HexDigit()), func(ds []rune) rune {
		n, _ := strconv.ParseUint(string(ds), 16, 32)
		return rune(n)
	})
}

// unicodeEscape reads \uXXXX, joining a surrogate pair when one follows.
func unicodeEscape() parser.Parser[rune] {
	low := prim.Try(prim.Then(chars.String(`\u`), hex4()))
	return prim.Bind(hex4(), func(hi rune) parser.Parser[rune] {
		if !utf16.IsSurrogate(hi) {
			return prim.Pure(hi)
		}
		return combinators.Option(utf16.DecodeRune(hi, 0),
			prim.Map(low, func(lo rune) rune { return utf16.DecodeRune(hi, lo) }))
	})
}

func jsonString() parser.Parser[string] {
	plain := chars.Satisfy(func(r rune) bool { return r != '"' && r != '\\' && r >= 0x20 })
	escaped := prim.Then(chars.Char('\\'), prim.Mplus(
		prim.Then(chars.Char('u'), unicodeEscape()),
		prim.Label(prim.Map(chars.OneOf(`"\/bfnrt`), func(r rune) rune { return jsonEscapes[r] }), "escape sequence"),
	))
	body := prim.Many(prim.Mplus(plain, escaped))
	quoted := combinators.Between(chars.Char('"'), prim.Label(chars.Char('"'), "end of string"), body)
	return prim.Label(prim.Map(quoted, func(rs []rune) string { return string(rs) }), "string")
}

func jsonNumber() parser.Parser[any] {
	lit := chars.Regexp(`-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`)
	return prim.Label(prim.Bind(lit, func(text string) parser.Parser[any] {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return prim.Fail[any]("number out of range: " + text)
		}
		return prim.Pure[any](f)
	}), "number")
}

type member struct {
	key   string
	value any
}

// JSON parses one JSON document surrounded by optional white space. Objects
// become map[string]any, arrays []any, numbers float64.
func JSON() parser.Parser[any] {
	var value parser.Parser[any]
	lazyValue := parser.NewLazy(func() parser.Parser[any] { return value })

	comma := symbol(',')
	array := prim.Map(
		combinators.Between(symbol('['), symbol(']'), combinators.SepBy[any](lazyValue, comma)),
		func(vs []any) any {
			if vs == nil {
				return []any{}
			}
			return vs
		})

	pair := monad.LiftM3(func(k string, _ rune, v any) member { return member{k, v} },
		chars.Token(jsonString()), symbol(':'), lazyValue)
	object := prim.Map(
		combinators.Between(symbol('{'), symbol('}'), combinators.SepBy(pair, comma)),
		func(ms []member) any {
			obj := make(map[string]any, len(ms))
			for _, m := range ms {
				obj[m.key] = m.value
			}
			return obj
		})

	value = prim.Label(combinators.Choice(
		object,
		array,
		prim.Map(chars.Token(jsonString()), func(s string) any { return s }),
		chars.Token(jsonNumber()),
		keyword("true", true),
		keyword("false", false),
		keyword[any]("null", nil),
	), "value")

	return prim.Then(chars.Spaces(), prim.Left[any](lazyValue, prim.EOF()))
}
