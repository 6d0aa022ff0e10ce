package grammars

import (
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/chars"
	"github.com/opal-lang/loquat/runtime/combinators"
	"github.com/opal-lang/loquat/runtime/prim"
	"github.com/opal-lang/loquat/runtime/sugar"
)

func runesToString(v any) any {
	items := v.([]any)
	rs := make([]rune, len(items))
	for i, it := range items {
		rs[i] = it.(rune)
	}
	return string(rs)
}

// CSV parses comma-separated records. A field is either bare text or a
// double-quoted string in which "" stands for one quote. A trailing line
// break does not start an empty record.
func CSV() parser.Parser[[][]string] {
	sugar.Init()

	escapedQuote := sugar.From(chars.String(`""`)).
		Call("try").
		Call("map", func(any) any { return '"' })
	quotedChar := sugar.From(chars.NoneOf(`"`)).Call("or", escapedQuote)
	quoted := quotedChar.
		Call("many").
		Call("between", parser.Erase(chars.Char('"')), sugar.From(chars.Char('"')).Call("label", "closing quote")).
		Call("map", runesToString)
	bare := sugar.From(chars.NoneOf("\",\r\n")).Call("many").Call("map", runesToString)
	field := parser.Narrow[string](quoted.Call("or", bare).Parser())

	record := combinators.SepBy1(field, chars.Char(','))
	file := combinators.SepEndBy(record, chars.EndOfLine())

	return prim.Left(prim.Map(file, func(rows [][]string) [][]string {
		if n := len(rows); n > 0 && len(rows[n-1]) == 1 && rows[n-1][0] == "" {
			rows = rows[:n-1]
		}
		if rows == nil {
			rows = [][]string{}
		}
		return rows
	}), prim.EOF())
}
