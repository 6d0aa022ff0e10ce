// Package combinators provides the derived combinators: repetition with a
// terminator, optional values, separators, brackets and operator chains.
package combinators

import (
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
)

// ManyTill runs p until end succeeds and collects the values of p.
//
// Each round tries end first. If end succeeds the loop stops, and a
// consumed end replaces the pending error. If end fails after consuming,
// that failure is the result. Otherwise p runs; a p that consumed nothing
// contributes end's error and its own to the pending error. A consumed
// failure of p is the result on its own; an empty one is merged.
func ManyTill[T, E any](p parser.Parser[T], end parser.Parser[E]) parser.Parser[[]T] {
	parser.AssertParser(p)
	parser.AssertParser(end)
	return parser.Func[[]T](func(s parser.State) parser.Result[[]T] {
		c := parser.Start(s)
		var out []T
		for {
			re := parser.Run(end, c.State)
			if re.Success || re.Consumed {
				if _, ok := parser.Advance(c, re); !ok {
					return parser.Abort[[]T](c)
				}
				return parser.Finish(c, out)
			}

			rb := parser.Run(p, c.State)
			if !rb.Consumed {
				rb.Err = parseerr.Merge(re.Err, rb.Err)
			}
			v, ok := parser.Advance(c, rb)
			if !ok {
				return parser.Abort[[]T](c)
			}
			out = append(out, v)
		}
	})
}
