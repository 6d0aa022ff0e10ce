package grammars

import (
	"math"
	"strconv"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/chars"
	"github.com/opal-lang/loquat/runtime/combinators"
	"github.com/opal-lang/loquat/runtime/prim"
)

type binop = func(a, b float64) float64

func operator(c rune, f binop) parser.Parser[binop] {
	return prim.Map(symbol(c), func(rune) binop { return f })
}

// Arith parses and evaluates an arithmetic expression. ^ is right
// associative and binds tighter than * and /, which bind tighter than + and
// -. Unary minus applies to a factor.
func Arith() parser.Parser[float64] {
	var expr parser.Parser[float64]
	lazyExpr := parser.NewLazy(func() parser.Parser[float64] { return expr })

	number := prim.Label(chars.Token(prim.Map(chars.Regexp(`[0-9]+(\.[0-9]+)?`), mustFloat)), "number")

	var factor parser.Parser[float64]
	lazyFactor := parser.NewLazy(func() parser.Parser[float64] { return factor })
	negated := prim.Then(symbol('-'), prim.Map[float64](lazyFactor, func(v float64) float64 { return -v }))
	atom := combinators.Choice(number, combinators.Between(symbol('('), symbol(')'), parser.Parser[float64](lazyExpr)), negated)
	factor = combinators.ChainR1(atom, operator('^', math.Pow))

	term := combinators.ChainL1(factor, prim.Mplus(
		operator('*', func(a, b float64) float64 { return a * b }),
		operator('/', func(a, b float64) float64 { return a / b }),
	))
	expr = combinators.ChainL1(term, prim.Mplus(
		operator('+', func(a, b float64) float64 { return a + b }),
		operator('-', func(a, b float64) float64 { return a - b }),
	))

	return prim.Then(chars.Spaces(), prim.Left[float64](lazyExpr, prim.EOF()))
}

func mustFloat(text string) float64 {
	f, err := strconv.ParseFloat(text, 64)
	invariant.Postcondition(err == nil, "number literal %q: %v", text, err)
	return f
}
