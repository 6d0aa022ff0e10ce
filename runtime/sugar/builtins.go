package sugar

import (
	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/combinators"
	"github.com/opal-lang/loquat/runtime/prim"
	"github.com/opal-lang/loquat/runtime/trace"
)

func builtins() map[string]Method {
	return map[string]Method{
		"map": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			f := arg[func(any) any]("map", args, 0, 1)
			return prim.Map(self, f)
		},
		"bind": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			f := arg[func(any) parser.Parser[any]]("bind", args, 0, 1)
			return prim.Bind(self, f)
		},
		"then": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return prim.Then(self, parserArg("then", args, 0, 1))
		},
		"left": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return prim.Left(self, parserArg("left", args, 0, 1))
		},
		"or": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return prim.Mplus(self, parserArg("or", args, 0, 1))
		},
		"label": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return prim.Label(self, arg[string]("label", args, 0, 1))
		},
		"hidden": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("hidden", args, 0)
			return prim.Hidden(self)
		},
		"try": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("try", args, 0)
			return prim.Try(self)
		},
		"lookAhead": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("lookAhead", args, 0)
			return prim.LookAhead(self)
		},
		"many": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("many", args, 0)
			return parser.Erase(prim.Many(self))
		},
		"many1": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("many1", args, 0)
			return parser.Erase(combinators.Many1(self))
		},
		"skipMany": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("skipMany", args, 0)
			return parser.Erase(prim.SkipMany(self))
		},
		"manyTill": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return parser.Erase(combinators.ManyTill(self, parserArg("manyTill", args, 0, 1)))
		},
		"sepBy": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return parser.Erase(combinators.SepBy(self, parserArg("sepBy", args, 0, 1)))
		},
		"between": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			open := parserArg("between", args, 0, 2)
			closing := parserArg("between", args, 1, 2)
			return combinators.Between(open, closing, self)
		},
		"option": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			arity("option", args, 1)
			return combinators.Option(args[0], self)
		},
		"trace": func(self parser.Parser[any], args ...any) parser.Parser[any] {
			return trace.Trace(arg[string]("trace", args, 0, 1), self)
		},
	}
}

func arity(method string, args []any, n int) {
	invariant.Precondition(len(args) == n, "parser method %q takes %d argument(s), got %d", method, n, len(args))
}

func arg[T any](method string, args []any, i, n int) T {
	arity(method, args, n)
	v, ok := args[i].(T)
	invariant.Precondition(ok, "parser method %q argument %d is %T, want %T", method, i, args[i], v)
	return v
}

// parserArg accepts a Parser[any] or a Chain.
func parserArg(method string, args []any, i, n int) parser.Parser[any] {
	arity(method, args, n)
	switch v := args[i].(type) {
	case Chain:
		return v.p
	case parser.Parser[any]:
		parser.AssertParser(v)
		return v
	}
	invariant.Fail("parser method %q argument %d is %T, want a parser.Parser[any] or sugar.Chain", method, i, args[i])
	return nil
}
