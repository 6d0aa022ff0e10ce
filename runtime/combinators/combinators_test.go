package combinators

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
	"github.com/opal-lang/loquat/runtime/prim"
)

func state(input string) parser.State {
	return parser.NewState(parser.DefaultConfig(), stream.FromString(input), position.Init(""), nil)
}

func run[T any](p parser.Parser[T], input string) parser.Result[T] {
	return parser.Run(p, state(input))
}

func char(r rune) parser.Parser[rune] {
	return prim.Label(prim.Satisfy(func(x rune) bool { return x == r }), strconv.Quote(string(r)))
}

var digit = prim.Label(prim.Map(
	prim.Satisfy(func(r rune) bool { return r >= '0' && r <= '9' }),
	func(r rune) int { return int(r - '0') },
), "digit")

func errString(err parseerr.ParseError) string {
	return parseerr.MessagesToString(err.Messages())
}

func texts(err parseerr.ParseError) []string {
	var out []string
	for _, m := range err.Messages() {
		out = append(out, m.Msg)
	}
	return out
}

// step is one scripted result. Consuming steps move one column.
type step struct {
	shape parser.Shape
	msg   string
}

// scripted returns a parser that replays steps in order, one per run.
func scripted(t *testing.T, steps ...step) parser.Parser[string] {
	calls := 0
	return parser.Func[string](func(s parser.State) parser.Result[string] {
		require.Less(t, calls, len(steps), "parser ran more often than scripted")
		st := steps[calls]
		calls++

		err := parseerr.NewStrict(s.Pos, []parseerr.Message{parseerr.NewMessage(parseerr.Generic, st.msg)})
		switch st.shape {
		case parser.ShapeCSuc:
			next := s.SetPosition(s.Pos.SetColumn(s.Pos.Column + 1))
			return parser.CSuc[string](err.SetPosition(next.Pos), st.msg, next)
		case parser.ShapeCErr:
			return parser.CErr[string](err.SetPosition(s.Pos.SetColumn(s.Pos.Column + 1)))
		case parser.ShapeESuc:
			return parser.ESuc[string](err, st.msg, s)
		default:
			return parser.EErr[string](err)
		}
	})
}

func TestManyTillMergesEveryEmptyStep(t *testing.T) {
	body := scripted(t,
		step{parser.ShapeESuc, "testB"},
		step{parser.ShapeESuc, "testD"},
	)
	end := scripted(t,
		step{parser.ShapeEErr, "testA"},
		step{parser.ShapeEErr, "testC"},
		step{parser.ShapeESuc, "testE"},
	)

	r := run(ManyTill(body, end), "")
	assert.Equal(t, parser.ShapeESuc, r.Shape())
	assert.Equal(t, []string{"testB", "testD"}, r.Val)
	if diff := cmp.Diff([]string{"testA", "testB", "testC", "testD", "testE"}, texts(r.Err)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestManyTillConsumedBodyFailure(t *testing.T) {
	body := scripted(t,
		step{parser.ShapeCSuc, "body1"},
		step{parser.ShapeCErr, "body2"},
	)
	end := scripted(t,
		step{parser.ShapeEErr, "end1"},
		step{parser.ShapeEErr, "end2"},
	)

	r := run(ManyTill(body, end), "")
	assert.Equal(t, parser.ShapeCErr, r.Shape())
	assert.Equal(t, []string{"body2"}, texts(r.Err))
	assert.Equal(t, 3, r.Err.Pos().Column)
}

func TestManyTillCases(t *testing.T) {
	tests := []struct {
		name      string
		body, end []step
		want      parser.Shape
		wantVal   []string
		wantMsgs  []string
	}{
		{
			name:     "end first",
			end:      []step{{parser.ShapeESuc, "end"}},
			want:     parser.ShapeESuc,
			wantMsgs: []string{"end"},
		},
		{
			name:     "consumed end replaces the pending error",
			body:     []step{{parser.ShapeESuc, "body"}},
			end:      []step{{parser.ShapeEErr, "e1"}, {parser.ShapeCSuc, "end"}},
			want:     parser.ShapeCSuc,
			wantVal:  []string{"body"},
			wantMsgs: []string{"end"},
		},
		{
			name:     "empty end after consumed body",
			body:     []step{{parser.ShapeCSuc, "body"}},
			end:      []step{{parser.ShapeEErr, "e1"}, {parser.ShapeESuc, "end"}},
			want:     parser.ShapeCSuc,
			wantVal:  []string{"body"},
			wantMsgs: []string{"body", "end"},
		},
		{
			name:     "consumed end failure",
			body:     []step{{parser.ShapeESuc, "body"}},
			end:      []step{{parser.ShapeEErr, "e1"}, {parser.ShapeCErr, "bad end"}},
			want:     parser.ShapeCErr,
			wantMsgs: []string{"bad end"},
		},
		{
			name:     "empty body failure",
			body:     []step{{parser.ShapeEErr, "body"}},
			end:      []step{{parser.ShapeEErr, "end"}},
			want:     parser.ShapeEErr,
			wantMsgs: []string{"end", "body"},
		},
		{
			name:     "empty body failure after consuming",
			body:     []step{{parser.ShapeCSuc, "b1"}, {parser.ShapeEErr, "b2"}},
			end:      []step{{parser.ShapeEErr, "e1"}, {parser.ShapeEErr, "e2"}},
			want:     parser.ShapeCErr,
			wantMsgs: []string{"b1", "e2", "b2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(ManyTill(scripted(t, tt.body...), scripted(t, tt.end...)), "")
			assert.Equal(t, tt.want, r.Shape())
			if r.Success {
				assert.Equal(t, tt.wantVal, r.Val)
			}
			if diff := cmp.Diff(tt.wantMsgs, texts(r.Err)); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestManyTillText(t *testing.T) {
	comment := prim.Then(prim.Then(char('/'), char('*')),
		ManyTill(prim.AnyToken[rune](), prim.Try(prim.Then(char('*'), char('/')))))

	r := run(comment, "/* a*b */rest")
	require.True(t, r.Success)
	assert.Equal(t, " a*b ", string(r.Val))

	r = run(comment, "/* open")
	assert.Equal(t, parser.ShapeCErr, r.Shape())
	assert.Contains(t, errString(r.Err), "unexpected end of input")
}

func TestChoiceOption(t *testing.T) {
	abc := Choice(char('a'), char('b'), char('c'))
	assert.Equal(t, 'b', run(abc, "b").Val)
	assert.Equal(t, "unexpected \"x\"\nexpecting \"a\", \"b\" or \"c\"", errString(run(abc, "x").Err))

	assert.Equal(t, 'z', run(Option('z', char('a')), "b").Val)
	assert.Equal(t, 'a', run(Option('z', char('a')), "a").Val)

	m := run(OptionMaybe(digit), "x")
	assert.Equal(t, Maybe[int]{}, m.Val)
	assert.Equal(t, Maybe[int]{Value: 7, Valid: true}, run(OptionMaybe(digit), "7").Val)

	assert.Equal(t, parser.ShapeESuc, run(Optional(digit), "x").Shape())
	assert.Equal(t, parser.ShapeCErr, run(Optional(prim.Then(digit, digit)), "1x").Shape())
}

func TestBetween(t *testing.T) {
	p := Between(char('('), char(')'), digit)
	assert.Equal(t, 5, run(p, "(5)").Val)
	assert.Equal(t, "unexpected \"]\"\nexpecting \")\"", errString(run(p, "(5]").Err))
}

func TestRepetition(t *testing.T) {
	assert.Equal(t, []int{1, 2}, run(Many1(digit), "12x").Val)
	assert.Equal(t, parser.ShapeEErr, run(Many1(digit), "x").Shape())
	assert.Equal(t, parser.ShapeCSuc, run(SkipMany1(digit), "12").Shape())
	assert.Equal(t, parser.ShapeEErr, run(SkipMany1(digit), "").Shape())
	assert.Equal(t, []int{4, 5}, run(Count(2, digit), "456").Val)
}

func TestSeparators(t *testing.T) {
	comma := char(',')
	semi := char(';')

	tests := []struct {
		name  string
		p     parser.Parser[[]int]
		input string
		want  []int
		shape parser.Shape
	}{
		{"sepBy none", SepBy(digit, comma), "x", nil, parser.ShapeESuc},
		{"sepBy some", SepBy(digit, comma), "1,2,3", []int{1, 2, 3}, parser.ShapeCSuc},
		{"sepBy trailing", SepBy(digit, comma), "1,2,", nil, parser.ShapeCErr},
		{"sepBy1 none", SepBy1(digit, comma), "x", nil, parser.ShapeEErr},
		{"endBy", EndBy(digit, semi), "1;2;", []int{1, 2}, parser.ShapeCSuc},
		{"endBy missing end", EndBy(digit, semi), "1;2", nil, parser.ShapeCErr},
		{"endBy1 none", EndBy1(digit, semi), "", nil, parser.ShapeEErr},
		{"sepEndBy with end", SepEndBy(digit, semi), "1;2;", []int{1, 2}, parser.ShapeCSuc},
		{"sepEndBy without end", SepEndBy(digit, semi), "1;2x", []int{1, 2}, parser.ShapeCSuc},
		{"sepEndBy none", SepEndBy(digit, semi), "x", nil, parser.ShapeESuc},
		{"sepEndBy1 none", SepEndBy1(digit, semi), "x", nil, parser.ShapeEErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(tt.p, tt.input)
			assert.Equal(t, tt.shape, r.Shape())
			if r.Success {
				if diff := cmp.Diff(tt.want, r.Val); diff != "" {
					t.Errorf("value mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}

	assert.Equal(t, "unexpected \"x\"\nexpecting digit", errString(run(SepEndBy(digit, semi), "1;x").Err))
}

func TestChains(t *testing.T) {
	minus := prim.Map(char('-'), func(rune) func(a, b int) int {
		return func(a, b int) int { return a - b }
	})
	pow := prim.Map(char('^'), func(rune) func(a, b int) int {
		return func(a, b int) int {
			out := 1
			for i := 0; i < b; i++ {
				out *= a
			}
			return out
		}
	})

	assert.Equal(t, 2, run(ChainL1(digit, minus), "9-4-3").Val, "(9-4)-3")
	assert.Equal(t, 512, run(ChainR1(digit, pow), "2^3^2").Val, "2^(3^2)")
	assert.Equal(t, 7, run(ChainL1(digit, minus), "7").Val)

	assert.Equal(t, parser.ShapeCErr, run(ChainL1(digit, minus), "9-").Shape())
	assert.Equal(t, parser.ShapeCErr, run(ChainR1(digit, pow), "2^").Shape())

	assert.Equal(t, 42, run(ChainL(digit, minus, 42), "x").Val)
	assert.Equal(t, 42, run(ChainR(digit, pow, 42), "x").Val)
}

func TestChainsWithOptionalOperator(t *testing.T) {
	add := func(a, b int) int { return a + b }
	// "+" may be left out: "12" means 1+2.
	plus := Option(add, prim.Then(char('+'), prim.Pure(add)))

	for name, chain := range map[string]parser.Parser[int]{
		"left":  ChainL1(digit, plus),
		"right": ChainR1(digit, plus),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 6, run(chain, "1+23").Val)

			r := run(chain, "1x")
			require.Equal(t, parser.ShapeCSuc, r.Shape())
			assert.Equal(t, 1, r.Val)
			assert.Equal(t, "x", r.State.Input.(stream.String).Remaining())
			assert.Equal(t, 2, r.Err.Pos().Column)
			assert.Equal(t, "unexpected \"x\"\nexpecting \"+\" or digit", errString(r.Err))

			r = run(chain, "12x")
			require.Equal(t, parser.ShapeCSuc, r.Shape())
			assert.Equal(t, 3, r.Val)
			assert.Equal(t, "x", r.State.Input.(stream.String).Remaining())

			assert.Equal(t, parser.ShapeCErr, run(chain, "1+x").Shape(), "a consumed operator still commits")
		})
	}
}

func TestNotFollowedBy(t *testing.T) {
	keyword := prim.Left(prim.Then(char('i'), char('f')), NotFollowedBy(char('x')))

	assert.True(t, run(keyword, "if ").Success)

	r := run(keyword, "ifx")
	assert.Equal(t, parser.ShapeCErr, r.Shape())
	assert.Equal(t, `unexpected "x"`, errString(r.Err))

	nf := run(NotFollowedBy(prim.Then(char('a'), char('b'))), "ac")
	assert.Equal(t, parser.ShapeESuc, nf.Shape(), "a consumed failure of p counts as p failing")
}

func TestReduce(t *testing.T) {
	sum := Reduce(digit, func(acc, d int) int { return acc + d }, 0)
	assert.Equal(t, 10, run(sum, "1234x").Val)
	assert.Equal(t, parser.ShapeESuc, run(sum, "x").Shape())
	assert.Panics(t, func() { run(Reduce(prim.Pure(1), func(acc, d int) int { return acc }, 0), "") })
}
