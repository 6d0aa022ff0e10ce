package prim

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
)

func state(input string) parser.State {
	return parser.NewState(parser.DefaultConfig(), stream.FromString(input), position.Init(""), nil)
}

func char(r rune) parser.Parser[rune] {
	return Label(Satisfy(func(x rune) bool { return x == r }), strconv.Quote(string(r)))
}

func run[T any](p parser.Parser[T], input string) parser.Result[T] {
	return parser.Run(p, state(input))
}

func remaining(r parser.Result[rune]) string {
	return r.State.Input.(stream.String).Remaining()
}

func errString(err parseerr.ParseError) string {
	return parseerr.MessagesToString(err.Messages())
}

func TestPure(t *testing.T) {
	r := run(Pure(42), "abc")
	assert.Equal(t, parser.ShapeESuc, r.Shape())
	assert.Equal(t, 42, r.Val)
	assert.True(t, r.Err.IsUnknown())
	assert.Equal(t, position.Init(""), r.Err.Pos())
}

func TestBindAndFriends(t *testing.T) {
	pair := Bind(char('a'), func(a rune) parser.Parser[string] {
		return Map(char('b'), func(b rune) string { return string([]rune{a, b}) })
	})

	r := run(pair, "abc")
	require.True(t, r.Success)
	assert.Equal(t, "ab", r.Val)
	assert.Equal(t, 3, r.State.Pos.Column)

	r = run(pair, "ax")
	assert.Equal(t, parser.ShapeCErr, r.Shape())
	assert.Equal(t, "unexpected \"x\"\nexpecting \"b\"", errString(r.Err))

	assert.Equal(t, 'b', run(Then(char('a'), char('b')), "ab").Val)
	assert.Equal(t, 'a', run(Left(char('a'), char('b')), "ab").Val)

	upper := Pure(func(r rune) string { return strconv.QuoteRune(r - 32) })
	assert.Equal(t, "'A'", run(Ap(upper, char('a')), "a").Val)
}

func TestFailAndUnexpected(t *testing.T) {
	r := run(Fail[int]("boom"), "x")
	assert.Equal(t, parser.ShapeEErr, r.Shape())
	assert.Equal(t, "boom", errString(r.Err))

	r = run(Unexpected[int]("thing"), "x")
	assert.Equal(t, "unexpected thing", errString(r.Err))
}

func TestLabels(t *testing.T) {
	digit := Satisfy(func(r rune) bool { return r >= '0' && r <= '9' })

	r := run(Label(digit, "digit"), "x")
	assert.Equal(t, "unexpected \"x\"\nexpecting digit", errString(r.Err))

	r = run(Labels(digit, "digit", "number"), "x")
	assert.Equal(t, "unexpected \"x\"\nexpecting digit or number", errString(r.Err))

	r = run(Hidden(Label(digit, "digit")), "x")
	assert.Equal(t, `unexpected "x"`, errString(r.Err))

	// Consumed results keep their own errors.
	r = run(Label(Then(digit, char('a')), "pair"), "1b")
	assert.Equal(t, "unexpected \"b\"\nexpecting \"a\"", errString(r.Err))

	// An unknown error on an empty success stays unknown.
	ok := run(Label(Pure('x'), "nothing"), "")
	assert.True(t, ok.Err.IsUnknown())

	// A known error on an empty success is relabelled.
	opt := Mplus(char('a'), Pure('z'))
	ok = run(Label(opt, "maybe a"), "q")
	require.True(t, ok.Success)
	assert.Equal(t, "unexpected \"q\"\nexpecting maybe a", errString(ok.Err))
}

func TestMplus(t *testing.T) {
	ab := Mplus(char('a'), char('b'))

	assert.Equal(t, 'a', run(ab, "a").Val)
	assert.Equal(t, 'b', run(ab, "b").Val)

	r := run(ab, "c")
	assert.Equal(t, parser.ShapeEErr, r.Shape())
	assert.Equal(t, "unexpected \"c\"\nexpecting \"a\" or \"b\"", errString(r.Err))

	// A consumed failure of the first alternative commits.
	committed := Mplus(Then(char('a'), char('x')), Then(char('a'), char('b')))
	assert.Equal(t, parser.ShapeCErr, run(committed, "ab").Shape())

	backtracking := Mplus(Try(Then(char('a'), char('x'))), Then(char('a'), char('b')))
	r = run(backtracking, "ab")
	require.True(t, r.Success)
	assert.Equal(t, 'b', r.Val)

	r = run(Mplus(char('a'), Mzero[rune]()), "c")
	assert.Equal(t, "unexpected \"c\"\nexpecting \"a\"", errString(r.Err), "Mzero is the identity")
}

func TestTry(t *testing.T) {
	r := run(Try(Then(char('a'), char('b'))), "ax")
	assert.Equal(t, parser.ShapeEErr, r.Shape())
	assert.Equal(t, 2, r.Err.Pos().Column, "the error keeps its position")

	assert.Equal(t, parser.ShapeCSuc, run(Try(char('a')), "a").Shape())
}

func TestLookAhead(t *testing.T) {
	r := run(LookAhead(Then(char('a'), char('b'))), "abc")
	assert.Equal(t, parser.ShapeESuc, r.Shape())
	assert.Equal(t, 'b', r.Val)
	assert.Equal(t, "abc", remaining(r))

	assert.Equal(t, parser.ShapeCErr, run(LookAhead(Then(char('a'), char('b'))), "ax").Shape())
}

func TestMany(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []rune
		shape parser.Shape
	}{
		{"none", "b", nil, parser.ShapeESuc},
		{"some", "aaab", []rune("aaa"), parser.ShapeCSuc},
		{"all", "aa", []rune("aa"), parser.ShapeCSuc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(Many(char('a')), tt.input)
			assert.Equal(t, tt.shape, r.Shape())
			if diff := cmp.Diff(tt.want, r.Val); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}

	r := run(Many(char('a')), "aab")
	assert.Equal(t, "unexpected \"b\"\nexpecting \"a\"", errString(r.Err))

	r = run(Many(Then(char('a'), char('b'))), "ababac")
	assert.Equal(t, parser.ShapeCErr, r.Shape())
	assert.Equal(t, 6, r.Err.Pos().Column)

	assert.Panics(t, func() { run(Many(Pure(1)), "abc") })
}

func TestManyIsIterative(t *testing.T) {
	input := make([]rune, 100000)
	for i := range input {
		input[i] = 'a'
	}
	r := run(SkipMany(char('a')), string(input))
	require.True(t, r.Success)
	assert.Equal(t, 100001, r.State.Pos.Column)
}

func TestTailRecM(t *testing.T) {
	// Count 'a's, stopping at the first non-'a'.
	count := TailRecM(0, func(n int) parser.Parser[Loop[int, int]] {
		return Mplus(
			Map(char('a'), func(rune) Loop[int, int] { return Continue[int, int](n + 1) }),
			Pure(Done[int, int](n)),
		)
	})

	r := run(count, "aaab")
	require.True(t, r.Success)
	assert.Equal(t, 3, r.Val)
	assert.Equal(t, parser.ShapeCSuc, r.Shape())

	r = run(count, "")
	assert.Equal(t, parser.ShapeESuc, r.Shape())
	assert.Equal(t, 0, r.Val)
}

func TestToken(t *testing.T) {
	r := run(AnyToken[rune](), "")
	assert.Equal(t, parser.ShapeEErr, r.Shape())
	assert.Equal(t, "unexpected end of input", errString(r.Err))

	r = run(char('\t'), "\tx")
	assert.Equal(t, 9, r.State.Pos.Column)

	words := parser.NewState(parser.DefaultConfig(), stream.FromSlice([]string{"let", "x"}), position.Init(""), nil)
	kw := Satisfy(func(s string) bool { return s == "let" })
	rs := parser.Run(kw, words)
	require.True(t, rs.Success)
	assert.Equal(t, 4, rs.State.Pos.Column, "strings advance as text")

	ints := parser.NewState(parser.DefaultConfig(), stream.FromSlice([]int{7, 8}), position.Init(""), nil)
	ri := parser.Run(Satisfy(func(int) bool { return true }), ints)
	assert.Equal(t, 2, ri.State.Pos.Column, "other tokens advance one column")

	bad := parser.Run(Satisfy(func(int) bool { return false }), ints)
	assert.Equal(t, "unexpected 7", errString(bad.Err))

	custom := Token(TokenSpec[int]{
		Test: func(int) bool { return true },
		Next: func(pos position.SourcePos, _ int, _ parser.Config) position.SourcePos { return pos.SetLine(pos.Line + 1) },
	})
	assert.Equal(t, 2, parser.Run(custom, ints).State.Pos.Line)

	assert.Panics(t, func() { parser.Run(Satisfy(func(int) bool { return true }), state("x")) })
}

func TestEOF(t *testing.T) {
	assert.Equal(t, parser.ShapeESuc, run(EOF(), "").Shape())

	r := run(EOF(), "x")
	assert.Equal(t, parser.ShapeEErr, r.Shape())
	assert.Equal(t, "unexpected \"x\"\nexpecting end of input", errString(r.Err))
}

func TestStateAccess(t *testing.T) {
	p := Bind(GetPosition(), func(start position.SourcePos) parser.Parser[int] {
		return Then(char('a'), Then(SetPosition(start), Then(
			UpdateUserState(func(n int) int { return n + 1 }),
			GetUserState[int](),
		)))
	})

	r := parser.Run(p, state("ab").SetUserState(1))
	require.True(t, r.Success)
	assert.Equal(t, 2, r.Val)
	assert.Equal(t, position.Init(""), r.State.Pos)
	assert.Equal(t, "b", r.State.Input.(stream.String).Remaining())

	rs := run(Then(SetInput(stream.FromString("zz")), GetInput()), "ab")
	assert.Equal(t, stream.FromString("zz"), rs.Val)

	rc := run(Then(SetConfig(parser.Config{TabWidth: 2}), Then(char('\t'), GetConfig())), "\t")
	assert.Equal(t, parser.Config{TabWidth: 2}, rc.Val)
	assert.Equal(t, 3, rc.State.Pos.Column)

	saved := run(GetState(), "xy")
	restored := run(Then(char('a'), SetState(saved.Val)), "ab")
	assert.Equal(t, "xy", restored.State.Input.(stream.String).Remaining())

	assert.Zero(t, run(GetUserState[int](), "").Val)
	assert.Panics(t, func() { parser.Run(GetUserState[string](), state("").SetUserState(3)) })
}

func BenchmarkManyLong(b *testing.B) {
	input := strings.Repeat("a", 10000)
	p := Many(char('a'))
	b.ReportAllocs()
	for b.Loop() {
		r := run(p, input)
		if len(r.Val) != len(input) {
			b.Fatalf("consumed %d of %d", len(r.Val), len(input))
		}
	}
}
