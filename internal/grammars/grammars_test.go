package grammars

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
)

func parse[T any](t *testing.T, p parser.Parser[T], input string) T {
	t.Helper()
	v, err := parser.Parse(p, "test", stream.FromString(input), nil)
	require.NoError(t, err)
	return v
}

func parseErr[T any](t *testing.T, p parser.Parser[T], input string) parseerr.ParseError {
	t.Helper()
	_, err := parser.Parse(p, "test", stream.FromString(input), nil)
	require.Error(t, err)
	return err.(parseerr.ParseError)
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"null", "null", nil},
		{"true", " true ", true},
		{"number", "-12.5e1", -125.0},
		{"string", `"a\"b\\c\né"`, "a\"b\\c\né"},
		{"surrogate pair", `"😀"`, "😀"},
		{"empty array", "[ ]", []any{}},
		{"empty object", "{}", map[string]any{}},
		{"nested", `{"a": [1, {"b": null}], "c": "d"}`, map[string]any{
			"a": []any{1.0, map[string]any{"b": nil}},
			"c": "d",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, JSON(), tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("JSON value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONErrors(t *testing.T) {
	err := parseErr(t, JSON(), `{"a": }`)
	assert.Equal(t, position.New("test", 1, 7), err.Pos())
	assert.Equal(t, "unexpected \"}\"\nexpecting value", parseerr.MessagesToString(err.Messages()))

	err = parseErr(t, JSON(), `[1, 2`)
	assert.Contains(t, parseerr.MessagesToString(err.Messages()), "unexpected end of input")

	err = parseErr(t, JSON(), "[1]\n x")
	assert.Equal(t, position.New("test", 2, 2), err.Pos())
	assert.Contains(t, parseerr.MessagesToString(err.Messages()), "expecting end of input")

	err = parseErr(t, JSON(), `"tab	inside"`)
	assert.Equal(t, 5, err.Pos().Column)
}

func TestArith(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 - 4 - 3", 3},
		{"2 ^ 3 ^ 2", 512},
		{"-2 ^ 2", -4},
		{" 8 / 4 / 2 ", 1},
		{"1.5 * -2", -3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, parse(t, Arith(), tt.input), 1e-9)
		})
	}

	err := parseErr(t, Arith(), "1 + ")
	assert.Equal(t, "unexpected end of input\nexpecting number, \"(\" or \"-\"", parseerr.MessagesToString(err.Messages()))
}

func TestArithDeepNesting(t *testing.T) {
	depth := 500
	input := ""
	for i := 0; i < depth; i++ {
		input += "("
	}
	input += "1"
	for i := 0; i < depth; i++ {
		input += ")"
	}
	assert.Equal(t, 1.0, parse(t, Arith(), input))
}

func TestCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"empty", "", [][]string{}},
		{"one row", "a,b,c", [][]string{{"a", "b", "c"}}},
		{"trailing newline", "a,b\r\nc,d\n", [][]string{{"a", "b"}, {"c", "d"}}},
		{"quoted", `"x, y","say ""hi""",z`, [][]string{{"x, y", `say "hi"`, "z"}}},
		{"empty fields", "a,,\n", [][]string{{"a", "", ""}}},
		{"newline in quotes", "\"1\n2\",3", [][]string{{"1\n2", "3"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parse(t, CSV(), tt.input)); diff != "" {
				t.Errorf("CSV mismatch (-want +got):\n%s", diff)
			}
		})
	}

	err := parseErr(t, CSV(), `"open`)
	assert.Contains(t, parseerr.MessagesToString(err.Messages()), "closing quote")
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"arith", "csv", "json"}, Names())

	g, ok := Lookup("arith")
	require.True(t, ok)
	assert.Equal(t, 3.0, parse(t, g.Parser(), "1+2"))

	_, ok = Lookup("yaml")
	assert.False(t, ok)
}
