package invariant_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/loquat/core/invariant"
)

// recoverMessage runs fn and returns the panic message, failing the test if
// fn returns normally.
func recoverMessage(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		msg = fmt.Sprintf("%v", r)
	}()
	fn()
	return ""
}

func TestPassingChecksDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		invariant.Precondition(true, "never shown")
		invariant.Postcondition(1+1 == 2, "arithmetic")
		invariant.Invariant(len("abc") == 3, "length")
		invariant.NotNil("text", "text")
		invariant.NotNil(func() {}, "thunk")
		invariant.InRange(0, 0, 10, "index")
		invariant.InRange(10, 0, 10, "index")
		invariant.Positive(8, "tab width")
	})
}

func TestViolationKinds(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		kind string
		text string
	}{
		{"precondition", func() { invariant.Precondition(false, "tab width must be positive, got %d", 0) }, "PRECONDITION VIOLATION", "got 0"},
		{"postcondition", func() { invariant.Postcondition(false, "result must carry a state") }, "POSTCONDITION VIOLATION", "must carry a state"},
		{"invariant", func() { invariant.Invariant(false, "lazy value demanded itself") }, "INVARIANT VIOLATION", "demanded itself"},
		{"fail", func() { invariant.Fail("unknown message type %d", 9) }, "INVARIANT VIOLATION", "unknown message type 9"},
		{"in range", func() { invariant.InRange(11, 0, 10, "index") }, "PRECONDITION VIOLATION", "must be in range [0, 10], got 11"},
		{"positive", func() { invariant.Positive(-1, "tab width") }, "PRECONDITION VIOLATION", "tab width must be positive, got -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := recoverMessage(t, tt.fn)
			assert.Contains(t, msg, tt.kind)
			assert.Contains(t, msg, tt.text)
		})
	}
}

func TestNotNilDetectsTypedNil(t *testing.T) {
	var thunk func() int
	var ptr *int

	for name, value := range map[string]interface{}{
		"untyped": nil,
		"func":    thunk,
		"pointer": ptr,
	} {
		t.Run(name, func(t *testing.T) {
			msg := recoverMessage(t, func() { invariant.NotNil(value, "parser") })
			assert.Contains(t, msg, "parser must not be nil")
		})
	}
}

func TestViolationIncludesCallSite(t *testing.T) {
	msg := recoverMessage(t, func() { invariant.Precondition(false, "call site") })
	assert.Contains(t, msg, "\n  at ")
	assert.Contains(t, msg, "invariant_test.go:")
}

func ExamplePrecondition() {
	column := func(tabWidth int) int {
		invariant.Precondition(tabWidth > 0, "tab width must be positive")
		return 1 + tabWidth
	}

	fmt.Println(column(8))
	// Output: 9
}
