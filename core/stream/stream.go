// Package stream defines the input cursor consumed by parsers.
//
// Parsers never look inside their input. They only ask a Stream to split off
// its first element. Cursors are values: Uncons returns a new cursor and
// leaves the receiver untouched, so backtracking is just keeping the old one.
package stream

import (
	"unicode/utf8"

	"github.com/opal-lang/loquat/core/invariant"
)

// Stream is an immutable input cursor.
type Stream interface {
	// Uncons splits the stream into its first element and the rest.
	// ok is false at end of input. String-like streams may use the
	// unicode flag to choose their element unit.
	Uncons(unicode bool) (head any, rest Stream, ok bool)
}

// String is a cursor over a Go string that yields runes.
//
// Go strings are UTF-8, so a rune is always a whole code point regardless of
// the unicode flag. The flag only affects how positions are measured (see
// position.AddString).
type String struct {
	src    string
	offset int
}

// FromString creates a cursor at the start of s.
func FromString(s string) String {
	return String{src: s}
}

// Uncons implements Stream.
func (s String) Uncons(bool) (any, Stream, bool) {
	if s.offset >= len(s.src) {
		return nil, s, false
	}
	r, size := utf8.DecodeRuneInString(s.src[s.offset:])
	return r, String{src: s.src, offset: s.offset + size}, true
}

// Offset returns the byte offset of the cursor.
func (s String) Offset() int { return s.offset }

// Remaining returns the unconsumed input.
func (s String) Remaining() string { return s.src[s.offset:] }

// Skip returns the cursor n bytes further on.
func (s String) Skip(n int) String {
	invariant.InRange(n, 0, len(s.src)-s.offset, "skip length")
	return String{src: s.src, offset: s.offset + n}
}

// Tokens is a cursor over a slice of tokens.
type Tokens[E any] struct {
	items  []E
	offset int
}

// FromSlice creates a cursor at the start of items. The slice must not be
// modified while the cursor is in use.
func FromSlice[E any](items []E) Tokens[E] {
	return Tokens[E]{items: items}
}

// Uncons implements Stream.
func (t Tokens[E]) Uncons(bool) (any, Stream, bool) {
	if t.offset >= len(t.items) {
		return nil, t, false
	}
	return t.items[t.offset], Tokens[E]{items: t.items, offset: t.offset + 1}, true
}

// Offset returns the index of the next token.
func (t Tokens[E]) Offset() int { return t.offset }

// Remaining returns the unconsumed tokens.
func (t Tokens[E]) Remaining() []E { return t.items[t.offset:] }
