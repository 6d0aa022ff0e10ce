// Package position tracks where a parser is in its input.
//
// A SourcePos is an immutable (name, line, column) coordinate. Lines and
// columns are 1-based. Advancing a position never mutates it; AddChar and
// AddString return the next position.
package position

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/opal-lang/loquat/core/invariant"
)

// SourcePos is a coordinate in a named source.
type SourcePos struct {
	Name   string // Source name, usually a file name; may be empty
	Line   int    // 1-based line number
	Column int    // 1-based column number
}

// New creates a position. Line and column must be at least 1.
func New(name string, line, column int) SourcePos {
	invariant.Precondition(line >= 1, "line must be at least 1, got %d", line)
	invariant.Precondition(column >= 1, "column must be at least 1, got %d", column)
	return SourcePos{Name: name, Line: line, Column: column}
}

// Init returns the first position of the named source.
func Init(name string) SourcePos {
	return SourcePos{Name: name, Line: 1, Column: 1}
}

// SetName returns a copy of p with a different source name.
func (p SourcePos) SetName(name string) SourcePos {
	p.Name = name
	return p
}

// SetLine returns a copy of p with a different line.
func (p SourcePos) SetLine(line int) SourcePos {
	invariant.Precondition(line >= 1, "line must be at least 1, got %d", line)
	p.Line = line
	return p
}

// SetColumn returns a copy of p with a different column.
func (p SourcePos) SetColumn(column int) SourcePos {
	invariant.Precondition(column >= 1, "column must be at least 1, got %d", column)
	p.Column = column
	return p
}

// Equal reports whether two positions are structurally identical.
func Equal(a, b SourcePos) bool {
	return a == b
}

// Compare orders positions by name, then line, then column.
// It returns -1, 0 or +1.
func Compare(a, b SourcePos) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	case a.Column < b.Column:
		return -1
	case a.Column > b.Column:
		return 1
	default:
		return 0
	}
}

// String renders the position the way parse errors display it:
//
//	"main.json"(line 3, column 15)
//
// An empty name is omitted.
func (p SourcePos) String() string {
	loc := fmt.Sprintf("(line %d, column %d)", p.Line, p.Column)
	if p.Name == "" {
		return loc
	}
	return strconv.Quote(p.Name) + loc
}

// AddChar advances p over a single character.
//
// A newline moves to the first column of the next line. A tab moves to the
// next tab stop, columns 1, 1+w, 1+2w, ... for tab width w. Every other
// character advances one column.
func AddChar(p SourcePos, ch rune, tabWidth int) SourcePos {
	invariant.Positive(tabWidth, "tab width")
	switch ch {
	case '\n':
		p.Line++
		p.Column = 1
	case '\t':
		p.Column += tabWidth - (p.Column-1)%tabWidth
	default:
		p.Column++
	}
	return p
}

// AddString advances p over every character of s.
//
// In unicode mode each code point counts as one character. Otherwise the
// string is measured in UTF-16 code units, so a character outside the Basic
// Multilingual Plane advances the column by two.
func AddString(p SourcePos, s string, tabWidth int, unicode bool) SourcePos {
	invariant.Positive(tabWidth, "tab width")
	for _, r := range s {
		if unicode || r == '\n' || r == '\t' {
			p = AddChar(p, r, tabWidth)
			continue
		}
		// ranging over a string never yields surrogates, so RuneLen is 1 or 2
		p.Column += utf16.RuneLen(r)
	}
	return p
}
