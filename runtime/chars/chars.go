// Package chars provides parsers over character input.
package chars

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/runtime/prim"
)

// Satisfy accepts one character that passes pred.
func Satisfy(pred func(rune) bool) parser.Parser[rune] {
	return prim.Satisfy(pred)
}

// Char accepts the character c.
func Char(c rune) parser.Parser[rune] {
	return prim.Label(Satisfy(func(r rune) bool { return r == c }), quote(string(c)))
}

// AnyChar accepts any character.
func AnyChar() parser.Parser[rune] {
	return Satisfy(func(rune) bool { return true })
}

// OneOf accepts any character in cs.
func OneOf(cs string) parser.Parser[rune] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(cs, r) })
}

// NoneOf accepts any character not in cs.
func NoneOf(cs string) parser.Parser[rune] {
	return Satisfy(func(r rune) bool { return !strings.ContainsRune(cs, r) })
}

var (
	space    = prim.Label(Satisfy(unicode.IsSpace), "space")
	spaces   = prim.Label(prim.SkipMany(space), "white space")
	newline  = prim.Label(Char('\n'), "new-line")
	crlf     = prim.Label(prim.Then(Char('\r'), Char('\n')), "crlf new-line")
	tab      = prim.Label(Char('\t'), "tab")
	digit    = prim.Label(Satisfy(isDigit), "digit")
	hexDigit = prim.Label(Satisfy(isHexDigit), "hexadecimal digit")
	octDigit = prim.Label(Satisfy(func(r rune) bool { return r >= '0' && r <= '7' }), "octal digit")
	letter   = prim.Label(Satisfy(unicode.IsLetter), "letter")
	alphaNum = prim.Label(Satisfy(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }), "letter or digit")
	upper    = prim.Label(Satisfy(unicode.IsUpper), "uppercase letter")
	lower    = prim.Label(Satisfy(unicode.IsLower), "lowercase letter")
)

// Space accepts one white-space character.
func Space() parser.Parser[rune] { return space }

// Spaces skips zero or more white-space characters.
func Spaces() parser.Parser[struct{}] { return spaces }

// Newline accepts '\n'.
func Newline() parser.Parser[rune] { return newline }

// CRLF accepts "\r\n" and yields '\n'.
func CRLF() parser.Parser[rune] { return crlf }

// EndOfLine accepts "\n" or "\r\n" and yields '\n'.
func EndOfLine() parser.Parser[rune] {
	return prim.Label(prim.Mplus(newline, crlf), "new-line")
}

// Tab accepts '\t'.
func Tab() parser.Parser[rune] { return tab }

// Digit accepts an ASCII digit.
func Digit() parser.Parser[rune] { return digit }

// HexDigit accepts a hexadecimal digit.
func HexDigit() parser.Parser[rune] { return hexDigit }

// OctDigit accepts an octal digit.
func OctDigit() parser.Parser[rune] { return octDigit }

// Letter accepts a Unicode letter.
func Letter() parser.Parser[rune] { return letter }

// AlphaNum accepts a Unicode letter or digit.
func AlphaNum() parser.Parser[rune] { return alphaNum }

// Upper accepts an upper-case letter.
func Upper() parser.Parser[rune] { return upper }

// Lower accepts a lower-case letter.
func Lower() parser.Parser[rune] { return lower }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func quote(s string) string { return strconv.Quote(s) }
