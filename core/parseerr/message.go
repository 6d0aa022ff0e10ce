package parseerr

import (
	"slices"
	"strconv"
	"strings"

	"github.com/opal-lang/loquat/core/invariant"
)

// MessageType classifies an error message.
type MessageType int

const (
	// SystemUnexpect is produced by token primitives. Its text is the
	// offending token, or empty at end of input.
	SystemUnexpect MessageType = iota
	// Unexpect is produced by user code (Unexpected).
	Unexpect
	// Expect is produced by labels.
	Expect
	// Generic is a free-form message produced by Fail.
	Generic
)

func (t MessageType) String() string {
	switch t {
	case SystemUnexpect:
		return "SystemUnexpect"
	case Unexpect:
		return "Unexpect"
	case Expect:
		return "Expect"
	case Generic:
		return "Generic"
	default:
		return "MessageType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Message is one typed line of error information.
type Message struct {
	Type MessageType
	Msg  string
}

// NewMessage creates a message.
func NewMessage(t MessageType, msg string) Message {
	return Message{Type: t, Msg: msg}
}

// MessagesEqual compares two message lists pairwise, in order.
//
// Lists holding the same messages in a different order are not equal. Merge
// concatenates operands left to right, so errors built by differently ordered
// combinators can compare unequal.
func MessagesEqual(a, b []Message) bool {
	return slices.Equal(a, b)
}

// MessagesToString renders messages the way Parsec does:
//
//	unexpected "x"
//	expecting "a", "b" or "c"
//	free-form message
//
// A system-unexpected line is only shown when there are no user unexpected
// messages. Texts are deduplicated per type, keeping first occurrences.
func MessagesToString(msgs []Message) string {
	if len(msgs) == 0 {
		return "unknown parse error"
	}

	var sysUnexpects, unexpects, expects, generics []string
	for _, m := range msgs {
		switch m.Type {
		case SystemUnexpect:
			sysUnexpects = append(sysUnexpects, m.Msg)
		case Unexpect:
			unexpects = append(unexpects, m.Msg)
		case Expect:
			expects = append(expects, m.Msg)
		case Generic:
			generics = append(generics, m.Msg)
		default:
			invariant.Fail("unknown message type %d", int(m.Type))
		}
	}

	lines := make([]string, 0, 4)
	if len(unexpects) == 0 && len(sysUnexpects) > 0 {
		if sysUnexpects[0] == "" {
			lines = append(lines, "unexpected end of input")
		} else {
			lines = append(lines, "unexpected "+sysUnexpects[0])
		}
	}
	lines = append(lines,
		joinMessages(cleanMessages(unexpects), "unexpected"),
		joinMessages(cleanMessages(expects), "expecting"),
		joinMessages(cleanMessages(generics), ""),
	)

	return strings.Join(slices.DeleteFunc(lines, func(s string) bool { return s == "" }), "\n")
}

// cleanMessages drops empty texts and later duplicates.
func cleanMessages(texts []string) []string {
	out := make([]string, 0, len(texts))
	seen := make(map[string]struct{}, len(texts))
	for _, s := range texts {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func joinMessages(texts []string, prefix string) string {
	if len(texts) == 0 {
		return ""
	}
	joined := joinCommasOr(texts)
	if prefix == "" {
		return joined
	}
	return prefix + " " + joined
}

// joinCommasOr joins "a", "a or b", "a, b or c".
func joinCommasOr(texts []string) string {
	if len(texts) <= 2 {
		return strings.Join(texts, " or ")
	}
	last := len(texts) - 1
	return strings.Join(texts[:last], ", ") + " or " + texts[last]
}
