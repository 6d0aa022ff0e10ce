// Package report renders the outcome of a parse for the loquat command.
//
// A Report is a plain, serializable snapshot of a parser.Outcome. It carries a
// BLAKE2b-256 digest of the input so runs over the same bytes can be matched
// up. Reports are written as text, JSON or canonical CBOR.
package report

import (
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/parseerr"
)

// Report is the serializable result of one parse.
type Report struct {
	Grammar   string         `json:"grammar"`
	Source    string         `json:"source"`
	Digest    string         `json:"digest"` // "blake2b:<hex>"
	Success   bool           `json:"success"`
	Value     any            `json:"value,omitempty"`
	Error     *ErrorInfo     `json:"error,omitempty"`
	Telemetry *TelemetryInfo `json:"telemetry,omitempty"`
}

// ErrorInfo describes a failed parse.
type ErrorInfo struct {
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Messages []MessageInfo `json:"messages"`
	Text     string        `json:"text"` // Messages rendered for humans
}

// MessageInfo is one typed error message.
type MessageInfo struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TelemetryInfo mirrors parser.Telemetry.
type TelemetryInfo struct {
	Steps    int   `json:"steps"`
	MaxDepth int   `json:"maxDepth"`
	Nanos    int64 `json:"nanos,omitempty"`
}

// Digest returns the "blake2b:<hex>" digest of input.
func Digest(input []byte) string {
	sum := blake2b.Sum256(input)
	return fmt.Sprintf("blake2b:%x", sum)
}

// New builds a report from a parse outcome over input.
func New(grammar, source string, input []byte, out parser.Outcome[any]) *Report {
	r := &Report{
		Grammar: grammar,
		Source:  source,
		Digest:  Digest(input),
		Success: out.Success,
	}
	if out.Success {
		r.Value = out.Value
	} else {
		r.Error = errorInfo(out.Err)
	}
	if t := out.Telemetry; t != nil {
		r.Telemetry = &TelemetryInfo{Steps: t.Steps, MaxDepth: t.MaxDepth, Nanos: int64(t.TotalTime)}
	}
	return r
}

func errorInfo(err parseerr.ParseError) *ErrorInfo {
	msgs := err.Messages()
	info := &ErrorInfo{
		Line:     err.Pos().Line,
		Column:   err.Pos().Column,
		Messages: make([]MessageInfo, len(msgs)),
		Text:     parseerr.MessagesToString(msgs),
	}
	for i, m := range msgs {
		info.Messages[i] = MessageInfo{Type: m.Type.String(), Text: m.Msg}
	}
	return info
}

// Duration returns the measured parse time, zero unless timing was enabled.
func (r *Report) Duration() time.Duration {
	if r.Telemetry == nil {
		return 0
	}
	return time.Duration(r.Telemetry.Nanos)
}
