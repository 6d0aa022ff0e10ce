package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/loquat/internal/report"
)

// CLIError is a user-facing error with optional details and a hint.
type CLIError struct {
	Message string
	Details string
	Hint    string
}

func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// exitError carries a process exit code. A nil err means the failure was
// already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// FormatError writes err to w, with a hint line for CLI errors.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	switch e := err.(type) {
	case *CLIError:
		_, _ = fmt.Fprintf(w, "%s%s\n", report.Colorize("Error: ", report.ColorRed, useColor), e.Message)
		if e.Details != "" {
			_, _ = fmt.Fprintf(w, "\n%s\n", e.Details)
		}
		if e.Hint != "" {
			_, _ = fmt.Fprintf(w, "%s%s\n", report.Colorize("Hint: ", report.ColorYellow, useColor), e.Hint)
		}
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", report.Colorize("Error: ", report.ColorRed, useColor), err.Error())
	}
}

// suggestionHint renders "did you mean ..." for the closest candidates.
func suggestionHint(matches []string) string {
	switch len(matches) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("did you mean %q?", matches[0])
	default:
		quoted := make([]string, len(matches))
		for i, m := range matches {
			quoted[i] = fmt.Sprintf("%q", m)
		}
		return "did you mean one of " + strings.Join(quoted, ", ") + "?"
	}
}
