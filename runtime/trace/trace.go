// Package trace logs parser entry and exit for debugging grammars.
//
// Events go to the commonlog logger LoggerName at debug level. When that
// level is disabled a traced parser only pays for one level check per run.
package trace

import (
	"github.com/tliron/commonlog"

	"github.com/opal-lang/loquat/core/parser"
)

// Sink receives trace events. commonlog.Logger satisfies it.
type Sink interface {
	AllowLevel(level commonlog.Level) bool
	Debug(message string, keysAndValues ...any)
}

// LoggerName is the commonlog logger Trace writes to.
const LoggerName = "loquat.trace"

// Trace wraps p so every run logs an "enter" event and an "exit" event with
// the result shape. Failures also log the rendered error.
//
// The logger is looked up when Trace is called, so configure commonlog first.
func Trace[T any](name string, p parser.Parser[T]) parser.Parser[T] {
	return To(commonlog.GetLogger(LoggerName), name, p)
}

// To is Trace with an explicit sink.
func To[T any](sink Sink, name string, p parser.Parser[T]) parser.Parser[T] {
	parser.AssertParser(p)
	return parser.Func[T](func(s parser.State) parser.Result[T] {
		if !sink.AllowLevel(commonlog.Debug) {
			return parser.Run(p, s)
		}

		sink.Debug("enter "+name, "parser", name, "line", s.Pos.Line, "column", s.Pos.Column)
		r := parser.Run(p, s)

		kv := []any{"parser", name, "result", r.Shape().String()}
		if r.Success {
			kv = append(kv, "line", r.State.Pos.Line, "column", r.State.Pos.Column)
		} else {
			kv = append(kv, "error", r.Err.String())
		}
		sink.Debug("exit "+name, kv...)
		return r
	})
}
