package parser

import (
	"time"

	"github.com/opal-lang/loquat/core/invariant"
	"github.com/opal-lang/loquat/core/parseerr"
	"github.com/opal-lang/loquat/core/position"
	"github.com/opal-lang/loquat/core/stream"
)

// Outcome is the detailed result of a top-level parse.
type Outcome[T any] struct {
	Success   bool
	Value     T                   // Set when Success
	State     State               // Final state when Success
	Err       parseerr.ParseError // Final error; on success, what else was expected
	Telemetry *Telemetry          // Nil unless telemetry was enabled
}

// Parse runs p over input, starting at line 1, column 1 of the named source.
// On failure the returned error is the final ParseError.
func Parse[T any](p Parser[T], name string, input stream.Stream, userState any, opts ...ParseOpt) (T, error) {
	out := ParseDetailed(p, name, input, userState, opts...)
	if !out.Success {
		var zero T
		return zero, out.Err
	}
	return out.Value, nil
}

// ParseDetailed is Parse, returning the final state, error and telemetry.
func ParseDetailed[T any](p Parser[T], name string, input stream.Stream, userState any, opts ...ParseOpt) Outcome[T] {
	AssertParser(p)
	pc := defaultParseConfig()
	for _, opt := range opts {
		opt(&pc)
	}
	invariant.Positive(pc.config.TabWidth, "tab width")

	s := NewState(pc.config, input, position.Init(name), userState)

	var start time.Time
	if pc.telemetry != TelemetryOff {
		s.meter = &meter{}
		if pc.telemetry == TelemetryTiming {
			start = time.Now()
		}
	}

	r := Run(p, s)

	out := Outcome[T]{Success: r.Success, Err: r.Err}
	if r.Success {
		out.Value = r.Val
		out.State = r.State
		out.State.meter = nil
	}
	if s.meter != nil {
		out.Telemetry = &Telemetry{Steps: s.meter.steps, MaxDepth: s.meter.maxDepth}
		if pc.telemetry == TelemetryTiming {
			out.Telemetry.TotalTime = time.Since(start)
		}
	}
	return out
}
