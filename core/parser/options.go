package parser

import "time"

// ParseOpt configures Parse and ParseDetailed.
type ParseOpt func(*parseConfig)

// TelemetryMode controls telemetry collection.
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // No overhead (default)
	TelemetryBasic                       // Step counts and depth
	TelemetryTiming                      // Step counts, depth and wall time
)

type parseConfig struct {
	config    Config
	telemetry TelemetryMode
}

func defaultParseConfig() parseConfig {
	return parseConfig{config: DefaultConfig()}
}

// WithTabWidth sets the tab width used for column tracking.
func WithTabWidth(width int) ParseOpt {
	return func(c *parseConfig) {
		c.config.TabWidth = width
	}
}

// WithUnicodeMode makes columns count code points instead of UTF-16 units.
func WithUnicodeMode(on bool) ParseOpt {
	return func(c *parseConfig) {
		c.config.UnicodeMode = on
	}
}

// WithConfig replaces the whole position config.
func WithConfig(cfg Config) ParseOpt {
	return func(c *parseConfig) {
		c.config = cfg
	}
}

// WithTelemetryBasic enables step counting.
func WithTelemetryBasic() ParseOpt {
	return func(c *parseConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables step counting and timing.
func WithTelemetryTiming() ParseOpt {
	return func(c *parseConfig) {
		c.telemetry = TelemetryTiming
	}
}

// Telemetry holds parse metrics.
type Telemetry struct {
	Steps     int           // Parsers run through Run
	MaxDepth  int           // Deepest nesting of Run calls
	TotalTime time.Duration // Wall time of the parse (timing mode only)
}

type meter struct {
	steps    int
	depth    int
	maxDepth int
}

func (m *meter) enter() {
	m.steps++
	m.depth++
	if m.depth > m.maxDepth {
		m.maxDepth = m.depth
	}
}

func (m *meter) exit() {
	m.depth--
}
