package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format selects how a report is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatCBOR}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, json or cbor)", name)
}

// ANSI colors used by the text format.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in an ANSI color if color is enabled.
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// Write renders r to w in the given format. useColor only affects text.
func Write(w io.Writer, r *Report, f Format, useColor bool) error {
	switch f {
	case FormatText:
		return writeText(w, r, useColor)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatCBOR:
		data, err := MarshalCBOR(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// MarshalCBOR encodes r with canonical CBOR, so equal reports produce equal
// bytes.
func MarshalCBOR(r *Report) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

func writeText(w io.Writer, r *Report, useColor bool) error {
	var b strings.Builder
	source := r.Source
	if source == "" {
		source = "<stdin>"
	}

	if r.Success {
		fmt.Fprintf(&b, "%s %s %s\n", Colorize("ok", ColorGreen, useColor), r.Grammar, source)
		value, err := json.Marshal(r.Value)
		if err != nil {
			return fmt.Errorf("failed to render value: %w", err)
		}
		fmt.Fprintf(&b, "value: %s\n", value)
	} else {
		fmt.Fprintf(&b, "%s %s %s\n", Colorize("error", ColorRed, useColor), r.Grammar, source)
		fmt.Fprintf(&b, "%s:\n", Colorize(fmt.Sprintf("line %d, column %d", r.Error.Line, r.Error.Column), ColorYellow, useColor))
		for _, line := range strings.Split(r.Error.Text, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	if t := r.Telemetry; t != nil {
		stats := fmt.Sprintf("steps=%d depth=%d", t.Steps, t.MaxDepth)
		if t.Nanos > 0 {
			stats += fmt.Sprintf(" time=%s", r.Duration())
		}
		fmt.Fprintf(&b, "%s\n", Colorize(stats, ColorGray, useColor))
	}
	fmt.Fprintf(&b, "%s\n", Colorize(r.Digest, ColorGray, useColor))

	_, err := io.WriteString(w, b.String())
	return err
}
