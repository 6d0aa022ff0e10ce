// Package config loads the JSON settings file read by the loquat command.
//
// A settings file looks like:
//
//	{
//	  "version": "1.0.0",
//	  "tabWidth": 4,
//	  "unicodeMode": true,
//	  "grammar": "json",
//	  "telemetry": "basic"
//	}
//
// Files are validated against an embedded JSON Schema before decoding.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"

	"github.com/opal-lang/loquat/core/parser"
)

// SupportedMajor is the only settings format major version understood.
const SupportedMajor = "v1"

//go:embed schema.json
var schemaJSON string

const schemaURL = "schema://loquat/config.json"

// Telemetry values accepted in the settings file.
const (
	TelemetryOff    = "off"
	TelemetryBasic  = "basic"
	TelemetryTiming = "timing"
)

// Config is a decoded settings file.
type Config struct {
	Version     string `json:"version"`
	TabWidth    int    `json:"tabWidth,omitempty"`
	UnicodeMode bool   `json:"unicodeMode,omitempty"`
	Grammar     string `json:"grammar,omitempty"`
	Telemetry   string `json:"telemetry,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Version:   "1.0.0",
		TabWidth:  parser.DefaultConfig().TabWidth,
		Telemetry: TelemetryOff,
	}
}

// ErrUnsupportedVersion is returned for settings files of another major version.
var ErrUnsupportedVersion = errors.New("unsupported config version")

var compiled = sync.OnceValues(compileSchema)

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(interface{}) bool)
	}
	compiler.Formats["semver"] = isSemver

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

// isSemver accepts versions with or without the leading "v".
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true // type is checked by the schema
	}
	return semver.IsValid(canonicalVersion(s))
}

func canonicalVersion(s string) string {
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return s
}

// Parse validates and decodes a settings document. Missing fields take their
// values from Default.
func Parse(data []byte) (*Config, error) {
	schema, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if major := semver.Major(canonicalVersion(cfg.Version)); major != SupportedMajor {
		return nil, fmt.Errorf("%w: %s (want %s.x.y)", ErrUnsupportedVersion, cfg.Version, SupportedMajor)
	}
	return cfg, nil
}

// Load reads and parses the settings file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the settings into parse options.
func (c *Config) Options() []parser.ParseOpt {
	opts := []parser.ParseOpt{
		parser.WithTabWidth(c.TabWidth),
		parser.WithUnicodeMode(c.UnicodeMode),
	}
	switch c.Telemetry {
	case TelemetryBasic:
		opts = append(opts, parser.WithTelemetryBasic())
	case TelemetryTiming:
		opts = append(opts, parser.WithTelemetryTiming())
	}
	return opts
}
