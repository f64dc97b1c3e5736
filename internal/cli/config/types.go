// Package config provides configuration management for the leapparse CLI.
//
// Values are layered with koanf, lowest precedence first: built-in
// defaults, leapparse.yaml, LEAPPARSE_* environment variables, and flags
// set explicitly on the command line.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Dialect     string        `koanf:"dialect" validate:"required"`
	Output      string        `koanf:"output" validate:"oneof=auto text markdown md json yaml"`
	Verbose     bool          `koanf:"verbose"`
	LogLevel    string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	MaxDepth    int           `koanf:"max_depth" validate:"gte=0"`
	MaxSteps    int           `koanf:"max_steps" validate:"gte=0"`
	Workers     int           `koanf:"workers" validate:"gte=0,lte=256"`
	Timeout     time.Duration `koanf:"timeout" validate:"gte=0"`
	Extensions  []string      `koanf:"extensions" validate:"min=1,dive,required,startswith=."`
	ShowNonCode bool          `koanf:"show_non_code"`
	Strict      bool          `koanf:"strict"`
}

// Default configuration values.
const (
	DefaultDialect  = "ansi"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "warn"
	DefaultMaxDepth = 4096
	DefaultMaxSteps = 2_000_000
	DefaultTimeout  = 30 * time.Second
)

// DefaultExtensions are the file extensions parse and watch pick up from
// directories.
var DefaultExtensions = []string{".sql"}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Dialect:    DefaultDialect,
		Output:     DefaultOutput,
		LogLevel:   DefaultLogLevel,
		MaxDepth:   DefaultMaxDepth,
		MaxSteps:   DefaultMaxSteps,
		Timeout:    DefaultTimeout,
		Extensions: append([]string(nil), DefaultExtensions...),
	}
}
