package objmodel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gorilla/schema"
	"gopkg.in/yaml.v3"
)

var schemaDecoder = schema.NewDecoder()

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// TraitPrecedence decides whether traits or the declared body win when both
// define the same key.
type TraitPrecedence string

const (
	// PrecedenceDeclared folds traits first, so direct declarations win.
	PrecedenceDeclared TraitPrecedence = "declared"
	// PrecedenceTraits folds the declared body first, so traits overwrite it.
	PrecedenceTraits TraitPrecedence = "traits"
)

// RedeclarePolicy decides what happens when a registered name is declared again.
type RedeclarePolicy string

const (
	// RedeclareReject fails the declaration with a DeclarationConflict.
	RedeclareReject RedeclarePolicy = "reject"
	// RedeclareReplace publishes a new descriptor under the name. Types built
	// against the old descriptor keep it.
	RedeclareReplace RedeclarePolicy = "replace"
)

// Config holds registry settings.
type Config struct {
	TraitPrecedence TraitPrecedence `yaml:"trait_precedence" schema:"trait_precedence" validate:"omitempty,oneof=declared traits"`
	Redeclare       RedeclarePolicy `yaml:"redeclare" schema:"redeclare" validate:"omitempty,oneof=reject replace"`
	LogLevel        string          `yaml:"log_level" schema:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		TraitPrecedence: PrecedenceDeclared,
		Redeclare:       RedeclareReject,
		LogLevel:        "info",
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TraitPrecedence == "" {
		c.TraitPrecedence = def.TraitPrecedence
	}
	if c.Redeclare == "" {
		c.Redeclare = def.Redeclare
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	return c
}

// Validate checks that every field holds a known value.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the slog level named by LogLevel. Unknown levels map to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig reads a YAML config file. Unknown fields are rejected and
// missing fields take their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyOverrides decodes key=value overrides, keyed by the yaml field names,
// into cfg. Unknown keys are ignored.
func ApplyOverrides(cfg *Config, values map[string][]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := schemaDecoder.Decode(cfg, values); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}
	return cfg.Validate()
}

// ParseOverrides turns "key=value" pairs into the form ApplyOverrides takes.
func ParseOverrides(pairs []string) (map[string][]string, error) {
	values := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		values[k] = append(values[k], v)
	}
	return values, nil
}
