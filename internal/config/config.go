// Package config loads fwinspect settings from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-fwimage/b64"
	"github.com/moffa90/go-fwimage/ihex"
	"github.com/moffa90/go-fwimage/solokey"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the complete fwinspect configuration.
type Config struct {
	Limits  Limits  `yaml:"limits" toml:"limits"`
	SoloKey SoloKey `yaml:"solokey" toml:"solokey"`
	IHex    IHex    `yaml:"ihex" toml:"ihex"`
	Logs    Logs    `yaml:"logs" toml:"logs"`
}

// Limits bounds the input accepted by the parsers.
type Limits struct {
	// MaxInputSize is the largest input file in bytes
	MaxInputSize int `yaml:"max_input_size" toml:"max_input_size"`
}

// SoloKey configures the JSON container parser.
type SoloKey struct {
	// SignaturePadding is "fixed" or "computed"
	SignaturePadding string `yaml:"signature_padding" toml:"signature_padding"`
}

// IHex configures the Intel HEX parser.
type IHex struct {
	GapFill     int   `yaml:"gap_fill" toml:"gap_fill"`
	MaxGap      int64 `yaml:"max_gap" toml:"max_gap"`
	MaxRecords  int   `yaml:"max_records" toml:"max_records"`
	MaxSegments int   `yaml:"max_segments" toml:"max_segments"`
}

// Logs configures internal/logging.
type Logs struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"`
	Directory  string `yaml:"directory" toml:"directory"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Limits: Limits{
			MaxInputSize: solokey.DefaultMaxSize,
		},
		SoloKey: SoloKey{
			SignaturePadding: b64.PadFixed.String(),
		},
		IHex: IHex{
			GapFill:     0x00,
			MaxGap:      ihex.DefaultMaxGap,
			MaxRecords:  ihex.DefaultMaxRecords,
			MaxSegments: ihex.DefaultMaxSegments,
		},
		Logs: Logs{
			Level:      "info",
			Format:     FormatConsole,
			MaxSizeMB:  10,
			MaxAgeDays: 30,
			MaxBackups: 5,
		},
	}
}

// Load reads path, choosing the decoder by extension. Keys absent from the
// file keep their defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	case ".toml":
		if err := loadTOML(path, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config extension %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// empty file
			return nil
		}
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func loadTOML(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("decode config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Limits.MaxInputSize <= 0 {
		return fmt.Errorf("limits.max_input_size must be positive, got %d", c.Limits.MaxInputSize)
	}
	if _, err := c.SignaturePadding(); err != nil {
		return fmt.Errorf("solokey.signature_padding: %w", err)
	}
	if c.IHex.GapFill < 0 || c.IHex.GapFill > 0xFF {
		return fmt.Errorf("ihex.gap_fill must be a byte, got %d", c.IHex.GapFill)
	}
	if c.IHex.MaxGap < 0 || c.IHex.MaxGap > 0xFFFFFFFF {
		return fmt.Errorf("ihex.max_gap out of range: %d", c.IHex.MaxGap)
	}
	if c.IHex.MaxRecords <= 0 {
		return fmt.Errorf("ihex.max_records must be positive, got %d", c.IHex.MaxRecords)
	}
	if c.IHex.MaxSegments <= 0 {
		return fmt.Errorf("ihex.max_segments must be positive, got %d", c.IHex.MaxSegments)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logs.Level)); err != nil {
		return fmt.Errorf("logs.level: %w", err)
	}
	switch c.Logs.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("logs.format must be %q or %q, got %q", FormatConsole, FormatJSON, c.Logs.Format)
	}
	if c.Logs.MaxSizeMB < 0 || c.Logs.MaxAgeDays < 0 || c.Logs.MaxBackups < 0 {
		return errors.New("logs rotation settings must not be negative")
	}
	return nil
}

// SignaturePadding returns the configured padding strategy.
func (c Config) SignaturePadding() (b64.Padding, error) {
	return b64.ParsePadding(c.SoloKey.SignaturePadding)
}
