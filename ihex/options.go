package ihex

import "github.com/moffa90/go-fwimage/firmware"

// Config holds the parser configuration.
type Config struct {
	// Logger is used for debug logging (optional)
	Logger firmware.Logger

	// MaxSize is the largest accepted input in bytes
	MaxSize int

	// MaxGap is the largest hole between data records that is filled in
	MaxGap uint32

	// GapFill is the byte written into holes between data records
	GapFill byte

	// MaxRecords is the largest accepted number of records
	MaxRecords int

	// MaxSegments is the largest accepted number of discontiguous data runs
	MaxSegments int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		MaxSize:     DefaultMaxSize,
		MaxGap:      DefaultMaxGap,
		GapFill:     0x00,
		MaxRecords:  DefaultMaxRecords,
		MaxSegments: DefaultMaxSegments,
	}
}

// Option is a functional option for configuring the Parser.
type Option func(*Config)

// WithLogger sets a logger for parse operations.
func WithLogger(logger firmware.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMaxSize sets the largest accepted input in bytes.
// Non-positive values are ignored.
func WithMaxSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.MaxSize = size
		}
	}
}

// WithMaxGap sets the largest hole between data records that is padded.
//
// Example:
//
//	p := ihex.New(ihex.WithMaxGap(64 * 1024))
func WithMaxGap(gap uint32) Option {
	return func(c *Config) {
		c.MaxGap = gap
	}
}

// WithGapFill sets the byte used to fill holes between data records.
// Default is 0x00.
func WithGapFill(fill byte) Option {
	return func(c *Config) {
		c.GapFill = fill
	}
}

// WithMaxRecords sets the largest accepted number of records.
// Non-positive values are ignored.
func WithMaxRecords(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxRecords = n
		}
	}
}

// WithMaxSegments sets the largest accepted number of data runs that do not
// continue the previous record. Non-positive values are ignored.
func WithMaxSegments(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxSegments = n
		}
	}
}
