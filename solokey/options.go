package solokey

import (
	"github.com/moffa90/go-fwimage/b64"
	"github.com/moffa90/go-fwimage/firmware"
)

// Config holds the container parser configuration.
type Config struct {
	// HexParser decodes the payload of the "firmware" member
	HexParser firmware.Parser

	// Logger is used for debug logging (optional)
	Logger firmware.Logger

	// MaxSize is the largest accepted container in bytes
	MaxSize int

	// SignaturePadding selects how the unpadded URL-safe signature is repaired
	SignaturePadding b64.Padding
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		MaxSize:          DefaultMaxSize,
		SignaturePadding: b64.PadFixed,
	}
}

// Option is a functional option for configuring the Parser.
type Option func(*Config)

// WithHexParser replaces the parser used for the decoded "firmware" member.
// Default is ihex.New().
//
// Example:
//
//	p := solokey.New(solokey.WithHexParser(ihex.New(ihex.WithGapFill(0xFF))))
func WithHexParser(hp firmware.Parser) Option {
	return func(c *Config) {
		c.HexParser = hp
	}
}

// WithLogger sets a logger for parse operations.
func WithLogger(logger firmware.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMaxSize sets the largest accepted container in bytes.
// Non-positive values are ignored.
func WithMaxSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.MaxSize = size
		}
	}
}

// WithSignaturePadding selects how the signature padding is restored.
// Default is b64.PadFixed, which always appends "==".
//
// Example:
//
//	p := solokey.New(solokey.WithSignaturePadding(b64.PadComputed))
func WithSignaturePadding(pad b64.Padding) Option {
	return func(c *Config) {
		c.SignaturePadding = pad
	}
}
