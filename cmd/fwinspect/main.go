// Command fwinspect decodes a firmware file and prints the resulting image.
//
// Usage:
//
//	fwinspect [flags] <file>
//
// The format is chosen with -format or guessed from the file extension:
// .json is a Solo Key container, .hex and .ihx are Intel HEX, .cyacd is a
// Cypress bootloader file, anything else is loaded as raw bytes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moffa90/go-fwimage/cyacd"
	"github.com/moffa90/go-fwimage/firmware"
	"github.com/moffa90/go-fwimage/ihex"
	"github.com/moffa90/go-fwimage/internal/config"
	"github.com/moffa90/go-fwimage/internal/logging"
	"github.com/moffa90/go-fwimage/solokey"
	"github.com/moffa90/go-fwimage/vli"
)

// Format names accepted by -format.
const (
	FormatSoloKey   = "solokey"
	FormatIHex      = "ihex"
	FormatCyacd     = "cyacd"
	FormatRaw       = "raw"
	FormatVLIPD     = "vli-pd"
	FormatVLIUSBHub = "vli-usbhub"
)

type options struct {
	configPath     string
	format         string
	kind           string
	addrStart      uint64
	addrEnd        uint64
	force          bool
	ignoreChecksum bool
	out            string
	signatureOut   string
	ihexOut        string
	file           string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "fwinspect: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("fwinspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML or TOML configuration file")
	fs.StringVar(&opts.format, "format", "", "Input format: solokey, ihex, cyacd, raw, vli-pd, vli-usbhub (default: by extension)")
	fs.StringVar(&opts.kind, "kind", "unknown", "VIA Labs device kind for vli-* formats")
	fs.Uint64Var(&opts.addrStart, "addr-start", 0, "First address (or row) accepted")
	fs.Uint64Var(&opts.addrEnd, "addr-end", 0, "Last address (or row) accepted, 0 for no limit")
	fs.BoolVar(&opts.force, "force", false, "Relax format checks")
	fs.BoolVar(&opts.ignoreChecksum, "ignore-checksum", false, "Accept records with bad checksums")
	fs.StringVar(&opts.out, "out", "", "Write the decoded payload to this file")
	fs.StringVar(&opts.signatureOut, "signature-out", "", "Write the signature child image to this file")
	fs.StringVar(&opts.ihexOut, "ihex-out", "", "Write the decoded payload as Intel HEX to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one input file")
	}
	opts.file = fs.Arg(0)
	if opts.format == "" {
		opts.format = formatForPath(opts.file)
	}
	return opts, nil
}

// formatForPath guesses the format from the file extension.
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatSoloKey
	case ".hex", ".ihx":
		return FormatIHex
	case ".cyacd":
		return FormatCyacd
	default:
		return FormatRaw
	}
}

func (o *options) flags() firmware.Flags {
	flags := firmware.FlagNone
	if o.force {
		flags |= firmware.FlagForce
	}
	if o.ignoreChecksum {
		flags |= firmware.FlagIgnoreChecksum
	}
	return flags
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}

	logger, closer, err := logging.New(cfg.Logs, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	registry, err := newRegistry(cfg, opts.kind, logging.NewAdapter(logger))
	if err != nil {
		return err
	}
	parser, err := registry.New(opts.format)
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, strings.Join(registry.Names(), ", "))
	}

	data, err := readInput(opts.file, cfg.Limits.MaxInputSize)
	if err != nil {
		return err
	}

	img, err := parser.Parse(data, opts.addrStart, opts.addrEnd, opts.flags())
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.file, err)
	}
	logger.Info().
		Str("file", opts.file).
		Str("format", opts.format).
		Int("size", img.Size()).
		Int("images", len(img.Images())).
		Msg("parsed firmware")

	fmt.Fprint(stdout, img.String())

	return writeOutputs(opts, img, logger)
}

// newRegistry registers every supported format, configured from cfg.
func newRegistry(cfg config.Config, kindName string, logger firmware.Logger) (*firmware.Registry, error) {
	pad, err := cfg.SignaturePadding()
	if err != nil {
		return nil, err
	}
	kind, err := vli.ParseDeviceKind(kindName)
	if err != nil {
		return nil, err
	}

	newIHex := func() *ihex.Parser {
		return ihex.New(
			ihex.WithLogger(logger),
			ihex.WithMaxSize(cfg.Limits.MaxInputSize),
			ihex.WithMaxGap(uint32(cfg.IHex.MaxGap)),
			ihex.WithGapFill(byte(cfg.IHex.GapFill)),
			ihex.WithMaxRecords(cfg.IHex.MaxRecords),
			ihex.WithMaxSegments(cfg.IHex.MaxSegments),
		)
	}

	factories := []struct {
		name    string
		factory firmware.Factory
	}{
		{FormatSoloKey, func() firmware.Parser {
			return solokey.New(
				solokey.WithHexParser(newIHex()),
				solokey.WithLogger(logger),
				solokey.WithMaxSize(cfg.Limits.MaxInputSize),
				solokey.WithSignaturePadding(pad),
			)
		}},
		{FormatIHex, func() firmware.Parser { return newIHex() }},
		{FormatCyacd, func() firmware.Parser {
			return cyacd.New(cyacd.WithLogger(logger), cyacd.WithMaxSize(cfg.Limits.MaxInputSize))
		}},
		{FormatRaw, func() firmware.Parser { return firmware.Raw{} }},
		{FormatVLIPD, func() firmware.Parser { return vli.NewPDFirmware(kind) }},
		{FormatVLIUSBHub, func() firmware.Parser { return vli.NewUSBHubFirmware(kind) }},
	}

	registry := firmware.NewRegistry()
	for _, f := range factories {
		if err := registry.Register(f.name, f.factory); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// readInput reads at most maxSize bytes of path.
func readInput(path string, maxSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("input %s exceeds limits.max_input_size (%d bytes)", path, maxSize)
	}
	return data, nil
}

func writeOutputs(opts *options, img *firmware.Image, logger zerolog.Logger) error {
	if opts.out != "" {
		if err := os.WriteFile(opts.out, img.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
		logger.Debug().Str("path", opts.out).Int("size", img.Size()).Msg("wrote payload")
	}

	if opts.signatureOut != "" {
		sig := img.Image(firmware.IDSignature)
		if sig == nil {
			return fmt.Errorf("%s has no %s image", opts.file, firmware.IDSignature)
		}
		if err := os.WriteFile(opts.signatureOut, sig.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write signature: %w", err)
		}
		logger.Debug().Str("path", opts.signatureOut).Int("size", sig.Size()).Msg("wrote signature")
	}

	if opts.ihexOut != "" {
		f, err := os.Create(opts.ihexOut)
		if err != nil {
			return fmt.Errorf("create intel hex output: %w", err)
		}
		if err := ihex.Dump(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close intel hex output: %w", err)
		}
		logger.Debug().Str("path", opts.ihexOut).Msg("wrote intel hex")
	}

	return nil
}
