package solokey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/moffa90/go-fwimage/b64"
	"github.com/moffa90/go-fwimage/firmware"
	"github.com/moffa90/go-fwimage/ihex"
)

// Constants for container parsing.
const (
	// FieldFirmware is the member holding the standard base64 Intel HEX payload
	FieldFirmware = "firmware"

	// FieldSignature is the member holding the URL-safe base64 signature
	FieldSignature = "signature"

	// DefaultMaxSize is the default largest accepted container (16 MiB)
	DefaultMaxSize = 16 << 20
)

// errNoAddress is reported when the hex parser returns an image without a base address.
var errNoAddress = errors.New("embedded firmware has no base address")

// Parser decodes Solo key firmware containers.
//
// Parser is safe for concurrent use after initialization, provided the
// configured hex parser is.
type Parser struct {
	config Config
}

var _ firmware.Parser = (*Parser)(nil)

// New creates a new Parser with the given options.
//
// Example:
//
//	p := solokey.New(solokey.WithLogger(myLogger))
//	img, err := p.Parse(data, 0, 0, firmware.FlagNone)
func New(opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HexParser == nil {
		cfg.HexParser = ihex.New(ihex.WithLogger(cfg.Logger))
	}
	return &Parser{config: cfg}
}

// Parse validates the container, decodes the embedded Intel HEX payload and the
// detached signature, and returns an image with the payload address and bytes and
// a single child with role id firmware.IDSignature.
//
// addrStart, addrEnd and flags are passed unchanged to the hex parser.
// On error the returned image is nil.
func (p *Parser) Parse(data []byte, addrStart, addrEnd uint64, flags firmware.Flags) (*firmware.Image, error) {
	if len(data) > p.config.MaxSize {
		return nil, &StructuralError{
			Err: fmt.Errorf("%w: %d bytes, maximum is %d", ErrTooLarge, len(data), p.config.MaxSize),
		}
	}

	p.logDebug("parsing container", "size", len(data))

	fwText, sigText, err := decodeContainer(data)
	if err != nil {
		return nil, err
	}

	fwHex, err := b64.Decode(fwText, b64.Standard)
	if err != nil {
		return nil, &DecodeError{Field: FieldFirmware, Err: err}
	}

	p.logDebug("decoded firmware member", "size", len(fwHex))

	sub, err := p.config.HexParser.Parse(fwHex, addrStart, addrEnd, flags)
	if err != nil {
		return nil, &SubParseError{Err: err}
	}
	addr, ok := sub.Address()
	if !ok {
		return nil, &SubParseError{Err: errNoAddress}
	}

	sig, err := b64.DecodeURLSafe(sigText, p.config.SignaturePadding)
	if err != nil {
		return nil, &DecodeError{Field: FieldSignature, Err: err}
	}

	img := firmware.New()
	img.SetAddress(addr)
	img.SetBytes(sub.Bytes())

	imgSig := firmware.New()
	imgSig.SetBytes(sig)
	img.AddImage(firmware.IDSignature, imgSig)

	p.logDebug("parsed container",
		"address", fmt.Sprintf("0x%08X", addr),
		"size", img.Size(),
		"signature_size", len(sig),
	)

	return img, nil
}

// ParseReader reads a whole container from r and parses it.
// Reading stops one byte past the size limit.
func (p *Parser) ParseReader(r io.Reader, flags firmware.Flags) (*firmware.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(p.config.MaxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}
	return p.Parse(data, 0, 0, flags)
}

// decodeContainer checks the envelope and returns the two required members.
// Presence of both members is checked before either is decoded.
func decodeContainer(data []byte) (fwText, sigText string, err error) {
	if !utf8.Valid(data) {
		return "", "", &StructuralError{Err: errors.New("invalid UTF-8")}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", "", &StructuralError{Err: err}
	}
	if obj == nil {
		return "", "", &StructuralError{Err: errors.New("root is not an object")}
	}

	fwText, ok := stringMember(obj, FieldFirmware)
	if !ok {
		return "", "", &MissingFieldError{Field: FieldFirmware}
	}
	sigText, ok = stringMember(obj, FieldSignature)
	if !ok {
		return "", "", &MissingFieldError{Field: FieldSignature}
	}
	return fwText, sigText, nil
}

// stringMember returns the named member if it is present and holds a string.
// Members of any other type, including null, count as absent.
func stringMember(obj map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := obj[name]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// logDebug logs a debug message if a logger is configured.
func (p *Parser) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}
