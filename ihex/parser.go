package ihex

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/marcinbor85/gohex"

	"github.com/moffa90/go-fwimage/firmware"
)

// Constants for Intel HEX parsing.
const (
	// DefaultMaxSize is the default largest accepted input (32 MiB of text)
	DefaultMaxSize = 32 << 20

	// DefaultMaxGap is the default largest hole between data records (1 MiB)
	DefaultMaxGap = 1 << 20

	// DefaultMaxRecords is the default largest number of records
	DefaultMaxRecords = 1 << 18

	// DefaultMaxSegments is the default largest number of discontiguous data runs
	DefaultMaxSegments = 256

	// DumpLineLength is the number of data bytes per record written by Dump
	DumpLineLength = 16

	// addressSpace is the size of the 32-bit Intel HEX address space
	addressSpace = uint64(1) << 32
)

// Parser decodes Intel HEX into a firmware.Image.
//
// Parser is safe for concurrent use after initialization.
type Parser struct {
	config Config
}

var _ firmware.Parser = (*Parser)(nil)

// New creates a new Parser with the given options.
func New(opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{config: cfg}
}

// span is a run of data bytes clipped to the parse window.
type span struct {
	start uint64
	data  []byte
}

// Parse decodes data and returns an image based at the lowest data address in
// [addrStart, addrEnd]. An addrEnd of zero means no upper bound.
func (p *Parser) Parse(data []byte, addrStart, addrEnd uint64, flags firmware.Flags) (*firmware.Image, error) {
	if len(data) > p.config.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrTooLarge, len(data), p.config.MaxSize)
	}

	winLo, winHi, err := window(addrStart, addrEnd)
	if err != nil {
		return nil, err
	}

	if flags.Has(firmware.FlagIgnoreChecksum) || flags.Has(firmware.FlagForce) {
		data = repairChecksums(data)
	}

	// gohex revisits every segment for each record.
	stats := scanRecords(data)
	if stats.records > p.config.MaxRecords {
		return nil, fmt.Errorf("%w: %d, maximum is %d", ErrTooManyRecords, stats.records, p.config.MaxRecords)
	}
	if stats.runs > p.config.MaxSegments {
		return nil, fmt.Errorf("%w: %d, maximum is %d", ErrTooManySegments, stats.runs, p.config.MaxSegments)
	}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("invalid intel hex: %w", err)
	}

	spans := clip(mem.GetDataSegments(), winLo, winHi)
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: 0x%X-0x%X", ErrNoData, winLo, winHi-1)
	}

	base := spans[0].start
	end := base
	for _, s := range spans {
		if s.start > end && s.start-end > uint64(p.config.MaxGap) {
			return nil, fmt.Errorf("%w: 0x%X bytes at 0x%08X, maximum is 0x%X",
				ErrGapTooLarge, s.start-end, end, p.config.MaxGap)
		}
		if e := s.start + uint64(len(s.data)); e > end {
			end = e
		}
	}

	payload := make([]byte, end-base)
	if p.config.GapFill != 0 {
		for i := range payload {
			payload[i] = p.config.GapFill
		}
	}
	for _, s := range spans {
		copy(payload[s.start-base:], s.data)
	}

	p.logDebug("parsed intel hex",
		"segments", len(spans),
		"address", fmt.Sprintf("0x%08X", base),
		"size", len(payload),
	)

	img := firmware.New()
	img.SetAddress(base)
	img.SetBytes(payload)
	return img, nil
}

// window converts the inclusive caller window into a half-open 32-bit range.
func window(addrStart, addrEnd uint64) (lo, hi uint64, err error) {
	if addrStart >= addressSpace || addrEnd >= addressSpace {
		return 0, 0, &RangeError{Start: addrStart, End: addrEnd}
	}
	if addrEnd == 0 {
		return addrStart, addressSpace, nil
	}
	if addrEnd < addrStart {
		return 0, 0, &RangeError{Start: addrStart, End: addrEnd}
	}
	return addrStart, addrEnd + 1, nil
}

// clip returns the parts of segments inside [lo, hi), sorted by address.
func clip(segments []gohex.DataSegment, lo, hi uint64) []span {
	spans := make([]span, 0, len(segments))
	for _, seg := range segments {
		start := uint64(seg.Address)
		end := start + uint64(len(seg.Data))
		if end <= lo || start >= hi {
			continue
		}
		segData := seg.Data
		if start < lo {
			segData = segData[lo-start:]
			start = lo
		}
		if end > hi {
			segData = segData[:len(segData)-int(end-hi)]
		}
		spans = append(spans, span{start: start, data: segData})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// Dump writes the payload of img as Intel HEX records based at the image address.
func Dump(w io.Writer, img *firmware.Image) error {
	addr, ok := img.Address()
	if !ok {
		addr = 0
	}
	if addr >= addressSpace || uint64(img.Size()) > addressSpace-addr {
		return &RangeError{Start: addr, End: addr + uint64(img.Size())}
	}

	mem := gohex.NewMemory()
	if img.Size() > 0 {
		if err := mem.AddBinary(uint32(addr), img.Bytes()); err != nil {
			return fmt.Errorf("add binary: %w", err)
		}
	}
	if err := mem.DumpIntelHex(w, DumpLineLength); err != nil {
		return fmt.Errorf("write intel hex: %w", err)
	}
	return nil
}

// logDebug logs a debug message if a logger is configured.
func (p *Parser) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}
