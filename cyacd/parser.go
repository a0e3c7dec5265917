package cyacd

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/moffa90/go-fwimage/firmware"
)

// Constants for CYACD file format parsing.
const (
	// HeaderLength is the expected length of the header line in hex characters
	HeaderLength = 12

	// MinimumRowLength is the minimum length for a row line in hex characters
	MinimumRowLength = 12

	// MinimumRowDataBytes is the minimum number of bytes in a row
	MinimumRowDataBytes = 6

	// RowHeaderSize is the size of row metadata (arrayID + rowNum + dataLen)
	RowHeaderSize = 5

	// RowChecksumSize is the size of the row checksum field
	RowChecksumSize = 1

	// DefaultRowCapacity is the default initial capacity for the rows slice
	DefaultRowCapacity = 256

	// DefaultMaxSize is the default largest accepted file (16 MiB)
	DefaultMaxSize = 16 << 20

	// maxLineLength bounds a single row line: 5 header bytes, 0xFFFF data bytes
	// and a checksum, hex-encoded, plus a ':' prefix and line ending
	maxLineLength = 2*(RowHeaderSize+0xFFFF+RowChecksumSize) + 3
)

// Parser decodes .cyacd text into a Firmware.
//
// Parser is safe for concurrent use after initialization.
type Parser struct {
	logger  firmware.Logger
	maxSize int
}

var _ firmware.Parser = (*Parser)(nil)

// Option is a functional option for configuring the Parser.
type Option func(*Parser)

// WithLogger sets a logger for parse operations.
func WithLogger(logger firmware.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithMaxSize sets the largest accepted input in bytes.
// Non-positive values are ignored.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		if size > 0 {
			p.maxSize = size
		}
	}
}

// New creates a new Parser with the given options.
func New(opts ...Option) *Parser {
	p := &Parser{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse implements firmware.Parser. addrStart and addrEnd are row numbers;
// rows outside them are rejected. An addrEnd of zero means no upper bound.
func (p *Parser) Parse(data []byte, addrStart, addrEnd uint64, flags firmware.Flags) (*firmware.Image, error) {
	if len(data) > p.maxSize {
		return nil, fmt.Errorf("cyacd input too large: %d bytes, maximum is %d", len(data), p.maxSize)
	}
	fw, err := p.Decode(bytes.NewReader(data), addrStart, addrEnd, flags)
	if err != nil {
		return nil, err
	}
	return fw.Image, nil
}

// ParseReader parses a .cyacd file from any io.Reader with strict checking.
//
// Example:
//
//	data := strings.NewReader(cyacdContent)
//	fw, err := cyacd.ParseReader(data)
func ParseReader(r io.Reader) (*Firmware, error) {
	return New().Decode(r, 0, 0, firmware.FlagNone)
}

// Decode parses a .cyacd file from r, keeping the header fields and rows.
func (p *Parser) Decode(r io.Reader, rowStart, rowEnd uint64, flags firmware.Flags) (*Firmware, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	// Parse header (first line)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("empty file")
	}

	fw, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	verify := !flags.Has(firmware.FlagIgnoreChecksum) && !flags.Has(firmware.FlagForce)

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if line == "" {
			continue
		}

		var row *Row
		if line[0] == ':' {
			row, err = parseHybridRow(line, verify)
		} else {
			row, err = parseRow(line, verify)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		if !inRange(row.RowNum, rowStart, rowEnd) {
			return nil, fmt.Errorf("line %d: %w", lineNum, &RowOutOfRangeError{
				ArrayID: row.ArrayID,
				RowNum:  row.RowNum,
				MinRow:  rowStart,
				MaxRow:  rowEnd,
			})
		}

		fw.Rows = append(fw.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(fw.Rows) == 0 {
		return nil, fmt.Errorf("no rows found in file")
	}

	fw.buildImage()

	if p.logger != nil {
		p.logger.Debug("parsed cyacd",
			"silicon_id", fmt.Sprintf("0x%08X", fw.SiliconID),
			"rows", len(fw.Rows),
			"size", fw.Size(),
		)
	}

	return fw, nil
}

func inRange(rowNum uint16, rowStart, rowEnd uint64) bool {
	n := uint64(rowNum)
	if n < rowStart {
		return false
	}
	return rowEnd == 0 || n <= rowEnd
}

// parseHeader parses the .cyacd file header.
//
// Header format (12 hex characters):
//
//	[SiliconID(4 bytes)][SiliconRev(1 byte)][ChecksumType(1 byte)]
//
// Example: "1E9602AA0000" = SiliconID: 0x1E9602AA, Rev: 0x00, Checksum: 0x00
func parseHeader(line string) (*Firmware, error) {
	if len(line) != HeaderLength {
		return nil, fmt.Errorf("invalid header length: got %d characters, expected %d", len(line), HeaderLength)
	}

	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}

	// Silicon ID is big-endian in the file
	siliconID := uint32(data[0])<<24 | uint32(data[1])<<16 |
		uint32(data[2])<<8 | uint32(data[3])

	fw := &Firmware{
		SiliconID:    siliconID,
		SiliconRev:   data[4],
		ChecksumType: data[5],
		Rows:         make([]*Row, 0, DefaultRowCapacity),
	}

	if fw.ChecksumType != 0x00 && fw.ChecksumType != 0x01 {
		return nil, fmt.Errorf("invalid checksum type: 0x%02X (must be 0x00 or 0x01)", fw.ChecksumType)
	}

	return fw, nil
}

// parseRow parses a single row line from the .cyacd file.
//
// Row format:
//
//	[ArrayID(1 byte)][RowNum(2 bytes)][DataLen(2 bytes)][Data(N bytes)][Checksum(1 byte)]
//
// All values are hex-encoded. RowNum and DataLen are little-endian.
func parseRow(line string, verify bool) (*Row, error) {
	return decodeRow(line, false, verify)
}

// parseHybridRow parses a row in PSoC hybrid format (starting with ':').
// Despite the ':' prefix this is CYACD, not Intel HEX, with BIG-ENDIAN
// RowNum and DataLen fields.
//
// Example: :000045010000800020...
//
//	ArrayID: 00
//	RowNum: 0045 (big-endian) = 69
//	Size: 0100 (big-endian) = 256
func parseHybridRow(line string, verify bool) (*Row, error) {
	if len(line) < 1 || line[0] != ':' {
		return nil, fmt.Errorf("hybrid row must start with ':'")
	}
	return decodeRow(line[1:], true, verify)
}

func decodeRow(line string, bigEndian, verify bool) (*Row, error) {
	// Minimum row: arrayID(2) + rowNum(4) + dataLen(4) + checksum(2) = MinimumRowLength chars
	if len(line) < MinimumRowLength {
		return nil, fmt.Errorf("row too short: got %d characters, minimum is %d", len(line), MinimumRowLength)
	}

	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}

	if len(data) < MinimumRowDataBytes {
		return nil, fmt.Errorf("row data too short: got %d bytes, minimum is %d", len(data), MinimumRowDataBytes)
	}

	arrayID := data[0]
	var rowNum, dataLen uint16
	if bigEndian {
		rowNum = uint16(data[1])<<8 | uint16(data[2])
		dataLen = uint16(data[3])<<8 | uint16(data[4])
	} else {
		rowNum = uint16(data[1]) | uint16(data[2])<<8
		dataLen = uint16(data[3]) | uint16(data[4])<<8
	}

	expectedLen := RowHeaderSize + RowChecksumSize + int(dataLen)
	if len(data) != expectedLen {
		return nil, fmt.Errorf("data length mismatch: got %d bytes, expected %d (header=%d + data=%d + checksum=%d)",
			len(data), expectedLen, RowHeaderSize, dataLen, RowChecksumSize)
	}

	rowData := data[RowHeaderSize : RowHeaderSize+int(dataLen)]
	checksum := data[len(data)-1]

	if verify {
		if calculated := calculateRowChecksum(data[:len(data)-1]); checksum != calculated {
			return nil, &ChecksumMismatchError{RowNum: rowNum, Expected: calculated, Actual: checksum}
		}
	}

	row := &Row{
		ArrayID:  arrayID,
		RowNum:   rowNum,
		Size:     dataLen,
		Data:     make([]byte, len(rowData)),
		Checksum: checksum,
	}
	copy(row.Data, rowData)

	return row, nil
}

// calculateRowChecksum computes the 8-bit checksum for a row.
// Uses basic summation with 2's complement.
func calculateRowChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1 // 2's complement
}
