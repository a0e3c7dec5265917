package ihex

import (
	"bytes"
	"encoding/hex"
)

// Record fields read by scanRecords.
const (
	recordData            = 0x00
	recordExtSegmentAddr  = 0x02
	recordExtLinearAddr   = 0x04
	recordHeaderLength    = 4
	extendedAddressLength = 2
)

// recordStats summarizes the record layout of an input before it is parsed.
type recordStats struct {
	// records is the number of ':' lines
	records int

	// runs is the number of data records that do not continue the previous one.
	// The parsed memory never holds more segments than this.
	runs int
}

// scanRecords counts records and address discontinuities. Malformed lines are
// skipped here and rejected later by the record parser.
func scanRecords(data []byte) recordStats {
	var (
		stats   recordStats
		ext     uint32
		prevEnd uint32
		started bool
		header  [recordHeaderLength + extendedAddressLength]byte
	)

	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 || line[0] != ':' {
			continue
		}
		stats.records++

		body := line[1:]
		if len(body) < 2*recordHeaderLength {
			continue
		}
		n := recordHeaderLength
		if len(body) >= 2*len(header) {
			n = len(header)
		}
		if _, err := hex.Decode(header[:n], body[:2*n]); err != nil {
			continue
		}

		size := uint32(header[0])
		addr := ext + (uint32(header[1])<<8 | uint32(header[2]))
		switch header[3] {
		case recordData:
			if !started || addr != prevEnd {
				stats.runs++
			}
			started = true
			prevEnd = addr + size
		case recordExtSegmentAddr, recordExtLinearAddr:
			if n == len(header) {
				ext = (uint32(header[4])<<8 | uint32(header[5])) << (1 << header[3])
			}
		}
	}
	return stats
}
