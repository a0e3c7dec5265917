package ihex

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// minRecordLength is ':' + byte count(2) + address(4) + type(2) + checksum(2).
const minRecordLength = 11

// recordChecksum computes the two's complement of the byte sum of a record.
func recordChecksum(record []byte) byte {
	var sum byte
	for _, b := range record {
		sum += b
	}
	return ^sum + 1
}

// repairChecksums rewrites the checksum of every well-formed record so that
// records with corrupt checksums parse. Lines that are not valid hex records are
// left untouched for the record parser to reject.
func repairChecksums(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	for len(data) > 0 {
		line := data
		var eol []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, eol, data = data[:i], data[i:i+1], data[i+1:]
		} else {
			data = nil
		}
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line, eol = line[:n-1], append([]byte{'\r'}, eol...)
		}

		out.Write(repairRecord(line))
		out.Write(eol)
	}
	return out.Bytes()
}

func repairRecord(line []byte) []byte {
	if len(line) < minRecordLength || line[0] != ':' || len(line)%2 == 0 {
		return line
	}
	body := line[1 : len(line)-2]
	record := make([]byte, hex.DecodedLen(len(body)))
	if _, err := hex.Decode(record, body); err != nil {
		return line
	}

	fixed := make([]byte, 0, len(line))
	fixed = append(fixed, line[:len(line)-2]...)
	return append(fixed, fmt.Sprintf("%02X", recordChecksum(record))...)
}
