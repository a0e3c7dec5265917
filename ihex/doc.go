// Package ihex decodes Intel HEX text into a flat firmware image.
//
// # Intel HEX Format
//
// Each line is one record, hex-encoded after a leading ':':
//
//	:[ByteCount(2)][Address(4)][RecordType(2)][Data(2*ByteCount)][Checksum(2)]
//
// Supported record types:
//
//	00 = Data
//	01 = End Of File
//	02 = Extended Segment Address
//	03 = Start Segment Address
//	04 = Extended Linear Address
//	05 = Start Linear Address
//
// Example:
//
//	:020000040800F2     upper 16 address bits = 0x0800
//	:02000000AABB99     two data bytes at 0x08000000
//	:00000001FF         end of file
//
// # Usage
//
// The parser implements firmware.Parser. The image address is the lowest data
// address inside the requested window and the payload covers every data byte up
// to the highest one, with holes filled by the gap fill byte:
//
//	p := ihex.New(ihex.WithGapFill(0xFF))
//	img, err := p.Parse(data, 0, 0, firmware.FlagNone)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	addr, _ := img.Address()
//	fmt.Printf("0x%08X: %d bytes\n", addr, img.Size())
//
// addrStart and addrEnd are inclusive; an addrEnd of zero means no upper bound.
// Data outside the window is dropped.
//
// # Error Handling
//
// Parse returns errors for:
//   - Input larger than the configured maximum (ErrTooLarge)
//   - Malformed records, bad checksums, overlapping data or a missing EOF record
//   - Windows that do not fit in 32 bits (RangeError)
//   - No data inside the window (ErrNoData)
//   - Holes between data larger than the configured maximum (ErrGapTooLarge)
//
// With firmware.FlagIgnoreChecksum or firmware.FlagForce, record checksums are
// recomputed before parsing so that corrupt checksums are tolerated.
package ihex
