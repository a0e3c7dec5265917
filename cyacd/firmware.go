package cyacd

import (
	"fmt"

	"github.com/moffa90/go-fwimage/firmware"
)

// Firmware represents a complete parsed .cyacd firmware file.
//
// The embedded image holds the row data concatenated in file order, based at
// the first row number, with one child image per row.
type Firmware struct {
	*firmware.Image

	// SiliconID is the device silicon ID (4 bytes)
	SiliconID uint32

	// SiliconRev is the silicon revision (1 byte)
	SiliconRev byte

	// ChecksumType indicates the packet checksum algorithm:
	//   0x00 = Basic summation
	//   0x01 = CRC-16-CCITT
	ChecksumType byte

	// Rows contains all flash rows to be programmed
	Rows []*Row
}

// Row represents a single flash row from the .cyacd file.
type Row struct {
	// ArrayID is the flash array identifier
	ArrayID byte

	// RowNum is the flash row number
	RowNum uint16

	// Size is the declared data length
	Size uint16

	// Data is the flash row data to be programmed
	Data []byte

	// Checksum is the row checksum (for validation)
	Checksum byte
}

// ImageID returns the role id of the row's child image, e.g. "row-00-01FF".
func (r *Row) ImageID() string {
	return fmt.Sprintf("row-%02X-%04X", r.ArrayID, r.RowNum)
}

// buildImage populates fw.Image from fw.Rows.
func (fw *Firmware) buildImage() {
	total := 0
	for _, row := range fw.Rows {
		total += len(row.Data)
	}

	payload := make([]byte, 0, total)
	img := firmware.New()
	for _, row := range fw.Rows {
		payload = append(payload, row.Data...)

		child := firmware.New()
		child.SetAddress(uint64(row.RowNum))
		child.SetBytes(row.Data)
		img.AddImage(row.ImageID(), child)
	}
	if len(fw.Rows) > 0 {
		img.SetAddress(uint64(fw.Rows[0].RowNum))
	}
	img.SetBytes(payload)
	fw.Image = img
}
