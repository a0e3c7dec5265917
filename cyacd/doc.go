// Package cyacd decodes Cypress .cyacd bootloadable files into firmware images.
//
// A file is one header line followed by row lines, all hex text:
//
//	1E9602AA0000            silicon id 0x1E9602AA, revision 0x00, checksum type 0x00
//	000000040001020304F2    array 0x00, row 0x0000, 4 data bytes, row checksum 0xF2
//
// Row numbers and data lengths are little-endian. A row starting with ':' is a
// PSoC hybrid row and carries them big-endian instead. The row checksum is the
// two's complement of the byte sum of everything before it.
//
// Decode keeps the header fields and rows:
//
//	fw, err := cyacd.ParseReader(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("silicon 0x%08X, %d rows\n", fw.SiliconID, len(fw.Rows))
//
// Parser also implements firmware.Parser, in which case the address window is
// a window of row numbers. The image is based at the first row number and holds
// the row data in file order, with one child per row (see Row.ImageID).
//
// Bad rows fail with the line number attached. A wrong row checksum is a
// *ChecksumMismatchError unless firmware.FlagIgnoreChecksum or firmware.FlagForce
// is set; a row outside the window is a *RowOutOfRangeError.
package cyacd
