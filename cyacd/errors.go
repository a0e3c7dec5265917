package cyacd

import "fmt"

// RowOutOfRangeError indicates that a row lies outside the requested row window.
type RowOutOfRangeError struct {
	ArrayID byte
	RowNum  uint16
	MinRow  uint64
	MaxRow  uint64
}

func (e *RowOutOfRangeError) Error() string {
	if e.MaxRow == 0 {
		return fmt.Sprintf("row %d in array %d is out of range: valid range starts at %d",
			e.RowNum, e.ArrayID, e.MinRow)
	}
	return fmt.Sprintf("row %d in array %d is out of range: valid range is %d-%d",
		e.RowNum, e.ArrayID, e.MinRow, e.MaxRow)
}

// ChecksumMismatchError indicates that a row checksum in the file is wrong.
type ChecksumMismatchError struct {
	RowNum   uint16
	Expected byte
	Actual   byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for row %d: expected 0x%02X, got 0x%02X",
		e.RowNum, e.Expected, e.Actual)
}
