package ihex

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge indicates that the input exceeds the configured maximum size.
	ErrTooLarge = errors.New("intel hex input too large")

	// ErrNoData indicates that no data record falls inside the requested window.
	ErrNoData = errors.New("no data records in address range")

	// ErrGapTooLarge indicates a hole between data records above the configured maximum.
	ErrGapTooLarge = errors.New("gap between data records too large")

	// ErrTooManyRecords indicates more records than the configured maximum.
	ErrTooManyRecords = errors.New("too many intel hex records")

	// ErrTooManySegments indicates more discontiguous data runs than the configured maximum.
	ErrTooManySegments = errors.New("too many discontiguous intel hex segments")
)

// RangeError indicates an address window that cannot be applied to 32-bit Intel HEX.
type RangeError struct {
	Start uint64
	End   uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid address window 0x%X-0x%X for 32-bit records", e.Start, e.End)
}
