package firmware

import "fmt"

// Flags modify how strictly a parser treats its input.
type Flags uint64

// Parse flags.
const (
	// FlagNone requests strict parsing
	FlagNone Flags = 0

	// FlagForce accepts input that would otherwise be rejected for integrity reasons
	FlagForce Flags = 1 << 3

	// FlagIgnoreChecksum skips per-record checksum verification
	FlagIgnoreChecksum Flags = 1 << 6
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Parser decodes one firmware format into an Image.
//
// addrStart and addrEnd bound the addresses the caller is interested in; how a
// format interprets them is up to the format. An addrEnd of zero means no upper bound.
// On error the returned image is nil.
type Parser interface {
	Parse(data []byte, addrStart, addrEnd uint64, flags Flags) (*Image, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(data []byte, addrStart, addrEnd uint64, flags Flags) (*Image, error)

// Parse calls f.
func (f ParserFunc) Parse(data []byte, addrStart, addrEnd uint64, flags Flags) (*Image, error) {
	return f(data, addrStart, addrEnd, flags)
}

// Raw is the format-less parser: the whole input becomes the payload at addrStart.
type Raw struct{}

// Parse copies data into a new image based at addrStart.
func (Raw) Parse(data []byte, addrStart, addrEnd uint64, _ Flags) (*Image, error) {
	if addrEnd != 0 {
		if addrEnd < addrStart {
			return nil, fmt.Errorf("invalid address window: 0x%X-0x%X", addrStart, addrEnd)
		}
		if window := addrEnd - addrStart + 1; window != 0 && uint64(len(data)) > window {
			return nil, fmt.Errorf("firmware too large: %d bytes, window is %d", len(data), window)
		}
	}

	payload := make([]byte, len(data))
	copy(payload, data)

	img := New()
	img.SetAddress(addrStart)
	img.SetBytes(payload)
	return img, nil
}
