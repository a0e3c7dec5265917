package firmware

import (
	"fmt"
	"strings"
)

// IDSignature is the role id of a detached signature child image.
const IDSignature = "signature"

// Image is a firmware payload with an optional base address and named child images.
//
// Image performs no validation; parsers enforce the invariants of their format
// before returning one. An Image is not safe for concurrent mutation, but once
// a parser has returned it, concurrent reads are fine.
type Image struct {
	id      string
	addr    uint64
	hasAddr bool
	payload []byte
	images  []*Image
}

// New returns an empty image with no address, no bytes and no children.
func New() *Image {
	return &Image{}
}

// ID returns the role id of the image, or "" for a top-level image.
func (img *Image) ID() string {
	return img.id
}

// SetID sets the role id of the image.
func (img *Image) SetID(id string) {
	img.id = id
}

// SetAddress sets the base address of the payload.
func (img *Image) SetAddress(addr uint64) {
	img.addr = addr
	img.hasAddr = true
}

// Address returns the base address and whether one has been set.
func (img *Image) Address() (uint64, bool) {
	return img.addr, img.hasAddr
}

// SetBytes sets the payload. The image takes ownership of b.
func (img *Image) SetBytes(b []byte) {
	img.payload = b
}

// Bytes returns the payload. Callers must not modify it.
func (img *Image) Bytes() []byte {
	return img.payload
}

// Size returns the payload length in bytes.
func (img *Image) Size() int {
	return len(img.payload)
}

// AddImage appends child under the given role id. Duplicate ids are allowed.
func (img *Image) AddImage(id string, child *Image) {
	child.id = id
	img.images = append(img.images, child)
}

// Image returns the most recently added child with the given role id, or nil.
func (img *Image) Image(id string) *Image {
	for i := len(img.images) - 1; i >= 0; i-- {
		if img.images[i].id == id {
			return img.images[i]
		}
	}
	return nil
}

// Images returns the children in insertion order.
func (img *Image) Images() []*Image {
	out := make([]*Image, len(img.images))
	copy(out, img.images)
	return out
}

// String returns a multi-line, indented description of the image tree.
func (img *Image) String() string {
	var sb strings.Builder
	img.describe(&sb, 0)
	return sb.String()
}

func (img *Image) describe(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	name := img.id
	if name == "" {
		name = "image"
	}
	fmt.Fprintf(sb, "%s%s:\n", indent, name)
	if addr, ok := img.Address(); ok {
		fmt.Fprintf(sb, "%s  address: 0x%08X\n", indent, addr)
	}
	fmt.Fprintf(sb, "%s  size:    %d bytes\n", indent, len(img.payload))
	for _, child := range img.images {
		child.describe(sb, depth+1)
	}
}
