// Package firmware provides the in-memory image model shared by every firmware format
// in this module, and the capability interface each format implements.
//
// # Image Model
//
// An Image is an addressable byte payload plus an ordered set of child images.
// Each child is identified by a role id, for example IDSignature:
//
//	img := firmware.New()
//	img.SetAddress(0x08000000)
//	img.SetBytes(payload)
//
//	sig := firmware.New()
//	sig.SetBytes(signature)
//	img.AddImage(firmware.IDSignature, sig)
//
//	if child := img.Image(firmware.IDSignature); child != nil {
//	    fmt.Printf("signature: %d bytes\n", child.Size())
//	}
//
// The address is optional and reports ok=false until something sets it.
// Looking up a child by id returns the most recently added match; iteration
// with Images keeps insertion order.
//
// # Parsers
//
// Each format implements Parser:
//
//	type Parser interface {
//	    Parse(data []byte, addrStart, addrEnd uint64, flags Flags) (*Image, error)
//	}
//
// A parser either returns a fully populated image or an error, never both.
// Callers choose which parser to run; a Registry maps format names to
// factories for that purpose:
//
//	reg := firmware.NewRegistry()
//	_ = reg.Register("raw", func() firmware.Parser { return firmware.Raw{} })
//
//	p, err := reg.New("raw")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img, err := p.Parse(data, 0, 0, firmware.FlagNone)
package firmware
