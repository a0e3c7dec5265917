// Package solokey decodes Solo security key firmware update containers.
//
// # Container Format
//
// A container is a UTF-8 JSON object with two required string members:
//
//	{
//	    "firmware":  "<standard base64 of Intel HEX text>",
//	    "signature": "<URL-safe base64 of the signature, without padding>"
//	}
//
// Other members are ignored. A member that is present but not a string counts
// as missing.
//
// # Usage
//
//	p := solokey.New()
//	img, err := p.Parse(data, 0, 0, firmware.FlagNone)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	addr, _ := img.Address()
//	fmt.Printf("payload: %d bytes at 0x%08X\n", img.Size(), addr)
//	fmt.Printf("signature: % X\n", img.Image(firmware.IDSignature).Bytes())
//
// The signature is extracted, not verified.
//
// # Signature Padding
//
// The signature padding is restored by appending a fixed "==" before decoding.
// That only works for signatures whose unpadded length is 2 mod 4, which covers
// the 64-byte ECDSA signatures these containers carry. Use
// WithSignaturePadding(b64.PadComputed) to accept any length.
//
// # Error Handling
//
// Parse returns one of the following typed errors:
//   - StructuralError: input too large, not UTF-8, or not a single JSON object
//   - MissingFieldError: "firmware" or "signature" absent, "firmware" reported first
//   - DecodeError: a member is not valid base64
//   - SubParseError: the embedded Intel HEX payload was rejected
//
// Use errors.As to inspect them. No partial image is returned on error.
package solokey
