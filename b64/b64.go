// Package b64 decodes the base64 text found in firmware containers.
//
// Two alphabets are supported. Standard is RFC 4648 section 4 with mandatory
// padding. URLSafe is the RFC 4648 section 5 alphabet with the padding stripped,
// as produced by web tooling; it is repaired into standard base64 before decoding.
package b64

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Alphabet selects the base64 alphabet of the input text.
type Alphabet int

const (
	// Standard is the '+' '/' alphabet with '=' padding
	Standard Alphabet = iota

	// URLSafe is the '-' '_' alphabet without padding
	URLSafe
)

func (a Alphabet) String() string {
	switch a {
	case Standard:
		return "standard"
	case URLSafe:
		return "url-safe"
	default:
		return fmt.Sprintf("alphabet(%d)", int(a))
	}
}

// Padding selects how missing '=' characters are restored for URLSafe input.
type Padding int

const (
	// PadFixed always appends "==". Only inputs whose length is 2 mod 4 decode.
	PadFixed Padding = iota

	// PadComputed appends (4 - len%4) % 4 characters.
	PadComputed
)

func (p Padding) String() string {
	switch p {
	case PadFixed:
		return "fixed"
	case PadComputed:
		return "computed"
	default:
		return fmt.Sprintf("padding(%d)", int(p))
	}
}

// ParsePadding converts "fixed" or "computed" to a Padding.
func ParsePadding(s string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return PadFixed, nil
	case "computed":
		return PadComputed, nil
	default:
		return PadFixed, fmt.Errorf("invalid signature padding %q (must be fixed or computed)", s)
	}
}

// Error reports base64 text that could not be decoded.
type Error struct {
	// Alphabet is the alphabet the text was decoded with
	Alphabet Alphabet

	// Offset is the byte offset of the first bad character in the text given to the
	// standard decoder, which for URLSafe input includes the restored padding
	Offset int64

	// Err is the underlying decoder error
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s base64 at offset %d: %v", e.Alphabet, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Decode decodes text in the given alphabet. URLSafe input uses PadFixed.
func Decode(text string, alphabet Alphabet) ([]byte, error) {
	switch alphabet {
	case Standard:
		return decodeStd([]byte(text), Standard)
	case URLSafe:
		return DecodeURLSafe(text, PadFixed)
	default:
		return nil, fmt.Errorf("unsupported alphabet %d", int(alphabet))
	}
}

// DecodeURLSafe decodes unpadded URL-safe text. '-' and '_' are mapped to '+' and '/',
// padding is restored according to pad, then the result is decoded as standard base64.
func DecodeURLSafe(text string, pad Padding) ([]byte, error) {
	var n int
	switch pad {
	case PadFixed:
		n = 2
	case PadComputed:
		n = (4 - len(text)%4) % 4
	default:
		return nil, fmt.Errorf("unsupported padding %d", int(pad))
	}

	buf := make([]byte, len(text), len(text)+n)
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '-':
			buf[i] = '+'
		case '_':
			buf[i] = '/'
		default:
			buf[i] = c
		}
	}
	for i := 0; i < n; i++ {
		buf = append(buf, '=')
	}

	return decodeStd(buf, URLSafe)
}

func decodeStd(src []byte, alphabet Alphabet) ([]byte, error) {
	// encoding/base64 skips '\r' and '\n'; reject them like any other stray byte.
	for i, c := range src {
		if !isStdAlphabet(c) {
			return nil, &Error{Alphabet: alphabet, Offset: int64(i), Err: base64.CorruptInputError(i)}
		}
	}

	dst := make([]byte, base64.StdEncoding.DecodedLen(len(src)))
	n, err := base64.StdEncoding.Decode(dst, src)
	if err != nil {
		var offset int64 = -1
		if corrupt, ok := err.(base64.CorruptInputError); ok {
			offset = int64(corrupt)
		}
		return nil, &Error{Alphabet: alphabet, Offset: offset, Err: err}
	}
	return dst[:n], nil
}

func isStdAlphabet(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '+', c == '/', c == '=':
		return true
	}
	return false
}
