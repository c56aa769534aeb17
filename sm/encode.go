// Package sm implements the SMPP short-message layer: encoding
// selection across GSM 03.38 / Latin-1 / UCS-2, 7-bit packing (via
// the sibling gsm7 package), and multipart splitting with User Data
// Header generation (spec.md §4.3).
package sm

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/mikhalchuk/smpp34/gsm7"
)

// Data coding scheme values (SMPP 3.4 §5.2.19). Declared locally
// rather than imported from the root package so this layer stays a
// standalone collaborator, per spec.md §1's framing of the
// short-message layer as usable independently of the session engine.
const (
	CodingDefault byte = 0x00
	CodingLatin1  byte = 0x03
	CodingUCS2    byte = 0x08
)

var (
	ucs2Encoder   = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	latin1Encoder = charmap.ISO8859_1.NewEncoder()
)

// EncodeShortMessage implements encode_short_message (spec.md §4.3).
// For DATA_CODING_DEFAULT it returns unpacked GSM 03.38 septets (one
// per byte, value 0-127); callers pack them with gsm7.Pack7Bit before
// placing them on the wire. If GSM encoding fails, it falls back to
// UCS-2 and reports the effective coding. For Latin-1/UCS-2 the
// returned bytes are already the final wire representation.
func EncodeShortMessage(text string, requestedCoding byte) ([]byte, byte, error) {
	switch requestedCoding {
	case CodingLatin1:
		b, err := latin1Encoder.Bytes([]byte(text))
		if err != nil {
			return nil, 0, err
		}
		return b, CodingLatin1, nil
	case CodingUCS2:
		b, err := ucs2Encoder.Bytes([]byte(text))
		if err != nil {
			return nil, 0, err
		}
		return b, CodingUCS2, nil
	default:
		septets, err := gsm7.Encode(text)
		if err == nil {
			return septets, CodingDefault, nil
		}
		b, err := ucs2Encoder.Bytes([]byte(text))
		if err != nil {
			return nil, 0, err
		}
		return b, CodingUCS2, nil
	}
}

// EncodeShortMessageBytes implements the "pre-encoded bytes" pass
// through described in spec.md §4.3: already-encoded payload is
// returned unchanged, along with the coding the caller asked for.
func EncodeShortMessageBytes(data []byte, requestedCoding byte) ([]byte, byte) {
	return data, requestedCoding
}

func unitsToBytes(units []uint16) []byte {
	b := make([]byte, len(units)*2)
	for i, u := range units {
		b[2*i] = byte(u >> 8)
		b[2*i+1] = byte(u)
	}
	return b
}
