// Package gsm7 implements the GSM 03.38 default alphabet (primary
// table plus extension table) and 7-bit septet packing used by the
// SMPP short-message layer.
package gsm7

import "errors"

// ErrNotRepresentable is returned by Encode when the input contains a
// character absent from both the primary and extension tables.
var ErrNotRepresentable = errors.New("gsm7: character not representable in GSM 03.38 alphabet")

const escape = 0x1B

// basic is the 128-entry primary GSM 03.38 table, septet value -> rune.
// Note: per the reference behavior this module matches, the Euro sign
// is deliberately absent from both tables (see ext below) so that text
// containing it falls back to UCS-2, matching spec.md §8's documented
// GSM-fallback property.
var basic = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', 0, 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

// ext maps extension-table second bytes (reached via the 0x1B escape)
// to runes.
var ext = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
}

var (
	basicRev = buildBasicRev()
	extRev   = buildExtRev()
)

func buildBasicRev() map[rune]byte {
	m := make(map[rune]byte, len(basic))
	for i, r := range basic {
		if r == 0 && i != 0 {
			continue
		}
		m[r] = byte(i)
	}
	return m
}

func buildExtRev() map[rune]byte {
	m := make(map[rune]byte, len(ext))
	for b, r := range ext {
		m[r] = b
	}
	return m
}

// IsExtension reports whether r requires the 0x1B escape pair to
// represent in GSM 03.38, and so counts as 2 septets of per-part
// capacity.
func IsExtension(r rune) bool {
	_, ok := extRev[r]
	return ok
}

// Representable reports whether r can be encoded in GSM 03.38 at all
// (primary or extension table).
func Representable(r rune) bool {
	if _, ok := basicRev[r]; ok {
		return true
	}
	_, ok := extRev[r]
	return ok
}

// Encode converts text into a slice of GSM 03.38 septets, each stored
// in the low 7 bits of a byte. Extension-table characters emit two
// septets: 0x1B then the extension code. Returns ErrNotRepresentable
// if any rune is in neither table.
func Encode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := basicRev[r]; ok {
			out = append(out, b)
			continue
		}
		if b, ok := extRev[r]; ok {
			out = append(out, escape, b)
			continue
		}
		return nil, ErrNotRepresentable
	}
	return out, nil
}

// Decode converts a slice of GSM 03.38 septets back into text.
func Decode(septets []byte) (string, error) {
	var out []rune
	for i := 0; i < len(septets); i++ {
		b := septets[i]
		if b == escape {
			i++
			if i >= len(septets) {
				return "", errors.New("gsm7: truncated extension escape sequence")
			}
			r, ok := ext[septets[i]]
			if !ok {
				// Unknown extension code: GSM 03.38 mandates treating it
				// as a space per 3GPP TS 23.038, not a decode failure.
				r = ' '
			}
			out = append(out, r)
			continue
		}
		if int(b) >= len(basic) {
			return "", errors.New("gsm7: septet value out of range")
		}
		out = append(out, basic[b])
	}
	return string(out), nil
}

// SeptetLen returns the number of septets Encode(text) would produce
// without allocating, for capacity checks ahead of splitting.
func SeptetLen(text string) (int, error) {
	n := 0
	for _, r := range text {
		if _, ok := basicRev[r]; ok {
			n++
			continue
		}
		if _, ok := extRev[r]; ok {
			n += 2
			continue
		}
		return 0, ErrNotRepresentable
	}
	return n, nil
}
