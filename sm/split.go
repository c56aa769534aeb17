package sm

import (
	"sync/atomic"
	"unicode/utf16"

	"github.com/mikhalchuk/smpp34/gsm7"
)

// Per-part capacity (spec.md §4.3).
const (
	singleMaxGSMSeptets   = 160
	multiMaxGSMSeptets    = 153
	singleMaxByteEncoding = 140
	multiMaxByteEncoding  = 134
	singleMaxUCS2Units    = 70
	multiMaxUCS2Units     = 67

	udhLen      = 6
	udhFillBits = 1 // (UDH_LEN*8) mod 7 == 6, so 7-6 fill bits align the next septet
)

var refCounter uint32

// nextReference allocates a concatenated-message reference number in
// [0,255] from an internal counter, wrapping.
func nextReference() byte {
	n := atomic.AddUint32(&refCounter, 1)
	return byte(n % 256)
}

func udh(ref byte, total, index int) []byte {
	return []byte{0x05, 0x00, 0x03, ref, byte(total), byte(index)}
}

// SplitShortMessage implements split_short_message (spec.md §4.3):
// it selects an encoding exactly as EncodeShortMessage does, then
// returns the esm_class, effective data_coding, and wire-ready parts,
// prefixing a 6-byte UDH on every part when more than one is needed.
func SplitShortMessage(text string, requestedCoding byte) (esmClass, dataCoding byte, parts [][]byte, err error) {
	switch requestedCoding {
	case CodingLatin1:
		return splitByteEncoded(text, latin1Encoder, CodingLatin1)
	case CodingUCS2:
		return splitUCS2(text)
	default:
		septets, gsmErr := gsm7.Encode(text)
		if gsmErr != nil {
			return splitUCS2(text)
		}
		return splitGSM(septets)
	}
}

func splitGSM(septets []byte) (byte, byte, [][]byte, error) {
	if len(septets) <= singleMaxGSMSeptets {
		packed, err := gsm7.Pack7Bit(septets)
		if err != nil {
			return 0, 0, nil, err
		}
		return 0x00, CodingDefault, [][]byte{packed}, nil
	}
	chunks := chunkSeptets(septets, multiMaxGSMSeptets)
	ref := nextReference()
	total := len(chunks)
	parts := make([][]byte, total)
	for i, c := range chunks {
		packed, err := gsm7.PackFill(c, udhFillBits)
		if err != nil {
			return 0, 0, nil, err
		}
		parts[i] = append(udh(ref, total, i+1), packed...)
	}
	return 0x40, CodingDefault, parts, nil
}

// chunkSeptets splits a septet stream into groups of at most max
// septets without ever separating a 2-septet GSM extension-table
// pair (spec.md §4.3).
func chunkSeptets(septets []byte, max int) [][]byte {
	var chunks [][]byte
	var cur []byte
	i := 0
	for i < len(septets) {
		weight := 1
		if septets[i] == 0x1B {
			weight = 2
		}
		if len(cur)+weight > max {
			chunks = append(chunks, cur)
			cur = nil
		}
		cur = append(cur, septets[i:i+weight]...)
		i += weight
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func splitByteEncoded(text string, enc interface {
	Bytes([]byte) ([]byte, error)
}, coding byte) (byte, byte, [][]byte, error) {
	data, err := enc.Bytes([]byte(text))
	if err != nil {
		return 0, 0, nil, err
	}
	if len(data) <= singleMaxByteEncoding {
		return 0x00, coding, [][]byte{data}, nil
	}
	total := (len(data) + multiMaxByteEncoding - 1) / multiMaxByteEncoding
	ref := nextReference()
	parts := make([][]byte, total)
	for i := 0; i < total; i++ {
		start := i * multiMaxByteEncoding
		end := start + multiMaxByteEncoding
		if end > len(data) {
			end = len(data)
		}
		parts[i] = append(udh(ref, total, i+1), data[start:end]...)
	}
	return 0x40, coding, parts, nil
}

func splitUCS2(text string) (byte, byte, [][]byte, error) {
	runes := []rune(text)
	units := utf16.Encode(runes)
	if len(units) <= singleMaxUCS2Units {
		return 0x00, CodingUCS2, [][]byte{unitsToBytes(units)}, nil
	}
	var chunks [][]uint16
	var cur []uint16
	for _, r := range runes {
		u := utf16.Encode([]rune{r})
		if len(cur)+len(u) > multiMaxUCS2Units {
			chunks = append(chunks, cur)
			cur = nil
		}
		cur = append(cur, u...)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	ref := nextReference()
	total := len(chunks)
	parts := make([][]byte, total)
	for i, c := range chunks {
		parts[i] = append(udh(ref, total, i+1), unitsToBytes(c)...)
	}
	return 0x40, CodingUCS2, parts, nil
}

// SplitPreEncoded implements the "pre-encoded bytes" branch of
// split_short_message: data is already the final wire payload for
// coding and is split purely on byte boundaries, without
// re-encoding (spec.md §4.3).
func SplitPreEncoded(data []byte, coding byte) (esmClass, dataCoding byte, parts [][]byte) {
	if len(data) <= singleMaxByteEncoding {
		return 0x00, coding, [][]byte{data}
	}
	total := (len(data) + multiMaxByteEncoding - 1) / multiMaxByteEncoding
	ref := nextReference()
	parts = make([][]byte, total)
	for i := 0; i < total; i++ {
		start := i * multiMaxByteEncoding
		end := start + multiMaxByteEncoding
		if end > len(data) {
			end = len(data)
		}
		parts[i] = append(udh(ref, total, i+1), data[start:end]...)
	}
	return 0x40, coding, parts
}
