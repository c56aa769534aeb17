package smpp34

import "encoding/binary"

// HeaderLen is the fixed byte length of an SMPP PDU header.
const HeaderLen = 16

// Header is the 16-byte fixed header present on every SMPP PDU.
type Header struct {
	Length         uint32
	ID             uint32
	Status         uint32
	SequenceNumber uint32
}

// ParseHeader decodes the 16-byte header from the front of data.
// Callers must ensure len(data) >= HeaderLen.
func ParseHeader(data []byte) Header {
	return Header{
		Length:         unpackUi32(data[0:4]),
		ID:             unpackUi32(data[4:8]),
		Status:         unpackUi32(data[8:12]),
		SequenceNumber: unpackUi32(data[12:16]),
	}
}

// Bytes serializes the header to its 16-byte wire form.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderLen)
	binary.BigEndian.PutUint32(b[0:4], h.Length)
	binary.BigEndian.PutUint32(b[4:8], h.ID)
	binary.BigEndian.PutUint32(b[8:12], h.Status)
	binary.BigEndian.PutUint32(b[12:16], h.SequenceNumber)
	return b
}

// FrameLength reads the command_length field out of the first four
// bytes of a frame, letting a reader perform the two-read framed
// receive described in spec.md §4.1: read 4 bytes, then Length-4 more.
func FrameLength(first4 []byte) uint32 {
	return unpackUi32(first4[:4])
}

func unpackUi32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func packUi32(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

func unpackUi16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func packUi16(n uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, n)
	return b
}
