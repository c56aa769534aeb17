package smpp34

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario 1 (spec.md §8): encode SUBMIT_SM and check header layout.
func TestEncodeSubmitSmHeaderLayout(t *testing.T) {
	p, err := NewPDU(SUBMIT_SM, ESME_ROK, 7)
	require.NoError(t, err)
	p.SetString(pSourceAddr, "1000")
	p.SetString(pDestinationAddr, "2000")
	p.SetBytes(pShortMessage, []byte("hi"))

	b, err := p.Encode()
	require.NoError(t, err)

	require.Equal(t, uint32(len(b)), binary.BigEndian.Uint32(b[0:4]))
	require.Equal(t, uint32(SUBMIT_SM), binary.BigEndian.Uint32(b[4:8]))
	require.Equal(t, uint32(7), binary.BigEndian.Uint32(b[12:16]))
}

// Scenario 2 (spec.md §8): decode a SUBMIT_SM_RESP carrying a
// non-zero status and an empty message_id.
func TestDecodeSubmitSmRespStatus(t *testing.T) {
	frame := []byte{
		0x00, 0x00, 0x00, 0x11, // command_length = 17
		0x80, 0x00, 0x00, 0x04, // SUBMIT_SM_RESP
		0x00, 0x00, 0x00, 0x0e, // command_status = 14 (ESME_RINVPASWD)
		0x00, 0x00, 0x00, 0x07, // sequence_number = 7
		0x00, // message_id = "" (NUL terminator only)
	}
	p, err := Decode(frame)
	require.NoError(t, err)
	require.Equal(t, uint32(14), p.Header.Status)
	require.Equal(t, uint32(7), p.Header.SequenceNumber)
	require.Equal(t, "", p.GetString(pMessageID))
}

// Header invariant (spec.md §8): for every encoded PDU, the
// command_length field equals the encoded byte length.
func TestHeaderLengthInvariant(t *testing.T) {
	p, err := NewPDU(ENQUIRE_LINK, ESME_ROK, 42)
	require.NoError(t, err)
	b, err := p.Encode()
	require.NoError(t, err)
	require.Len(t, b, HeaderLen)
	require.Equal(t, uint32(HeaderLen), binary.BigEndian.Uint32(b[0:4]))
}

// Codec round trip (spec.md §8): decode(encode(pdu)) == pdu for a
// representative command with mandatory params and a TLV.
func TestCodecRoundTrip(t *testing.T) {
	p, err := NewPDU(SUBMIT_SM, ESME_ROK, 99)
	require.NoError(t, err)
	p.SetString(pServiceType, "")
	p.SetUint(pSourceAddrTon, 1)
	p.SetUint(pSourceAddrNpi, 1)
	p.SetString(pSourceAddr, "44771234567")
	p.SetUint(pDestAddrTon, 1)
	p.SetUint(pDestAddrNpi, 1)
	p.SetString(pDestinationAddr, "44777654321")
	p.SetUint(pEsmClass, 0)
	p.SetUint(pDataCoding, 0)
	p.SetBytes(pShortMessage, []byte("hello world"))
	require.NoError(t, p.SetTLVUint("user_message_reference", 7))

	b, err := p.Encode()
	require.NoError(t, err)

	decoded, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, p.Header.SequenceNumber, decoded.Header.SequenceNumber)
	require.Equal(t, p.GetString(pSourceAddr), decoded.GetString(pSourceAddr))
	require.Equal(t, p.GetString(pDestinationAddr), decoded.GetString(pDestinationAddr))
	require.Equal(t, p.GetBytes(pShortMessage), decoded.GetBytes(pShortMessage))
	ref, ok := decoded.GetTLVUint("user_message_reference")
	require.True(t, ok)
	require.Equal(t, uint64(7), ref)

	reEncoded, err := decoded.Encode()
	require.NoError(t, err)
	require.Equal(t, b, reEncoded)
}

func TestEncodeRejectsOversizeCOctetString(t *testing.T) {
	p, err := NewPDU(SUBMIT_SM, ESME_ROK, 1)
	require.NoError(t, err)
	p.SetString(pSourceAddr, "this-source-address-is-far-too-long-for-the-21-byte-limit")
	_, err = p.Encode()
	require.Error(t, err)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
}

// SUBMIT_MULTI's destination list (SMPP 3.4 §4.5.1) is a repeated
// variant record ahead of esm_class; encoding and decoding must agree
// on where it ends so the fields that follow are not misparsed.
func TestSubmitMultiDestinationListRoundTrip(t *testing.T) {
	p, err := NewPDU(SUBMIT_MULTI, ESME_ROK, 5)
	require.NoError(t, err)
	p.SetString(pSourceAddr, "1000")
	p.SetDestinations([]DestAddress{
		{Flag: DestFlagSMEAddress, DestAddrTon: 1, DestAddrNpi: 1, DestinationAddr: "2000"},
		{Flag: DestFlagDistributionList, DLName: "group1"},
		{Flag: DestFlagSMEAddress, DestAddrTon: 1, DestAddrNpi: 1, DestinationAddr: "3000"},
	})
	p.SetUint(pEsmClass, 0)
	p.SetUint(pDataCoding, 0)
	p.SetBytes(pShortMessage, []byte("hi everyone"))

	b, err := p.Encode()
	require.NoError(t, err)

	decoded, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, uint64(3), decoded.GetUint(pNumberOfDests))
	require.Equal(t, []byte("hi everyone"), decoded.GetBytes(pShortMessage))

	dests := decoded.GetDestinations()
	require.Len(t, dests, 3)
	require.Equal(t, DestFlagSMEAddress, dests[0].Flag)
	require.Equal(t, "2000", dests[0].DestinationAddr)
	require.Equal(t, DestFlagDistributionList, dests[1].Flag)
	require.Equal(t, "group1", dests[1].DLName)
	require.Equal(t, DestFlagSMEAddress, dests[2].Flag)
	require.Equal(t, "3000", dests[2].DestinationAddr)
}

func TestDecodeUnknownCommandID(t *testing.T) {
	frame := []byte{0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x99, 0x99, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	_, err := Decode(frame)
	require.Error(t, err)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
}

func TestExtraTLVsPreservedButUnnamed(t *testing.T) {
	p, err := NewPDU(ENQUIRE_LINK_RESP, ESME_ROK, 1)
	require.NoError(t, err)
	b, err := p.Encode()
	require.NoError(t, err)
	// append an unrecognized TLV (tag 0xFFFE) by hand
	extra := append(packUi16(0xFFFE), packUi16(2)...)
	extra = append(extra, 0xAB, 0xCD)
	b = append(b, extra...)
	binary.BigEndian.PutUint32(b[0:4], uint32(len(b)))

	decoded, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, 1, decoded.ExtraTLVCount())
}
