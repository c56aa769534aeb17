package sm

import (
	"strings"
	"testing"

	"github.com/mikhalchuk/smpp34/gsm7"
	"github.com/stretchr/testify/require"
)

// spec.md §8: split_short_message("A"*161, DATA_CODING_DEFAULT) yields
// two parts carrying 153 and 8 septets.
func TestSplitShortMessageGSMOverflowsIntoTwoParts(t *testing.T) {
	text := strings.Repeat("A", 161)
	esmClass, dataCoding, parts, err := SplitShortMessage(text, CodingDefault)
	require.NoError(t, err)
	require.Equal(t, byte(0x40), esmClass)
	require.Equal(t, CodingDefault, dataCoding)
	require.Len(t, parts, 2)

	first, err := gsm7.UnpackFill(parts[0][udhLen:], 153, udhFillBits)
	require.NoError(t, err)
	require.Len(t, first, 153)

	second, err := gsm7.UnpackFill(parts[1][udhLen:], 8, udhFillBits)
	require.NoError(t, err)
	require.Len(t, second, 8)
}

// spec.md §8: split_short_message("A"*160, DATA_CODING_DEFAULT) fits
// in a single part with esm_class == 0.
func TestSplitShortMessageGSMFitsInSinglePart(t *testing.T) {
	text := strings.Repeat("A", 160)
	esmClass, dataCoding, parts, err := SplitShortMessage(text, CodingDefault)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), esmClass)
	require.Equal(t, CodingDefault, dataCoding)
	require.Len(t, parts, 1)

	septets, err := gsm7.Unpack7Bit(parts[0], 160)
	require.NoError(t, err)
	require.Len(t, septets, 160)
}

func TestSplitShortMessageNeverSeparatesExtensionPair(t *testing.T) {
	// '[' costs 2 septets; placed right at the 153-septet boundary of a
	// message too long for one part, a naive splitter would cut the
	// escape pair across two parts.
	text := strings.Repeat("A", 152) + "[" + strings.Repeat("A", 10)
	esmClass, _, parts, err := SplitShortMessage(text, CodingDefault)
	require.NoError(t, err)
	require.Equal(t, byte(0x40), esmClass)
	require.Len(t, parts, 2)

	firstChunkSeptets := chunkSeptets(mustEncode(t, text), multiMaxGSMSeptets)[0]
	require.Len(t, firstChunkSeptets, 152) // the escape pair moved whole into part 2
}

func mustEncode(t *testing.T, text string) []byte {
	t.Helper()
	septets, err := gsm7.Encode(text)
	require.NoError(t, err)
	return septets
}

func TestSplitShortMessageUCS2(t *testing.T) {
	esmClass, dataCoding, parts, err := SplitShortMessage("hello", CodingUCS2)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), esmClass)
	require.Equal(t, CodingUCS2, dataCoding)
	require.Equal(t, []byte{0x00, 'h', 0x00, 'e', 0x00, 'l', 0x00, 'l', 0x00, 'o'}, parts[0])
}

func TestSplitPreEncodedByteBoundary(t *testing.T) {
	data := make([]byte, 200)
	esmClass, dataCoding, parts := SplitPreEncoded(data, CodingLatin1)
	require.Equal(t, byte(0x40), esmClass)
	require.Equal(t, CodingLatin1, dataCoding)
	require.Len(t, parts, 2)
	require.Len(t, parts[0], udhLen+multiMaxByteEncoding)
}

func TestParseDeliveryReceipt(t *testing.T) {
	body := []byte("id:1234 sub:001 dlvrd:001 submit date:2607311200 done date:2607311205 stat:DELIVRD err:000 text:hello there")
	r, ok := ParseDeliveryReceipt(body)
	require.True(t, ok)
	require.Equal(t, "1234", r.MessageID)
	require.Equal(t, "DELIVRD", r.Stat)
	require.Equal(t, "hello there", r.Text)
}

func TestParseDeliveryReceiptNoMatch(t *testing.T) {
	_, ok := ParseDeliveryReceipt([]byte("not a receipt"))
	require.False(t, ok)
}
