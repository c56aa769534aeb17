package sm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// spec.md §8: encode_short_message("abc", DATA_CODING_DEFAULT) == (b"abc", 0x00).
// GSM 03.38 septet values for plain ASCII letters equal their ASCII
// byte values, and EncodeShortMessage returns unpacked septets for the
// default coding, so the literal bytes come back unchanged.
func TestEncodeShortMessageGSMFallbackFixture(t *testing.T) {
	data, coding, err := EncodeShortMessage("abc", CodingDefault)
	require.NoError(t, err)
	require.Equal(t, CodingDefault, coding)
	require.Equal(t, []byte("abc"), data)
}

// spec.md §8: encode_short_message("€", DATA_CODING_DEFAULT) falls
// back to UCS-2 because the Euro sign is not representable in GSM
// 03.38 as this module implements it.
func TestEncodeShortMessageEuroFallsBackToUCS2(t *testing.T) {
	data, coding, err := EncodeShortMessage("€", CodingDefault)
	require.NoError(t, err)
	require.Equal(t, CodingUCS2, coding)
	require.Equal(t, []byte{0x20, 0xAC}, data)
}

func TestEncodeShortMessageLatin1(t *testing.T) {
	data, coding, err := EncodeShortMessage("café", CodingLatin1)
	require.NoError(t, err)
	require.Equal(t, CodingLatin1, coding)
	require.Equal(t, []byte{'c', 'a', 'f', 0xE9}, data)
}

func TestEncodeShortMessageBytesPassesThrough(t *testing.T) {
	data, coding := EncodeShortMessageBytes([]byte{0x01, 0x02, 0x03}, CodingLatin1)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, data)
	require.Equal(t, CodingLatin1, coding)
}

func TestEncodeShortMessageLongGSMTextStillUnpacked(t *testing.T) {
	text := strings.Repeat("a", 200)
	data, coding, err := EncodeShortMessage(text, CodingDefault)
	require.NoError(t, err)
	require.Equal(t, CodingDefault, coding)
	require.Len(t, data, 200)
}
