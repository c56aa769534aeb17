package gsm7

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripBasicAndExtension(t *testing.T) {
	text := "Hello, World! [brackets] {braces} ^caret~"
	septets, err := Encode(text)
	require.NoError(t, err)

	decoded, err := Decode(septets)
	require.NoError(t, err)
	require.Equal(t, text, decoded)
}

func TestEncodeExtensionCharEmitsEscapePair(t *testing.T) {
	septets, err := Encode("[")
	require.NoError(t, err)
	require.Equal(t, []byte{escape, 0x3C}, septets)
}

func TestEuroSignIsNotRepresentable(t *testing.T) {
	require.False(t, Representable('€'))
	_, err := Encode("€")
	require.ErrorIs(t, err, ErrNotRepresentable)
}

func TestSeptetLenCountsExtensionCharsAsTwo(t *testing.T) {
	n, err := SeptetLen("a[b")
	require.NoError(t, err)
	require.Equal(t, 4, n) // 'a' + escape-pair '[' + 'b'
}

func TestDecodeUnknownExtensionCodeFallsBackToSpace(t *testing.T) {
	s, err := Decode([]byte{escape, 0x01})
	require.NoError(t, err)
	require.Equal(t, " ", s)
}
