package gsm7

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// spec.md §8 fixture: pack_7bit(b"7bit") == bytes.fromhex("37719a0e").
func TestPack7BitFixture(t *testing.T) {
	septets, err := Encode("7bit")
	require.NoError(t, err)

	packed, err := Pack7Bit(septets)
	require.NoError(t, err)

	want, err := hex.DecodeString("37719a0e")
	require.NoError(t, err)
	require.Equal(t, want, packed)
}

// spec.md §8: unpack_7bit(pack_7bit(x), len(x)) == x for every byte
// string of septets in [0,127].
func TestPackUnpackRoundTrip(t *testing.T) {
	for _, septets := range [][]byte{
		{},
		{0x00},
		{0x7F},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		[]byte("the quick brown fox jumps over the lazy dog 0123456789"),
	} {
		packed, err := Pack7Bit(septets)
		require.NoError(t, err)
		unpacked, err := Unpack7Bit(packed, len(septets))
		require.NoError(t, err)
		require.Equal(t, septets, unpacked)
	}
}

func TestPack7BitRejectsOutOfRangeSeptet(t *testing.T) {
	_, err := Pack7Bit([]byte{0x80})
	require.Error(t, err)
}

func TestPackFillRoundTripWithUDHAlignment(t *testing.T) {
	septets := []byte{1, 2, 3, 4, 5, 6, 7}
	packed, err := PackFill(septets, 1)
	require.NoError(t, err)
	unpacked, err := UnpackFill(packed, len(septets), 1)
	require.NoError(t, err)
	require.Equal(t, septets, unpacked)
}
