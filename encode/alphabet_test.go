package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWord_KnownValues(t *testing.T) {
	s, err := EncodeWord(0, DefaultAlphabet)
	require.NoError(t, err)
	assert.Equal(t, "*******", s)

	s, err = EncodeWord(0x3FFF, DefaultAlphabet)
	require.NoError(t, err)
	assert.Equal(t, "!!!!!!!", s)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, w := range []uint16{0, 1, 97, 100, 0x3FFF, 0x1555, 0x2AAA} {
		s, err := EncodeWord(w, DefaultAlphabet)
		require.NoError(t, err)
		require.Len(t, s, 7)

		decoded, err := DecodeGroup(s, DefaultAlphabet)
		require.NoError(t, err)
		assert.Equal(t, w, decoded, "round-trip must recover the original word")
	}
}

func TestDecodeGroup_RejectsUnknownCharacter(t *testing.T) {
	_, err := DecodeGroup("abcdefg", DefaultAlphabet)
	assert.Error(t, err)
}

func TestDecodeGroup_RejectsWrongLength(t *testing.T) {
	_, err := DecodeGroup("***", DefaultAlphabet)
	assert.Error(t, err)
}
