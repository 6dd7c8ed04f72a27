package kdbxinfo

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDecodeLegacy(t *testing.T) {
	body := legacyBody()
	require.Len(t, body, LegacyHeaderSize)
	hdr, err := DecodeLegacy(body)
	require.NoError(t, err)
	assert.Equal(t, LegacyFlagSHA2|LegacyFlagRijndael, hdr.Flags())
	assert.Equal(t, FormatVersion(0x00030004), hdr.Version())
	assert.Equal(t, [16]byte(seq(0x10, 16)), hdr.MasterSeed())
	assert.Equal(t, [16]byte(seq(0x20, 16)), hdr.EncryptionIV())
	assert.Equal(t, uint32(5), hdr.GroupCount())
	assert.Equal(t, uint32(42), hdr.EntryCount())
	assert.Equal(t, [32]byte(seq(0x40, 32)), hdr.ContentHash())
	assert.Equal(t, [32]byte(seq(0x60, 32)), hdr.TransformSeed())
	assert.Equal(t, uint32(50000), hdr.TransformRounds())
	assert.Equal(t, ContainerLegacy, hdr.Kind())
	assert.Equal(t, LegacyHeaderSize, hdr.Size())
	assert.Empty(t, hdr.Warnings())
}

func TestDecodeLegacy_IgnoresTrailingPayload(t *testing.T) {
	hdr, err := DecodeLegacy(concat(legacyBody(), seq(0xAA, 64)))
	require.NoError(t, err)
	assert.Equal(t, uint32(50000), hdr.TransformRounds())
}

func TestDecodeLegacy_Truncated(t *testing.T) {
	body := legacyBody()
	for _, n := range []int{0, 1, 4, LegacyHeaderSize - 1} {
		_, err := DecodeLegacy(body[:n])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTruncatedHeader))
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, LegacyHeaderSize, fe.Needed)
		assert.Equal(t, n, fe.Got)
	}
	_, err := DecodeLegacy(body[:LegacyHeaderSize-1])
	assert.EqualError(t, err, "truncated header: need 116 bytes, got 115")
}

func TestDecodeLegacy_Idempotent(t *testing.T) {
	body := legacyBody()
	a, err := DecodeLegacy(body)
	require.NoError(t, err)
	b, err := DecodeLegacy(body)
	require.NoError(t, err)
	assert.Equal(t, *a, *b)
}

func TestDecodeLegacy_DoesNotAliasInput(t *testing.T) {
	body := legacyBody()
	hdr, err := DecodeLegacy(body)
	require.NoError(t, err)
	body[8] = 0xFF
	assert.Equal(t, [16]byte(seq(0x10, 16)), hdr.MasterSeed())
}

func TestLegacyFields(t *testing.T) {
	assert.Equal(t, LegacyHeaderSize, LegacyFields.FixedSize())
	_, ok := LegacyFields.Terminator()
	assert.False(t, ok)
	names := make([]string, 0)
	for _, spec := range LegacyFields.Fields() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{"Flags", "Version", "MasterSeed", "EncryptionIV", "GroupCount", "EntryCount", "ContentHash", "TransformSeed", "TransformRounds"}, names)
}

func TestLegacyHeader_Describe(t *testing.T) {
	hdr, err := DecodeLegacy(legacyBody())
	require.NoError(t, err)
	attrs := hdr.Describe()
	require.Len(t, attrs, 10)
	assert.Equal(t, Attribute{Key: "Flags", Value: LegacyFlags(3)}, attrs[0])
	assert.Equal(t, Attribute{Key: "Cipher", Value: "AES"}, attrs[1])
	assert.Equal(t, "3.4", attrs[2].Value.(FormatVersion).String())
	assert.Equal(t, seq(0x10, 16), attrs[3].Value)
	assert.Equal(t, Attribute{Key: "TransformRounds", Value: uint32(50000)}, attrs[9])

	// described bytes are copies
	attrs[3].Value.([]byte)[0] = 0xFF
	assert.Equal(t, byte(0x10), hdr.MasterSeed()[0])
}

func TestLegacyFlags(t *testing.T) {
	testCases := []struct {
		flags  LegacyFlags
		expect string
		cipher string
	}{
		{0, "none", "unknown"},
		{LegacyFlagSHA2 | LegacyFlagRijndael, "SHA2|Rijndael", "AES"},
		{LegacyFlagSHA2 | LegacyFlagTwofish, "SHA2|Twofish", "Twofish"},
		{LegacyFlagArcFour, "ArcFour", "ArcFour"},
		{LegacyFlagRijndael | 0x30, "Rijndael|0x30", "AES"},
	}
	for _, tc := range testCases {
		t.Run(tc.expect, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.flags.String())
			assert.Equal(t, tc.cipher, tc.flags.Cipher())
		})
	}
}

func TestFormatVersion(t *testing.T) {
	v := FormatVersion(0x00030001)
	assert.Equal(t, uint16(3), v.Major())
	assert.Equal(t, uint16(1), v.Minor())
	assert.Equal(t, "3.1", v.String())
}
