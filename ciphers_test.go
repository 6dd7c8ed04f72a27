package kdbxinfo

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCipherName(t *testing.T) {
	assert.Equal(t, "AES-256", CipherName(CipherAES))
	assert.Equal(t, "Twofish", CipherName(CipherTwofish))
	assert.Equal(t, "ChaCha20", CipherName(CipherChaCha20))
	assert.Equal(t, "unknown", CipherName(uuid.Nil))
	assert.Equal(t, uuid.UUID(aesCipherBytes), SupportedCipher)
}

func TestCompression_String(t *testing.T) {
	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "gzip", CompressionGZip.String())
	assert.Equal(t, "unknown(2)", Compression(2).String())
}

func TestInnerStream_String(t *testing.T) {
	assert.Equal(t, "none", InnerStreamNone.String())
	assert.Equal(t, "arc4variant", InnerStreamARC4Variant.String())
	assert.Equal(t, "salsa20", InnerStreamSalsa20.String())
	assert.Equal(t, "chacha20", InnerStreamChaCha20.String())
	assert.Equal(t, "unknown(9)", InnerStream(9).String())
}
