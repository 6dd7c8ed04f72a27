package kdbxinfo

import (
	"fmt"

	"github.com/google/uuid"
)

// known payload cipher ids
var (
	CipherAES      = uuid.MustParse("31c1f2e6-bf71-4350-be58-05216afc5aff")
	CipherTwofish  = uuid.MustParse("ad68f29f-576f-4bb9-a36a-d47af965346c")
	CipherChaCha20 = uuid.MustParse("d6038a2b-8b6f-4cb5-a524-339a31dbb59a")
)

// SupportedCipher is the only cipher a KeePass 2.x reader is required to implement
var SupportedCipher = CipherAES

var cipherNames = map[uuid.UUID]string{
	CipherAES:      "AES-256",
	CipherTwofish:  "Twofish",
	CipherChaCha20: "ChaCha20",
}

// CipherName returns a readable name for a cipher id
func CipherName(id uuid.UUID) string {
	if name, ok := cipherNames[id]; ok {
		return name
	}
	return "unknown"
}

// Compression is the value of the CompressionFlags header field
type Compression uint32

const (
	CompressionNone Compression = iota
	CompressionGZip
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGZip:
		return "gzip"
	}
	return fmt.Sprintf("unknown(%d)", uint32(c))
}

// InnerStream is the value of the InnerRandomStreamID header field
type InnerStream uint32

const (
	InnerStreamNone InnerStream = iota
	InnerStreamARC4Variant
	InnerStreamSalsa20
	InnerStreamChaCha20
)

func (s InnerStream) String() string {
	switch s {
	case InnerStreamNone:
		return "none"
	case InnerStreamARC4Variant:
		return "arc4variant"
	case InnerStreamSalsa20:
		return "salsa20"
	case InnerStreamChaCha20:
		return "chacha20"
	}
	return fmt.Sprintf("unknown(%d)", uint32(s))
}
