package kdbxinfo

import (
	"encoding/binary"
	"fmt"
)

// signature magics, as little-endian uint32 values
const (
	ContainerMagic        uint32 = 0x9AA2D903
	FormatMagicLegacy     uint32 = 0xB54BFB65
	FormatMagicTLVAlpha   uint32 = 0xB54BFB66
	FormatMagicTLVRelease uint32 = 0xB54BFB67
)

// SignatureSize is the number of leading bytes holding the container and format magics
const SignatureSize = 8

// ContainerKind selects the header decoder
type ContainerKind uint8

const (
	ContainerUnknown ContainerKind = iota
	ContainerLegacy
	ContainerTLV
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerLegacy:
		return "legacy"
	case ContainerTLV:
		return "tlv"
	}
	return "unknown"
}

// Variant distinguishes the three accepted format magics
type Variant uint8

const (
	VariantUnknown Variant = iota
	VariantLegacy
	VariantTLVAlpha
	VariantTLVRelease
)

func (v Variant) String() string {
	switch v {
	case VariantLegacy:
		return "KeePass 1.x"
	case VariantTLVAlpha:
		return "KeePass 2.x pre-release"
	case VariantTLVRelease:
		return "KeePass 2.x"
	}
	return "unknown"
}

// Signature is the decoded 8 byte file prefix
type Signature struct {
	Container uint32
	Format    uint32
}

// Variant returns the format variant the format magic identifies
func (s Signature) Variant() Variant {
	switch s.Format {
	case FormatMagicLegacy:
		return VariantLegacy
	case FormatMagicTLVAlpha:
		return VariantTLVAlpha
	case FormatMagicTLVRelease:
		return VariantTLVRelease
	}
	return VariantUnknown
}

// Kind returns the container kind (alpha and release variants both map to ContainerTLV)
func (s Signature) Kind() ContainerKind {
	switch s.Variant() {
	case VariantLegacy:
		return ContainerLegacy
	case VariantTLVAlpha, VariantTLVRelease:
		return ContainerTLV
	}
	return ContainerUnknown
}

func (s Signature) String() string {
	return fmt.Sprintf("%08X:%08X", s.Container, s.Format)
}

// ReadSignature reads and validates the signature at the start of buf
func ReadSignature(buf []byte) (Signature, error) {
	if len(buf) < SignatureSize {
		return Signature{}, &FormatError{Kind: KindTooShort, Needed: SignatureSize, Got: len(buf)}
	}
	sig := Signature{
		Container: binary.LittleEndian.Uint32(buf[0:4]),
		Format:    binary.LittleEndian.Uint32(buf[4:8]),
	}
	if sig.Container != ContainerMagic {
		return Signature{}, &FormatError{Kind: KindUnrecognizedContainer, Offset: 0, Value: sig.Container}
	}
	if sig.Kind() == ContainerUnknown {
		return Signature{}, &FormatError{Kind: KindUnrecognizedFormatVariant, Offset: 4, Value: sig.Format}
	}
	return sig, nil
}

// Classify inspects the signature of buf and returns which header decoder applies
func Classify(buf []byte) (ContainerKind, error) {
	sig, err := ReadSignature(buf)
	if err != nil {
		return ContainerUnknown, err
	}
	return sig.Kind(), nil
}
