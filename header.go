package kdbxinfo

import (
	"bytes"
	"fmt"
	"strings"
)

// LegacyHeaderSize is the size of the KeePass 1.x header after the signature
const LegacyHeaderSize = 4 + 4 + 16 + 16 + 4 + 4 + 32 + 32 + 4

// LegacyFlags is the KeePass 1.x flags word
type LegacyFlags uint32

const (
	LegacyFlagSHA2     LegacyFlags = 1
	LegacyFlagRijndael LegacyFlags = 2
	LegacyFlagArcFour  LegacyFlags = 4
	LegacyFlagTwofish  LegacyFlags = 8
)

var legacyFlagNames = []struct {
	flag LegacyFlags
	name string
}{
	{LegacyFlagSHA2, "SHA2"},
	{LegacyFlagRijndael, "Rijndael"},
	{LegacyFlagArcFour, "ArcFour"},
	{LegacyFlagTwofish, "Twofish"},
}

func (f LegacyFlags) Has(flag LegacyFlags) bool {
	return f&flag == flag
}

func (f LegacyFlags) String() string {
	names := make([]string, 0, len(legacyFlagNames)+1)
	rest := f
	for _, fn := range legacyFlagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%X", uint32(rest)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Cipher returns the payload cipher the flags select
func (f LegacyFlags) Cipher() string {
	switch {
	case f.Has(LegacyFlagTwofish):
		return "Twofish"
	case f.Has(LegacyFlagRijndael):
		return "AES"
	case f.Has(LegacyFlagArcFour):
		return "ArcFour"
	}
	return "unknown"
}

// FormatVersion is a file format version stored as major<<16 | minor
type FormatVersion uint32

func (v FormatVersion) Major() uint16 {
	return uint16(v >> 16)
}

func (v FormatVersion) Minor() uint16 {
	return uint16(v)
}

func (v FormatVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// LegacyHeader is the fixed layout KeePass 1.x header
type LegacyHeader struct {
	flags           LegacyFlags
	version         FormatVersion
	masterSeed      [16]byte
	encryptionIV    [16]byte
	groupCount      uint32
	entryCount      uint32
	contentHash     [32]byte
	transformSeed   [32]byte
	transformRounds uint32
}

// DecodeLegacy decodes a KeePass 1.x header from the bytes following the signature
//
// All integers are little-endian
func DecodeLegacy(body []byte) (*LegacyHeader, error) {
	if len(body) < LegacyHeaderSize {
		return nil, &FormatError{Kind: KindTruncatedHeader, Needed: LegacyHeaderSize, Got: len(body)}
	}
	c := &cursor{buf: body[:LegacyHeaderSize]}
	raw := make(map[FieldID][]byte, len(LegacyFields.order))
	for _, spec := range LegacyFields.Fields() {
		b, ok := c.take(int(spec.Length))
		if !ok {
			return nil, &FormatError{Kind: KindTruncatedHeader, Offset: c.offset, Needed: LegacyHeaderSize, Got: len(body)}
		}
		raw[spec.ID] = b
	}
	u32 := func(id FieldID) uint32 {
		return Value{Raw: raw[id]}.Uint32()
	}
	h := &LegacyHeader{
		flags:           LegacyFlags(u32(legacyFlags)),
		version:         FormatVersion(u32(legacyVersion)),
		masterSeed:      [16]byte(raw[legacyMasterSeed]),
		encryptionIV:    [16]byte(raw[legacyEncryptionIV]),
		groupCount:      u32(legacyGroupCount),
		entryCount:      u32(legacyEntryCount),
		contentHash:     [32]byte(raw[legacyContentHash]),
		transformSeed:   [32]byte(raw[legacyTransformSeed]),
		transformRounds: u32(legacyTransformRounds),
	}
	return h, nil
}

func (h *LegacyHeader) Flags() LegacyFlags {
	return h.flags
}

func (h *LegacyHeader) Version() FormatVersion {
	return h.version
}

func (h *LegacyHeader) MasterSeed() [16]byte {
	return h.masterSeed
}

func (h *LegacyHeader) EncryptionIV() [16]byte {
	return h.encryptionIV
}

func (h *LegacyHeader) GroupCount() uint32 {
	return h.groupCount
}

func (h *LegacyHeader) EntryCount() uint32 {
	return h.entryCount
}

// ContentHash is the SHA-256 of the decrypted payload
func (h *LegacyHeader) ContentHash() [32]byte {
	return h.contentHash
}

func (h *LegacyHeader) TransformSeed() [32]byte {
	return h.transformSeed
}

func (h *LegacyHeader) TransformRounds() uint32 {
	return h.transformRounds
}

func (h *LegacyHeader) Kind() ContainerKind {
	return ContainerLegacy
}

func (h *LegacyHeader) Size() int {
	return LegacyHeaderSize
}

// Warnings is always empty - every legacy field is fixed size and fully validated
func (h *LegacyHeader) Warnings() []error {
	return nil
}

func (h *LegacyHeader) Describe() []Attribute {
	return []Attribute{
		{Key: "Flags", Value: h.flags},
		{Key: "Cipher", Value: h.flags.Cipher()},
		{Key: "Version", Value: h.version},
		{Key: "MasterSeed", Value: bytes.Clone(h.masterSeed[:])},
		{Key: "EncryptionIV", Value: bytes.Clone(h.encryptionIV[:])},
		{Key: "GroupCount", Value: h.groupCount},
		{Key: "EntryCount", Value: h.entryCount},
		{Key: "ContentHash", Value: bytes.Clone(h.contentHash[:])},
		{Key: "TransformSeed", Value: bytes.Clone(h.transformSeed[:])},
		{Key: "TransformRounds", Value: h.transformRounds},
	}
}

func (h *LegacyHeader) sealed() {}
