package kdbxinfo

import (
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
)

// Header is the decoded metadata record - either a *LegacyHeader or a *TLVHeader
type Header interface {
	// Kind is the container kind the header was decoded from
	Kind() ContainerKind
	// Describe returns the header fields as an ordered key/value sequence
	Describe() []Attribute
	// Warnings returns the soft conditions found while decoding (e.g. *UnsupportedCipherError)
	Warnings() []error
	// Size is the number of bytes the header occupied after the signature
	Size() int
	sealed()
}

// Attribute is a single described header field
//
// Value is one of: uint32, uint64, []byte, string, uuid.UUID or a named type with a String method
type Attribute struct {
	Key   string
	Value any
}

// Value is the raw value of a TLV record together with the spec it was validated against
//
// Raw borrows the parsed buffer and must not be modified
type Value struct {
	Spec FieldSpec
	Raw  []byte
}

// Uint32 interprets the value as a little-endian uint32 (zero if it is not 4 bytes long)
func (v Value) Uint32() uint32 {
	if len(v.Raw) != 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(v.Raw)
}

// Uint64 interprets the value as a little-endian uint64 (zero if it is not 8 bytes long)
func (v Value) Uint64() uint64 {
	if len(v.Raw) != 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(v.Raw)
}

// UUID interprets the value as a uuid (uuid.Nil if it is not 16 bytes long)
func (v Value) UUID() uuid.UUID {
	id, err := uuid.FromBytes(v.Raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Text interprets the value as a string, dropping trailing NULs
func (v Value) Text() string {
	return strings.TrimRight(string(v.Raw), "\x00")
}

// Interface returns the value typed according to its spec kind
func (v Value) Interface() any {
	switch v.Spec.Kind {
	case ValueText:
		return v.Text()
	case ValueUint32:
		return v.Uint32()
	case ValueUint64:
		return v.Uint64()
	case ValueUUID:
		return v.UUID()
	}
	return v.Raw
}
