package kdbxinfo

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// TLVHeader is a KeePass 2.x header - only fields present in the record stream are set
type TLVHeader struct {
	registry *Registry
	fields   map[FieldID]Value
	skipped  []FieldID
	warnings []error
	size     int
}

// DecodeTLV decodes a KeePass 2.x header record stream
//
// Records are read until the registry's terminator record; a nil registry means TLVFields.
// Unknown record ids are skipped, a repeated known id replaces the earlier value.
// Record lengths and integer values are little-endian.
func DecodeTLV(body []byte, registry *Registry) (*TLVHeader, error) {
	if registry == nil {
		registry = TLVFields
	}
	c := &cursor{buf: body}
	h := &TLVHeader{
		registry: registry,
		fields:   make(map[FieldID]Value),
	}
	for c.remaining() > 0 {
		hdr, err := readRecordHeader(c)
		if err != nil {
			return nil, err
		}
		value, err := readRecordValue(c, hdr)
		if err != nil {
			return nil, err
		}
		spec, ok := registry.Lookup(hdr.Field)
		if !ok {
			h.skipped = append(h.skipped, hdr.Field)
			continue
		}
		if !spec.Length.Matches(hdr.Length) {
			return nil, &FormatError{
				Kind:   KindFieldLengthMismatch,
				Offset: hdr.Offset,
				Field:  hdr.Field,
				Needed: int(spec.Length),
				Got:    hdr.Length,
			}
		}
		if spec.Terminator {
			h.size = c.offset
			h.checkCipher()
			return h, nil
		}
		h.fields[hdr.Field] = Value{Spec: spec, Raw: value}
	}
	return nil, &FormatError{Kind: KindMissingTerminator, Offset: c.offset, Got: len(body)}
}

func (h *TLVHeader) checkCipher() {
	if id, ok := h.CipherID(); ok && id != SupportedCipher {
		h.warnings = append(h.warnings, &UnsupportedCipherError{CipherID: id})
	}
}

// Field returns the raw value of a record, if it was present
//
// the returned Value.Raw borrows the parsed buffer and must not be modified
func (h *TLVHeader) Field(id FieldID) (Value, bool) {
	v, ok := h.fields[id]
	return v, ok
}

// Has reports whether a record with id was present
func (h *TLVHeader) Has(id FieldID) bool {
	_, ok := h.fields[id]
	return ok
}

func (h *TLVHeader) bytes(id FieldID) ([]byte, bool) {
	if v, ok := h.fields[id]; ok {
		return bytes.Clone(v.Raw), true
	}
	return nil, false
}

func (h *TLVHeader) Comment() (string, bool) {
	if v, ok := h.fields[FieldComment]; ok {
		return v.Text(), true
	}
	return "", false
}

func (h *TLVHeader) CipherID() (uuid.UUID, bool) {
	if v, ok := h.fields[FieldCipherID]; ok {
		return v.UUID(), true
	}
	return uuid.Nil, false
}

func (h *TLVHeader) Compression() (Compression, bool) {
	if v, ok := h.fields[FieldCompressionFlags]; ok {
		return Compression(v.Uint32()), true
	}
	return 0, false
}

func (h *TLVHeader) MasterSeed() ([]byte, bool) {
	return h.bytes(FieldMasterSeed)
}

func (h *TLVHeader) TransformSeed() ([]byte, bool) {
	return h.bytes(FieldTransformSeed)
}

func (h *TLVHeader) TransformRounds() (uint64, bool) {
	if v, ok := h.fields[FieldTransformRounds]; ok {
		return v.Uint64(), true
	}
	return 0, false
}

func (h *TLVHeader) EncryptionIV() ([]byte, bool) {
	return h.bytes(FieldEncryptionIV)
}

func (h *TLVHeader) ProtectedStreamKey() ([]byte, bool) {
	return h.bytes(FieldProtectedStreamKey)
}

func (h *TLVHeader) StreamStartBytes() ([]byte, bool) {
	return h.bytes(FieldStreamStartBytes)
}

func (h *TLVHeader) InnerRandomStream() (InnerStream, bool) {
	if v, ok := h.fields[FieldInnerRandomStreamID]; ok {
		return InnerStream(v.Uint32()), true
	}
	return 0, false
}

// Skipped returns the ids of unknown records that were skipped, in stream order
func (h *TLVHeader) Skipped() []FieldID {
	return slices.Clone(h.skipped)
}

func (h *TLVHeader) Kind() ContainerKind {
	return ContainerTLV
}

// Size is the length of the record stream up to and including the terminator record
func (h *TLVHeader) Size() int {
	return h.size
}

func (h *TLVHeader) Warnings() []error {
	return slices.Clone(h.warnings)
}

// Describe lists the present fields in registry order
func (h *TLVHeader) Describe() []Attribute {
	result := make([]Attribute, 0, len(h.fields)+1)
	for _, spec := range h.registry.Fields() {
		v, ok := h.fields[spec.ID]
		if !ok {
			continue
		}
		switch spec.ID {
		case FieldCipherID:
			result = append(result,
				Attribute{Key: spec.Name, Value: v.UUID()},
				Attribute{Key: "Cipher", Value: CipherName(v.UUID())})
		case FieldCompressionFlags:
			result = append(result, Attribute{Key: spec.Name, Value: Compression(v.Uint32())})
		case FieldInnerRandomStreamID:
			result = append(result, Attribute{Key: spec.Name, Value: InnerStream(v.Uint32())})
		default:
			value := v.Interface()
			if raw, isBytes := value.([]byte); isBytes {
				value = bytes.Clone(raw)
			}
			result = append(result, Attribute{Key: spec.Name, Value: value})
		}
	}
	return result
}

func (h *TLVHeader) sealed() {}
