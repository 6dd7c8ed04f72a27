package kdbxinfo

import (
	"errors"
	"fmt"
	"slices"
)

// FieldID is the one byte type id of a header record
type FieldID uint8

// KeePass 2.x header record ids
const (
	FieldEndOfHeader FieldID = iota
	FieldComment
	FieldCipherID
	FieldCompressionFlags
	FieldMasterSeed
	FieldTransformSeed
	FieldTransformRounds
	FieldEncryptionIV
	FieldProtectedStreamKey
	FieldStreamStartBytes
	FieldInnerRandomStreamID
)

var fieldNames = map[FieldID]string{
	FieldEndOfHeader:         "EndOfHeader",
	FieldComment:             "Comment",
	FieldCipherID:            "CipherID",
	FieldCompressionFlags:    "CompressionFlags",
	FieldMasterSeed:          "MasterSeed",
	FieldTransformSeed:       "TransformSeed",
	FieldTransformRounds:     "TransformRounds",
	FieldEncryptionIV:        "EncryptionIV",
	FieldProtectedStreamKey:  "ProtectedStreamKey",
	FieldStreamStartBytes:    "StreamStartBytes",
	FieldInnerRandomStreamID: "InnerRandomStreamID",
}

func (id FieldID) String() string {
	if name, ok := fieldNames[id]; ok {
		return fmt.Sprintf("%s(0x%02X)", name, uint8(id))
	}
	return fmt.Sprintf("0x%02X", uint8(id))
}

// FieldLength is either an exact byte length or Variable
type FieldLength int

// Variable accepts any value length, including zero
const Variable FieldLength = -1

// Exact returns a FieldLength requiring exactly n bytes
func Exact(n int) FieldLength {
	return FieldLength(n)
}

func (l FieldLength) IsVariable() bool {
	return l < 0
}

// Matches reports whether a value of n bytes satisfies the length
func (l FieldLength) Matches(n int) bool {
	return l.IsVariable() || int(l) == n
}

func (l FieldLength) String() string {
	if l.IsVariable() {
		return "variable"
	}
	return fmt.Sprintf("%d", int(l))
}

// ValueKind determines how a field value is interpreted
type ValueKind uint8

const (
	ValueBytes ValueKind = iota
	ValueText
	ValueUint32
	ValueUint64
	ValueUUID
)

var fixedKindLengths = map[ValueKind]int{
	ValueUint32: 4,
	ValueUint64: 8,
	ValueUUID:   16,
}

// FieldSpec is one entry of a Registry
type FieldSpec struct {
	ID         FieldID
	Name       string
	Length     FieldLength
	Kind       ValueKind
	Terminator bool // ends a TLV header stream
}

// Registry maps field ids to their specs
//
// A Registry is immutable once built and safe for concurrent use
type Registry struct {
	specs      map[FieldID]FieldSpec
	order      []FieldID
	terminator *FieldSpec
}

// NewRegistry builds a Registry from specs, kept in the given order
//
// ids must be unique, at most one spec may be the terminator and integer/uuid kinds must have the
// exact length of their type
func NewRegistry(specs ...FieldSpec) (*Registry, error) {
	r := &Registry{
		specs: make(map[FieldID]FieldSpec, len(specs)),
		order: make([]FieldID, 0, len(specs)),
	}
	for _, spec := range specs {
		if err := r.add(spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on an invalid spec table
func MustRegistry(specs ...FieldSpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(spec FieldSpec) error {
	if _, exists := r.specs[spec.ID]; exists {
		return fmt.Errorf("duplicate field id %d (%s)", spec.ID, spec.Name)
	}
	if spec.Terminator {
		if r.terminator != nil {
			return fmt.Errorf("field %q: registry already has terminator %q", spec.Name, r.terminator.Name)
		}
		if spec.Length.IsVariable() {
			return fmt.Errorf("terminator %q must have an exact length", spec.Name)
		}
	}
	if n, ok := fixedKindLengths[spec.Kind]; ok && int(spec.Length) != n {
		return fmt.Errorf("field %q: length %s does not fit its value kind (%d bytes)", spec.Name, spec.Length, n)
	}
	r.specs[spec.ID] = spec
	r.order = append(r.order, spec.ID)
	if spec.Terminator {
		t := spec
		r.terminator = &t
	}
	return nil
}

// Lookup returns the spec registered for id
func (r *Registry) Lookup(id FieldID) (FieldSpec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}

// Terminator returns the terminator spec, if the registry has one
func (r *Registry) Terminator() (FieldSpec, bool) {
	if r.terminator == nil {
		return FieldSpec{}, false
	}
	return *r.terminator, true
}

// Fields returns the specs in registration order
func (r *Registry) Fields() []FieldSpec {
	result := make([]FieldSpec, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.specs[id])
	}
	return result
}

// FixedSize is the sum of all exact lengths (the size of a fixed layout described by the registry)
func (r *Registry) FixedSize() int {
	total := 0
	for _, spec := range r.specs {
		if !spec.Length.IsVariable() {
			total += int(spec.Length)
		}
	}
	return total
}

// With returns a copy of the registry with spec added, or replacing the spec with the same id
func (r *Registry) With(spec FieldSpec) (*Registry, error) {
	specs := r.Fields()
	if i := slices.IndexFunc(specs, func(s FieldSpec) bool { return s.ID == spec.ID }); i >= 0 {
		specs[i] = spec
	} else {
		specs = append(specs, spec)
	}
	return NewRegistry(specs...)
}

// WithTerminatorLength returns a copy of the registry whose terminator requires n value bytes
func (r *Registry) WithTerminatorLength(n int) (*Registry, error) {
	t, ok := r.Terminator()
	if !ok {
		return nil, errors.New("registry has no terminator")
	}
	if n < 0 {
		return nil, fmt.Errorf("terminator %q: invalid length %d", t.Name, n)
	}
	t.Length = Exact(n)
	return r.With(t)
}

// TLVFields is the registry of KeePass 2.x (format version < 4) header records
var TLVFields = MustRegistry(
	FieldSpec{ID: FieldEndOfHeader, Name: fieldNames[FieldEndOfHeader], Length: Exact(2), Kind: ValueBytes, Terminator: true},
	FieldSpec{ID: FieldComment, Name: fieldNames[FieldComment], Length: Variable, Kind: ValueText},
	FieldSpec{ID: FieldCipherID, Name: fieldNames[FieldCipherID], Length: Exact(16), Kind: ValueUUID},
	FieldSpec{ID: FieldCompressionFlags, Name: fieldNames[FieldCompressionFlags], Length: Exact(4), Kind: ValueUint32},
	FieldSpec{ID: FieldMasterSeed, Name: fieldNames[FieldMasterSeed], Length: Exact(32), Kind: ValueBytes},
	FieldSpec{ID: FieldTransformSeed, Name: fieldNames[FieldTransformSeed], Length: Exact(32), Kind: ValueBytes},
	FieldSpec{ID: FieldTransformRounds, Name: fieldNames[FieldTransformRounds], Length: Exact(8), Kind: ValueUint64},
	FieldSpec{ID: FieldEncryptionIV, Name: fieldNames[FieldEncryptionIV], Length: Variable, Kind: ValueBytes},
	FieldSpec{ID: FieldProtectedStreamKey, Name: fieldNames[FieldProtectedStreamKey], Length: Variable, Kind: ValueBytes},
	FieldSpec{ID: FieldStreamStartBytes, Name: fieldNames[FieldStreamStartBytes], Length: Exact(32), Kind: ValueBytes},
	FieldSpec{ID: FieldInnerRandomStreamID, Name: fieldNames[FieldInnerRandomStreamID], Length: Exact(4), Kind: ValueUint32},
)

// KeePass 1.x header fields, in on-disk order
const (
	legacyFlags FieldID = iota
	legacyVersion
	legacyMasterSeed
	legacyEncryptionIV
	legacyGroupCount
	legacyEntryCount
	legacyContentHash
	legacyTransformSeed
	legacyTransformRounds
)

// LegacyFields describes the fixed KeePass 1.x header layout, in on-disk order
var LegacyFields = MustRegistry(
	FieldSpec{ID: legacyFlags, Name: "Flags", Length: Exact(4), Kind: ValueUint32},
	FieldSpec{ID: legacyVersion, Name: "Version", Length: Exact(4), Kind: ValueUint32},
	FieldSpec{ID: legacyMasterSeed, Name: "MasterSeed", Length: Exact(16), Kind: ValueBytes},
	FieldSpec{ID: legacyEncryptionIV, Name: "EncryptionIV", Length: Exact(16), Kind: ValueBytes},
	FieldSpec{ID: legacyGroupCount, Name: "GroupCount", Length: Exact(4), Kind: ValueUint32},
	FieldSpec{ID: legacyEntryCount, Name: "EntryCount", Length: Exact(4), Kind: ValueUint32},
	FieldSpec{ID: legacyContentHash, Name: "ContentHash", Length: Exact(32), Kind: ValueBytes},
	FieldSpec{ID: legacyTransformSeed, Name: "TransformSeed", Length: Exact(32), Kind: ValueBytes},
	FieldSpec{ID: legacyTransformRounds, Name: "TransformRounds", Length: Exact(4), Kind: ValueUint32},
)
