package kdbxinfo

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind classifies a FormatError
type ErrorKind uint8

const (
	KindTooShort ErrorKind = iota + 1
	KindTruncatedHeader
	KindTruncatedRecordHeader
	KindTruncatedRecordValue
	KindUnrecognizedContainer
	KindUnrecognizedFormatVariant
	KindFieldLengthMismatch
	KindMissingTerminator
	KindUnsupportedFormatVersion
)

var kindNames = map[ErrorKind]string{
	KindTooShort:                  "too short",
	KindTruncatedHeader:           "truncated header",
	KindTruncatedRecordHeader:     "truncated record header",
	KindTruncatedRecordValue:      "truncated record value",
	KindUnrecognizedContainer:     "unrecognized container",
	KindUnrecognizedFormatVariant: "unrecognized format variant",
	KindFieldLengthMismatch:       "field length mismatch",
	KindMissingTerminator:         "missing terminator",
	KindUnsupportedFormatVersion:  "unsupported format version",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// FormatError is returned for any malformed input
//
// Offset is relative to the slice handed to the failing decoder (the whole file for the signature,
// the bytes after the signature for the header decoders). Needed and Got are byte counts, except for
// KindFieldLengthMismatch where they are the registered and the declared value lengths.
type FormatError struct {
	Kind   ErrorKind
	Offset int
	Field  FieldID // only for record level kinds
	Needed int
	Got    int
	Value  uint32 // offending magic or format version
}

// sentinels - match any FormatError of the same kind with errors.Is
var (
	ErrTooShort                  = &FormatError{Kind: KindTooShort}
	ErrTruncatedHeader           = &FormatError{Kind: KindTruncatedHeader}
	ErrTruncatedRecordHeader     = &FormatError{Kind: KindTruncatedRecordHeader}
	ErrTruncatedRecordValue      = &FormatError{Kind: KindTruncatedRecordValue}
	ErrUnrecognizedContainer     = &FormatError{Kind: KindUnrecognizedContainer}
	ErrUnrecognizedFormatVariant = &FormatError{Kind: KindUnrecognizedFormatVariant}
	ErrFieldLengthMismatch       = &FormatError{Kind: KindFieldLengthMismatch}
	ErrMissingTerminator         = &FormatError{Kind: KindMissingTerminator}
	ErrUnsupportedFormatVersion  = &FormatError{Kind: KindUnsupportedFormatVersion}
)

func (e *FormatError) Error() string {
	switch e.Kind {
	case KindTooShort:
		return fmt.Sprintf("too short: need %d bytes for signature, got %d", e.Needed, e.Got)
	case KindTruncatedHeader:
		return fmt.Sprintf("truncated header: need %d bytes, got %d", e.Needed, e.Got)
	case KindTruncatedRecordHeader:
		return fmt.Sprintf("truncated record header at offset %d: need %d bytes, got %d", e.Offset, e.Needed, e.Got)
	case KindTruncatedRecordValue:
		return fmt.Sprintf("truncated value of record %s at offset %d: declared %d bytes, got %d", e.Field, e.Offset, e.Needed, e.Got)
	case KindUnrecognizedContainer:
		return fmt.Sprintf("unrecognized container magic 0x%08X", e.Value)
	case KindUnrecognizedFormatVariant:
		return fmt.Sprintf("unrecognized format variant magic 0x%08X", e.Value)
	case KindFieldLengthMismatch:
		return fmt.Sprintf("field %s at offset %d: expected %d bytes, declared %d", e.Field, e.Offset, e.Needed, e.Got)
	case KindMissingTerminator:
		return fmt.Sprintf("missing terminator: header stream ended after %d bytes", e.Got)
	case KindUnsupportedFormatVersion:
		return fmt.Sprintf("unsupported format version %s", FormatVersion(e.Value))
	}
	return e.Kind.String()
}

// Is reports whether target is a FormatError of the same kind
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	return ok && t.Kind == e.Kind
}

// UnsupportedCipherError is a soft condition attached to a TLVHeader whose cipher id is
// recognisable but not the one supported cipher (AES)
type UnsupportedCipherError struct {
	CipherID uuid.UUID
}

func (e *UnsupportedCipherError) Error() string {
	return fmt.Sprintf("unsupported cipher %s (%s)", CipherName(e.CipherID), e.CipherID)
}
