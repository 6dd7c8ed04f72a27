package kdbxinfo

import (
	"encoding/binary"
	"fmt"
	"io"
)

type ParseMode uint8

const (
	ParseFull ParseMode = iota
	ParseSignatureOnly
)

// ParseOptions represents the parsing options passed to Parse
type ParseOptions struct {
	// Mode determines how much of the file is parsed
	//
	// the default is ParseFull - signature, format version and header
	//
	// ParseSignatureOnly only validates the signature (Database.Header is nil)
	Mode ParseMode
	// Registry overrides the record registry used for KeePass 2.x headers
	//
	// defaults to TLVFields
	Registry *Registry
	// NoFormatVersion indicates the KeePass 2.x header records start directly after the signature
	//
	// by default a 4 byte format version (minor, major) is expected between the signature and the records
	NoFormatVersion bool
}

// Database represents the parsed header of a KeePass database file
type Database struct {
	// Signature is the validated container and format magics
	Signature Signature
	// Version is the file format version
	Version FormatVersion
	// Header is the decoded header record - a *LegacyHeader or a *TLVHeader
	Header         Header
	versionPresent bool
}

// Kind is the container kind identified by the signature
func (db *Database) Kind() ContainerKind {
	return db.Signature.Kind()
}

// Legacy returns the header as a KeePass 1.x header
func (db *Database) Legacy() (*LegacyHeader, bool) {
	h, ok := db.Header.(*LegacyHeader)
	return h, ok
}

// TLV returns the header as a KeePass 2.x header
func (db *Database) TLV() (*TLVHeader, bool) {
	h, ok := db.Header.(*TLVHeader)
	return h, ok
}

// HeaderSize is the offset of the first byte following the header (the start of the encrypted payload)
func (db *Database) HeaderSize() int {
	size := SignatureSize
	if db.versionPresent {
		size += 4
	}
	if db.Header != nil {
		size += db.Header.Size()
	}
	return size
}

// Warnings returns the soft conditions of the header
func (db *Database) Warnings() []error {
	if db.Header == nil {
		return nil
	}
	return db.Header.Warnings()
}

// Describe returns the file level attributes followed by the header attributes
func (db *Database) Describe() []Attribute {
	result := []Attribute{
		{Key: "Container", Value: db.Kind()},
		{Key: "Variant", Value: db.Signature.Variant()},
		{Key: "Signature", Value: db.Signature},
	}
	if db.Header == nil {
		return result
	}
	if db.versionPresent {
		result = append(result, Attribute{Key: "FormatVersion", Value: db.Version})
	}
	result = append(result, Attribute{Key: "HeaderSize", Value: db.HeaderSize()})
	return append(result, db.Header.Describe()...)
}

// Parse parses the header of a KeePass database held entirely in buf
//
// if the ParseOptions supplied is nil, default (full) options are used
//
// buf is borrowed - variable length values in the result refer into it
func Parse(buf []byte, options *ParseOptions) (*Database, error) {
	if options == nil {
		options = &ParseOptions{Mode: ParseFull}
	}
	sig, err := ReadSignature(buf)
	if err != nil {
		return nil, err
	}
	result := &Database{Signature: sig}
	if options.Mode == ParseSignatureOnly {
		return result, nil
	}
	body := buf[SignatureSize:]
	switch sig.Kind() {
	case ContainerLegacy:
		h, err := DecodeLegacy(body)
		if err != nil {
			return nil, err
		}
		result.Header, result.Version = h, h.Version()
	case ContainerTLV:
		if !options.NoFormatVersion {
			if result.Version, err = readFormatVersion(body); err != nil {
				return nil, err
			}
			result.versionPresent = true
			body = body[4:]
		}
		h, err := DecodeTLV(body, options.Registry)
		if err != nil {
			return nil, err
		}
		result.Header = h
	default:
		return nil, fmt.Errorf("no decoder for container kind %s", sig.Kind())
	}
	return result, nil
}

// ParseReader reads r to the end and parses the result
func ParseReader(r io.Reader, options *ParseOptions) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	return Parse(data, options)
}

// MaxFormatVersion is the highest KeePass 2.x format version whose header uses 2 byte record lengths
const MaxFormatVersion FormatVersion = 3<<16 | 0xFFFF

func readFormatVersion(body []byte) (FormatVersion, error) {
	if len(body) < 4 {
		return 0, &FormatError{Kind: KindTruncatedHeader, Needed: 4, Got: len(body)}
	}
	version := FormatVersion(binary.LittleEndian.Uint32(body[0:4]))
	if version > MaxFormatVersion {
		return 0, &FormatError{Kind: KindUnsupportedFormatVersion, Value: uint32(version)}
	}
	return version, nil
}
