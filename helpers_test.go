package kdbxinfo

import (
	"encoding/binary"
)

var (
	containerMagicBytes = []byte{0x03, 0xD9, 0xA2, 0x9A}
	legacyMagicBytes    = []byte{0x65, 0xFB, 0x4B, 0xB5}
	alphaMagicBytes     = []byte{0x66, 0xFB, 0x4B, 0xB5}
	releaseMagicBytes   = []byte{0x67, 0xFB, 0x4B, 0xB5}
	aesCipherBytes      = []byte{0x31, 0xC1, 0xF2, 0xE6, 0xBF, 0x71, 0x43, 0x50, 0xBE, 0x58, 0x05, 0x21, 0x6A, 0xFC, 0x5A, 0xFF}
	twofishCipherBytes  = []byte{0xAD, 0x68, 0xF2, 0x9F, 0x57, 0x6F, 0x4B, 0xB9, 0xA3, 0x6A, 0xD4, 0x7A, 0xF9, 0x65, 0x34, 0x6C}
	terminator          = record(FieldEndOfHeader, []byte{'\r', '\n'})
)

func concat(parts ...[]byte) []byte {
	result := make([]byte, 0)
	for _, p := range parts {
		result = append(result, p...)
	}
	return result
}

// record builds a TLV record with the value length taken from value
func record(id FieldID, value []byte) []byte {
	return recordWithLength(id, len(value), value)
}

func recordWithLength(id FieldID, length int, value []byte) []byte {
	result := []byte{byte(id), 0, 0}
	binary.LittleEndian.PutUint16(result[1:], uint16(length))
	return append(result, value...)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func le64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func seq(start byte, n int) []byte {
	result := make([]byte, n)
	for i := range result {
		result[i] = start + byte(i)
	}
	return result
}

// legacyBody is a KeePass 1.x header (after the signature) with recognisable field values
func legacyBody() []byte {
	return concat(
		le32(3),          // flags: SHA2|Rijndael
		le32(0x00030004), // version 3.4
		seq(0x10, 16),    // master seed
		seq(0x20, 16),    // encryption iv
		le32(5),          // groups
		le32(42),         // entries
		seq(0x40, 32),    // content hash
		seq(0x60, 32),    // transform seed
		le32(50000),      // rounds
	)
}
