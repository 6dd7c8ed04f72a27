package kdbxinfo

import (
	"encoding/binary"
)

// RecordHeaderSize is the size of a TLV record header: 1 byte type id + 2 byte value length
const RecordHeaderSize = 3

// RecordHeader is the type/length prefix of one TLV record
type RecordHeader struct {
	Field  FieldID
	Length int // declared value length
	Offset int // offset of the record header from the start of the stream
}

// cursor is a bounds checked read position over a buffer
type cursor struct {
	buf    []byte
	offset int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.offset
}

// take returns the next n bytes, or false (without moving) if fewer remain
func (c *cursor) take(n int) ([]byte, bool) {
	if n < 0 || n > c.remaining() {
		return nil, false
	}
	b := c.buf[c.offset : c.offset+n : c.offset+n]
	c.offset += n
	return b, true
}

// readRecordHeader reads the type id and value length at the cursor
func readRecordHeader(c *cursor) (RecordHeader, error) {
	start := c.offset
	b, ok := c.take(RecordHeaderSize)
	if !ok {
		return RecordHeader{}, &FormatError{
			Kind:   KindTruncatedRecordHeader,
			Offset: start,
			Needed: RecordHeaderSize,
			Got:    c.remaining(),
		}
	}
	return RecordHeader{
		Field:  FieldID(b[0]),
		Length: int(binary.LittleEndian.Uint16(b[1:3])),
		Offset: start,
	}, nil
}

// readRecordValue reads the value declared by hdr
func readRecordValue(c *cursor, hdr RecordHeader) ([]byte, error) {
	value, ok := c.take(hdr.Length)
	if !ok {
		return nil, &FormatError{
			Kind:   KindTruncatedRecordValue,
			Offset: hdr.Offset,
			Field:  hdr.Field,
			Needed: hdr.Length,
			Got:    c.remaining(),
		}
	}
	return value, nil
}
