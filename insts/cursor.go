package insts

import (
	"encoding/binary"

	"golang.org/x/crypto/cryptobyte"
)

// cursor reads one instruction from a buffer. It only moves forward.
type cursor struct {
	s     cryptobyte.String
	start int // offset of the instruction's first byte
	total int // length of the whole buffer
}

func newCursor(buf []byte, offset int) *cursor {
	return &cursor{
		s:     cryptobyte.String(buf[offset:]),
		start: offset,
		total: len(buf),
	}
}

// offset returns the position of the next unread byte.
func (c *cursor) offset() int {
	return c.total - len(c.s)
}

// consumed returns the number of bytes read so far.
func (c *cursor) consumed() int {
	return c.offset() - c.start
}

// truncated builds the error for an attempt to read n more bytes.
func (c *cursor) truncated(n int) error {
	return &TruncatedInstructionError{
		Offset:    c.start,
		Available: c.total - c.start,
		Required:  c.consumed() + n,
	}
}

// peek returns the next byte without consuming it.
func (c *cursor) peek() (byte, bool) {
	if c.s.Empty() {
		return 0, false
	}
	return c.s[0], true
}

func (c *cursor) readU8() (uint8, error) {
	var v uint8
	if !c.s.ReadUint8(&v) {
		return 0, c.truncated(1)
	}
	return v, nil
}

// readU16 reads a little-endian word.
func (c *cursor) readU16() (uint16, error) {
	var b []byte
	if !c.s.ReadBytes(&b, 2) {
		return 0, c.truncated(2)
	}
	return binary.LittleEndian.Uint16(b), nil
}
