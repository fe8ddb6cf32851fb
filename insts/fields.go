package insts

// Field extracts a bit field from the instruction head, the 16-bit value
// first<<8 | second formed by the opcode byte and the byte after it.
//
// The zero Field is absent and always extracts 0. A Field with Width 0
// and a non-zero Value is a constant and always extracts Value.
type Field struct {
	Shift uint8
	Width uint8
	Value uint8
}

// FirstByte returns a field located in the opcode byte.
func FirstByte(shift, width uint8) Field {
	return Field{Shift: shift + 8, Width: width}
}

// SecondByte returns a field located in the byte after the opcode,
// normally the ModRM byte.
func SecondByte(shift, width uint8) Field {
	return Field{Shift: shift, Width: width}
}

// Fixed returns a field that always extracts v.
func Fixed(v uint8) Field {
	return Field{Value: v}
}

// ModRM fields.
var (
	ModField = SecondByte(6, 2) // bits [7:6]
	RegField = SecondByte(3, 3) // bits [5:3]
	RMField  = SecondByte(0, 3) // bits [2:0]
)

// Present reports whether the field is defined.
func (f Field) Present() bool {
	return f.Width > 0 || f.Value != 0
}

// InSecondByte reports whether extracting f needs the byte after the
// opcode.
func (f Field) InSecondByte() bool {
	return f.Width > 0 && f.Shift < 8
}

// Extract returns the field value, always in [0, 2^Width).
func (f Field) Extract(head uint16) uint8 {
	if f.Width == 0 {
		return f.Value
	}
	return uint8((head >> f.Shift) & (1<<f.Width - 1))
}

// Head builds the instruction head from the opcode byte and the byte
// after it.
func Head(first, second byte) uint16 {
	return uint16(first)<<8 | uint16(second)
}
