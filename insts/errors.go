package insts

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrUnknownOpcode        = errors.New("unknown opcode")
	ErrTruncatedInstruction = errors.New("truncated instruction")
	ErrInvalidOperandRole   = errors.New("invalid operand role")
)

// UnknownOpcodeError is returned when no format matches the byte at
// Offset.
type UnknownOpcodeError struct {
	Offset int
	Opcode byte
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02x at offset %d", e.Opcode, e.Offset)
}

// Is reports whether target is ErrUnknownOpcode.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// TruncatedInstructionError is returned when the buffer ends before the
// instruction starting at Offset is complete. Available counts the bytes
// from Offset to the end of the buffer; Required is the instruction length
// known at the point decoding ran out of bytes.
type TruncatedInstructionError struct {
	Offset    int
	Available int
	Required  int
}

func (e *TruncatedInstructionError) Error() string {
	return fmt.Sprintf("truncated instruction at offset %d: %d bytes available, %d required",
		e.Offset, e.Available, e.Required)
}

// Is reports whether target is ErrTruncatedInstruction.
func (e *TruncatedInstructionError) Is(target error) bool {
	return target == ErrTruncatedInstruction
}

// InvalidFormatError reports a Format that cannot be decoded, such as a
// REG role without a register field.
type InvalidFormatError struct {
	Format string
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("format %q: %s", e.Format, e.Reason)
}

// Unwrap returns ErrInvalidOperandRole.
func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidOperandRole
}
