package insts

// Op represents an 8086 mnemonic.
type Op uint8

// 8086 mnemonics.
const (
	OpUnknown Op = iota
	OpMOV
	OpADD
)

var opNames = [...]string{
	OpUnknown: "???",
	OpMOV:     "mov",
	OpADD:     "add",
}

// String returns the lower-case mnemonic.
func (o Op) String() string {
	if int(o) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[o]
}

// OperandKind selects which field of an Operand is meaningful.
type OperandKind uint8

// Operand kinds.
const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandImmediate
	OperandMemory
)

// Address is a memory address expression.
//
// A direct address has Direct set and holds the absolute address in Disp.
// Otherwise Base (and optionally Index) name the base registers and Disp
// is a signed displacement of DispBits bits; DispBits is 0, 8 or 16.
type Address struct {
	Base     Register
	Index    Register
	Disp     int32
	DispBits uint8
	Direct   bool
}

// Operand is a decoded instruction operand.
type Operand struct {
	Kind OperandKind
	Reg  Register // OperandRegister
	Imm  int32    // OperandImmediate
	Mem  Address  // OperandMemory
}

// RegisterOperand returns a register operand.
func RegisterOperand(r Register) Operand {
	return Operand{Kind: OperandRegister, Reg: r}
}

// ImmediateOperand returns an immediate operand.
func ImmediateOperand(v int32) Operand {
	return Operand{Kind: OperandImmediate, Imm: v}
}

// MemoryOperand returns a memory operand.
func MemoryOperand(a Address) Operand {
	return Operand{Kind: OperandMemory, Mem: a}
}

// Instruction represents a decoded 8086 instruction.
type Instruction struct {
	Op   Op   // Mnemonic
	Wide bool // W bit: 16-bit operation when true

	// Operands holds the destination first and the source second.
	Operands [2]Operand

	Offset int // Offset of the first byte in the decoded buffer
	Size   int // Number of bytes consumed
}

// Dst returns the destination operand.
func (i Instruction) Dst() Operand {
	return i.Operands[0]
}

// Src returns the source operand.
func (i Instruction) Src() Operand {
	return i.Operands[1]
}
