package insts

// Register represents an 8086 general-purpose register.
type Register uint8

// 8086 registers. RegNone marks an absent register.
const (
	RegNone Register = iota
	RegAL
	RegCL
	RegDL
	RegBL
	RegAH
	RegCH
	RegDH
	RegBH
	RegAX
	RegCX
	RegDX
	RegBX
	RegSP
	RegBP
	RegSI
	RegDI
)

var registerNames = [...]string{
	RegNone: "",
	RegAL:   "al",
	RegCL:   "cl",
	RegDL:   "dl",
	RegBL:   "bl",
	RegAH:   "ah",
	RegCH:   "ch",
	RegDH:   "dh",
	RegBH:   "bh",
	RegAX:   "ax",
	RegCX:   "cx",
	RegDX:   "dx",
	RegBX:   "bx",
	RegSP:   "sp",
	RegBP:   "bp",
	RegSI:   "si",
	RegDI:   "di",
}

// String returns the lower-case register name.
func (r Register) String() string {
	if int(r) >= len(registerNames) {
		return "?"
	}
	return registerNames[r]
}

// Wide reports whether r is a 16-bit register.
func (r Register) Wide() bool {
	return r >= RegAX && r <= RegDI
}

// Table 4-9 of the 8086 manual, indexed by [W][REG].
var registerTable = [2][8]Register{
	{RegAL, RegCL, RegDL, RegBL, RegAH, RegCH, RegDH, RegBH},
	{RegAX, RegCX, RegDX, RegBX, RegSP, RegBP, RegSI, RegDI},
}

// LookupRegister returns the register selected by a W bit and a 3-bit
// register code. Only the low bit of w and the low three bits of code are
// used, so every input names a register.
func LookupRegister(w, code uint8) Register {
	return registerTable[w&0b1][code&0b111]
}

// Accumulator returns al or ax.
func Accumulator(w uint8) Register {
	return LookupRegister(w, 0b000)
}

// Table 4-10 of the 8086 manual for MOD != 11, indexed by RM.
// RM=110 is bp here; the MOD=00 direct address override is applied by the
// decoder.
var effectiveAddressTable = [8]struct{ base, index Register }{
	0b000: {RegBX, RegSI},
	0b001: {RegBX, RegDI},
	0b010: {RegBP, RegSI},
	0b011: {RegBP, RegDI},
	0b100: {RegSI, RegNone},
	0b101: {RegDI, RegNone},
	0b110: {RegBP, RegNone},
	0b111: {RegBX, RegNone},
}

// EffectiveAddress returns the address expression for an RM code combined
// with a displacement of dispBits (0, 8 or 16) bits.
func EffectiveAddress(rm uint8, disp int32, dispBits uint8) Address {
	ea := effectiveAddressTable[rm&0b111]
	if dispBits == 0 {
		disp = 0
	}
	return Address{
		Base:     ea.base,
		Index:    ea.index,
		Disp:     disp,
		DispBits: dispBits,
	}
}

// DirectAddress returns a direct (absolute) address expression.
func DirectAddress(addr uint16) Address {
	return Address{
		Disp:     int32(addr),
		DispBits: 16,
		Direct:   true,
	}
}
