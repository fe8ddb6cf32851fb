package insts

import "fmt"

// ImmediatePolicy selects how immediates without the S flag are
// interpreted.
type ImmediatePolicy uint8

// Immediate policies.
const (
	// ImmediateSigned reads every immediate as two's complement at its
	// encoded width, so 0xf4 is -12.
	ImmediateSigned ImmediatePolicy = iota

	// ImmediateUnsigned keeps immediates without the S flag as unsigned
	// magnitudes, so 0xf4 is 244. S-flagged immediates are still sign
	// extended.
	ImmediateUnsigned
)

// String returns the policy name used in configuration files.
func (p ImmediatePolicy) String() string {
	switch p {
	case ImmediateSigned:
		return "signed"
	case ImmediateUnsigned:
		return "unsigned"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParseImmediatePolicy parses "signed" or "unsigned".
func ParseImmediatePolicy(s string) (ImmediatePolicy, error) {
	switch s {
	case "signed":
		return ImmediateSigned, nil
	case "unsigned":
		return ImmediateUnsigned, nil
	default:
		return 0, fmt.Errorf("unknown immediate policy %q", s)
	}
}

// Decoder decodes 8086 machine code into instructions. It holds no mutable
// state and may be shared between goroutines.
type Decoder struct {
	registry   *Registry
	immediates ImmediatePolicy
}

// DecoderOption is a functional option for configuring the Decoder.
type DecoderOption func(*Decoder)

// WithRegistry sets the format registry to decode with.
func WithRegistry(r *Registry) DecoderOption {
	return func(d *Decoder) {
		d.registry = r
	}
}

// WithImmediatePolicy sets how immediates without the S flag are read.
func WithImmediatePolicy(p ImmediatePolicy) DecoderOption {
	return func(d *Decoder) {
		d.immediates = p
	}
}

// NewDecoder creates a new 8086 instruction decoder using the default
// registry.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		registry:   DefaultRegistry(),
		immediates: ImmediateSigned,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Registry returns the registry the decoder scans.
func (d *Decoder) Registry() *Registry {
	return d.registry
}

// fieldValues holds the fields extracted from the instruction head.
type fieldValues struct {
	d, w, s uint8
	mod     uint8
	reg, rm uint8
}

// Decode decodes the instruction starting at buf[offset]. It returns the
// instruction and the number of bytes it occupies.
//
// Errors are *UnknownOpcodeError when no format matches and
// *TruncatedInstructionError when buf ends inside the instruction.
func (d *Decoder) Decode(buf []byte, offset int) (Instruction, int, error) {
	if offset < 0 || offset >= len(buf) {
		return Instruction{}, 0, &TruncatedInstructionError{
			Offset:    offset,
			Available: max(len(buf)-offset, 0),
			Required:  1,
		}
	}

	c := newCursor(buf, offset)

	first, err := c.readU8()
	if err != nil {
		return Instruction{}, 0, err
	}
	second, haveSecond := c.peek()

	idx, res := d.registry.lookup(first, second, haveSecond)
	switch res {
	case matchNone:
		return Instruction{}, 0, &UnknownOpcodeError{Offset: offset, Opcode: first}
	case matchNeedsModRM:
		return Instruction{}, 0, c.truncated(1)
	}
	f := &d.registry.formats[idx]

	head := Head(first, 0)
	if f.NeedsModRM() {
		modrm, err := c.readU8()
		if err != nil {
			return Instruction{}, 0, err
		}
		head = Head(first, modrm)
	}

	fv := fieldValues{
		d:   f.D.Extract(head),
		w:   f.W.Extract(head),
		s:   f.S.Extract(head),
		mod: ModField.Extract(head),
		reg: f.Reg.Extract(head),
		rm:  RMField.Extract(head),
	}

	inst := Instruction{
		Op:     f.Op,
		Wide:   fv.w == 1,
		Offset: offset,
	}

	for i, role := range f.Roles {
		op, err := d.operand(c, role, fv)
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.Operands[i] = op
	}

	// D=0: REG is the source. Roles are declared in D=0 order.
	if f.D.Present() && fv.d == 1 {
		inst.Operands[0], inst.Operands[1] = inst.Operands[1], inst.Operands[0]
	}

	inst.Size = c.consumed()

	return inst, inst.Size, nil
}

func (d *Decoder) operand(c *cursor, role Role, fv fieldValues) (Operand, error) {
	switch role {
	case RoleREG:
		return RegisterOperand(LookupRegister(fv.w, fv.reg)), nil

	case RoleRM:
		if fv.mod == 0b11 {
			return RegisterOperand(LookupRegister(fv.w, fv.rm)), nil
		}
		addr, err := d.memory(c, fv.mod, fv.rm)
		if err != nil {
			return Operand{}, err
		}
		return MemoryOperand(addr), nil

	case RoleIMM:
		v, err := d.immediate(c, fv.w, fv.s)
		if err != nil {
			return Operand{}, err
		}
		return ImmediateOperand(v), nil

	case RoleACC:
		return RegisterOperand(Accumulator(fv.w)), nil

	case RoleADDR:
		addr, err := c.readU16()
		if err != nil {
			return Operand{}, err
		}
		return MemoryOperand(DirectAddress(addr)), nil

	default:
		// Registries reject unknown roles at construction.
		panic(fmt.Sprintf("insts: unhandled operand role %s", role))
	}
}

// memory decodes the effective address for MOD != 11.
func (d *Decoder) memory(c *cursor, mod, rm uint8) (Address, error) {
	switch mod {
	case 0b00:
		if rm == 0b110 {
			addr, err := c.readU16()
			if err != nil {
				return Address{}, err
			}
			return DirectAddress(addr), nil
		}
		return EffectiveAddress(rm, 0, 0), nil

	case 0b01:
		disp, err := c.readU8()
		if err != nil {
			return Address{}, err
		}
		return EffectiveAddress(rm, int32(int8(disp)), 8), nil

	default:
		disp, err := c.readU16()
		if err != nil {
			return Address{}, err
		}
		return EffectiveAddress(rm, int32(int16(disp)), 16), nil
	}
}

// immediate reads one data byte when W=0 or S=1, otherwise a data word.
func (d *Decoder) immediate(c *cursor, w, s uint8) (int32, error) {
	if w == 0 || s == 1 {
		v, err := c.readU8()
		if err != nil {
			return 0, err
		}
		if s == 1 || d.immediates == ImmediateSigned {
			return int32(int8(v)), nil
		}
		return int32(v), nil
	}

	v, err := c.readU16()
	if err != nil {
		return 0, err
	}
	if d.immediates == ImmediateSigned {
		return int32(int16(v)), nil
	}
	return int32(v), nil
}
