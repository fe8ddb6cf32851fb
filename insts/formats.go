package insts

import "fmt"

// Role identifies where an operand comes from in the encoding.
type Role uint8

// Operand roles.
const (
	RoleNone Role = iota
	RoleREG       // Register selected by the Reg field
	RoleRM        // Register or memory selected by MOD and RM
	RoleIMM       // Immediate data following the instruction
	RoleACC       // Accumulator (al/ax) implied by the opcode
	RoleADDR      // 16-bit direct address following the opcode
)

var roleNames = [...]string{
	RoleNone: "none",
	RoleREG:  "reg",
	RoleRM:   "r/m",
	RoleIMM:  "imm",
	RoleACC:  "acc",
	RoleADDR: "addr",
}

// String returns the role name.
func (r Role) String() string {
	if int(r) >= len(roleNames) {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleNames[r]
}

// Format describes one instruction encoding.
//
// A format matches an opcode byte b when b&Mask == Opcode and, if Ext is
// present, the extension field of the ModRM byte equals ExtValue. Absent
// D, W and S fields extract 0.
type Format struct {
	Name   string
	Opcode byte
	Mask   byte
	Op     Op

	// Roles lists the operands in encoding order. When D is present and
	// extracts 1, the RM and REG operands are swapped.
	Roles [2]Role

	D   Field // Direction: 1 means REG is the destination
	W   Field // Width: 1 means 16-bit
	S   Field // Sign extend an 8-bit immediate
	Reg Field // Register code for RoleREG

	Ext      Field // Opcode extension in the ModRM byte
	ExtValue uint8
}

// NeedsModRM reports whether the format is followed by a ModRM byte.
func (f *Format) NeedsModRM() bool {
	for _, role := range f.Roles {
		if role == RoleRM {
			return true
		}
	}
	return f.Reg.InSecondByte() || f.Ext.InSecondByte()
}

func (f *Format) hasRole(role Role) bool {
	return f.Roles[0] == role || f.Roles[1] == role
}

func (f *Format) validate() error {
	invalid := func(format string, args ...any) error {
		return &InvalidFormatError{Format: f.Name, Reason: fmt.Sprintf(format, args...)}
	}

	if f.Opcode&^f.Mask != 0 {
		return invalid("opcode 0x%02x has bits outside mask 0x%02x", f.Opcode, f.Mask)
	}
	if f.Op == OpUnknown {
		return invalid("no mnemonic")
	}

	for _, role := range f.Roles {
		switch role {
		case RoleREG:
			if !f.Reg.Present() {
				return invalid("role %s without a register field", role)
			}
		case RoleRM, RoleIMM, RoleACC, RoleADDR:
		default:
			return invalid("unsupported operand role %s", role)
		}
	}

	if f.Roles[0] == f.Roles[1] {
		return invalid("duplicate operand role %s", f.Roles[0])
	}
	if f.D.Present() && !(f.hasRole(RoleRM) && f.hasRole(RoleREG)) {
		return invalid("direction field without r/m and reg roles")
	}
	if f.Ext.Present() && !f.Ext.InSecondByte() {
		return invalid("opcode extension outside the ModRM byte")
	}
	if f.Ext.Present() && f.hasRole(RoleREG) && f.Reg.InSecondByte() {
		return invalid("opcode extension overlaps the register field")
	}

	return nil
}

// Registry is an ordered, read-only list of formats.
type Registry struct {
	formats []Format
}

// NewRegistry validates formats and returns a registry that scans them in
// the given order.
func NewRegistry(formats ...Format) (*Registry, error) {
	r := &Registry{formats: make([]Format, len(formats))}
	copy(r.formats, formats)

	for i := range r.formats {
		if err := r.formats[i].validate(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on an invalid format.
func MustNewRegistry(formats ...Format) *Registry {
	r, err := NewRegistry(formats...)
	if err != nil {
		panic(err)
	}
	return r
}

// Formats returns a copy of the registered formats in scan order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}

// Len returns the number of formats.
func (r *Registry) Len() int {
	return len(r.formats)
}

type matchResult uint8

const (
	matchNone matchResult = iota
	matchFound
	matchNeedsModRM // a candidate needs the ModRM byte to decide
)

// lookup returns the index of the first format matching the opcode byte
// and, for formats with an opcode extension, the following byte.
func (r *Registry) lookup(first, second byte, haveSecond bool) (int, matchResult) {
	for i := range r.formats {
		f := &r.formats[i]
		if first&f.Mask != f.Opcode {
			continue
		}

		if !f.Ext.Present() {
			return i, matchFound
		}
		if !haveSecond {
			return -1, matchNeedsModRM
		}
		if f.Ext.Extract(Head(first, second)) == f.ExtValue {
			return i, matchFound
		}
	}

	return -1, matchNone
}

// Match returns the format selected by the first one or two bytes of code.
func (r *Registry) Match(code []byte) (Format, bool) {
	if len(code) == 0 {
		return Format{}, false
	}

	var second byte
	if len(code) > 1 {
		second = code[1]
	}

	i, res := r.lookup(code[0], second, len(code) > 1)
	if res != matchFound {
		return Format{}, false
	}
	return r.formats[i], true
}

// Overlaps returns the opcode bytes matched by more than one format, in
// ascending order. Formats that share an opcode byte but require different
// opcode extensions do not overlap.
func (r *Registry) Overlaps() []byte {
	var out []byte

	for b := 0; b < 256; b++ {
		var matched []*Format
		for i := range r.formats {
			f := &r.formats[i]
			if byte(b)&f.Mask == f.Opcode {
				matched = append(matched, f)
			}
		}

		if formatsConflict(matched) {
			out = append(out, byte(b))
		}
	}

	return out
}

func formatsConflict(matched []*Format) bool {
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			a, b := matched[i], matched[j]
			if !a.Ext.Present() || !b.Ext.Present() || a.ExtValue == b.ExtValue {
				return true
			}
		}
	}
	return false
}

// Table 4-12 of the 8086 manual, MOV and ADD rows.
var defaultFormats = []Format{
	{
		Name:   "mov r/m, reg",
		Opcode: 0b1000_1000,
		Mask:   0b1111_1100,
		Op:     OpMOV,
		Roles:  [2]Role{RoleRM, RoleREG},
		D:      FirstByte(1, 1),
		W:      FirstByte(0, 1),
		Reg:    RegField,
	},
	{
		Name:     "mov r/m, imm",
		Opcode:   0b1100_0110,
		Mask:     0b1111_1110,
		Op:       OpMOV,
		Roles:    [2]Role{RoleRM, RoleIMM},
		W:        FirstByte(0, 1),
		Ext:      RegField,
		ExtValue: 0b000,
	},
	{
		Name:   "mov reg, imm",
		Opcode: 0b1011_0000,
		Mask:   0b1111_0000,
		Op:     OpMOV,
		Roles:  [2]Role{RoleREG, RoleIMM},
		W:      FirstByte(3, 1),
		Reg:    FirstByte(0, 3),
	},
	{
		Name:   "mov acc, [addr]",
		Opcode: 0b1010_0000,
		Mask:   0b1111_1110,
		Op:     OpMOV,
		Roles:  [2]Role{RoleACC, RoleADDR},
		W:      FirstByte(0, 1),
	},
	{
		Name:   "mov [addr], acc",
		Opcode: 0b1010_0010,
		Mask:   0b1111_1110,
		Op:     OpMOV,
		Roles:  [2]Role{RoleADDR, RoleACC},
		W:      FirstByte(0, 1),
	},
	{
		Name:   "add r/m, reg",
		Opcode: 0b0000_0000,
		Mask:   0b1111_1100,
		Op:     OpADD,
		Roles:  [2]Role{RoleRM, RoleREG},
		D:      FirstByte(1, 1),
		W:      FirstByte(0, 1),
		Reg:    RegField,
	},
	{
		Name:     "add r/m, imm",
		Opcode:   0b1000_0000,
		Mask:     0b1111_1100,
		Op:       OpADD,
		Roles:    [2]Role{RoleRM, RoleIMM},
		S:        FirstByte(1, 1),
		W:        FirstByte(0, 1),
		Ext:      RegField,
		ExtValue: 0b000,
	},
	{
		Name:   "add acc, imm",
		Opcode: 0b0000_0100,
		Mask:   0b1111_1110,
		Op:     OpADD,
		Roles:  [2]Role{RoleACC, RoleIMM},
		W:      FirstByte(0, 1),
	},
}

var defaultRegistry = MustNewRegistry(defaultFormats...)

// DefaultRegistry returns the built-in MOV/ADD registry. It is shared and
// must not be modified.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// DefaultFormats returns a copy of the built-in formats, for building an
// extended registry.
func DefaultFormats() []Format {
	return defaultRegistry.Formats()
}
