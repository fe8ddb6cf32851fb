package insts

import (
	"strconv"
	"strings"
)

// Render returns the assembly text of an instruction, for example
// "mov ah, [bx+si+4]".
//
// A memory operand paired with an immediate carries a byte/word size
// keyword, since nothing else in the text gives the operand size.
func Render(inst Instruction) string {
	var sb strings.Builder

	sb.WriteString(inst.Op.String())

	sized := needsSize(inst)
	for i, op := range inst.Operands {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}

		if sized && op.Kind == OperandMemory {
			if inst.Wide {
				sb.WriteString("word ")
			} else {
				sb.WriteString("byte ")
			}
		}
		sb.WriteString(op.String())
	}

	return sb.String()
}

func needsSize(inst Instruction) bool {
	dst, src := inst.Operands[0].Kind, inst.Operands[1].Kind
	return (dst == OperandMemory && src == OperandImmediate) ||
		(dst == OperandImmediate && src == OperandMemory)
}

// String implements fmt.Stringer using Render.
func (i Instruction) String() string {
	return Render(i)
}

// String returns the operand text.
func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return o.Reg.String()
	case OperandImmediate:
		return strconv.FormatInt(int64(o.Imm), 10)
	case OperandMemory:
		return o.Mem.String()
	default:
		return ""
	}
}

// String returns the bracketed address expression: registers first, then
// a non-zero displacement.
func (a Address) String() string {
	if a.Direct {
		return "[" + strconv.FormatInt(int64(a.Disp), 10) + "]"
	}

	var sb strings.Builder
	sb.WriteByte('[')

	terms := 0
	for _, r := range [...]Register{a.Base, a.Index} {
		if r == RegNone {
			continue
		}
		if terms > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(r.String())
		terms++
	}

	if a.DispBits != 0 && a.Disp != 0 {
		switch {
		case a.Disp < 0:
			sb.WriteByte('-')
			sb.WriteString(strconv.FormatInt(-int64(a.Disp), 10))
		case terms > 0:
			sb.WriteByte('+')
			fallthrough
		default:
			sb.WriteString(strconv.FormatInt(int64(a.Disp), 10))
		}
	}

	sb.WriteByte(']')
	return sb.String()
}
