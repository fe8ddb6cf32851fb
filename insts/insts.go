// Package insts provides 8086 instruction definitions and decoding.
//
// This package implements decoding of 8086 machine code into structured
// instruction representations and renders them back to assembly text. It
// supports the MOV and ADD encodings:
//   - Register/memory to/from register: MOV, ADD
//   - Immediate to register: MOV
//   - Immediate to register/memory: MOV, ADD
//   - Immediate to accumulator: ADD
//   - Memory to/from accumulator: MOV
//
// Decoding is driven by an ordered Registry of Format descriptors. A
// format is selected by the first byte, (b & Mask) == Opcode, and the
// first matching entry in registry order wins.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, n, err := decoder.Decode([]byte{0x89, 0xd9}, 0) // mov cx, bx
//	fmt.Println(inst, n, err)
package insts
