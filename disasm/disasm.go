// Package disasm turns buffers of 8086 machine code into listings.
//
// The Disassembler drives an insts.Decoder across a whole buffer: it
// starts at offset 0, advances by the size of each decoded instruction,
// and stops at the end of the buffer or at the first decode error. There
// is no resynchronization after an error, since instructions are variable
// length and guessing the next boundary would misread what follows.
package disasm

import (
	"iter"

	"github.com/go-logr/logr"

	"github.com/sarchlab/sim8086/config"
	"github.com/sarchlab/sim8086/insts"
)

// Line is one decoded instruction of a listing.
type Line struct {
	// Offset is the position of the instruction in the buffer.
	Offset int
	// Bytes is the encoded instruction, a sub-slice of the buffer.
	Bytes []byte
	// Inst is the decoded instruction.
	Inst insts.Instruction
	// Text is the rendered assembly.
	Text string
}

// Disassembler decodes whole buffers.
type Disassembler struct {
	decoder *insts.Decoder
	config  *config.Config
	logger  logr.Logger
}

// Option is a functional option for configuring the Disassembler.
type Option func(*Disassembler)

// WithConfig sets the listing and decoding configuration.
func WithConfig(c *config.Config) Option {
	return func(d *Disassembler) {
		d.config = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logr.Logger) Option {
	return func(d *Disassembler) {
		d.logger = l
	}
}

// WithDecoder sets the decoder. Without it, a decoder is built from the
// configuration's immediate policy.
func WithDecoder(dec *insts.Decoder) Option {
	return func(d *Disassembler) {
		d.decoder = dec
	}
}

// New creates a new Disassembler.
func New(opts ...Option) *Disassembler {
	d := &Disassembler{
		config: config.DefaultConfig(),
		logger: logr.Discard(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.decoder == nil {
		d.decoder = insts.NewDecoder(insts.WithImmediatePolicy(d.config.Immediates()))
	}

	return d
}

// Config returns the configuration in use.
func (d *Disassembler) Config() *config.Config {
	return d.config
}

// Lines returns the instructions of code in order. The sequence is lazy:
// each instruction is decoded when the consumer asks for it. On a decode
// error the last element is a Line holding only the failing offset,
// paired with the error.
func (d *Disassembler) Lines(code []byte) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		offset := 0
		for offset < len(code) {
			inst, n, err := d.decoder.Decode(code, offset)
			if err != nil {
				yield(Line{Offset: offset}, err)
				return
			}

			line := Line{
				Offset: offset,
				Bytes:  code[offset : offset+n],
				Inst:   inst,
				Text:   insts.Render(inst),
			}
			if !yield(line, nil) {
				return
			}

			offset += n
		}
	}
}

// Disassemble decodes all of code. On a decode error it returns the lines
// decoded before the failure together with the error.
func (d *Disassembler) Disassemble(code []byte) ([]Line, error) {
	var lines []Line

	for line, err := range d.Lines(code) {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}
