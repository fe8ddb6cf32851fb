// Package loader provides loading of raw 8086 machine code.
//
// Input is a flat binary as produced by "nasm -f bin": no headers, the
// first byte is the first instruction.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StdinPath names standard input.
const StdinPath = "-"

// MaxProgramSize is the largest accepted program, the 8086's 1MB address
// space.
const MaxProgramSize = 1 << 20

// Program represents loaded machine code.
type Program struct {
	// Name is the path the program was loaded from, or "<stdin>".
	Name string
	// Code contains the raw instruction bytes.
	Code []byte
}

// Load reads a program from path, or from os.Stdin when path is "-".
func Load(path string) (*Program, error) {
	if path == StdinPath {
		return LoadReader("<stdin>", os.Stdin)
	}

	if isAssemblySource(path) {
		return nil, fmt.Errorf("%s looks like assembly source, assemble it first", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(path, f)
}

// LoadReader reads a program from r.
func LoadReader(name string, r io.Reader) (*Program, error) {
	var buf bytes.Buffer

	n, err := buf.ReadFrom(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read program %s: %w", name, err)
	}
	if n > MaxProgramSize {
		return nil, fmt.Errorf("program %s exceeds %d bytes", name, MaxProgramSize)
	}

	return &Program{Name: name, Code: buf.Bytes()}, nil
}

func isAssemblySource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s":
		return true
	default:
		return false
	}
}
