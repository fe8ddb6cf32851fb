// Package main provides the entry point for sim8086.
// sim8086 is a table-driven 8086 MOV/ADD disassembler.
//
// For the full CLI, use: go run ./cmd/sim8086
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("sim8086 - 8086 Disassembler")
	fmt.Println("Decodes MOV and ADD machine code into NASM listings")
	fmt.Println("")
	fmt.Println("Usage: sim8086 [options] [program.bin ...]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to listing configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("  -annotate  Append offset and bytes comments to each line")
	fmt.Println("  -unsigned  Print immediates without the S flag as unsigned")
	fmt.Println("  -j         Number of programs to decode concurrently")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/sim8086' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/sim8086' instead.")
	}
}
