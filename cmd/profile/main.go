// Package main provides a profiling wrapper for sim8086 to identify decode
// and rendering bottlenecks.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/sim8086/disasm"
	"github.com/sarchlab/sim8086/loader"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	repeat     = flag.Int("repeat", 1000, "number of times to disassemble the program")
	render     = flag.Bool("render", true, "write listings (to io.Discard) instead of only decoding")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 || *repeat < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", prog.Name)
	fmt.Printf("Size: %d bytes\n", len(prog.Code))

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	d := disasm.New()

	start := time.Now()
	instrCount, err := profile(d, prog.Code)
	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	if err != nil {
		fmt.Printf("Stopped by: %v\n", err)
	}
	fmt.Printf("Passes: %d\n", *repeat)
	fmt.Printf("Instructions decoded: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// profile disassembles code repeat times. A decode error ends every pass
// at the same offset, so it is reported once and does not stop profiling.
func profile(d *disasm.Disassembler, code []byte) (uint64, error) {
	var (
		count   uint64
		lastErr error
	)

	for i := 0; i < *repeat; i++ {
		if *render {
			lastErr = d.WriteListing(io.Discard, code)
		}

		for _, err := range d.Lines(code) {
			if err != nil {
				lastErr = err
				break
			}
			count++
		}
	}

	return count, lastErr
}
