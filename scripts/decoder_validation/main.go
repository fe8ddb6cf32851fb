// Validate decoder allocations - measures decode throughput and heap use
// for a mixed MOV/ADD stream.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/sim8086/insts"
)

// One instruction of each decode path: register, memory with 8 and 16
// bit displacements, direct address, immediates and accumulator forms.
var stream = []byte{
	0x89, 0xd9, // mov cx, bx
	0x8a, 0x60, 0x04, // mov ah, [bx+si+4]
	0x8b, 0x80, 0x87, 0x13, // mov ax, [bx+si+4999]
	0x8b, 0x2e, 0x05, 0x00, // mov bp, [5]
	0xc7, 0x85, 0x85, 0x03, 0x5b, 0x01, // mov word [di+901], 347
	0xb9, 0xf4, 0xff, // mov cx, -12
	0xa1, 0xfb, 0x09, // mov ax, [2555]
	0x03, 0x5e, 0x00, // add bx, [bp]
	0x83, 0xc6, 0x02, // add si, 2
	0x05, 0xe8, 0x03, // add ax, 1000
}

func decodeAll(d *insts.Decoder) (int, error) {
	count := 0
	for offset := 0; offset < len(stream); {
		_, n, err := d.Decode(stream, offset)
		if err != nil {
			return count, err
		}
		offset += n
		count++
	}
	return count, nil
}

func main() {
	decoder := insts.NewDecoder()

	perStream, err := decodeAll(decoder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding validation stream: %v\n", err)
		os.Exit(1)
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		_, _ = decodeAll(decoder)
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		_, _ = decodeAll(decoder)
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * perStream
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Instructions per stream: %d (%d bytes)\n", perStream, len(stream))
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	if allocations == 0 {
		fmt.Printf("\nSUCCESS: decoding does not allocate.\n")
	} else if float64(allocations)/float64(totalDecodes) < 0.1 {
		fmt.Printf("\nGOOD: low allocation rate (< 0.1 per decode)\n")
	} else {
		fmt.Printf("\nWARNING: decode allocates (%.3f per decode)\n", float64(allocations)/float64(totalDecodes))
		os.Exit(1)
	}
}
