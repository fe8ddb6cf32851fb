package disasm

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/sim8086/loader"
)

// Result is the disassembly of one program.
type Result struct {
	Program *loader.Program
	Lines   []Line
	// Err is the decode error that stopped the program, if any.
	Err error
}

// DisassembleAll decodes programs concurrently, at most Config.Workers at
// a time. Results are in the order of programs. Decode errors are reported
// per Result; the returned error is non-nil only when ctx is done.
func (d *Disassembler) DisassembleAll(ctx context.Context, programs []*loader.Program) ([]Result, error) {
	results := make([]Result, len(programs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.config.Workers, 1))

	for i, prog := range programs {
		g.Go(func() error {
			res, err := d.disassembleProgram(gctx, prog)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (d *Disassembler) disassembleProgram(ctx context.Context, prog *loader.Program) (Result, error) {
	log := d.logger.WithValues("program", prog.Name)
	log.V(1).Info("disassembling", "bytes", len(prog.Code))

	res := Result{Program: prog}
	for line, decodeErr := range d.Lines(prog.Code) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		if decodeErr != nil {
			log.Error(decodeErr, "decoding stopped", "offset", line.Offset)
			res.Err = decodeErr
			break
		}
		res.Lines = append(res.Lines, line)
	}

	log.V(1).Info("disassembled", "instructions", len(res.Lines))

	return res, nil
}
