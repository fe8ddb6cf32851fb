// Package main provides the entry point for sim8086.
// sim8086 disassembles 8086 MOV and ADD machine code into NASM listings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/sim8086/config"
	"github.com/sarchlab/sim8086/disasm"
	"github.com/sarchlab/sim8086/loader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	verbose    bool
	annotate   bool
	unsigned   bool
	workers    int
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("sim8086", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to listing configuration JSON file")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.annotate, "annotate", false, "Append offset and bytes comments to each line")
	fs.BoolVar(&opts.unsigned, "unsigned", false, "Print immediates without the S flag as unsigned")
	fs.IntVar(&opts.workers, "j", 0, "Number of programs to decode concurrently")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sim8086 [options] [program.bin ...]\n")
		fmt.Fprintf(stderr, "\nReads standard input when no program is given or for \"-\".\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{loader.StdinPath}
	}

	return opts, paths, nil
}

// loadConfig applies command line overrides on top of the config file.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if opts.verbose {
		cfg.Verbosity = max(cfg.Verbosity, 1)
	}
	if opts.annotate {
		cfg.ShowOffsets = true
		cfg.ShowBytes = true
	}
	if opts.unsigned {
		cfg.ImmediatePolicy = "unsigned"
	}
	if opts.workers != 0 {
		cfg.Workers = opts.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return cfg, nil
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity}).WithName("sim8086")
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, paths, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg.Verbosity)

	status := 0
	var programs []*loader.Program
	for _, path := range paths {
		prog, err := load(path, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading program: %v\n", err)
			status = 1
			continue
		}
		logger.V(1).Info("loaded", "program", prog.Name, "bytes", len(prog.Code))
		programs = append(programs, prog)
	}

	d := disasm.New(disasm.WithConfig(cfg), disasm.WithLogger(logger))

	results, err := d.DisassembleAll(ctx, programs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	named := len(paths) > 1
	for i, res := range results {
		if named && i > 0 {
			fmt.Fprintln(stdout)
		}
		if err := d.WriteResult(stdout, res, named); err != nil {
			status = 1
		}
	}

	return status
}

func load(path string, stdin io.Reader) (*loader.Program, error) {
	if path == loader.StdinPath {
		return loader.LoadReader("<stdin>", stdin)
	}
	return loader.Load(path)
}
