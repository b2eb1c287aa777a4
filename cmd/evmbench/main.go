// Package main provides the CLI entry point for evmbench, a micro-benchmark
// harness that runs EVM bytecode under several measurement backends.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weiihann/evmbench/evm"
	"github.com/weiihann/evmbench/harness"
	"github.com/weiihann/evmbench/measure"
	"github.com/weiihann/evmbench/report"
	"github.com/weiihann/evmbench/workload"
)

func init() {
	// Perf counters count the OS thread that opened them. Keep main on a
	// single thread for the whole process.
	runtime.LockOSThread()
}

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(logger, level)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("evmbench failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "evmbench",
		Short: "Micro-benchmark EVM bytecode",
		Long: `Evmbench executes a piece of EVM bytecode a fixed number of times and
records wall time, CPU cycles and, on Linux, perf counter events for every
iteration, together with the gas each iteration consumed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return level.UnmarshalText([]byte(logLevel))
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(logger),
		newMeasurementsCmd(),
		newGenCmd(logger),
	)

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		inputPath     string
		measurements  []string
		format        string
		excludeKernel bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark the bytecode given on stdin",
		Long: `Read one line of JSON, {"iterations": N, "code": "0x..."}, run the code
N times under every selected measurement and print the samples as a JSON
array on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, runConfig{
				input:         cmd.InOrStdin(),
				inputPath:     inputPath,
				output:        cmd.OutOrStdout(),
				measurements:  measurements,
				format:        format,
				excludeKernel: excludeKernel,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&inputPath, "input", "",
		"Read the request from this file instead of stdin")
	flags.StringSliceVar(&measurements, "measurements", nil,
		"Measurements to run (default: all available)")
	flags.StringVar(&format, "format", "json",
		"Output format: json, table")
	flags.BoolVar(&excludeKernel, "perf-exclude-kernel", false,
		"Count only user space in perf counters")

	return cmd
}

type runConfig struct {
	input         io.Reader
	inputPath     string
	output        io.Writer
	measurements  []string
	format        string
	excludeKernel bool
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	var write func(io.Writer, []harness.Result) error

	switch cfg.format {
	case "json":
		write = report.WriteJSON
	case "table":
		write = report.WriteTable
	default:
		return fmt.Errorf("unknown format %q", cfg.format)
	}

	// Step 1: Read the request.
	input := cfg.input
	if cfg.inputPath != "" {
		f, err := os.Open(cfg.inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		input = f
	}

	req, err := workload.Decode(input)
	if err != nil {
		return err
	}

	// Step 2: Resolve measurements for this platform.
	factories, err := measure.Select(cfg.measurements)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(factories))
	for _, f := range factories {
		ids = append(ids, f.ID)
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Uint64("iterations", req.Iterations),
		slog.Int("code_size", len(req.Code)),
		slog.Any("measurements", ids),
	)

	// Step 3: Run every measurement sequentially.
	runner := harness.NewRunner(evm.NewGeth(), logger)

	results, err := runner.RunAll(ctx, req, factories, measure.Options{
		ExcludeKernel: cfg.excludeKernel,
	})
	if err != nil {
		return err
	}

	// Step 4: Emit results.
	if err := write(cfg.output, results); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

func newMeasurementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "measurements",
		Short: "List measurements and whether this build supports them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listMeasurements(cmd.OutOrStdout())
		},
	}
}

func listMeasurements(w io.Writer) error {
	available := make(map[string]bool)
	for _, f := range measure.Available() {
		available[f.ID] = true
	}

	for _, info := range measure.Known() {
		status := "unavailable"
		if available[info.ID] {
			status = "available"
		}

		if _, err := fmt.Fprintf(w, "%-18s %-18s %-3s %s\n",
			info.ID, info.Name, info.Unit, status); err != nil {
			return err
		}
	}

	return nil
}

func newGenCmd(logger *slog.Logger) *cobra.Command {
	var cfg workload.Config

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a benchmark request with random arithmetic bytecode",
		Long: `Generate a deterministic request line for "evmbench run". The code is a
sequence of PUSH, PUSH, <binary opcode>, POP groups ending in STOP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd.Context(), logger, cmd.OutOrStdout(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Operations, "ops", 100,
		"Number of opcode groups to generate")
	flags.StringVar(&cfg.Mix, "mix", "all",
		"Opcode mix: "+strings.Join(workload.Mixes(), ", "))
	flags.Int64Var(&cfg.Seed, "seed", 1,
		"Random seed")
	flags.Uint64Var(&cfg.Iterations, "iterations", 100,
		"Iterations to request")
	flags.BoolVar(&cfg.Wide, "wide", false,
		"Use PUSH2 operands instead of PUSH1")

	return cmd
}

func generate(
	ctx context.Context,
	logger *slog.Logger,
	w io.Writer,
	cfg workload.Config,
) error {
	if cfg.Operations < 0 {
		return fmt.Errorf("--ops must not be negative")
	}

	req, summary := workload.NewGenerator(cfg).Generate()

	if err := workload.Encode(w, req); err != nil {
		return err
	}

	logger.InfoContext(ctx, "request generated",
		slog.Int("operations", summary.Operations),
		slog.Int("code_size", summary.CodeSize),
		slog.Int64("seed", cfg.Seed),
	)

	return nil
}
