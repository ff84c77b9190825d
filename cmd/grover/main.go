// Command grover times Grover's search for the all-ones bitstring on a
// simulation backend and prints how often the target was measured.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qgrover/internal/backend"
	"qgrover/internal/grover"
	"qgrover/internal/harness"
)

type flags struct {
	nqubits  int
	backend  string
	platform string
	shots    int
	seed     uint64
	qasm     bool
	verbose  bool
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func newRootCmd() *cobra.Command {
	defaults := harness.DefaultOptions()
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "grover",
		Short: "Benchmark Grover's search on a statevector backend",
		Long: `Builds Grover's search circuit for the all-ones bitstring with the optimal
number of oracle and diffuser rounds, executes it with a fixed number of shots,
and prints the execution time and the frequency of the target.

Backends: ` + strings.Join(backend.Names(), ", ") + `
Platforms for parallel: ` + strings.Join(backend.Platforms("parallel"), ", "),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(f.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(cmd, f, logger)
		},
	}

	cmd.Flags().IntVar(&f.nqubits, "nqubits", defaults.Qubits, "Number of qubits.")
	cmd.Flags().StringVar(&f.backend, "backend", defaults.Backend, "Simulation backend")
	cmd.Flags().StringVar(&f.platform, "platform", defaults.Platform, "Simulation backend platform")
	cmd.Flags().IntVar(&f.shots, "shots", defaults.Shots, "Number of measurement shots")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Sampling seed (0 picks a random seed)")
	cmd.Flags().BoolVar(&f.qasm, "qasm", false, "Print the circuit as OpenQASM instead of running it")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, f *flags, logger *zap.Logger) error {
	out := cmd.OutOrStdout()

	if f.qasm {
		iterations, err := grover.OptimalIterations(f.nqubits, 1)
		if err != nil {
			return err
		}
		c, err := grover.Grover(f.nqubits, iterations)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, c.ToQASM())
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := harness.Run(ctx, harness.Options{
		Backend:  f.backend,
		Platform: f.platform,
		Qubits:   f.nqubits,
		Shots:    f.shots,
		Seed:     f.seed,
	}, logger)
	if err != nil {
		return err
	}
	return report.Print(out)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
