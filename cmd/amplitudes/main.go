// Command amplitudes plots the real amplitude of every search state after a
// number of Grover rounds.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qgrover/internal/backend"
	"qgrover/internal/grover"
	"qgrover/internal/plot"
)

type flags struct {
	nqubits    int
	iterations int
	target     string
	backend    string
	platform   string
	print      bool
	noTUI      bool
	verbose    bool
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
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "amplitudes",
		Short: "Plot the search-state amplitudes of a Grover circuit",
		Long: `Runs Grover's search without measuring, recovers the real amplitude of each
search state from the statevector, and shows them as a bar chart.

The chart is interactive: arrow keys scroll, q quits. Nothing is saved.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(f.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(cmd, f, logger)
		},
	}

	cmd.Flags().IntVar(&f.nqubits, "nqubits", 4, "Number of search qubits")
	cmd.Flags().IntVar(&f.iterations, "iterations", -1, "Oracle and diffuser rounds (-1 uses the optimum)")
	cmd.Flags().StringVar(&f.target, "target", "", "Marked state as a binary string (default all ones)")
	cmd.Flags().StringVar(&f.backend, "backend", backend.DefaultBackend, "Simulation backend")
	cmd.Flags().StringVar(&f.platform, "platform", "", "Simulation backend platform")
	cmd.Flags().BoolVarP(&f.print, "print", "p", false, "Print the amplitude list")
	cmd.Flags().BoolVar(&f.noTUI, "no-tui", false, "Print the chart once instead of opening the interactive view")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

// parseTarget reads a binary target string of exactly n digits. An empty
// string selects the all-ones state.
func parseTarget(s string, n int) (uint64, error) {
	if s == "" {
		return grover.AllOnes(n), nil
	}
	if len(s) != n {
		return 0, fmt.Errorf("%w: %q has %d digits, want %d", grover.ErrInvalidTarget, s, len(s), n)
	}
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", grover.ErrInvalidTarget, s, err)
	}
	return v, nil
}

// amplitudes executes the unmeasured circuit and returns the search-state
// amplitudes.
func amplitudes(ctx context.Context, f *flags, logger *zap.Logger) ([]float64, error) {
	exec, err := backend.New(backend.Config{Backend: f.backend, Platform: f.platform, Logger: logger})
	if err != nil {
		return nil, err
	}
	target, err := parseTarget(f.target, f.nqubits)
	if err != nil {
		return nil, err
	}
	iterations := f.iterations
	if iterations < 0 {
		if iterations, err = grover.OptimalIterations(f.nqubits, 1); err != nil {
			return nil, err
		}
	}
	c, err := grover.Amplify(f.nqubits, iterations, target)
	if err != nil {
		return nil, err
	}
	logger.Debug("circuit built",
		zap.Int("qubits", f.nqubits),
		zap.Int("iterations", iterations),
		zap.String("target", grover.Bitstring(target, f.nqubits)),
		zap.Int("gates", c.Len()))

	res, err := exec.Execute(ctx, c, 0)
	if err != nil {
		return nil, err
	}
	state, err := res.State()
	if err != nil {
		return nil, err
	}
	return plot.Amplitudes(state)
}

func run(cmd *cobra.Command, f *flags, logger *zap.Logger) error {
	out := cmd.OutOrStdout()

	amps, err := amplitudes(cmd.Context(), f, logger)
	if err != nil {
		return err
	}
	labels := plot.LabelsFor(amps)

	if f.print {
		if _, err := fmt.Fprintln(out, amps); err != nil {
			return err
		}
	}
	if f.noTUI {
		_, err := fmt.Fprintln(out, plot.Render(labels, amps, 80))
		return err
	}

	p := tea.NewProgram(plot.NewChart(labels, amps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
