// Package harness times a Grover search on a configured backend and reports
// how often the marked bitstring was measured.
package harness

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qgrover/internal/backend"
	"qgrover/internal/grover"
)

const (
	DefaultQubits = 10
	DefaultShots  = 1000
)

// Options describes one performance run.
type Options struct {
	Backend  string
	Platform string
	Qubits   int
	Shots    int
	Seed     uint64
}

// DefaultOptions returns the settings of a bare invocation.
func DefaultOptions() Options {
	return Options{
		Backend: backend.DefaultBackend,
		Qubits:  DefaultQubits,
		Shots:   DefaultShots,
	}
}

// Report is the outcome of one run.
type Report struct {
	RunID      string
	Backend    string
	Platform   string
	Qubits     int
	Iterations int
	Shots      int
	Target     string
	Elapsed    time.Duration
	Frequency  int
}

// Print writes the console report followed by a blank line.
func (r *Report) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "nqubits %d\tTime = %v\nFrequency = %d\n\n",
		r.Qubits, r.Elapsed.Seconds(), r.Frequency)
	return err
}

// ExecutorFactory resolves a backend configuration.
type ExecutorFactory func(backend.Config) (backend.Executor, error)

// Runner performs runs against executors produced by its factory.
type Runner struct {
	newExecutor ExecutorFactory
	log         *zap.Logger
	now         func() time.Time
}

// NewRunner returns a runner. A nil factory uses backend.New and a nil logger
// discards output.
func NewRunner(factory ExecutorFactory, logger *zap.Logger) *Runner {
	if factory == nil {
		factory = backend.New
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{newExecutor: factory, log: logger, now: time.Now}
}

// Run executes one performance run with the default runner.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (*Report, error) {
	return NewRunner(nil, logger).Run(ctx, opts)
}

// Run configures the backend, builds the Grover circuit for the all-ones
// target with the optimal iteration count, and times its execution. The
// timer covers the execution call only.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	runID := uuid.New().String()
	log := r.log.With(zap.String("run_id", runID))

	exec, err := r.newExecutor(backend.Config{
		Backend:  opts.Backend,
		Platform: opts.Platform,
		Seed:     opts.Seed,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	iterations, err := grover.OptimalIterations(opts.Qubits, 1)
	if err != nil {
		return nil, err
	}
	c, err := grover.Grover(opts.Qubits, iterations)
	if err != nil {
		return nil, err
	}
	target := strings.Repeat("1", opts.Qubits)

	log.Debug("circuit built",
		zap.Int("qubits", opts.Qubits),
		zap.Int("iterations", iterations),
		zap.Int("gates", c.Len()))

	start := r.now()
	res, err := exec.Execute(ctx, c, opts.Shots)
	elapsed := r.now().Sub(start)
	if err != nil {
		return nil, fmt.Errorf("execute on %s: %w", exec.Name(), err)
	}

	report := &Report{
		RunID:      runID,
		Backend:    exec.Name(),
		Platform:   exec.Platform(),
		Qubits:     opts.Qubits,
		Iterations: iterations,
		Shots:      opts.Shots,
		Target:     target,
		Elapsed:    elapsed,
		Frequency:  res.Frequency(target),
	}
	log.Info("run complete",
		zap.String("backend", report.Backend),
		zap.Int("qubits", report.Qubits),
		zap.Duration("elapsed", report.Elapsed),
		zap.Int("frequency", report.Frequency))
	return report, nil
}
