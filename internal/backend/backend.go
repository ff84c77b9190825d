// Package backend executes circuits on a dense statevector simulator.
//
// There is no process-wide backend selection. Callers describe the engine
// they want with a Config and obtain an Executor from New; every execution
// goes through that handle.
package backend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qgrover/internal/circuit"
)

const (
	// DefaultBackend is used when Config.Backend is empty.
	DefaultBackend = "numpy"

	// MaxQubits caps the register size the engine will allocate.
	MaxQubits = 30

	// minParallelAmplitudes is the state size below which the parallel
	// backend applies gates on the calling goroutine.
	minParallelAmplitudes = 1 << 12
)

var (
	ErrUnknownBackend     = errors.New("backend: unknown backend")
	ErrUnknownPlatform    = errors.New("backend: unknown platform")
	ErrInvalidShots       = errors.New("backend: shots must not be negative")
	ErrNoQubits           = errors.New("backend: circuit has no qubits")
	ErrTooManyQubits      = errors.New("backend: too many qubits")
	ErrMidCircuitMeasure  = errors.New("backend: gate acts on an already measured qubit")
	ErrInsufficientMemory = errors.New("backend: statevector does not fit in available memory")
)

// Executor runs circuits.
type Executor interface {
	Name() string
	Platform() string
	Execute(ctx context.Context, c *circuit.Circuit, shots int) (*Result, error)
}

// Config selects and tunes an engine.
type Config struct {
	Backend  string
	Platform string
	Seed     uint64 // 0 draws a random seed per execution
	Logger   *zap.Logger
}

// platformWorkers maps a platform name to the number of workers it uses. A
// worker count of 0 means one per CPU.
type platformWorkers map[string]int

var backends = map[string]platformWorkers{
	"numpy":    {"": 1},
	"parallel": {"": 0, "cpu": 0, "single": 1},
}

// Names returns the registered backend names, sorted.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Platforms returns the named platforms a backend accepts, sorted. The empty
// default platform is not listed.
func Platforms(backend string) []string {
	var out []string
	for p := range backends[backend] {
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// New resolves cfg into an executor.
func New(cfg Config) (Executor, error) {
	name := cfg.Backend
	if name == "" {
		name = DefaultBackend
	}
	platforms, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	workers, ok := platforms[cfg.Platform]
	if !ok {
		avail := Platforms(name)
		if len(avail) == 0 {
			return nil, fmt.Errorf("%w %q: backend %s takes no platform", ErrUnknownPlatform, cfg.Platform, name)
		}
		return nil, fmt.Errorf("%w %q for backend %s (available: %s)",
			ErrUnknownPlatform, cfg.Platform, name, strings.Join(avail, ", "))
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &engine{
		name:     name,
		platform: cfg.Platform,
		workers:  workers,
		seed:     cfg.Seed,
		log:      logger.With(zap.String("backend", name), zap.String("platform", cfg.Platform)),
		memory:   availableMemory,
	}, nil
}

type engine struct {
	name     string
	platform string
	workers  int
	seed     uint64
	log      *zap.Logger
	memory   memoryProbe
}

func (e *engine) Name() string     { return e.name }
func (e *engine) Platform() string { return e.platform }

// Execute simulates c from |0…0⟩. With measurements, shots samples are drawn
// over the measured qubits; without, the final state is returned.
func (e *engine) Execute(ctx context.Context, c *circuit.Circuit, shots int) (*Result, error) {
	if shots < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShots, shots)
	}
	if c.NumQubits < 1 {
		return nil, ErrNoQubits
	}
	if c.NumQubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyQubits, c.NumQubits, MaxQubits)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := e.checkMemory(c.NumQubits); err != nil {
		return nil, err
	}

	e.log.Debug("executing circuit",
		zap.Int("qubits", c.NumQubits),
		zap.Int("gates", c.Len()),
		zap.Int("shots", shots),
		zap.Int("workers", e.workers))

	state := NewStateVector(c.NumQubits)
	var measured []int
	for _, g := range c.Gates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.Kind == circuit.Measure {
			measured = append(measured, g.Target)
			continue
		}
		if slices.ContainsFunc(measured, g.References) {
			return nil, fmt.Errorf("%w: %s", ErrMidCircuitMeasure, g)
		}
		if err := e.apply(ctx, state, g); err != nil {
			return nil, err
		}
	}
	e.log.Debug("circuit executed", zap.Float64("norm", state.Norm()))

	order := c.Measured()
	if len(order) == 0 {
		return NewStateResult(c.NumQubits, state.Amplitudes), nil
	}

	seed := e.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	counts := sample(state.Marginal(order), shots, seed)
	return NewCountsResult(c.NumQubits, shots, order, counts), nil
}

// apply runs one gate, splitting the index space across workers when the
// state is large enough to benefit. All workers finish before it returns. A
// cancelled context stops workers that have not started their range yet.
func (e *engine) apply(ctx context.Context, state *StateVector, g circuit.Gate) error {
	size := len(state.Amplitudes)
	if e.workers <= 1 || size < minParallelAmplitudes {
		state.ApplyGate(g)
		return nil
	}

	chunk := (size + e.workers - 1) / e.workers
	eg, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < size; lo += chunk {
		hi := min(lo+chunk, size)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			state.applyRange(g, lo, hi)
			return nil
		})
	}
	return eg.Wait()
}

// sample draws shots outcomes from probs. Outcomes are ordered before
// building the cumulative table so a fixed seed reproduces the same counts.
func sample(probs map[string]float64, shots int, seed uint64) map[string]int {
	keys := make([]string, 0, len(probs))
	for k := range probs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cumulative := make([]float64, len(keys))
	total := 0.0
	for i, k := range keys {
		total += probs[k]
		cumulative[i] = total
	}

	counts := make(map[string]int)
	if len(keys) == 0 {
		return counts
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for range shots {
		u := rng.Float64() * total
		idx := min(sort.SearchFloat64s(cumulative, u), len(keys)-1)
		counts[keys[idx]]++
	}
	return counts
}
