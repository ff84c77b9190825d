package backend

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qgrover/internal/circuit"
	"qgrover/internal/grover"
)

func newEngine(t *testing.T, cfg Config) *engine {
	t.Helper()
	exec, err := New(cfg)
	require.NoError(t, err)
	e, ok := exec.(*engine)
	require.True(t, ok)
	e.memory = func() (uint64, error) { return math.MaxUint64, nil }
	return e
}

func TestNewResolvesBackends(t *testing.T) {
	tests := []struct {
		cfg     Config
		name    string
		workers int
	}{
		{Config{}, "numpy", 1},
		{Config{Backend: "numpy"}, "numpy", 1},
		{Config{Backend: "parallel", Platform: "single"}, "parallel", 1},
	}
	for _, tt := range tests {
		e := newEngine(t, tt.cfg)
		assert.Equal(t, tt.name, e.Name())
		assert.Equal(t, tt.cfg.Platform, e.Platform())
		assert.Equal(t, tt.workers, e.workers)
	}

	e := newEngine(t, Config{Backend: "parallel", Platform: "cpu"})
	assert.GreaterOrEqual(t, e.workers, 1)
}

func TestNewConfigurationErrors(t *testing.T) {
	_, err := New(Config{Backend: "qiskit"})
	require.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), "numpy")

	_, err = New(Config{Backend: "numpy", Platform: "cuda"})
	require.ErrorIs(t, err, ErrUnknownPlatform)
	assert.Contains(t, err.Error(), "takes no platform")

	_, err = New(Config{Backend: "parallel", Platform: "gpu"})
	require.ErrorIs(t, err, ErrUnknownPlatform)
	assert.Contains(t, err.Error(), "cpu, single")
}

func TestNamesAndPlatforms(t *testing.T) {
	assert.Equal(t, []string{"numpy", "parallel"}, Names())
	assert.Empty(t, Platforms("numpy"))
	assert.Equal(t, []string{"cpu", "single"}, Platforms("parallel"))
}

func TestExecuteGroverFindsTarget(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, Config{Backend: name, Seed: 7})
			iterations, err := grover.OptimalIterations(3, 1)
			require.NoError(t, err)
			c, err := grover.Grover(3, iterations)
			require.NoError(t, err)

			res, err := e.Execute(context.Background(), c, 1000)
			require.NoError(t, err)

			assert.Equal(t, 1000, res.Shots())
			assert.Equal(t, []int{0, 1, 2}, res.Measured())
			total := 0
			for _, n := range res.Frequencies() {
				total += n
			}
			assert.Equal(t, 1000, total)
			// P(111) = sin²(5θ) ≈ 0.945 after two rounds.
			assert.Greater(t, res.Frequency("111"), 850)

			_, err = res.State()
			assert.ErrorIs(t, err, ErrNoState)
		})
	}
}

func TestExecuteArbitraryTarget(t *testing.T) {
	e := newEngine(t, Config{Seed: 11})
	c, err := grover.GroverFor(4, 3, 0b0110)
	require.NoError(t, err)

	res, err := e.Execute(context.Background(), c, 1000)
	require.NoError(t, err)
	assert.Greater(t, res.Frequency("0110"), 900)
}

func TestExecuteSeedReproducible(t *testing.T) {
	c, err := grover.Grover(3, 1)
	require.NoError(t, err)

	a, err := newEngine(t, Config{Seed: 42}).Execute(context.Background(), c, 500)
	require.NoError(t, err)
	b, err := newEngine(t, Config{Seed: 42}).Execute(context.Background(), c, 500)
	require.NoError(t, err)
	assert.Equal(t, a.Frequencies(), b.Frequencies())
}

func TestParallelMatchesSequential(t *testing.T) {
	// 13 qubits is above the parallel threshold.
	c, err := grover.Amplify(12, 3, 0b101010101010)
	require.NoError(t, err)

	seq, err := newEngine(t, Config{Backend: "numpy"}).Execute(context.Background(), c, 0)
	require.NoError(t, err)
	par, err := newEngine(t, Config{Backend: "parallel", Platform: "cpu"}).Execute(context.Background(), c, 0)
	require.NoError(t, err)

	a, err := seq.State()
	require.NoError(t, err)
	b, err := par.State()
	require.NoError(t, err)
	require.Len(t, b, len(a))
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("amp[%d]: sequential %v, parallel %v", i, a[i], b[i])
		}
	}
}

func TestExecuteUnmeasuredState(t *testing.T) {
	c, err := grover.Amplify(2, 1, grover.AllOnes(2))
	require.NoError(t, err)

	res, err := newEngine(t, Config{}).Execute(context.Background(), c, 1000)
	require.NoError(t, err)
	assert.Empty(t, res.Frequencies())
	assert.Equal(t, 3, res.NumQubits())

	state, err := res.State()
	require.NoError(t, err)
	require.Len(t, state, 8)
	norm := 0.0
	for _, amp := range state {
		norm += real(amp * cmplx.Conj(amp))
	}
	assert.InDelta(t, 1.0, norm, 1e-9)

	// State returns a copy.
	state[0] = 42
	again, _ := res.State()
	assert.NotEqual(t, complex128(42), again[0])
}

func TestFrequencyMissingKeyIsZero(t *testing.T) {
	c := circuit.New(2).Add(circuit.X(0), circuit.M(0), circuit.M(1))
	res, err := newEngine(t, Config{Seed: 1}).Execute(context.Background(), c, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Frequency("10"))
	assert.Equal(t, 0, res.Frequency("01"))
	assert.Equal(t, 0, res.Frequency("111"))
}

func TestExecuteZeroShots(t *testing.T) {
	c, _ := grover.Grover(2, 1)
	res, err := newEngine(t, Config{}).Execute(context.Background(), c, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Frequencies())
	assert.Equal(t, 0, res.Frequency("11"))
}

func TestExecuteErrors(t *testing.T) {
	e := newEngine(t, Config{})
	ctx := context.Background()

	_, err := e.Execute(ctx, circuit.New(1).Add(circuit.M(0)), -1)
	assert.ErrorIs(t, err, ErrInvalidShots)

	_, err = e.Execute(ctx, circuit.New(0), 10)
	assert.ErrorIs(t, err, ErrNoQubits)

	_, err = e.Execute(ctx, circuit.New(MaxQubits+1), 10)
	assert.ErrorIs(t, err, ErrTooManyQubits)

	_, err = e.Execute(ctx, circuit.New(2).Add(circuit.H(2)), 10)
	assert.ErrorIs(t, err, circuit.ErrQubitOutOfRange)

	mid := circuit.New(2).Add(circuit.H(0), circuit.M(0), circuit.X(1).ControlledBy(0))
	_, err = e.Execute(ctx, mid, 10)
	assert.ErrorIs(t, err, ErrMidCircuitMeasure)

	twice := circuit.New(2).Add(circuit.X(0), circuit.M(0), circuit.M(0))
	_, err = e.Execute(ctx, twice, 10)
	assert.ErrorIs(t, err, circuit.ErrRepeatedMeasure)
}

func TestApplyStopsWorkersOnCancel(t *testing.T) {
	e := newEngine(t, Config{Backend: "parallel"})
	e.workers = 4
	state := NewStateVector(13)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.apply(ctx, state, circuit.H(0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, complex(1, 0), state.Amplitudes[0])

	require.NoError(t, e.apply(context.Background(), state, circuit.H(0)))
	assert.InDelta(t, 1/math.Sqrt2, real(state.Amplitudes[0]), 1e-12)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := grover.Grover(3, 2)
	_, err := newEngine(t, Config{}).Execute(ctx, c, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryGuard(t *testing.T) {
	e := newEngine(t, Config{})
	c, _ := grover.Grover(3, 1)

	e.memory = func() (uint64, error) { return StateBytes(4) - 1, nil }
	_, err := e.Execute(context.Background(), c, 10)
	assert.ErrorIs(t, err, ErrInsufficientMemory)

	e.memory = func() (uint64, error) { return 0, errors.New("memory stats unavailable") }
	_, err = e.Execute(context.Background(), c, 10)
	assert.NoError(t, err)
}

func TestStateBytes(t *testing.T) {
	assert.Equal(t, uint64(16), StateBytes(0))
	assert.Equal(t, uint64(16*1024), StateBytes(10))
}
