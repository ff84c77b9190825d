package backend

import (
	"errors"
	"maps"
	"slices"
)

var ErrNoState = errors.New("backend: measured circuits do not expose a state")

// Result is the outcome of one execution. Measured circuits carry frequencies;
// unmeasured circuits carry the final amplitudes.
type Result struct {
	numQubits int
	shots     int
	measured  []int
	counts    map[string]int
	state     []complex128
}

// NumQubits returns the register size of the executed circuit.
func (r *Result) NumQubits() int { return r.numQubits }

// Shots returns the number of samples drawn.
func (r *Result) Shots() int { return r.shots }

// Measured returns the measured qubits in bitstring order.
func (r *Result) Measured() []int { return slices.Clone(r.measured) }

// Frequencies returns a copy of the bitstring counts.
func (r *Result) Frequencies() map[string]int {
	return maps.Clone(r.counts)
}

// Frequency returns how often bitstring was observed. A bitstring no shot
// produced counts as zero.
func (r *Result) Frequency(bitstring string) int {
	return r.counts[bitstring]
}

// State returns a copy of the final amplitudes.
func (r *Result) State() ([]complex128, error) {
	if r.state == nil {
		return nil, ErrNoState
	}
	return slices.Clone(r.state), nil
}

// NewCountsResult builds the result of a measured execution. counts is kept
// as given.
func NewCountsResult(numQubits, shots int, measured []int, counts map[string]int) *Result {
	return &Result{numQubits: numQubits, shots: shots, measured: slices.Clone(measured), counts: counts}
}

// NewStateResult builds the result of an unmeasured execution.
func NewStateResult(numQubits int, state []complex128) *Result {
	return &Result{numQubits: numQubits, state: state}
}
