// Package plot turns a Grover statevector into per-state amplitudes and draws
// them as a terminal bar chart.
package plot

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

var ErrBadStateLength = errors.New("plot: state length must be a power of two of at least 2")

// Amplitudes recovers the real amplitude of every search basis state from a
// state whose last qubit is the auxiliary qubit in |−⟩. The pair (2i, 2i+1)
// holds basis state i with the auxiliary qubit at |0⟩ and |1⟩.
func Amplitudes(state []complex128) ([]float64, error) {
	if len(state) < 2 || bits.OnesCount(uint(len(state))) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadStateLength, len(state))
	}
	amps := make([]float64, 0, len(state)/2)
	for i := 0; i < len(state); i += 2 {
		amps = append(amps, (1/math.Sqrt2)*(real(state[i])-real(state[i+1])))
	}
	return amps, nil
}

// Labels returns the n-digit binary label of every basis state of an n-qubit
// register.
func Labels(n int) []string {
	if n < 0 {
		return nil
	}
	labels := make([]string, 1<<n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%0*b", n, i)
	}
	return labels
}

// LabelsFor returns the labels matching an amplitude slice.
func LabelsFor(amps []float64) []string {
	return Labels(bits.Len(uint(len(amps))) - 1)
}
