package backend

import (
	"math"
	"math/cmplx"

	"qgrover/internal/circuit"
)

// StateVector holds the 2^NumQubits amplitudes of the register. Qubit 0 is the
// most significant bit of a basis index, so the last qubit alternates fastest.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0…0⟩ over numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]complex128, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// bit returns the index mask of qubit q.
func (s *StateVector) bit(q int) int {
	return 1 << (s.NumQubits - 1 - q)
}

func (s *StateVector) controlMask(controls []int) int {
	mask := 0
	for _, c := range controls {
		mask |= s.bit(c)
	}
	return mask
}

// ApplyGate applies g to every basis index.
func (s *StateVector) ApplyGate(g circuit.Gate) {
	s.applyRange(g, 0, len(s.Amplitudes))
}

// applyRange applies g to the basis indices in [lo, hi). Pair kernels act
// only from the index whose target bit is clear, so disjoint ranges never
// touch the same pair and may run concurrently.
func (s *StateVector) applyRange(g circuit.Gate, lo, hi int) {
	ctrl := s.controlMask(g.Controls)
	switch g.Kind {
	case circuit.Hadamard:
		s.applyH(g.Target, ctrl, lo, hi)
	case circuit.PauliX:
		s.applyX(g.Target, ctrl, lo, hi)
	case circuit.PauliZ:
		s.applyZ(g.Target, ctrl, lo, hi)
	case circuit.Measure:
	}
}

func (s *StateVector) applyH(q, ctrl, lo, hi int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := s.bit(q)
	for i := lo; i < hi; i++ {
		if i&bit == 0 && i&ctrl == ctrl {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

func (s *StateVector) applyX(q, ctrl, lo, hi int) {
	bit := s.bit(q)
	for i := lo; i < hi; i++ {
		if i&bit == 0 && i&ctrl == ctrl {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q, ctrl, lo, hi int) {
	bit := s.bit(q)
	for i := lo; i < hi; i++ {
		if i&bit != 0 && i&ctrl == ctrl {
			s.Amplitudes[i] *= -1
		}
	}
}

// Probability returns |amplitude|² of basis index i.
func (s *StateVector) Probability(i int) float64 {
	amp := s.Amplitudes[i]
	return real(amp * cmplx.Conj(amp))
}

// Norm returns the sum of all basis probabilities.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for i := range s.Amplitudes {
		total += s.Probability(i)
	}
	return total
}

// outcome formats the measured qubits of basis index i as a bitstring in the
// order they were measured.
func (s *StateVector) outcome(i int, measured []int) string {
	buf := make([]byte, len(measured))
	for k, q := range measured {
		if i&s.bit(q) != 0 {
			buf[k] = '1'
		} else {
			buf[k] = '0'
		}
	}
	return string(buf)
}

// Marginal returns the probability of each bitstring over the measured
// qubits, omitting outcomes with zero probability.
func (s *StateVector) Marginal(measured []int) map[string]float64 {
	probs := make(map[string]float64)
	for i := range s.Amplitudes {
		p := s.Probability(i)
		if p < 1e-15 {
			continue
		}
		probs[s.outcome(i, measured)] += p
	}
	return probs
}
