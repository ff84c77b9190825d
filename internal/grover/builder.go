// Package grover builds the circuit fragments of Grover's search and picks
// the number of amplification rounds.
//
// A circuit over n search qubits always carries one extra auxiliary qubit at
// index n. It is prepared in |−⟩ so the oracle's controlled bit flip kicks a
// phase back onto the search register.
package grover

import (
	"errors"
	"fmt"
	"strings"

	"qgrover/internal/circuit"
)

var (
	ErrInvalidQubits     = errors.New("grover: qubit count must be at least 1")
	ErrInvalidIterations = errors.New("grover: iterations must not be negative")
	ErrInvalidTarget     = errors.New("grover: target does not fit the search register")
)

// MaxTargetQubits bounds the register width a uint64 target can address.
const MaxTargetQubits = 64

func checkQubits(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQubits, n)
	}
	return nil
}

func checkTarget(n int, target uint64) error {
	if n > MaxTargetQubits {
		return fmt.Errorf("%w: %d qubits exceeds %d", ErrInvalidTarget, n, MaxTargetQubits)
	}
	if n < MaxTargetQubits && target>>uint(n) != 0 {
		return fmt.Errorf("%w: %b has more than %d bits", ErrInvalidTarget, target, n)
	}
	return nil
}

// AllOnes returns the target whose bitstring is n consecutive ones.
func AllOnes(n int) uint64 {
	if n >= MaxTargetQubits {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}

// Bitstring formats target as n binary digits, qubit 0 first.
func Bitstring(target uint64, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for q := range n {
		if targetBit(target, n, q) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// targetBit reports the bit of target carried by search qubit q. Qubit 0 is
// the most significant digit.
func targetBit(target uint64, n, q int) bool {
	return target>>uint(n-1-q)&1 == 1
}

func searchQubits(n int) []int {
	qubits := make([]int, n)
	for i := range qubits {
		qubits[i] = i
	}
	return qubits
}

// Superposition puts the n search qubits into uniform superposition and the
// auxiliary qubit into |−⟩.
func Superposition(n int) (*circuit.Circuit, error) {
	if err := checkQubits(n); err != nil {
		return nil, err
	}
	c := circuit.New(n + 1)
	for q := range n {
		c.Add(circuit.H(q))
	}
	c.Add(circuit.X(n), circuit.H(n))
	return c, nil
}

// Oracle marks the all-ones state with a single X on the auxiliary qubit
// controlled by every search qubit.
func Oracle(n int) (*circuit.Circuit, error) {
	if err := checkQubits(n); err != nil {
		return nil, err
	}
	c := circuit.New(n + 1)
	c.Add(circuit.X(n).ControlledBy(searchQubits(n)...))
	return c, nil
}

// OracleFor marks an arbitrary target state. Search qubits whose target bit is
// zero are flipped before and after the multi-controlled X.
func OracleFor(n int, target uint64) (*circuit.Circuit, error) {
	if err := checkQubits(n); err != nil {
		return nil, err
	}
	if err := checkTarget(n, target); err != nil {
		return nil, err
	}

	var flips []circuit.Gate
	for q := range n {
		if !targetBit(target, n, q) {
			flips = append(flips, circuit.X(q))
		}
	}

	c := circuit.New(n + 1)
	c.Add(flips...)
	c.Add(circuit.X(n).ControlledBy(searchQubits(n)...))
	c.Add(flips...)
	return c, nil
}

// Diffuser builds the inversion-about-the-mean operator on the search
// register. For n == 1 the controlled Z has no controls and is a plain Z.
func Diffuser(n int) (*circuit.Circuit, error) {
	if err := checkQubits(n); err != nil {
		return nil, err
	}
	c := circuit.New(n + 1)
	for q := range n {
		c.Add(circuit.H(q))
	}
	for q := range n {
		c.Add(circuit.X(q))
	}
	c.Add(circuit.Z(0).ControlledBy(searchQubits(n)[1:]...))
	for q := range n {
		c.Add(circuit.X(q))
	}
	for q := range n {
		c.Add(circuit.H(q))
	}
	return c, nil
}

// Grover assembles the full search circuit for the all-ones target:
// superposition, iterations rounds of oracle and diffuser, then a measurement
// on every search qubit.
func Grover(n, iterations int) (*circuit.Circuit, error) {
	oracle, err := Oracle(n)
	if err != nil {
		return nil, err
	}
	return assemble(n, iterations, oracle, true)
}

// GroverFor is Grover with an oracle marking target.
func GroverFor(n, iterations int, target uint64) (*circuit.Circuit, error) {
	oracle, err := OracleFor(n, target)
	if err != nil {
		return nil, err
	}
	return assemble(n, iterations, oracle, true)
}

// Amplify is GroverFor without the terminal measurements, leaving the final
// state available from the engine.
func Amplify(n, iterations int, target uint64) (*circuit.Circuit, error) {
	oracle, err := OracleFor(n, target)
	if err != nil {
		return nil, err
	}
	return assemble(n, iterations, oracle, false)
}

func assemble(n, iterations int, oracle *circuit.Circuit, measure bool) (*circuit.Circuit, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	superposition, err := Superposition(n)
	if err != nil {
		return nil, err
	}
	diffuser, err := Diffuser(n)
	if err != nil {
		return nil, err
	}
	round, err := circuit.Concat(oracle, diffuser)
	if err != nil {
		return nil, err
	}

	grover := circuit.New(n + 1)
	if err := grover.Append(superposition); err != nil {
		return nil, err
	}
	for range iterations {
		if err := grover.Append(round); err != nil {
			return nil, err
		}
	}
	if measure {
		for q := range n {
			grover.Add(circuit.M(q))
		}
	}
	return grover, nil
}
