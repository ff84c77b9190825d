package circuit

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrQubitMismatch   = errors.New("circuit: qubit count mismatch")
	ErrQubitOutOfRange = errors.New("circuit: qubit index out of range")
	ErrControlOverlap  = errors.New("circuit: control set overlaps target or repeats")
	ErrRepeatedMeasure = errors.New("circuit: qubit measured more than once")
)

// Kind identifies the operation a gate performs.
type Kind int

const (
	Hadamard Kind = iota
	PauliX
	PauliZ
	Measure
)

func (k Kind) String() string {
	switch k {
	case Hadamard:
		return "H"
	case PauliX:
		return "X"
	case PauliZ:
		return "Z"
	case Measure:
		return "M"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gate is a single operation on a target qubit, optionally conditioned on
// every qubit in Controls being |1⟩.
type Gate struct {
	Kind     Kind
	Target   int
	Controls []int // nil for an uncontrolled gate
}

func H(q int) Gate { return Gate{Kind: Hadamard, Target: q} }
func X(q int) Gate { return Gate{Kind: PauliX, Target: q} }
func Z(q int) Gate { return Gate{Kind: PauliZ, Target: q} }
func M(q int) Gate { return Gate{Kind: Measure, Target: q} }

// ControlledBy returns a copy of g controlled by qubits. An empty control set
// yields the plain gate, so a multi-controlled gate over zero controls
// degrades naturally.
func (g Gate) ControlledBy(qubits ...int) Gate {
	if g.Kind == Measure {
		panic("circuit: measurement cannot be controlled")
	}
	if len(qubits) == 0 {
		g.Controls = nil
		return g
	}
	g.Controls = slices.Clone(qubits)
	return g
}

// IsControlled reports whether the gate has at least one control qubit.
func (g Gate) IsControlled() bool {
	return len(g.Controls) > 0
}

// References reports whether the gate touches the given qubit.
func (g Gate) References(qubit int) bool {
	return g.Target == qubit || slices.Contains(g.Controls, qubit)
}

func (g Gate) String() string {
	if len(g.Controls) == 0 {
		return fmt.Sprintf("%s(%d)", g.Kind, g.Target)
	}
	return fmt.Sprintf("C%v-%s(%d)", g.Controls, g.Kind, g.Target)
}

// Circuit is an ordered sequence of gates over a fixed number of qubits.
type Circuit struct {
	NumQubits int
	Gates     []Gate
}

// New returns an empty circuit over n qubits.
func New(n int) *Circuit {
	return &Circuit{NumQubits: n}
}

// Add appends gates to the circuit and returns it for chaining.
func (c *Circuit) Add(gates ...Gate) *Circuit {
	c.Gates = append(c.Gates, gates...)
	return c
}

// Append concatenates other onto c in place.
func (c *Circuit) Append(other *Circuit) error {
	if other.NumQubits != c.NumQubits {
		return fmt.Errorf("%w: %d vs %d", ErrQubitMismatch, c.NumQubits, other.NumQubits)
	}
	c.Gates = append(c.Gates, other.Gates...)
	return nil
}

// Concat returns a new circuit holding a's gates followed by b's. Neither
// operand is modified.
func Concat(a, b *Circuit) (*Circuit, error) {
	out := a.Clone()
	if err := out.Append(b); err != nil {
		return nil, err
	}
	return out, nil
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	gates := make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		g.Controls = slices.Clone(g.Controls)
		gates[i] = g
	}
	return &Circuit{NumQubits: c.NumQubits, Gates: gates}
}

// Len returns the number of gates.
func (c *Circuit) Len() int {
	return len(c.Gates)
}

// Measured returns the measured qubits in the order their measurements appear.
func (c *Circuit) Measured() []int {
	var qubits []int
	for _, g := range c.Gates {
		if g.Kind == Measure {
			qubits = append(qubits, g.Target)
		}
	}
	return qubits
}

// Count returns how many gates of the given kind the circuit holds.
func (c *Circuit) Count(kind Kind) int {
	n := 0
	for _, g := range c.Gates {
		if g.Kind == kind {
			n++
		}
	}
	return n
}

// Validate checks that every gate addresses qubits inside the circuit, that
// no gate lists its target or a repeated qubit among its controls, and that
// each qubit is measured at most once.
func (c *Circuit) Validate() error {
	inRange := func(q int) bool { return q >= 0 && q < c.NumQubits }
	measured := make(map[int]bool)
	for i, g := range c.Gates {
		if !inRange(g.Target) {
			return fmt.Errorf("%w: gate %d %s on %d qubits", ErrQubitOutOfRange, i, g, c.NumQubits)
		}
		if g.Kind == Measure {
			if measured[g.Target] {
				return fmt.Errorf("%w: gate %d %s", ErrRepeatedMeasure, i, g)
			}
			measured[g.Target] = true
		}
		seen := make(map[int]bool, len(g.Controls))
		for _, ctrl := range g.Controls {
			if !inRange(ctrl) {
				return fmt.Errorf("%w: gate %d %s on %d qubits", ErrQubitOutOfRange, i, g, c.NumQubits)
			}
			if ctrl == g.Target || seen[ctrl] {
				return fmt.Errorf("%w: gate %d %s", ErrControlOverlap, i, g)
			}
			seen[ctrl] = true
		}
	}
	return nil
}
