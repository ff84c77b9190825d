package circuit

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrUnsupportedStatement = errors.New("circuit: unsupported QASM statement")

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex    = regexp.MustCompile(`^qreg\s+\w+\[(\d+)\];?$`)
	measureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	gateRegex    = regexp.MustCompile(`^(\w+)\s+(q\[\d+\](?:\s*,\s*q\[\d+\])*)\s*;?$`)
	operandRegex = regexp.MustCompile(`q\[(\d+)\]`)
)

// qasmName returns the QASM mnemonic for a gate.
func qasmName(g Gate) string {
	switch g.Kind {
	case Hadamard:
		return "h"
	case PauliX:
		switch len(g.Controls) {
		case 0:
			return "x"
		case 1:
			return "cx"
		case 2:
			return "ccx"
		default:
			return "mcx"
		}
	case PauliZ:
		switch len(g.Controls) {
		case 0:
			return "z"
		case 1:
			return "cz"
		default:
			return "mcz"
		}
	default:
		return "measure"
	}
}

// ToQASM generates QASM 2.0 output from the circuit. Controlled gates list
// their controls first and the target last.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for _, gate := range c.Gates {
		if gate.Kind == Measure {
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Target)
			continue
		}
		sb.WriteString(qasmName(gate))
		sb.WriteString(" ")
		for _, ctrl := range gate.Controls {
			fmt.Fprintf(&sb, "q[%d], ", ctrl)
		}
		fmt.Fprintf(&sb, "q[%d];\n", gate.Target)
	}

	return sb.String()
}

// ParseQASM parses QASM text produced by ToQASM back into a circuit. The
// result is validated before it is returned.
func ParseQASM(qasm string) (*Circuit, error) {
	c := &Circuit{}

	for i, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}

		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			n, _ := strconv.Atoi(matches[1])
			c.NumQubits = n
			continue
		}

		// Measurement: "measure q[0] -> c[0];"
		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			source, _ := strconv.Atoi(matches[1])
			c.Add(M(source))
			continue
		}

		matches := gateRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("%w at line %d: %q", ErrUnsupportedStatement, i+1, line)
		}
		var qubits []int
		for _, op := range operandRegex.FindAllStringSubmatch(matches[2], -1) {
			q, _ := strconv.Atoi(op[1])
			qubits = append(qubits, q)
		}
		target := qubits[len(qubits)-1]
		controls := qubits[:len(qubits)-1]

		var base Gate
		wantControls, minControls := -1, 0 // -1 means any number of at least minControls
		switch strings.ToLower(matches[1]) {
		case "h":
			base, wantControls = H(target), 0
		case "x":
			base, wantControls = X(target), 0
		case "cx":
			base, wantControls = X(target), 1
		case "ccx":
			base, wantControls = X(target), 2
		case "mcx":
			base, minControls = X(target), 3
		case "z":
			base, wantControls = Z(target), 0
		case "cz":
			base, wantControls = Z(target), 1
		case "mcz":
			base, minControls = Z(target), 2
		default:
			return nil, fmt.Errorf("%w at line %d: %q", ErrUnsupportedStatement, i+1, line)
		}
		if wantControls >= 0 && len(controls) != wantControls {
			return nil, fmt.Errorf("%w at line %d: %s takes %d controls, got %d",
				ErrUnsupportedStatement, i+1, matches[1], wantControls, len(controls))
		}
		if len(controls) < minControls {
			return nil, fmt.Errorf("%w at line %d: %s takes at least %d controls, got %d",
				ErrUnsupportedStatement, i+1, matches[1], minControls, len(controls))
		}
		c.Add(base.ControlledBy(controls...))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
