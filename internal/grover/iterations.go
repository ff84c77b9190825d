package grover

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSolutions  = errors.New("grover: solution count must be at least 1")
	ErrIterationOverflow = errors.New("grover: iteration count overflows int")
)

// OptimalIterations returns ⌊π/4·√(2^n/solutions)⌋, the number of oracle and
// diffuser rounds that maximises the probability of measuring a marked state.
// 2^n is evaluated in floating point so large registers do not overflow.
func OptimalIterations(n, solutions int) (int, error) {
	if err := checkQubits(n); err != nil {
		return 0, err
	}
	if solutions < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSolutions, solutions)
	}

	v := math.Pi / 4 * math.Sqrt(math.Exp2(float64(n))/float64(solutions))
	if math.IsInf(v, 0) || v >= math.MaxInt {
		return 0, fmt.Errorf("%w: n=%d solutions=%d", ErrIterationOverflow, n, solutions)
	}
	return int(v), nil
}
