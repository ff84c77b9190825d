package backend

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// amplitudeBytes is the size of one complex128 amplitude.
const amplitudeBytes = 16

type memoryProbe func() (uint64, error)

func availableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// StateBytes returns the allocation a statevector over numQubits needs.
func StateBytes(numQubits int) uint64 {
	return amplitudeBytes << uint(numQubits)
}

// checkMemory refuses registers whose statevector exceeds the memory the host
// reports as available. A failed probe is logged and does not block the run.
func (e *engine) checkMemory(numQubits int) error {
	if e.memory == nil {
		return nil
	}
	need := StateBytes(numQubits)
	avail, err := e.memory()
	if err != nil {
		e.log.Warn("memory probe failed", zap.Error(err))
		return nil
	}
	if need > avail {
		return fmt.Errorf("%w: %d qubits need %d bytes, %d available",
			ErrInsufficientMemory, numQubits, need, avail)
	}
	return nil
}
