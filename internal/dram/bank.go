package dram

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// conflictState classifies a pending request against a bank's current
// row-buffer state.
type conflictState int

const (
	stateHit conflictState = iota
	stateMiss
	stateConflict
)

// Bank models one DRAM bank's row-buffer state machine.
type Bank struct {
	OpenRow       uint64
	NextRequest   constants.Cycle
	NextConflict  constants.Cycle
}

func newBank() *Bank {
	return &Bank{
		OpenRow:      constants.NoOpenRow,
		NextRequest:  -1,
		NextConflict: -1,
	}
}

// classify reports this bank's relationship to the given row, without
// mutating any state. Callers must capture this before issuing, since
// issue mutates OpenRow.
func (b *Bank) classify(row uint64) conflictState {
	switch {
	case b.OpenRow == constants.NoOpenRow:
		return stateMiss
	case b.OpenRow == row:
		return stateHit
	default:
		return stateConflict
	}
}
