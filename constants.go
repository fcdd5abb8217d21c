package oocsim

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// Cycle re-exports internal/constants.Cycle for callers who want to talk
// about simulation time without reaching into an internal package.
type Cycle = constants.Cycle

// Re-exported defaults, mirroring the teacher's constants.go re-export.
const (
	DefaultClockDivider     = constants.DefaultClockDivider
	DefaultTCCD             = constants.DefaultTCCD
	DefaultTCL              = constants.DefaultTCL
	DefaultTRCD             = constants.DefaultTRCD
	DefaultTRP              = constants.DefaultTRP
	DefaultTRAS             = constants.DefaultTRAS
	DefaultChannelBits      = constants.DefaultChannelBits
	DefaultBankBits         = constants.DefaultBankBits
	DefaultSuperscalarWidth = constants.DefaultSuperscalarWidth
	DefaultRobSize          = constants.DefaultRobSize
	DefaultSimCycles        = constants.DefaultSimCycles
)
