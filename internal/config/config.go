// Package config validates and normalizes the public oocsim.Config into
// the concrete topology and timing parameters the Core and DRAM models
// are constructed with, filling in unset fields from defaults.
//
// This plays the same role the teacher's internal/ctrl plays translating
// a DeviceParams into kernel-facing structures before anything touches
// the kernel: catch bad configuration before the engine starts.
package config

import (
	"fmt"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
)

// Raw mirrors the public oocsim.Config fields this package normalizes.
// It is a plain struct (not the public type itself) to keep internal/config
// free of a dependency on the root package.
type Raw struct {
	SimCycles        int64
	ChannelBits      int
	BankBits         int
	SuperscalarWidth int
	RobSize          int
	ClockDivider     int64
	TCCD             int64
	TCL              int64
	TRCD             int64
	TRP              int64
	TRAS             int64
}

// Normalized holds the validated, defaulted configuration.
type Normalized struct {
	SimCycles        constants.Cycle
	ChannelBits      uint
	BankBits         uint
	SuperscalarWidth int
	RobSize          int
	ClockDivider     constants.Cycle
	TCCD             constants.Cycle
	TCL              constants.Cycle
	TRCD             constants.Cycle
	TRP              constants.Cycle
	TRAS             constants.Cycle
}

// ValidationError reports a single bad field, identified by name.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Msg)
}

// Normalize defaults every zero-valued field and validates ranges,
// returning a *ValidationError describing the first problem found.
// ChannelBits and BankBits are defaulted together, only when both are
// zero; if either is set, a zero in the other is kept.
func Normalize(raw Raw) (Normalized, error) {
	n := Normalized{
		SimCycles:        constants.Cycle(raw.SimCycles),
		ChannelBits:      uint(raw.ChannelBits),
		BankBits:         uint(raw.BankBits),
		SuperscalarWidth: raw.SuperscalarWidth,
		RobSize:          raw.RobSize,
		ClockDivider:     constants.Cycle(raw.ClockDivider),
		TCCD:             constants.Cycle(raw.TCCD),
		TCL:              constants.Cycle(raw.TCL),
		TRCD:             constants.Cycle(raw.TRCD),
		TRP:              constants.Cycle(raw.TRP),
		TRAS:             constants.Cycle(raw.TRAS),
	}

	if n.SimCycles == 0 {
		n.SimCycles = constants.DefaultSimCycles
	}
	if raw.ChannelBits == 0 && raw.BankBits == 0 {
		n.ChannelBits = constants.DefaultChannelBits
		n.BankBits = constants.DefaultBankBits
	}
	if n.SuperscalarWidth == 0 {
		n.SuperscalarWidth = constants.DefaultSuperscalarWidth
	}
	if n.RobSize == 0 {
		n.RobSize = constants.DefaultRobSize
	}
	if n.ClockDivider == 0 {
		n.ClockDivider = constants.DefaultClockDivider
	}
	if n.TCCD == 0 {
		n.TCCD = constants.DefaultTCCD
	}
	if n.TCL == 0 {
		n.TCL = constants.DefaultTCL
	}
	if n.TRCD == 0 {
		n.TRCD = constants.DefaultTRCD
	}
	if n.TRP == 0 {
		n.TRP = constants.DefaultTRP
	}
	if n.TRAS == 0 {
		n.TRAS = constants.DefaultTRAS
	}

	if n.SimCycles <= 0 {
		return n, &ValidationError{"SimCycles", "must be positive"}
	}
	if n.SuperscalarWidth <= 0 {
		return n, &ValidationError{"SuperscalarWidth", "must be positive"}
	}
	if n.RobSize <= 0 {
		return n, &ValidationError{"RobSize", "must be positive"}
	}
	if n.ClockDivider <= 0 {
		return n, &ValidationError{"ClockDivider", "must be positive"}
	}
	if int(n.ChannelBits+n.BankBits) > constants.MaxTopologyBits {
		return n, &ValidationError{
			"ChannelBits+BankBits",
			fmt.Sprintf("must be <= %d to leave a non-degenerate row field", constants.MaxTopologyBits),
		}
	}
	for _, t := range []struct {
		name string
		val  constants.Cycle
	}{{"TCCD", n.TCCD}, {"TCL", n.TCL}, {"TRCD", n.TRCD}, {"TRP", n.TRP}, {"TRAS", n.TRAS}} {
		if t.val <= 0 {
			return n, &ValidationError{t.name, "must be positive"}
		}
	}

	return n, nil
}
