// Package oocsim is a cycle-accurate, single-threaded discrete-event
// simulator of an out-of-order CPU core driving a multi-channel,
// multi-bank DRAM, replaying a USIMM-format memory trace.
package oocsim

import (
	"context"

	"github.com/ehrlich-b/go-oocsim/internal/clock"
	"github.com/ehrlich-b/go-oocsim/internal/config"
	"github.com/ehrlich-b/go-oocsim/internal/core"
	"github.com/ehrlich-b/go-oocsim/internal/dram"
	"github.com/ehrlich-b/go-oocsim/internal/logging"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
)

// Config is the public, unvalidated simulation configuration. Zero
// fields take the defaults documented on the internal/constants package,
// except that ChannelBits and BankBits are defaulted only when both are
// zero.
type Config struct {
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

// Result summarizes a completed Run.
type Result struct {
	CyclesRun    Cycle
	InsnsRetired uint64
	Metrics      Snapshot
}

// Simulator wires together the Clock, Core, Dram, and Metrics for one run.
type Simulator struct {
	cfg     config.Normalized
	clk     *clock.Clock
	dram    *dram.Dram
	core    *core.Core
	metrics *Metrics
	logger  *logging.Logger
}

// New validates cfg, constructs the Clock/Core/Dram pipeline wired to
// trace, and attaches a fresh Metrics collector. logger may be nil, in
// which case logging.Default() is used.
func New(cfg Config, trace memif.TraceProvider, logger *logging.Logger) (*Simulator, error) {
	normalized, err := config.Normalize(config.Raw{
		SimCycles:        cfg.SimCycles,
		ChannelBits:      cfg.ChannelBits,
		BankBits:         cfg.BankBits,
		SuperscalarWidth: cfg.SuperscalarWidth,
		RobSize:          cfg.RobSize,
		ClockDivider:     cfg.ClockDivider,
		TCCD:             cfg.TCCD,
		TCL:              cfg.TCL,
		TRCD:             cfg.TRCD,
		TRP:              cfg.TRP,
		TRAS:             cfg.TRAS,
	})
	if err != nil {
		return nil, WrapError("oocsim.New", CodeConfig, err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	clk := clock.New()
	timing := dram.Timing{
		ClockDivider: normalized.ClockDivider,
		TCCD:         normalized.TCCD,
		TCL:          normalized.TCL,
		TRCD:         normalized.TRCD,
		TRP:          normalized.TRP,
		TRAS:         normalized.TRAS,
	}
	d := dram.New(clk, normalized.ChannelBits, normalized.BankBits, timing, logger)
	c := core.New(clk, d, trace, normalized.RobSize, normalized.SuperscalarWidth, logger)

	metrics := NewMetrics()
	obs := NewMetricsObserver(metrics)
	c.SetObserver(&coreStatsAdapter{obs})
	d.SetObserver(&dramObserverAdapter{obs})

	return &Simulator{cfg: normalized, clk: clk, dram: d, core: c, metrics: metrics, logger: logger}, nil
}

// Metrics returns the Simulator's live metrics collector. Safe to read
// (via Snapshot) at any point, including mid-run.
func (s *Simulator) Metrics() *Metrics { return s.metrics }

// Run advances the simulation one cycle at a time — Core.Tick then
// Dram.Tick, per cycle, in that order — until SimCycles is reached, the
// trace is exhausted and every in-flight reference has drained, or ctx is
// canceled. ctx is polled every 4096 cycles rather than every cycle, to
// keep cancellation latency bounded without making it the hot path.
func (s *Simulator) Run(ctx context.Context) (Result, error) {
	const ctxPollMask = 4095
	for s.clk.Now() < s.cfg.SimCycles {
		if int64(s.clk.Now())&ctxPollMask == 0 {
			select {
			case <-ctx.Done():
				return s.result(), ctx.Err()
			default:
			}
		}

		s.core.Tick()
		s.dram.Tick()
		if s.core.Idle() {
			break
		}
		s.clk.Advance()
	}
	s.metrics.Stop()
	return s.result(), nil
}

func (s *Simulator) result() Result {
	return Result{
		CyclesRun:    s.clk.Now(),
		InsnsRetired: s.core.InsnsRetired(),
		Metrics:      s.metrics.Snapshot(),
	}
}

// coreStatsAdapter narrows Observer to the core.Stats contract.
type coreStatsAdapter struct{ obs Observer }

func (a *coreStatsAdapter) ObserveRetire(count int)      { a.obs.ObserveRetire(count) }
func (a *coreStatsAdapter) ObserveIssue(kind memif.Kind) { a.obs.ObserveIssue(kind) }
func (a *coreStatsAdapter) ObserveRobOccupancy(occupancy, capacity int) {
	a.obs.ObserveRobOccupancy(occupancy, capacity)
}
func (a *coreStatsAdapter) ObserveReadLatency(cycles Cycle) {
	a.obs.ObserveReadLatencyCycles(uint64(cycles))
}

// dramObserverAdapter narrows Observer to the dram.Observer contract.
type dramObserverAdapter struct{ obs Observer }

func (a *dramObserverAdapter) ObserveIssue(_ memif.Kind, state string) {
	a.obs.ObserveRowState(state)
}
