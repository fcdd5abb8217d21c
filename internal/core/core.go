// Package core implements the out-of-order CPU core model: a reorder
// buffer, an MSHR table coalescing in-flight reads, and the fixed
// retire/memory/issue tick order, grounded directly on the original
// Core::tick/tick_retire/tick_mem/tick_issue split.
package core

import (
	"errors"
	"io"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
	"github.com/ehrlich-b/go-oocsim/internal/logging"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
	"github.com/ehrlich-b/go-oocsim/internal/mshr"
	"github.com/ehrlich-b/go-oocsim/internal/respqueue"
	"github.com/ehrlich-b/go-oocsim/internal/rob"
	"github.com/ehrlich-b/go-oocsim/internal/simerr"
)

// clock is the minimal "now" contract the Core needs from the shared
// simulation clock.
type clock interface {
	Now() constants.Cycle
}

// Stats receives retirement and issue events for metrics collection.
// Set via SetObserver; nil-safe.
type Stats interface {
	ObserveRetire(count int)
	ObserveIssue(kind memif.Kind)
	ObserveRobOccupancy(occupancy, capacity int)
	ObserveReadLatency(cycles constants.Cycle)
}

// Core is the out-of-order execution model. It implements memif.Responder
// so the DRAM model can deliver read responses back to it.
type Core struct {
	sim    clock
	logger *logging.Logger
	mem    memif.Requester
	trace  memif.TraceProvider

	rob  *rob.ReorderBuffer
	mshr *mshr.Table
	resp *respqueue.Queue

	width int

	// pendingPrec counts down the arithmetic-instruction units preceding
	// the current trace record's memory reference; 0 means the next
	// Issue call should perform the memory reference itself.
	pendingPrec uint64
	haveRecord  bool
	record      memif.TraceRecord
	traceDone   bool

	insnsRetired uint64
	stats        Stats
}

// New constructs a Core. robSize and width must be positive; mem and
// trace must be non-nil. logger may be nil.
func New(sim clock, mem memif.Requester, trace memif.TraceProvider, robSize, width int, logger *logging.Logger) *Core {
	return &Core{
		sim:    sim,
		logger: logger,
		mem:    mem,
		trace:  trace,
		rob:    rob.New(robSize),
		mshr:   mshr.New(),
		resp:   respqueue.New(),
		width:  width,
	}
}

// SetObserver attaches a metrics observer; pass nil to detach.
func (c *Core) SetObserver(stats Stats) {
	c.stats = stats
}

// InsnsRetired returns the cumulative count of retired instructions,
// including both arithmetic units and memory references.
func (c *Core) InsnsRetired() uint64 { return c.insnsRetired }

// Idle reports whether the Core has exhausted its trace and has no
// in-flight work left to drain, i.e. the simulation can stop early.
func (c *Core) Idle() bool {
	return c.traceDone && !c.haveRecord && c.rob.Empty() && c.mshr.Outstanding() == 0 && c.resp.Len() == 0
}

// Deliver implements memif.Responder. It must only enqueue; the memory
// phase of the next Tick is what actually resolves ROB/MSHR state, since
// Deliver is called synchronously from inside the DRAM's own Tick.
func (c *Core) Deliver(cycle constants.Cycle, resp memif.Response) {
	c.resp.Push(cycle, resp)
}

// Tick runs one Core cycle: retire, then drain due memory responses, then
// issue, in that fixed order (core.rs's tick_retire/tick_mem/tick_issue).
func (c *Core) Tick() {
	now := c.sim.Now()
	c.tickRetire(now)
	c.tickMem(now)
	c.tickIssue(now)
	if c.stats != nil {
		c.stats.ObserveRobOccupancy(c.rob.Occupancy(), c.rob.Capacity())
	}
}

func (c *Core) tickRetire(now constants.Cycle) {
	n := c.rob.Retire(now, c.width)
	c.insnsRetired += uint64(n)
	if n > 0 && c.stats != nil {
		c.stats.ObserveRetire(n)
	}
}

func (c *Core) tickMem(now constants.Cycle) {
	for {
		item, ok := c.resp.Peek()
		if !ok || item.Delivery > now {
			return
		}
		item, _ = c.resp.Pop()

		entry, ok := c.mshr.Take(item.Response.Addr)
		if !ok {
			err := simerr.AtCycle("core.tickMem", simerr.CodeInvariant, now,
				"response delivered for address with no MSHR entry")
			if c.logger != nil {
				c.logger.Error(err.Error())
			}
			panic(err)
		}
		for _, slot := range entry.Waiters {
			c.rob.MarkReady(slot, now)
		}
		if c.stats != nil {
			c.stats.ObserveReadLatency(now - entry.IssuedAt)
		}
	}
}

// tickIssue fills up to width slots per cycle, as long as the ROB has
// room. Each slot consumes either one unit of the current record's
// arithmetic precursor count or, once that count is exhausted, the
// record's memory reference itself, advancing to the next trace record.
func (c *Core) tickIssue(now constants.Cycle) {
	for i := 0; i < c.width; i++ {
		if c.rob.Full() {
			return
		}
		if !c.haveRecord {
			if c.traceDone {
				return
			}
			rec, err := c.trace.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					c.traceDone = true
					return
				}
				wrapped := simerr.Wrap("core.tickIssue", simerr.CodeTraceParse, err)
				if c.logger != nil {
					c.logger.Error(wrapped.Error())
				}
				panic(wrapped)
			}
			c.record = rec
			c.pendingPrec = rec.Prec
			c.haveRecord = true
		}

		if c.pendingPrec > 0 {
			c.pendingPrec--
			c.rob.Issue(now)
			continue
		}

		c.issueMemoryReference(now)
		c.haveRecord = false
	}
}

func (c *Core) issueMemoryReference(now constants.Cycle) {
	rec := c.record
	if rec.IsWrite {
		slot := c.rob.Issue(now)
		if c.logger != nil {
			c.logger.WithRequest(uint64(slot), "WRITE").Debug("issuing memory reference", "addr", rec.Addr)
		}
		c.mem.Submit(memif.Request{Addr: rec.Addr, Kind: memif.Write})
		if c.stats != nil {
			c.stats.ObserveIssue(memif.Write)
		}
		return
	}

	slot := c.rob.Issue(constants.CycleInfinity)
	entry, _ := c.mshr.GetOrCreate(rec.Addr)
	entry.Waiters = append(entry.Waiters, slot)
	// Gate the actual DRAM submission on the MSHR entry's own issued
	// flag, not on whether this call created the entry, matching the
	// original core's issue_mshr/Mshr.issued check: every waiter still
	// needs to be recorded even on a coalesced hit.
	if !entry.Issued {
		entry.IssuedAt = now
		entry.Issued = true
		if c.logger != nil {
			c.logger.WithRequest(uint64(slot), "READ").Debug("issuing memory reference", "addr", rec.Addr)
		}
		c.mem.Submit(memif.Request{Addr: rec.Addr, Kind: memif.Read, Responder: c})
		if c.stats != nil {
			c.stats.ObserveIssue(memif.Read)
		}
	}
}
