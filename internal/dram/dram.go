// Package dram implements the per-channel, per-bank DRAM model: address
// decoding, FR-FCFS-style arbitration, row-buffer state tracking, and
// timing-delay accounting for both reads and writes.
package dram

import (
	"fmt"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
	"github.com/ehrlich-b/go-oocsim/internal/logging"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
	"github.com/ehrlich-b/go-oocsim/internal/simerr"
)

// Timing holds the DRAM timing constants, expressed in DRAM clocks.
type Timing struct {
	ClockDivider constants.Cycle
	TCCD         constants.Cycle
	TCL          constants.Cycle
	TRCD         constants.Cycle
	TRP          constants.Cycle
	TRAS         constants.Cycle
}

// clock is the minimal "now" contract the DRAM model needs from the
// shared simulation clock.
type clock interface {
	Now() constants.Cycle
}

// Dram is the DRAM channel/bank model. It implements memif.Requester.
type Dram struct {
	sim          clock
	logger       *logging.Logger
	channelBits  uint
	bankBits     uint
	bankLSB      uint
	rowLSB       uint
	timing       Timing
	channels     []*Channel

	// observer hooks, set via SetObserver; nil-safe.
	observer Observer
}

// Observer receives classification events for metrics collection. A nil
// Observer (the default) disables observation.
type Observer interface {
	ObserveIssue(kind memif.Kind, state string)
}

// New constructs a Dram with the given topology (counts are 1<<bits) and
// timing. sim supplies Now(); logger may be nil.
func New(sim clock, channelBits, bankBits uint, timing Timing, logger *logging.Logger) *Dram {
	bankLSB := uint(constants.RowSizeBits) + channelBits
	numChannels := 1 << channelBits
	numBanksPerChannel := 1 << bankBits
	channels := make([]*Channel, numChannels)
	for i := range channels {
		channels[i] = newChannel(numBanksPerChannel)
	}
	return &Dram{
		sim:         sim,
		logger:      logger,
		channelBits: channelBits,
		bankBits:    bankBits,
		bankLSB:     bankLSB,
		rowLSB:      bankLSB + bankBits,
		timing:      timing,
		channels:    channels,
	}
}

// SetObserver attaches a metrics observer; pass nil to detach.
func (d *Dram) SetObserver(obs Observer) {
	d.observer = obs
}

// decode extracts (channel, bank, row) from addr using the fixed offset
// bits and this Dram's configured channel_bits/bank_bits.
func (d *Dram) decode(addr uint64) (channel, bank, row uint64) {
	channel = (addr >> constants.OffsetBits) & ((1 << d.channelBits) - 1)
	bank = (addr >> d.bankLSB) & ((1 << d.bankBits) - 1)
	row = addr >> d.rowLSB
	return
}

// Submit implements memif.Requester. Incoming requests are decoded and
// appended to their destination channel's waiting queue.
func (d *Dram) Submit(req memif.Request) {
	channel, bank, row := d.decode(req.Addr)
	if channel >= uint64(len(d.channels)) {
		d.invariant(fmt.Sprintf("decoded channel %d out of range [0,%d)", channel, len(d.channels)))
	}
	ch := d.channels[channel]
	if bank >= uint64(len(ch.Banks)) {
		d.invariant(fmt.Sprintf("decoded bank %d out of range [0,%d)", bank, len(ch.Banks)))
	}

	kind := kindRead
	var respond func(constants.Cycle)
	if req.Kind == memif.Write {
		kind = kindWrite
	} else if req.Responder != nil {
		responder := req.Responder
		addr := req.Addr
		respond = func(deliveryCycle constants.Cycle) {
			responder.Deliver(deliveryCycle, memif.Response{Addr: addr})
		}
	}

	ch.Waiting = append(ch.Waiting, &pendingRequest{
		channel: channel,
		bank:    bank,
		row:     row,
		addr:    req.Addr,
		kind:    kind,
		respond: respond,
	})

	if d.logger != nil {
		d.logger.WithChannel(int(channel)).Debug("dram submit", "addr", req.Addr, "bank", bank, "row", row, "kind", req.Kind.String())
	}
}

// invariant logs msg at Error and panics with a CodeInvariant *SimError.
func (d *Dram) invariant(msg string) {
	err := simerr.AtCycle("dram.Submit", simerr.CodeInvariant, d.sim.Now(), msg)
	if d.logger != nil {
		d.logger.Error(err.Error())
	}
	panic(err)
}

// Tick runs one DRAM clock. The DRAM clock runs at a divisor of the
// system clock: it advances only on cycles where now % clock_divider == 0.
func (d *Dram) Tick() {
	now := d.sim.Now()
	if now%d.timing.ClockDivider != 0 {
		return
	}
	for _, ch := range d.channels {
		if ch.NextRequest > now {
			continue
		}
		if idx, ok := d.bestRequest(ch, now); ok {
			req := ch.removeAt(idx)
			d.issueRequest(ch, req, now)
		}
	}
}

// bestRequest scans ch.Waiting in insertion order and returns the index of
// the best candidate per the FR-FCFS policy: the first row-buffer Hit
// found (scan terminates immediately), otherwise the first eligible
// Miss/permitted-Conflict while the scan continues looking for a later
// Hit.
func (d *Dram) bestRequest(ch *Channel, now constants.Cycle) (int, bool) {
	best := -1
	for i, req := range ch.Waiting {
		bank := ch.Banks[req.bank]
		if bank.NextRequest > now {
			continue
		}
		state := bank.classify(req.row)
		switch {
		case state == stateHit:
			return i, true
		case state == stateConflict && bank.NextConflict > now:
			continue
		default:
			if best == -1 {
				best = i
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// issueRequest performs the timing-delay accounting and state mutation
// for the selected request, then schedules its response (reads only).
//
// The classification used for delay accounting is captured once, before
// OpenRow is mutated below — recomputing it afterward would silently
// collapse the row-hit/row-miss distinction (spec.md §9).
func (d *Dram) issueRequest(ch *Channel, req *pendingRequest, now constants.Cycle) {
	bank := ch.Banks[req.bank]
	state := bank.classify(req.row)

	var reqDelay constants.Cycle
	ch.NextRequest = now + d.timing.TCCD*d.timing.ClockDivider

	if state == stateConflict {
		reqDelay += d.timing.TRP
	}
	if state != stateHit {
		// Measured from this activation's own scheduling point, before
		// t_rcd is folded into reqDelay (spec.md §9).
		bank.NextConflict = now + (reqDelay+d.timing.TRAS)*d.timing.ClockDivider
		reqDelay += d.timing.TRCD
		bank.OpenRow = req.row
	}
	reqDelay += d.timing.TCCD
	bank.NextRequest = now + reqDelay*d.timing.ClockDivider

	if req.respond != nil {
		req.respond(now + (reqDelay+d.timing.TCL)*d.timing.ClockDivider)
	}

	if d.logger != nil {
		d.logger.WithChannel(int(req.channel)).Debug("dram issue", "addr", req.addr, "state", stateName(state), "delay", reqDelay)
	}
	if d.observer != nil {
		kind := memif.Read
		if req.kind == kindWrite {
			kind = memif.Write
		}
		d.observer.ObserveIssue(kind, stateName(state))
	}
}

func stateName(s conflictState) string {
	switch s {
	case stateHit:
		return "hit"
	case stateMiss:
		return "miss"
	default:
		return "conflict"
	}
}
