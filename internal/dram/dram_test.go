package dram

import (
	"testing"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
)

// fakeClock is a minimal clock test double.
type fakeClock struct {
	now constants.Cycle
}

func (f *fakeClock) Now() constants.Cycle { return f.now }

// fakeResponder records every delivered (cycle, response) pair.
type fakeResponder struct {
	delivered []struct {
		cycle constants.Cycle
		resp  memif.Response
	}
}

func (f *fakeResponder) Deliver(cycle constants.Cycle, resp memif.Response) {
	f.delivered = append(f.delivered, struct {
		cycle constants.Cycle
		resp  memif.Response
	}{cycle, resp})
}

func defaultTiming() Timing {
	return Timing{
		ClockDivider: constants.DefaultClockDivider,
		TCCD:         constants.DefaultTCCD,
		TCL:          constants.DefaultTCL,
		TRCD:         constants.DefaultTRCD,
		TRP:          constants.DefaultTRP,
		TRAS:         constants.DefaultTRAS,
	}
}

func runUntil(d *Dram, c *fakeClock, cycles constants.Cycle) {
	for ; c.now < cycles; c.now++ {
		d.Tick()
	}
}

func TestAddressDecodeRoundTrip(t *testing.T) {
	c := &fakeClock{}
	d := New(c, 1, 4, defaultTiming(), nil)

	for off := uint64(0); off < 64; off++ {
		channel := uint64(1)
		bank := uint64(9)
		row := uint64(12345)
		addr := (row << d.rowLSB) | (bank << d.bankLSB) | (channel << constants.OffsetBits) | off

		gotChannel, gotBank, gotRow := d.decode(addr)
		if gotChannel != channel || gotBank != bank || gotRow != row {
			t.Fatalf("decode(%x) = (%d,%d,%d), want (%d,%d,%d)", addr, gotChannel, gotBank, gotRow, channel, bank, row)
		}
	}
}

func TestColdReadThenHit(t *testing.T) {
	c := &fakeClock{}
	d := New(c, 1, 4, defaultTiming(), nil)
	resp := &fakeResponder{}

	d.Submit(memif.Request{Addr: 0x0, Kind: memif.Read, Responder: resp})
	runUntil(d, c, 200)
	if len(resp.delivered) != 1 {
		t.Fatalf("delivered = %d, want 1", len(resp.delivered))
	}
	firstCycle := resp.delivered[0].cycle
	wantFirst := constants.Cycle(0 + (constants.DefaultTRCD+constants.DefaultTCCD+constants.DefaultTCL)*constants.DefaultClockDivider)
	if firstCycle != wantFirst {
		t.Fatalf("first read delivered at %d, want %d", firstCycle, wantFirst)
	}

	// Second access to the same row, issued well within t_ras, should be a hit.
	d.Submit(memif.Request{Addr: 0x0, Kind: memif.Read, Responder: resp})
	runUntil(d, c, 260)
	if len(resp.delivered) != 2 {
		t.Fatalf("delivered = %d, want 2", len(resp.delivered))
	}
}

func TestRowConflictPaysFullPenalty(t *testing.T) {
	c := &fakeClock{}
	d := New(c, 1, 1, defaultTiming(), nil)
	resp := &fakeResponder{}

	// Same channel+bank, different row: the lowest row bit is rowLSB = 13+1+1 = 15.
	addrA := uint64(0)
	addrB := uint64(1) << d.rowLSB

	d.Submit(memif.Request{Addr: addrA, Kind: memif.Read, Responder: resp})
	runUntil(d, c, 60)
	if len(resp.delivered) != 1 {
		t.Fatalf("after first access delivered = %d, want 1", len(resp.delivered))
	}
	firstDelivery := resp.delivered[0].cycle

	d.Submit(memif.Request{Addr: addrB, Kind: memif.Read, Responder: resp})
	runUntil(d, c, 400)
	if len(resp.delivered) != 2 {
		t.Fatalf("after second access delivered = %d, want 2", len(resp.delivered))
	}
	// The conflicting access must be delivered strictly later than the first access.
	if resp.delivered[1].cycle <= firstDelivery {
		t.Fatalf("conflicting access delivered at %d, not later than %d", resp.delivered[1].cycle, firstDelivery)
	}
}

func TestChannelParallelismIsIndependent(t *testing.T) {
	c := &fakeClock{}
	d := New(c, 1, 4, defaultTiming(), nil)
	resp := &fakeResponder{}

	// bit 6 differs -> different channel, same bank/row otherwise.
	d.Submit(memif.Request{Addr: 0x0, Kind: memif.Read, Responder: resp})
	d.Submit(memif.Request{Addr: 1 << constants.OffsetBits, Kind: memif.Read, Responder: resp})

	// Both channels should issue on the very first eligible DRAM tick
	// (cycle 0), since their next_request gates are independent.
	d.Tick()
	if len(resp.delivered) != 0 {
		// responses are future-scheduled, not immediate; just ensure no panic and queue drained
	}
	if len(d.channels[0].Waiting) != 0 || len(d.channels[1].Waiting) != 0 {
		t.Fatalf("expected both channels to issue on the same tick independently, got queues %v / %v",
			d.channels[0].Waiting, d.channels[1].Waiting)
	}
}

func TestWriteNeverSchedulesAResponse(t *testing.T) {
	c := &fakeClock{}
	d := New(c, 1, 4, defaultTiming(), nil)

	d.Submit(memif.Request{Addr: 0x0, Kind: memif.Write})
	runUntil(d, c, 200)
	// No responder was attached; issueRequest must not panic on nil respond.
}

func TestBankAndChannelCommandSpacingRespectsTCCD(t *testing.T) {
	c := &fakeClock{}
	timing := defaultTiming()
	d := New(c, 0, 0, timing, nil)
	resp := &fakeResponder{}

	d.Submit(memif.Request{Addr: 0, Kind: memif.Read, Responder: resp})
	d.Submit(memif.Request{Addr: 1 << d.rowLSB, Kind: memif.Read, Responder: resp})

	var issuedAt []constants.Cycle
	prevWaiting := 2
	for ; c.now < 300; c.now++ {
		before := len(d.channels[0].Waiting)
		d.Tick()
		after := len(d.channels[0].Waiting)
		if after < before {
			issuedAt = append(issuedAt, c.now)
		}
		prevWaiting = after
	}
	_ = prevWaiting
	if len(issuedAt) != 2 {
		t.Fatalf("expected 2 issues, got %v", issuedAt)
	}
	gap := issuedAt[1] - issuedAt[0]
	minGap := timing.TCCD * timing.ClockDivider
	if gap < minGap {
		t.Fatalf("issue spacing = %d, want >= %d (t_ccd*clock_divider)", gap, minGap)
	}
}
