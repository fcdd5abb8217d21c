package dram

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// pendingRequest is a decoded, channel/bank/row-addressed form of an
// incoming memif.Request, queued on its destination channel.
type pendingRequest struct {
	channel uint64
	bank    uint64
	row     uint64
	addr    uint64
	kind    requestKind
	respond func(deliveryCycle constants.Cycle)
}

type requestKind int

const (
	kindRead requestKind = iota
	kindWrite
)

// Channel models one DRAM channel: its banks, its FIFO of pending
// requests, and the channel-wide command-to-command gate.
type Channel struct {
	Banks       []*Bank
	Waiting     []*pendingRequest
	NextRequest constants.Cycle
}

func newChannel(numBanks int) *Channel {
	banks := make([]*Bank, numBanks)
	for i := range banks {
		banks[i] = newBank()
	}
	return &Channel{Banks: banks, NextRequest: -1}
}

// removeAt removes and returns the waiting request at index i, preserving
// the FIFO order of the remaining entries.
func (c *Channel) removeAt(i int) *pendingRequest {
	req := c.Waiting[i]
	c.Waiting = append(c.Waiting[:i], c.Waiting[i+1:]...)
	return req
}
