// Package memif defines the narrow request/response contract between the
// Core and the DRAM model.
//
// These interfaces live in their own package, separate from the root
// oocsim package, for the same reason the teacher keeps its Backend and
// Observer interfaces in internal/interfaces: internal/core needs to call
// into internal/dram (Submit) and internal/dram needs to call back into
// internal/core (Deliver) without either package importing the other.
package memif

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// Kind distinguishes a read request from a write request.
type Kind uint8

const (
	Read Kind = iota
	Write
)

func (k Kind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// Request is a single memory reference submitted by the Core to the DRAM.
// Writes never carry a Responder; reads always do.
type Request struct {
	Addr      uint64
	Kind      Kind
	Responder Responder
}

// Response carries no payload; Addr identifies the originating read.
type Response struct {
	Addr uint64
}

// Requester accepts memory requests. The DRAM model implements this.
type Requester interface {
	Submit(req Request)
}

// Responder accepts memory responses at a future delivery cycle. The Core
// implements this; Deliver must enqueue and return immediately, never
// touching ROB or MSHR state synchronously, since it is called from
// inside the DRAM's tick.
type Responder interface {
	Deliver(cycle constants.Cycle, resp Response)
}

// TraceRecord is a single USIMM trace line, already field-split.
type TraceRecord struct {
	Addr    uint64
	Prec    uint64
	IsWrite bool
}

// TraceProvider yields trace records on demand. Implementations return
// io.EOF (wrapped or bare) once the trace is exhausted.
type TraceProvider interface {
	Next() (TraceRecord, error)
}
