package oocsim

import (
	"io"
	"sync"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
)

// MockResponder records every delivery it receives, for assertions in
// tests that drive internal/core or internal/dram directly without a
// full Simulator. Safe for concurrent use, mirroring the teacher's
// MockBackend, though nothing in this single-threaded simulator actually
// calls it from more than one goroutine.
type MockResponder struct {
	mu        sync.Mutex
	delivered []Delivery
}

// Delivery is one recorded (cycle, response) pair.
type Delivery struct {
	Cycle constants.Cycle
	Resp  memif.Response
}

// NewMockResponder returns an empty MockResponder.
func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

// Deliver implements memif.Responder.
func (m *MockResponder) Deliver(cycle constants.Cycle, resp memif.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered = append(m.delivered, Delivery{Cycle: cycle, Resp: resp})
}

// Deliveries returns a copy of every delivery recorded so far.
func (m *MockResponder) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.delivered))
	copy(out, m.delivered)
	return out
}

// SliceTraceProvider replays a fixed, in-memory slice of trace records,
// returning io.EOF once exhausted. Useful for unit tests that need a
// small, hand-built trace instead of a USIMM file.
type SliceTraceProvider struct {
	records []memif.TraceRecord
	i       int
}

// NewSliceTraceProvider returns a TraceProvider that replays records in
// order.
func NewSliceTraceProvider(records []memif.TraceRecord) *SliceTraceProvider {
	return &SliceTraceProvider{records: records}
}

// Next implements memif.TraceProvider.
func (s *SliceTraceProvider) Next() (memif.TraceRecord, error) {
	if s.i >= len(s.records) {
		return memif.TraceRecord{}, io.EOF
	}
	r := s.records[s.i]
	s.i++
	return r, nil
}
