package oocsim

import (
	"sync/atomic"
	"time"

	"github.com/ehrlich-b/go-oocsim/internal/memif"
)

// LatencyBuckets defines the read round-trip latency histogram buckets,
// in simulation cycles, with logarithmic spacing from 16 cycles to ~1M.
var LatencyBuckets = []uint64{
	16, 64, 256, 1_024, 4_096, 16_384, 65_536, 1_048_576,
}

const numLatencyBuckets = 8

// Metrics tracks per-run simulation statistics: instruction throughput,
// row-buffer classification counts, ROB occupancy, and read latency.
type Metrics struct {
	InsnsRetired atomic.Uint64
	ReadsIssued  atomic.Uint64
	WritesIssued atomic.Uint64

	RowHits      atomic.Uint64
	RowMisses    atomic.Uint64
	RowConflicts atomic.Uint64

	RobOccupancyTotal atomic.Uint64
	RobOccupancyCount atomic.Uint64
	MaxRobOccupancy   atomic.Uint32

	TotalReadLatencyCycles atomic.Uint64
	ReadLatencyCount       atomic.Uint64
	LatencyBuckets         [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance, stamping its start time.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordRetire records n instructions retiring in a single cycle.
func (m *Metrics) RecordRetire(n int) {
	m.InsnsRetired.Add(uint64(n))
}

// RecordIssue records one memory reference issuing to the DRAM.
func (m *Metrics) RecordIssue(kind memif.Kind) {
	if kind == memif.Write {
		m.WritesIssued.Add(1)
	} else {
		m.ReadsIssued.Add(1)
	}
}

// RecordRowState records one DRAM row-buffer classification outcome.
func (m *Metrics) RecordRowState(state string) {
	switch state {
	case "hit":
		m.RowHits.Add(1)
	case "miss":
		m.RowMisses.Add(1)
	default:
		m.RowConflicts.Add(1)
	}
}

// RecordRobOccupancy records one occupancy sample against the ROB's fixed
// capacity.
func (m *Metrics) RecordRobOccupancy(occupancy, _ int) {
	m.RobOccupancyTotal.Add(uint64(occupancy))
	m.RobOccupancyCount.Add(1)
	for {
		current := m.MaxRobOccupancy.Load()
		if uint32(occupancy) <= current {
			break
		}
		if m.MaxRobOccupancy.CompareAndSwap(current, uint32(occupancy)) {
			break
		}
	}
}

// RecordReadLatency records the round-trip cycle count of one resolved
// read, from MSHR creation to response delivery.
func (m *Metrics) RecordReadLatency(cycles uint64) {
	m.TotalReadLatencyCycles.Add(cycles)
	m.ReadLatencyCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if cycles <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the run as stopped.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// Snapshot is a point-in-time view of Metrics, with derived statistics
// computed.
type Snapshot struct {
	InsnsRetired uint64
	ReadsIssued  uint64
	WritesIssued uint64

	RowHits      uint64
	RowMisses    uint64
	RowConflicts uint64

	AvgRobOccupancy float64
	MaxRobOccupancy uint32

	AvgReadLatencyCycles uint64
	ReadLatencyHistogram [numLatencyBuckets]uint64
	ReadLatencyP50       uint64
	ReadLatencyP99       uint64
	ReadLatencyP999      uint64

	WallClockNs uint64
}

// Snapshot produces a consistent point-in-time view of m.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		InsnsRetired: m.InsnsRetired.Load(),
		ReadsIssued:  m.ReadsIssued.Load(),
		WritesIssued: m.WritesIssued.Load(),
		RowHits:      m.RowHits.Load(),
		RowMisses:    m.RowMisses.Load(),
		RowConflicts: m.RowConflicts.Load(),
	}

	occTotal := m.RobOccupancyTotal.Load()
	occCount := m.RobOccupancyCount.Load()
	if occCount > 0 {
		snap.AvgRobOccupancy = float64(occTotal) / float64(occCount)
	}
	snap.MaxRobOccupancy = m.MaxRobOccupancy.Load()

	latTotal := m.TotalReadLatencyCycles.Load()
	latCount := m.ReadLatencyCount.Load()
	if latCount > 0 {
		snap.AvgReadLatencyCycles = latTotal / latCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.WallClockNs = uint64(stopTime - startTime)
	} else {
		snap.WallClockNs = uint64(time.Now().UnixNano() - startTime)
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.ReadLatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if latCount > 0 {
		snap.ReadLatencyP50 = m.calculatePercentile(0.50)
		snap.ReadLatencyP99 = m.calculatePercentile(0.99)
		snap.ReadLatencyP999 = m.calculatePercentile(0.999)
	}

	return snap
}

// calculatePercentile estimates the read latency at the given percentile
// (0.0-1.0) using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	total := m.ReadLatencyCount.Load()
	if total == 0 {
		return 0
	}

	targetCount := uint64(float64(total) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	return LatencyBuckets[numLatencyBuckets-1]
}

// Observer is the pluggable metrics-collection contract the Simulator
// drives during Run. Core and Dram each see a narrower adapter over it
// (see sim.go); Observer itself is what callers implement or substitute.
type Observer interface {
	ObserveRetire(count int)
	ObserveIssue(kind memif.Kind)
	ObserveRowState(state string)
	ObserveRobOccupancy(occupancy, capacity int)
	ObserveReadLatencyCycles(cycles uint64)
}

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveRetire(int)               {}
func (NoOpObserver) ObserveIssue(memif.Kind)          {}
func (NoOpObserver) ObserveRowState(string)           {}
func (NoOpObserver) ObserveRobOccupancy(int, int)     {}
func (NoOpObserver) ObserveReadLatencyCycles(uint64)  {}

// MetricsObserver implements Observer by recording into a *Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver returns an Observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveRetire(count int)       { o.metrics.RecordRetire(count) }
func (o *MetricsObserver) ObserveIssue(kind memif.Kind)   { o.metrics.RecordIssue(kind) }
func (o *MetricsObserver) ObserveRowState(state string)   { o.metrics.RecordRowState(state) }
func (o *MetricsObserver) ObserveRobOccupancy(occ, cap int) {
	o.metrics.RecordRobOccupancy(occ, cap)
}
func (o *MetricsObserver) ObserveReadLatencyCycles(cycles uint64) {
	o.metrics.RecordReadLatency(cycles)
}
