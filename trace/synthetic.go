package trace

import (
	"io"
	"math/rand"

	"github.com/ehrlich-b/go-oocsim/internal/memif"
)

// SyntheticConfig parameterizes a generated trace.
type SyntheticConfig struct {
	// Count is the number of records to generate; 0 means unbounded
	// (Next never returns io.EOF), useful for steady-state scenario runs.
	Count int

	// Stride is the address delta between consecutive records, in bytes.
	// A small stride (e.g. 64, one cache line) produces heavy row-buffer
	// locality; a large one produces frequent row conflicts.
	Stride uint64

	// BaseAddr is the first record's address.
	BaseAddr uint64

	// WriteEvery, if > 0, makes every Nth record a write; all others are
	// reads. 0 means every record is a read.
	WriteEvery int

	// Prec is the fixed arithmetic-precursor count attached to every
	// record.
	Prec uint64

	// Seed seeds the generator's RNG when RandomStride is set.
	Seed int64

	// RandomStride, when true, jitters each step by +/- Stride/2 instead
	// of using a fixed stride, for tests that want non-degenerate access
	// patterns without a full trace file.
	RandomStride bool
}

// SyntheticProvider generates a memif.TraceProvider from a SyntheticConfig
// without reading any file.
type SyntheticProvider struct {
	cfg     SyntheticConfig
	addr    uint64
	emitted int
	rng     *rand.Rand
}

// NewSyntheticProvider returns a SyntheticProvider for cfg, defaulting
// Prec to 0 and Stride to 64 (one cache line) if unset.
func NewSyntheticProvider(cfg SyntheticConfig) *SyntheticProvider {
	if cfg.Stride == 0 {
		cfg.Stride = 64
	}
	var rng *rand.Rand
	if cfg.RandomStride {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return &SyntheticProvider{cfg: cfg, addr: cfg.BaseAddr, rng: rng}
}

// Next implements memif.TraceProvider.
func (s *SyntheticProvider) Next() (memif.TraceRecord, error) {
	if s.cfg.Count > 0 && s.emitted >= s.cfg.Count {
		return memif.TraceRecord{}, io.EOF
	}

	addr := s.addr
	isWrite := s.cfg.WriteEvery > 0 && (s.emitted+1)%s.cfg.WriteEvery == 0
	rec := memif.TraceRecord{Addr: addr, Prec: s.cfg.Prec, IsWrite: isWrite}

	s.emitted++
	step := s.cfg.Stride
	if s.cfg.RandomStride {
		jitter := int64(s.rng.Uint64()%s.cfg.Stride) - int64(s.cfg.Stride/2)
		step = uint64(int64(s.cfg.Stride) + jitter)
	}
	s.addr += step

	return rec, nil
}
