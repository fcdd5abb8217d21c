// Command oocsim runs a cycle-accurate out-of-order-core/DRAM simulation
// against a USIMM trace file, or a synthetic trace when none is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ehrlich-b/go-oocsim"
	"github.com/ehrlich-b/go-oocsim/internal/logging"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
	"github.com/ehrlich-b/go-oocsim/trace"
)

func main() {
	var (
		tracePath        = flag.String("trace", "", "path to a USIMM-format trace file; uses a synthetic trace if empty")
		simCycles        = flag.Int64("cycles", 0, "cycles to simulate (0 = default)")
		channelBits      = flag.Int("channel-bits", 0, "log2 of DRAM channel count (0 = default)")
		bankBits         = flag.Int("bank-bits", 0, "log2 of banks per channel (0 = default)")
		superscalarWidth = flag.Int("width", 0, "superscalar issue/retire width (0 = default)")
		robSize          = flag.Int("rob-size", 0, "reorder buffer size (0 = default)")
		verbose          = flag.Bool("v", false, "verbose (debug-level) logging")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	provider, closeTrace, err := openTrace(*tracePath)
	if err != nil {
		log.Fatalf("failed to open trace: %v", err)
	}
	if closeTrace != nil {
		defer closeTrace()
	}

	sim, err := oocsim.New(oocsim.Config{
		SimCycles:        *simCycles,
		ChannelBits:      *channelBits,
		BankBits:         *bankBits,
		SuperscalarWidth: *superscalarWidth,
		RobSize:          *robSize,
	}, provider, logger)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping after the current cycle")
		cancel()
	}()

	logger.Info("starting simulation", "trace", *tracePath)
	result, err := sim.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Fatalf("simulation failed: %v", err)
	}

	snap := result.Metrics
	fmt.Printf("Cycles run: %d\n", result.CyclesRun)
	fmt.Printf("Instructions retired: %d\n", result.InsnsRetired)
	fmt.Printf("Reads issued: %d, Writes issued: %d\n", snap.ReadsIssued, snap.WritesIssued)
	fmt.Printf("Row buffer: %d hits, %d misses, %d conflicts\n", snap.RowHits, snap.RowMisses, snap.RowConflicts)
	fmt.Printf("Avg ROB occupancy: %.2f (max %d)\n", snap.AvgRobOccupancy, snap.MaxRobOccupancy)
	fmt.Printf("Read latency (cycles): avg=%d p50=%d p99=%d p999=%d\n",
		snap.AvgReadLatencyCycles, snap.ReadLatencyP50, snap.ReadLatencyP99, snap.ReadLatencyP999)

	if *verbose {
		fmt.Printf("Read latency histogram (bucket <= cycles: count): %v\n", snap.ReadLatencyHistogram)
	}
}

// openTrace opens a USIMM trace file at path, or returns a synthetic
// provider if path is empty. The returned close function is nil for the
// synthetic case.
func openTrace(path string) (memif.TraceProvider, func(), error) {
	if path == "" {
		return trace.NewSyntheticProvider(trace.SyntheticConfig{Stride: 64, WriteEvery: 8}), nil, nil
	}
	r, err := trace.OpenUsimmTrace(path)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { r.Close() }, nil
}
