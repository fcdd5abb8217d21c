// Package trace provides memif.TraceProvider implementations: a
// USIMM-format file reader and a synthetic, programmatically generated
// source for tests and examples.
package trace

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ehrlich-b/go-oocsim/internal/memif"
	"github.com/ehrlich-b/go-oocsim/internal/simerr"
)

// UsimmReader reads a USIMM-format trace file: one memory reference per
// line, "<prec> <R/W> <addr> [data]", fields separated by whitespace.
// data, when present, is ignored — this simulator carries no payloads.
type UsimmReader struct {
	file    *os.File
	scanner *bufio.Scanner
	lineNo  int
}

// OpenUsimmTrace opens path and returns a UsimmReader positioned at its
// first line. The caller must call Close when done.
func OpenUsimmTrace(path string) (*UsimmReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.Wrap("trace.OpenUsimmTrace", simerr.CodeTraceParse, err)
	}
	return &UsimmReader{file: f, scanner: bufio.NewScanner(f)}, nil
}

// Close releases the underlying file handle.
func (r *UsimmReader) Close() error {
	return r.file.Close()
}

// Next implements memif.TraceProvider, returning io.EOF once the file is
// exhausted.
func (r *UsimmReader) Next() (memif.TraceRecord, error) {
	for r.scanner.Scan() {
		r.lineNo++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		return parseUsimmLine(r.lineNo, line)
	}
	if err := r.scanner.Err(); err != nil {
		return memif.TraceRecord{}, simerr.Wrap("trace.UsimmReader.Next", simerr.CodeTraceParse, err)
	}
	return memif.TraceRecord{}, io.EOF
}

func parseUsimmLine(lineNo int, line string) (memif.TraceRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 4 {
		return memif.TraceRecord{}, simerr.AtCycle("trace.parseUsimmLine", simerr.CodeTraceParse, -1,
			lineContext(lineNo, "expected 3 or 4 whitespace-separated fields, got "+strconv.Itoa(len(fields))))
	}

	prec, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		wrapped := simerr.Wrap("trace.parseUsimmLine", simerr.CodeTraceParse, err)
		wrapped.Msg = lineContext(lineNo, wrapped.Msg)
		return memif.TraceRecord{}, wrapped
	}

	var isWrite bool
	switch fields[1] {
	case "R":
		isWrite = false
	case "W":
		isWrite = true
	default:
		return memif.TraceRecord{}, simerr.AtCycle("trace.parseUsimmLine", simerr.CodeTraceParse, -1,
			lineContext(lineNo, "unknown request kind "+fields[1]))
	}

	addr, err := strconv.ParseUint(fields[2], 0, 64)
	if err != nil {
		wrapped := simerr.Wrap("trace.parseUsimmLine", simerr.CodeTraceParse, err)
		wrapped.Msg = lineContext(lineNo, wrapped.Msg)
		return memif.TraceRecord{}, wrapped
	}

	return memif.TraceRecord{Addr: addr, Prec: prec, IsWrite: isWrite}, nil
}

func lineContext(lineNo int, msg string) string {
	return "line " + strconv.Itoa(lineNo) + ": " + msg
}
