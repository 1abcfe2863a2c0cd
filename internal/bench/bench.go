// ============================================================================
// Forkjoin Benchmark Harness - Resource Usage Reporting
// ============================================================================
//
// Package: internal/bench
// File: bench.go
// Function: Snapshot process resource usage around a region and report it
//
// A Data records getrusage(RUSAGE_SELF) and wall-clock time at Start and
// Stop. Report emits a single-line JSON record to runresult.<ppid>.json
// in the working directory:
//
//   {"ru_utime" : 0.123456, "ru_stime" : 0.001000,
//    "ru_nvcsw" : 42, "ru_nivcsw" : 3, "realtime" : 0.200000}
//
// ReportHuman writes the same figures in readable form to any writer.
// The harness observes the process only; it has no contract with the
// scheduler beyond wall-clock time.
//
// ============================================================================

// Package bench measures wall-clock time and process resource usage
// around a benchmarked region.
package bench

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Data holds the two resource snapshots of a benchmarked region.
type Data struct {
	rStart, rEnd unix.Rusage
	start, end   time.Time
	stopped      bool
}

// Start snapshots resource usage and wall-clock time and returns the
// handle for the matching Stop.
func Start() *Data {
	b := &Data{}
	if err := unix.Getrusage(unix.RUSAGE_SELF, &b.rStart); err != nil {
		// rusage is reporting-only; a failed snapshot yields zero diffs.
		b.rStart = unix.Rusage{}
	}
	b.start = time.Now()
	return b
}

// Stop snapshots the end of the region. It must be called before Report
// or ReportHuman.
func (b *Data) Stop() {
	b.end = time.Now()
	if err := unix.Getrusage(unix.RUSAGE_SELF, &b.rEnd); err != nil {
		b.rEnd = b.rStart
	}
	b.stopped = true
}

// Report writes the single-line JSON record to runresult.<ppid>.json in
// the current working directory.
func (b *Data) Report() error {
	if !b.stopped {
		panic("bench: Report before Stop")
	}
	name := fmt.Sprintf("runresult.%d.json", os.Getppid())
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("bench: create report: %w", err)
	}
	defer f.Close()

	uSec, uUsec := timevalDiff(b.rEnd.Utime, b.rStart.Utime)
	sSec, sUsec := timevalDiff(b.rEnd.Stime, b.rStart.Stime)
	rSec, rUsec := wallDiff(b.start, b.end)

	_, err = fmt.Fprintf(f,
		`{"ru_utime" : %d.%06d, "ru_stime" : %d.%06d, "ru_nvcsw" : %d, "ru_nivcsw" : %d, "realtime" : %d.%06d}`,
		uSec, uUsec, sSec, sUsec,
		b.rEnd.Nvcsw-b.rStart.Nvcsw, b.rEnd.Nivcsw-b.rStart.Nivcsw,
		rSec, rUsec)
	if err != nil {
		return fmt.Errorf("bench: write report: %w", err)
	}
	return nil
}

// ReportHuman writes the measured figures in readable form.
func (b *Data) ReportHuman(w io.Writer) {
	if !b.stopped {
		panic("bench: ReportHuman before Stop")
	}
	uSec, uUsec := timevalDiff(b.rEnd.Utime, b.rStart.Utime)
	sSec, sUsec := timevalDiff(b.rEnd.Stime, b.rStart.Stime)
	rSec, rUsec := wallDiff(b.start, b.end)

	fmt.Fprintf(w, "user time: %d.%06ds\n", uSec, uUsec)
	fmt.Fprintf(w, "system time: %d.%06ds\n", sSec, sUsec)
	fmt.Fprintf(w, "real time: %d.%06ds\n", rSec, rUsec)
}

// Realtime returns the wall-clock duration of the region.
func (b *Data) Realtime() time.Duration {
	if !b.stopped {
		panic("bench: Realtime before Stop")
	}
	return b.end.Sub(b.start)
}

// timevalDiff returns end-start as seconds and microseconds, borrowing
// when the microsecond field underflows.
func timevalDiff(end, start unix.Timeval) (sec, usec int64) {
	sec = end.Sec - start.Sec
	usec = end.Usec - start.Usec
	if usec < 0 {
		sec--
		usec += 1000000
	}
	return sec, usec
}

func wallDiff(start, end time.Time) (sec, usec int64) {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return int64(d / time.Second), int64(d%time.Second) / int64(time.Microsecond)
}
