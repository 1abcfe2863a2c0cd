package bench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeMeasuresRegion(t *testing.T) {
	b := Start()
	time.Sleep(20 * time.Millisecond)
	b.Stop()

	assert.GreaterOrEqual(t, b.Realtime(), 20*time.Millisecond)
	assert.Less(t, b.Realtime(), 2*time.Second)
}

func TestReportHumanFormat(t *testing.T) {
	b := Start()
	b.Stop()

	var buf bytes.Buffer
	b.ReportHuman(&buf)
	out := buf.String()

	assert.Contains(t, out, "user time: ")
	assert.Contains(t, out, "system time: ")
	assert.Contains(t, out, "real time: ")
	// Fixed-point seconds with six fractional digits.
	assert.Regexp(t, `real time: \d+\.\d{6}s\n`, out)
}

func TestReportWritesRunresultJSON(t *testing.T) {
	// Report writes to the working directory; run it in a temp dir.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	b := Start()
	time.Sleep(5 * time.Millisecond)
	b.Stop()
	require.NoError(t, b.Report())

	name := filepath.Join(dir, fmt.Sprintf("runresult.%d.json", os.Getppid()))
	raw, err := os.ReadFile(name)
	require.NoError(t, err)

	// Single line, parseable, with all five fields.
	assert.NotContains(t, string(raw), "\n")
	var rec map[string]float64
	require.NoError(t, json.Unmarshal(raw, &rec))
	for _, field := range []string{"ru_utime", "ru_stime", "ru_nvcsw", "ru_nivcsw", "realtime"} {
		_, ok := rec[field]
		assert.True(t, ok, "missing field %q", field)
	}
	assert.Greater(t, rec["realtime"], 0.0)
}

func TestReportBeforeStopPanics(t *testing.T) {
	b := Start()
	assert.Panics(t, func() { _ = b.Report() })
	assert.Panics(t, func() { b.ReportHuman(&bytes.Buffer{}) })
	assert.Panics(t, func() { b.Realtime() })
}
