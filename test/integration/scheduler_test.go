// ============================================================================
// Scheduler Integration Tests
// Purpose: End-to-end acceptance scenarios running the demo workloads on
// real pools
// ============================================================================

package integration

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ChuLiYu/forkjoin/internal/demo"
	"github.com/ChuLiYu/forkjoin/internal/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParallelSumScenario runs the recursive-split sum on four workers
// and validates against a serial sum computed alongside.
func TestParallelSumScenario(t *testing.T) {
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	const l = 1_000_000
	v := demo.SumInput(l)
	want := demo.SerialSum(v)

	got := demo.ParallelSum(p, v)
	assert.Equal(t, want, got)

	// Closed form for v[i] = i mod 3.
	expected := uint64(3 * (l / 3))
	if l%3 == 2 {
		expected++
	}
	assert.Equal(t, expected, got)
}

// TestFibonacciScenario stresses extremely fine-grained tasks and the
// helping path on four workers.
func TestFibonacciScenario(t *testing.T) {
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	assert.Equal(t, uint64(10946), demo.Fib(p, 20))
}

// TestMergesortScenario sorts one million seeded integers and checks the
// result against the serial mergesort of the same input.
func TestMergesortScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1M-element sort in short mode")
	}
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	const n = 1_000_000
	rng := rand.New(rand.NewSource(2014))
	a := make([]int, n)
	for i := range a {
		a[i] = rng.Int()
	}
	want := append([]int(nil), a...)
	demo.MergesortSerial(want, demo.SortConfig{})

	demo.MergesortParallel(p, a, demo.SortConfig{SerialCutoff: 1000, InsertionCutoff: 16})

	require.True(t, demo.IsSorted(a))
	assert.Equal(t, want, a)
}

// TestNqueensScenario counts 12-queens solutions at parallel depth 6.
func TestNqueensScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 12-queens in short mode")
	}
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	count, err := demo.Nqueens(p, 12, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(14200), count)
}

// TestQuicksortScenario sorts seeded input with depth-bounded quicksort.
func TestQuicksortScenario(t *testing.T) {
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	const n = 200_000
	rng := rand.New(rand.NewSource(99))
	a := make([]int, n)
	for i := range a {
		a[i] = rng.Int()
	}
	want := append([]int(nil), a...)
	demo.QuicksortSerial(want)

	demo.QuicksortParallel(p, a, 3)
	assert.Equal(t, want, a)
}

// TestWorkConservation verifies that ready independent tasks spread over
// all workers: M tasks of duration T on N workers take about
// ceil(M/N)*T, not M*T.
func TestWorkConservation(t *testing.T) {
	const (
		workers  = 4
		tasks    = 12
		duration = 40 * time.Millisecond
	)
	p, err := pool.New(workers)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	start := time.Now()
	futures := make([]*pool.Future, tasks)
	for i := range futures {
		futures[i] = p.Submit(func(_ *pool.Pool, _ any) any {
			time.Sleep(duration)
			return nil
		}, nil)
	}
	for _, f := range futures {
		f.Get()
		f.Free()
	}
	elapsed := time.Since(start)

	const rounds = (tasks + workers - 1) / workers
	assert.Less(t, elapsed, rounds*duration+150*time.Millisecond)
}

// TestRandomInterleavings mixes external submitters, recursive forks,
// and cross-goroutine Gets; completion of the test is the no-lost-wakeup
// property.
func TestRandomInterleavings(t *testing.T) {
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	const goroutines = 16
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 30; i++ {
				n := uint(rng.Intn(12))
				assert.Equal(t, demo.FibSerial(n), demo.Fib(p, n))
			}
		}(int64(g))
	}
	wg.Wait()
}

// TestShutdownSafetyAcrossWorkloads harvests every future, shuts the
// pool down, and verifies the results survived.
func TestShutdownSafetyAcrossWorkloads(t *testing.T) {
	p, err := pool.New(4)
	require.NoError(t, err)

	results := make([]uint64, 8)
	for i := range results {
		results[i] = demo.Fib(p, uint(10+i))
	}
	p.ShutdownAndDestroy()

	for i, r := range results {
		assert.Equal(t, demo.FibSerial(uint(10+i)), r)
	}
}
