package demo

import (
	"testing"

	"github.com/ChuLiYu/forkjoin/internal/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumInputClosedForm(t *testing.T) {
	// Sum of v[i] = i mod 3 over [0, L): each full triple contributes 3,
	// a remainder of two contributes one more.
	for _, l := range []int{0, 1, 2, 3, 99, 100, 101, 1000, 1001, 1002} {
		want := uint64(3 * (l / 3))
		if l%3 == 2 {
			want++
		}
		assert.Equal(t, want, SerialSum(SumInput(l)), "L=%d", l)
	}
}

func TestParallelSumMatchesSerial(t *testing.T) {
	p, err := pool.New(4)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	for _, l := range []int{0, 1, 50, 99, 100, 101, 1000, 12345, 100000} {
		v := SumInput(l)
		assert.Equal(t, SerialSum(v), ParallelSum(p, v), "L=%d", l)
	}
}

func TestParallelSumBelowGranularity(t *testing.T) {
	// A range shorter than the cutoff is summed serially by the root task;
	// the result must still match the serial reference.
	p, err := pool.New(1)
	require.NoError(t, err)
	defer p.ShutdownAndDestroy()

	v := SumInput(sumGranularity - 1)
	assert.Equal(t, SerialSum(v), ParallelSum(p, v))
}
