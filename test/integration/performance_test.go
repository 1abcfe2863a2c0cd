// ============================================================================
// Forkjoin Performance Test Suite
// ============================================================================

package integration

import (
	"testing"

	"github.com/ChuLiYu/forkjoin/internal/demo"
	"github.com/ChuLiYu/forkjoin/internal/pool"
	"github.com/stretchr/testify/require"
)

func BenchmarkFib(b *testing.B) {
	p, err := pool.New(4)
	require.NoError(b, err)
	defer p.ShutdownAndDestroy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if demo.Fib(p, 18) != 4181 {
			b.Fatal("wrong result")
		}
	}
}

func BenchmarkParallelSum(b *testing.B) {
	p, err := pool.New(4)
	require.NoError(b, err)
	defer p.ShutdownAndDestroy()

	v := demo.SumInput(500_000)
	want := demo.SerialSum(v)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if demo.ParallelSum(p, v) != want {
			b.Fatal("wrong result")
		}
	}
}

func BenchmarkSubmitGetExternal(b *testing.B) {
	p, err := pool.New(4)
	require.NoError(b, err)
	defer p.ShutdownAndDestroy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := p.Submit(func(_ *pool.Pool, data any) any { return data }, i)
		f.Get()
		f.Free()
	}
}
