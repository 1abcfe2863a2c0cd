// Package demo contains the acceptance workloads for the scheduler:
// parallel Fibonacci, parallel sum, mergesort, quicksort, and N-queens.
// Each workload exists to exercise a specific aspect of the pool -
// extremely fine-grained tasks, recursive range splitting, depth-bounded
// parallelism - and each ships a serial reference used for validation.
package demo

import "github.com/ChuLiYu/forkjoin/internal/pool"

// Fib computes the n-th Fibonacci number on the pool, with the
// F(0) = F(1) = 1 convention. It is a toy workload whose point is the
// extreme task granularity: every recursion level forks n-2 and computes
// n-1 inline, stressing submission and the helping path.
func Fib(p *pool.Pool, n uint) uint64 {
	f := p.Submit(fibTask, n)
	v := f.Get().(uint64)
	f.Free()
	return v
}

func fibTask(p *pool.Pool, data any) any {
	n := data.(uint)
	if n <= 1 {
		return uint64(1)
	}
	right := p.Submit(fibTask, n-2)
	left := fibTask(p, n-1).(uint64)
	r := right.Get().(uint64)
	right.Free()
	return left + r
}

// FibSerial is the iterative reference with the same F(0)=F(1)=1
// convention.
func FibSerial(n uint) uint64 {
	a, b := uint64(1), uint64(1)
	for i := uint(2); i <= n; i++ {
		a, b = b, a+b
	}
	return b
}
