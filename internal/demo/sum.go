package demo

import "github.com/ChuLiYu/forkjoin/internal/pool"

// sumGranularity is the range length below which a task sums serially
// instead of splitting.
const sumGranularity = 100

type sumRange struct {
	v        []int
	beg, end int
}

// ParallelSum sums v on the pool by recursive midpoint splitting with a
// serial cutoff.
func ParallelSum(p *pool.Pool, v []int) uint64 {
	f := p.Submit(sumTask, sumRange{v: v, beg: 0, end: len(v)})
	sum := f.Get().(uint64)
	f.Free()
	return sum
}

func sumTask(p *pool.Pool, data any) any {
	s := data.(sumRange)
	if s.end-s.beg < sumGranularity {
		var sum uint64
		for i := s.beg; i < s.end; i++ {
			sum += uint64(s.v[i])
		}
		return sum
	}
	mid := s.beg + (s.end-s.beg)/2

	right := p.Submit(sumTask, sumRange{v: s.v, beg: mid, end: s.end})
	left := sumTask(p, sumRange{v: s.v, beg: s.beg, end: mid}).(uint64)
	r := right.Get().(uint64)
	right.Free()
	return left + r
}

// SerialSum is the reference the parallel result is validated against.
func SerialSum(v []int) uint64 {
	var sum uint64
	for _, x := range v {
		sum += uint64(x)
	}
	return sum
}

// SumInput builds the standard test vector v[i] = i mod 3.
func SumInput(n int) []int {
	v := make([]int, n)
	for i := range v {
		v[i] = i % 3
	}
	return v
}
