package demo

import "github.com/ChuLiYu/forkjoin/internal/pool"

// QuicksortDefaultDepth is the default parallel recursion depth: levels
// below it run the serial algorithm.
const QuicksortDefaultDepth = 3

// qsortPartition partitions a[left..right] around the middle element and
// returns the pivot's final index.
func qsortPartition(a []int, left, right int) int {
	middle := left + (right-left)/2
	a[left], a[middle] = a[middle], a[left]

	last := left
	for current := left + 1; current <= right; current++ {
		if a[current] < a[left] {
			last++
			a[last], a[current] = a[current], a[last]
		}
	}
	a[left], a[last] = a[last], a[left]
	return last
}

func quicksortRange(a []int, left, right int) {
	if left >= right {
		return
	}
	split := qsortPartition(a, left, right)
	quicksortRange(a, left, split-1)
	quicksortRange(a, split+1, right)
}

// QuicksortSerial sorts a in place with the serial algorithm.
func QuicksortSerial(a []int) {
	quicksortRange(a, 0, len(a)-1)
}

// qsortTask describes a unit of parallel sorting work.
type qsortTask struct {
	a                  []int
	left, right, depth int
}

// QuicksortParallel sorts a in place on the pool, forking each partition
// half until depth is exhausted.
func QuicksortParallel(p *pool.Pool, a []int, depth int) {
	if depth <= 0 {
		depth = QuicksortDefaultDepth
	}
	root := p.Submit(qsortTaskFunc, &qsortTask{
		a: a, left: 0, right: len(a) - 1, depth: depth,
	})
	root.Get()
	root.Free()
}

func qsortTaskFunc(p *pool.Pool, data any) any {
	s := data.(*qsortTask)
	if s.left >= s.right {
		return 0
	}

	split := qsortPartition(s.a, s.left, s.right)
	if s.depth < 1 {
		quicksortRange(s.a, s.left, split-1)
		quicksortRange(s.a, split+1, s.right)
	} else {
		lhalf := p.Submit(qsortTaskFunc, &qsortTask{
			a: s.a, left: s.left, right: split - 1, depth: s.depth - 1,
		})
		qsortTaskFunc(p, &qsortTask{
			a: s.a, left: split + 1, right: s.right, depth: s.depth - 1,
		})
		lhalf.Get()
		lhalf.Free()
	}
	// The segment's index span (right - left); callers ignore it.
	return s.right - s.left
}
