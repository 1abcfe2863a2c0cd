package demo

import "github.com/ChuLiYu/forkjoin/internal/pool"

// Default mergesort thresholds.
const (
	// SerialSortCutoff bounds the index span (right - left) at or below
	// which a task sorts serially instead of forking.
	SerialSortCutoff = 1000
	// InsertionSortCutoff bounds the index span (right - left) below
	// which the serial path switches to insertion sort.
	InsertionSortCutoff = 16
)

// SortConfig carries the mergesort thresholds; the zero value selects
// the defaults.
type SortConfig struct {
	SerialCutoff    int // parallel -> serial mergesort switch
	InsertionCutoff int // serial mergesort -> insertion sort switch
}

func (c SortConfig) withDefaults() SortConfig {
	if c.SerialCutoff <= 0 {
		c.SerialCutoff = SerialSortCutoff
	}
	if c.InsertionCutoff <= 0 {
		c.InsertionCutoff = InsertionSortCutoff
	}
	return c
}

// insertionSort sorts a[lo..hi] inclusive.
func insertionSort(a []int, lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		j := i
		t := a[j]
		for j > lo && t < a[j-1] {
			a[j] = a[j-1]
			j--
		}
		a[j] = t
	}
}

// merge merges the sorted runs a[left..m] and a[m+1..right], staging the
// left run in b starting at bstart. Skips entirely when the runs are
// already ordered.
func merge(a, b []int, bstart, left, m, right int) {
	if a[m] <= a[m+1] {
		return
	}

	copy(b[bstart:], a[left:m+1])
	i := bstart
	j := m + 1
	k := left

	for k < j && j <= right {
		if b[i] < a[j] {
			a[k] = b[i]
			i++
		} else {
			a[k] = a[j]
			j++
		}
		k++
	}
	copy(a[k:j], b[i:])
}

// mergesortRange is the serial sort of a[left..right] using tmp as
// staging space (indexed from 0).
func mergesortRange(a, tmp []int, left, right, insertionCutoff int) {
	if right-left < insertionCutoff {
		insertionSort(a, left, right)
	} else {
		m := (left + right) / 2
		mergesortRange(a, tmp, left, m, insertionCutoff)
		mergesortRange(a, tmp, m+1, right, insertionCutoff)
		merge(a, tmp, 0, left, m, right)
	}
}

// MergesortSerial sorts a in place with the serial algorithm.
func MergesortSerial(a []int, cfg SortConfig) {
	cfg = cfg.withDefaults()
	n := len(a)
	if n < cfg.InsertionCutoff {
		insertionSort(a, 0, n-1)
		return
	}
	tmp := make([]int, n/2+1)
	mergesortRange(a, tmp, 0, n-1, cfg.InsertionCutoff)
}

// msortTask describes a unit of parallel sorting work.
type msortTask struct {
	a, tmp      []int
	left, right int
	cfg         SortConfig
}

// MergesortParallel sorts a in place on the pool. Segments above the
// serial cutoff fork their left half and sort the right half inline;
// the shared tmp buffer is partitioned by segment, so concurrent leaves
// never overlap.
func MergesortParallel(p *pool.Pool, a []int, cfg SortConfig) {
	if len(a) == 0 {
		return
	}
	cfg = cfg.withDefaults()
	tmp := make([]int, len(a))
	root := p.Submit(msortTaskFunc, &msortTask{
		a: a, tmp: tmp, left: 0, right: len(a) - 1, cfg: cfg,
	})
	root.Get()
	root.Free()
}

func msortTaskFunc(p *pool.Pool, data any) any {
	s := data.(*msortTask)
	if s.right-s.left <= s.cfg.SerialCutoff {
		// Serial leaf: stage into the segment's own slice of tmp.
		mergesortRange(s.a, s.tmp[s.left:], s.left, s.right, s.cfg.InsertionCutoff)
		return nil
	}

	m := (s.left + s.right) / 2
	lhalf := p.Submit(msortTaskFunc, &msortTask{
		a: s.a, tmp: s.tmp, left: s.left, right: m, cfg: s.cfg,
	})
	msortTaskFunc(p, &msortTask{
		a: s.a, tmp: s.tmp, left: m + 1, right: s.right, cfg: s.cfg,
	})
	lhalf.Get()
	lhalf.Free()
	merge(s.a, s.tmp, s.left, s.left, m, s.right)
	return nil
}

// IsSorted reports whether a is in nondecreasing order.
func IsSorted(a []int) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] > a[i+1] {
			return false
		}
	}
	return true
}
