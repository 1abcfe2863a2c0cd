package pool

import "runtime"

// goid returns the current goroutine's id, parsed from the first line of
// the stack header ("goroutine 123 [running]:"). Ids are unique for the
// lifetime of the process, which is all the per-pool worker registry
// needs.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Skip the "goroutine " prefix.
	var id uint64
	for _, c := range buf[len("goroutine "):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
