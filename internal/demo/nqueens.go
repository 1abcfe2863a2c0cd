package demo

import (
	"fmt"

	"github.com/ChuLiYu/forkjoin/internal/pool"
)

// NqueensMaxN is the largest supported board size.
const NqueensMaxN = 18

// NqueensDefaultDepth is the default parallel recursion depth: rows
// below it place queens serially.
const NqueensDefaultDepth = 6

// nqueensSolutions holds the known solution counts per board size, used
// to validate runs.
var nqueensSolutions = [NqueensMaxN + 1]int64{
	0, 1, 0, 0, 2, 10, 4, 40, 92, 352, 724, 2680, 14200,
	73712, 365596, 2279184, 14772512, 95815104, 666090624,
}

// NqueensSolutions returns the known solution count for an n x n board.
func NqueensSolutions(n int) int64 { return nqueensSolutions[n] }

// board is an n x n bitboard.
type board struct {
	bits [(NqueensMaxN*NqueensMaxN + 63) / 64]uint64
}

func (b *board) queenAt(x, y, n int) bool {
	if x < 0 || x >= n || y < 0 || y >= n {
		return false
	}
	idx := x*n + y
	return b.bits[idx/64]&(1<<(idx%64)) != 0
}

func (b *board) setQueen(x, y, n int) {
	idx := x*n + y
	b.bits[idx/64] |= 1 << (idx % 64)
}

func (b *board) unsetQueen(x, y, n int) {
	idx := x*n + y
	b.bits[idx/64] &^= 1 << (idx % 64)
}

// solved counts the queens on the board, or returns -1 if any two
// attack each other.
func solved(b *board, n int) int {
	queens := 0
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if !b.queenAt(x, y, n) {
				continue
			}
			queens++
			for k := 1; k < n; k++ {
				if b.queenAt(x+k, y, n) ||
					b.queenAt(x, y+k, n) ||
					b.queenAt(x+k, y+k, n) ||
					b.queenAt(x+k, y-k, n) {
					return -1
				}
			}
		}
	}
	return queens
}

// boardState is one backtracking node: a partial placement with queens
// on rows [0, row).
type boardState struct {
	board    board
	n        int
	row      int
	parDepth int // rows below this bound fork one task per column
}

// Nqueens counts the solutions to the n-queens problem on the pool,
// forking per-column subtrees down to the given parallel depth.
func Nqueens(p *pool.Pool, n, depth int) (int64, error) {
	if n < 0 || n > NqueensMaxN {
		return 0, fmt.Errorf("demo: board size %d out of range [0, %d]", n, NqueensMaxN)
	}
	if depth <= 0 {
		depth = NqueensDefaultDepth
	}
	root := p.Submit(nqueensTask, &boardState{n: n, row: 0, parDepth: depth})
	count := root.Get().(int64)
	root.Free()
	return count, nil
}

func nqueensTask(p *pool.Pool, data any) any {
	state := data.(*boardState)

	if state.row == state.n {
		if solved(&state.board, state.n) == state.n {
			return int64(1)
		}
		return int64(0)
	}
	if solved(&state.board, state.n) == -1 {
		return int64(0)
	}

	if state.row < state.parDepth {
		// Fork one subtree per column of this row; the last column is
		// computed inline while the others run in parallel.
		boards := make([]*boardState, state.n)
		futures := make([]*pool.Future, state.n-1)
		var count int64
		for i := 0; i < state.n; i++ {
			child := &boardState{
				board:    state.board,
				n:        state.n,
				row:      state.row + 1,
				parDepth: state.parDepth,
			}
			child.board.setQueen(state.row, i, state.n)
			boards[i] = child
			if i != state.n-1 {
				futures[i] = p.Submit(nqueensTask, child)
			}
		}
		count += nqueensTask(p, boards[state.n-1]).(int64)
		for _, f := range futures {
			count += f.Get().(int64)
			f.Free()
		}
		return count
	}

	// Serial backtracking below the parallel depth.
	var count int64
	state.row++
	for i := 0; i < state.n; i++ {
		state.board.setQueen(state.row-1, i, state.n)
		count += nqueensTask(p, state).(int64)
		state.board.unsetQueen(state.row-1, i, state.n)
	}
	state.row--
	return count
}
