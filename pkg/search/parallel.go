package search

import (
	"sync"
	"sync/atomic"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// ParallelSearch runs iterative deepening, splitting each depth's root moves across workers
// concurrent workers pulling from a shared atomic index. The transposition table (if any) is
// the only state shared between workers; killers and history are per-worker, per §5's
// resource model, to keep them contention-free at the cost of each worker rebuilding its own.
// With workers <= 1 this degrades to the single-threaded Search.
func ParallelSearch(eng *Engine, pos *board.Position, hash board.ZobristHash, ctrl *Control, workers, maxDepth int, onInfo func(Info)) Result {
	if workers <= 1 {
		return Search(eng, pos, hash, ctrl, maxDepth, onInfo)
	}

	var best Result
	prevScore := board.DrawScore

	for depth := 1; maxDepth == 0 || depth <= maxDepth; depth++ {
		if ctrl.Stopped() {
			break
		}

		result, ok := searchDepthParallel(eng, pos, hash, ctrl, workers, depth, prevScore)
		if !ok {
			break
		}

		prevScore = result.Info.Score
		best = result
		if onInfo != nil {
			onInfo(best.Info)
		}
		if board.IsMateScore(result.Info.Score) {
			break
		}
	}

	return best
}

// rootSlot is one root move's search outcome, written by exactly one worker.
type rootSlot struct {
	move  board.Move
	score board.Score
	done  bool
}

// searchDepthParallel searches every legal root move at depth across workers concurrent
// workers and returns the best-scoring one. ok is false if the deadline fired before every
// slot finished, in which case this depth is discarded per the iterative-deepening contract.
func searchDepthParallel(eng *Engine, pos *board.Position, hash board.ZobristHash, ctrl *Control, workers, depth int, prevScore board.Score) (Result, bool) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Result{}, false
	}
	board.SortByPriority(moves, func(m board.Move) board.MovePriority { return mvvLva(pos, m) })

	slots := make([]rootSlot, len(moves))
	for i, m := range moves {
		slots[i].move = m
	}

	var next uint32
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			w := &worker{eng: eng, ctrl: ctrl}

			for {
				idx := int(atomic.AddUint32(&next, 1)) - 1
				if idx >= len(slots) || ctrl.Stopped() {
					return
				}

				m := slots[idx].move
				child := pos.Apply(m)
				childHash := eng.Zobrist.Move(hash, pos, m)

				slots[idx].score = -w.aspirate(&child, childHash, depth-1, -prevScore)
				slots[idx].done = true
			}
		}()
	}
	wg.Wait()

	best := -1
	for i, s := range slots {
		if !s.done {
			if ctrl.Stopped() {
				return Result{}, false
			}
			continue
		}
		if best < 0 || s.score > slots[best].score {
			best = i
		}
	}
	if best < 0 {
		return Result{}, false
	}

	return Result{
		Best: slots[best].move,
		Info: Info{Depth: depth, Score: slots[best].score, Nodes: ctrl.Nodes(), PV: []board.Move{slots[best].move}},
	}, true
}
