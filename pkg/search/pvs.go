package search

import (
	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
)

// Engine bundles the read-mostly state shared by every node of a search: the evaluator, the
// zobrist table used to hash positions incrementally, and an optional transposition table. A
// nil TT disables probing and storing entirely, so a caller can run the identical search with
// and without one to check that the TT never changes the result, only the work needed to find
// it.
type Engine struct {
	Eval    eval.Evaluator
	Zobrist *board.ZobristTable
	TT      *TranspositionTable
}

// Info reports the state of a search after a completed iterative-deepening depth.
type Info struct {
	Depth int
	Score board.Score
	Nodes uint64
	PV    []board.Move
}

// Result is a finished search: the move to play, and the Info from its last completed depth.
type Result struct {
	Best board.Move
	Info Info
}

// worker holds the per-search-call mutable state: move-ordering heuristics and the triangular
// PV table. It is not safe for concurrent use -- a parallel search gives each goroutine its
// own worker, sharing only the Engine (and, through it, the transposition table).
type worker struct {
	eng  *Engine
	ctrl *Control
	k    killers
	h    history
	pv   [board.MaxPly + 1][]board.Move
}

// lmrMinDepth gates late move reduction to sufficiently deep nodes; below it there isn't
// enough depth left for a reduced search to tell a good move from a bad one reliably.
const lmrMinDepth = 3

// lateMoveReduction returns the depth reduction for the moveNum'th move searched (1-based) at
// a node of the given depth: none for captures, promotions, moves giving check, or the first
// few moves; 1 ply beyond that; 2 plies past move 8.
func lateMoveReduction(depth, moveNum int, pos *board.Position, m board.Move, next *board.Position) int {
	if depth < lmrMinDepth || isCapture(pos, m) || m.Promote != board.NoPiece || next.IsChecked(next.Turn()) {
		return 0
	}
	switch {
	case moveNum > 8:
		return 2
	case moveNum > 3:
		return 1
	default:
		return 0
	}
}

// aspirationWindow is the half-width of the initial window re-centered on the previous
// iteration's score; it doubles on each fail-high/fail-low until the true score is bracketed.
const aspirationWindow = board.Score(25)

// Search runs iterative deepening on pos until ctrl reports stopped or maxDepth completes
// (maxDepth == 0 means unbounded, stopped only by ctrl). onInfo, if non-nil, is invoked after
// every completed depth with the info accumulated so far.
func Search(eng *Engine, pos *board.Position, hash board.ZobristHash, ctrl *Control, maxDepth int, onInfo func(Info)) Result {
	w := &worker{eng: eng, ctrl: ctrl}

	var best Result
	prevScore := board.DrawScore

	for depth := 1; maxDepth == 0 || depth <= maxDepth; depth++ {
		if ctrl.Stopped() {
			break
		}

		score := w.aspirate(pos, hash, depth, prevScore)
		if ctrl.Stopped() && depth > 1 {
			break
		}

		pv := append([]board.Move(nil), w.pv[0]...)
		if len(pv) == 0 {
			break
		}

		prevScore = score
		best = Result{
			Best: pv[0],
			Info: Info{Depth: depth, Score: score, Nodes: ctrl.Nodes(), PV: pv},
		}
		if onInfo != nil {
			onInfo(best.Info)
		}
		if board.IsMateScore(score) {
			break
		}
	}

	return best
}

// aspirate searches depth within a window re-centered on prevScore, widening on each failure
// until the score is inside it. Depths 1-2 have no reliable prior score to center on and use
// the full window outright.
func (w *worker) aspirate(pos *board.Position, hash board.ZobristHash, depth int, prevScore board.Score) board.Score {
	if depth <= 2 {
		return w.search(pos, hash, depth, 0, board.NegInf, board.Inf)
	}

	delta := aspirationWindow
	alpha, beta := prevScore-delta, prevScore+delta

	for {
		score := w.search(pos, hash, depth, 0, alpha, beta)
		if w.ctrl.Stopped() {
			return score
		}

		switch {
		case score <= alpha:
			alpha -= delta
			if alpha < board.NegInf {
				alpha = board.NegInf
			}
		case score >= beta:
			beta += delta
			if beta > board.Inf {
				beta = board.Inf
			}
		default:
			return score
		}
		delta *= 2
	}
}

// search is a principal-variation negamax: the first move at each node is searched with the
// full window, every later one with a zero window (cheap to prove it can't beat alpha), and
// only re-searched with the full window if it unexpectedly does.
func (w *worker) search(pos *board.Position, hash board.ZobristHash, depth, ply int, alpha, beta board.Score) board.Score {
	if w.ctrl.Stopped() {
		return 0
	}
	w.ctrl.CountNode()
	w.pv[ply] = w.pv[ply][:0]

	if ply > 0 && pos.HasInsufficientMaterial() {
		return board.DrawScore
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.IsChecked(pos.Turn()) {
			return -board.Mate + board.Score(ply)
		}
		return board.DrawScore
	}

	if depth <= 0 {
		return w.quiescence(pos, alpha, beta, ply)
	}

	alphaOrig := alpha

	var ttMove board.Move
	if w.eng.TT != nil {
		probe := w.eng.TT.Probe(hash, depth, alpha, beta, ply)
		ttMove = probe.Best
		if probe.Usable && ply > 0 {
			return probe.Score
		}
	}

	list := board.NewMoveList(moves, orderMoves(pos, ttMove, ply, &w.k, &w.h))

	best := board.NegInf
	var bestMove board.Move
	moveNum := 0

	for {
		m, ok := list.Next()
		if !ok {
			break
		}
		moveNum++

		next := pos.Apply(m)
		nextHash := w.eng.Zobrist.Move(hash, pos, m)

		var score board.Score
		switch {
		case moveNum == 1:
			score = -w.search(&next, nextHash, depth-1, ply+1, -beta, -alpha)
		default:
			reduction := lateMoveReduction(depth, moveNum, pos, m, &next)
			score = -w.search(&next, nextHash, depth-1-reduction, ply+1, -alpha-1, -alpha)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -w.search(&next, nextHash, depth-1, ply+1, -beta, -alpha)
			}
		}

		if w.ctrl.Stopped() {
			return 0
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				w.pv[ply] = append(append(w.pv[ply][:0], m), w.pv[ply+1]...)
			}
		}
		if alpha >= beta {
			if !isCapture(pos, m) {
				w.k.add(ply, m)
				w.h.bonus(m, depth)
			}
			break
		}
	}

	if w.eng.TT != nil {
		bound := BoundExact
		switch {
		case best <= alphaOrig:
			bound = BoundUpper
		case best >= beta:
			bound = BoundLower
		}
		w.eng.TT.Store(hash, depth, best, bound, bestMove, ply)
	}

	return best
}
