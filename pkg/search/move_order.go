package search

import (
	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
)

// Move ordering priority bands, highest first: a transposition table move is searched before
// anything else since it was good enough to be stored; then captures by MVV-LVA; then the two
// killer quiets for this ply; then the rest by history score. The bands are spaced widely
// enough that even a maximal MVV-LVA capture score can never cross into the TT band, nor a
// saturated history score cross into the killer band.
const (
	ttMovePriority  = board.MovePriority(1 << 20)
	captureBase     = board.MovePriority(500000)
	killerPriority1 = board.MovePriority(200000)
	killerPriority2 = board.MovePriority(199000)
)

// killers remembers up to two quiet moves that caused a beta cutoff at a given ply. A quiet
// move that refuted one line at a ply often refutes a sibling line too, so trying it early
// there tends to produce a fast cutoff.
type killers struct {
	moves [board.MaxPly][2]board.Move
}

func (k *killers) add(ply int, m board.Move) {
	if ply >= board.MaxPly || k.moves[ply][0].Equals(m) {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

func (k *killers) probe(ply int) (first, second board.Move) {
	if ply >= board.MaxPly {
		return board.Move{}, board.Move{}
	}
	return k.moves[ply][0], k.moves[ply][1]
}

// history scores quiet moves by from/to square: a move that has produced cutoffs before,
// weighted by the depth at which it did, is tried before one that never has.
type history struct {
	score [board.NumSquares][board.NumSquares]int32
}

const historyCap = 1 << 16

func (h *history) bonus(m board.Move, depth int) {
	h.score[m.From][m.To] += int32(depth * depth)
	if h.score[m.From][m.To] > historyCap {
		for i := range h.score {
			for j := range h.score[i] {
				h.score[i][j] /= 2
			}
		}
	}
}

func (h *history) get(m board.Move) board.MovePriority {
	return board.MovePriority(h.score[m.From][m.To])
}

// isCapture reports whether m removes an enemy piece, including en passant.
func isCapture(pos *board.Position, m board.Move) bool {
	return m.Flag == board.EnPassant || !pos.IsEmpty(m.To)
}

// mvvLva scores a capture by victim value first, attacker value second (inverted): a pawn
// taking a queen sorts above a queen taking a queen.
func mvvLva(pos *board.Position, m board.Move) board.MovePriority {
	_, attacker, _ := pos.Square(m.From)

	victim := board.Pawn
	if m.Flag != board.EnPassant {
		_, victim, _ = pos.Square(m.To)
	}

	return 8*board.MovePriority(eval.NominalValue(victim)) - board.MovePriority(eval.NominalValue(attacker))
}

// orderMoves returns a priority function ranking moves for pos at ply: ttMove (if non-zero),
// then captures, then killers, then quiets by history.
func orderMoves(pos *board.Position, ttMove board.Move, ply int, k *killers, h *history) board.MovePriorityFn {
	k1, k2 := k.probe(ply)

	return func(m board.Move) board.MovePriority {
		switch {
		case !ttMove.IsZero() && m.Equals(ttMove):
			return ttMovePriority
		case isCapture(pos, m):
			return captureBase + mvvLva(pos, m)
		case !k1.IsZero() && m.Equals(k1):
			return killerPriority1
		case !k2.IsZero() && m.Equals(k2):
			return killerPriority2
		default:
			return h.get(m)
		}
	}
}
