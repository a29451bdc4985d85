package search

import "github.com/kestrelchess/kestrel/pkg/board"

// quiescence extends the search along capturing and promoting lines only, past the nominal
// horizon, so a side that is merely mid-exchange at the depth cutoff isn't misjudged. Stand
// pat: a side free to decline every capture can always fall back to the static evaluation, so
// that score is a lower bound the capturing lines must beat to matter.
func (w *worker) quiescence(pos *board.Position, alpha, beta board.Score, ply int) board.Score {
	w.ctrl.CountNode()

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.IsChecked(pos.Turn()) {
			return -board.Mate + board.Score(ply)
		}
		return board.DrawScore
	}

	standPat := w.perspective(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= board.MaxPly {
		return alpha
	}

	tactical := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if isCapture(pos, m) || m.Promote != board.NoPiece {
			tactical = append(tactical, m)
		}
	}

	list := board.NewMoveList(tactical, func(m board.Move) board.MovePriority {
		return mvvLva(pos, m)
	})

	for {
		m, ok := list.Next()
		if !ok {
			break
		}
		if w.ctrl.Stopped() {
			return alpha
		}

		next := pos.Apply(m)
		score := -w.quiescence(&next, -beta, -alpha, ply+1)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// perspective returns the static evaluation from the side to move's point of view.
func (w *worker) perspective(pos *board.Position) board.Score {
	s := w.eng.Eval.Evaluate(pos)
	if pos.Turn() == board.Black {
		return -s
	}
	return s
}
