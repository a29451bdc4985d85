package eval

import "github.com/kestrelchess/kestrel/pkg/board"

// Evaluator assigns a static centipawn Score to a position, from White's perspective:
// positive favors White. Search negates the result when converting to the side to move's
// perspective.
type Evaluator interface {
	Evaluate(pos *board.Position) board.Score
}

const (
	bishopPairMG = 40
	bishopPairEG = 50
	tempoBonus   = 10
)

// Standard combines material, tapered piece-square tables, pawn structure, king safety, rook
// file status and bishop pair into one evaluator, with a terminal override for checkmate and
// stalemate.
type Standard struct{}

func (Standard) Evaluate(pos *board.Position) board.Score {
	if len(pos.LegalMoves()) == 0 {
		if pos.IsChecked(pos.Turn()) {
			if pos.Turn() == board.White {
				return -board.Mate
			}
			return board.Mate
		}
		return board.DrawScore
	}

	phase := gamePhase(pos)

	mg, eg := 0, 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		m, e := materialAndPST(pos, c)
		mg += sign * m
		eg += sign * e

		mg += sign * pawnStructure(pos, c)
		eg += sign * pawnStructure(pos, c)

		mg += sign * kingSafety(pos, c)
		eg += sign * kingSafety(pos, c)

		mg += sign * rookFiles(pos, c)
		eg += sign * rookFiles(pos, c)

		if pos.Pieces(c, board.Bishop).PopCount() >= 2 {
			mg += sign * bishopPairMG
			eg += sign * bishopPairEG
		}
	}

	score := taper(mg, eg, phase)

	if pos.Turn() == board.White {
		score += tempoBonus
	} else {
		score -= tempoBonus
	}

	return board.Score(score)
}

// materialAndPST sums nominal material and piece-square bonuses for color, split by phase.
func materialAndPST(pos *board.Position, c board.Color) (mg, eg int) {
	for p := board.Pawn; p <= board.King; p++ {
		bb := pos.Pieces(c, p)
		value := int(NominalValue(p))

		for bb != 0 {
			sq := bb.LastPopSquare()
			bb &^= board.BitMask(sq)

			pm, pe := pstValue(c, p, sq)
			mg += value + pm
			eg += value + pe
		}
	}
	return mg, eg
}
