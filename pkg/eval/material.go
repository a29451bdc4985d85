// Package eval implements static position evaluation: tapered material, piece-square tables,
// pawn structure, king safety, rook file status, bishop pair and tempo, combined into a single
// centipawn Score from White's perspective.
package eval

import "github.com/kestrelchess/kestrel/pkg/board"

// NominalValue returns the standard material value of a piece kind, in centipawns. King is
// valued at zero: it is never traded and its presence is implicit.
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default:
		return 0
	}
}

// phaseWeight returns how much a piece kind contributes to the game phase counter, which
// ranges over [0, maxPhase]: knights/bishops contribute 1, rooks 2, queens 4.
func phaseWeight(p board.Piece) int {
	switch p {
	case board.Knight, board.Bishop:
		return 1
	case board.Rook:
		return 2
	case board.Queen:
		return 4
	default:
		return 0
	}
}

const maxPhase = 24

// gamePhase computes the tapering phase for pos: 24 at the opening, trending to 0 toward a
// bare-king endgame.
func gamePhase(pos *board.Position) int {
	phase := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for p := board.Knight; p <= board.Queen; p++ {
			phase += phaseWeight(p) * pos.Pieces(c, p).PopCount()
		}
	}
	if phase > maxPhase {
		phase = maxPhase
	}
	return phase
}

// taper blends a (midgame, endgame) coefficient pair by phase, phase==maxPhase being the
// opening and phase==0 the endgame.
func taper(mg, eg, phase int) int {
	return (mg*phase + eg*(maxPhase-phase)) / maxPhase
}
