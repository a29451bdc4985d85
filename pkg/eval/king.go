package eval

import "github.com/kestrelchess/kestrel/pkg/board"

// kingSafety penalizes a king that has not castled, scaled by whether it has even retained the
// right to, and penalizes missing pawns in the 3x3 shelter in front of it.
func kingSafety(pos *board.Position, c board.Color) int {
	score := 0

	if !pos.HasCastled(c) {
		if hasAnyCastlingRight(pos, c) {
			score -= 10
		} else {
			score -= 5
		}
	}

	score -= pawnShelterPenalty(pos, c)
	return score
}

func hasAnyCastlingRight(pos *board.Position, c board.Color) bool {
	return pos.Castling()&board.ColorCastlingRights(c) != 0
}

// pawnShelterPenalty counts missing own pawns in the 3-file-wide, 3-rank-deep region in front
// of the king, each worth 12cp, capped at 3 missing pawns.
func pawnShelterPenalty(pos *board.Position, c board.Color) int {
	king := pos.King(c)
	pawns := pos.Pieces(c, board.Pawn)

	files := board.BitFile(king.File()) | adjacentFiles(king.File())

	var shelter board.Bitboard
	if c == board.White {
		for r, n := king.Rank()+1, 0; r < board.NumRanks && n < 3; r, n = r+1, n+1 {
			shelter |= board.BitRank(r)
		}
	} else {
		for r, n := king.Rank(), 0; r > board.ZeroRank && n < 3; n++ {
			r--
			shelter |= board.BitRank(r)
		}
	}

	missing := 3 - (pawns & files & shelter).PopCount()
	if missing < 0 {
		missing = 0
	}
	if missing > 3 {
		missing = 3
	}
	return missing * 12
}
