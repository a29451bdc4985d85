package eval

import "github.com/kestrelchess/kestrel/pkg/board"

// passedBonus is indexed by the pawn's rank of advance from its own perspective: 1 is its
// start rank; 0 (its back rank) and 7 (its promotion rank) are unreachable while still a
// pawn, hence 0.
var passedBonus = [8]int{0, 10, 20, 35, 60, 90, 140, 0}

// pawnStructure scores isolated, doubled, backward and passed pawns for color, in centipawns,
// using the mg/eg-invariant integer values from the design. Both terms share one coefficient
// here since the design specifies a single set of pawn-structure constants, not separate
// midgame/endgame ones.
func pawnStructure(pos *board.Position, c board.Color) int {
	opp := c.Opponent()
	own := pos.Pieces(c, board.Pawn)
	enemy := pos.Pieces(opp, board.Pawn)

	score := 0
	for f := board.ZeroFile; f < board.NumFiles; f++ {
		file := board.BitFile(f)
		count := (own & file).PopCount()
		if count == 0 {
			continue
		}

		adjacent := adjacentFiles(f)
		hasFriendAdjacent := own&adjacent != 0

		if !hasFriendAdjacent {
			score -= 15 // isolated
			if enemy&file != 0 {
				score -= 10 // backward proxy: isolated and contested on the file
			}
		}
		if count > 1 {
			score -= 10 * (count - 1) // doubled
		}
	}

	for bb := own; bb != 0; {
		sq := bb.LastPopSquare()
		bb &^= board.BitMask(sq)

		if isPassed(pos, c, sq) {
			rank := sq.Rank().V()
			if c == board.Black {
				rank = 7 - rank
			}
			score += passedBonus[rank]
		}
	}

	return score
}

func adjacentFiles(f board.File) board.Bitboard {
	var bb board.Bitboard
	if f > board.FileH {
		bb |= board.BitFile(f - 1)
	}
	if f < board.FileA {
		bb |= board.BitFile(f + 1)
	}
	return bb
}

// isPassed reports whether the pawn of color c on sq has no enemy pawn on its own or an
// adjacent file on any rank ahead of it (ahead being toward promotion for c).
func isPassed(pos *board.Position, c board.Color, sq board.Square) bool {
	enemy := pos.Pieces(c.Opponent(), board.Pawn)
	files := board.BitFile(sq.File()) | adjacentFiles(sq.File())

	var ahead board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < board.NumRanks; r++ {
			ahead |= board.BitRank(r)
		}
	} else {
		for r := sq.Rank(); r > board.ZeroRank; r-- {
			ahead |= board.BitRank(r - 1)
		}
	}

	return enemy&files&ahead == 0
}
