package eval

import "github.com/kestrelchess/kestrel/pkg/board"

const (
	rookFullOpenBonus = 20
	rookOpenBonus     = 12
	rookSemiOpenBonus = 6
)

// rookFiles scores each of color's rooks by its file status: full-open (no pawns of either
// color), open (no own pawns, an enemy pawn present), or semi-open (an own pawn present, worth
// less than open but still rewarded for partial file pressure).
func rookFiles(pos *board.Position, c board.Color) int {
	own := pos.Pieces(c, board.Pawn)
	enemy := pos.Pieces(c.Opponent(), board.Pawn)

	score := 0
	for bb := pos.Pieces(c, board.Rook); bb != 0; {
		sq := bb.LastPopSquare()
		bb &^= board.BitMask(sq)

		file := board.BitFile(sq.File())
		hasOwn := own&file != 0
		hasEnemy := enemy&file != 0

		switch {
		case !hasOwn && !hasEnemy:
			score += rookFullOpenBonus
		case !hasOwn:
			score += rookOpenBonus
		default:
			score += rookSemiOpenBonus
		}
	}
	return score
}
