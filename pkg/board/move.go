package board

import (
	"fmt"
	"strings"
)

// MoveFlag classifies a move beyond its from/to squares: whether it is a pawn double push,
// an en passant capture, or a castle. Ordinary moves, including ordinary captures and
// promotions, carry no flag. The no-progress counter is reset by any pawn move or capture.
type MoveFlag uint8

const (
	Normal MoveFlag = iota
	DoublePush
	EnPassant
	CastleShort
	CastleLong
)

func (f MoveFlag) String() string {
	switch f {
	case Normal:
		return "normal"
	case DoublePush:
		return "double-push"
	case EnPassant:
		return "en-passant"
	case CastleShort:
		return "O-O"
	case CastleLong:
		return "O-O-O"
	default:
		return "?"
	}
}

// Move represents a not-necessarily-legal move. It carries only the information needed to
// reproduce it: the piece moved, whether it was a capture, and its score are all derivable
// from the position it is applied to, not stored here. 32 bits.
type Move struct {
	From, To Square
	Promote  Piece // desired piece for promotion, NoPiece if none.
	Flag     MoveFlag
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move carries no flag: matching it against a position's legal moves (see
// MatchUCI) is required to recover castling/en-passant/double-push classification.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promote: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

// Equals reports structural equality on all four fields.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promote == o.Promote && m.Flag == o.Flag
}

// MatchUCI reports whether m is the move referred to by a UCI move string, i.e., whether
// it has the given from/to/promotion, ignoring Flag (which UCI move text never encodes).
func (m Move) MatchUCI(from, to Square, promote Piece) bool {
	return m.From == from && m.To == to && m.Promote == promote
}

// IsZero reports whether m is the zero Move, used as a "no move" sentinel.
func (m Move) IsZero() bool {
	return m == Move{}
}

func (m Move) String() string {
	if m.Promote.IsValid() {
		return strings.ToLower(fmt.Sprintf("%v%v%v", m.From, m.To, m.Promote))
	}
	return strings.ToLower(fmt.Sprintf("%v%v", m.From, m.To))
}
