package board

// Apply returns the position resulting from playing m, a pseudo-legal move, against p. It is
// a pure function: p is left untouched and a fresh Position is returned. Apply does not check
// that the mover's king ends up safe; callers that need fully legal moves should use LegalMoves
// or Move.
func (p *Position) Apply(m Move) Position {
	next := *p

	mover := p.turn
	opp := mover.Opponent()
	_, piece, _ := p.Square(m.From)

	// (1) Clear the origin square. For a capture, clear the captured piece's square too --
	// for EnPassant that square is behind the target, not the target itself.
	next.xor(m.From, mover, piece)

	capSq := m.To
	if m.Flag == EnPassant {
		capSq = enPassantCaptureSquare(mover, m.To)
	}
	isCapture := m.Flag == EnPassant || !p.IsEmpty(m.To)

	var capturedPiece Piece
	if isCapture {
		_, capturedPiece, _ = p.Square(capSq)
		next.xor(capSq, opp, capturedPiece)
	}

	// (2) Castling also relocates the rook and marks castled.
	if m.Flag == CastleShort || m.Flag == CastleLong {
		rookFrom, rookTo := castlingRookSquares(mover, m.Flag)
		next.xor(rookFrom, mover, Rook)
		next.xor(rookTo, mover, Rook)
		next.castled[mover] = true
	}

	// (3) Place the moving piece, promoted if applicable.
	placed := piece
	if m.Promote != NoPiece {
		placed = m.Promote
	}
	next.xor(m.To, mover, placed)

	// (4) Update castling rights: king move revokes both; rook move or capture on a home
	// rook square revokes the matching right.
	next.castling &^= castlingRightsLostFor(mover, piece, m.From)
	if isCapture {
		next.castling &^= castlingRightsLostFor(opp, capturedPiece, capSq)
	}
	if m.Flag == CastleShort || m.Flag == CastleLong {
		next.castling &^= ColorCastlingRights(mover)
	}

	// (5) En passant target is reset unless this was itself a double push.
	next.enpassant = NoSquare
	if m.Flag == DoublePush {
		next.enpassant = enPassantTargetSquare(mover, m.From)
	}

	// (6) Side to move, half-move clock, full-move number.
	next.turn = opp
	if piece == Pawn || isCapture {
		next.halfmove = 0
	} else {
		next.halfmove++
	}
	if mover == Black {
		next.fullmove++
	}

	return next
}

// Move applies m and additionally enforces legality: the mover's king must not be left
// attacked. Returns false (with the zero Position) if the move is illegal.
func (p *Position) Move(m Move) (Position, bool) {
	next := p.Apply(m)
	if next.IsAttacked(next.King(p.turn), next.turn) {
		return Position{}, false
	}
	return next, true
}

func castlingRookSquares(color Color, flag MoveFlag) (from, to Square) {
	switch {
	case color == White && flag == CastleShort:
		return H1, F1
	case color == White && flag == CastleLong:
		return A1, D1
	case color == Black && flag == CastleShort:
		return H8, F8
	default: // Black, CastleLong
		return A8, D8
	}
}

// enPassantCaptureSquare returns the square of the pawn captured en passant, given the mover's
// color and the destination square of the capturing pawn.
func enPassantCaptureSquare(mover Color, to Square) Square {
	if mover == White {
		return to - 8
	}
	return to + 8
}

// enPassantTargetSquare returns the square a pawn jumped over, given the mover's color and the
// square the double-pushing pawn started from.
func enPassantTargetSquare(mover Color, from Square) Square {
	if mover == White {
		return from + 8
	}
	return from - 8
}

// castlingRightsLostFor returns the castling rights revoked by a piece of the given color
// moving from, or being captured on, sq.
func castlingRightsLostFor(color Color, piece Piece, sq Square) Castling {
	if piece == King {
		return ColorCastlingRights(color)
	}
	if piece == Rook {
		switch sq {
		case A1:
			return WhiteQueenSideCastle
		case H1:
			return WhiteKingSideCastle
		case A8:
			return BlackQueenSideCastle
		case H8:
			return BlackKingSideCastle
		}
	}
	return 0
}
