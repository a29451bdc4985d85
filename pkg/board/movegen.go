package board

// PseudoLegalMoves enumerates all moves for the side to move that are legal ignoring whether
// the mover's own king is left in check. Callers that need fully legal moves should use
// LegalMoves, which applies the check filter.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)

	color := p.turn
	opp := color.Opponent()
	own := p.pieces[color][NoPiece]
	occ := p.rotated.Mask()

	moves = p.genPawnMoves(moves, color, opp, occ)
	moves = p.genOfficerMoves(moves, color, Knight, own)
	moves = p.genOfficerMoves(moves, color, Bishop, own)
	moves = p.genOfficerMoves(moves, color, Rook, own)
	moves = p.genOfficerMoves(moves, color, Queen, own)
	moves = p.genOfficerMoves(moves, color, King, own)
	moves = p.genCastles(moves, color, occ)

	return moves
}

// LegalMoves enumerates fully legal moves: pseudo-legal moves filtered by the requirement
// that the mover's king is not attacked after the move.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))

	mover := p.turn
	for _, m := range pseudo {
		next := p.Apply(m)
		if !next.IsAttacked(next.King(mover), mover.Opponent()) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (p *Position) genOfficerMoves(moves []Move, color Color, piece Piece, own Bitboard) []Move {
	bb := p.pieces[color][piece]
	for bb != 0 {
		from := bb.LastPopSquare()
		bb &^= BitMask(from)

		targets := Attackboard(p.rotated, from, piece) &^ own
		for targets != 0 {
			to := targets.LastPopSquare()
			targets &^= BitMask(to)
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (p *Position) genPawnMoves(moves []Move, color, opp Color, occ Bitboard) []Move {
	pawns := p.pieces[color][Pawn]
	promoRank := PawnPromotionRank(color)
	homeRank := pawnStartRank(color)

	// Single push.
	for t := PawnMoveboard(occ, color, pawns); t != 0; {
		to := t.LastPopSquare()
		t &^= BitMask(to)
		from := pawnBack(color, to, 1)
		moves = appendPawnAdvance(moves, from, to, promoRank)
	}

	// Double push: both the intermediate and the target square must be empty.
	jumpers := pawns & BitRank(homeRank)
	interm := PawnMoveboard(occ, color, jumpers)
	for t := PawnMoveboard(occ, color, interm); t != 0; {
		to := t.LastPopSquare()
		t &^= BitMask(to)
		from := pawnBack(color, to, 2)
		moves = append(moves, Move{From: from, To: to, Flag: DoublePush})
	}

	// Captures, including en passant.
	ep, hasEP := p.EnPassant()
	for f := pawns; f != 0; {
		from := f.LastPopSquare()
		f &^= BitMask(from)

		attacks := PawnCaptureboard(color, BitMask(from))
		for t := attacks & p.pieces[opp][NoPiece]; t != 0; {
			to := t.LastPopSquare()
			t &^= BitMask(to)
			moves = appendPawnAdvance(moves, from, to, promoRank)
		}
		if hasEP && attacks.IsSet(ep) {
			moves = append(moves, Move{From: from, To: ep, Flag: EnPassant})
		}
	}

	return moves
}

func appendPawnAdvance(moves []Move, from, to Square, promoRank Bitboard) []Move {
	if promoRank.IsSet(to) {
		return append(moves,
			Move{From: from, To: to, Promote: Queen},
			Move{From: from, To: to, Promote: Rook},
			Move{From: from, To: to, Promote: Bishop},
			Move{From: from, To: to, Promote: Knight},
		)
	}
	return append(moves, Move{From: from, To: to})
}

func (p *Position) genCastles(moves []Move, color Color, occ Bitboard) []Move {
	opp := color.Opponent()

	kingSq, shortRight, shortEmpty, shortPath := E1, WhiteKingSideCastle, BitMask(F1)|BitMask(G1), [3]Square{E1, F1, G1}
	longRight, longEmpty, longPath := WhiteQueenSideCastle, BitMask(D1)|BitMask(C1)|BitMask(B1), [3]Square{E1, D1, C1}
	shortDest, longDest := G1, C1

	if color == Black {
		kingSq = E8
		shortRight, shortEmpty, shortPath = BlackKingSideCastle, BitMask(F8)|BitMask(G8), [3]Square{E8, F8, G8}
		longRight, longEmpty, longPath = BlackQueenSideCastle, BitMask(D8)|BitMask(C8)|BitMask(B8), [3]Square{E8, D8, C8}
		shortDest, longDest = G8, C8
	}

	if p.castling.IsAllowed(shortRight) && occ&shortEmpty == 0 && noneAttacked(p, shortPath[:], opp) {
		moves = append(moves, Move{From: kingSq, To: shortDest, Flag: CastleShort})
	}
	if p.castling.IsAllowed(longRight) && occ&longEmpty == 0 && noneAttacked(p, longPath[:], opp) {
		moves = append(moves, Move{From: kingSq, To: longDest, Flag: CastleLong})
	}
	return moves
}

func noneAttacked(p *Position, squares []Square, by Color) bool {
	for _, sq := range squares {
		if p.IsAttacked(sq, by) {
			return false
		}
	}
	return true
}

func pawnBack(color Color, sq Square, ranks int) Square {
	if color == White {
		return Square(int(sq) - 8*ranks)
	}
	return Square(int(sq) + 8*ranks)
}

func pawnStartRank(color Color) Rank {
	if color == White {
		return Rank2
	}
	return Rank7
}
