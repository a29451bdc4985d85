package board_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPseudoLegalMoves(t *testing.T) {

	t.Run("pawns", func(t *testing.T) {
		tests := []struct {
			name      string
			turn      board.Color
			pieces    []board.Placement
			enpassant board.Square
			expected  []board.Move
		}{
			{
				"push and jump",
				board.White,
				[]board.Placement{
					{board.E2, board.White, board.Pawn},
					{board.G5, board.White, board.Pawn},
					{board.A1, board.White, board.King},
					{board.A8, board.Black, board.King},
				},
				board.NoSquare,
				[]board.Move{
					{From: board.E2, To: board.E3},
					{From: board.E2, To: board.E4, Flag: board.DoublePush},
					{From: board.G5, To: board.G6},
				},
			},
			{
				"obstructed with a capture",
				board.White,
				[]board.Placement{
					{board.E2, board.White, board.Pawn},
					{board.E4, board.Black, board.Bishop},
					{board.D3, board.Black, board.Knight},
					{board.H5, board.White, board.Pawn},
					{board.G6, board.Black, board.Bishop},
					{board.H6, board.Black, board.Knight},
					{board.A1, board.White, board.King},
					{board.A8, board.Black, board.King},
				},
				board.NoSquare,
				[]board.Move{
					{From: board.E2, To: board.E3},
					{From: board.E2, To: board.D3},
					{From: board.H5, To: board.G6},
				},
			},
			{
				"promotion",
				board.White,
				[]board.Placement{
					{board.D7, board.White, board.Pawn},
					{board.A1, board.White, board.King},
					{board.A8, board.Black, board.King},
				},
				board.NoSquare,
				[]board.Move{
					{From: board.D7, To: board.D8, Promote: board.Queen},
					{From: board.D7, To: board.D8, Promote: board.Rook},
					{From: board.D7, To: board.D8, Promote: board.Bishop},
					{From: board.D7, To: board.D8, Promote: board.Knight},
				},
			},
			{
				"en passant",
				board.Black,
				[]board.Placement{
					{board.C4, board.Black, board.Pawn},
					{board.D4, board.White, board.Pawn},
					{board.E4, board.Black, board.Pawn},
					{board.A1, board.White, board.King},
					{board.A8, board.Black, board.King},
				},
				board.D3,
				[]board.Move{
					{From: board.E4, To: board.E3},
					{From: board.E4, To: board.D3, Flag: board.EnPassant},
					{From: board.C4, To: board.C3},
					{From: board.C4, To: board.D3, Flag: board.EnPassant},
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				pos, err := board.NewPosition(tt.pieces, tt.turn, 0, tt.enpassant, 0, 1)
				require.NoError(t, err)

				actual := filterByPiece(pos, tt.pieces, board.Pawn)
				assert.ElementsMatch(t, tt.expected, actual)
			})
		}
	})

	t.Run("castling", func(t *testing.T) {
		tests := []struct {
			name     string
			turn     board.Color
			pieces   []board.Placement
			castling board.Castling
			expected []board.Move
		}{
			{
				"no rights",
				board.White,
				[]board.Placement{
					{board.E1, board.White, board.King},
					{board.H1, board.White, board.Rook},
					{board.A1, board.White, board.Rook},
					{board.B8, board.Black, board.King},
				},
				0,
				nil,
			},
			{
				"full rights",
				board.White,
				[]board.Placement{
					{board.E1, board.White, board.King},
					{board.H1, board.White, board.Rook},
					{board.A1, board.White, board.Rook},
					{board.B8, board.Black, board.King},
				},
				board.FullCastlingRights,
				[]board.Move{
					{From: board.E1, To: board.G1, Flag: board.CastleShort},
					{From: board.E1, To: board.C1, Flag: board.CastleLong},
				},
			},
			{
				"obstructed king side",
				board.Black,
				[]board.Placement{
					{board.E8, board.Black, board.King},
					{board.H8, board.Black, board.Rook},
					{board.G8, board.White, board.Bishop},
					{board.A8, board.Black, board.Rook},
					{board.B1, board.White, board.King},
				},
				board.FullCastlingRights,
				[]board.Move{
					{From: board.E8, To: board.C8, Flag: board.CastleLong},
				},
			},
			{
				"only the granted rights",
				board.Black,
				[]board.Placement{
					{board.E8, board.Black, board.King},
					{board.H8, board.Black, board.Rook},
					{board.A8, board.Black, board.Rook},
					{board.B1, board.White, board.King},
				},
				board.BlackQueenSideCastle | board.WhiteKingSideCastle,
				[]board.Move{
					{From: board.E8, To: board.C8, Flag: board.CastleLong},
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				pos, err := board.NewPosition(tt.pieces, tt.turn, tt.castling, board.NoSquare, 0, 1)
				require.NoError(t, err)

				actual := filterMoves(pos.PseudoLegalMoves(), func(m board.Move) bool {
					return m.Flag == board.CastleShort || m.Flag == board.CastleLong
				})
				assert.ElementsMatch(t, tt.expected, actual)
			})
		}
	})
}

func TestLegalMovesExcludesSelfCheck(t *testing.T) {
	// White king on E1, white rook on E4 pinned by the black rook on E8: moving the rook off the
	// file would leave the king in check, so of the rook's moves only those along the E-file
	// (including the capture on E8) survive, alongside the king's moves.
	pos, err := board.NewPosition([]board.Placement{
		{board.E1, board.White, board.King},
		{board.E4, board.White, board.Rook},
		{board.E8, board.Black, board.Rook},
		{board.A8, board.Black, board.King},
	}, board.White, 0, board.NoSquare, 0, 1)
	require.NoError(t, err)

	for _, m := range pos.LegalMoves() {
		if m.From == board.E4 {
			assert.Equal(t, board.FileE, m.To.File(), "rook pinned to the E-file must stay on it: %v", m)
		}
	}
}

func TestPerft(t *testing.T) {
	tests := []struct {
		fen      string
		depth    int
		expected int64
	}{
		{fen.Initial, 1, 20},
		{fen.Initial, 2, 400},
		{fen.Initial, 3, 8902},
		{fen.Initial, 4, 197281},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 1, 14},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 2, 191},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
	}

	for _, tt := range tests {
		pos, err := fen.Decode(tt.fen)
		require.NoError(t, err)

		assert.Equal(t, tt.expected, perft(pos, tt.depth), "fen=%v depth=%v", tt.fen, tt.depth)
	}
}

// TestPerftDeep exercises perft depth 5 from the standard start (S5) and depth 4 on the
// Kiwipete-adjacent rook endgame position (S6). These are run separately from TestPerft since
// the depth-5 start-position case alone visits several million nodes.
func TestPerftDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in -short mode")
	}

	tests := []struct {
		fen      string
		depth    int
		expected int64
	}{
		{fen.Initial, 5, 4865609},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
	}

	for _, tt := range tests {
		pos, err := fen.Decode(tt.fen)
		require.NoError(t, err)

		assert.Equal(t, tt.expected, perft(pos, tt.depth), "fen=%v depth=%v", tt.fen, tt.depth)
	}
}

func perft(pos *board.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range pos.LegalMoves() {
		next := pos.Apply(m)
		nodes += perft(&next, depth-1)
	}
	return nodes
}

// filterByPiece returns the pseudo-legal moves originating from any square holding one of the
// placed pieces of the given kind, for isolating one piece kind's moves in a mixed position.
func filterByPiece(pos *board.Position, placements []board.Placement, piece board.Piece) []board.Move {
	origins := map[board.Square]bool{}
	for _, p := range placements {
		if p.Piece == piece {
			origins[p.Square] = true
		}
	}
	return filterMoves(pos.PseudoLegalMoves(), func(m board.Move) bool {
		return origins[m.From]
	})
}

func filterMoves(ms []board.Move, fn func(move board.Move) bool) []board.Move {
	var list []board.Move
	for _, m := range ms {
		if fn(m) {
			list = append(list, m)
		}
	}
	return list
}
