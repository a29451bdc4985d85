package board_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplyPreservesInvariants walks every legal move from a handful of positions several plies
// deep and checks, after each Apply, that exactly one king per side remains, no square is held
// by both colors, and the side that just moved is no longer in check.
func TestApplyPreservesInvariants(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, start := range positions {
		pos, err := fen.Decode(start)
		require.NoError(t, err)

		walkApply(t, pos, 3)
	}
}

func walkApply(t *testing.T, pos *board.Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}

	mover := pos.Turn()
	for _, m := range pos.LegalMoves() {
		next := pos.Apply(m)

		assert.Equal(t, 1, next.Pieces(board.White, board.King).PopCount())
		assert.Equal(t, 1, next.Pieces(board.Black, board.King).PopCount())
		assertDisjointOccupancy(t, &next)
		assert.False(t, next.IsAttacked(next.King(mover), mover.Opponent()),
			"mover's king left in check after %v on %v", m, pos)

		walkApply(t, &next, depth-1)
	}
}

func assertDisjointOccupancy(t *testing.T, pos *board.Position) {
	t.Helper()
	assert.Equal(t, board.EmptyBitboard, pos.Occupied(board.White)&pos.Occupied(board.Black))
}

func TestCheckmateAndStalemateAgreeWithCheck(t *testing.T) {
	tests := []struct {
		fen       string
		checkmate bool
		stalemate bool
	}{
		{"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 4 4", false, false},
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1 b - - 0 1", false, false},
		{"7k/6Q1/6K1/8/8/8/8/8 b - - 0 1", true, false},
		{"7k/5K2/6Q1/8/8/8/8/8 b - - 0 1", false, true},
	}

	for _, tt := range tests {
		pos, err := fen.Decode(tt.fen)
		require.NoError(t, err)

		assert.Equal(t, tt.checkmate, pos.IsCheckmate(), tt.fen)
		assert.Equal(t, tt.stalemate, pos.IsStalemate(), tt.fen)
	}
}
