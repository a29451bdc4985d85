package eval_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, f string) *board.Position {
	t.Helper()
	pos, err := fen.Decode(f)
	require.NoError(t, err)
	return pos
}

// TestStartposIsRoughlyBalanced checks the opening position evaluates near zero: the only
// asymmetry is the side-to-move tempo bonus.
func TestStartposIsRoughlyBalanced(t *testing.T) {
	pos := decode(t, fen.Initial)
	score := eval.Standard{}.Evaluate(pos)
	assert.Equal(t, board.Score(10), score, "startpos is symmetric: only White's tempo bonus should show")
}

// TestMaterialAdvantageIsPositiveForWhite checks that an extra rook for White shows up as a
// large positive score (White's perspective is always positive = White ahead), matching S2.
func TestMaterialAdvantageIsPositiveForWhite(t *testing.T) {
	pos := decode(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	score := eval.Standard{}.Evaluate(pos)
	assert.GreaterOrEqual(t, int(score), 450, "rook-up position should score at least +450cp, got %v", score)
}

// TestMaterialAdvantageIsNegativeForBlack checks the sign convention holds when the advantaged
// side is Black: White's perspective must report a negative score of similar magnitude.
func TestMaterialAdvantageIsNegativeForBlack(t *testing.T) {
	pos := decode(t, "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1")
	score := eval.Standard{}.Evaluate(pos)
	assert.LessOrEqual(t, int(score), -450, "rook-up-for-black position should score at most -450cp, got %v", score)
}

// TestCheckmateIsMateScore checks the terminal override: no legal moves and in check reports a
// mate score, signed for the side actually being mated.
func TestCheckmateIsMateScore(t *testing.T) {
	pos := decode(t, "7k/6Q1/6K1/8/8/8/8/8 b - - 0 1")
	require.True(t, pos.IsCheckmate())
	assert.Equal(t, board.Mate, eval.Standard{}.Evaluate(pos))
}

// TestStalemateIsDraw checks the terminal override's stalemate branch.
func TestStalemateIsDraw(t *testing.T) {
	pos := decode(t, "7k/5K2/6Q1/8/8/8/8/8 b - - 0 1")
	require.True(t, pos.IsStalemate())
	assert.Equal(t, board.DrawScore, eval.Standard{}.Evaluate(pos))
}

// TestBishopPairBonus checks that a side holding both bishops scores higher than one missing
// one, all else held equal.
func TestBishopPairBonus(t *testing.T) {
	withPair := decode(t, "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	withoutPair := decode(t, "4k3/8/8/8/8/8/8/3NKB2 w - - 0 1")

	assert.Greater(t, int(eval.Standard{}.Evaluate(withPair)), int(eval.Standard{}.Evaluate(withoutPair)))
}

// TestNominalValueOrdering checks the material table matches SPEC_FULL's coefficients exactly.
func TestNominalValueOrdering(t *testing.T) {
	assert.Equal(t, board.Score(100), eval.NominalValue(board.Pawn))
	assert.Equal(t, board.Score(320), eval.NominalValue(board.Knight))
	assert.Equal(t, board.Score(330), eval.NominalValue(board.Bishop))
	assert.Equal(t, board.Score(500), eval.NominalValue(board.Rook))
	assert.Equal(t, board.Score(900), eval.NominalValue(board.Queen))
	assert.Equal(t, board.Score(0), eval.NominalValue(board.King))
}

// TestRandomizeIsDeterministicPerPositionAndSeed checks C14's reproducibility contract: the
// same position and seed always produce the same jittered score within (and across) runs, and
// a limit of zero disables the wrapper entirely.
func TestRandomizeIsDeterministicPerPositionAndSeed(t *testing.T) {
	pos := decode(t, fen.Initial)

	a := eval.Randomize(eval.Standard{}, 8, 42)
	b := eval.Randomize(eval.Standard{}, 8, 42)
	assert.Equal(t, a.Evaluate(pos), a.Evaluate(pos), "repeated evaluation of the same position must be stable")
	assert.Equal(t, a.Evaluate(pos), b.Evaluate(pos), "same seed must produce the same jitter")

	unchanged := eval.Randomize(eval.Standard{}, 0, 42)
	assert.Equal(t, eval.Standard{}.Evaluate(pos), unchanged.Evaluate(pos), "zero amplitude must disable jitter")
}

// TestRandomizeStaysWithinAmplitude checks the jitter never exceeds the configured bound.
func TestRandomizeStaysWithinAmplitude(t *testing.T) {
	pos := decode(t, fen.Initial)
	base := int(eval.Standard{}.Evaluate(pos))

	wrapped := eval.Randomize(eval.Standard{}, 8, 7)
	jittered := int(wrapped.Evaluate(pos))

	assert.InDelta(t, base, jittered, 8)
}
