package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineTestSeedBits uint64 = 0x9E3779B97F4A7C15

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	se := &search.Engine{
		Eval:    eval.Standard{},
		Zobrist: board.NewZobristTable(int64(engineTestSeedBits)),
		TT:      search.NewTranspositionTable(1),
	}
	return engine.New("kestrel-test", "kestrelchess", se, 1)
}

func TestNewStartsAtStandardPosition(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, fen.Initial, fen.Encode(e.Position()))
}

func TestResetRejectsMalformedFen(t *testing.T) {
	e := newTestEngine(t)
	before := fen.Encode(e.Position())

	err := e.Reset("not a fen")
	require.Error(t, err)
	assert.Equal(t, before, fen.Encode(e.Position()), "a rejected FEN must leave the prior position unchanged")
}

func TestMovePlaysALegalMoveAndRejectsAnIllegalOne(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Move("e2e4"))
	_, piece, ok := e.Position().Square(board.E4)
	require.True(t, ok)
	assert.Equal(t, board.Pawn, piece)
	assert.Equal(t, board.Black, e.Position().Turn())

	err := e.Move("e2e4") // no longer a legal move: the e2 pawn already moved
	assert.Error(t, err)
}

func TestMoveRejectsUnreachableDestination(t *testing.T) {
	e := newTestEngine(t)
	err := e.Move("a1a8") // rook-shaped move but a1 holds no piece that moves that way from the start
	assert.Error(t, err)
}

// TestAnalyzeReturnsABestMoveWithinDepth exercises Engine.Analyze end to end: it should close
// its Info channel after a bounded-depth search and the final Info should carry a legal PV
// head.
func TestAnalyzeReturnsABestMoveWithinDepth(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var last search.Info
	for info := range e.Analyze(ctx, search.Limits{Depth: lang.Some(3)}) {
		last = info
	}

	require.NotEmpty(t, last.PV)
	legal := e.Position().LegalMoves()
	assert.Contains(t, legal, last.PV[0])
}

// TestHaltStopsAnInfiniteAnalysis checks that Halt makes an otherwise-unbounded Analyze
// terminate promptly instead of running forever.
func TestHaltStopsAnInfiniteAnalysis(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := e.Analyze(ctx, search.Limits{Infinite: true})

	done := make(chan struct{})
	go func() {
		for range out {
		}
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	e.Halt()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Analyze did not stop after Halt")
	}
}

// TestAdjudicateIfOverReportsCheckmate checks Engine's terminal-adjudication path against a
// known mate.
func TestAdjudicateIfOverReportsCheckmate(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Reset("7k/6Q1/6K1/8/8/8/8/8 b - - 0 1"))

	result := e.AdjudicateIfOver(context.Background())
	assert.Equal(t, board.Loss(board.Black), result)
}
