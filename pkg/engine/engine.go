// Package engine wires a position, a search and a UCI-facing API together: it owns the game
// under analysis, starts and cancels searches, and matches UCI move text against the legal
// move set.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

// DefaultHashMB is the default transposition table size, chosen small per the UCI convention
// that an engine should start conservative until the GUI sends "setoption name Hash".
const DefaultHashMB = 64

// Version identifies this build for diagnostics and the UCI "id" response.
var Version = build.NewVersion(0, 1, 0)

// Engine holds the game under analysis and the shared search configuration (evaluator,
// zobrist table, transposition table, worker count). A single Engine serves one game at a
// time; concurrent "go" commands are rejected by the caller via Halt-then-Analyze.
type Engine struct {
	name, author string

	se      *search.Engine
	zobrist *board.ZobristTable
	workers int

	mu   sync.Mutex
	game *board.Game
	ctrl *search.Control
}

// New builds an Engine identified by name/author, searching with se. workers <= 0 means one
// worker per GOMAXPROCS; 1 means a single-threaded search; otherwise root splitting across
// that many goroutines.
func New(name, author string, se *search.Engine, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	e := &Engine{name: name, author: author, se: se, zobrist: se.Zobrist, workers: workers}
	_ = e.Reset(fen.Initial)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string   { return fmt.Sprintf("%v %v", e.name, Version) }
func (e *Engine) Author() string { return e.author }

// Reset replaces the game in progress with the position described by fenStr.
func (e *Engine) Reset(fenStr string) error {
	pos, err := fen.Decode(fenStr)
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.game = board.NewGame(e.zobrist, *pos)
	if e.se.TT != nil {
		e.se.TT.NewGeneration()
	}
	return nil
}

// Position returns the current position.
func (e *Engine) Position() *board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Position()
}

// Move applies a move given in UCI text (e.g. "e2e4", "e7e8q") against the legal move set. It
// fails if the text doesn't parse or doesn't match any legal move.
func (e *Engine) Move(uci string) error {
	parsed, err := board.ParseMove(uci)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, m := range e.game.Position().LegalMoves() {
		if m.MatchUCI(parsed.From, parsed.To, parsed.Promote) {
			if !e.game.PushMove(m) {
				return fmt.Errorf("illegal move: %v", uci)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown move: %v", uci)
}

// Analyze starts a search under limits against the current position. It returns a channel of
// Info, one per completed depth, closed when the search (or the context) ends. Only one
// search may be in flight at a time; callers must Halt a prior one first.
func (e *Engine) Analyze(ctx context.Context, limits search.Limits) <-chan search.Info {
	e.mu.Lock()
	pos := *e.game.Position()
	hash := e.game.Hash()

	deadline, _ := search.Deadline(time.Now(), pos.Turn(), limits)
	ctrl := search.NewControl(deadline)
	if nodes, ok := limits.Nodes.V(); ok && nodes > 0 {
		ctrl.WithNodeLimit(nodes)
	}
	e.ctrl = ctrl
	e.mu.Unlock()

	maxDepth, _ := limits.Depth.V()

	out := make(chan search.Info, 64)
	go func() {
		defer close(out)

		finished := make(chan struct{})
		defer close(finished)
		go func() {
			select {
			case <-ctx.Done():
				ctrl.Stop()
			case <-finished:
			}
		}()

		search.ParallelSearch(e.se, &pos, hash, ctrl, e.workers, maxDepth, func(info search.Info) {
			select {
			case out <- info:
			case <-ctx.Done():
			}
		})
		ctrl.Stop()
	}()
	return out
}

// Halt requests that any in-flight search stop as soon as convenient.
func (e *Engine) Halt() {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()

	if ctrl != nil {
		ctrl.Stop()
	}
}

// AdjudicateIfOver reports the game result if the side to move has no legal moves, logging the
// outcome. Returns board.Undecided otherwise.
func (e *Engine) AdjudicateIfOver(ctx context.Context) board.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.game.Position().LegalMoves()) > 0 {
		return board.Undecided
	}
	result := e.game.AdjudicateNoLegalMoves()
	logw.Infof(ctx, "Game over: %v", result)
	return result
}
