// Package uci contains a driver for running an engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// ProtocolName is the line that selects this driver at startup.
const ProtocolName = "uci"

// Driver implements the UCI line protocol against an engine.Engine.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool // a search is in flight and owes a bestmove
	info   chan search.Info

	lastPosition string // last "position ..." line seen, for incremental "moves" parsing

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts a driver reading commands from in and writing protocol lines to the
// returned channel, until in closes or Close is called.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		info: make(chan search.Info, 400),
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	// "uci": identify, then uciok. No "option" lines are sent: the transposition table is sized
	// when the engine is constructed and cannot be changed over UCI.
	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "uciok"

	var cancel context.CancelFunc

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}
			cmd, args := strings.ToLower(parts[0]), parts[1:]

			switch cmd {
			case "isready":
				d.out <- "readyok"

			case "debug", "register", "ponderhit":
				// acknowledged silently: no debug-mode output, no registration required,
				// ponder is not implemented so a ponderhit is a no-op.

			case "setoption":
				// "setoption name <id> [value <x>]" -- no options are currently settable.

			case "ucinewgame":
				d.ensureInactive(&cancel)
				d.lastPosition = ""
				_ = d.e.Reset(fen.Initial)

			case "position":
				d.ensureInactive(&cancel)
				d.handlePosition(ctx, line, args)

			case "go":
				d.ensureInactive(&cancel)
				cancel = d.handleGo(ctx, args)

			case "stop":
				d.e.Halt()

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case info := <-d.info:
			if d.active.Load() {
				d.out <- printInfo(info)
			}

		case <-d.quit:
			d.ensureInactive(&cancel)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		// Continuation of the same game: only the newly appended moves need applying.
		rest := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, mv := range strings.Fields(rest) {
			if mv == "moves" {
				continue
			}
			if err := d.e.Move(mv); err != nil {
				logw.Errorf(ctx, "Invalid move '%v' in '%v': %v", mv, line, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	fenStr := fen.Initial
	rest := args
	if len(args) >= 7 && args[0] == "fen" {
		fenStr = strings.Join(args[1:7], " ")
		rest = args[7:]
	} else if len(args) >= 1 && args[0] == "startpos" {
		rest = args[1:]
	}

	if err := d.e.Reset(fenStr); err != nil {
		logw.Errorf(ctx, "Invalid position: %v: %v", line, err)
		return
	}

	move := false
	for _, arg := range rest {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(arg); err != nil {
			logw.Errorf(ctx, "Invalid move '%v' in '%v': %v", arg, line, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, args []string) context.CancelFunc {
	var limits search.Limits

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "movetime":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v", args[i-1])
				return nil
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", args[i-1], err)
				return nil
			}
			switch args[i-1] {
			case "wtime":
				limits.WhiteTime = time.Duration(n) * time.Millisecond
			case "btime":
				limits.BlackTime = time.Duration(n) * time.Millisecond
			case "winc":
				limits.WhiteInc = time.Duration(n) * time.Millisecond
			case "binc":
				limits.BlackInc = time.Duration(n) * time.Millisecond
			case "movestogo":
				limits.MovesToGo = n
			case "depth":
				limits.Depth = lang.Some(n)
			case "nodes":
				limits.Nodes = lang.Some(uint64(n))
			case "movetime":
				limits.MoveTime = lang.Some(time.Duration(n) * time.Millisecond)
			}

		case "infinite":
			limits.Infinite = true

		default:
			// ponder, searchmoves, mate: not implemented, silently ignored.
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	d.active.Store(true)

	out := d.e.Analyze(ctx, limits)
	go func() {
		var last search.Info
		for info := range out {
			last = info
			select {
			case d.info <- info:
			default:
			}
		}
		d.searchCompleted(last)
	}()
	return cancel
}

func (d *Driver) ensureInactive(cancel *context.CancelFunc) {
	d.e.Halt()
	if cancel != nil && *cancel != nil {
		(*cancel)()
	}
	d.active.Store(false)
}

func (d *Driver) searchCompleted(info search.Info) {
	if !d.active.CAS(true, false) {
		return // stale or duplicate completion
	}

	if len(info.PV) == 0 {
		// No depth completed: fall back to the first legal move, if there is one.
		if legal := d.e.Position().LegalMoves(); len(legal) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", legal[0])
			return
		}
		d.out <- "bestmove 0000" // no legal move: checkmate or stalemate
		return
	}

	d.out <- printInfo(info)
	d.out <- fmt.Sprintf("bestmove %v", info.PV[0])
}

// mateInMoves converts board.MateIn's ply count to the full-move count UCI reports, preserving
// sign (negative means the side to move is being mated).
func mateInMoves(s board.Score) int {
	plies := board.MateIn(s)
	if plies < 0 {
		return -((-plies + 1) / 2)
	}
	return (plies + 1) / 2
}

func printInfo(info search.Info) string {
	parts := []string{"info", fmt.Sprintf("depth %v", info.Depth)}

	if board.IsMateScore(info.Score) {
		parts = append(parts, fmt.Sprintf("score mate %v", mateInMoves(info.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(info.Score)))
	}
	parts = append(parts, fmt.Sprintf("nodes %v", info.Nodes))

	if len(info.PV) > 0 {
		moves := make([]string, len(info.PV))
		for i, m := range info.PV {
			moves[i] = m.String()
		}
		parts = append(parts, "pv", strings.Join(moves, " "))
	}

	return strings.Join(parts, " ")
}
