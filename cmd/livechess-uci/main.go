// livechess-uci bridges a DGT electronic board (via LiveChess) to the engine's UCI driver, so a
// physical board can supply moves as if typed at the console. The engine still analyzes and
// prints bestmove over stdout; only the human side's moves are sourced from the board.
package main

import (
	"context"
	"flag"
	"strings"

	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/engine/uci"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/logw"
)

var defaultZobristSeedBits uint64 = 0x9E3779B97F4A7C15

var (
	serial = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip   = flag.Bool("flip", false, "Flip board")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	id := livechess.EBoardSerial(*serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			logw.Exitf(ctx, "Autodetect board failed: %v", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		logw.Exitf(ctx, "Feed for %v failed: %v", id, err)
	}
	if *flip {
		if err := client.Flip(ctx, true); err != nil {
			logw.Exitf(ctx, "Flip board %v failed: %v", id, err)
		}
	}
	if err := client.Setup(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Setup board %v failed: %v", id, err)
	}

	se := &search.Engine{
		Eval:    eval.Standard{},
		Zobrist: board.NewZobristTable(int64(defaultZobristSeedBits)),
		TT:      search.NewTranspositionTable(engine.DefaultHashMB),
	}
	e := engine.New("kestrel-livechess", "kestrelchess", se, 1)

	in := engine.ReadStdinLines(ctx)
	go watchBoard(ctx, e, events)

	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}

// watchBoard applies the human side's moves to e as the board reports them. The eboard reports
// the resulting piece layout rather than a move, so the reported layout is matched against every
// legal move's resulting position to recover which move was played.
func watchBoard(ctx context.Context, e *engine.Engine, events <-chan livechess.EBoardEventResponse) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if len(event.San) == 0 {
				continue
			}
			if m, ok := matchReportedMove(e.Position(), event.Board); ok {
				if err := e.Move(m.String()); err != nil {
					logw.Warningf(ctx, "Board reported an unreachable move: %v", err)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

func matchReportedMove(pos *board.Position, reportedBoard string) (board.Move, bool) {
	for _, m := range pos.LegalMoves() {
		next := pos.Apply(m)
		if strings.Split(fen.Encode(&next), " ")[0] == reportedBoard {
			return m, true
		}
	}
	return board.Move{}, false
}
