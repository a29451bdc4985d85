package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/engine/uci"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/logw"
)

var defaultZobristSeedBits uint64 = 0x9E3779B97F4A7C15

var (
	hashMB  = flag.Int("hash", engine.DefaultHashMB, "Transposition table size in MB")
	workers = flag.Int("workers", 1, "Number of search worker threads (root splitting if > 1)")
	noise   = flag.Int("noise", 0, "Evaluation noise in centipawns (zero if deterministic)")
	seed    = flag.Int64("seed", int64(defaultZobristSeedBits), "Zobrist table seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: kestrel [options]

kestrel is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	evaluator := eval.Evaluator(eval.Standard{})
	if *noise > 0 {
		evaluator = eval.Randomize(evaluator, *noise, time.Now().UnixNano())
	}

	se := &search.Engine{
		Eval:    evaluator,
		Zobrist: board.NewZobristTable(*seed),
		TT:      search.NewTranspositionTable(*hashMB),
	}
	e := engine.New("kestrel", "kestrelchess", se, *workers)

	in := engine.ReadStdinLines(ctx)
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
