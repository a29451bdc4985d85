package eval

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// noisy wraps an Evaluator with bounded symmetric noise that is a deterministic function of
// the position and a seed rather than a stateful random stream: the wrapped evaluator is
// shared by every parallel-search worker, so Evaluate must be safe to call concurrently
// without coordination, and repeated analysis of the same position within one run must see
// the same jitter every time.
type noisy struct {
	eval  Evaluator
	limit int
	seed  int64
}

// Randomize wraps eval with up to +/-limit centipawns of noise, deterministic per (position,
// seed). A limit of 0 disables the wrapping and returns eval unchanged.
func Randomize(eval Evaluator, limit int, seed int64) Evaluator {
	if limit <= 0 {
		return eval
	}
	return &noisy{eval: eval, limit: limit, seed: seed}
}

func (n *noisy) Evaluate(pos *board.Position) board.Score {
	s := n.eval.Evaluate(pos)
	if board.IsMateScore(s) {
		return s
	}
	return s + board.Score(n.jitter(pos))
}

// jitter derives a value in [-limit, limit] from pos and the configured seed by hashing the
// position's textual form, with no shared mutable state.
func (n *noisy) jitter(pos *board.Position) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(pos.String()))

	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], uint64(n.seed))
	_, _ = h.Write(seedBytes[:])

	span := uint64(2*n.limit + 1)
	return int(h.Sum64()%span) - n.limit
}
