package search

import (
	"sync/atomic"
	"unsafe"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// Bound records which side of the search window a stored score is known to be valid for.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

// entry is a transposition table slot. Entries are POD and replaced wholesale: a probe either
// observes one fully-formed entry (via a single atomic pointer load) or a miss, never a torn
// mix of an old and new write.
type entry struct {
	key        uint64
	depth      int
	score      board.Score
	bound      Bound
	best       board.Move
	generation uint8
}

// TranspositionTable is a fixed-size, direct-mapped cache from Zobrist key to the
// best-known score/move at some depth and bound. It is safe for concurrent probes and stores
// from multiple search workers: each bucket holds an atomically-swapped pointer to an
// immutable entry, so a concurrent probe always sees either the old or the new entry, never a
// torn combination of the two (the "lockless TT" invariant from a different angle than the
// classic key-xor-data trick, but it satisfies the same contract).
type TranspositionTable struct {
	buckets    []unsafe.Pointer // *entry
	generation uint32
}

// approxEntrySize estimates bytes per bucket (entry plus pointer slot overhead) for sizing
// the table from a megabyte budget.
const approxEntrySize = 48

// NewTranspositionTable allocates a table sized to fit within megabytes.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	n := megabytes * 1024 * 1024 / approxEntrySize
	if n < 1024 {
		n = 1024
	}
	return &TranspositionTable{buckets: make([]unsafe.Pointer, n)}
}

// NewGeneration bumps the table's generation, called on ucinewgame so stale entries from a
// previous game lose replacement priority without needing to be cleared.
func (t *TranspositionTable) NewGeneration() {
	atomic.AddUint32(&t.generation, 1)
}

func (t *TranspositionTable) index(hash board.ZobristHash) int {
	return int(uint64(hash) % uint64(len(t.buckets)))
}

// Probe is the result of a transposition table lookup.
type Probe struct {
	Hit   bool       // some entry with a matching key was present
	Usable bool      // Score is valid for immediate use at the requested depth/window
	Score  board.Score
	Best   board.Move // move ordering hint, valid whenever Hit is true
}

// Probe looks up hash. depth/alpha/beta/ply describe the calling search node: ply is the
// distance from the search root, used to re-center any stored mate score.
func (t *TranspositionTable) Probe(hash board.ZobristHash, depth int, alpha, beta board.Score, ply int) Probe {
	p := atomic.LoadPointer(&t.buckets[t.index(hash)])
	if p == nil {
		return Probe{}
	}

	e := (*entry)(p)
	if e.key != uint64(hash) {
		return Probe{}
	}

	result := Probe{Hit: true, Best: e.best}
	if e.depth < depth {
		return result // partial hit: best move only
	}

	score := fromTT(e.score, ply)
	switch e.bound {
	case BoundExact:
		result.Usable, result.Score = true, score
	case BoundLower:
		if score >= beta {
			result.Usable, result.Score = true, score
		}
	case BoundUpper:
		if score <= alpha {
			result.Usable, result.Score = true, score
		}
	}
	return result
}

// Store records a search result. bound is computed by the caller relative to the window the
// node entered with: Upper if the result never raised alpha, Lower if it failed high
// (score >= beta), Exact otherwise.
func (t *TranspositionTable) Store(hash board.ZobristHash, depth int, score board.Score, bound Bound, best board.Move, ply int) {
	slot := &t.buckets[t.index(hash)]
	gen := uint8(atomic.LoadUint32(&t.generation))

	next := &entry{
		key:        uint64(hash),
		depth:      depth,
		score:      toTT(score, ply),
		bound:      bound,
		best:       best,
		generation: gen,
	}

	for {
		old := atomic.LoadPointer(slot)
		if old != nil && !shouldReplace((*entry)(old), next) {
			return
		}
		if atomic.CompareAndSwapPointer(slot, old, unsafe.Pointer(next)) {
			return
		}
	}
}

// shouldReplace implements the deterministic replacement policy: same key always replaces;
// otherwise a newer generation always replaces; otherwise prefer the greater depth.
func shouldReplace(old, next *entry) bool {
	if old.key == next.key {
		return true
	}
	if old.generation != next.generation {
		return true
	}
	return old.depth <= next.depth
}

// toTT converts a mate score from "plies from the search root" to "plies from this node",
// which is what must be stored so that reusing the entry from a different root-relative ply
// (via a transposition) doesn't corrupt the distance. fromTT is its inverse, applied on probe.
func toTT(score board.Score, ply int) board.Score {
	switch {
	case score >= board.Mate-board.MaxPly:
		return score + board.Score(ply)
	case score <= -(board.Mate - board.MaxPly):
		return score - board.Score(ply)
	default:
		return score
	}
}

func fromTT(score board.Score, ply int) board.Score {
	switch {
	case score >= board.Mate-board.MaxPly:
		return score - board.Score(ply)
	case score <= -(board.Mate - board.MaxPly):
		return score + board.Score(ply)
	default:
		return score
	}
}
