package board

import "fmt"

// Game tracks a position together with its Zobrist hash history. Repetition and 50-move
// adjudication are not implemented -- the hash history is retained as the scaffolding a later
// iteration would need, per the current no-goal on draw detection -- but terminal adjudication
// (checkmate, stalemate, insufficient material) is.
type Game struct {
	zt      *ZobristTable
	pos     Position
	hash    ZobristHash
	history []ZobristHash
	result  Result
}

// NewGame starts a game at the given position.
func NewGame(zt *ZobristTable, pos Position) *Game {
	hash := zt.Hash(&pos)
	return &Game{
		zt:      zt,
		pos:     pos,
		hash:    hash,
		history: []ZobristHash{hash},
	}
}

// Position returns the current position.
func (g *Game) Position() *Position {
	return &g.pos
}

// Hash returns the Zobrist hash of the current position.
func (g *Game) Hash() ZobristHash {
	return g.hash
}

// Result returns the adjudicated result, if any.
func (g *Game) Result() Result {
	return g.result
}

// PushMove attempts to play a pseudo-legal move. Returns false if the move is illegal or the
// game already has a terminal result.
func (g *Game) PushMove(m Move) bool {
	if g.result != Undecided {
		return false
	}

	next, ok := g.pos.Move(m)
	if !ok {
		return false
	}

	g.hash = g.zt.Move(g.hash, &g.pos, m)
	g.pos = next
	g.history = append(g.history, g.hash)

	if g.pos.HasInsufficientMaterial() {
		g.result = Draw
	}
	return true
}

// AdjudicateNoLegalMoves adjudicates the position assuming the side to move has no legal
// moves: checkmate if in check, else stalemate (a draw).
func (g *Game) AdjudicateNoLegalMoves() Result {
	result := Draw
	if g.pos.IsChecked(g.pos.Turn()) {
		result = Loss(g.pos.Turn())
	}
	g.result = result
	return result
}

func (g *Game) String() string {
	return fmt.Sprintf("game{pos=%v, hash=%x, result=%v}", &g.pos, g.hash, g.result)
}
