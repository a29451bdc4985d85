package search

import (
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Limits describes the bound a UCI "go" command places on a search. At most one of the
// time-control fields, MoveTime, Depth or Nodes is the binding constraint; Infinite means none
// are and the search runs until Stop is called.
type Limits struct {
	WhiteTime, BlackTime time.Duration
	WhiteInc, BlackInc   time.Duration
	MovesToGo            int
	MoveTime             lang.Optional[time.Duration]
	Depth                lang.Optional[int]
	Nodes                lang.Optional[uint64]
	Infinite             bool
}

const (
	minAllocation    = 50 * time.Millisecond
	defaultMovesToGo = 30
)

// Deadline computes the instant by which side's search must return a move under limits, given
// the current time now. ok is false when limits impose no time bound (fixed depth/nodes or an
// infinite search), in which case the caller relies on Limits.Depth, Limits.Nodes or an
// explicit Stop instead.
func Deadline(now time.Time, side board.Color, limits Limits) (deadline time.Time, ok bool) {
	if limits.Infinite {
		return time.Time{}, false
	}
	if mt, ok := limits.MoveTime.V(); ok && mt > 0 {
		return now.Add(mt), true
	}

	myTime, myInc := limits.WhiteTime, limits.WhiteInc
	if side == board.Black {
		myTime, myInc = limits.BlackTime, limits.BlackInc
	}
	if myTime <= 0 {
		return time.Time{}, false
	}

	divisor := limits.MovesToGo
	if divisor < defaultMovesToGo {
		divisor = defaultMovesToGo
	}

	alloc := myTime/time.Duration(divisor) + myInc
	if alloc < minAllocation {
		alloc = minAllocation
	}
	if half := myTime / 2; alloc > half {
		alloc = half
	}
	return now.Add(alloc), true
}
