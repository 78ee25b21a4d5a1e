package features

import (
	"github.com/domino14/movenet/board"
	"github.com/domino14/movenet/move"
)

// Decode rebuilds the stones, side to move and latest move from an encoded
// slot. The move count of the returned position is not recoverable and is
// left at zero.
func (e *Encoder) Decode(slot []float32) *board.Position {
	pos := board.NewPosition(e.codec)
	n := e.codec.NumPoints()
	for m := move.Index(0); int(m) < n; m++ {
		switch {
		case slot[e.Offset(m, PlaneBlack)] != 0:
			pos.Place(m, move.Black)
		case slot[e.Offset(m, PlaneWhite)] != 0:
			pos.Place(m, move.White)
		}
		if slot[e.Offset(m, PlaneRecent)] != 0 {
			pos.MarkLast(m)
		}
	}
	if slot[e.Offset(0, PlaneWhiteToMove)] != 0 {
		pos.SetToMove(move.White)
	}
	return pos
}
