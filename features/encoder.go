// Package features turns a move history into the input planes of the
// move-prediction network.
package features

import (
	"fmt"

	"github.com/domino14/movenet/move"
)

// Padding is the width of the empty border around the board. The first
// convolution of the network is unpadded and consumes it.
const Padding = 1

// RecentMoves is the number of one-hot planes holding the latest moves.
const RecentMoves = 7

// Input planes, in channel order.
const (
	PlaneBlack = iota
	PlaneWhite
	PlaneEmpty
	PlaneBlackToMove
	PlaneWhiteToMove
	// PlaneRecent is the most recent move; the move before it is at
	// PlaneRecent+1, and so on up to RecentMoves planes.
	PlaneRecent

	Depth = PlaneRecent + RecentMoves
)

// Encoder writes training examples for one board size. It holds no state
// between calls.
type Encoder struct {
	codec move.Codec
	width int
}

func NewEncoder(boardSize int) (*Encoder, error) {
	codec, err := move.NewCodec(boardSize)
	if err != nil {
		return nil, err
	}
	return &Encoder{codec: codec, width: boardSize + 2*Padding}, nil
}

func (e *Encoder) Codec() move.Codec {
	return e.codec
}

// Width is the side of the padded input plane.
func (e *Encoder) Width() int {
	return e.width
}

func (e *Encoder) Depth() int {
	return Depth
}

// SlotSize is the number of values in one encoded position.
func (e *Encoder) SlotSize() int {
	return e.width * e.width * Depth
}

// Offset returns the index into a slot of the value for board point m on
// plane ch. Positions are laid out as (x, y, channel) with x the padded
// column and y the padded row.
func (e *Encoder) Offset(m move.Index, ch int) int {
	col, row := e.codec.Coords(m)
	return ((col+Padding)*e.width+(row+Padding))*Depth + ch
}

// Encode replays history and writes the planes into slot and target into
// label. Everything previously in slot is overwritten.
func (e *Encoder) Encode(history []move.Index, target move.Index, slot []float32, label *int32) {
	if len(slot) != e.SlotSize() {
		panic(fmt.Sprintf("features: slot has %d values, expected %d", len(slot), e.SlotSize()))
	}
	if !e.codec.Valid(target) {
		panic(fmt.Sprintf("features: target %d off the board", target))
	}
	clear(slot)
	n := e.codec.NumPoints()
	for m := move.Index(0); int(m) < n; m++ {
		slot[e.Offset(m, PlaneEmpty)] = 1
	}
	for ply, m := range history {
		if !e.codec.Valid(m) {
			panic(fmt.Sprintf("features: history move %d off the board", m))
		}
		own, opp := PlaneBlack, PlaneWhite
		if move.ColorAt(ply) == move.White {
			own, opp = PlaneWhite, PlaneBlack
		}
		slot[e.Offset(m, own)] = 1
		slot[e.Offset(m, opp)] = 0
		slot[e.Offset(m, PlaneEmpty)] = 0
	}

	toMove := PlaneBlackToMove
	if move.ColorAt(len(history)) == move.White {
		toMove = PlaneWhiteToMove
	}
	for m := move.Index(0); int(m) < n; m++ {
		slot[e.Offset(m, toMove)] = 1
	}

	for k := 0; k < RecentMoves && k < len(history); k++ {
		slot[e.Offset(history[len(history)-1-k], PlaneRecent+k)] = 1
	}
	*label = int32(target)
}
