package board

import (
	"strconv"
	"strings"

	"github.com/domino14/movenet/move"
)

// Point is the content of one board point.
type Point uint8

const (
	Empty Point = iota
	BlackStone
	WhiteStone
)

func stoneFor(c move.Color) Point {
	if c == move.White {
		return WhiteStone
	}
	return BlackStone
}

// Position is the stone layout obtained by replaying a move history. There
// are no captures; a point that is played twice shows its latest stone.
type Position struct {
	codec  move.Codec
	points []Point
	toMove move.Color
	last   move.Index
	nmoves int
}

func NewPosition(codec move.Codec) *Position {
	return &Position{
		codec:  codec,
		points: make([]Point, codec.NumPoints()),
		last:   -1,
	}
}

// Replay resets the position and plays every move of history in order,
// alternating colors starting with black.
func (p *Position) Replay(history []move.Index) {
	p.Clear()
	for _, m := range history {
		p.Play(m)
	}
}

// Play puts a stone of the color on turn at m and passes the turn.
func (p *Position) Play(m move.Index) {
	p.points[m] = stoneFor(p.toMove)
	p.toMove = p.toMove.Other()
	p.last = m
	p.nmoves++
}

// Place puts a stone of color c at m without passing the turn.
func (p *Position) Place(m move.Index, c move.Color) {
	p.points[m] = stoneFor(c)
}

func (p *Position) SetToMove(c move.Color) {
	p.toMove = c
}

// MarkLast sets the point shown as the latest move.
func (p *Position) MarkLast(m move.Index) {
	p.last = m
}

func (p *Position) Last() move.Index {
	return p.last
}

func (p *Position) Clear() {
	clear(p.points)
	p.toMove = move.Black
	p.last = -1
	p.nmoves = 0
}

func (p *Position) At(m move.Index) Point {
	return p.points[m]
}

func (p *Position) ToMove() move.Color {
	return p.toMove
}

func (p *Position) NumMoves() int {
	return p.nmoves
}

// Count returns the number of points holding pt.
func (p *Position) Count(pt Point) int {
	n := 0
	for _, x := range p.points {
		if x == pt {
			n++
		}
	}
	return n
}

// ToDisplayText renders the board with row 1 at the bottom. The last move
// is bracketed.
func (p *Position) ToDisplayText() string {
	size := p.codec.Size()
	var sb strings.Builder
	header := "   "
	for col := 0; col < size; col++ {
		header += " " + string(rune('a'+col)) + " "
	}
	sb.WriteString(header + "\n")
	for row := size - 1; row >= 0; row-- {
		sb.WriteString(padLeft(strconv.Itoa(row+1), 2) + " ")
		for col := 0; col < size; col++ {
			m, _ := p.codec.Index(col, row)
			ch := "."
			switch p.points[m] {
			case BlackStone:
				ch = "X"
			case WhiteStone:
				ch = "O"
			}
			if m == p.last {
				sb.WriteString("[" + ch + "]")
			} else {
				sb.WriteString(" " + ch + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(p.toMove.String() + " to move\n")
	return sb.String()
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}
