package move

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultBoardSize is the side of the board the training data is recorded on.
const DefaultBoardSize = 9

// MaxBoardSize is bounded by the single-letter column coordinate.
const MaxBoardSize = 26

// minTokenLen is the length of the shortest token, e.g. "B[a1]".
const minTokenLen = 5

var (
	ErrMalformedToken = errors.New("malformed move token")
	ErrOutOfRange     = errors.New("move coordinate out of range")
)

// Index is a point on the board, numbered col*size + row.
type Index int

// Color is the player that made a move. Black always moves first.
type Color uint8

const (
	Black Color = iota
	White
)

func (c Color) String() string {
	if c == White {
		return "W"
	}
	return "B"
}

// Other returns the opponent's color.
func (c Color) Other() Color {
	return 1 - c
}

// ColorAt returns the color of the move at position ply of a game history.
func ColorAt(ply int) Color {
	return Color(ply % 2)
}

// Codec converts between textual move tokens like "B[c6]" and move indices
// for a square board of a fixed size.
type Codec struct {
	size int
}

func NewCodec(size int) (Codec, error) {
	if size < 2 || size > MaxBoardSize {
		return Codec{}, fmt.Errorf("board size %d not in [2, %d]", size, MaxBoardSize)
	}
	return Codec{size: size}, nil
}

func (c Codec) Size() int {
	return c.size
}

// NumPoints is the number of distinct move indices.
func (c Codec) NumPoints() int {
	return c.size * c.size
}

func (c Codec) Valid(m Index) bool {
	return m >= 0 && int(m) < c.size*c.size
}

// Index returns the move index of the 0-based column and row.
func (c Codec) Index(col, row int) (Index, error) {
	if col < 0 || col >= c.size || row < 0 || row >= c.size {
		return 0, fmt.Errorf("%w: col %d row %d on a %dx%d board",
			ErrOutOfRange, col, row, c.size, c.size)
	}
	return Index(col*c.size + row), nil
}

// Coords does the inverse operation of Index above.
func (c Codec) Coords(m Index) (col, row int) {
	return int(m) / c.size, int(m) % c.size
}

// Rotate180 reflects a move through the center of the board. Applying it
// twice gives back the original move.
func (c Codec) Rotate180(m Index) Index {
	col, row := c.Coords(m)
	return Index((c.size-1-col)*c.size + (c.size - 1 - row))
}

// Parse returns the move index of a token. The color is checked but
// otherwise ignored.
func (c Codec) Parse(token string) (Index, error) {
	_, m, err := c.ParseToken(token)
	return m, err
}

// ParseToken parses a token of the form <color>[<col><row>], e.g. "W[f6]".
// The column letter is case-insensitive and the row is 1-based.
func (c Codec) ParseToken(token string) (Color, Index, error) {
	if len(token) < minTokenLen {
		return 0, 0, fmt.Errorf("%w: %q is too short", ErrMalformedToken, token)
	}
	var color Color
	switch token[0] {
	case 'B', 'b':
		color = Black
	case 'W', 'w':
		color = White
	default:
		return 0, 0, fmt.Errorf("%w: %q has no player color", ErrMalformedToken, token)
	}
	if token[1] != '[' || token[len(token)-1] != ']' {
		return 0, 0, fmt.Errorf("%w: %q is missing brackets", ErrMalformedToken, token)
	}
	letter := token[2]
	if letter >= 'A' && letter <= 'Z' {
		letter += 'a' - 'A'
	}
	if letter < 'a' || letter > 'z' {
		return 0, 0, fmt.Errorf("%w: %q has no column letter", ErrMalformedToken, token)
	}
	digits := token[3 : len(token)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, fmt.Errorf("%w: %q has a bad row", ErrMalformedToken, token)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q has a bad row", ErrMalformedToken, token)
	}
	m, err := c.Index(int(letter-'a'), row-1)
	if err != nil {
		return 0, 0, fmt.Errorf("token %q: %w", token, err)
	}
	return color, m, nil
}

// Token does the inverse operation of ParseToken above.
func (c Codec) Token(color Color, m Index) string {
	col, row := c.Coords(m)
	return color.String() + "[" + string(rune('a'+col)) + strconv.Itoa(row+1) + "]"
}
