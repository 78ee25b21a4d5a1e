package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func nineByNine(t *testing.T) Codec {
	c, err := NewCodec(9)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestParseToken(t *testing.T) {
	is := is.New(t)
	c := nineByNine(t)
	testcases := []struct {
		token string
		color Color
		idx   Index
	}{
		{"B[a1]", Black, 0},
		{"W[a9]", White, 8},
		{"B[b3]", Black, 11},
		{"W[f6]", White, 50},
		{"B[F6]", Black, 50},
		{"w[i9]", White, 80},
		{"B[i1]", Black, 72},
	}
	for _, tc := range testcases {
		color, idx, err := c.ParseToken(tc.token)
		is.NoErr(err)
		is.Equal(color, tc.color)
		is.Equal(idx, tc.idx)
	}
}

func TestParseErrors(t *testing.T) {
	c := nineByNine(t)
	testcases := []struct {
		token string
		want  error
	}{
		{"B[z9]", ErrOutOfRange},
		{"B[j1]", ErrOutOfRange},
		{"B[a0]", ErrOutOfRange},
		{"B[a10]", ErrOutOfRange},
		{"B[a]", ErrMalformedToken},
		{"f6", ErrMalformedToken},
		{"", ErrMalformedToken},
		{"X[a1]", ErrMalformedToken},
		{"B(a1)", ErrMalformedToken},
		{"B[11]", ErrMalformedToken},
		{"B[a-1]", ErrMalformedToken},
		{"B[a+1]", ErrMalformedToken},
	}
	for _, tc := range testcases {
		_, err := c.Parse(tc.token)
		if !errors.Is(err, tc.want) {
			t.Errorf("Parse(%q) = %v, expected %v", tc.token, err, tc.want)
		}
	}
}

func TestRotate180RoundTrip(t *testing.T) {
	is := is.New(t)
	for _, size := range []int{2, 5, 9, 13, 19} {
		c, err := NewCodec(size)
		is.NoErr(err)
		for col := 0; col < size; col++ {
			for row := 0; row < size; row++ {
				m, err := c.Index(col, row)
				is.NoErr(err)
				r := c.Rotate180(m)
				is.True(c.Valid(r))
				rc, rr := c.Coords(r)
				is.Equal(rc, size-1-col)
				is.Equal(rr, size-1-row)
				is.Equal(c.Rotate180(r), m)
			}
		}
	}
}

func TestRotate180Center(t *testing.T) {
	is := is.New(t)
	c := nineByNine(t)
	center, err := c.Parse("B[e5]")
	is.NoErr(err)
	is.Equal(c.Rotate180(center), center)
	is.Equal(c.Rotate180(0), Index(80))
}

func TestTokenInverse(t *testing.T) {
	is := is.New(t)
	c := nineByNine(t)
	for m := Index(0); int(m) < c.NumPoints(); m++ {
		for _, color := range []Color{Black, White} {
			gotColor, got, err := c.ParseToken(c.Token(color, m))
			is.NoErr(err)
			is.Equal(gotColor, color)
			is.Equal(got, m)
		}
	}
	is.Equal(c.Token(White, 50), "W[f6]")
}

func TestNewCodecBounds(t *testing.T) {
	is := is.New(t)
	_, err := NewCodec(1)
	is.True(err != nil)
	_, err = NewCodec(27)
	is.True(err != nil)
	c, err := NewCodec(MaxBoardSize)
	is.NoErr(err)
	m, err := c.Parse("B[z26]")
	is.NoErr(err)
	is.Equal(int(m), c.NumPoints()-1)
}

func TestColorAt(t *testing.T) {
	is := is.New(t)
	is.Equal(ColorAt(0), Black)
	is.Equal(ColorAt(1), White)
	is.Equal(ColorAt(6), Black)
	is.Equal(Black.Other(), White)
}
