package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/movenet/move"
)

func codec9(t *testing.T) move.Codec {
	c, err := move.NewCodec(9)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestExpandGame(t *testing.T) {
	is := is.New(t)
	ge := NewGameExpander(codec9(t), 1, false)
	records, err := ge.Expand("B[b3] w[C6] B[d6] W[c7]")
	is.NoErr(err)
	is.Equal(records, []string{
		"B[b3] W[c6]",
		"B[b3] W[c6] B[d6]",
		"B[b3] W[c6] B[d6] W[c7]",
	})

	ge = NewGameExpander(codec9(t), 3, false)
	records, err = ge.Expand("B[b3] W[c6] B[d6] W[c7]")
	is.NoErr(err)
	is.Equal(records, []string{"B[b3] W[c6] B[d6] W[c7]"})

	records, err = ge.Expand("B[b3]")
	is.NoErr(err)
	is.Equal(len(records), 0)
}

func TestExpandColors(t *testing.T) {
	is := is.New(t)
	lenient := NewGameExpander(codec9(t), 1, false)
	records, err := lenient.Expand("B[a1] B[a2]")
	is.NoErr(err)
	is.Equal(records, []string{"B[a1] W[a2]"})

	strict := NewGameExpander(codec9(t), 1, true)
	_, err = strict.Expand("B[a1] B[a2]")
	is.True(errors.Is(err, errColorOrder))

	_, err = strict.Expand("B[a1] W[k2]")
	is.True(errors.Is(err, move.ErrOutOfRange))
}

func TestProduce(t *testing.T) {
	is := is.New(t)
	in := strings.NewReader("B[a1] W[b2] B[c3]\n\n  B[a1] W[b2]  \n")
	var out bytes.Buffer
	st, err := produce(in, &out, NewGameExpander(codec9(t), 1, false), true)
	is.NoErr(err)
	is.Equal(out.String(), "B[a1] W[b2]\nB[a1] W[b2] B[c3]\n")
	is.Equal(st.games, 2)
	is.Equal(st.records, 2)
	is.Equal(st.duplicates, 1)

	out.Reset()
	st, err = produce(strings.NewReader("B[a1] W[b2]\nB[a1] W[b2]\n"), &out,
		NewGameExpander(codec9(t), 1, false), false)
	is.NoErr(err)
	is.Equal(st.records, 2)
	is.Equal(strings.Count(out.String(), "\n\n"), 0)
}
