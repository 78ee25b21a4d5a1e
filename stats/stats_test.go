package stats

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.Equal(s.Count(), len(c.scores))
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestResetAndLast(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	s.Push(0.25)
	s.Push(0.75)
	is.Equal(s.Last(), 0.75)
	s.Reset()
	is.Equal(s.Count(), 0)
	is.Equal(s.Mean(), 0.0)
}

func TestHalfWidth(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))

	s := &Statistic{}
	is.Equal(s.HalfWidth(95), 0.0)
	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		s.Push(v)
	}
	// 1.96 * 5.2372 / sqrt(8)
	is.True(FuzzyEqual(s.HalfWidth(95), 1.959963984540054*5.2372293656638/2.8284271247461903))
}

func TestLabelHistogram(t *testing.T) {
	is := is.New(t)
	h := LabelHistogram([]int32{0, 0, 1, 80, 80, 80}, 4)
	is.Equal(h.Count, 6)
	is.Equal(len(h.Buckets), 4)
	is.Equal(h.Buckets[0].Min, 0.0)
	is.Equal(h.Buckets[0].Count, 3)
	total := 0
	for _, b := range h.Buckets {
		total += b.Count
	}
	is.Equal(total, 6)

	var buf bytes.Buffer
	is.NoErr(FprintHistogram(&buf, h, 10))
	is.True(buf.Len() > 0)
}
