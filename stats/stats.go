package stats

import (
	"io"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance of a series of values, such as
// per-step training accuracy.
type Statistic struct {
	n    int
	last float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.n)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
	}
}

func (s *Statistic) Count() int {
	return s.n
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.newS / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

// Reset forgets all pushed values.
func (s *Statistic) Reset() {
	*s = Statistic{}
}

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// HalfWidth is the half-width of the confidence interval of the mean, for
// a confidence given in percent.
func (s *Statistic) HalfWidth(confidenceInterval float64) float64 {
	if s.n <= 1 {
		return 0
	}
	return ZVal(confidenceInterval) * s.Stdev() / math.Sqrt(float64(s.n))
}

// LabelHistogram buckets move labels, for eyeballing the move
// distribution of a batch.
func LabelHistogram(labels []int32, bins int) histogram.Histogram {
	vals := lo.Map(labels, func(l int32, _ int) float64 {
		return float64(l)
	})
	return histogram.Hist(bins, vals)
}

// FprintHistogram writes h as horizontal bars at most width characters long.
func FprintHistogram(w io.Writer, h histogram.Histogram, width int) error {
	return histogram.Fprint(w, h, histogram.Linear(width))
}
