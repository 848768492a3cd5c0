// Package stats provides a mergeable running summary of a numeric sample.
package stats

import (
	"fmt"
	"math"
)

// StatCounter tracks count, mean, variance, min and max of a stream of
// values. Counters built over disjoint parts of a sample can be merged.
// The zero value is an empty counter.
type StatCounter struct {
	n    int64
	mean float64
	m2   float64
	min  float64
	max  float64
}

// Add incorporates x.
func (s StatCounter) Add(x float64) StatCounter {
	if s.n == 0 {
		return StatCounter{n: 1, mean: x, min: x, max: x}
	}
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
	s.min = math.Min(s.min, x)
	s.max = math.Max(s.max, x)
	return s
}

// Merge combines two counters (Chan et al. parallel variance).
func (s StatCounter) Merge(o StatCounter) StatCounter {
	switch {
	case o.n == 0:
		return s
	case s.n == 0:
		return o
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	return StatCounter{
		n:    n,
		mean: s.mean + delta*float64(o.n)/float64(n),
		m2:   s.m2 + o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n),
		min:  math.Min(s.min, o.min),
		max:  math.Max(s.max, o.max),
	}
}

func (s StatCounter) Count() int64 { return s.n }

// Mean returns the mean, or NaN for an empty counter.
func (s StatCounter) Mean() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.mean
}

// Variance returns the population variance, or NaN for an empty counter.
func (s StatCounter) Variance() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.m2 / float64(s.n)
}

// Stdev returns the population standard deviation.
func (s StatCounter) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum, or +Inf for an empty counter.
func (s StatCounter) Min() float64 {
	if s.n == 0 {
		return math.Inf(1)
	}
	return s.min
}

// Max returns the maximum, or -Inf for an empty counter.
func (s StatCounter) Max() float64 {
	if s.n == 0 {
		return math.Inf(-1)
	}
	return s.max
}

func (s StatCounter) String() string {
	return fmt.Sprintf("(count: %d, mean: %f, stdev: %f, max: %f, min: %f)",
		s.Count(), s.Mean(), s.Stdev(), s.Max(), s.Min())
}
