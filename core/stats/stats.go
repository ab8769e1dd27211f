// Package stats provides a lock-free running aggregate of observed call
// durations: count, min, max, sum, with the average derived on demand.
package stats

import (
	"math"
	"sync/atomic"
	"time"
)

// RunningStats accumulates duration observations. Every field is updated
// atomically, so concurrent observers never lose a count; min and max use a
// compare-and-swap loop. The zero value is not usable, create instances with
// NewRunning.
type RunningStats struct {
	count    atomic.Int64
	failures atomic.Int64
	sum      atomic.Int64 // nanoseconds
	min      atomic.Int64 // nanoseconds, MaxInt64 until the first observation
	max      atomic.Int64 // nanoseconds, MinInt64 until the first observation
}

// NewRunning returns an empty aggregate.
func NewRunning() *RunningStats {
	s := &RunningStats{}
	s.min.Store(math.MaxInt64)
	s.max.Store(math.MinInt64)
	return s
}

// Observe folds one elapsed duration into the aggregate. failed marks
// observations taken from calls that returned an error; their timing still
// counts.
func (s *RunningStats) Observe(d time.Duration, failed bool) {
	n := int64(d)
	s.count.Add(1)
	s.sum.Add(n)
	if failed {
		s.failures.Add(1)
	}
	for {
		cur := s.min.Load()
		if n >= cur || s.min.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := s.max.Load()
		if n <= cur || s.max.CompareAndSwap(cur, n) {
			break
		}
	}
}

// Snapshot returns a point-in-time view. Fields are read individually, so a
// snapshot taken while observers are active is weakly consistent: the count is
// never behind the observations it includes once all calls have completed.
func (s *RunningStats) Snapshot() Snapshot {
	count := s.count.Load()
	snap := Snapshot{
		Count:    count,
		Failures: s.failures.Load(),
		Sum:      time.Duration(s.sum.Load()),
	}
	if count > 0 {
		snap.Min = time.Duration(s.min.Load())
		snap.Max = time.Duration(s.max.Load())
	}
	return snap
}

// Snapshot is an immutable view of a RunningStats.
type Snapshot struct {
	Count    int64         `json:"count"`
	Failures int64         `json:"failures"`
	Min      time.Duration `json:"min_ns"`
	Max      time.Duration `json:"max_ns"`
	Sum      time.Duration `json:"sum_ns"`
}

// Avg returns Sum/Count, or 0 when nothing has been observed.
func (s Snapshot) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / time.Duration(s.Count)
}
