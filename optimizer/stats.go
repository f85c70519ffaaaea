// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package optimizer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"iropt/core"
)

// Type represents the measurement type, eg, Changed or Failed.
type Type int

const (
	// Unchanged counts passes returning SuccessWithoutChange
	Unchanged Type = iota
	// Changed counts passes returning SuccessWithChange
	Changed
	// Failed counts passes returning Failure
	Failed
	// Rejected counts passes turned into a failure by verification
	Rejected
	// Runs counts pipeline runs
	Runs
)

func (t Type) String() string {
	switch t {
	case Unchanged:
		return "Unchanged"
	case Changed:
		return "Changed"
	case Failed:
		return "Failed"
	case Rejected:
		return "Rejected"
	case Runs:
		return "Runs"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func typeOf(s core.Status) Type {
	switch s {
	case core.SuccessWithChange:
		return Changed
	case core.SuccessWithoutChange:
		return Unchanged
	default:
		return Failed
	}
}

type timeStats struct {
	sum  float64
	sum2 float64
	cnt  int
}

// Stats keeps tracks of count stats and timing measurements. A Stats
// object can be shared by managers running concurrently.
type Stats struct {
	mu     sync.Mutex
	counts map[Type]int
	start  time.Time
	time   map[string]timeStats
}

// NewStats returns a new Stats object
func NewStats() *Stats {
	return &Stats{
		counts: make(map[Type]int),
		start:  time.Now(),
		time:   make(map[string]timeStats),
	}
}

// Inc increments the stats count of type t
func (s *Stats) Inc(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[t]++
}

// Count returns the count of type t.
func (s *Stats) Count(t Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[t]
}

// AddTime adds a time durations to a tag
func (s *Stats) AddTime(tag string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.time[tag]
	t.sum += float64(d)
	t.sum2 += float64(d) * float64(d)
	t.cnt++
	s.time[tag] = t
}

func (ts timeStats) mean() time.Duration {
	return time.Duration(ts.sum / float64(ts.cnt))
}

func (ts timeStats) sd() time.Duration {
	cnt := float64(ts.cnt)
	v := ts.sum2/cnt - math.Pow(ts.sum/cnt, 2)
	if v < 0 {
		v = 0
	}
	return time.Duration(math.Sqrt(v))
}

// GetTime returns the mean and standard deviation of the durations
// recorded for tag, and how many there are.
func (s *Stats) GetTime(tag string) (time.Duration, time.Duration, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts, has := s.time[tag]; has {
		return ts.mean(), ts.sd(), ts.cnt
	}
	return 0, 0, 0
}

// String is the string representation of the stats object.
func (s *Stats) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for t := Unchanged; t <= Runs; t++ {
		if n, has := s.counts[t]; has {
			fmt.Fprintf(&sb, "%10v: %d\n", t, n)
		}
	}

	elapsed := time.Since(s.start)
	fmt.Fprintf(&sb, "\nTotal time: %v (%v)\n", elapsed.Seconds(), elapsed)

	tags := make([]string, 0, len(s.time))
	for tag := range s.time {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		ts := s.time[tag]
		fmt.Fprintf(&sb, "Mean time %s: %v (sd=%v cnt=%v)\n", tag, ts.mean(), ts.sd(), ts.cnt)
	}
	return sb.String()
}
