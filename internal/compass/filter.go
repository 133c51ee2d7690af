// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"math"

	"github.com/relabs-tech/bbox_compass/internal/blackbox"
	"github.com/relabs-tech/bbox_compass/internal/geo"
	"github.com/relabs-tech/bbox_compass/internal/navstate"
)

// MinSpeed is the ground speed (m/s) a sample must exceed before its GPS
// course is considered meaningful.
const MinSpeed = 2.0

// FilterConfig selects which samples take part in the comparison.
// It is not modified during a run.
type FilterConfig struct {
	States      navstate.Set
	MinThrottle int
	Declination float64 // forwarded to the decoder only
	Index       int     // decoder log index
	Missing     bool    // emit sentinel records for rejected samples
	HoldCourse  bool    // repeat the last course while the fix has not moved
}

// DefaultFilterConfig returns the command line defaults.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		States:      navstate.NewSet(navstate.Default),
		MinThrottle: 1500,
		Declination: -1.3,
		Index:       1,
	}
}

// Accepts reports whether row passes the state, throttle and speed checks.
func (c FilterConfig) Accepts(row blackbox.Row) bool {
	return c.States.Contains(row.NavState) &&
		row.Throttle > c.MinThrottle &&
		row.GPSSpeed > MinSpeed
}

// Fix is a GPS position. The zero value means no fix yet.
type Fix struct {
	Lat, Lon float64
}

// IsZero reports whether f is unset.
func (f Fix) IsZero() bool { return f.Lat == 0 || f.Lon == 0 }

// Stats counts what a Filter has seen.
type Stats struct {
	Rows     int
	Accepted int
	Rejected int
	Courses  int // accepted rows with a computed course
	Emitted  int // records returned, sentinels included
}

// Filter carries the per-run state across rows. Feed rows in log order
// through Step.
type Filter struct {
	cfg FilterConfig

	prev       Fix
	start      int64
	started    bool
	lastCourse float64
	haveCourse bool

	stats Stats
}

// NewFilter returns a Filter with no previous fix.
func NewFilter(cfg FilterConfig) *Filter {
	if cfg.States == nil {
		cfg.States = navstate.NewSet(navstate.Default)
	}
	return &Filter{cfg: cfg}
}

// Stats returns the counters so far.
func (f *Filter) Stats() Stats { return f.stats }

// Step processes one row. It returns the record to emit and true, or false
// when the row produces no output.
func (f *Filter) Step(row blackbox.Row) (Record, bool) {
	f.stats.Rows++
	if !f.started {
		f.start = row.TimeUS
		f.started = true
	}
	elapsed := float64(row.TimeUS-f.start) / 1e6
	cur := Fix{Lat: row.Lat, Lon: row.Lon}

	// The previous fix follows raw GPS, not just accepted rows.
	defer func() { f.prev = cur }()

	if !f.cfg.Accepts(row) {
		f.stats.Rejected++
		if f.cfg.Missing {
			f.stats.Emitted++
			return MissingRecord(elapsed), true
		}
		return Record{}, false
	}
	f.stats.Accepted++

	rec := Record{
		Elapsed:   elapsed,
		Throttle:  row.Throttle,
		NavState:  row.NavState,
		GPSSpeed:  row.GPSSpeed,
		GPSCourse: row.GPSCourse,
		Heading:   row.Heading,
		Attitude:  row.Attitude2 / 10.0,
		Lat:       row.Lat,
		Lon:       row.Lon,
	}

	switch {
	case f.prev.IsZero() || cur.IsZero():
		f.haveCourse = false
	case f.prev.Lat != cur.Lat && f.prev.Lon != cur.Lon:
		// Both axes must change; a move along a single axis keeps the
		// course empty (or held).
		cse, _ := geo.CourseAndDistance(f.prev.Lat, f.prev.Lon, cur.Lat, cur.Lon)
		f.lastCourse = math.Floor(cse*10.0) / 10.0
		f.haveCourse = true
		rec.Course, rec.HasCourse = f.lastCourse, true
		f.stats.Courses++
	case f.cfg.HoldCourse && f.haveCourse:
		rec.Course, rec.HasCourse = f.lastCourse, true
	}

	f.stats.Emitted++
	return rec, true
}
