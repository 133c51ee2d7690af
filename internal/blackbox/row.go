// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package blackbox

import (
	"regexp"
	"strconv"
	"strings"
)

// Row is one decoded log sample. Only the fields used by the heading
// analysis are kept.
type Row struct {
	TimeUS    int64   // time_us, microseconds since power on
	Throttle  int     // rccommand3
	NavState  int     // navstate
	GPSSpeed  float64 // gps_speed_ms, m/s
	GPSCourse int     // gps_ground_course, as written by the decoder
	Lat       float64 // gps_coord0, decimal degrees
	Lon       float64 // gps_coord1, decimal degrees
	Heading   string  // heading, passed through untouched
	Attitude2 float64 // attitude2, tenths of a degree
}

var (
	intPrefix   = regexp.MustCompile(`^[-+]?\d+`)
	floatPrefix = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
)

// ParseInt returns the leading integer of s, or 0 when there is none.
// "12abc" is 12, "1.9" is 1, "abc" is 0.
func ParseInt(s string) int64 {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseFloat returns the leading decimal number of s, or 0 when there is
// none.
func ParseFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
