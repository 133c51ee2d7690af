// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package blackbox

import (
	"regexp"
	"strings"
)

// Symbolic column names after NormalizeHeader.
const (
	ColTime      = "time_us"
	ColThrottle  = "rccommand3"
	ColNavState  = "navstate"
	ColGPSSpeed  = "gps_speed_ms"
	ColGPSCourse = "gps_ground_course"
	ColLat       = "gps_coord0"
	ColLon       = "gps_coord1"
	ColHeading   = "heading"
	ColAttitude2 = "attitude2"
)

var nonWord = regexp.MustCompile(`\W+`)

// NormalizeHeader turns a decoder column title into its symbolic name:
// trimmed, lower case, spaces to underscores, then every non-word
// character dropped. "GPS_speed (m/s)" becomes "gps_speed_ms".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return nonWord.ReplaceAllString(h, "")
}

// Columns maps the fields of Row to positions in a decoder record. A
// negative index means the decoder did not emit that column.
type Columns struct {
	Time, Throttle, NavState, GPSSpeed, GPSCourse int
	Lat, Lon, Heading, Attitude2                  int
}

// NewColumns builds the mapping from the decoder's header record. When a
// title occurs twice the first one wins.
func NewColumns(header []string) Columns {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		n := NormalizeHeader(h)
		if _, seen := idx[n]; !seen {
			idx[n] = i
		}
	}
	at := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}
	return Columns{
		Time:      at(ColTime),
		Throttle:  at(ColThrottle),
		NavState:  at(ColNavState),
		GPSSpeed:  at(ColGPSSpeed),
		GPSCourse: at(ColGPSCourse),
		Lat:       at(ColLat),
		Lon:       at(ColLon),
		Heading:   at(ColHeading),
		Attitude2: at(ColAttitude2),
	}
}

// Missing lists the symbolic names of columns not present in the header.
func (c Columns) Missing() []string {
	var out []string
	for _, p := range []struct {
		name string
		idx  int
	}{
		{ColTime, c.Time}, {ColThrottle, c.Throttle}, {ColNavState, c.NavState},
		{ColGPSSpeed, c.GPSSpeed}, {ColGPSCourse, c.GPSCourse},
		{ColLat, c.Lat}, {ColLon, c.Lon},
		{ColHeading, c.Heading}, {ColAttitude2, c.Attitude2},
	} {
		if p.idx < 0 {
			out = append(out, p.name)
		}
	}
	return out
}

// Row decodes one record. Absent or malformed numeric fields read as 0.
func (c Columns) Row(rec []string) Row {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return Row{
		TimeUS:    int64(ParseFloat(field(c.Time))),
		Throttle:  int(ParseInt(field(c.Throttle))),
		NavState:  int(ParseInt(field(c.NavState))),
		GPSSpeed:  ParseFloat(field(c.GPSSpeed)),
		GPSCourse: int(ParseInt(field(c.GPSCourse))),
		Lat:       ParseFloat(field(c.Lat)),
		Lon:       ParseFloat(field(c.Lon)),
		Heading:   strings.TrimSpace(field(c.Heading)),
		Attitude2: ParseFloat(field(c.Attitude2)),
	}
}
