// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package rmc writes accepted samples as NMEA RMC sentences so a run can be
// replayed into tools that only understand NMEA.
package rmc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/bbox_compass/internal/compass"
)

// DefaultTalker is the talker ID used when none is configured.
const DefaultTalker = "GP"

const knotsPerMS = 3600.0 / 1852.0

// Writer emits one RMC sentence per accepted record. Sentinel records are
// skipped.
type Writer struct {
	w           *bufio.Writer
	talker      string
	declination float64
	date        time.Time
	n           int
}

// NewWriter returns a Writer. The log carries no wall clock, so sentence
// time is the elapsed time from 00:00:00 on date.
func NewWriter(w io.Writer, talker string, declination float64, date time.Time) *Writer {
	if talker == "" {
		talker = DefaultTalker
	}
	return &Writer{w: bufio.NewWriter(w), talker: talker, declination: declination, date: date}
}

// Write appends the sentence for r.
func (w *Writer) Write(r compass.Record) error {
	if r.Missing {
		return nil
	}
	if _, err := io.WriteString(w.w, w.Sentence(r)+"\r\n"); err != nil {
		return fmt.Errorf("nmea write: %w", err)
	}
	w.n++
	return nil
}

// Sentences returns the number of sentences written.
func (w *Writer) Sentences() int { return w.n }

// Close flushes buffered sentences.
func (w *Writer) Close() error {
	return w.w.Flush()
}

// Sentence renders r as a complete "$..*CS" RMC sentence. The course is the
// computed one when present, else the decoder's (decidegrees).
func (w *Writer) Sentence(r compass.Record) string {
	course := float64(r.GPSCourse) / 10.0
	if r.HasCourse {
		course = r.Course
	}
	varDir := "E"
	if w.declination < 0 {
		varDir = "W"
	}
	lat, ns := latLong(r.Lat, 2, "N", "S")
	lon, ew := latLong(r.Lon, 3, "E", "W")

	body := fmt.Sprintf("%sRMC,%s,A,%s,%s,%s,%s,%.2f,%.1f,%s,%.1f,%s,A",
		w.talker, hms(r.Elapsed), lat, ns, lon, ew,
		r.GPSSpeed*knotsPerMS, course, w.date.Format("020106"),
		math.Abs(w.declination), varDir)
	return "$" + body + "*" + nmea.Checksum(body)
}

// latLong formats decimal degrees as NMEA [d]ddmm.mmmm plus hemisphere.
func latLong(v float64, degDigits int, pos, neg string) (string, string) {
	hemi := pos
	if v < 0 {
		hemi = neg
		v = -v
	}
	// Work in 1e-4 minutes so rounding never yields 60 minutes.
	const perDeg = 60 * 10000
	total := int64(math.Round(v * perDeg))
	deg := total / perDeg
	mins := float64(total%perDeg) / 10000
	return fmt.Sprintf("%0*d%07.4f", degDigits, deg, mins), hemi
}

// hms formats seconds as hhmmss.ss, wrapping at 24h.
func hms(sec float64) string {
	cs := int64(math.Round(sec*100)) % (24 * 3600 * 100)
	if cs < 0 {
		cs += 24 * 3600 * 100
	}
	h := cs / 360000
	m := (cs / 6000) % 60
	s := float64(cs%6000) / 100
	return fmt.Sprintf("%02d%02d%05.2f", h, m, s)
}
