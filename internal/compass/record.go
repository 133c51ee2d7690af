package compass

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the fixed output column list.
var Header = []string{"time(s)", "throttle", "navstate", "gps_speed_ms", "gps_course", "heading", "attitude2", "calc"}

// Record is one output line.
type Record struct {
	Elapsed   float64 // seconds since the first row
	Missing   bool    // sentinel for a rejected sample
	Throttle  int
	NavState  int
	GPSSpeed  float64
	GPSCourse int
	Heading   string
	Attitude  float64 // degrees
	Course    float64 // computed course, valid when HasCourse
	HasCourse bool

	Lat, Lon float64 // not written to the CSV
}

// MissingRecord is the sentinel emitted for a rejected sample.
func MissingRecord(elapsed float64) Record {
	return Record{Elapsed: elapsed, Missing: true}
}

// Fields renders the record in Header order.
func (r Record) Fields() []string {
	if r.Missing {
		return []string{FormatFloat(r.Elapsed), "-1", "-1", "-1", "-1", "-1", "-1", "-1"}
	}
	calc := ""
	if r.HasCourse {
		calc = FormatFloat(r.Course)
	}
	return []string{
		FormatFloat(r.Elapsed),
		strconv.Itoa(r.Throttle),
		strconv.Itoa(r.NavState),
		FormatFloat(r.GPSSpeed),
		strconv.Itoa(r.GPSCourse),
		r.Heading,
		FormatFloat(r.Attitude),
		calc,
	}
}

// FormatFloat writes v with the fewest digits that round-trip, keeping a
// ".0" on integral values so float columns stay recognisable.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// Writer writes Records as CSV, header first.
type Writer struct {
	csv  *csv.Writer
	rows int
}

// NewWriter writes the header row to w.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("csv write header: %w", err)
	}
	return &Writer{csv: cw}, nil
}

// Write appends one record.
func (w *Writer) Write(r Record) error {
	if err := w.csv.Write(r.Fields()); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of records written, header excluded.
func (w *Writer) Rows() int { return w.rows }

// Close flushes buffered output.
func (w *Writer) Close() error {
	w.csv.Flush()
	return w.csv.Error()
}
