package rmc

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/bbox_compass/internal/compass"
)

var epoch = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func TestSentenceParsesBack(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, "", -1.3, epoch)
	rec := compass.Record{
		Elapsed: 3725.5, GPSSpeed: 10, GPSCourse: 900,
		Course: 45.6, HasCourse: true, Lat: 51.5, Lon: -0.125,
	}
	s := w.Sentence(rec)
	if !strings.HasPrefix(s, "$GPRMC,010205.50,A,5130.0000,N,00007.5000,W,") {
		t.Errorf("sentence = %q", s)
	}

	parsed, err := nmea.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	m, ok := parsed.(nmea.RMC)
	if !ok {
		t.Fatalf("got %T, want nmea.RMC", parsed)
	}
	if math.Abs(m.Latitude-51.5) > 1e-6 || math.Abs(m.Longitude+0.125) > 1e-6 {
		t.Errorf("position = %v,%v", m.Latitude, m.Longitude)
	}
	if m.Course != 45.6 {
		t.Errorf("course = %v", m.Course)
	}
	if math.Abs(m.Speed-19.44) > 0.01 {
		t.Errorf("speed = %v knots", m.Speed)
	}
	if m.Variation != -1.3 {
		t.Errorf("variation = %v", m.Variation)
	}
	if m.Date.DD != 14 || m.Date.MM != 3 || m.Date.YY != 26 {
		t.Errorf("date = %v", m.Date)
	}
}

func TestDecoderCourseFallback(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, "GN", 2.0, epoch)
	s := w.Sentence(compass.Record{GPSCourse: 1234, Lat: -33.9, Lon: 151.2})
	m, err := nmea.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	rmc := m.(nmea.RMC)
	if rmc.Course != 123.4 || rmc.Variation != 2.0 || rmc.Talker != "GN" {
		t.Errorf("rmc = %+v", rmc)
	}
	if math.Abs(rmc.Latitude+33.9) > 1e-6 {
		t.Errorf("latitude = %v", rmc.Latitude)
	}
}

func TestWriterSkipsSentinels(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "", -1.3, epoch)
	w.Write(compass.MissingRecord(1))
	w.Write(compass.Record{Elapsed: 2, Lat: 10, Lon: 20})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.Sentences() != 1 || strings.Count(buf.String(), "\r\n") != 1 {
		t.Errorf("output = %q", buf.String())
	}
}

func TestHMS(t *testing.T) {
	tests := map[float64]string{0: "000000.00", 59.999: "000100.00", 86400: "000000.00", 3661.25: "010101.25"}
	for in, want := range tests {
		if got := hms(in); got != want {
			t.Errorf("hms(%v) = %q, want %q", in, got, want)
		}
	}
}
