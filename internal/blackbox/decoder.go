// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package blackbox

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// DefaultDecoder is the decoder executable looked up on PATH.
const DefaultDecoder = "blackbox_decode"

// ErrNoLog is returned when no blackbox log path was given.
var ErrNoLog = errors.New("no BBOX log")

// Reader decodes the decoder's CSV text into Rows.
type Reader struct {
	csv  *csv.Reader
	cols Columns
}

// NewReader reads the header record from r and prepares the column mapping.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decoder output has no header")
		}
		return nil, fmt.Errorf("read decoder header: %w", err)
	}
	cr.ReuseRecord = true

	return &Reader{csv: cr, cols: NewColumns(header)}, nil
}

// Columns returns the header mapping built from the first record.
func (r *Reader) Columns() Columns { return r.cols }

// Next returns the next Row, or io.EOF after the last one.
func (r *Reader) Next() (Row, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("read decoder output: %w", err)
	}
	return r.cols.Row(rec), nil
}

// Decoder describes one invocation of the external blackbox decoder.
type Decoder struct {
	Path        string  // executable, DefaultDecoder when empty
	Index       int     // log index inside a multi-log file
	Declination float64 // magnetic declination, degrees
	Stderr      io.Writer
}

// Args returns the decoder command line arguments for logPath.
func (d Decoder) Args(logPath string) []string {
	return []string{
		"--index", strconv.Itoa(d.Index),
		"--merge-gps",
		"--declination", strconv.FormatFloat(d.Declination, 'f', -1, 64),
		"--stdout",
		logPath,
	}
}

func (d Decoder) path() string {
	if d.Path == "" {
		return DefaultDecoder
	}
	return d.Path
}

// Stream is a running decoder whose standard output is read as Rows.
type Stream struct {
	*Reader
	cmd  *exec.Cmd
	out  io.ReadCloser
	name string
}

// Open checks logPath, starts the decoder and reads its header.
func (d Decoder) Open(logPath string) (*Stream, error) {
	if logPath == "" {
		return nil, ErrNoLog
	}
	if _, err := os.Stat(logPath); err != nil {
		return nil, fmt.Errorf("blackbox log %s: %w", logPath, err)
	}

	cmd := exec.Command(d.path(), d.Args(logPath)...)
	cmd.Stderr = d.Stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", d.path(), err)
	}

	s := &Stream{cmd: cmd, out: out, name: d.path()}
	r, err := NewReader(out)
	if err != nil {
		if cerr := s.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	s.Reader = r
	return s, nil
}

// Close drains the pipe and reaps the decoder. A non-zero exit status is
// reported as an error.
func (s *Stream) Close() error {
	_, drainErr := io.Copy(io.Discard, s.out)
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	if drainErr != nil {
		return fmt.Errorf("drain %s output: %w", s.name, drainErr)
	}
	return nil
}
