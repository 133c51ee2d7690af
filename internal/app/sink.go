// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"

	"github.com/relabs-tech/bbox_compass/internal/compass"
)

// Sink receives every emitted record.
type Sink interface {
	Write(compass.Record) error
	Close() error
}

// multiSink fans records out to several sinks in order.
type multiSink []Sink

func (m multiSink) Write(r compass.Record) error {
	for _, s := range m {
		if err := s.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, even after a failure, and joins the errors.
func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fileSink closes the file under a sink after the sink itself.
type fileSink struct {
	Sink
	close func() error
}

func (f fileSink) Close() error {
	return errors.Join(f.Sink.Close(), f.close())
}
