// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/bbox_compass/internal/blackbox"
	"github.com/relabs-tech/bbox_compass/internal/compass"
	"github.com/relabs-tech/bbox_compass/internal/config"
	"github.com/relabs-tech/bbox_compass/internal/navstate"
	"github.com/relabs-tech/bbox_compass/internal/rmc"
)

// Options are the command line settings for one run.
type Options struct {
	AllStates   bool
	Sane        bool
	ListStates  bool
	Missing     bool
	HoldCourse  bool
	Verbose     bool
	Index       int
	Declination float64
	MinThrottle int
	States      []string

	ConfigPath string
	Output     string
	NMEAPath   string
	MQTTBroker string
}

// RunCompass runs the heading / GPS course comparison with the given
// command line arguments (without the program name).
func RunCompass(args []string) error {
	cmd := NewCommand(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// NewCommand builds the command line interface. CSV and the state list go
// to stdout; usage on errors goes to stderr.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := Options{}
	def := compass.DefaultFilterConfig()

	cmd := &cobra.Command{
		Use:   "bbcompass [options] [file]",
		Short: "Extract heading & GPS course from a blackbox log for analysis",
		Long: `bbcompass decodes a blackbox log with blackbox_decode and writes one CSV
row per qualifying sample: throttle, nav state, GPS speed and course, the
magnetic and attitude headings, and the great-circle course calculated
from consecutive GPS fixes.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath := ""
			if len(args) > 0 {
				logPath = args[0]
			}
			return run(opts, logPath, cmd.OutOrStdout(), stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		if uerr := c.Usage(); uerr != nil {
			log.Printf("usage: %v", uerr)
		}
		return err
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.BoolVar(&opts.AllStates, "all-states", false, "Assess all nav states (1-29)")
	f.BoolVar(&opts.Sane, "sane", false, "Assess the straight flight states (1,16,24)")
	f.BoolVar(&opts.ListStates, "list-states", false, "List the nav states and exit")
	f.BoolVar(&opts.Missing, "missing", false, "Emit -1 rows for rejected samples")
	f.IntVarP(&opts.Index, "index", "i", def.Index, "Log index in a multi-log file")
	f.Float64VarP(&opts.Declination, "declination", "d", def.Declination, "Mag Declination")
	f.IntVarP(&opts.MinThrottle, "min-throttle", "t", def.MinThrottle, "Min Throttle for comparison")
	f.StringSliceVarP(&opts.States, "states", "s", []string{"1"}, "Nav states to assess (a,b,c)")
	f.BoolVar(&opts.HoldCourse, "hold-course", false, "Repeat the last calculated course while the fix has not moved")
	f.StringVarP(&opts.Output, "output", "o", "", "Write CSV to file instead of stdout")
	f.StringVar(&opts.NMEAPath, "nmea", "", "Also write accepted samples as NMEA RMC sentences to file")
	f.StringVar(&opts.MQTTBroker, "mqtt", "", "Also publish records to this MQTT broker (overrides MQTT_BROKER)")
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "KEY=VALUE configuration file")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log progress to stderr")
	f.BoolP("help", "?", false, "Show this message")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(opts Options, logPath string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	names := navstate.Names
	if cfg.StatesFile != "" {
		if names, err = navstate.LoadNames(cfg.StatesFile); err != nil {
			return err
		}
	}
	if opts.ListStates {
		return navstate.List(stdout, names)
	}

	if logPath == "" {
		return blackbox.ErrNoLog
	}

	explicit, err := navstate.ParseList(opts.States)
	if err != nil {
		return err
	}
	fc := compass.FilterConfig{
		States:      navstate.NewSet(navstate.Select(opts.Sane, opts.AllStates, explicit)),
		MinThrottle: opts.MinThrottle,
		Declination: opts.Declination,
		Index:       opts.Index,
		Missing:     opts.Missing,
		HoldCourse:  opts.HoldCourse,
	}
	if opts.MQTTBroker != "" {
		cfg.MQTTBroker = opts.MQTTBroker
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if opts.Verbose {
		var states []string
		for _, c := range fc.States.Codes() {
			states = append(states, fmt.Sprintf("%d:%s", c, navstate.Name(names, c)))
		}
		log.Printf("assessing states %v, min throttle %d, min speed %.1f m/s",
			states, fc.MinThrottle, compass.MinSpeed)
	}

	dec := blackbox.Decoder{
		Path:        cfg.Decoder,
		Index:       fc.Index,
		Declination: fc.Declination,
		Stderr:      stderr,
	}
	stream, err := dec.Open(logPath)
	if err != nil {
		return err
	}
	if m := stream.Columns().Missing(); len(m) > 0 {
		log.Printf("decoder output lacks columns %v, reading them as 0", m)
	}

	sinks, err := openSinks(opts, cfg, fc, stdout)
	if err != nil {
		if cerr := stream.Close(); cerr != nil {
			log.Printf("closing decoder after sink failure: %v", cerr)
		}
		return err
	}

	filter := compass.NewFilter(fc)
	runErr := process(stream, filter, sinks)

	// Whatever was written stays written; decoder failure still fails the run.
	sinkErr := sinks.Close()
	decErr := stream.Close()

	s := filter.Stats()
	log.Printf("%s: rows=%d accepted=%d rejected=%d courses=%d emitted=%d",
		logPath, s.Rows, s.Accepted, s.Rejected, s.Courses, s.Emitted)

	return errors.Join(runErr, sinkErr, decErr)
}

// rowSource is the part of blackbox.Stream that process needs.
type rowSource interface {
	Next() (blackbox.Row, error)
}

// process folds every row through the filter into the sinks.
func process(src rowSource, filter *compass.Filter, sink Sink) error {
	for {
		row, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		rec, ok := filter.Step(row)
		if !ok {
			continue
		}
		if err := sink.Write(rec); err != nil {
			return err
		}
	}
}

func openSinks(opts Options, cfg *config.Config, fc compass.FilterConfig, stdout io.Writer) (multiSink, error) {
	var sinks multiSink
	fail := func(err error) (multiSink, error) {
		sinks.Close()
		return nil, err
	}

	out := stdout
	closeOut := func() error { return nil }
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		out, closeOut = file, file.Close
	}
	csvw, err := compass.NewWriter(out)
	if err != nil {
		if cerr := closeOut(); cerr != nil {
			log.Printf("closing %s: %v", opts.Output, cerr)
		}
		return nil, err
	}
	sinks = append(sinks, fileSink{Sink: csvw, close: closeOut})

	if opts.NMEAPath != "" {
		file, err := os.Create(opts.NMEAPath)
		if err != nil {
			return fail(fmt.Errorf("create NMEA output: %w", err))
		}
		nw := rmc.NewWriter(file, cfg.NMEATalker, fc.Declination, time.Unix(0, 0).UTC())
		sinks = append(sinks, fileSink{Sink: nw, close: file.Close})
	}

	if cfg.MQTTBroker != "" {
		ms, err := newMQTTSink(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, cfg.MQTTQoS)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, ms)
	}

	return sinks, nil
}
