// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package navstate

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names is the flight controller's navigation state table, indexed by the
// navState code written into the blackbox log.
var Names = []string{
	"UNDEFINED",
	"IDLE",
	"ALTHOLD_INITIALIZE",
	"ALTHOLD_IN_PROGRESS",
	"POSHOLD_2D_INITIALIZE",
	"POSHOLD_2D_IN_PROGRESS",
	"POSHOLD_3D_INITIALIZE",
	"POSHOLD_3D_IN_PROGRESS",
	"RTH_INITIALIZE",
	"RTH_2D_INITIALIZE",
	"RTH_2D_HEAD_HOME",
	"RTH_2D_GPS_FAILING",
	"RTH_2D_FINISHING",
	"RTH_2D_FINISHED",
	"RTH_3D_INITIALIZE",
	"RTH_3D_CLIMB_TO_SAFE_ALT",
	"RTH_3D_HEAD_HOME",
	"RTH_3D_GPS_FAILING",
	"RTH_3D_HOVER_PRIOR_TO_LANDING",
	"RTH_3D_LANDING",
	"RTH_3D_FINISHING",
	"RTH_3D_FINISHED",
	"WAYPOINT_INITIALIZE",
	"WAYPOINT_PRE_ACTION",
	"WAYPOINT_IN_PROGRESS",
	"WAYPOINT_REACHED",
	"WAYPOINT_NEXT",
	"WAYPOINT_FINISHED",
	"WAYPOINT_RTH_LAND",
	"EMERGENCY_LANDING_INITIALIZE",
	"EMERGENCY_LANDING_IN_PROGRESS",
	"EMERGENCY_LANDING_FINISHED",
}

// Sane is the state set used by --sane: idle, RTH head-home and waypoint
// in progress, i.e. the states where the craft flies a straight course.
var Sane = []int{1, 16, 24}

// Default is the state set used when no states are given.
var Default = []int{1}

// All returns every state code accepted by --all-states (1..29).
func All() []int {
	s := make([]int, 0, 29)
	for i := 1; i <= 29; i++ {
		s = append(s, i)
	}
	return s
}

// Set is an immutable lookup of accepted state codes.
type Set map[int]struct{}

// NewSet builds a Set from a list of codes.
func NewSet(codes []int) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether code is in the set.
func (s Set) Contains(code int) bool {
	_, ok := s[code]
	return ok
}

// Codes returns the set members in ascending order.
func (s Set) Codes() []int {
	out := make([]int, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// Select resolves the command line state options: sane wins over all,
// all wins over an explicit list.
func Select(sane, all bool, explicit []int) []int {
	switch {
	case sane:
		return Sane
	case all:
		return All()
	case len(explicit) > 0:
		return explicit
	}
	return Default
}

// ParseList parses state codes given as strings ("1", "16,24", ...).
func ParseList(items []string) ([]int, error) {
	var codes []int
	for _, item := range items {
		for _, f := range strings.Split(item, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			c, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("invalid state %q: %w", f, err)
			}
			codes = append(codes, c)
		}
	}
	return codes, nil
}

// Name returns the symbolic name for code, or "UNKNOWN".
func Name(names []string, code int) string {
	if code >= 0 && code < len(names) {
		return names[code]
	}
	return "UNKNOWN"
}

// List writes the numbered state table, one "NN : NAME" line per state.
func List(w io.Writer, names []string) error {
	for n, s := range names {
		if _, err := fmt.Fprintf(w, "%2d : %s\n", n, s); err != nil {
			return err
		}
	}
	return nil
}

// statesFile is the YAML layout accepted by LoadNames:
//
//	states:
//	  - UNDEFINED
//	  - IDLE
//	  ...
type statesFile struct {
	States []string `yaml:"states"`
}

// LoadNames reads a replacement state table from a YAML file, for firmware
// versions whose navState numbering differs from the built-in one.
func LoadNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read states file: %w", err)
	}
	var sf statesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse states file: %w", err)
	}
	if len(sf.States) == 0 {
		return nil, fmt.Errorf("states file %s: no states listed", path)
	}
	return sf.States, nil
}
