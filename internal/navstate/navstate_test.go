package navstate

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestList(t *testing.T) {
	var buf bytes.Buffer
	if err := List(&buf, Names); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(Names) {
		t.Fatalf("got %d lines, want %d", len(lines), len(Names))
	}
	if lines[0] != " 0 : UNDEFINED" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[16] != "16 : RTH_3D_HEAD_HOME" {
		t.Errorf("line 16 = %q", lines[16])
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		sane     bool
		all      bool
		explicit []int
		want     []int
	}{
		{"default", false, false, nil, []int{1}},
		{"explicit", false, false, []int{3, 5}, []int{3, 5}},
		{"all", false, true, []int{3}, All()},
		{"sane beats all", true, true, []int{3}, []int{1, 16, 24}},
	}
	for _, tc := range tests {
		if got := Select(tc.sane, tc.all, tc.explicit); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
	all := All()
	if len(all) != 29 || all[0] != 1 || all[28] != 29 {
		t.Errorf("All() = %v", all)
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList([]string{"1", "16, 24", ""})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1, 16, 24}) {
		t.Errorf("got %v", got)
	}
	if _, err := ParseList([]string{"1,x"}); err == nil {
		t.Error("expected error for non-integer state")
	}
}

func TestSet(t *testing.T) {
	s := NewSet([]int{24, 1, 16})
	if !s.Contains(16) || s.Contains(2) {
		t.Errorf("Contains wrong for %v", s)
	}
	if got := s.Codes(); !reflect.DeepEqual(got, []int{1, 16, 24}) {
		t.Errorf("Codes() = %v", got)
	}
	if Name(Names, 24) != "WAYPOINT_IN_PROGRESS" || Name(Names, 99) != "UNKNOWN" {
		t.Error("Name lookup wrong")
	}
}

func TestLoadNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "states.yaml")
	if err := os.WriteFile(path, []byte("states:\n  - UNDEFINED\n  - IDLE\n  - CRUISE\n"), 0644); err != nil {
		t.Fatal(err)
	}
	names, err := LoadNames(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"UNDEFINED", "IDLE", "CRUISE"}) {
		t.Errorf("names = %v", names)
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("states: []\n"), 0644)
	if _, err := LoadNames(empty); err == nil {
		t.Error("expected error for empty table")
	}
	if _, err := LoadNames(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
