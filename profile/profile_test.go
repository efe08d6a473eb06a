package profile

import (
	"slices"
	"testing"
)

func TestStart_NoMode(t *testing.T) {
	s := Start(WithPath(t.TempDir()), WithQuiet(true))

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", s)
	}

	s.Stop()
}

func TestStart_UnsupportedMode(t *testing.T) {
	s := Start(WithMode("bogus"), WithQuiet(true))

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", s)
	}

	s.Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if Enabled != slices.Contains(modes, "cpu") {
		t.Errorf("Enabled=%v but modes are %v", Enabled, modes)
	}

	if !slices.IsSorted(modes) {
		t.Errorf("expected sorted modes, got %v", modes)
	}
}
