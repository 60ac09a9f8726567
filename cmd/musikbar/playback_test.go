package main

import "testing"

func TestParseVolume(t *testing.T) {
	for _, arg := range []string{"0", "50", "100"} {
		if _, err := parseVolume(arg); err != nil {
			t.Errorf("parseVolume(%q) = %v, want nil", arg, err)
		}
	}
	for _, arg := range []string{"abc", "-1", "101", ""} {
		if _, err := parseVolume(arg); err == nil {
			t.Errorf("parseVolume(%q) = nil, want error", arg)
		}
	}
	if level, _ := parseVolume("42"); level != 42 {
		t.Errorf("parseVolume(42) = %d", level)
	}
}
