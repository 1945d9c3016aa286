package version

import (
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	if Current() == "" {
		t.Error("Current should never be empty")
	}

	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v9.9.9"
	if got := Current(); got != "v9.9.9" {
		t.Errorf("Current() = %q, want ldflags value", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, "commit "+GitCommit) {
		t.Errorf("String() = %q, missing commit", s)
	}
}
