package version

import (
	"strings"
	"testing"

	"github.com/picsafe/rotate/testutil"
)

func TestNewDefaults(t *testing.T) {
	info := New("rotate")
	if info.Version != "0.0.0-dev" {
		t.Errorf("Version = %q, want 0.0.0-dev", info.Version)
	}
	if info.Name != "rotate" {
		t.Errorf("Name = %q, want rotate", info.Name)
	}
}

func TestString(t *testing.T) {
	info := &Info{Name: "rotate", Version: "1.2.3", GitCommit: "abc1234", BuildDate: "2026-08-28"}
	got := info.String()
	for _, want := range []string{"rotate", "1.2.3", "abc1234", "2026-08-28"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestCommandQuiet(t *testing.T) {
	info := &Info{Name: "rotate", Version: "1.2.3"}
	cmd := NewCommand(info)
	cmd.SetArgs([]string{"--quiet"})

	out := testutil.CaptureOutput(t, cmd.Execute)
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("quiet output = %q, want bare version", out)
	}
}
