package version

import (
	"strings"
	"testing"
)

func TestGet_ShortensCommit(t *testing.T) {
	orig := Commit
	t.Cleanup(func() { Commit = orig })

	Commit = "0123456789abcdef"
	info := Get()
	if info.Commit != "0123456" {
		t.Errorf("expected short commit, got %q", info.Commit)
	}
	if info.GoVersion == "" {
		t.Error("expected go version")
	}
	if !strings.Contains(String(), "commit: 0123456") {
		t.Errorf("unexpected banner %q", String())
	}
}
