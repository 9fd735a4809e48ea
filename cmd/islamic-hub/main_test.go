package main

import "testing"

func TestRun_ExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if code := run([]string{"--version"}); code != 0 {
		t.Errorf("run(--version) = %d, want 0", code)
	}
	if code := run([]string{"no-such-command"}); code != 1 {
		t.Errorf("run(no-such-command) = %d, want 1", code)
	}
}
