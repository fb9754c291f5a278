package process

// Notes:
// - Real kill behavior is covered by the capture integration tests, since
//   terminating actual processes is not safe in unit tests.
// - Non-positive PIDs return early: on unix, Kill(-0) would signal the
//   test's own process group.

import "testing"

// ---------------------------------------------------------------------------
// TestKillProcessGroup - PID guard
// ---------------------------------------------------------------------------

func TestKillProcessGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pid  int
	}{
		{name: "zero pid is ignored", pid: 0},
		{name: "negative pid is ignored", pid: -1},
		{name: "non-existent pid", pid: 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			KillProcessGroup(tt.pid)
		})
	}
}
