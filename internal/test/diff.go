package test

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
)

// For multi-line strings, where the plain "a != b" failure text from
// AssertEqual is unreadable.
func AssertEqualWithDiff(t *testing.T, observed string, expected string) {
	t.Helper()
	if observed != expected {
		t.Fatalf("Observed does not match expected:\n%s", diff.Diff(expected, observed))
	}
}
