package report

import (
	"testing"

	"k8sgrader/internal/model"
)

func TestObjectKeyDeterministic(t *testing.T) {
	key := objectKey(model.PhaseCheck, "2026-08-29 10:00:00", "a@x.com", "orbit1", "task01")
	want := "orbit1/a@x.com/task01/check/2026-08-29 10:00:00/report.html"
	if key != want {
		t.Errorf("objectKey = %q, want %q", key, want)
	}

	// Upload and presign must address the same object.
	if again := objectKey(model.PhaseCheck, "2026-08-29 10:00:00", "a@x.com", "orbit1", "task01"); again != key {
		t.Errorf("objectKey is not stable: %q vs %q", key, again)
	}
}
