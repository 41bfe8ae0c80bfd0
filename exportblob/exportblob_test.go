package exportblob

import (
	"testing"
	"time"
)

func TestSnapshotKeyIsDatePrefixed(t *testing.T) {
	at := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	got := snapshotKey("wall-1", at)
	want := "snapshots/2026/03/05/wall-1.json"
	if got != want {
		t.Errorf("snapshotKey() = %q, want %q", got, want)
	}
}

func TestReportKeyIsDatePrefixed(t *testing.T) {
	at := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	got := reportKey("wall-1", at)
	want := "reports/2026/03/05/wall-1.pdf"
	if got != want {
		t.Errorf("reportKey() = %q, want %q", got, want)
	}
}
