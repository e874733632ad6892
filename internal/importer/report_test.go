package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestReportCounters(t *testing.T) {
	r := NewReport(false)
	if r.RunID == "" {
		t.Error("RunID is empty")
	}

	r.AddSkip(SkipMissingKey)
	r.AddSkip(SkipMissingKey)
	r.AddSkip(SkipAlreadyExists)
	if got := r.SkippedTotal(); got != 3 {
		t.Errorf("SkippedTotal() = %d, want 3", got)
	}
	if got := r.Skipped[SkipMissingKey]; got != 2 {
		t.Errorf("Skipped[missing key] = %d, want 2", got)
	}
}

func TestReportErrorDetailsCapped(t *testing.T) {
	r := NewReport(false)
	for i := 0; i < maxErrorDetails+5; i++ {
		r.AddError(i+2, "Dupont", "Léa", errors.New("boom"))
	}

	if r.Errors != maxErrorDetails+5 {
		t.Errorf("Errors = %d, want %d", r.Errors, maxErrorDetails+5)
	}
	if got := len(r.ErrorDetails()); got != maxErrorDetails {
		t.Errorf("len(ErrorDetails()) = %d, want %d", got, maxErrorDetails)
	}
	if !strings.Contains(r.ErrorDetails()[0], "line 2 (Léa Dupont)") {
		t.Errorf("unexpected detail line: %q", r.ErrorDetails()[0])
	}
}

func TestReportSummaryDryRun(t *testing.T) {
	r := NewReport(true)
	r.Total = 4
	r.Created = 2
	r.AddSkip(SkipAlreadyExists)

	summary := r.Summary()
	if !strings.Contains(summary, "dry run, nothing persisted") {
		t.Errorf("summary does not flag the dry run:\n%s", summary)
	}
	if !strings.Contains(summary, "created: 2") {
		t.Errorf("summary does not report created count:\n%s", summary)
	}
	if !strings.Contains(summary, "skipped (already exists): 1") {
		t.Errorf("summary does not report the skip reason:\n%s", summary)
	}
}
