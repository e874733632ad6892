package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Skip reasons tracked by the run report.
const (
	SkipMissingKey    = "missing key"
	SkipAlreadyExists = "already exists"
	SkipNotFound      = "entity not found"
	SkipAlreadyActive = "already active"
)

// maxErrorDetails caps the error detail list so a badly broken file does
// not produce unbounded output.
const maxErrorDetails = 10

// Report accumulates per-row outcomes for one import run.
type Report struct {
	RunID   string
	DryRun  bool
	Total   int
	Created int
	Updated int
	Errors  int
	Skipped map[string]int

	errorDetails []string
}

// NewReport starts an empty report with a fresh run ID.
func NewReport(dryRun bool) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		DryRun:  dryRun,
		Skipped: make(map[string]int),
	}
}

// AddSkip counts a skipped row under the given reason.
func (r *Report) AddSkip(reason string) {
	r.Skipped[reason]++
}

// SkippedTotal returns the number of skipped rows across all reasons.
func (r *Report) SkippedTotal() int {
	var n int
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// AddError counts a failed row, keeping up to maxErrorDetails detail lines
// carrying the line number and natural key for operator diagnosis.
func (r *Report) AddError(line int, lastName, firstName string, err error) {
	r.Errors++
	if len(r.errorDetails) < maxErrorDetails {
		r.errorDetails = append(r.errorDetails,
			fmt.Sprintf("line %d (%s %s): %v", line, firstName, lastName, err))
	}
}

// ErrorDetails returns the capped error detail lines.
func (r *Report) ErrorDetails() []string {
	return r.errorDetails
}

// Summary renders the post-run statistics as a printable block.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s", r.RunID)
	if r.DryRun {
		b.WriteString(" (dry run, nothing persisted)")
	}
	fmt.Fprintf(&b, "\n  total:   %d\n  created: %d\n  updated: %d\n", r.Total, r.Created, r.Updated)
	for reason, n := range r.Skipped {
		fmt.Fprintf(&b, "  skipped (%s): %d\n", reason, n)
	}
	fmt.Fprintf(&b, "  errors:  %d\n", r.Errors)
	for _, detail := range r.errorDetails {
		fmt.Fprintf(&b, "    %s\n", detail)
	}
	return b.String()
}
