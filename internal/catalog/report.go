package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// TimestampLayout formats derived timestamps in logs and failure dumps.
const TimestampLayout = "2006-01-02 15:04:05"

// FailedItem is a record the store refused to insert.
type FailedItem struct {
	Line   int
	Record EnrichedRecord
	Reason string
}

// Report accumulates the outcome of one import run. It is owned by the
// run loop and never persisted.
type Report struct {
	RunID      string
	Source     string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	Processed int
	Succeeded int
	Skipped   int

	SkipReasons map[SkipReason]int
	Failed      []FailedItem
}

// NewReport returns an empty report.
func NewReport(runID, source string, dryRun bool) *Report {
	return &Report{
		RunID:       runID,
		Source:      source,
		DryRun:      dryRun,
		SkipReasons: make(map[SkipReason]int, len(SkipReasons)),
	}
}

func (r *Report) skip(reason SkipReason) {
	r.Skipped++
	r.SkipReasons[reason]++
}

func (r *Report) fail(line int, er EnrichedRecord, err error) {
	r.Failed = append(r.Failed, FailedItem{Line: line, Record: er, Reason: err.Error()})
}

// Duration returns how long the run took, or 0 if it has not finished.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// WriteSummary prints the counters, the skip breakdown and a JSON dump of
// every failed record for manual follow-up.
func (r *Report) WriteSummary(w io.Writer) error {
	ew := &errWriter{w: w}

	if r.DryRun {
		ew.printf("Test mode: no data was written\n")
	}
	ew.printf("Processed: %d items\n", r.Processed)
	ew.printf("Successfully imported: %d items\n", r.Succeeded)
	ew.printf("Skipped: %d items\n", r.Skipped)

	for _, reason := range SkipReasons {
		if n := r.SkipReasons[reason]; n > 0 {
			ew.printf("  %s [%s]: %d\n", reason, reason.Code(), n)
		}
	}

	if len(r.Failed) > 0 {
		ew.printf("Failed to import the following items:\n")
		for _, item := range r.Failed {
			ew.printf("%s\n", item.Record.JSON())
		}
	}

	return ew.err
}

// Fields flattens the record and its derived timestamps into one map.
func (er EnrichedRecord) Fields() map[string]any {
	out := make(map[string]any, len(er.Record)+2)
	for k, v := range er.Record {
		out[k] = v
	}
	if er.DiscontinuedAt != nil {
		out["dtmDiscontinued"] = er.DiscontinuedAt.Format(TimestampLayout)
	} else {
		out["dtmDiscontinued"] = nil
	}
	out["stmTimestamp"] = er.ImportedAt.Format(TimestampLayout)
	return out
}

// JSON returns the record as a single-line JSON object.
func (er EnrichedRecord) JSON() string {
	b, err := json.Marshal(er.Fields())
	if err != nil {
		return fmt.Sprintf("%v", er.Fields())
	}
	return string(b)
}

// JSON returns the record as a single-line JSON object.
func (r Record) JSON() string {
	b, err := json.Marshal(map[string]string(r))
	if err != nil {
		return fmt.Sprintf("%v", map[string]string(r))
	}
	return string(b)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
