package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/stockimport/internal/catalog"
)

func testReport() *catalog.Report {
	r := catalog.NewReport("run-1", "stock.csv", false)
	r.StartedAt = time.Date(2024, 10, 8, 15, 35, 50, 0, time.UTC)
	r.FinishedAt = r.StartedAt.Add(2 * time.Second)
	r.Processed = 5
	r.Succeeded = 2
	r.Skipped = 2
	r.SkipReasons[catalog.SkipMissingRequired] = 1
	r.SkipReasons[catalog.SkipPriceCeiling] = 1
	r.Failed = append(r.Failed, catalog.FailedItem{
		Line: 4,
		Record: catalog.EnrichedRecord{
			Record: catalog.Record{
				catalog.ColProductCode: "P0004",
				catalog.ColProductName: "<script>alert(1)</script>",
			},
			ImportedAt: r.StartedAt,
		},
		Reason: "db error: duplicate key",
	})
	return r
}

func TestPage_Render(t *testing.T) {
	var buf bytes.Buffer
	if err := Page(testReport()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	wants := []string{
		"<!doctype html>",
		"<dt>Processed</dt><dd>5</dd>",
		"<dt>Successfully imported</dt><dd>2</dd>",
		"<dt>Skipped</dt><dd>2</dd>",
		"<dt>Failed</dt><dd>1</dd>",
		"<dt>Mode</dt><dd>live</dd>",
		"Failed to import",
		"db error: duplicate key",
		"P0004",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	if strings.Contains(out, "<script>") {
		t.Error("record text was not escaped")
	}
}

func TestSkipTable_ListsEveryReason(t *testing.T) {
	var buf bytes.Buffer
	if err := SkipTable(testReport()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, reason := range catalog.SkipReasons {
		if !strings.Contains(out, reason.Code()) {
			t.Errorf("skip table missing %s", reason.Code())
		}
	}
}

func TestPage_DryRunWithoutFailures(t *testing.T) {
	r := catalog.NewReport("run-2", "stock.csv", true)

	var buf bytes.Buffer
	if err := Page(r).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "test (nothing written)") {
		t.Error("dry-run mode not shown")
	}
	if strings.Contains(out, "Failed to import") {
		t.Error("failed table rendered with no failures")
	}
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "import.html")
	if err := WriteHTML(context.Background(), path, testReport()); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.HasSuffix(data, []byte("</body></html>")) {
		t.Errorf("report file incomplete: %q", data[max(0, len(data)-40):])
	}
}
