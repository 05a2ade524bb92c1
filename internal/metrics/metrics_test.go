package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/redline/internal/model"
)

func TestRecorder_Counters(t *testing.T) {
	rec := NewRecorder()

	rec.ObserveComparison(model.VerdictPartial, 20*time.Millisecond)
	rec.ObserveComparison(model.VerdictPartial, 30*time.Millisecond)
	rec.ObserveComparison(model.VerdictAllResolved, 10*time.Millisecond)
	rec.ObserveIdentical(time.Millisecond)
	rec.ObserveExtractionFailure("after")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"partial", testutil.ToFloat64(rec.comparisons.WithLabelValues("PARTIAL")), 2},
		{"all resolved", testutil.ToFloat64(rec.comparisons.WithLabelValues("ALL_RESOLVED")), 1},
		{"identical", testutil.ToFloat64(rec.identical), 1},
		{"after failures", testutil.ToFloat64(rec.extractionFailures.WithLabelValues("after")), 1},
		{"before failures", testutil.ToFloat64(rec.extractionFailures.WithLabelValues("before")), 0},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestRecorder_ObserveScan(t *testing.T) {
	rec := NewRecorder()

	scan := &model.ScanResult{
		Issues:      []model.Issue{{}, {}, {}},
		Resolutions: []model.Resolution{{}},
	}
	rec.ObserveScan("before", scan)
	rec.ObserveScan("before", nil)

	want := map[model.Category]float64{
		model.CategoryIssue:      3,
		model.CategoryResolution: 1,
		model.CategoryDimension:  0,
	}
	for category, count := range want {
		got := testutil.ToFloat64(rec.events.WithLabelValues("before", string(category)))
		if got != count {
			t.Errorf("%s: expected %v, got %v", category, count, got)
		}
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder

	rec.ObserveComparison(model.VerdictNoIssues, time.Second)
	rec.ObserveIdentical(time.Second)
	rec.ObserveScan("after", &model.ScanResult{})
	rec.ObserveExtractionFailure("before")

	if rec.Registry() != nil {
		t.Error("Expected nil registry")
	}
	if err := rec.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveComparison(model.VerdictNoneResolved, 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "redline.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, want := range []string{
		`redline_comparisons_total{verdict="NONE_RESOLVED"} 1`,
		"redline_compare_duration_seconds_count 1",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected textfile to contain %q, got:\n%s", want, data)
		}
	}
}
