package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/redline/internal/model"
)

func TestClassify_ReviewerMarkup(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("Missing dimension D\ncheck this area")

	if len(result.Issues) != 3 {
		t.Fatalf("Expected 3 issues, got %d", len(result.Issues))
	}

	missing := result.Issues[0]
	if missing.Kind != model.IssueKindMissingDimension {
		t.Errorf("Expected kind %s, got %s", model.IssueKindMissingDimension, missing.Kind)
	}
	if missing.Keyword != "D" {
		t.Errorf("Expected keyword D, got %q", missing.Keyword)
	}
	if missing.Severity != model.SeverityHigh {
		t.Errorf("Expected severity %s, got %s", model.SeverityHigh, missing.Severity)
	}
	if missing.Line != 0 || missing.LineNumber != 1 {
		t.Errorf("Expected line 0 (number 1), got %d (number %d)", missing.Line, missing.LineNumber)
	}

	keyword := result.Issues[1]
	if keyword.Kind != model.IssueKindComment || keyword.Keyword != "missing" {
		t.Errorf("Expected comment issue on 'missing', got %s on %q", keyword.Kind, keyword.Keyword)
	}
	if keyword.Line != 0 {
		t.Errorf("Expected line 0, got %d", keyword.Line)
	}

	check := result.Issues[2]
	if check.Keyword != "check" {
		t.Errorf("Expected keyword check, got %q", check.Keyword)
	}
	if check.Severity != model.SeverityMedium {
		t.Errorf("Expected severity %s, got %s", model.SeverityMedium, check.Severity)
	}
	if want := (model.GridPosition{Row: 0, Col: 1}); check.Grid != want {
		t.Errorf("Expected grid %v, got %v", want, check.Grid)
	}

	if len(result.Resolutions) != 0 {
		t.Errorf("Expected no resolutions, got %d", len(result.Resolutions))
	}
	if result.LineCount != 2 {
		t.Errorf("Expected 2 lines, got %d", result.LineCount)
	}
	if result.TotalGridCells != 10 {
		t.Errorf("Expected 10 grid cells, got %d", result.TotalGridCells)
	}
}

func TestClassify_DesignerConfirmations(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("D = 150mm ✓ done\nok")

	// a D next to a number is a defined dimension
	if len(result.Issues) != 0 {
		t.Errorf("Expected no issues, got %d", len(result.Issues))
	}
	if len(result.Resolutions) != 2 {
		t.Fatalf("Expected 2 resolutions, got %d", len(result.Resolutions))
	}
	if r := result.Resolutions[0]; r.Indicator != "✓" || r.Kind != model.ResolutionKindCheckmark {
		t.Errorf("Expected checkmark ✓, got %s %q", r.Kind, r.Indicator)
	}
	if r := result.Resolutions[1]; r.Indicator != "ok" || r.Kind != model.ResolutionKindKeyword {
		t.Errorf("Expected keyword ok, got %s %q", r.Kind, r.Indicator)
	}

	if len(result.Dimensions) != 1 {
		t.Fatalf("Expected 1 dimension, got %d", len(result.Dimensions))
	}
	if diff := cmp.Diff([]string{"150"}, result.Dimensions[0].Values); diff != "" {
		t.Errorf("Unexpected values (-want +got):\n%s", diff)
	}
	if result.Dimensions[0].Unit != "MM" {
		t.Errorf("Expected unit MM, got %q", result.Dimensions[0].Unit)
	}
}

func TestClassify_DimensionCallout(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("THK 150MM")

	if len(result.Dimensions) != 1 {
		t.Fatalf("Expected 1 dimension, got %d", len(result.Dimensions))
	}
	dim := result.Dimensions[0]
	if diff := cmp.Diff([]string{"150"}, dim.Values); diff != "" {
		t.Errorf("Unexpected values (-want +got):\n%s", diff)
	}
	if dim.Unit != "MM" {
		t.Errorf("Expected unit MM, got %q", dim.Unit)
	}
	if !dim.Complete {
		t.Error("Expected dimension to be complete")
	}
}

func TestClassify_DimensionWithoutValues(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("SLAB THK AS PER DRAWING")

	if len(result.Dimensions) != 1 {
		t.Fatalf("Expected 1 dimension, got %d", len(result.Dimensions))
	}
	dim := result.Dimensions[0]
	if dim.Unit != "THK" {
		t.Errorf("Expected unit THK, got %q", dim.Unit)
	}
	if len(dim.Values) != 0 {
		t.Errorf("Expected no values, got %v", dim.Values)
	}
	if dim.Complete {
		t.Error("Expected dimension to be incomplete")
	}
}

func TestClassify_DiameterSymbol(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("bars ø12 at 200 centres")

	if len(result.Dimensions) != 1 {
		t.Fatalf("Expected 1 dimension, got %d", len(result.Dimensions))
	}
	if result.Dimensions[0].Unit != "Ø" {
		t.Errorf("Expected unit Ø, got %q", result.Dimensions[0].Unit)
	}
	if diff := cmp.Diff([]string{"12", "200"}, result.Dimensions[0].Values); diff != "" {
		t.Errorf("Unexpected values (-want +got):\n%s", diff)
	}
}

func TestClassify_NonASCIIDigits(t *testing.T) {
	c := NewClassifier()

	// Arabic-Indic digits
	result := c.Classify("D ١٥٠MM")

	if len(result.Issues) != 0 {
		t.Errorf("Expected no missing-dimension issue next to a number, got %d issues", len(result.Issues))
	}
	if len(result.Dimensions) != 1 {
		t.Fatalf("Expected 1 dimension, got %d", len(result.Dimensions))
	}
	if diff := cmp.Diff([]string{"١٥٠"}, result.Dimensions[0].Values); diff != "" {
		t.Errorf("Unexpected values (-want +got):\n%s", diff)
	}
}

func TestStandaloneD(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Missing dimension D", "D"},
		{"d", "d"},
		{"(D)", "D"},
		{"Ø D", "D"},
		{"éD", ""},
		{"Dé", ""},
		{"ΔD here", ""},
		{"D_1", ""},
		{"bad dad", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := standaloneD(tt.line); got != tt.want {
			t.Errorf("standaloneD(%q): expected %q, got %q", tt.line, tt.want, got)
		}
	}
}

func TestClassify_LetterNextToDIsNotMissingDimension(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("éD")
	for _, issue := range result.Issues {
		if issue.Kind == model.IssueKindMissingDimension {
			t.Errorf("Expected no missing-dimension issue for %q, got %+v", "éD", issue)
		}
	}

	result = c.Classify("Ø D")
	if len(result.Issues) != 1 || result.Issues[0].Kind != model.IssueKindMissingDimension {
		t.Errorf("Expected one missing-dimension issue for %q, got %+v", "Ø D", result.Issues)
	}
}

func TestClassify_Annotation(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("TYPICAL SECTION A-A")

	if len(result.Annotations) != 1 {
		t.Fatalf("Expected 1 annotation, got %d", len(result.Annotations))
	}
	// first keyword in table order wins
	if result.Annotations[0].Keyword != "TYP" {
		t.Errorf("Expected keyword TYP, got %q", result.Annotations[0].Keyword)
	}
}

func TestClassify_AtMostOneKeywordIssuePerLine(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("please fix, check, verify and review the bold text")

	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	if result.Issues[0].Keyword != "bold" {
		t.Errorf("Expected keyword bold, got %q", result.Issues[0].Keyword)
	}
	if result.Issues[0].Severity != model.SeverityHigh {
		t.Errorf("Expected severity %s, got %s", model.SeverityHigh, result.Issues[0].Severity)
	}
}

func TestClassify_AtMostOneResolutionPerLine(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("resolved and confirmed, all done ✔")

	if len(result.Resolutions) != 1 {
		t.Fatalf("Expected 1 resolution, got %d", len(result.Resolutions))
	}
	if result.Resolutions[0].Indicator != "✔" {
		t.Errorf("Expected indicator ✔, got %q", result.Resolutions[0].Indicator)
	}
}

func TestClassify_LineCanFeedSeveralCategories(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("NOTE: fixed beam depth 600MM")

	// "fixed" contains "fix"
	want := model.EventCounts{Issues: 1, Resolutions: 1, Dimensions: 1, Annotations: 1}
	if diff := cmp.Diff(want, result.Counts()); diff != "" {
		t.Errorf("Unexpected counts (-want +got):\n%s", diff)
	}
}

func TestClassify_SkipsShortLinesButKeepsIndex(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("\n a \n\nfix the beam")

	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	issue := result.Issues[0]
	if issue.Line != 3 || issue.LineNumber != 4 {
		t.Errorf("Expected line 3 (number 4), got %d (number %d)", issue.Line, issue.LineNumber)
	}
	if want := (model.GridPosition{Row: 0, Col: 3}); issue.Grid != want {
		t.Errorf("Expected grid %v, got %v", want, issue.Grid)
	}
	if result.LineCount != 4 {
		t.Errorf("Expected 4 lines, got %d", result.LineCount)
	}
}

func TestClassify_GridCoordinates(t *testing.T) {
	c := NewClassifier()

	lines := make([]string, 35)
	for i := range lines {
		lines[i] = "revise"
	}
	result := c.Classify(strings.Join(lines, "\n"))

	if len(result.Issues) != 35 {
		t.Fatalf("Expected 35 issues, got %d", len(result.Issues))
	}
	for i, issue := range result.Issues {
		if issue.Grid.Row != i/10 || issue.Grid.Col != i%10 {
			t.Errorf("line %d: expected (%d,%d), got (%d,%d)", i, i/10, i%10, issue.Grid.Row, issue.Grid.Col)
		}
	}
	if result.TotalGridCells != 30 {
		t.Errorf("Expected 30 grid cells, got %d", result.TotalGridCells)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("")

	if len(result.Issues) != 0 || len(result.Resolutions) != 0 {
		t.Errorf("Expected no markers, got %d issues and %d resolutions", len(result.Issues), len(result.Resolutions))
	}
	if result.LineCount != 1 {
		t.Errorf("Expected 1 line, got %d", result.LineCount)
	}
	if result.TotalGridCells != 10 {
		t.Errorf("Expected 10 grid cells, got %d", result.TotalGridCells)
	}
}

func TestClassify_ExcerptTruncation(t *testing.T) {
	c := NewClassifier()

	result := c.Classify("fix " + strings.Repeat("é", 300))

	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	excerpt := result.Issues[0].Excerpt
	if n := utf8.RuneCountInString(excerpt); n != 120 {
		t.Errorf("Expected 120 runes, got %d", n)
	}
	if !utf8.ValidString(excerpt) {
		t.Error("Expected excerpt to be valid UTF-8")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewClassifier()
	text := "GENERAL NOTES\nfix rebar 12MM @ 150 C/C\nMissing d\n✓ checked\nreview SECTION B"

	first := c.Classify(text)
	second := c.Classify(text)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Classify is not idempotent (-first +second):\n%s", diff)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"abc", 5, "abc"},
		{"abc", 2, "ab"},
		{"✓✓✓", 2, "✓✓"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d): expected %q, got %q", tt.in, tt.max, tt.want, got)
		}
	}
}
