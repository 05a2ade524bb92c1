package model

// Category classifies a detected line event
type Category string

const (
	CategoryIssue      Category = "issue_marker"      // Reviewer-flagged problem
	CategoryResolution Category = "resolution_marker" // Designer confirmation
	CategoryDimension  Category = "dimension_callout" // Line carrying a dimension unit
	CategoryAnnotation Category = "annotation"        // Section / note heading
)

// Severity ranks issue markers
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Rank orders severities for sorting (HIGH first)
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// IssueKind distinguishes keyword comments from undefined dimension variables
type IssueKind string

const (
	IssueKindComment          IssueKind = "ENGINEER_COMMENT"
	IssueKindMissingDimension IssueKind = "MISSING_DIMENSION"
)

// ResolutionKind distinguishes tick symbols from confirmation words
type ResolutionKind string

const (
	ResolutionKindCheckmark ResolutionKind = "CHECKMARK"
	ResolutionKindKeyword   ResolutionKind = "KEYWORD"
)

// Location is shared by every event type
type Location struct {
	Line       int          `json:"line"`        // Zero-based source line index
	LineNumber int          `json:"line_number"` // One-based, for display
	Grid       GridPosition `json:"grid"`        // Synthetic cell
	Excerpt    string       `json:"excerpt"`     // Truncated, trimmed line content
}

// NewLocation builds a Location for a zero-based line index
func NewLocation(line int, excerpt string) Location {
	return Location{
		Line:       line,
		LineNumber: line + 1,
		Grid:       GridFromLine(line),
		Excerpt:    excerpt,
	}
}

// Issue is an IssueMarker event
type Issue struct {
	Location
	Kind     IssueKind `json:"kind"`
	Keyword  string    `json:"keyword"`  // Trigger term as matched
	Severity Severity  `json:"severity"`
}

// Resolution is a ResolutionMarker event
type Resolution struct {
	Location
	Kind      ResolutionKind `json:"kind"`
	Indicator string         `json:"indicator"` // Trigger symbol or word
}

// Dimension is a DimensionCallout event
type Dimension struct {
	Location
	Values   []string `json:"values"`   // Maximal digit runs, in order
	Unit     string   `json:"unit"`     // First unit token that matched
	Complete bool     `json:"complete"` // At least one numeric value present
}

// Annotation is a section/annotation event
type Annotation struct {
	Location
	Keyword string `json:"keyword"`
}
