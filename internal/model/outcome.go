package model

// Verdict categorises a reconciliation outcome
type Verdict string

const (
	VerdictNoIssues     Verdict = "NO_ISSUES"     // BEFORE carried no issue markers
	VerdictAllResolved  Verdict = "ALL_RESOLVED"  // Every issue paired with a resolution
	VerdictPartial      Verdict = "PARTIAL"       // Some resolved, some pending
	VerdictNoneResolved Verdict = "NONE_RESOLVED" // Nothing paired
)

// MatchRule records which rule paired an issue with a resolution
type MatchRule string

const (
	MatchByPosition MatchRule = "position"
	MatchByLexical  MatchRule = "lexical"
)

// ResolvedItem pairs a BEFORE issue with the AFTER resolution that consumed it
type ResolvedItem struct {
	Issue      Issue      `json:"issue"`
	Resolution Resolution `json:"resolution"`
	MatchedBy  MatchRule  `json:"matched_by"`
}

// UnresolvedItem is a BEFORE issue with no matching resolution
type UnresolvedItem struct {
	Issue Issue `json:"issue"`
}

// NewIssueItem is an AFTER issue with no structural twin in BEFORE
type NewIssueItem struct {
	Issue Issue `json:"issue"`
}

// Outcome is the result of reconciling BEFORE issues against AFTER resolutions
type Outcome struct {
	Resolved         []ResolvedItem   `json:"resolved"`
	Unresolved       []UnresolvedItem `json:"unresolved"`
	NewIssues        []NewIssueItem   `json:"new_issues"`
	TotalIssues      int              `json:"total_issues"`
	TotalResolutions int              `json:"total_resolutions"`
	ResolutionRate   int              `json:"resolution_rate"` // Integer percentage 0-100
	Verdict          Verdict          `json:"verdict"`
	Message          string           `json:"message"`
	Signals          []Signal         `json:"signals,omitempty"`
}

// Signal is a diagnostic with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalResolutionCoverage SignalType = "resolution_coverage"  // resolved / total
	SignalSeverityBacklog    SignalType = "severity_backlog"     // Pending HIGH issues
	SignalRegressions        SignalType = "regressions"          // New issues in AFTER
	SignalLexicalOnlyMatches SignalType = "lexical_only_matches" // Pairs found by text overlap alone
)

// SignalSeverity indicates the importance of a signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
