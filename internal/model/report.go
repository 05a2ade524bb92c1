package model

import "time"

// Report is the complete comparison result handed to renderers
type Report struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	Before DocumentSummary `json:"before"`
	After  DocumentSummary `json:"after"`

	// Identical is true when both documents are byte-identical and no
	// analysis was performed. It is distinct from a clean NO_ISSUES outcome.
	Identical bool `json:"identical"`

	Outcome    *Outcome    `json:"outcome,omitempty"`
	BeforeScan *ScanResult `json:"before_scan,omitempty"`
	AfterScan  *ScanResult `json:"after_scan,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative, never affects the verdict
}

// DocumentSummary describes one side of the comparison
type DocumentSummary struct {
	Name           string      `json:"name"`
	Source         string      `json:"source"`
	Format         Format      `json:"format"`
	Hash           string      `json:"hash"`
	Size           int         `json:"size_bytes"`
	LineCount      int         `json:"line_count"`
	TotalGridCells int         `json:"total_grid_cells"`
	Counts         EventCounts `json:"counts"`
	ExtractError   string      `json:"extract_error,omitempty"`
}

// Summarize builds a DocumentSummary from a document and its scan (scan may be nil)
func Summarize(doc *Document, scan *ScanResult) DocumentSummary {
	summary := DocumentSummary{}
	if doc != nil {
		summary.Name = doc.Name
		summary.Source = doc.Source
		summary.Format = doc.Format
		summary.Hash = doc.Hash
		summary.Size = doc.Size()
	}
	if scan != nil {
		summary.LineCount = scan.LineCount
		summary.TotalGridCells = scan.TotalGridCells
		summary.Counts = scan.Counts()
	}
	return summary
}

// LLMSummary contains the optional LLM-generated narrative
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"`
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
