package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/redline/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a narrative of the comparison report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the comparison report to summarize
	Report model.Report

	// AllowedRefs is the allowlist of grid labels the narrative may cite
	AllowedRefs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary string

	// CitedRefs are the grid labels found in Summary
	CitedRefs []string

	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// StrictEvidence rejects narratives citing grid cells absent from the report
	StrictEvidence bool

	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "",
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      800,
	}
}

const systemPrompt = "You summarize drawing review reconciliation reports. You never change or dispute the verdict and you only cite grid cells listed in the report."

const maxPromptItems = 20

// BuildPrompt constructs the default prompt from the reconciliation outcome
func BuildPrompt(report model.Report, allowedRefs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a redline comparison between a BEFORE drawing (reviewer comments) and an AFTER drawing (resolution marks).

CRITICAL RULES:
1. You MUST ONLY cite grid cells from this allowed list:
%s

2. The grid is synthetic: a cell is derived from the line index of the extracted text (10 lines per row). Do not describe it as a physical location on the sheet.
3. The verdict below is final. Do not contradict it or compute your own.
4. Quote comment text only as it appears below.

Report Summary:
- BEFORE: %s
- AFTER: %s
`, joinRefs(allowedRefs), report.Before.Name, report.After.Name)

	if report.Outcome == nil {
		b.WriteString("- The documents are byte-identical; nothing was analysed.\n")
		b.WriteString("\nState in one sentence that no changes were made between the two drawings.")
		return b.String()
	}

	o := report.Outcome
	fmt.Fprintf(&b, "- Verdict: %s (%s)\n", o.Verdict, o.Message)
	fmt.Fprintf(&b, "- Resolution rate: %d%%\n", o.ResolutionRate)
	fmt.Fprintf(&b, "- Issues: %d, resolved: %d, unresolved: %d, new in AFTER: %d\n",
		o.TotalIssues, len(o.Resolved), len(o.Unresolved), len(o.NewIssues))

	if len(o.Unresolved) > 0 {
		b.WriteString("\nUnresolved comments:\n")
		for i, item := range o.Unresolved {
			if i >= maxPromptItems {
				fmt.Fprintf(&b, "... and %d more\n", len(o.Unresolved)-maxPromptItems)
				break
			}
			fmt.Fprintf(&b, "- %s [%s] %q\n", item.Issue.Grid, item.Issue.Severity, item.Issue.Excerpt)
		}
	}

	if len(o.Resolved) > 0 {
		b.WriteString("\nResolved comments:\n")
		for i, item := range o.Resolved {
			if i >= maxPromptItems {
				fmt.Fprintf(&b, "... and %d more\n", len(o.Resolved)-maxPromptItems)
				break
			}
			fmt.Fprintf(&b, "- %s %q -> %s %q (%s match)\n",
				item.Issue.Grid, item.Issue.Excerpt, item.Resolution.Grid, item.Resolution.Excerpt, item.MatchedBy)
		}
	}

	if len(o.Signals) > 0 {
		b.WriteString("\nKey Signals:\n")
		for _, signal := range o.Signals {
			fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
		}
	}

	b.WriteString("\nProvide a 3-4 sentence summary for the engineer: what was addressed, what still needs work, and which cells to check first.")

	return b.String()
}

// AllowedRefs returns the grid labels of every event in the outcome, in
// first-seen order
func AllowedRefs(report model.Report) []string {
	if report.Outcome == nil {
		return nil
	}

	seen := make(map[string]bool)
	var refs []string
	add := func(g model.GridPosition) {
		label := g.String()
		if !seen[label] {
			seen[label] = true
			refs = append(refs, label)
		}
	}

	for _, item := range report.Outcome.Resolved {
		add(item.Issue.Grid)
		add(item.Resolution.Grid)
	}
	for _, item := range report.Outcome.Unresolved {
		add(item.Issue.Grid)
	}
	for _, item := range report.Outcome.NewIssues {
		add(item.Issue.Grid)
	}

	return refs
}

func joinRefs(refs []string) string {
	if len(refs) == 0 {
		return "(No grid cells available)"
	}

	var b strings.Builder
	for i, ref := range refs {
		if i >= 40 {
			fmt.Fprintf(&b, "\n... and %d more cells", len(refs)-40)
			break
		}
		fmt.Fprintf(&b, "\n- %s", ref)
	}
	return b.String()
}

var gridLabelPattern = regexp.MustCompile(`\(\s*\d+\s*in\s*,\s*\d+\s*in\s*\)`)

// extractGridLabels finds grid labels in text, normalized and deduplicated
func extractGridLabels(text string) []string {
	matches := gridLabelPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, m := range matches {
		pos, err := model.ParseGridPosition(m)
		if err != nil {
			continue
		}
		label := pos.String()
		if !seen[label] {
			seen[label] = true
			unique = append(unique, label)
		}
	}

	return unique
}

// checkCitations fails on the first cited label missing from allowed
func checkCitations(cited, allowed []string) error {
	for _, ref := range cited {
		if !contains(allowed, ref) {
			return fmt.Errorf("CITATION LEAK: LLM cited grid cell not in report: %s", ref)
		}
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
