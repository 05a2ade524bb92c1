package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/redline/internal/model"
)

const gridDisclaimer = "The 1-inch grid is synthetic: a cell is derived from the line index of the extracted text " +
	"(row = line / 10, column = line % 10). It is not a position measured on the drawing sheet."

// Renderer writes reports as JSON, Markdown, and a console summary
type Renderer struct {
	includeFooter bool
	dpi           int
	previewRows   int
	out           io.Writer
}

// NewRenderer creates a renderer from output settings
func NewRenderer(cfg model.OutputConfig) *Renderer {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = model.DefaultDPI
	}
	rows := cfg.PreviewRows
	if rows <= 0 {
		rows = 10
	}

	return &Renderer{
		includeFooter: cfg.IncludeFooter,
		dpi:           dpi,
		previewRows:   rows,
		out:           os.Stdout,
	}
}

// SetOutput redirects the console summary
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

// ReportBaseName returns the default report file name for t, without extension
func ReportBaseName(t time.Time) string {
	return "Redline_Report_" + t.Format("20060102_150405")
}

// RenderJSON writes the indented JSON report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes an already rendered narrative to path
func (r *Renderer) RenderLLMMarkdown(content string, path string) error {
	if content == "" {
		return nil
	}
	return writeFile(path, []byte(content))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Markdown renders the full report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Redline Report\n\n")
	fmt.Fprintf(&b, "> %s\n\n", gridDisclaimer)
	fmt.Fprintf(&b, "- **Run:** `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- **Created:** %s\n\n", report.CreatedAt.Format(time.RFC3339))

	r.writeDocumentTable(&b, report)

	if len(report.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if report.Identical {
		b.WriteString("## Result: identical documents\n\n")
		b.WriteString("BEFORE and AFTER have the same SHA-256 content hash. No changes were made, so no analysis was performed.\n")
		r.writeFooter(&b)
		return b.String()
	}

	o := report.Outcome
	if o == nil {
		r.writeFooter(&b)
		return b.String()
	}

	fmt.Fprintf(&b, "## Verdict: %s\n\n", o.Verdict)
	fmt.Fprintf(&b, "%s\n\n", o.Message)
	fmt.Fprintf(&b, "**Resolution rate:** %d%% (%d of %d comments, %d resolution marks in AFTER)\n\n",
		o.ResolutionRate, len(o.Resolved), o.TotalIssues, o.TotalResolutions)

	fmt.Fprintf(&b, "## Resolved (%d)\n\n", len(o.Resolved))
	if len(o.Resolved) > 0 {
		b.WriteString("| # | Comment | Cell | Severity | Resolution | Cell | Match |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for i, item := range o.Resolved {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
				i+1, cell(item.Issue.Excerpt), item.Issue.Grid, item.Issue.Severity,
				cell(item.Resolution.Excerpt), item.Resolution.Grid, item.MatchedBy)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Unresolved (%d)\n\n", len(o.Unresolved))
	if len(o.Unresolved) > 0 {
		b.WriteString("| # | Comment | Cell | Box | Severity | Line |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for i, item := range o.Unresolved {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %d |\n",
				i+1, cell(item.Issue.Excerpt), item.Issue.Grid, item.Issue.Grid.CellID(),
				item.Issue.Severity, item.Issue.LineNumber)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## New issues in AFTER (%d)\n\n", len(o.NewIssues))
	if len(o.NewIssues) > 0 {
		b.WriteString("| # | Comment | Cell | Severity | Line |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for i, item := range o.NewIssues {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %d |\n",
				i+1, cell(item.Issue.Excerpt), item.Issue.Grid, item.Issue.Severity, item.Issue.LineNumber)
		}
		b.WriteString("\n")
	}

	if len(o.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		b.WriteString("| Signal | Severity | Description |\n")
		b.WriteString("|---|---|---|\n")
		for _, s := range o.Signals {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Type, s.Severity, cell(s.Description))
		}
		b.WriteString("\n")
	}

	r.writeFooter(&b)
	return b.String()
}

func (r *Renderer) writeDocumentTable(b *strings.Builder, report *model.Report) {
	before, after := report.Before, report.After

	b.WriteString("| | BEFORE | AFTER |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(b, "| Name | %s | %s |\n", cell(before.Name), cell(after.Name))
	fmt.Fprintf(b, "| Format | %s | %s |\n", before.Format, after.Format)
	fmt.Fprintf(b, "| Size | %d bytes | %d bytes |\n", before.Size, after.Size)
	fmt.Fprintf(b, "| SHA-256 | `%s` | `%s` |\n", shortHash(before.Hash), shortHash(after.Hash))

	if report.Identical {
		b.WriteString("\n")
		return
	}

	fmt.Fprintf(b, "| Lines | %d | %d |\n", before.LineCount, after.LineCount)
	fmt.Fprintf(b, "| Grid cells | %d | %d |\n", before.TotalGridCells, after.TotalGridCells)
	fmt.Fprintf(b, "| Issue markers | %d | %d |\n", before.Counts.Issues, after.Counts.Issues)
	fmt.Fprintf(b, "| Resolution markers | %d | %d |\n", before.Counts.Resolutions, after.Counts.Resolutions)
	fmt.Fprintf(b, "| Dimension callouts | %d | %d |\n", before.Counts.Dimensions, after.Counts.Dimensions)
	fmt.Fprintf(b, "| Annotations | %d | %d |\n\n", before.Counts.Annotations, after.Counts.Annotations)
}

func (r *Renderer) writeFooter(b *strings.Builder) {
	if !r.includeFooter {
		return
	}
	b.WriteString("\n---\n\n")
	b.WriteString("_Generated by redline. Matching is heuristic: a resolution pairs with a comment by nearby grid cell or shared words, so review the pairings before signing off._\n")
}

// RenderSummary prints a short console summary with a capped event preview
func (r *Renderer) RenderSummary(report *model.Report) {
	w := r.out

	fmt.Fprintf(w, "\nRedline: %s -> %s\n", report.Before.Name, report.After.Name)
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "  ! %s\n", warning)
	}

	if report.Identical {
		fmt.Fprintf(w, "  IDENTICAL DOCUMENTS: no changes between BEFORE and AFTER (sha256 %s). Nothing analysed.\n",
			shortHash(report.Before.Hash))
		return
	}

	o := report.Outcome
	if o == nil {
		return
	}

	fmt.Fprintf(w, "  Verdict:    %s\n", o.Verdict)
	fmt.Fprintf(w, "  %s\n", o.Message)
	fmt.Fprintf(w, "  Rate:       %d%% (%d/%d), new issues in AFTER: %d\n",
		o.ResolutionRate, len(o.Resolved), o.TotalIssues, len(o.NewIssues))

	if report.BeforeScan != nil && len(report.BeforeScan.Issues) > 0 {
		fmt.Fprintf(w, "\n  BEFORE issue markers (%d):\n", len(report.BeforeScan.Issues))
		for i, issue := range report.BeforeScan.Issues {
			if i >= r.previewRows {
				fmt.Fprintf(w, "    ... %d more\n", len(report.BeforeScan.Issues)-r.previewRows)
				break
			}
			fmt.Fprintf(w, "    %-12s %-7s %-6s %s\n", issue.Grid, r.pixels(issue.Grid), issue.Severity, issue.Excerpt)
		}
	}

	if report.AfterScan != nil && len(report.AfterScan.Resolutions) > 0 {
		fmt.Fprintf(w, "\n  AFTER resolution markers (%d):\n", len(report.AfterScan.Resolutions))
		for i, res := range report.AfterScan.Resolutions {
			if i >= r.previewRows {
				fmt.Fprintf(w, "    ... %d more\n", len(report.AfterScan.Resolutions)-r.previewRows)
				break
			}
			fmt.Fprintf(w, "    %-12s %-7s %-6s %s\n", res.Grid, r.pixels(res.Grid), res.Indicator, res.Excerpt)
		}
	}

	fmt.Fprintf(w, "\n  Grid positions are synthetic (line index), not sheet coordinates.\n")
}

func (r *Renderer) pixels(g model.GridPosition) string {
	x, y := g.PixelOffset(r.dpi)
	return fmt.Sprintf("%d,%d", x, y)
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
