package reconcile

import (
	"fmt"
	"math"

	"github.com/ppiankov/redline/internal/model"
)

// ResolutionRate returns round(100 * resolved / total), or 0 when total is 0
func ResolutionRate(resolved, total int) int {
	if total <= 0 {
		return 0
	}
	rate := int(math.Round(100 * float64(resolved) / float64(total)))
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

// DetermineVerdict applies the verdict rules in priority order
func DetermineVerdict(resolved, unresolved, total int) model.Verdict {
	switch {
	case total == 0:
		return model.VerdictNoIssues
	case resolved == total && unresolved == 0:
		return model.VerdictAllResolved
	case resolved > 0 && unresolved > 0:
		return model.VerdictPartial
	default:
		return model.VerdictNoneResolved
	}
}

// VerdictMessage renders the fixed human-readable message for a verdict
func VerdictMessage(v model.Verdict, resolved, unresolved, total int) string {
	switch v {
	case model.VerdictNoIssues:
		return "No engineer comments found in BEFORE file"
	case model.VerdictAllResolved:
		return fmt.Sprintf("All %d comment(s) addressed with green confirmations", total)
	case model.VerdictPartial:
		return fmt.Sprintf("%d/%d comment(s) resolved. %d still pending.", resolved, total, unresolved)
	case model.VerdictNoneResolved:
		return fmt.Sprintf("NO CHANGES DETECTED/UPDATED PROPERLY. Please redo/recheck the attached drawing. Manual check needed for all %d item(s).", total)
	default:
		return ""
	}
}

func buildSignals(o model.Outcome) []model.Signal {
	return []model.Signal{
		coverageSignal(o),
		backlogSignal(o),
		regressionSignal(o),
		lexicalSignal(o),
	}
}

func coverageSignal(o model.Outcome) model.Signal {
	severity := model.SeverityInfo
	if o.TotalIssues > 0 {
		if o.ResolutionRate < 50 {
			severity = model.SeverityCritical
		} else if o.ResolutionRate < 100 {
			severity = model.SeverityWarning
		}
	}

	return model.Signal{
		Type:        model.SignalResolutionCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Resolved %d of %d issue(s) (%d%%)", len(o.Resolved), o.TotalIssues, o.ResolutionRate),
		Data: map[string]interface{}{
			"resolved":    len(o.Resolved),
			"unresolved":  len(o.Unresolved),
			"total":       o.TotalIssues,
			"resolutions": o.TotalResolutions,
			"rate":        o.ResolutionRate,
			"formula":     "round(resolved / total * 100), 0 when total = 0",
		},
	}
}

func backlogSignal(o model.Outcome) model.Signal {
	bySeverity := map[model.Severity]int{}
	for _, item := range o.Unresolved {
		bySeverity[item.Issue.Severity]++
	}

	severity := model.SeverityInfo
	if bySeverity[model.SeverityHigh] > 0 {
		severity = model.SeverityCritical
	} else if bySeverity[model.SeverityMedium] > 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:     model.SignalSeverityBacklog,
		Severity: severity,
		Description: fmt.Sprintf("Pending: %d high, %d medium, %d low",
			bySeverity[model.SeverityHigh], bySeverity[model.SeverityMedium], bySeverity[model.SeverityLow]),
		Data: map[string]interface{}{
			"high":   bySeverity[model.SeverityHigh],
			"medium": bySeverity[model.SeverityMedium],
			"low":    bySeverity[model.SeverityLow],
		},
	}
}

func regressionSignal(o model.Outcome) model.Signal {
	severity := model.SeverityInfo
	if len(o.NewIssues) > 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalRegressions,
		Severity:    severity,
		Description: fmt.Sprintf("%d issue marker(s) in AFTER with no identical BEFORE marker", len(o.NewIssues)),
		Data: map[string]interface{}{
			"new_issues": len(o.NewIssues),
			"rule":       "excerpt and grid cell both equal",
		},
	}
}

// lexicalSignal reports how much of the outcome rests on the loose text rule
func lexicalSignal(o model.Outcome) model.Signal {
	lexical := 0
	for _, item := range o.Resolved {
		if item.MatchedBy == model.MatchByLexical {
			lexical++
		}
	}

	severity := model.SeverityInfo
	if lexical > 0 && lexical*2 >= len(o.Resolved) {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalLexicalOnlyMatches,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d pairing(s) rely on text overlap only", lexical, len(o.Resolved)),
		Data: map[string]interface{}{
			"lexical":  lexical,
			"position": len(o.Resolved) - lexical,
			"note":     "any of the first five issue words found in the resolution counts as a match; common words can pair unrelated lines",
		},
	}
}
