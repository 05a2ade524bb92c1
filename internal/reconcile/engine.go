// Package reconcile pairs BEFORE issue markers with AFTER resolution markers
// and derives the resolution verdict.
package reconcile

import (
	"strings"

	"github.com/ppiankov/redline/internal/model"
)

// lexicalTokens is how many leading words of an issue excerpt take part in
// the lexical match
const lexicalTokens = 5

// Engine reconciles two ScanResults
type Engine struct{}

// NewEngine creates a new reconciliation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Reconcile matches every BEFORE issue against the AFTER resolutions, flags
// AFTER issues with no structural twin in BEFORE, and computes the verdict.
func (e *Engine) Reconcile(before, after model.ScanResult) model.Outcome {
	outcome := model.Outcome{
		Resolved:         []model.ResolvedItem{},
		Unresolved:       []model.UnresolvedItem{},
		NewIssues:        []model.NewIssueItem{},
		TotalIssues:      len(before.Issues),
		TotalResolutions: len(after.Resolutions),
	}

	consumed := make([]bool, len(after.Resolutions))

	for _, issue := range before.Issues {
		matched := false
		for idx, res := range after.Resolutions {
			if consumed[idx] {
				continue
			}
			rule, ok := match(issue, res)
			if !ok {
				continue
			}
			outcome.Resolved = append(outcome.Resolved, model.ResolvedItem{
				Issue:      issue,
				Resolution: res,
				MatchedBy:  rule,
			})
			consumed[idx] = true
			matched = true
			break
		}
		if !matched {
			outcome.Unresolved = append(outcome.Unresolved, model.UnresolvedItem{Issue: issue})
		}
	}

	outcome.NewIssues = detectRegressions(before.Issues, after.Issues)

	outcome.ResolutionRate = ResolutionRate(len(outcome.Resolved), outcome.TotalIssues)
	outcome.Verdict = DetermineVerdict(len(outcome.Resolved), len(outcome.Unresolved), outcome.TotalIssues)
	outcome.Message = VerdictMessage(outcome.Verdict, len(outcome.Resolved), len(outcome.Unresolved), outcome.TotalIssues)
	outcome.Signals = buildSignals(outcome)

	return outcome
}

// match applies the position rule first, then the lexical rule
func match(issue model.Issue, res model.Resolution) (model.MatchRule, bool) {
	if issue.Grid.Adjacent(res.Grid) {
		return model.MatchByPosition, true
	}
	if lexicalMatch(issue, res) {
		return model.MatchByLexical, true
	}
	return "", false
}

// lexicalMatch is deliberately loose: common words such as "the" in the
// first five tokens will pair unrelated lines.
func lexicalMatch(issue model.Issue, res model.Resolution) bool {
	resText := strings.ToLower(res.Excerpt)

	if kw := strings.ToLower(issue.Keyword); kw != "" && strings.Contains(resText, kw) {
		return true
	}

	words := strings.Fields(strings.ToLower(issue.Excerpt))
	if len(words) > lexicalTokens {
		words = words[:lexicalTokens]
	}
	for _, word := range words {
		if strings.Contains(resText, word) {
			return true
		}
	}
	return false
}

// detectRegressions returns AFTER issues whose excerpt and grid cell do not
// both appear on a single BEFORE issue
func detectRegressions(before, after []model.Issue) []model.NewIssueItem {
	type key struct {
		excerpt string
		grid    model.GridPosition
	}

	known := make(map[key]bool, len(before))
	for _, issue := range before {
		known[key{issue.Excerpt, issue.Grid}] = true
	}

	regressions := []model.NewIssueItem{}
	for _, issue := range after {
		if !known[key{issue.Excerpt, issue.Grid}] {
			regressions = append(regressions, model.NewIssueItem{Issue: issue})
		}
	}
	return regressions
}
