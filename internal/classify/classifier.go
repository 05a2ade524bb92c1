// Package classify turns decoded drawing text into classified line events.
//
// Positions are synthetic: every line is placed on a "1-inch grid" purely
// from its index (row = index/10, col = index%10). Nothing here inspects
// page layout, pixels or colours.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/redline/internal/model"
)

// Classifier scans text line by line against the four rule tables
type Classifier struct {
	issues      []issueRule
	resolutions []resolutionRule
	units       []string
	annotations []string
}

// NewClassifier creates a classifier with the built-in rule tables
func NewClassifier() *Classifier {
	return &Classifier{
		issues:      issueRules,
		resolutions: resolutionRules,
		units:       dimensionUnits,
		annotations: annotationKeywords,
	}
}

// Classify scans decoded text and returns every event found.
// It is a pure function of text.
func (c *Classifier) Classify(text string) model.ScanResult {
	lines := strings.Split(text, "\n")

	result := model.ScanResult{
		Issues:      []model.Issue{},
		Resolutions: []model.Resolution{},
		Dimensions:  []model.Dimension{},
		Annotations: []model.Annotation{},
		LineCount:   len(lines),
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) < 2 {
			continue
		}

		lower := strings.ToLower(trimmed)
		upper := strings.ToUpper(trimmed)

		result.Issues = append(result.Issues, c.detectIssues(i, trimmed, lower)...)

		if res, ok := c.detectResolution(i, trimmed, lower); ok {
			result.Resolutions = append(result.Resolutions, res)
		}
		if dim, ok := c.detectDimension(i, trimmed, upper); ok {
			result.Dimensions = append(result.Dimensions, dim)
		}
		if ann, ok := c.detectAnnotation(i, trimmed, upper); ok {
			result.Annotations = append(result.Annotations, ann)
		}
	}

	result.TotalGridCells = model.GridCellsFor(result.LineCount)
	return result
}

// detectIssues returns at most two issues: a missing-dimension flag and one
// keyword-table hit
func (c *Classifier) detectIssues(i int, trimmed, lower string) []model.Issue {
	var issues []model.Issue
	excerpt := truncateRunes(trimmed, markerExcerptRunes)

	if token := standaloneD(trimmed); token != "" && !anyDigit.MatchString(trimmed) {
		issues = append(issues, model.Issue{
			Location: model.NewLocation(i, excerpt),
			Kind:     model.IssueKindMissingDimension,
			Keyword:  token,
			Severity: model.SeverityHigh,
		})
	}

	for _, rule := range c.issues {
		if strings.Contains(lower, rule.keyword) {
			issues = append(issues, model.Issue{
				Location: model.NewLocation(i, excerpt),
				Kind:     model.IssueKindComment,
				Keyword:  rule.keyword,
				Severity: rule.severity,
			})
			break
		}
	}

	return issues
}

func (c *Classifier) detectResolution(i int, trimmed, lower string) (model.Resolution, bool) {
	for _, rule := range c.resolutions {
		if strings.Contains(lower, rule.indicator) {
			return model.Resolution{
				Location:  model.NewLocation(i, truncateRunes(trimmed, markerExcerptRunes)),
				Kind:      rule.kind,
				Indicator: rule.indicator,
			}, true
		}
	}
	return model.Resolution{}, false
}

func (c *Classifier) detectDimension(i int, trimmed, upper string) (model.Dimension, bool) {
	for _, unit := range c.units {
		if !strings.Contains(upper, unit) {
			continue
		}
		values := digitRun.FindAllString(trimmed, -1)
		if values == nil {
			values = []string{}
		}
		return model.Dimension{
			Location: model.NewLocation(i, truncateRunes(trimmed, calloutExcerptRunes)),
			Values:   values,
			Unit:     unit,
			Complete: len(values) > 0,
		}, true
	}
	return model.Dimension{}, false
}

func (c *Classifier) detectAnnotation(i int, trimmed, upper string) (model.Annotation, bool) {
	for _, keyword := range c.annotations {
		if strings.Contains(upper, keyword) {
			return model.Annotation{
				Location: model.NewLocation(i, truncateRunes(trimmed, calloutExcerptRunes)),
				Keyword:  keyword,
			}, true
		}
	}
	return model.Annotation{}, false
}

// truncateRunes cuts s to at most n runes without splitting a character
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for idx := range s {
		if count == n {
			return s[:idx]
		}
		count++
	}
	return s
}
