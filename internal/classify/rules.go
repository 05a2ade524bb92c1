package classify

import (
	"regexp"
	"unicode"

	"github.com/ppiankov/redline/internal/model"
)

// RulesVersion identifies the rule tables below. Bump it whenever a table
// changes so cached ScanResults are invalidated.
const RulesVersion = "rules-v2"

const (
	markerExcerptRunes  = 120
	calloutExcerptRunes = 100
)

type issueRule struct {
	keyword  string
	severity model.Severity
}

type resolutionRule struct {
	indicator string
	kind      model.ResolutionKind
}

// Ordered: the first entry contained in the line wins.
var issueRules = []issueRule{
	{"bold", model.SeverityHigh},
	{"missing", model.SeverityHigh},
	{"fix", model.SeverityHigh},
	{"correct", model.SeverityHigh},
	{"check", model.SeverityMedium},
	{"verify", model.SeverityMedium},
	{"update", model.SeverityMedium},
	{"add", model.SeverityMedium},
	{"modify", model.SeverityMedium},
	{"review", model.SeverityLow},
	{"revise", model.SeverityLow},
}

var resolutionRules = []resolutionRule{
	{"✓", model.ResolutionKindCheckmark},
	{"✔", model.ResolutionKindCheckmark},
	{"done", model.ResolutionKindKeyword},
	{"completed", model.ResolutionKindKeyword},
	{"fixed", model.ResolutionKindKeyword},
	{"updated", model.ResolutionKindKeyword},
	{"resolved", model.ResolutionKindKeyword},
	{"confirmed", model.ResolutionKindKeyword},
	{"checked", model.ResolutionKindKeyword},
	{"ok", model.ResolutionKindKeyword},
}

// Matched against the upper-cased line. Ø and Φ are the upper-case forms
// of the diameter symbols ø and φ.
var dimensionUnits = []string{"MM", "THK", "DIA", "X", "@", "C/C", "Ø", "Φ"}

var annotationKeywords = []string{
	"NOTE", "NOTES", "TYP", "TYPICAL", "PLAN", "SECTION",
	"ELEVATION", "DETAIL", "SCHEDULE", "TABLE",
}

// Digits are any Unicode decimal digit, not only ASCII
var (
	anyDigit = regexp.MustCompile(`\p{Nd}`)
	digitRun = regexp.MustCompile(`\p{Nd}+`)
)

// standaloneD returns the first "d" or "D" that has no word rune on either
// side. Word runes are letters, numbers and underscore in any script, so
// "éD" is not a match. regexp's \b only knows ASCII word characters.
func standaloneD(line string) string {
	runes := []rune(line)
	for i, r := range runes {
		if r != 'd' && r != 'D' {
			continue
		}
		if i > 0 && isWordRune(runes[i-1]) {
			continue
		}
		if i+1 < len(runes) && isWordRune(runes[i+1]) {
			continue
		}
		return string(r)
	}
	return ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
