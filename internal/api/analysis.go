package api

import (
	"regexp"
	"strings"

	"hirelink/internal/types"
)

// Values shown when the service omits a line.
const (
	DefaultMatchingSkills = "N/A"
	DefaultScore          = "0%"
	DefaultConclusion     = "Not Good Fit"
	DefaultReason         = "No reason provided"
)

var (
	skillsLine     = regexp.MustCompile(`Matching Skills:[ \t]*(.*)`)
	scoreLine      = regexp.MustCompile(`Score:[ \t]*(.*)`)
	conclusionLine = regexp.MustCompile(`Conclusion:[ \t]*(.*)`)
	reasonLine     = regexp.MustCompile(`Reason:[ \t]*(.*)`)
)

// ParseAnalysis extracts the labelled lines of a free-text analysis. Each
// value runs to the end of its line; markdown emphasis is dropped.
func ParseAnalysis(text string) types.AnalysisResult {
	clean := strings.ReplaceAll(text, "**", "")
	return types.AnalysisResult{
		MatchingSkills: field(skillsLine, clean, DefaultMatchingSkills),
		Score:          field(scoreLine, clean, DefaultScore),
		Conclusion:     field(conclusionLine, clean, DefaultConclusion),
		Reason:         field(reasonLine, clean, DefaultReason),
		Raw:            text,
	}
}

func field(re *regexp.Regexp, text, fallback string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	v := strings.TrimSpace(strings.TrimSuffix(m[1], "\r"))
	if v == "" {
		return fallback
	}
	return v
}
