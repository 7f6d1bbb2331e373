package markdown

import (
	"regexp"
	"strings"
)

var (
	valeSpecificPattern = regexp.MustCompile(`<!--\s*vale\s+([A-Za-z0-9.]+)\s*=\s*NO\s*-->`)
	valeGlobalPattern   = regexp.MustCompile(`<!--\s*vale\s+off\s*-->`)
	mdSpecificPattern   = regexp.MustCompile(`<!--\s*markdownlint-disable\s+(MD\d{3})\s*-->`)
	mdGlobalPattern     = regexp.MustCompile(`<!--\s*markdownlint-disable\s*-->`)
)

// GlobalValeRule and GlobalMarkdownLintRule name the whole-file disable
// tags in exception listings.
const (
	GlobalValeRule         = "vale-off (global)"
	GlobalMarkdownLintRule = "markdownlint-disable (global)"
)

// LinterException is one suppression tag found in a document. Text holds
// the trimmed source line the tag appeared on.
type LinterException struct {
	Line int
	Rule string
	Text string
}

// ExceptionReport groups suppression tags by the linter they silence
type ExceptionReport struct {
	Vale         []LinterException
	MarkdownLint []LinterException
}

// Total returns the number of exceptions across both linters
func (r ExceptionReport) Total() int {
	return len(r.Vale) + len(r.MarkdownLint)
}

// ScanExceptions finds Vale and markdownlint suppression tags. Recognized
// forms:
//
//	<!-- vale RuleName = NO -->
//	<!-- vale off -->
//	<!-- markdownlint-disable MD013 -->
//	<!-- markdownlint-disable -->
//
// A line carrying more than one tag is reported once per tag. Line
// numbers are 1-based.
func ScanExceptions(content string) ExceptionReport {
	var report ExceptionReport

	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if m := valeSpecificPattern.FindStringSubmatch(line); m != nil {
			report.Vale = append(report.Vale, LinterException{
				Line: lineNum,
				Rule: m[1],
				Text: trimmed,
			})
		}
		if valeGlobalPattern.MatchString(line) {
			report.Vale = append(report.Vale, LinterException{
				Line: lineNum,
				Rule: GlobalValeRule,
				Text: trimmed,
			})
		}
		if m := mdSpecificPattern.FindStringSubmatch(line); m != nil {
			report.MarkdownLint = append(report.MarkdownLint, LinterException{
				Line: lineNum,
				Rule: m[1],
				Text: trimmed,
			})
		}
		if mdGlobalPattern.MatchString(line) {
			report.MarkdownLint = append(report.MarkdownLint, LinterException{
				Line: lineNum,
				Rule: GlobalMarkdownLintRule,
				Text: trimmed,
			})
		}
	}

	return report
}
