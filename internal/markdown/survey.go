package markdown

import (
	"regexp"
	"sort"
	"strings"
)

var (
	fencedBlockPattern  = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern   = regexp.MustCompile("`[^`]+`")
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	imagePattern        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkTextPattern     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	notationCharPattern = regexp.MustCompile("[#*_~`\\[\\]()>|+-]")
)

// CountWords counts prose words: fenced code, inline code, HTML tags and
// images are dropped entirely, link URLs are dropped keeping the text,
// and remaining notation characters are stripped before splitting.
func CountWords(content string) int {
	text := fencedBlockPattern.ReplaceAllString(content, "")
	text = inlineCodePattern.ReplaceAllString(text, "")
	text = htmlTagPattern.ReplaceAllString(text, "")
	// Images go before links so their alt text is not kept as link text.
	text = imagePattern.ReplaceAllString(text, "")
	text = linkTextPattern.ReplaceAllString(text, "$1")
	text = notationCharPattern.ReplaceAllString(text, " ")
	return len(strings.Fields(text))
}

// notationMatcher reports whether a single source line uses one notation.
// Patterns assume markdownlint-compliant input (space after markers).
type notationMatcher struct {
	name  string
	match func(line string) bool
}

func regexMatcher(name, pattern string) notationMatcher {
	re := regexp.MustCompile(pattern)
	return notationMatcher{name: name, match: re.MatchString}
}

var notationMatchers = []notationMatcher{
	regexMatcher("heading_1", `^#\s`),
	regexMatcher("heading_2", `^##\s`),
	regexMatcher("heading_3", `^###\s`),
	regexMatcher("heading_4", `^####\s`),
	regexMatcher("heading_5", `^#####\s`),
	regexMatcher("heading_6", `^######\s`),

	regexMatcher("bold_asterisk", `\*\*`),
	regexMatcher("bold_underscore", `__`),

	// A lone marker not doubled into bold. RE2 has no lookarounds, so
	// these check the neighboring bytes directly.
	{name: "italic_asterisk", match: func(line string) bool { return hasLoneMarker(line, '*') }},
	{name: "italic_underscore", match: func(line string) bool { return hasLoneMarker(line, '_') }},

	regexMatcher("code_block", "```"),
	regexMatcher("inline_code", "`"),

	regexMatcher("image", `!\[.*?\]\(.*?\)`),
	{name: "link", match: hasPlainLink},

	regexMatcher("blockquote", `^>\s`),

	regexMatcher("unordered_list", `^\s*[-*+]\s`),
	regexMatcher("ordered_list", `^\s*\d+\.\s`),

	regexMatcher("horizontal_rule", `^(\*{3,}|-{3,}|_{3,})$`),

	regexMatcher("strikethrough", `~~`),
	regexMatcher("table_pipe", `\|`),
}

func hasLoneMarker(line string, marker byte) bool {
	for i := 0; i < len(line); i++ {
		if line[i] != marker {
			continue
		}
		prevDoubled := i > 0 && line[i-1] == marker
		nextDoubled := i+1 < len(line) && line[i+1] == marker
		if !prevDoubled && !nextDoubled {
			return true
		}
	}
	return false
}

var linkAtPattern = regexp.MustCompile(`^\[.*?\]\(.*?\)`)

// hasPlainLink matches a link whose opening bracket is not an image bang
func hasPlainLink(line string) bool {
	for i := 0; i < len(line); i++ {
		if line[i] != '[' {
			continue
		}
		if i > 0 && line[i-1] == '!' {
			continue
		}
		if linkAtPattern.MatchString(line[i:]) {
			return true
		}
	}
	return false
}

// Notations lists the notation names used per line; a name repeats once
// for every line that uses it
func Notations(content string) []string {
	var found []string
	for _, line := range strings.Split(content, "\n") {
		for _, matcher := range notationMatchers {
			if matcher.match(line) {
				found = append(found, matcher.name)
			}
		}
	}
	return found
}

// FileSurvey aggregates the prose statistics for one document
type FileSurvey struct {
	Words           int
	NotationCount   int
	UniqueNotations []string
}

// Survey computes word and notation statistics for one document
func Survey(content string) FileSurvey {
	notations := Notations(content)

	unique := make(map[string]struct{}, len(notations))
	for _, name := range notations {
		unique[name] = struct{}{}
	}
	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}
	sort.Strings(names)

	return FileSurvey{
		Words:           CountWords(content),
		NotationCount:   len(notations),
		UniqueNotations: names,
	}
}
