package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords_ProseOnly(t *testing.T) {
	assert.Equal(t, 5, CountWords("Hello world this is prose."))
}

func TestCountWords_FencedCodeRemoved(t *testing.T) {
	content := "Before\n```go\nfmt.Println(\"hi\")\n```\nAfter"
	assert.Equal(t, 2, CountWords(content))
}

func TestCountWords_InlineCodeRemoved(t *testing.T) {
	assert.Equal(t, 2, CountWords("Use `fmt.Println` here"))
}

func TestCountWords_HTMLTagsRemoved(t *testing.T) {
	assert.Equal(t, 2, CountWords("Hello <b>world</b>"))
}

func TestCountWords_ImageRemovedEntirely(t *testing.T) {
	assert.Equal(t, 2, CountWords("See ![diagram of flow](img.png) here"))
}

func TestCountWords_LinkKeepsText(t *testing.T) {
	assert.Equal(t, 4, CountWords("See [the docs](https://example.com) here"))
}

func TestCountWords_ImageBeforeLink(t *testing.T) {
	// Image alt text is dropped even though the syntax overlaps links.
	assert.Equal(t, 1, CountWords("![alt words](u.png) [kept](u)"))
}

func TestCountWords_NotationStripped(t *testing.T) {
	content := "# Title\n\n- item one\n- item two"
	assert.Equal(t, 5, CountWords(content))
}

func TestNotations_Headings(t *testing.T) {
	content := "# One\n## Two\n### Three\n#### Four\n##### Five\n###### Six"
	assert.Equal(t, []string{
		"heading_1",
		"heading_2",
		"heading_3",
		"heading_4",
		"heading_5",
		"heading_6",
	}, Notations(content))
}

func TestNotations_PerLinePresence(t *testing.T) {
	// Each notation counts once per line, however often it appears there.
	content := "**a** and **b** and **c**\n**d**"
	assert.Equal(t, []string{"bold_asterisk", "bold_asterisk"}, Notations(content))
}

func TestNotations_BoldVersusItalic(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"bold asterisk only", "**bold**", []string{"bold_asterisk"}},
		{"italic asterisk only", "*italic*", []string{"italic_asterisk"}},
		{"bold italic is bold", "***both***", []string{"bold_asterisk"}},
		{"bold underscore only", "__bold__", []string{"bold_underscore"}},
		{"italic underscore only", "_italic_", []string{"italic_underscore"}},
		{"snake case still fires", "snake_case here", []string{"italic_underscore"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Notations(tt.line))
		})
	}
}

func TestNotations_CodeFenceLineAlsoCountsInlineCode(t *testing.T) {
	assert.Equal(t, []string{"code_block", "inline_code"}, Notations("```go"))
}

func TestNotations_ImagesAndLinks(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"image only", "![alt](img.png)", []string{"image"}},
		{"link only", "[text](url)", []string{"link"}},
		{"both on one line", "![a](b) and [c](d)", []string{"image", "link"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Notations(tt.line))
		})
	}
}

func TestNotations_ListsAndQuotes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"blockquote", "> quoted text", []string{"blockquote"}},
		{"dash list", "- item", []string{"unordered_list"}},
		{"plus list", "+ item", []string{"unordered_list"}},
		{"star list also italic", "* item", []string{"italic_asterisk", "unordered_list"}},
		{"ordered list", "1. first", []string{"ordered_list"}},
		{"indented ordered list", "  2. second", []string{"ordered_list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Notations(tt.line))
		})
	}
}

func TestNotations_HorizontalRules(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"dashes", "---", []string{"horizontal_rule"}},
		{"long dashes", "-----", []string{"horizontal_rule"}},
		{"asterisks also bold", "***", []string{"bold_asterisk", "horizontal_rule"}},
		{"underscores also bold", "___", []string{"bold_underscore", "horizontal_rule"}},
		{"trailing text is no rule", "--- x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Notations(tt.line))
		})
	}
}

func TestNotations_TablesAndStrikethrough(t *testing.T) {
	assert.Equal(t, []string{"table_pipe"}, Notations("| a | b |"))
	assert.Equal(t, []string{"strikethrough"}, Notations("~~gone~~"))
}

func TestSurvey_Aggregates(t *testing.T) {
	content := `# Guide

Read [the intro](intro.md) first.

- step one
- step two
`

	s := Survey(content)

	assert.Equal(t, 9, s.Words)
	assert.Equal(t, 4, s.NotationCount)
	assert.Equal(t, []string{"heading_1", "link", "unordered_list"}, s.UniqueNotations)
}
