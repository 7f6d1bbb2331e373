package utils

import (
	"os"
	"testing"
)

func TestHelpURL(t *testing.T) {
	os.Unsetenv("WIKI_BASE")

	url := HelpURL("front_matter")
	expected := defaultWikiBase + "/Front-Matter-Format"
	if url != expected {
		t.Errorf("HelpURL(front_matter) = %q, want %q", url, expected)
	}

	if url := HelpURL("no_such_topic"); url != "" {
		t.Errorf("HelpURL(no_such_topic) = %q, want empty", url)
	}
}

func TestHelpURLHonorsWikiBase(t *testing.T) {
	os.Setenv("WIKI_BASE", "https://wiki.example.com/docs")
	defer os.Unsetenv("WIKI_BASE")

	url := HelpURL("example_format")
	expected := "https://wiki.example.com/docs/Example-Format"
	if url != expected {
		t.Errorf("HelpURL(example_format) = %q, want %q", url, expected)
	}
}
