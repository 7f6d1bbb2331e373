package utils

// Contributor-guide deep links surfaced alongside failing checks. The base
// is overridable so forks can point annotations at their own wiki.

const defaultWikiBase = "https://github.com/johnnynv/DocSentry/wiki"

var helpPages = map[string]string{
	// File and directory requirements
	"file_locations": "File-Locations",

	// Git and commit guidelines
	"squashing_commits": "Squashing-Commits",
	"merge_commits":     "Avoiding-Merge-Commits",
	"branch_update":     "Updating-Your-Branch",

	// Documentation format requirements
	"example_format": "Example-Format",
	"front_matter":   "Front-Matter-Format",
}

// WikiBase returns the contributor wiki base URL, honoring WIKI_BASE
func WikiBase() string {
	return GetEnvWithDefault("WIKI_BASE", defaultWikiBase)
}

// HelpURL returns the wiki page URL for a known topic key, "" otherwise
func HelpURL(topic string) string {
	page, ok := helpPages[topic]
	if !ok {
		return ""
	}
	return WikiBase() + "/" + page
}
