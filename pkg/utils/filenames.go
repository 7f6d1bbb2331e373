package utils

import "regexp"

// unsafeFilenamePattern matches whitespace, shell metacharacters, colons
// and backslashes. Filenames carrying any of these cannot be passed
// through shell pipelines safely.
var unsafeFilenamePattern = regexp.MustCompile("[\\s,*?\\[\\]|&;$`\"'<>():\\\\]")

// ValidateFilenames returns the filenames that contain unsafe characters,
// preserving input order.
func ValidateFilenames(files []string) []string {
	var bad []string
	for _, name := range files {
		if unsafeFilenamePattern.MatchString(name) {
			bad = append(bad, name)
		}
	}
	return bad
}
