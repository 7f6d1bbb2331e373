package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

func quietEntry(t *testing.T) *logger.Entry {
	t.Helper()
	log, err := logger.NewLogger(logger.Config{Level: "panic", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log.WithFields(logger.Fields{})
}

func writeGroupDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func groupDoc(apps []string, serverURL, localDatabase string) string {
	doc := "---\n" +
		"title: Users API\n" +
		"description: Users endpoints\n" +
		"test:\n"
	if len(apps) > 0 {
		doc += "  test_apps:\n"
		for _, app := range apps {
			doc += "    - " + app + "\n"
		}
	}
	if serverURL != "" {
		doc += "  server_url: " + serverURL + "\n"
	}
	if localDatabase != "" {
		doc += "  local_database: " + localDatabase + "\n"
	}
	return doc + "---\n"
}

func TestGroupConfigs_SharedConfigJoinsOneGroup(t *testing.T) {
	dir := t.TempDir()
	first := writeGroupDoc(t, dir, "a.md",
		groupDoc([]string{"json-server@0.17.4", "newman"}, "http://localhost:3000", "/data/users.json"))
	second := writeGroupDoc(t, dir, "b.md",
		groupDoc([]string{"newman", "json-server@0.17.4"}, "http://localhost:3000", "/data/users.json"))

	groups, skipped := GroupConfigs([]string{first, second}, quietEntry(t))

	require.Len(t, groups, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, "json-server@0.17.4,newman", groups[0].TestApps)
	assert.Equal(t, "http://localhost:3000", groups[0].ServerURL)
	assert.Equal(t, "/data/users.json", groups[0].LocalDatabase)
	assert.Equal(t, []string{first, second}, groups[0].Files)
}

func TestGroupConfigs_DifferentDatabasesSplit(t *testing.T) {
	dir := t.TempDir()
	first := writeGroupDoc(t, dir, "users.md", groupDoc(nil, "http://localhost:3000", "/data/users.json"))
	second := writeGroupDoc(t, dir, "orders.md", groupDoc(nil, "http://localhost:3000", "/data/orders.json"))
	third := writeGroupDoc(t, dir, "more-users.md", groupDoc(nil, "http://localhost:3000", "/data/users.json"))

	groups, skipped := GroupConfigs([]string{first, second, third}, quietEntry(t))

	require.Len(t, groups, 2)
	assert.Empty(t, skipped)
	assert.Equal(t, "/data/users.json", groups[0].LocalDatabase)
	assert.Equal(t, []string{first, third}, groups[0].Files)
	assert.Equal(t, "/data/orders.json", groups[1].LocalDatabase)
	assert.Equal(t, []string{second}, groups[1].Files)
}

func TestGroupConfigs_SkipReasons(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.md")
	noFront := writeGroupDoc(t, dir, "plain.md", "# No front matter here\n")
	noDB := writeGroupDoc(t, dir, "nodb.md", groupDoc(nil, "http://localhost:3000", ""))
	good := writeGroupDoc(t, dir, "good.md", groupDoc(nil, "", "/data/users.json"))

	groups, skipped := GroupConfigs([]string{missing, noFront, noDB, good}, quietEntry(t))

	require.Len(t, groups, 1)
	assert.Equal(t, []string{good}, groups[0].Files)
	require.Len(t, skipped, 3)
	assert.Equal(t, SkippedFile{Path: missing, Reason: SkipUnreadable}, skipped[0])
	assert.Equal(t, SkippedFile{Path: noFront, Reason: SkipNoFrontMatter}, skipped[1])
	assert.Equal(t, SkippedFile{Path: noDB, Reason: SkipNoLocalDatabase}, skipped[2])
}

func TestFormatGroupsJSON(t *testing.T) {
	groups := []Group{{
		TestApps:      "json-server@0.17.4",
		ServerURL:     "http://localhost:3000",
		LocalDatabase: "/data/users.json",
		Files:         []string{"docs/users.md"},
	}}

	out, err := FormatGroupsJSON(groups)
	require.NoError(t, err)

	var decoded struct {
		Groups []Group `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, groups, decoded.Groups)
	assert.Contains(t, out, "\n  ", "expected indented output")
}

func TestFormatGroupsJSON_EmptyKeepsGroupsKey(t *testing.T) {
	out, err := FormatGroupsJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"groups": []}`, out)
}

func TestFormatGroupsShell(t *testing.T) {
	groups := []Group{
		{
			TestApps:      "json-server@0.17.4,newman",
			ServerURL:     "http://localhost:3000",
			LocalDatabase: "/data/users.json",
			Files:         []string{"docs/users.md", "docs/admin.md"},
		},
		{
			TestApps:      "",
			ServerURL:     "http://localhost:4000",
			LocalDatabase: "/data/orders.json",
			Files:         []string{"docs/orders.md"},
		},
	}

	out := FormatGroupsShell(groups)

	expected := "# Group 1\n" +
		"GROUP_1_TEST_APPS=\"json-server@0.17.4,newman\"\n" +
		"GROUP_1_SERVER_URL=\"http://localhost:3000\"\n" +
		"GROUP_1_LOCAL_DATABASE=\"/data/users.json\"\n" +
		"GROUP_1_FILES=\"docs/users.md docs/admin.md\"\n" +
		"\n" +
		"# Group 2\n" +
		"GROUP_2_TEST_APPS=\"\"\n" +
		"GROUP_2_SERVER_URL=\"http://localhost:4000\"\n" +
		"GROUP_2_LOCAL_DATABASE=\"/data/orders.json\"\n" +
		"GROUP_2_FILES=\"docs/orders.md\"\n" +
		"\n" +
		"# Metadata\n" +
		"GROUP_COUNT=2\n"
	assert.Equal(t, expected, out)
}

func TestFormatGroupsShell_EscapesShellCharacters(t *testing.T) {
	groups := []Group{{
		ServerURL:     `http://localhost:3000/$tenant`,
		LocalDatabase: `/data/it"s.json`,
		Files:         []string{"docs/a.md"},
	}}

	out := FormatGroupsShell(groups)

	assert.Contains(t, out, `GROUP_1_SERVER_URL="http://localhost:3000/\$tenant"`)
	assert.Contains(t, out, `GROUP_1_LOCAL_DATABASE="/data/it\"s.json"`)
}

func TestDatabasePath_StripsOneLeadingSlash(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		value string
		want  string
	}{
		{"/data/users.json", "data/users.json"},
		{"data/users.json", "data/users.json"},
		{"//shared/users.json", "/shared/users.json"},
	}
	for _, tc := range cases {
		path := writeGroupDoc(t, dir, "doc.md", groupDoc(nil, "", tc.value))
		got, err := DatabasePath(path)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "local_database %q", tc.value)
	}
}

func TestDatabasePath_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeGroupDoc(t, dir, "doc.md", groupDoc(nil, "http://localhost:3000", ""))

	_, err := DatabasePath(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), SkipNoLocalDatabase)
}

func TestSkipSummary(t *testing.T) {
	groups := []Group{{LocalDatabase: "/data/users.json", Files: []string{"a.md"}}}
	skipped := []SkippedFile{{Path: "b.md", Reason: SkipNoFrontMatter}}

	out := SkipSummary(groups, skipped)

	assert.Contains(t, out, "Warning: Skipped 1 file(s) without valid test configuration:")
	assert.Contains(t, out, "  - b.md: No valid front matter")
	assert.Contains(t, out, "Note: Files need front matter with 'test.local_database' field to be included.")
	assert.NotContains(t, out, "No files with valid test configuration found")
}

func TestSkipSummary_NoGroups(t *testing.T) {
	out := SkipSummary(nil, nil)

	assert.Contains(t, out, "Warning: No files with valid test configuration found.")
	assert.Contains(t, out, "Files must have front matter with 'test.local_database' field.")
}
