package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersCSV = "氏名,住所,電話\n" +
	"山田太郎,東京都新宿区,03-1234-5678\n" +
	"佐藤花子,大阪府大阪市,06-9876-5432\n" +
	"鈴木一郎,北海道札幌市,011-111-2222\n"

const layoutYAML = `顧客:
  reorder: "都道府県コード,氏名,,電話"
  remove: "電話:-"
  get_pref_code:
    enabled: true
    source_column: 住所
    new_column: 都道府県コード
`

const convertedCSV = `"都道府県コード","氏名","","電話"` + "\n" +
	`"13","山田太郎","","0312345678"` + "\n" +
	`"27","佐藤花子","","0698765432"` + "\n" +
	`"01","鈴木一郎","","0111112222"` + "\n"

// testEnv points the CLI at a fresh profile file and returns the working
// directory holding customers.csv and layout.yaml.
func testEnv(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()

	dir := t.TempDir()
	t.Setenv("PROFILE_STORE", "file")
	t.Setenv("PROFILE_PATH", filepath.Join(dir, "csv_profiles.json"))
	t.Setenv("INPUT_ENCODING", "utf-8")
	t.Setenv("OUTPUT_ENCODING", "utf-8")
	t.Setenv("LINE_ENDING", "lf")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "customers.csv"), []byte(customersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.yaml"), []byte(layoutYAML), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestConvert_RulesDocumentToStdout(t *testing.T) {
	dir := testEnv(t)

	stdout, _, err := run(t, "convert",
		"--rules", filepath.Join(dir, "layout.yaml"),
		"-o", "-",
		filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.Equal(t, convertedCSV, stdout)
}

func TestConvert_SavedProfileDefaultOutput(t *testing.T) {
	dir := testEnv(t)

	_, stderr, err := run(t, "profile", "import", filepath.Join(dir, "layout.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 created, 0 updated")

	_, stderr, err = run(t, "convert", "-p", "顧客", filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "3 rows written")

	data, err := os.ReadFile(filepath.Join(dir, "customers_converted.csv"))
	require.NoError(t, err)
	assert.Equal(t, convertedCSV, string(data))
}

func TestConvert_NoHeader(t *testing.T) {
	dir := testEnv(t)

	stdout, _, err := run(t, "convert",
		"-r", filepath.Join(dir, "layout.yaml"),
		"--no-header", "-o", "-",
		filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(stdout, `"都道府県コード"`))
	assert.Equal(t, 3, strings.Count(stdout, "\n"))
}

func TestConvert_Warnings(t *testing.T) {
	dir := testEnv(t)
	rules := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("bad:\n  reorder: 氏名\n  replace: 存在しない:a:b\n"), 0o644))

	stdout, stderr, err := run(t, "convert", "-r", rules, "-o", "-", filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "\"氏名\"\n"))
	assert.Contains(t, stderr, "warning: [RUL002]")
}

func TestConvert_Errors(t *testing.T) {
	dir := testEnv(t)
	csvPath := filepath.Join(dir, "customers.csv")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no rules", []string{"convert", csvPath}, "no profile selected"},
		{"unknown profile", []string{"convert", "-p", "なし", csvPath}, "profile not found"},
		{"missing file", []string{"convert", "-r", filepath.Join(dir, "layout.yaml"), filepath.Join(dir, "nope.csv")}, "no such file"},
		{"bad encoding", []string{"convert", "-r", filepath.Join(dir, "layout.yaml"), "--output-encoding", "latin1", csvPath}, "latin1"},
		{"no args", []string{"convert"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPreview(t *testing.T) {
	dir := testEnv(t)

	stdout, _, err := run(t, "preview", "-r", filepath.Join(dir, "layout.yaml"), "-n", "2", filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, lines[0], "都道府県コード")
	assert.Contains(t, stdout, "山田太郎")
	assert.Contains(t, stdout, "佐藤花子")
	assert.Contains(t, stdout, "...")
	assert.Equal(t, "2 of 3 rows", lines[len(lines)-1])
	assert.NotContains(t, stdout, "鈴木一郎")
}

func TestProfileCommands(t *testing.T) {
	dir := testEnv(t)

	_, _, err := run(t, "profile", "import", filepath.Join(dir, "layout.yaml"))
	require.NoError(t, err)

	stdout, _, err := run(t, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "顧客")
	assert.Contains(t, stdout, "-→-")

	stdout, _, err = run(t, "profile", "show", "顧客")
	require.NoError(t, err)
	assert.Contains(t, stdout, "name: 顧客")
	assert.Contains(t, stdout, "source_column: 住所")

	stdout, _, err = run(t, "profile", "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "顧客:")

	exported := filepath.Join(dir, "out.json")
	_, _, err = run(t, "profile", "export", exported)
	require.NoError(t, err)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"顧客"`)

	stdout, _, err = run(t, "profile", "match", filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "顧客")
	assert.Contains(t, stdout, "100%")

	_, stderr, err := run(t, "profile", "delete", "顧客")
	require.NoError(t, err)
	assert.Contains(t, stderr, "deleted 顧客")

	_, stderr, err = run(t, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "no profiles saved")
}

func TestProfileExport_UnknownFormat(t *testing.T) {
	testEnv(t)
	_, _, err := run(t, "profile", "export", "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestPrintError(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printError(&buf, os.ErrNotExist)
	assert.Equal(t, "error: file does not exist\n", buf.String())

	dir := testEnv(t)
	_, _, err := run(t, "convert", filepath.Join(dir, "customers.csv"))
	require.Error(t, err)

	buf.Reset()
	printError(&buf, err)
	assert.Contains(t, buf.String(), "Code: PRF004")
}
