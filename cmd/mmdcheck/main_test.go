package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/input"
)

// runCLI executes a fresh command tree against an empty config so that no
// mmdcheck.toml above the test directory leaks in.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "mmdcheck.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateStdin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid",
			input: "graph TD; A-->B;",
			want:  `{"valid":true}`,
		},
		{
			name:  "truncated link",
			input: "graph TD; A--",
			want:  `{"valid":false,"message":"Parse error on line 1:\ngraph TD; A--\n-------------^\nExpecting 'EDGE_TEXT', got 'EOF'","line":1,"token":"EOF","expected":"'EDGE_TEXT'"}`,
		},
		{
			name:  "empty",
			input: "",
			want:  `{"valid":false,"message":"No diagram type detected matching given configuration for text: "}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
			assert.Empty(t, stderr)
		})
	}
}

func TestValidateFeedbackFormat(t *testing.T) {
	stdout, _, err := runCLI(t, "graph TD; A--", "--format", "feedback")
	require.NoError(t, err)
	assert.Contains(t, stdout, "line: 1")
	assert.Contains(t, stdout, "token: EOF")
}

func TestValidateStripFences(t *testing.T) {
	fenced := "```mermaid\ngraph TD; A-->B;\n```\n"

	stdout, _, err := runCLI(t, fenced, "--strip-fences")
	require.NoError(t, err)
	assert.Equal(t, `{"valid":true}`, stdout)

	stdout, _, err = runCLI(t, fenced)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"valid":false`)
}

func TestValidateFaults(t *testing.T) {
	_, _, err := runCLI(t, "graph TD; A-->B;", "--max-bytes", "4")
	require.Error(t, err)
	assert.Equal(t, "read stdin: input too large: more than 4 bytes", err.Error())
	assert.True(t, errors.Is(err, input.ErrInputTooLarge))

	_, _, err = runCLI(t, "graph TD", "--security-level", "paranoid")
	require.Error(t, err)

	_, _, err = runCLI(t, "graph TD", "--format", "xml")
	require.Error(t, err)

	_, _, err = runCLI(t, "graph TD", "extra-arg")
	require.Error(t, err)
}

func TestValidateTimings(t *testing.T) {
	stdout, stderr, err := runCLI(t, "graph TD; A-->B;", "--timings")
	require.NoError(t, err)
	assert.Equal(t, `{"valid":true}`, stdout)
	assert.Contains(t, stderr, "timings:")
	assert.Contains(t, stderr, "validate")
}

func TestValidateMemProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.pprof")
	stdout, _, err := runCLI(t, "graph TD; A-->B;", "--mem-profile", path)
	require.NoError(t, err)
	assert.Equal(t, `{"valid":true}`, stdout)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.mmd"), []byte("graph TD; A-->B;"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.mmd"), []byte("graph TD; A--"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a diagram"), 0o600))

	stdout, _, err := runCLI(t, "", "check", "--format", "json", "--ui", "off", dir)
	require.True(t, errors.Is(err, errInvalidDiagrams), "err = %v", err)

	var report diagfmt.CheckReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 1, report.Valid)
	assert.Equal(t, 1, report.Invalid)
	require.Len(t, report.Files, 2)

	stdout, _, err = runCLI(t, "", "check", "--format", "pretty", "--ui", "off", "--color", "off", filepath.Join(dir, "good.mmd"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "valid")
	assert.Contains(t, stdout, "1 file(s) checked, 0 invalid")
}

func TestCheckCommandCache(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "good.mmd")
	require.NoError(t, os.WriteFile(file, []byte("graph LR; A-->B;"), 0o600))
	cacheDir := filepath.Join(dir, "cache")

	for i, wantCached := range []bool{false, true} {
		stdout, _, err := runCLI(t, "", "check", "--format", "json", "--ui", "off", "--cache", cacheDir, file)
		require.NoError(t, err, "run %d", i)
		var report diagfmt.CheckReport
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		require.Len(t, report.Files, 1)
		assert.Equal(t, wantCached, report.Files[0].Cached, "run %d", i)
	}
}

func TestTokenizeCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "graph TD; A-->B", "tokenize", "--format", "json")
	require.NoError(t, err)
	var tokens []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &tokens))
	require.NotEmpty(t, tokens)
	assert.Equal(t, "EOF", tokens[len(tokens)-1].Kind)

	_, _, err = runCLI(t, "nothing here", "tokenize")
	require.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "graph TD; A-->B", "parse")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)

	_, stderr, err := runCLI(t, "graph TD; A--", "parse", "--color", "off")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parse error on line 1")
	assert.Contains(t, stderr, "EOF")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version", "--format", "json", "--full")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "mmdcheck", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.Equal(t, "unknown", payload.GitCommit)
}
