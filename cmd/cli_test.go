package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestSessionStartCreatesContextFile(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCLI(t, dir, "session", "start", "bootstrap_project")
	require.NoError(t, err)
	assert.Contains(t, stdout, "started s1: bootstrap_project")

	data, err := os.ReadFile(filepath.Join(dir, ".session-ctx.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"goal": "bootstrap_project"`)
	assert.Contains(t, string(data), `"state": "in_progress"`)
}

func TestSessionStartHonorsExplicitID(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "session", "start", "bootstrap", "--id", "sprint-7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "started sprint-7: bootstrap")
}

func TestSessionEndWithState(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCLI(t, dir, "session", "start", "bootstrap")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, dir, "session", "end", "--state", "blocked")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ended s1 (blocked)")
}

func TestSessionEndWithoutActiveSession(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "session", "end")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session in progress")
}

func TestAddDecisionRequiresActiveSession(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "add", "decision", "postgres", "integrity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session in progress")
}

func TestAddCommandsThenStatus(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCLI(t, dir, "session", "start", "implement_auth")
	require.NoError(t, err)

	_, _, err = executeCLI(t, dir, "add", "decision", "jwt_tokens", "stateless_auth",
		"--alt", "sessions,saml", "--impact", "src/auth.go")
	require.NoError(t, err)

	_, _, err = executeCLI(t, dir, "add", "file", "src/auth.go",
		"--action", "created", "--role", "auth_logic", "--deps", "jwt", "--status", "partial")
	require.NoError(t, err)

	_, _, err = executeCLI(t, dir, "add", "pattern", "middleware", "chain_of_handlers")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, dir, "add", "blocker", "waiting_for_security_review")
	require.NoError(t, err)
	assert.Contains(t, stdout, "recorded b1")

	_, _, err = executeCLI(t, dir, "add", "next", "add_rate_limiting", "write_tests")
	require.NoError(t, err)

	_, _, err = executeCLI(t, dir, "add", "kv", "go_version", "1.25")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "s1: implement_auth")
	assert.Contains(t, stdout, "decisions: 1")
	assert.Contains(t, stdout, "files: 1")
	assert.Contains(t, stdout, "blockers: 1 open")
	assert.Contains(t, stdout, "- add_rate_limiting")
	assert.Contains(t, stdout, "go_version=1.25")
}

func TestStatusJSONOutput(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCLI(t, dir, "session", "start", "bootstrap")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, dir, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"session_count": 1`)
	assert.Contains(t, stdout, `"ID": "s1"`)
}

func TestStatusWithoutContextFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context file not found")
}

func TestPackUnpackRoundTrip(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCLI(t, dir, "session", "start", "bootstrap")
	require.NoError(t, err)
	_, _, err = executeCLI(t, dir, "add", "decision", "cobra", "command_tree")
	require.NoError(t, err)
	_, _, err = executeCLI(t, dir, "session", "end")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, dir, "pack")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Format comparison")
	assert.Contains(t, stdout, "layered archive")

	_, err = os.Stat(filepath.Join(dir, ".session-ctx.v2.json"))
	require.NoError(t, err)

	_, _, err = executeCLI(t, dir, "pack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive file already exists")

	_, _, err = executeCLI(t, dir, "pack", "--force")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, dir, "unpack")
	require.NoError(t, err)
	assert.Contains(t, stdout, "restored to")

	restored, err := os.ReadFile(filepath.Join(dir, ".session-ctx.v1-from-v2.json"))
	require.NoError(t, err)
	original, err := os.ReadFile(filepath.Join(dir, ".session-ctx.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(restored))
}

func TestUnpackWithoutArchiveFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "unpack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive file not found")
}

func TestMinifyExpandRoundTrip(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCLI(t, dir, "session", "start", "bootstrap")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, dir, "minify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "compact")

	_, err = os.Stat(filepath.Join(dir, ".session-ctx.min.json"))
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, dir, "expand")
	require.NoError(t, err)
	assert.Contains(t, stdout, "restored 1 sessions")
}

func TestCompareListsExistingRenditions(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCLI(t, dir, "session", "start", "bootstrap")
	require.NoError(t, err)
	_, _, err = executeCLI(t, dir, "pack")
	require.NoError(t, err)
	_, _, err = executeCLI(t, dir, "minify")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, dir, "compare")
	require.NoError(t, err)
	assert.Contains(t, stdout, "v1 document")
	assert.Contains(t, stdout, "compact")
	assert.Contains(t, stdout, "layered archive")
	assert.Contains(t, stdout, "% smaller")
}

func TestBenchCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "bench", "--sessions", "2", "--iterations", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Codec benchmark")
	assert.Contains(t, stdout, "sessions: 2 · iterations: 1")
	assert.Contains(t, stdout, "layered encode")
	assert.Contains(t, stdout, "v1 pretty")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCLI(t, dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".sctx.toml")

	data, err := os.ReadFile(filepath.Join(dir, ".sctx.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[context]")

	_, _, err = executeCLI(t, dir, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
