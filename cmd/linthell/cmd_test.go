package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/linthell/internal/constants"
)

// cliResult holds the outcome of one CLI invocation
type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	code := 0
	if err := root.Execute(); err != nil {
		code = handleError(err, &stderr)
	}
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// newProject creates a source file and a config file in a temporary directory
func newProject(t *testing.T, configYAML string) (dir, source, configPath string) {
	t.Helper()
	dir = t.TempDir()
	source = filepath.Join(dir, "app.py")
	if err := os.WriteFile(source, []byte("import os\nx=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = filepath.Join(dir, "linthell.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, source, configPath
}

func TestBaselineThenLint(t *testing.T) {
	dir, source, cfg := newProject(t, "common: {}\n")
	baselinePath := filepath.Join(dir, ".linthell", "flake8.txt")
	known := source + ":1:1: F401 'os' imported but unused\n"

	res := runCLI(t, known, "baseline", "--config", cfg, "-b", baselinePath, "-p", "flake8")
	if res.code != 0 {
		t.Fatalf("baseline exited %d: %s", res.code, res.stderr)
	}
	if _, err := os.Stat(baselinePath); err != nil {
		t.Fatalf("baseline file not written: %v", err)
	}

	// the same violation on a shifted line is still known
	shifted := source + ":7:1: F401 'os' imported but unused\n"
	if err := os.WriteFile(source, []byte("\n\n\n\n\n\nimport os\nx=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res = runCLI(t, shifted, "lint", "--config", cfg, "-b", baselinePath, "-p", "flake8")
	if res.code != constants.ExitCodeClean {
		t.Errorf("known violation should pass, exit %d, stdout %q", res.code, res.stdout)
	}

	newViolation := source + ":8:2: E225 missing whitespace around operator"
	res = runCLI(t, shifted+newViolation+"\n", "lint", "--config", cfg, "-b", baselinePath, "-p", "flake8")
	if res.code != constants.ExitCodeFindings {
		t.Errorf("new violation should exit %d, got %d", constants.ExitCodeFindings, res.code)
	}
	if res.stdout != newViolation+"\n" {
		t.Errorf("stdout = %q, want %q", res.stdout, newViolation+"\n")
	}
}

func TestLint_ConfigSection(t *testing.T) {
	dir := t.TempDir()
	baselinePath := filepath.Join(dir, "base.txt")
	if err := os.WriteFile(baselinePath, []byte("gone.py::E1 old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, cfg := newProject(t, "common:\n  plugin: flake8\nlint:\n  baseline_file: "+baselinePath+"\n  check_outdated: true\n")

	res := runCLI(t, "", "lint", "--config", cfg)
	if res.code != constants.ExitCodeFindings {
		t.Errorf("outdated entry with check_outdated should exit 1, got %d (%s)", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, "gone.py::E1 old") {
		t.Errorf("stderr should list the outdated entry: %q", res.stderr)
	}

	res = runCLI(t, "", "lint", "--config", cfg, "--check-outdated=false")
	if res.code != constants.ExitCodeClean {
		t.Errorf("flag should override config, got exit %d", res.code)
	}
}

func TestLint_JSONOutput(t *testing.T) {
	dir, source, cfg := newProject(t, "common: {}\n")
	baselinePath := filepath.Join(dir, "base.txt")
	if err := os.WriteFile(baselinePath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, source+":2:2: E225 missing whitespace\n", "lint", "--config", cfg, "-b", baselinePath, "-p", "flake8", "-o", "json")
	if res.code != constants.ExitCodeFindings {
		t.Fatalf("expected exit 1, got %d (%s)", res.code, res.stderr)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("invalid JSON %q: %v", res.stdout, err)
	}
	if doc["has_new_findings"] != true {
		t.Errorf("unexpected document %v", doc)
	}
}

func TestLint_Errors(t *testing.T) {
	dir, _, cfg := newProject(t, "common: {}\n")
	missing := filepath.Join(dir, "missing.txt")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing baseline file", []string{"-b", missing, "-p", "flake8"}, "FILE_NOT_FOUND"},
		{"no parser", []string{"-b", missing}, "a parser is required"},
		{"no baseline", []string{"-p", "flake8"}, "a baseline file is required"},
		{"unknown parser", []string{"-b", missing, "-p", "nope"}, "cannot find parser"},
		{"format and plugin", []string{"-b", missing, "-p", "flake8", "-f", "(?P<path>.+)"}, "format"},
		{"bad output format", []string{"-b", missing, "-p", "flake8", "-o", "html"}, "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"lint", "--config", cfg}, tt.args...)
			res := runCLI(t, "", args...)
			if res.code != constants.ExitCodeError {
				t.Errorf("expected exit %d, got %d", constants.ExitCodeError, res.code)
			}
			if !strings.Contains(res.stderr, tt.message) {
				t.Errorf("stderr %q does not contain %q", res.stderr, tt.message)
			}
		})
	}
}

func TestLint_InvalidConfig(t *testing.T) {
	_, _, cfg := newProject(t, "output:\n  format: html\n")

	res := runCLI(t, "", "lint", "--config", cfg, "-b", "x", "-p", "flake8")
	if res.code != constants.ExitCodeError || !strings.Contains(res.stderr, "failed to load configuration") {
		t.Errorf("expected configuration error, got %d %q", res.code, res.stderr)
	}
}

func TestPreCommitLint(t *testing.T) {
	dir, source, cfg := newProject(t, "common: {}\n")
	baselinePath := filepath.Join(dir, "base.txt")
	if err := os.WriteFile(baselinePath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	linterCmd := `sh -c 'printf "%s:1:1: E100 bad\n" "$1"; exit 1' sh`
	res := runCLI(t, "", "pre-commit", "lint", "--config", cfg, "-b", baselinePath, "-p", "flake8",
		"--linter-command", linterCmd, source)
	if res.code != constants.ExitCodeFindings {
		t.Fatalf("expected exit 1, got %d (%s)", res.code, res.stderr)
	}
	if res.stdout != source+":1:1: E100 bad\n" {
		t.Errorf("unexpected stdout %q", res.stdout)
	}

	res = runCLI(t, "", "pre-commit", "lint", "--config", cfg, "-b", baselinePath, "-p", "flake8", source)
	if res.code != constants.ExitCodeError || !strings.Contains(res.stderr, "linter command is required") {
		t.Errorf("missing linter command should be a usage error, got %d %q", res.code, res.stderr)
	}
}

func TestPreCommitBaseline_RequiresHook(t *testing.T) {
	dir, _, cfg := newProject(t, "common: {}\n")

	res := runCLI(t, "", "pre-commit", "baseline", "--config", cfg, "-b", filepath.Join(dir, "b.txt"), "-p", "flake8",
		"--linter-command", "true")
	if res.code != constants.ExitCodeError || !strings.Contains(res.stderr, "hook name is required") {
		t.Errorf("expected hook name error, got %d %q", res.code, res.stderr)
	}
}

func TestRun_UpdateThenCheck(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-linter.sh")
	if err := os.WriteFile(script, []byte("echo 'app.py:1:1: E1 legacy'\nexit 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgYAML := `linters:
  - name: fake
    command: sh ` + script + `
    plugin: flake8
    baseline_file: ` + filepath.Join(dir, "fake.txt") + `
  - name: disabled
    command: "false"
    plugin: flake8
    baseline_file: ` + filepath.Join(dir, "disabled.txt") + `
    enabled: false
`
	cfg := filepath.Join(dir, "linthell.yaml")
	if err := os.WriteFile(cfg, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, "", "run", "--config", cfg, "--update-baseline", "--no-progress")
	if res.code != constants.ExitCodeClean {
		t.Fatalf("update exited %d: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, "fake: wrote 1 entry") {
		t.Errorf("unexpected stderr %q", res.stderr)
	}

	res = runCLI(t, "", "run", "--config", cfg, "--no-progress")
	if res.code != constants.ExitCodeClean {
		t.Errorf("check exited %d: %s %s", res.code, res.stdout, res.stderr)
	}

	res = runCLI(t, "", "run", "--config", cfg, "--job", "missing")
	if res.code != constants.ExitCodeError || !strings.Contains(res.stderr, `unknown linter job "missing"`) {
		t.Errorf("unknown job should fail, got %d %q", res.code, res.stderr)
	}
}

func TestRun_NoLinters(t *testing.T) {
	_, _, cfg := newProject(t, "common: {}\n")

	res := runCLI(t, "", "run", "--config", cfg)
	if res.code != constants.ExitCodeError || !strings.Contains(res.stderr, "no linters configured") {
		t.Errorf("expected no linters error, got %d %q", res.code, res.stderr)
	}
}

func TestParsersCmd(t *testing.T) {
	res := runCLI(t, "", "parsers")
	if res.code != 0 {
		t.Fatalf("parsers exited %d", res.code)
	}
	for _, name := range []string{"flake8", "pylint", "mypy", "pydocstyle", "black-check", "black-diff", "isort-diff"} {
		if !strings.Contains(res.stdout, name) {
			t.Errorf("parsers output missing %s: %q", name, res.stdout)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	res := runCLI(t, "", "version", "-o", "json")
	if res.code != 0 {
		t.Fatalf("version exited %d", res.code)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(res.stdout), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("unexpected version info %v", info)
	}

	res = runCLI(t, "", "version")
	if !strings.HasPrefix(res.stdout, "linthell ") {
		t.Errorf("unexpected text version %q", res.stdout)
	}
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer

	if code := handleError(&ExitError{Code: 1}, &buf); code != 1 || buf.Len() != 0 {
		t.Errorf("silent exit error: code %d, output %q", code, buf.String())
	}

	buf.Reset()
	if code := handleError(&ExitError{Code: 2, Message: "boom"}, &buf); code != 2 || buf.String() != "Error: boom\n" {
		t.Errorf("exit error with message: code %d, output %q", code, buf.String())
	}

	buf.Reset()
	if code := handleError(errors.New("unknown flag: --nope"), &buf); code != constants.ExitCodeError {
		t.Errorf("plain errors should exit %d, got %d", constants.ExitCodeError, code)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"baseline", "lint", "pre-commit", "run", "init", "parsers", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %s", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent --config flag")
	}
}
