package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func setupCLIProject(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MIRASCOPE_LOG_LEVEL", "error")
	t.Setenv("MIRASCOPE_LOG_FILE", "")

	dir := t.TempDir()
	if _, _, err := runCLI(t, "--dir", dir, "init"); err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	return dir
}

func writePromptFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "prompts", name+".py"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestInitCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	stdout, _, err := runCLI(t, "--dir", dir, "init")
	if err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	if !strings.Contains(stdout, "Created mirascope.ini") {
		t.Fatalf("unexpected init output %q", stdout)
	}

	stdout, stderr, err := runCLI(t, "--dir", dir, "init")
	if err != nil {
		t.Fatalf("second init must not fail the process: %v", err)
	}
	if stdout != "" || !strings.Contains(stderr, "already initialized") {
		t.Fatalf("unexpected second init output stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestAddCommandOutput(t *testing.T) {
	dir := setupCLIProject(t)
	writePromptFile(t, dir, "base_prompt", "print('hi')\n")

	stdout, _, err := runCLI(t, "--dir", dir, "add", "base_prompt")
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if want := "Adding .mirascope/versions/base_prompt/0001_base_prompt.py\n"; stdout != want {
		t.Fatalf("expected %q, got %q", want, stdout)
	}

	stdout, _, err = runCLI(t, "--dir", dir, "add", "base_prompt")
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if want := "No changes detected.\n"; stdout != want {
		t.Fatalf("expected %q, got %q", want, stdout)
	}
}

func TestAddCommandMissingPrompt(t *testing.T) {
	dir := setupCLIProject(t)

	stdout, _, err := runCLI(t, "--dir", dir, "add", "missing")
	if err == nil {
		t.Fatalf("expected error for missing prompt")
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
}

func TestUseAndStatusCommands(t *testing.T) {
	dir := setupCLIProject(t)
	writePromptFile(t, dir, "base_prompt", "one\n")
	if _, _, err := runCLI(t, "--dir", dir, "add", "base_prompt"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	writePromptFile(t, dir, "base_prompt", "two\n")

	stdout, _, err := runCLI(t, "--dir", dir, "status", "base_prompt", "--diff")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if !strings.HasPrefix(stdout, "Prompt base_prompt has changed.\n") || !strings.Contains(stdout, "+two") {
		t.Fatalf("unexpected status output %q", stdout)
	}

	if _, _, err := runCLI(t, "--dir", dir, "add", "base_prompt"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	stdout, _, err = runCLI(t, "--dir", dir, "use", "base_prompt", "01")
	if err != nil {
		t.Fatalf("use returned error: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected silent use, got %q", stdout)
	}

	stdout, _, err = runCLI(t, "--dir", dir, "status", "base_prompt")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if stdout != "No changes detected.\n" {
		t.Fatalf("unexpected status output %q", stdout)
	}

	if _, _, err := runCLI(t, "--dir", dir, "use", "base_prompt", "9"); err == nil {
		t.Fatalf("expected error for missing revision")
	}
	if _, _, err := runCLI(t, "--dir", dir, "use", "base_prompt", "latest"); err == nil {
		t.Fatalf("expected error for invalid revision")
	}
}

func TestStatusAllCommand(t *testing.T) {
	dir := setupCLIProject(t)

	stdout, _, err := runCLI(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if stdout != "No changes detected.\n" {
		t.Fatalf("unexpected status output %q", stdout)
	}

	writePromptFile(t, dir, "beta", "b\n")
	writePromptFile(t, dir, "alpha", "a\n")

	stdout, _, err = runCLI(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	alpha, beta := strings.Index(stdout, "alpha"), strings.Index(stdout, "beta")
	if alpha < 0 || beta < 0 || alpha > beta {
		t.Fatalf("expected alpha before beta in %q", stdout)
	}

	stdout, _, err = runCLI(t, "--dir", dir, "status", "--format", "json")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	var statuses []struct {
		Prompt  string `json:"prompt"`
		Changed bool   `json:"changed"`
		Next    int    `json:"next"`
	}
	if err := json.Unmarshal([]byte(stdout), &statuses); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if len(statuses) != 2 || statuses[0].Prompt != "alpha" || !statuses[0].Changed || statuses[0].Next != 1 {
		t.Fatalf("unexpected statuses %+v", statuses)
	}

	if _, _, err := runCLI(t, "--dir", dir, "status", "--format", "xml"); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestLogCommand(t *testing.T) {
	dir := setupCLIProject(t)
	writePromptFile(t, dir, "base_prompt", "one\n")
	if _, _, err := runCLI(t, "--dir", dir, "add", "base_prompt", "-m", "first cut"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	stdout, _, err := runCLI(t, "--dir", dir, "log", "base_prompt")
	if err != nil {
		t.Fatalf("log returned error: %v", err)
	}
	for _, want := range []string{"0001", "current, latest", "first cut"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("log output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = runCLI(t, "--dir", dir, "log", "base_prompt", "--format", "yaml")
	if err != nil {
		t.Fatalf("log returned error: %v", err)
	}
	var entries []struct {
		Revision int    `yaml:"revision"`
		Message  string `yaml:"message"`
		Current  bool   `yaml:"current"`
	}
	if err := yaml.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("invalid yaml %q: %v", stdout, err)
	}
	if len(entries) != 1 || entries[0].Revision != 1 || entries[0].Message != "first cut" || !entries[0].Current {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestCommandsRequireInit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	if _, _, err := runCLI(t, "--dir", dir, "status"); err == nil {
		t.Fatalf("expected error for uninitialized project")
	}
}

func TestMessageWidth(t *testing.T) {
	if got := messageWidth(20, 6); got != minMessage {
		t.Fatalf("expected minimum width %d, got %d", minMessage, got)
	}
	if got := messageWidth(120, 6); got != 120-revisionWidth-markerWidth-createdWidth-6-15 {
		t.Fatalf("unexpected width %d", got)
	}
}

func TestRootCommandOrder(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		if !c.Hidden && c.Name() != "help" && c.Name() != "completion" {
			names = append(names, c.Name())
		}
	}
	if got := strings.Join(names, " "); got != "init status add use log mcp" {
		t.Fatalf("unexpected command order %q", got)
	}
}

func TestStatusAllCommandReportsFailures(t *testing.T) {
	dir := setupCLIProject(t)
	writePromptFile(t, dir, "broken", "b\n")
	writePromptFile(t, dir, "fine", "f\n")

	versions := filepath.Join(dir, ".mirascope", "versions", "broken")
	if err := os.MkdirAll(versions, 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(versions, "version.txt"), []byte("LATEST_REVISION=x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	stdout, _, err := runCLI(t, "--dir", dir, "status")
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected error naming broken, got %v", err)
	}
	if !strings.Contains(stdout, "fine") || !strings.Contains(stdout, "error") {
		t.Fatalf("expected both prompts in report, got %q", stdout)
	}
}
