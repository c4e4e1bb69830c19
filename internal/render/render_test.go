package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

const body = "from mirascope import prompt\n\n\nclass BasePrompt(prompt.Prompt):\n    \"\"\"Hello.\"\"\"\n"

func TestRenderDefaultTemplate(t *testing.T) {
	r, err := New(DefaultTemplate)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := r.Render(Data{Prompt: "base_prompt", RevisionID: "0001", Body: body})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	want := "# <mirascope>\nprev_revision_id = None\nrevision_id = \"0001\"\n# </mirascope>\n" + body
	if got != want {
		t.Fatalf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderWithTags(t *testing.T) {
	r, err := New(DefaultTemplate)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := r.Render(Data{
		Prompt:         "base_prompt",
		PrevRevisionID: "0001",
		RevisionID:     "0002",
		Tags:           []string{"version:0002"},
		Body:           body,
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	want := "# <mirascope>\nprev_revision_id = \"0001\"\nrevision_id = \"0002\"\ntags = [\"version:0002\"]\n# </mirascope>\n" + body
	if got != want {
		t.Fatalf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
}

func TestStripHeaderRoundTrip(t *testing.T) {
	r, err := New(DefaultTemplate)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	rendered, err := r.Render(Data{RevisionID: "0003", PrevRevisionID: "0002", Tags: []string{"version:0003"}, Body: body})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if got := StripHeader(rendered); got != body {
		t.Fatalf("StripHeader mismatch:\n%q\nwant:\n%q", got, body)
	}
	if got := StripHeader(body); got != body {
		t.Fatalf("StripHeader changed content without a header: %q", got)
	}
}

func TestStripHeaderIgnoresUnterminatedBlock(t *testing.T) {
	content := "# <mirascope>\nrevision_id = \"0001\"\nprint('x')\n"
	if got := StripHeader(content); got != content {
		t.Fatalf("expected content unchanged, got %q", got)
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "missing.tmpl"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got, err := r.Render(Data{RevisionID: "0001", Body: "x\n"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if StripHeader(got) != "x\n" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestLoadCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tmpl")
	if err := os.WriteFile(path, []byte("# <mirascope>\n# {{.Prompt}} {{.RevisionID}}\n# </mirascope>\n{{.Body}}"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got, err := r.Render(Data{Prompt: "p", RevisionID: "0004", Body: "y\n"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "# <mirascope>\n# p 0004\n# </mirascope>\ny\n" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestParseFormatCommand(t *testing.T) {
	got := ParseFormatCommand("ruff check --select I --fix; ruff format ;;")
	want := [][]string{{"ruff", "check", "--select", "I", "--fix"}, {"ruff", "format"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if cmds := ParseFormatCommand("  "); len(cmds) != 0 {
		t.Fatalf("expected no commands, got %v", cmds)
	}
}

func TestFormatRunsCommands(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "0001_p.py")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	script := filepath.Join(dir, "append.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho formatted >> \"$1\"\n"), 0o755); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if err := Format(context.Background(), "sh "+script, dir, target); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(content) != "xformatted\n" {
		t.Fatalf("unexpected formatted content %q", content)
	}

	failing := filepath.Join(dir, "fail.sh")
	if err := os.WriteFile(failing, []byte("#!/bin/sh\necho broken >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := Format(context.Background(), "sh "+failing, dir, target); !errors.Is(err, ErrFormatFailed) {
		t.Fatalf("expected ErrFormatFailed, got %v", err)
	}
}

func TestLoadRejectsTemplateWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	for name, text := range map[string]string{
		"none.tmpl":         "# {{.RevisionID}}\n{{.Body}}",
		"unterminated.tmpl": "# <mirascope>\n# {{.RevisionID}}\n{{.Body}}",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}
		if _, err := Load(path); !errors.Is(err, ErrMissingHeader) {
			t.Fatalf("%s: expected ErrMissingHeader, got %v", name, err)
		}
	}
}
