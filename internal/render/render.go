// Package render produces revision files from working prompts.
//
// Every revision starts with a generated header delimited by HeaderBegin and
// HeaderEnd lines. The header is dropped before contents are compared, so two
// files with the same body are equal regardless of their revision ids.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"text/template"
)

const (
	// HeaderBegin opens the generated metadata block.
	HeaderBegin = "# <mirascope>"
	// HeaderEnd closes the generated metadata block.
	HeaderEnd = "# </mirascope>"
)

// ErrMissingHeader indicates a template that does not emit a complete header block.
var ErrMissingHeader = errors.New("template must contain the " + HeaderBegin + " and " + HeaderEnd + " lines")

// DefaultTemplate is written by init and used when no template file exists.
const DefaultTemplate = `# <mirascope>
prev_revision_id = {{pyString .PrevRevisionID}}
revision_id = {{pyString .RevisionID}}
{{- if .Tags}}
tags = [{{range $i, $tag := .Tags}}{{if $i}}, {{end}}{{pyString $tag}}{{end}}]
{{- end}}
# </mirascope>
{{.Body}}`

// Data is the input of a template.
type Data struct {
	Prompt         string
	PrevRevisionID string
	RevisionID     string
	Tags           []string
	Body           string
}

// Renderer executes a revision template.
type Renderer struct {
	tmpl *template.Template
}

// New parses a template.
func New(text string) (*Renderer, error) {
	tmpl, err := template.New("revision").Funcs(template.FuncMap{
		"pyString": pyString,
	}).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Load parses the template file at path, falling back to DefaultTemplate when
// it does not exist. A template without a complete header block is rejected.
func Load(path string) (*Renderer, error) {
	//nolint:gosec // G304: path is derived from settings
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(DefaultTemplate)
		}
		return nil, err
	}
	text := string(raw)
	if begin, end := headerBounds(strings.SplitAfter(text, "\n")); begin < 0 || end < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingHeader, path)
	}
	return New(text)
}

// Render executes the template.
func (r *Renderer) Render(data Data) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render revision %s of %s: %w", data.RevisionID, data.Prompt, err)
	}
	return buf.String(), nil
}

// StripHeader removes the first generated metadata block from content.
// Content without a complete block is returned unchanged.
func StripHeader(content string) string {
	lines := strings.SplitAfter(content, "\n")
	begin, end := headerBounds(lines)
	if begin < 0 || end < 0 {
		return content
	}
	return strings.Join(lines[:begin], "") + strings.Join(lines[end+1:], "")
}

// headerBounds returns the indexes of the first HeaderBegin line and the
// HeaderEnd line closing it, or -1 for each one not found.
func headerBounds(lines []string) (int, int) {
	begin, end := -1, -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if begin < 0 {
			if trimmed == HeaderBegin {
				begin = i
			}
			continue
		}
		if trimmed == HeaderEnd {
			end = i
			break
		}
	}
	return begin, end
}

// pyString renders a Python string literal, or None for an empty value.
func pyString(value string) string {
	if value == "" {
		return "None"
	}
	return strconv.Quote(value)
}
