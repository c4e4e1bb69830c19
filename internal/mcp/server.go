// Package mcp exposes prompt versioning as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/revision"
	"github.com/mirascope/mirascope-cli/internal/usecase"
)

// Server wraps the MCP server with prompt versioning tools
type Server struct {
	server  *mcp.Server
	prompts *usecase.Prompts
	logger  *slog.Logger
}

// NewServer creates a new MCP server instance backed by an opened project.
func NewServer(prompts *usecase.Prompts, logger *slog.Logger) (*Server, error) {
	if prompts == nil {
		return nil, errors.New("prompts use case is required")
	}
	if logger == nil {
		logger = mlog.Discard()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "mirascope",
		Version: "0.1.0",
	}, nil)

	s := &Server{
		server:  mcpServer,
		prompts: prompts,
		logger:  mlog.WithComponent(logger, "mcp"),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prompt_status",
		Description: "Report whether prompts changed since their last revision",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prompt_add",
		Description: "Save a changed prompt as a new numbered revision",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prompt_use",
		Description: "Check out a stored revision into the working prompt file",
	}, s.handleUse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prompt_log",
		Description: "List the stored revisions of a prompt",
	}, s.handleLog)
}

// Input/Output types for each tool

type StatusInput struct {
	Prompt *string `json:"prompt,omitempty" jsonschema:"Prompt name; every prompt is reported when omitted"`
	Diff   *bool   `json:"diff,omitempty" jsonschema:"Include a unified diff for changed prompts"`
}

type StatusOutput struct {
	Prompts []PromptStatus `json:"prompts"`
	Changed bool           `json:"changed"`
}

type PromptStatus struct {
	Prompt  string `json:"prompt"`
	Current string `json:"current,omitempty"`
	Latest  string `json:"latest,omitempty"`
	Changed bool   `json:"changed"`
	Next    string `json:"next,omitempty"`
	Diff    string `json:"diff,omitempty"`
	Error   string `json:"error,omitempty"`
}

type AddInput struct {
	Prompt  string  `json:"prompt" jsonschema:"Prompt name, with or without the .py extension"`
	Message *string `json:"message,omitempty" jsonschema:"Optional note stored with the revision"`
}

type AddOutput struct {
	Message  string `json:"message"`
	Revision string `json:"revision,omitempty"`
	Path     string `json:"path,omitempty"`
}

type UseInput struct {
	Prompt   string `json:"prompt" jsonschema:"Prompt name, with or without the .py extension"`
	Revision string `json:"revision" jsonschema:"Revision number such as 2 or 0002"`
}

type UseOutput struct {
	Message string `json:"message"`
}

type LogInput struct {
	Prompt string `json:"prompt" jsonschema:"Prompt name, with or without the .py extension"`
}

type LogOutput struct {
	Revisions []LogEntry `json:"revisions"`
}

type LogEntry struct {
	Revision  string  `json:"revision"`
	Path      string  `json:"path"`
	Hash      string  `json:"hash"`
	Message   *string `json:"message,omitempty"`
	Branch    *string `json:"branch,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
	IsCurrent bool    `json:"isCurrent,omitempty"`
	IsLatest  bool    `json:"isLatest,omitempty"`
}

func toPromptStatus(st prompt.Status, withDiff bool) PromptStatus {
	out := PromptStatus{
		Prompt:  st.Prompt,
		Current: revision.Format(st.Current, ""),
		Latest:  revision.Format(st.Latest, ""),
		Changed: st.Changed,
		Next:    revision.Format(st.Next, ""),
		Error:   st.Error,
	}
	if withDiff {
		out.Diff = st.Diff
	}
	return out
}

// Tool handlers

func (s *Server) handleStatus(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	withDiff := input.Diff != nil && *input.Diff

	var statuses []prompt.Status
	if input.Prompt != nil && *input.Prompt != "" {
		st, err := s.prompts.Status(ctx, *input.Prompt)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("failed to compute status: %w", err)
		}
		statuses = append(statuses, *st)
	} else {
		all, err := s.prompts.StatusAll(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("failed to compute status: %w", err)
		}
		statuses = all
	}

	out := StatusOutput{
		Prompts: make([]PromptStatus, 0, len(statuses)),
		Changed: usecase.AnyChanged(statuses),
	}
	for _, st := range statuses {
		out.Prompts = append(out.Prompts, toPromptStatus(st, withDiff))
	}
	return nil, out, nil
}

func (s *Server) handleAdd(ctx context.Context, req *mcp.CallToolRequest, input AddInput) (*mcp.CallToolResult, AddOutput, error) {
	result, err := s.prompts.Add(ctx, input.Prompt, usecase.AddOptions{Message: input.Message})
	if err != nil {
		return nil, AddOutput{}, fmt.Errorf("failed to add revision: %w", err)
	}
	if result == nil {
		return nil, AddOutput{Message: "No changes detected."}, nil
	}

	return nil, AddOutput{
		Message:  "Adding " + result.Revision.DisplayPath,
		Revision: result.Revision.Number.String(),
		Path:     result.Revision.DisplayPath,
	}, nil
}

func (s *Server) handleUse(ctx context.Context, req *mcp.CallToolRequest, input UseInput) (*mcp.CallToolResult, UseOutput, error) {
	n, err := revision.Parse(input.Revision)
	if err != nil {
		return nil, UseOutput{}, err
	}

	rev, err := s.prompts.Use(ctx, input.Prompt, n)
	if err != nil {
		return nil, UseOutput{}, fmt.Errorf("failed to use revision: %w", err)
	}

	return nil, UseOutput{
		Message: fmt.Sprintf("Using revision %s of %s", rev.Number, rev.Prompt),
	}, nil
}

func (s *Server) handleLog(ctx context.Context, req *mcp.CallToolRequest, input LogInput) (*mcp.CallToolResult, LogOutput, error) {
	entries, err := s.prompts.Log(ctx, input.Prompt)
	if err != nil {
		return nil, LogOutput{}, fmt.Errorf("failed to list revisions: %w", err)
	}

	out := LogOutput{Revisions: make([]LogEntry, 0, len(entries))}
	for _, e := range entries {
		entry := LogEntry{
			Revision:  e.Number.String(),
			Path:      e.Path,
			Hash:      e.Hash,
			Message:   e.Message,
			Branch:    e.Branch,
			IsCurrent: e.IsCurrent,
			IsLatest:  e.IsLatest,
		}
		if e.CreatedAt != nil {
			entry.CreatedAt = e.CreatedAt.Format(time.RFC3339)
		}
		out.Revisions = append(out.Revisions, entry)
	}
	return nil, out, nil
}
