// Package git provides utilities for detecting the git repository around a project.
package git

import (
	"os"
	"os/exec"
	"strings"
)

// GitInfo contains information about a git repository
//
//nolint:revive // GitInfo is intentionally prefixed to avoid overly generic "Info" type
type GitInfo struct {
	IsGitRepo     bool
	TopLevel      string
	CurrentBranch string
}

// GetGitInfo retrieves git repository information for the given directory.
// If dir is empty, it uses the current working directory.
// Returns a GitInfo with IsGitRepo=false if the directory is not a git repository.
func GetGitInfo(dir string) (*GitInfo, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			//nolint:nilerr // Intentionally return non-repo info instead of error
			return &GitInfo{IsGitRepo: false}, nil
		}
	}

	top, err := runGitCommand(dir, "rev-parse", "--show-toplevel")
	if err != nil || top == "" {
		//nolint:nilerr // Intentionally return non-repo info instead of error
		return &GitInfo{IsGitRepo: false}, nil
	}

	// Empty on a detached HEAD. Works before the first commit.
	branch, err := runGitCommand(dir, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		branch = ""
	}

	return &GitInfo{
		IsGitRepo:     true,
		TopLevel:      top,
		CurrentBranch: branch,
	}, nil
}

// TopLevel returns the working tree root containing dir.
func TopLevel(dir string) (string, bool) {
	info, err := GetGitInfo(dir)
	if err != nil || !info.IsGitRepo {
		return "", false
	}
	return info.TopLevel, true
}

// runGitCommand executes a git command and returns the trimmed output
func runGitCommand(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	// Suppress stderr to avoid noise when not in a git repository
	cmd.Stderr = nil

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}
