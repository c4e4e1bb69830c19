package revision

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	currentKey = "CURRENT_REVISION"
	latestKey  = "LATEST_REVISION"
)

// Pointer records which revision of a prompt is materialized in the working
// directory and which is the newest one ever created.
type Pointer struct {
	Current *Number
	Latest  *Number
}

// IsEmpty reports whether no revision has been created yet.
func (p Pointer) IsEmpty() bool {
	return p.Latest == nil
}

// Advance points both fields at a freshly created revision.
func (p Pointer) Advance(n Number) Pointer {
	return Pointer{Current: Ptr(n), Latest: Ptr(n)}
}

// Select moves the current revision and leaves the latest one alone.
func (p Pointer) Select(n Number) Pointer {
	return Pointer{Current: Ptr(n), Latest: p.Latest}
}

// ReadPointer loads a pointer file. A missing file yields an empty pointer.
func ReadPointer(path string) (Pointer, error) {
	//nolint:gosec // G304: path is derived from settings
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Pointer{}, nil
		}
		return Pointer{}, err
	}
	defer file.Close()

	var p Pointer
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		n, err := parseOptional(value)
		if err != nil {
			return Pointer{}, fmt.Errorf("pointer file %s: %w", path, err)
		}
		switch strings.TrimSpace(key) {
		case currentKey:
			p.Current = n
		case latestKey:
			p.Latest = n
		}
	}
	if err := scanner.Err(); err != nil {
		return Pointer{}, err
	}
	return p, nil
}

// WritePointer replaces the pointer file, creating parent directories as needed.
func WritePointer(path string, p Pointer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(p.encode()), 0o600)
}

func (p Pointer) encode() string {
	var b strings.Builder
	b.WriteString(currentKey + "=" + Format(p.Current, "") + "\n")
	b.WriteString(latestKey + "=" + Format(p.Latest, "") + "\n")
	return b.String()
}

func parseOptional(value string) (*Number, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "None" {
		return nil, nil
	}
	n, err := Parse(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
