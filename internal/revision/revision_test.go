package revision

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNumberString(t *testing.T) {
	cases := map[Number]string{
		1:     "0001",
		42:    "0042",
		9999:  "9999",
		10000: "10000",
	}
	for n, want := range cases {
		if got := n.String(); got != want {
			t.Fatalf("Number(%d).String() = %q, want %q", int(n), got, want)
		}
	}
}

func TestParse(t *testing.T) {
	for _, input := range []string{"2", "02", "0002", " 0002 "} {
		n, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", input, err)
		}
		if n != 2 {
			t.Fatalf("Parse(%q) = %d, want 2", input, n)
		}
	}

	for _, input := range []string{"", "0", "0000", "-1", "abc", "1.5"} {
		if _, err := Parse(input); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("Parse(%q) expected ErrInvalidNumber, got %v", input, err)
		}
	}
}

func TestNextAfter(t *testing.T) {
	if got := NextAfter(nil); got != First {
		t.Fatalf("NextAfter(nil) = %s, want %s", got, First)
	}
	if got := NextAfter(Ptr(7)); got != 8 {
		t.Fatalf("NextAfter(7) = %s, want 0008", got)
	}
}

func TestPointerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "version.txt")

	p, err := ReadPointer(path)
	if err != nil {
		t.Fatalf("ReadPointer on missing file returned error: %v", err)
	}
	if !p.IsEmpty() || p.Current != nil {
		t.Fatalf("expected empty pointer, got %+v", p)
	}

	p = p.Advance(1).Advance(2).Select(1)
	if err := WritePointer(path, p); err != nil {
		t.Fatalf("WritePointer error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if want := "CURRENT_REVISION=0001\nLATEST_REVISION=0002\n"; string(raw) != want {
		t.Fatalf("unexpected pointer file contents %q", raw)
	}

	got, err := ReadPointer(path)
	if err != nil {
		t.Fatalf("ReadPointer error: %v", err)
	}
	if got.Current == nil || *got.Current != 1 || got.Latest == nil || *got.Latest != 2 {
		t.Fatalf("unexpected pointer after round trip: current=%v latest=%v", got.Current, got.Latest)
	}
}

func TestReadPointerNoneMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.txt")
	if err := os.WriteFile(path, []byte("CURRENT_REVISION=None\nLATEST_REVISION=\nOTHER=1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	p, err := ReadPointer(path)
	if err != nil {
		t.Fatalf("ReadPointer error: %v", err)
	}
	if p.Current != nil || p.Latest != nil {
		t.Fatalf("expected none for both fields, got %+v", p)
	}
}

func TestReadPointerMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.txt")
	if err := os.WriteFile(path, []byte("LATEST_REVISION=abc\n"), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := ReadPointer(path); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}
