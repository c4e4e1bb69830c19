// Package revision provides revision numbers and the per-prompt version pointer.
package revision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber indicates a revision identifier that is not a positive decimal number.
var ErrInvalidNumber = errors.New("invalid revision number")

// Number is a revision number. Revision numbers start at 1.
type Number int

// First is the number assigned to the first revision of a prompt.
const First Number = 1

// String formats the number as a zero-padded, four digit identifier.
func (n Number) String() string {
	return fmt.Sprintf("%04d", int(n))
}

// Next returns the number that follows n.
func (n Number) Next() Number {
	return n + 1
}

// NextAfter returns the number to assign after latest, or First when there is no latest revision.
func NextAfter(latest *Number) Number {
	if latest == nil {
		return First
	}
	return latest.Next()
}

// Parse converts "2", "02" or "0002" into a Number.
func Parse(value string) (Number, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
		}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %q must be at least 1", ErrInvalidNumber, value)
	}
	return Number(n), nil
}

// Ptr returns a pointer to n.
func Ptr(n Number) *Number {
	return &n
}

// Format renders an optional number, using none for nil.
func Format(n *Number, none string) string {
	if n == nil {
		return none
	}
	return n.String()
}
