package objtree

import (
	"fmt"
	"strings"
)

// WarningCode classifies a non-fatal condition met during a build
type WarningCode int

const (
	// WarnNotFound: a referenced object could not be resolved
	WarnNotFound WarningCode = iota
	// WarnAllocationFailure: a child was dropped because storage could not
	// be allocated
	WarnAllocationFailure
	// WarnBudgetExceeded: the object budget ran out with work still queued
	WarnBudgetExceeded
	// WarnDepthExceeded: the requested depth was clamped
	WarnDepthExceeded
)

func (c WarningCode) String() string {
	switch c {
	case WarnNotFound:
		return "NotFound"
	case WarnAllocationFailure:
		return "AllocationFailure"
	case WarnBudgetExceeded:
		return "BudgetExceeded"
	case WarnDepthExceeded:
		return "DepthExceeded"
	default:
		return fmt.Sprintf("WarningCode(%d)", int(c))
	}
}

// Warning is a non-fatal condition. Object is 0 when the warning is not
// about a particular object.
type Warning struct {
	Code    WarningCode
	Object  uint32
	Message string
}

func (w Warning) String() string {
	if w.Object == 0 {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s: object %d: %s", w.Code, w.Object, w.Message)
}

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
