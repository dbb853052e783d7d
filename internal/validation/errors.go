package validation

import (
	"fmt"
	"strings"
)

// violationSeparator joins the ordered violation list into the single report
// string surfaced to callers.
const violationSeparator = " | "

// Error carries every violation discovered in one validation pass, in check
// evaluation order, never deduplicated.
type Error struct {
	Violations []string
}

// Error implements error by joining all violations into one report.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.Violations, violationSeparator)
}

// RuleConfigError reports a stored rule value that cannot be interpreted,
// e.g. password.min.length = "abc". It is an operator data-entry mistake,
// not a user input mistake, and is surfaced as a server error.
type RuleConfigError struct {
	Key    string
	Value  string
	Reason error
}

// Error implements error.
func (e *RuleConfigError) Error() string {
	return fmt.Sprintf("validation rule %s has unusable value %q: %v", e.Key, e.Value, e.Reason)
}

// Unwrap exposes the underlying parse or compile failure.
func (e *RuleConfigError) Unwrap() error {
	return e.Reason
}
