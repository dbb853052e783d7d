package domain

import "time"

// Rule keys recognized by the validation engine. The set is closed: a key
// absent from the store means the corresponding check simply does not run.
// RuleKeyPasswordNoSpaces keeps the historical spelling without "require"
// for compatibility with existing configuration rows.
const (
	RuleKeyNameMinLength       = "name.min.length"
	RuleKeyEmailRegex          = "email.regex"
	RuleKeyPasswordMinLength   = "password.min.length"
	RuleKeyPasswordPattern     = "password.pattern"
	RuleKeyPasswordNumber      = "password.require.number"
	RuleKeyPasswordLowercase   = "password.require.lowercase"
	RuleKeyPasswordUppercase   = "password.require.uppercase"
	RuleKeyPasswordSpecial     = "password.require.special"
	RuleKeyPasswordNoSpaces    = "password.no.spaces"
	RuleKeyPasswordMinStrength = "password.min.strength"
)

// ValidationRule is one key/value configuration row. The value is an untyped
// string interpreted contextually by the engine: an integer for length rules,
// a regular expression for pattern rules, and a presence-only flag for the
// password.require.* family.
type ValidationRule struct {
	ID          string
	Key         string
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
