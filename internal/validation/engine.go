package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/core/port"
	"github.com/germandcf/ProyectoNisum/internal/repository"
)

// builtinEmailPattern is applied when no email.regex rule is configured.
const builtinEmailPattern = `^[A-Za-z0-9+_.-]+@(.+)$`

// specialCharacters is the fixed set accepted by password.require.special.
const specialCharacters = "@#$%^&+=!?"

const msgRequiredFields = "required fields missing"

// EmailLookup is the single side lookup the engine performs: the uniqueness
// check against existing users.
type EmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Candidate is the user-submitted data under validation. The engine never
// mutates it.
type Candidate struct {
	Name     string
	Email    string
	Password string
	Phones   []domain.Phone
}

// Engine validates candidate users against the rules currently stored in the
// rule repository. Rule and user stores are injected so tests can run with
// distinct rule sets; the engine holds no state of its own.
type Engine struct {
	rules port.RuleRepository
	users EmailLookup
}

// NewEngine constructs a validation engine over the given stores.
func NewEngine(rules port.RuleRepository, users EmailLookup) *Engine {
	return &Engine{rules: rules, users: users}
}

// Validate runs every configured check against the candidate and aggregates
// all violations into a single *Error. Blank required fields short-circuit
// with exactly one violation before any rule is consulted; after that gate
// every remaining check runs and its findings are collected together.
func (e *Engine) Validate(ctx context.Context, cand Candidate) error {
	return e.validate(ctx, cand, "")
}

// ValidateUpdate behaves like Validate but excludes currentID from the email
// uniqueness lookup, so a user keeping their own address does not trip the
// already-registered check.
func (e *Engine) ValidateUpdate(ctx context.Context, cand Candidate, currentID string) error {
	return e.validate(ctx, cand, currentID)
}

func (e *Engine) validate(ctx context.Context, cand Candidate, excludeID string) error {
	if isBlank(cand.Name) || isBlank(cand.Email) || isBlank(cand.Password) {
		return &Error{Violations: []string{msgRequiredFields}}
	}

	var violations []string

	v, err := e.checkName(ctx, cand.Name)
	if err != nil {
		return err
	}
	violations = append(violations, v...)

	v, err = e.checkEmail(ctx, cand.Email, excludeID)
	if err != nil {
		return err
	}
	violations = append(violations, v...)

	v, err = e.checkPassword(ctx, cand.Password)
	if err != nil {
		return err
	}
	violations = append(violations, v...)

	violations = append(violations, checkPhones(cand.Phones)...)

	if len(violations) > 0 {
		return &Error{Violations: violations}
	}
	return nil
}

func (e *Engine) checkName(ctx context.Context, name string) ([]string, error) {
	min, configured, err := e.intRule(ctx, domain.RuleKeyNameMinLength)
	if err != nil {
		return nil, err
	}
	if configured && len([]rune(name)) < min {
		return []string{fmt.Sprintf("name must be at least %d characters", min)}, nil
	}
	return nil, nil
}

// checkEmail validates the address format and, only when the format passed,
// performs the uniqueness lookup. A configured email.regex rule takes
// precedence over the built-in pattern; its value may carry escaped
// backslashes that are unescaped before compilation.
func (e *Engine) checkEmail(ctx context.Context, email, excludeID string) ([]string, error) {
	pattern := builtinEmailPattern
	if rule, err := e.lookup(ctx, domain.RuleKeyEmailRegex); err != nil {
		return nil, err
	} else if rule != nil {
		pattern = strings.ReplaceAll(rule.Value, `\\`, `\`)
	}

	re, err := compileFullMatch(pattern)
	if err != nil {
		return nil, &RuleConfigError{Key: domain.RuleKeyEmailRegex, Value: pattern, Reason: err}
	}

	matched, err := re.MatchString(email)
	if err != nil {
		return nil, &RuleConfigError{Key: domain.RuleKeyEmailRegex, Value: pattern, Reason: err}
	}
	if !matched {
		return []string{"email format is invalid"}, nil
	}

	existing, err := e.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil && existing.ID != excludeID {
		return []string{"email already registered"}, nil
	}
	return nil, nil
}

func (e *Engine) checkPassword(ctx context.Context, password string) ([]string, error) {
	var violations []string

	min, configured, err := e.intRule(ctx, domain.RuleKeyPasswordMinLength)
	if err != nil {
		return nil, err
	}
	if configured && len([]rune(password)) < min {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", min))
	}

	if rule, err := e.lookup(ctx, domain.RuleKeyPasswordPattern); err != nil {
		return nil, err
	} else if rule != nil {
		re, cerr := compileFullMatch(rule.Value)
		if cerr != nil {
			return nil, &RuleConfigError{Key: rule.Key, Value: rule.Value, Reason: cerr}
		}
		matched, merr := re.MatchString(password)
		if merr != nil {
			return nil, &RuleConfigError{Key: rule.Key, Value: rule.Value, Reason: merr}
		}
		if !matched {
			violations = append(violations, "password does not match the required pattern")
		}
	}

	flagChecks := []struct {
		key     string
		passes  func(string) bool
		message string
	}{
		{domain.RuleKeyPasswordNumber, containsClass(unicode.IsDigit), "password must contain at least one number"},
		{domain.RuleKeyPasswordLowercase, containsClass(unicode.IsLower), "password must contain at least one lowercase letter"},
		{domain.RuleKeyPasswordUppercase, containsClass(unicode.IsUpper), "password must contain at least one uppercase letter"},
		{domain.RuleKeyPasswordSpecial, containsSpecial, "password must contain at least one special character"},
		{domain.RuleKeyPasswordNoSpaces, noWhitespace, "password must not contain spaces"},
	}

	for _, check := range flagChecks {
		rule, err := e.lookup(ctx, check.key)
		if err != nil {
			return nil, err
		}
		if rule != nil && !check.passes(password) {
			violations = append(violations, check.message)
		}
	}

	minScore, configured, err := e.intRule(ctx, domain.RuleKeyPasswordMinStrength)
	if err != nil {
		return nil, err
	}
	if configured && zxcvbn.PasswordStrength(password, nil).Score < minScore {
		violations = append(violations, "password is too weak")
	}

	return violations, nil
}

func checkPhones(phones []domain.Phone) []string {
	var violations []string
	for i, phone := range phones {
		if isBlank(phone.Number) {
			violations = append(violations, fmt.Sprintf("phone %d: number is required", i+1))
		}
		if isBlank(phone.CityCode) {
			violations = append(violations, fmt.Sprintf("phone %d: city code is required", i+1))
		}
		if isBlank(phone.CountryCode) {
			violations = append(violations, fmt.Sprintf("phone %d: country code is required", i+1))
		}
	}
	return violations
}

// lookup resolves a rule by key, mapping "not configured" to a nil rule.
func (e *Engine) lookup(ctx context.Context, key string) (*domain.ValidationRule, error) {
	rule, err := e.rules.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup rule %s: %w", key, err)
	}
	return rule, nil
}

// intRule resolves a rule whose value must parse as an integer. Returns
// configured=false for an absent key; a non-integer value is an operator
// configuration error, never a user violation.
func (e *Engine) intRule(ctx context.Context, key string) (int, bool, error) {
	rule, err := e.lookup(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if rule == nil {
		return 0, false, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(rule.Value))
	if err != nil {
		return 0, false, &RuleConfigError{Key: rule.Key, Value: rule.Value, Reason: err}
	}
	return value, true, nil
}

// compileFullMatch anchors the pattern so it must cover the whole input.
// regexp2 is used because configured patterns rely on lookaheads the
// standard library rejects.
func compileFullMatch(pattern string) (*regexp2.Regexp, error) {
	return regexp2.Compile(fmt.Sprintf(`\A(?:%s)\z`, pattern), regexp2.None)
}

func containsClass(class func(rune) bool) func(string) bool {
	return func(s string) bool {
		for _, r := range s {
			if class(r) {
				return true
			}
		}
		return false
	}
}

func containsSpecial(s string) bool {
	return strings.ContainsAny(s, specialCharacters)
}

func noWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
