package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/repository"
)

const ruleKeyUniqueConstraint = "validation_rules_rule_key_key"

var ruleColumns = []string{
	"id",
	"rule_key",
	"rule_value",
	"description",
	"created_at",
	"updated_at",
}

// RuleRepository implements port.RuleRepository using PostgreSQL. Rules are
// addressed by key; the rule_key column carries a unique constraint.
type RuleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRuleRepository wires a PostgreSQL-backed rule repository.
func NewRuleRepository(exec pgExecutor) *RuleRepository {
	return &RuleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByKey retrieves the rule configured under key, or repository.ErrNotFound
// when the key is unconfigured.
func (r *RuleRepository) GetByKey(ctx context.Context, key string) (*domain.ValidationRule, error) {
	stmt, args, err := r.builder.
		Select(ruleColumns...).
		From("registration.validation_rules").
		Where(squirrel.Eq{"rule_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select rule sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var rule domain.ValidationRule
	if err := row.Scan(
		&rule.ID,
		&rule.Key,
		&rule.Value,
		&rule.Description,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan rule: %w", err)
	}

	return &rule, nil
}

// List returns every configured rule ordered by key.
func (r *RuleRepository) List(ctx context.Context) ([]domain.ValidationRule, error) {
	stmt, args, err := r.builder.
		Select(ruleColumns...).
		From("registration.validation_rules").
		OrderBy("rule_key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rules sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.ValidationRule
	for rows.Next() {
		var rule domain.ValidationRule
		if err := rows.Scan(
			&rule.ID,
			&rule.Key,
			&rule.Value,
			&rule.Description,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	return rules, nil
}

// Create inserts a new rule row.
func (r *RuleRepository) Create(ctx context.Context, rule domain.ValidationRule) error {
	stmt, args, err := r.builder.Insert("registration.validation_rules").
		Columns(ruleColumns...).
		Values(
			rule.ID,
			rule.Key,
			rule.Value,
			rule.Description,
			rule.CreatedAt,
			rule.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert rule sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err, ruleKeyUniqueConstraint) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("insert rule: %w", err)
	}
	return nil
}

// Update overwrites the rule's value and description.
func (r *RuleRepository) Update(ctx context.Context, rule domain.ValidationRule) error {
	stmt, args, err := r.builder.Update("registration.validation_rules").
		Set("rule_value", rule.Value).
		Set("description", rule.Description).
		Set("updated_at", rule.UpdatedAt).
		Where(squirrel.Eq{"rule_key": rule.Key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update rule sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the rule configured under key.
func (r *RuleRepository) Delete(ctx context.Context, key string) error {
	stmt, args, err := r.builder.Delete("registration.validation_rules").
		Where(squirrel.Eq{"rule_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete rule sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
