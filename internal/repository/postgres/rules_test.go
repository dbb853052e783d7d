package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/repository"
)

func TestRuleRepository_GetByKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRuleRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "rule_key", "rule_value", "description", "created_at", "updated_at",
	}).AddRow(
		"rule-1", domain.RuleKeyPasswordMinLength, "8", "minimum password length", now, now,
	)

	mock.ExpectQuery(`SELECT .*FROM registration\.validation_rules`).
		WithArgs(domain.RuleKeyPasswordMinLength).
		WillReturnRows(rows)

	rule, err := repo.GetByKey(context.Background(), domain.RuleKeyPasswordMinLength)
	if err != nil {
		t.Fatalf("GetByKey returned error: %v", err)
	}
	if rule.Key != domain.RuleKeyPasswordMinLength || rule.Value != "8" {
		t.Fatalf("unexpected rule: %+v", rule)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRuleRepository_GetByKeyNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRuleRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM registration\.validation_rules`).
		WithArgs("email.regex").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByKey(context.Background(), "email.regex"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRuleRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRuleRepository(mock)

	now := time.Now().UTC()
	rule := domain.ValidationRule{
		ID:          "rule-9",
		Key:         domain.RuleKeyNameMinLength,
		Value:       "3",
		Description: "minimum name length",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO registration\.validation_rules`).
		WithArgs(rule.ID, rule.Key, rule.Value, rule.Description, rule.CreatedAt, rule.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), rule); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRuleRepository_CreateDuplicateKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRuleRepository(mock)

	rule := domain.ValidationRule{ID: "rule-9", Key: domain.RuleKeyNameMinLength, Value: "3"}

	mock.ExpectExec(`INSERT INTO registration\.validation_rules`).
		WithArgs(rule.ID, rule.Key, rule.Value, rule.Description, rule.CreatedAt, rule.UpdatedAt).
		WillReturnError(uniqueViolationError(ruleKeyUniqueConstraint))

	if err := repo.Create(context.Background(), rule); !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRuleRepository_UpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRuleRepository(mock)

	rule := domain.ValidationRule{Key: "email.regex", Value: `^\S+@\S+$`}

	mock.ExpectExec(`UPDATE registration\.validation_rules`).
		WithArgs(rule.Value, rule.Description, rule.UpdatedAt, rule.Key).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Update(context.Background(), rule); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRuleRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRuleRepository(mock)

	mock.ExpectExec(`DELETE FROM registration\.validation_rules`).
		WithArgs(domain.RuleKeyPasswordNoSpaces).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), domain.RuleKeyPasswordNoSpaces); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
