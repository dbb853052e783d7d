package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/repository"
)

const emailUniqueConstraint = "users_email_key"

var userColumns = []string{
	"id",
	"name",
	"email",
	"password",
	"token",
	"is_active",
	"created",
	"modified",
	"last_login",
}

// UserRepository implements port.UserRepository using PostgreSQL. A user and
// its phones are written in one transaction so a partially registered account
// never becomes visible.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository. The executor
// is the shared pgxpool.Pool in production and a pgxmock pool in tests.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the user row and its phone rows atomically.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	tx, err := r.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmt, args, err := r.builder.Insert("registration.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Name,
			user.Email,
			user.Password,
			user.Token,
			user.IsActive,
			user.Created,
			user.Modified,
			user.LastLogin,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err, emailUniqueConstraint) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if err := r.insertPhones(ctx, tx, user.ID, user.Phones); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err, emailUniqueConstraint) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user and its phones by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by exact email match. The lookup is
// case-sensitive; two addresses differing only in case are distinct users.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) getBy(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("registration.users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Token,
		&user.IsActive,
		&user.Created,
		&user.Modified,
		&user.LastLogin,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	phones, err := r.phonesFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Phones = phones

	return &user, nil
}

// List returns every user ordered by creation time, phones included.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("registration.users").
		OrderBy("created ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Password,
			&user.Token,
			&user.IsActive,
			&user.Created,
			&user.Modified,
			&user.LastLogin,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	phonesByUser, err := r.allPhones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Phones = phonesByUser[users[i].ID]
	}

	return users, nil
}

// Update overwrites the user's mutable fields and replaces its phone set.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	tx, err := r.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmt, args, err := r.builder.Update("registration.users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("password", user.Password).
		Set("is_active", user.IsActive).
		Set("modified", user.Modified).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err, emailUniqueConstraint) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	delStmt, delArgs, err := r.builder.Delete("registration.phones").
		Where(squirrel.Eq{"user_id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete phones sql: %w", err)
	}
	if _, err := tx.Exec(ctx, delStmt, delArgs...); err != nil {
		return fmt.Errorf("delete phones: %w", err)
	}

	if err := r.insertPhones(ctx, tx, user.ID, user.Phones); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err, emailUniqueConstraint) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("commit update user: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the user's last login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("registration.users").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the user and its phones.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delPhones, phoneArgs, err := r.builder.Delete("registration.phones").
		Where(squirrel.Eq{"user_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete phones sql: %w", err)
	}
	if _, err := tx.Exec(ctx, delPhones, phoneArgs...); err != nil {
		return fmt.Errorf("delete phones: %w", err)
	}

	delUser, userArgs, err := r.builder.Delete("registration.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}
	tag, err := tx.Exec(ctx, delUser, userArgs...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) insertPhones(ctx context.Context, tx pgx.Tx, userID string, phones []domain.Phone) error {
	if len(phones) == 0 {
		return nil
	}

	insert := r.builder.Insert("registration.phones").
		Columns("user_id", "number", "city_code", "country_code")
	for _, phone := range phones {
		insert = insert.Values(userID, phone.Number, phone.CityCode, phone.CountryCode)
	}

	stmt, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert phones sql: %w", err)
	}
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert phones: %w", err)
	}
	return nil
}

func (r *UserRepository) phonesFor(ctx context.Context, userID string) ([]domain.Phone, error) {
	stmt, args, err := r.builder.
		Select("number", "city_code", "country_code").
		From("registration.phones").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select phones sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select phones: %w", err)
	}
	defer rows.Close()

	var phones []domain.Phone
	for rows.Next() {
		var phone domain.Phone
		if err := rows.Scan(&phone.Number, &phone.CityCode, &phone.CountryCode); err != nil {
			return nil, fmt.Errorf("scan phone row: %w", err)
		}
		phones = append(phones, phone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phones: %w", err)
	}
	return phones, nil
}

func (r *UserRepository) allPhones(ctx context.Context) (map[string][]domain.Phone, error) {
	stmt, args, err := r.builder.
		Select("user_id", "number", "city_code", "country_code").
		From("registration.phones").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select all phones sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select all phones: %w", err)
	}
	defer rows.Close()

	phonesByUser := make(map[string][]domain.Phone)
	for rows.Next() {
		var (
			userID string
			phone  domain.Phone
		)
		if err := rows.Scan(&userID, &phone.Number, &phone.CityCode, &phone.CountryCode); err != nil {
			return nil, fmt.Errorf("scan phone row: %w", err)
		}
		phonesByUser[userID] = append(phonesByUser[userID], phone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate all phones: %w", err)
	}
	return phonesByUser, nil
}
