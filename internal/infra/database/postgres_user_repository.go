package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/user"

	"github.com/google/uuid"
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrDuplicateEmail = fmt.Errorf("user with this email already exists")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (id, name, email, password, role, company_id, active)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING created_at, updated_at`

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, query, u.ID, u.Name, u.Email, u.Password, u.Role, nullableUUID(u.CompanyID), u.Active).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT id, name, email, password, role, company_id, active, created_at, updated_at
               FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, name, email, password, role, company_id, active, created_at, updated_at
               FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresUserRepository) ListByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	query := `SELECT id, name, email, password, role, company_id, active, created_at, updated_at
               FROM users WHERE role = $1 AND active = TRUE ORDER BY name`
	return r.list(ctx, query, role)
}

func (r *PostgresUserRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*user.User, error) {
	query := `SELECT id, name, email, password, role, company_id, active, created_at, updated_at
               FROM users WHERE company_id = $1 AND active = TRUE ORDER BY name`
	return r.list(ctx, query, companyID)
}

func (r *PostgresUserRepository) list(ctx context.Context, query string, args ...any) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUserRow scans a user row and returns the driver error untouched so
// callers can distinguish sql.ErrNoRows.
func scanUserRow(row rowScanner) (*user.User, error) {
	u := &user.User{}
	var companyID sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &companyID, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if companyID.Valid {
		parsed, err := uuid.Parse(companyID.String)
		if err != nil {
			return nil, fmt.Errorf("error parsing user company id: %w", err)
		}
		u.CompanyID = &parsed
	}
	return u, nil
}

func scanUser(row *sql.Row) (*user.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
