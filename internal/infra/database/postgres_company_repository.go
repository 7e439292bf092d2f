package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/company"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Custom errors
var ErrCompanyNotFound = fmt.Errorf("company not found")
var ErrDuplicateCNPJ = fmt.Errorf("company with this CNPJ already exists")

type PostgresCompanyRepository struct {
	db *sql.DB
}

func NewPostgresCompanyRepository(db *sql.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, c *company.Company) error {
	query := `INSERT INTO companies (id, name, cnpj, obligation_refs, active)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING created_at, updated_at`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.CNPJ, pq.Array(c.ObligationRefs), c.Active).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "companies_cnpj_key") {
			return ErrDuplicateCNPJ
		}
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	query := `SELECT id, name, cnpj, obligation_refs, active, created_at, updated_at
               FROM companies WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresCompanyRepository) GetByCNPJ(ctx context.Context, cnpj string) (*company.Company, error) {
	query := `SELECT id, name, cnpj, obligation_refs, active, created_at, updated_at
               FROM companies WHERE cnpj = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, cnpj))
}

func (r *PostgresCompanyRepository) Update(ctx context.Context, c *company.Company) error {
	query := `UPDATE companies
               SET name = $1, obligation_refs = $2, active = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Name, pq.Array(c.ObligationRefs), c.Active, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("error updating company: %w", err)
	}
	return nil
}

func (r *PostgresCompanyRepository) ListActive(ctx context.Context) ([]*company.Company, error) {
	query := `SELECT id, name, cnpj, obligation_refs, active, created_at, updated_at
               FROM companies WHERE active = TRUE ORDER BY name`
	return r.list(ctx, query)
}

func (r *PostgresCompanyRepository) ListAll(ctx context.Context) ([]*company.Company, error) {
	query := `SELECT id, name, cnpj, obligation_refs, active, created_at, updated_at
               FROM companies ORDER BY name`
	return r.list(ctx, query)
}

func (r *PostgresCompanyRepository) list(ctx context.Context, query string) ([]*company.Company, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*company.Company, 0)
	for rows.Next() {
		c := &company.Company{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CNPJ, pq.Array(&c.ObligationRefs), &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}
	return companies, nil
}

func (r *PostgresCompanyRepository) scanOne(row *sql.Row) (*company.Company, error) {
	c := &company.Company{}
	err := row.Scan(&c.ID, &c.Name, &c.CNPJ, pq.Array(&c.ObligationRefs), &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error getting company: %w", err)
	}
	return c, nil
}
