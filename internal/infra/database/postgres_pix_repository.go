package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/pix"

	"github.com/google/uuid"
)

type PostgresPixRepository struct {
	db *sql.DB
}

func NewPostgresPixRepository(db *sql.DB) *PostgresPixRepository {
	return &PostgresPixRepository{db: db}
}

func (r *PostgresPixRepository) Create(ctx context.Context, c *pix.Charge) error {
	query := `INSERT INTO pix_charges (id, company_id, amount, description, transaction_id, payment_code, mock)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING created_at`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, query, c.ID, c.CompanyID, c.Amount, c.Description, c.TransactionID, c.PaymentCode, c.Mock).
		Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating pix charge: %w", err)
	}
	return nil
}

func (r *PostgresPixRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*pix.Charge, error) {
	query := `SELECT id, company_id, amount, description, transaction_id, payment_code, mock, created_at
               FROM pix_charges WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error listing pix charges: %w", err)
	}
	defer rows.Close()

	charges := make([]*pix.Charge, 0)
	for rows.Next() {
		c := &pix.Charge{}
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Amount, &c.Description, &c.TransactionID, &c.PaymentCode, &c.Mock, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning pix charge: %w", err)
		}
		charges = append(charges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pix charges: %w", err)
	}
	return charges, nil
}
