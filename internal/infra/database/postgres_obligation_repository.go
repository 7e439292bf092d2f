package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/obligation"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Custom errors
var ErrObligationNotFound = fmt.Errorf("obligation not found")

type PostgresObligationRepository struct {
	db *sql.DB
}

func NewPostgresObligationRepository(db *sql.DB) *PostgresObligationRepository {
	return &PostgresObligationRepository{db: db}
}

func (r *PostgresObligationRepository) Create(ctx context.Context, o *obligation.Obligation) error {
	query := `INSERT INTO obligations (id, name, department, monthly_due)
               VALUES ($1, $2, $3, $4)
               RETURNING created_at, updated_at`

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	dueJSON, err := json.Marshal(o.MonthlyDue)
	if err != nil {
		return fmt.Errorf("error encoding monthly due table: %w", err)
	}
	err = r.db.QueryRowContext(ctx, query, o.ID, o.Name, o.Department, dueJSON).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating obligation: %w", err)
	}
	return nil
}

func (r *PostgresObligationRepository) GetByID(ctx context.Context, id uuid.UUID) (*obligation.Obligation, error) {
	query := `SELECT id, name, department, monthly_due, created_at, updated_at
               FROM obligations WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	o, err := scanObligation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrObligationNotFound
		}
		return nil, fmt.Errorf("error getting obligation by ID: %w", err)
	}
	return o, nil
}

func (r *PostgresObligationRepository) ListAll(ctx context.Context) ([]*obligation.Obligation, error) {
	query := `SELECT id, name, department, monthly_due, created_at, updated_at
               FROM obligations ORDER BY name`
	return r.list(ctx, query)
}

// ListByIDOrName fetches obligations matching any of the given ids or any of
// the given names in a single lookup. Either criterion may be empty.
func (r *PostgresObligationRepository) ListByIDOrName(ctx context.Context, ids []uuid.UUID, names []string) ([]*obligation.Obligation, error) {
	if len(ids) == 0 && len(names) == 0 {
		return []*obligation.Obligation{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	base := `SELECT id, name, department, monthly_due, created_at, updated_at FROM obligations `
	switch {
	case len(ids) > 0 && len(names) > 0:
		return r.list(ctx, base+`WHERE id = ANY($1::uuid[]) OR name = ANY($2::text[]) ORDER BY name`,
			pq.Array(idStrings), pq.Array(names))
	case len(ids) > 0:
		return r.list(ctx, base+`WHERE id = ANY($1::uuid[]) ORDER BY name`, pq.Array(idStrings))
	default:
		return r.list(ctx, base+`WHERE name = ANY($1::text[]) ORDER BY name`, pq.Array(names))
	}
}

func (r *PostgresObligationRepository) list(ctx context.Context, query string, args ...any) ([]*obligation.Obligation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing obligations: %w", err)
	}
	defer rows.Close()

	obligations := make([]*obligation.Obligation, 0)
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning obligation: %w", err)
		}
		obligations = append(obligations, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating obligations: %w", err)
	}
	return obligations, nil
}

func scanObligation(row rowScanner) (*obligation.Obligation, error) {
	o := &obligation.Obligation{}
	var dueJSON []byte
	if err := row.Scan(&o.ID, &o.Name, &o.Department, &dueJSON, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if len(dueJSON) > 0 {
		if err := json.Unmarshal(dueJSON, &o.MonthlyDue); err != nil {
			return nil, fmt.Errorf("error decoding monthly due table: %w", err)
		}
	}
	return o, nil
}
