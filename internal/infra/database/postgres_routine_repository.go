package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/routine"

	"github.com/google/uuid"
)

// Custom errors
var ErrRoutineNotFound = fmt.Errorf("monthly routine not found")

type PostgresRoutineRepository struct {
	db *sql.DB
}

func NewPostgresRoutineRepository(db *sql.DB) *PostgresRoutineRepository {
	return &PostgresRoutineRepository{db: db}
}

// InsertIfAbsent inserts the routine unless the (company_id, obligation_id,
// competence) triple already exists. The unique constraint is the arbiter for
// concurrent materializer runs; the loser of the race simply sees no row
// returned.
func (r *PostgresRoutineRepository) InsertIfAbsent(ctx context.Context, rt *routine.Routine) (bool, error) {
	query := `INSERT INTO monthly_routines
                 (id, company_id, obligation_id, obligation_name, department, competence, deadline, status)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               ON CONFLICT (company_id, obligation_id, competence) DO NOTHING
               RETURNING created_at, updated_at`

	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, query,
		rt.ID, rt.CompanyID, rt.ObligationID, rt.ObligationName, rt.Department,
		rt.Competence, rt.Deadline, rt.Status).
		Scan(&rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows { // conflict: a routine for this triple already exists
			return false, nil
		}
		return false, fmt.Errorf("error inserting monthly routine: %w", err)
	}
	return true, nil
}

func (r *PostgresRoutineRepository) GetByID(ctx context.Context, id uuid.UUID) (*routine.Routine, error) {
	query := `SELECT id, company_id, obligation_id, obligation_name, department, competence, deadline, status, created_at, updated_at
               FROM monthly_routines WHERE id = $1`
	rt := &routine.Routine{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.CompanyID, &rt.ObligationID, &rt.ObligationName, &rt.Department,
		&rt.Competence, &rt.Deadline, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("error getting monthly routine by ID: %w", err)
	}
	return rt, nil
}

func (r *PostgresRoutineRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, competence string) ([]*routine.Routine, error) {
	query := `SELECT id, company_id, obligation_id, obligation_name, department, competence, deadline, status, created_at, updated_at
               FROM monthly_routines
               WHERE company_id = $1 AND competence = $2 ORDER BY deadline`
	return r.list(ctx, query, companyID, competence)
}

func (r *PostgresRoutineRepository) ListByStatus(ctx context.Context, status routine.Status) ([]*routine.Routine, error) {
	query := `SELECT id, company_id, obligation_id, obligation_name, department, competence, deadline, status, created_at, updated_at
               FROM monthly_routines
               WHERE status = $1 ORDER BY deadline`
	return r.list(ctx, query, status)
}

func (r *PostgresRoutineRepository) ListExpired(ctx context.Context, status routine.Status, cutoff time.Time) ([]*routine.Routine, error) {
	query := `SELECT id, company_id, obligation_id, obligation_name, department, competence, deadline, status, created_at, updated_at
               FROM monthly_routines
               WHERE status = $1 AND deadline < $2 ORDER BY deadline` // oldest deadlines first
	return r.list(ctx, query, status, cutoff)
}

// UpdateStatus is a compare-and-set: only a routine still in the expected
// status is moved to next.
func (r *PostgresRoutineRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next routine.Status) (bool, error) {
	query := `UPDATE monthly_routines
               SET status = $1, updated_at = NOW()
               WHERE id = $2 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		return false, fmt.Errorf("error updating routine status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading routine status update result: %w", err)
	}
	return affected == 1, nil
}

func (r *PostgresRoutineRepository) list(ctx context.Context, query string, args ...any) ([]*routine.Routine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing monthly routines: %w", err)
	}
	defer rows.Close()

	routines := make([]*routine.Routine, 0)
	for rows.Next() {
		rt := &routine.Routine{}
		if err := rows.Scan(&rt.ID, &rt.CompanyID, &rt.ObligationID, &rt.ObligationName, &rt.Department,
			&rt.Competence, &rt.Deadline, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning monthly routine: %w", err)
		}
		routines = append(routines, rt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly routines: %w", err)
	}
	return routines, nil
}
