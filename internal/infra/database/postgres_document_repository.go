package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/document"

	"github.com/google/uuid"
)

type PostgresDocumentRepository struct {
	db *sql.DB
}

func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

func (r *PostgresDocumentRepository) Create(ctx context.Context, d *document.Document) error {
	query := `INSERT INTO documents (id, routine_id, company_id, uploaded_by, file_name, storage_path, size_bytes)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING created_at`

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, query, d.ID, d.RoutineID, d.CompanyID, d.UploadedBy, d.FileName, d.StoragePath, d.SizeBytes).
		Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating document record: %w", err)
	}
	return nil
}

func (r *PostgresDocumentRepository) ListByRoutine(ctx context.Context, routineID uuid.UUID) ([]*document.Document, error) {
	query := `SELECT id, routine_id, company_id, uploaded_by, file_name, storage_path, size_bytes, created_at
               FROM documents WHERE routine_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, routineID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	documents := make([]*document.Document, 0)
	for rows.Next() {
		d := &document.Document{}
		if err := rows.Scan(&d.ID, &d.RoutineID, &d.CompanyID, &d.UploadedBy, &d.FileName, &d.StoragePath, &d.SizeBytes, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		documents = append(documents, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return documents, nil
}
