package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/pantry/internal/repository"
)

// DefaultDocumentName names the row used when none is configured.
const DefaultDocumentName = "default"

// DocumentRepository implements repository.DocumentRepository for SQLite.
// Each repository reads and writes a single named row.
type DocumentRepository struct {
	db   *DB
	name string
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB, name string) *DocumentRepository {
	if name == "" {
		name = DefaultDocumentName
	}
	return &DocumentRepository{db: db, name: name}
}

// Read returns the stored snapshot, or repository.ErrNotFound if none exists
func (r *DocumentRepository) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, r.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return body, nil
}

// Write replaces the stored snapshot in a single statement
func (r *DocumentRepository) Write(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, r.name, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
