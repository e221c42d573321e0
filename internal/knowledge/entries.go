package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helpdeskhq/waverly/internal/db"
)

// EntryStore manages persistence of knowledge entries in SQLite.
type EntryStore struct {
	db *db.DB
}

// NewEntryStore creates a new entry store.
func NewEntryStore(database *db.DB) *EntryStore {
	return &EntryStore{db: database}
}

// Create inserts a new entry. A missing ID is generated; a missing
// category defaults to manual_note.
func (s *EntryStore) Create(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Category == "" {
		e.Category = CategoryManualNote
	}
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_entries (id, title, content, category, source, tenant_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Content, e.Category, nullable(e.Source), e.TenantID, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting entry: %w", err)
	}
	return &e, nil
}

// GetByID retrieves an entry by its ID. Returns (nil, nil) when absent.
func (s *EntryStore) GetByID(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	var source sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, category, source, tenant_id, created_at
		 FROM knowledge_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Title, &e.Content, &e.Category, &source, &e.TenantID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}
	e.Source = source.String
	return &e, nil
}

// List returns all entries for a tenant, newest first. An empty tenantID
// lists every entry.
func (s *EntryStore) List(ctx context.Context, tenantID string) ([]Entry, error) {
	query := `SELECT id, title, content, category, source, tenant_id, created_at
	          FROM knowledge_entries`
	args := []any{}
	if tenantID != "" {
		query += ` WHERE tenant_id = ?`
		args = append(args, tenantID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var source sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.Category, &source, &e.TenantID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Source = source.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes an entry row. Returns true when a row was deleted.
func (s *EntryStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
