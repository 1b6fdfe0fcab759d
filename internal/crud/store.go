// Package crud provides a generic tenant-scoped record store for the
// OpenAI-compatible objects (assistants, threads, messages, runs, file
// objects). Records are stored as JSONB documents with the owning tenant
// mirrored into a user_id column; every query filters on that column, so
// tenant isolation is enforced here rather than in the object types.
package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound indicates no record matched the id for the tenant.
var ErrNotFound = errors.New("record not found")

// Table names served by this package. Identifiers are interpolated into
// SQL, so only names from this fixed set are accepted.
const (
	TableAssistants  = "assistants"
	TableThreads     = "threads"
	TableMessages    = "messages"
	TableRuns        = "runs"
	TableFileObjects = "file_objects"
)

var validTables = map[string]bool{
	TableAssistants:  true,
	TableThreads:     true,
	TableMessages:    true,
	TableRuns:        true,
	TableFileObjects: true,
}

// DB is the subset of pgx behavior the store needs; *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store persists records of type T in a single table.
// Safe for concurrent use.
type Store[T any] struct {
	db    DB
	table string
}

// NewStore creates a store for the given table. The table must be one of
// the Table* constants.
func NewStore[T any](db DB, table string) (*Store[T], error) {
	if !validTables[table] {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	return &Store[T]{db: db, table: table}, nil
}

// Create inserts a record under the given id and tenant. The caller is
// responsible for populating the record's own id and created_at fields
// before calling.
func (s *Store[T]) Create(ctx context.Context, tenantID uuid.UUID, id string, record T) (T, error) {
	var zero T

	data, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("marshaling %s record: %w", s.table, err)
	}

	query := fmt.Sprintf("INSERT INTO %s (id, user_id, data) VALUES ($1, $2, $3)", s.table)
	if _, err := s.db.Exec(ctx, query, id, tenantID, data); err != nil {
		return zero, fmt.Errorf("creating %s record %q: %w", s.table, id, err)
	}

	return record, nil
}

// Get returns the tenant's record by id, or ErrNotFound.
func (s *Store[T]) Get(ctx context.Context, tenantID uuid.UUID, id string) (T, error) {
	var zero T

	query := fmt.Sprintf("SELECT data FROM %s WHERE id = $1 AND user_id = $2", s.table)
	var data []byte
	err := s.db.QueryRow(ctx, query, id, tenantID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, s.table, id)
	}
	if err != nil {
		return zero, fmt.Errorf("getting %s record %q: %w", s.table, id, err)
	}

	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return zero, fmt.Errorf("unmarshaling %s record %q: %w", s.table, id, err)
	}
	return record, nil
}

// List returns all of the tenant's records, oldest first.
func (s *Store[T]) List(ctx context.Context, tenantID uuid.UUID) ([]T, error) {
	query := fmt.Sprintf("SELECT data FROM %s WHERE user_id = $1 ORDER BY created_at ASC", s.table)
	return s.queryRecords(ctx, query, tenantID)
}

// ListByField returns the tenant's records whose JSON field equals value,
// oldest first. field is interpolated and must be a trusted literal.
func (s *Store[T]) ListByField(ctx context.Context, tenantID uuid.UUID, field, value string) ([]T, error) {
	query := fmt.Sprintf("SELECT data FROM %s WHERE user_id = $1 AND data ->> '%s' = $2 ORDER BY created_at ASC", s.table, field)
	return s.queryRecords(ctx, query, tenantID, value)
}

// Update replaces the tenant's record by id, or returns ErrNotFound.
func (s *Store[T]) Update(ctx context.Context, tenantID uuid.UUID, id string, record T) (T, error) {
	var zero T

	data, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("marshaling %s record: %w", s.table, err)
	}

	query := fmt.Sprintf("UPDATE %s SET data = $3 WHERE id = $1 AND user_id = $2", s.table)
	tag, err := s.db.Exec(ctx, query, id, tenantID, data)
	if err != nil {
		return zero, fmt.Errorf("updating %s record %q: %w", s.table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, s.table, id)
	}

	return record, nil
}

// Delete removes the tenant's record by id. Returns whether a row was removed.
func (s *Store[T]) Delete(ctx context.Context, tenantID uuid.UUID, id string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", s.table)
	tag, err := s.db.Exec(ctx, query, id, tenantID)
	if err != nil {
		return false, fmt.Errorf("deleting %s record %q: %w", s.table, id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store[T]) queryRecords(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s records: %w", s.table, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", s.table, err)
		}
		var record T
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("unmarshaling %s record: %w", s.table, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s records: %w", s.table, err)
	}

	return records, nil
}
