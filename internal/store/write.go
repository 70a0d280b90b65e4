package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/ifcread/internal/record"
)

const metaSchemaKey = "schema"

// SchemaMismatchError is returned when a write names a different schema
// version than the one the database already holds.
type SchemaMismatchError struct {
	Stored, Given string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("store holds schema %s, cannot write %s records", e.Stored, e.Given)
}

// IsSchemaMismatch returns true if the error is a schema version conflict.
// Uses errors.As to handle wrapped errors.
func IsSchemaMismatch(err error) bool {
	var se *SchemaMismatchError
	return errors.As(err, &se)
}

// WriteModel inserts record documents under the named schema version.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting the same
// documents is a no-op. A database may hold records of exactly one schema
// version; writing under a different one fails without touching rows.
func (s *Store) WriteModel(ctx context.Context, schemaName string, docs []record.Doc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write model: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var stored string
	err = tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaSchemaKey).Scan(&stored)
	switch {
	case err == nil:
		if stored != schemaName {
			return &SchemaMismatchError{Stored: stored, Given: schemaName}
		}
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)`, metaSchemaKey, schemaName); err != nil {
			return fmt.Errorf("write model: set schema: %w", err)
		}
	default:
		return fmt.Errorf("write model: read schema: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, type, attrs)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write model: prepare: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		attrs, err := marshalAttrs(doc.Attrs)
		if err != nil {
			return fmt.Errorf("write model: record %q: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Type, attrs); err != nil {
			return fmt.Errorf("write model: record %q: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write model: commit: %w", err)
	}
	return nil
}

// marshalAttrs serializes an attribute map to JSON text. Nil maps store as
// the empty object so reads never see NULL.
func marshalAttrs(attrs map[string]any) (string, error) {
	if len(attrs) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("marshal attrs: %w", err)
	}
	return string(data), nil
}
