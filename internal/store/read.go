package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

// ReadModel returns the stored schema version name and every record
// document in insertion order. An empty database yields "" and no
// documents.
func (s *Store) ReadModel(ctx context.Context) (string, []record.Doc, error) {
	var schemaName string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, metaSchemaKey).Scan(&schemaName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", nil, fmt.Errorf("read model: schema: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, attrs
		FROM records
		ORDER BY rowid ASC
	`)
	if err != nil {
		return "", nil, fmt.Errorf("read model: query records: %w", err)
	}
	defer rows.Close()

	var docs []record.Doc
	for rows.Next() {
		var doc record.Doc
		var attrs string
		if err := rows.Scan(&doc.ID, &doc.Type, &attrs); err != nil {
			return "", nil, fmt.Errorf("read model: scan record: %w", err)
		}
		if attrs != "{}" {
			if err := json.Unmarshal([]byte(attrs), &doc.Attrs); err != nil {
				return "", nil, fmt.Errorf("read model: record %q: %w", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("read model: iterate records: %w", err)
	}

	return schemaName, docs, nil
}

// Graph rebuilds the resolved record graph from the stored model.
func (s *Store) Graph(ctx context.Context) (*schema.Registry, *record.Graph, error) {
	schemaName, docs, err := s.ReadModel(ctx)
	if err != nil {
		return nil, nil, err
	}
	if schemaName == "" {
		return nil, nil, fmt.Errorf("read model: store holds no model")
	}

	reg, err := schema.Load(schemaName)
	if err != nil {
		return nil, nil, err
	}
	graph, err := record.BuildGraph(reg, docs)
	if err != nil {
		return nil, nil, err
	}
	return reg, graph, nil
}
