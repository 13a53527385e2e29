// Package source provides access to the tabular reference data behind the
// resolvers: the asset inventory (hostname → support group) and the contact
// roster (support group → contacts). Sources return raw rows, header
// included; match semantics belong to the resolvers so first-match-wins
// stays identical to a top-to-bottom scan regardless of backing store.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Source yields the full table, header row first.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// CSVSource reads a comma-separated reference file from disk on every query.
// The files are small and externally maintained, so re-reading keeps edits
// visible without a reload step; the resolvers' TTL cache bounds how often
// a read actually happens.
type CSVSource struct {
	Path string
}

// Rows reads and parses the whole file. Records may have ragged lengths;
// column-count validation is the resolver's concern.
func (s *CSVSource) Rows(ctx context.Context) ([][]string, error) {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("source path is required")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open reference source: %w", err)
	}
	defer file.Close() // nolint:errcheck // best-effort cleanup on read-only file

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse reference source: %w", err)
	}

	return rows, nil
}

// Static is an in-memory Source used by tests and fixtures.
type Static struct {
	Table [][]string
	Err   error
}

// Rows returns the fixed table or the configured error.
func (s *Static) Rows(context.Context) ([][]string, error) {
	if s == nil {
		return nil, errors.New("source is not configured")
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Table, nil
}
