package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tidwall/gjson"

	"lorehub/internal/filter"
	"lorehub/pkg/models"
)

// SQLiteSource serves records previously imported with Replace.
type SQLiteSource struct {
	DB *sql.DB
}

func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{DB: db}
}

func (s *SQLiteSource) Name() string { return "sqlite" }

func (s *SQLiteSource) Check(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Load returns the stored bodies in import order: by the file's seq, then
// by position within the file.
func (s *SQLiteSource) Load(ctx context.Context, kind models.Kind) ([]filter.Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT body
		FROM records
		WHERE kind = ?
		ORDER BY seq ASC, source ASC, position ASC
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("load query: %w", err)
	}
	defer rows.Close()

	out := []filter.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("load scan: %w", err)
		}
		out = append(out, filter.Record(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Replace stores recs as the full content of (kind, source): existing
// positions are overwritten and positions past the end are removed. seq
// orders this source among the others of the same kind.
func (s *SQLiteSource) Replace(ctx context.Context, kind models.Kind, source string, seq int, recs []filter.Record) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (kind, source, seq, position, name, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, source, position) DO UPDATE SET
		  seq = excluded.seq,
		  name = excluded.name,
		  body = excluded.body,
		  updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		name := gjson.GetBytes(rec, "name")
		var nameArg any
		if name.Type == gjson.String {
			nameArg = name.Str
		}
		if _, err = stmt.ExecContext(ctx, string(kind), source, seq, i, nameArg, string(rec)); err != nil {
			return fmt.Errorf("upsert %s %s[%d]: %w", kind, source, i, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM records
		WHERE kind = ? AND source = ? AND position >= ?
	`, string(kind), source, len(recs)); err != nil {
		return fmt.Errorf("trim %s %s: %w", kind, source, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Stored lists row metadata for kind, without bodies.
func (s *SQLiteSource) Stored(ctx context.Context, kind models.Kind) ([]models.StoredRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT kind, source, position, name
		FROM records
		WHERE kind = ?
		ORDER BY seq ASC, source ASC, position ASC
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("stored query: %w", err)
	}
	defer rows.Close()

	var out []models.StoredRecord
	for rows.Next() {
		var (
			r    models.StoredRecord
			k    string
			name sql.NullString
		)
		if err := rows.Scan(&k, &r.Source, &r.Position, &name); err != nil {
			return nil, fmt.Errorf("stored scan: %w", err)
		}
		r.Kind = models.Kind(k)
		r.Name = name.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Imported reports how many records one file contributed.
type Imported struct {
	Kind    models.Kind
	Source  string
	Records int
}

// ImportFiles replaces the stored content of each named file under dir.
// Files are stored in the given order, so Load merges them the way the
// file source does. Unlike Catalog.Records, a file that cannot be decoded
// stops the import.
func (s *SQLiteSource) ImportFiles(ctx context.Context, dir string, kind models.Kind, files []string) ([]Imported, error) {
	var out []Imported
	for i, src := range FileSources(dir, kind, files) {
		recs, err := src.Load(ctx, kind)
		if err != nil {
			return out, err
		}
		if err := s.Replace(ctx, kind, src.Name(), i, recs); err != nil {
			return out, err
		}
		out = append(out, Imported{Kind: kind, Source: src.Name(), Records: len(recs)})
	}
	return out, nil
}
