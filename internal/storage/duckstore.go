package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/models"
	"github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// DuckStore implements Store on top of DuckDB. With an empty path the
// database lives in memory and disappears with the process.
type DuckStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewDuckStore opens a DuckDB database at dbPath ("" for in-memory) and
// creates the records table.
func NewDuckStore(dbPath string, threads int) (*DuckStore, error) {
	if threads <= 0 {
		threads = 1
	}
	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			fmt.Sprintf("PRAGMA threads=%d", threads),
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	schema := []string{
		`CREATE SEQUENCE IF NOT EXISTS record_seq START 1`,
		`CREATE TABLE IF NOT EXISTS records (
			seq         BIGINT DEFAULT nextval('record_seq'),
			id          VARCHAR PRIMARY KEY,
			name        VARCHAR NOT NULL,
			kind        VARCHAR NOT NULL,
			size        BIGINT NOT NULL,
			mime_type   VARCHAR,
			extension   VARCHAR,
			created_at  TIMESTAMP NOT NULL,
			modified_at TIMESTAMP NOT NULL,
			path        VARCHAR NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	logging.Debug("duckdb record store ready", zap.String("path", dbPath), zap.Int("threads", threads))
	return &DuckStore{db: db, now: time.Now}, nil
}

const recordColumns = `id, name, kind, size, mime_type, extension, created_at, modified_at, path`

// List returns all records in insertion order.
func (s *DuckStore) List(ctx context.Context) ([]models.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []models.FileRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get retrieves a record by id.
func (s *DuckStore) Get(ctx context.Context, id string) (models.FileRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Append inserts all records in a single transaction.
func (s *DuckStore) Append(ctx context.Context, records ...models.FileRecord) error {
	if len(records) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := validate(r); err != nil {
			return err
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning append: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM records WHERE id = ?`, r.ID).Scan(&n); err != nil {
			return fmt.Errorf("checking id %s: %w", r.ID, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, string(r.Kind), r.Size, r.MimeType, r.Extension,
			r.CreatedAt.UTC(), r.ModifiedAt.UTC(), r.Path)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Remove deletes a record by id. Unknown ids are ignored.
func (s *DuckStore) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Rename updates a record and, for folders, every path below it.
func (s *DuckStore) Rename(ctx context.Context, id, name string) (models.FileRecord, error) {
	if !fileutil.ValidName(name) {
		return models.FileRecord{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("beginning rename: %w", err)
	}
	defer tx.Rollback()

	current, err := scanRecord(tx.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.FileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.FileRecord{}, err
	}

	updated, oldPath, newPath := renamed(current, name, s.now())
	_, err = tx.ExecContext(ctx,
		`UPDATE records SET name = ?, mime_type = ?, extension = ?, modified_at = ?, path = ? WHERE id = ?`,
		updated.Name, updated.MimeType, updated.Extension, updated.ModifiedAt.UTC(), updated.Path, id)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("renaming record %s: %w", id, err)
	}

	if updated.IsFolder() {
		// substr is 1-based: keep everything after the old folder path.
		_, err = tx.ExecContext(ctx,
			`UPDATE records SET path = CAST(? AS VARCHAR) || substr(path, CAST(? AS BIGINT)) WHERE starts_with(path, CAST(? AS VARCHAR))`,
			newPath, len(oldPath)+1, oldPath+"/")
		if err != nil {
			return models.FileRecord{}, fmt.Errorf("moving children of %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.FileRecord{}, err
	}
	return updated, nil
}

// Close closes the database.
func (s *DuckStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.FileRecord, error) {
	var (
		r         models.FileRecord
		kind      string
		mimeType  sql.NullString
		extension sql.NullString
	)
	err := row.Scan(&r.ID, &r.Name, &kind, &r.Size, &mimeType, &extension, &r.CreatedAt, &r.ModifiedAt, &r.Path)
	if err != nil {
		return models.FileRecord{}, err
	}
	r.Kind = models.Kind(kind)
	r.MimeType = mimeType.String
	r.Extension = extension.String
	return r, nil
}

var _ Store = (*DuckStore)(nil)
