package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/florastat/internal/dataset"
)

// importsTable is the bookkeeping table and cannot be used as a data table.
const importsTable = "imports"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is a SQLite database of measurement tables.
type Store struct {
	db   *sql.DB
	path string
}

// Options configures how Open treats the database file.
type Options struct {
	// CreateIfNotExists creates the file and its directory if missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool

	// ReadOnly opens the database without write access.
	// It takes precedence over CreateIfNotExists.
	ReadOnly bool
}

// DefaultOptions returns the options used for writing: create on demand
// with WAL enabled.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns the options used for reading an existing database.
func ReadOnlyOptions() Options {
	return Options{ReadOnly: true}
}

// Open opens the SQLite database at path.
func Open(path string, opts Options) (*Store, error) {
	create := opts.CreateIfNotExists && !opts.ReadOnly

	if !create {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite takes the open mode from the DSN.
	var dsn string
	switch {
	case opts.ReadOnly:
		dsn = path + "?mode=ro"
	case create:
		dsn = path + "?mode=rwc"
	default:
		dsn = path + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}

	if opts.ReadOnly {
		return s, nil
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		name TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		checksum TEXT,
		rows INTEGER NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Import describes one imported table.
type Import struct {
	Name       string
	Source     string
	Checksum   string
	Rows       int
	ImportedAt time.Time
}

// ImportTable writes t as table name, replacing any previous table of that
// name. Rows keep their order. source and checksum are recorded in the
// imports table.
func (s *Store) ImportTable(ctx context.Context, name string, t *dataset.Table, source, checksum string) error {
	schema := t.Schema()
	if err := checkTable(name, schema); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	defs := make([]string, 0, len(schema.Measurements)+2)
	defs = append(defs, "row_id INTEGER PRIMARY KEY")
	for _, col := range schema.Measurements {
		defs = append(defs, quote(col)+" REAL NOT NULL")
	}
	defs = append(defs, quote(schema.Label)+" TEXT NOT NULL")

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	cols := quoteAll(schema.Columns())
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(name),
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	columns := make([][]float64, len(schema.Measurements))
	for i, col := range schema.Measurements {
		if columns[i], err = t.Values(col); err != nil {
			return err
		}
	}
	labels := t.Labels()

	args := make([]any, len(cols))
	for r := range labels {
		for i := range columns {
			args[i] = columns[i][r]
		}
		args[len(args)-1] = labels[r]
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", r+1, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO imports (name, source, checksum, rows)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		source = excluded.source,
		checksum = excluded.checksum,
		rows = excluded.rows,
		imported_at = CURRENT_TIMESTAMP
	`, name, source, checksum, len(labels))
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// ReadTable loads table name as a dataset.Table. Columns are selected by
// the names in schema, so extra columns in the database are ignored.
func (s *Store) ReadTable(ctx context.Context, name string, schema dataset.Schema) (*dataset.Table, error) {
	if err := checkTable(name, schema); err != nil {
		return nil, err
	}

	exists, err := s.HasTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	header := schema.Columns()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid",
		strings.Join(quoteAll(header), ", "), quote(name))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer rows.Close()

	records := [][]string{header}
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(header))
		for i, c := range cells {
			record[i] = c.String
			if i < len(schema.Measurements) {
				record[i] = normalizeNumber(c.String)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	t, err := dataset.LoadRecords(records, schema)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	return t, nil
}

// HasTable reports whether a table of that name exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to look up table: %w", err)
	}
	return count > 0, nil
}

// ListImports returns the recorded imports ordered by name.
func (s *Store) ListImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT name, source, checksum, rows, imported_at
	FROM imports
	ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		var checksum sql.NullString
		var timestamp string
		if err := rows.Scan(&imp.Name, &imp.Source, &checksum, &imp.Rows, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		imp.Checksum = checksum.String
		imp.ImportedAt = parseTimestamp(timestamp)
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

func checkTable(name string, schema dataset.Schema) error {
	if !identifier.MatchString(name) || strings.EqualFold(name, importsTable) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, name)
	}
	for _, col := range schema.Columns() {
		if !identifier.MatchString(col) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, col)
		}
	}
	return nil
}

func quote(name string) string {
	return `"` + name + `"`
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(n)
	}
	return out
}

// normalizeNumber rewrites numeric text in the shortest decimal form, so a
// REAL that the driver renders as "5e+00" reads back as "5".
func normalizeNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseTimestamp parses the formats SQLite uses for DATETIME columns.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
		time.RFC3339Nano,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
