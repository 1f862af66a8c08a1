package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// ResponseStore keeps raw VHP response bodies keyed by request URL.
// The none backend turns every call into a miss.
type ResponseStore struct {
	db      *sql.DB
	table   string
	backend schema.DatabaseBackend
}

var _ contract.CacheStore = &ResponseStore{} // Compile-time check

// responseColumns maps each backend to the column types of the response table,
// in the order url, body, format version, fetch time.
var responseColumns = map[schema.DatabaseBackend][4]string{
	schema.MySQLBackend:      {"VARCHAR(512)", "LONGBLOB", "INT", "BIGINT"},
	schema.PostgreSQLBackend: {"TEXT", "BYTEA", "INTEGER", "BIGINT"},
	schema.SQLiteBackend:     {"TEXT", "BLOB", "INTEGER", "INTEGER"},
}

// NewCacheStore opens the response table for backend, creating it when missing.
func NewCacheStore(table string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &ResponseStore{table: table, backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize response cache: %w", err)
	}
	if _, err := db.Exec(responseTableDDL(table, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return &ResponseStore{db: db, table: table, backend: backend}, nil
}

func responseTableDDL(table string, backend schema.DatabaseBackend) string {
	cols, ok := responseColumns[backend]
	if !ok {
		cols = responseColumns[schema.SQLiteBackend]
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		request_url %s PRIMARY KEY,
		body %s NOT NULL,
		format_version %s NOT NULL,
		fetched_at %s NOT NULL
	)`, quoteTableName(table, backend), cols[0], cols[1], cols[2], cols[3])
}

func (s *ResponseStore) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// Get returns the cached body for url with its format version and fetch time.
// A miss is reported as sql.ErrNoRows.
func (s *ResponseStore) Get(url string) ([]byte, int, int64, error) {
	if s.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}

	var (
		body      []byte
		version   int
		fetchedAt int64
	)
	query := fmt.Sprintf(`SELECT body, format_version, fetched_at FROM %s WHERE request_url = %s`,
		quoteTableName(s.table, s.backend), placeholders(s.backend, 1))
	if err := s.db.QueryRow(query, url).Scan(&body, &version, &fetchedAt); err != nil {
		return nil, 0, 0, err
	}
	return body, version, fetchedAt, nil
}

// Set stores body for url, replacing any earlier response.
func (s *ResponseStore) Set(url string, body []byte, version int, fetchedAt int64) error {
	if s.disabled() {
		return nil
	}
	_, err := s.db.Exec(s.upsertQuery(), url, body, version, fetchedAt)
	return err
}

func (s *ResponseStore) upsertQuery() string {
	insert := fmt.Sprintf("INTO %s (request_url, body, format_version, fetched_at) VALUES (%s)",
		quoteTableName(s.table, s.backend), placeholders(s.backend, 4))
	updated := []string{"body", "format_version", "fetched_at"}

	switch s.backend {
	case schema.MySQLBackend:
		sets := make([]string, len(updated))
		for i, c := range updated {
			sets[i] = fmt.Sprintf("%s = new.%s", c, c)
		}
		return "INSERT " + insert + " AS new ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	case schema.PostgreSQLBackend:
		sets := make([]string, len(updated))
		for i, c := range updated {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
		}
		return "INSERT " + insert + " ON CONFLICT (request_url) DO UPDATE SET " + strings.Join(sets, ", ")
	default:
		return "INSERT OR REPLACE " + insert
	}
}

// Close closes the underlying DB connection.
func (s *ResponseStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus reports how many responses are cached and when they were fetched.
func (s *ResponseStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(s.backend), Connected: s.db != nil}
	if s.disabled() {
		return status, nil
	}

	table := quoteTableName(s.table, s.backend)
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to count cached responses: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var newest, oldest int64
	if err := s.db.QueryRow("SELECT MAX(fetched_at), MIN(fetched_at) FROM " + table).Scan(&newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to read fetch times: %w", err)
	}
	status.LastEntryTime = time.Unix(newest, 0)
	status.OldestEntryTime = time.Unix(oldest, 0)
	return status, nil
}
