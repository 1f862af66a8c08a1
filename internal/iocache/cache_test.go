package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore_NoneBackend(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err, "Failed to create none backend store")

	_, _, _, err = store.Get("test_key")
	assert.ErrorIs(t, err, sql.ErrNoRows, "Expected error from Get on none backend")

	assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789), "Set should not error on none backend")

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get after Set on none backend")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	assert.NoError(t, store.Close(), "Close should not error on none backend")
}

func TestCacheStore_InvalidTable(t *testing.T) {
	_, err := NewCacheStore("bad-table", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)
}

func TestCacheStore_UnsupportedBackend(t *testing.T) {
	_, err := NewCacheStore("test_table", schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "test_table", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid name starting with underscore", "_test_table", false},
		{"valid mixed case", "TestTable_123", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "test-table", true},
		{"contains space", "test table", true},
		{"sql injection attempt", "test'; DROP TABLE users; --", true},
		{"contains dot", "test.table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		want    string
	}{
		{"SQLite backend", schema.SQLiteBackend, `"test_table"`},
		{"MySQL backend", schema.MySQLBackend, "`test_table`"},
		{"PostgreSQL backend", schema.PostgreSQLBackend, `"test_table"`},
		{"None backend defaults to SQLite style", schema.NoneBackend, `"test_table"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("test_table", tt.backend))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(schema.SQLiteBackend, 1))
	assert.Equal(t, "?, ?, ?", placeholders(schema.MySQLBackend, 3))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)
	assert.Equal(t, "2024-01-02T03:04:05.0000006Z", formatTime(ts, schema.SQLiteBackend))
	assert.Equal(t, ts, formatTime(ts, schema.PostgreSQLBackend))
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		name         string
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{"SQLite backend", schema.SQLiteBackend, []string{"INSERT OR REPLACE INTO", `"test_table"`, "?, ?, ?, ?"}},
		{"MySQL backend", schema.MySQLBackend, []string{"INSERT INTO", "ON DUPLICATE KEY UPDATE", "body = new.body", "`test_table`"}},
		{"PostgreSQL backend", schema.PostgreSQLBackend, []string{"ON CONFLICT (request_url)", "fetched_at = EXCLUDED.fetched_at", "$1", "$4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &ResponseStore{backend: tt.backend, table: "test_table"}
			query := store.upsertQuery()
			for _, want := range tt.wantContains {
				assert.Contains(t, query, want)
			}
		})
	}
}

func TestSQLiteCacheOperations(t *testing.T) {
	t.Run("set and get operations", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err, "Failed to create SQLite store")
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set("https://vhp/api/cves", []byte(`[{"cve":"CVE-1"}]`), 1, 1234567890))

		value, version, timestamp, err := store.Get("https://vhp/api/cves")
		require.NoError(t, err)
		assert.Equal(t, `[{"cve":"CVE-1"}]`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1234567890), timestamp)
	})

	t.Run("upsert behavior", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set("key", []byte("initial_value"), 1, 1000))
		require.NoError(t, store.Set("key", []byte("updated_value"), 2, 2000))

		value, version, timestamp, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "updated_value", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), timestamp)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("non_existent_key")
		assert.Equal(t, sql.ErrNoRows, err, "Get non-existent key should return sql.ErrNoRows")
	})

	t.Run("status", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 0, status.TotalEntries)
		assert.True(t, status.LastEntryTime.IsZero())

		for i, key := range []string{"key1", "key2", "key3"} {
			require.NoError(t, store.Set(key, []byte("value"), 1, int64(1000+i)))
		}

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 3, status.TotalEntries)
		assert.Equal(t, time.Unix(1002, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
	})
}
