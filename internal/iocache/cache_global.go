package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// responseTable is the name of the table for cached API responses.
const responseTable = "vhp_response_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for response caching.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetResultsDBFilePath returns the path to the SQLite DB file for results storage.
func GetResultsDBFilePath() string {
	return contract.GetResultsDBFilePath()
}

// InitStores initializes the global manager with separate response and results stores.
// An empty backend leaves the matching store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, resultsBackend schema.DatabaseBackend, resultsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var responseStore contract.CacheStore
		if cacheBackend != "" {
			responseStore, err = NewCacheStore(responseTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize response caching: %w", err)
				return
			}
		}

		var resultsStore contract.ResultsStore
		if resultsBackend != "" {
			resultsStore, err = NewResultsStore(resultsBackend, resultsConnStr)
			if err != nil {
				if responseStore != nil {
					_ = responseStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize results store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.responses = responseStore
		Manager.results = resultsStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.responses != nil {
			_ = Manager.responses.Close()
		}
		if Manager.results != nil {
			_ = Manager.results.Close()
		}
	})
}

// ClearCache clears the response cache for the specified backend.
// SQLite deletes the database file, MySQL and PostgreSQL drop the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, []string{responseTable})
}

// ClearResults clears the results tables for the specified backend.
func ClearResults(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, resultsTables)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables []string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr, "")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range tables {
			if err := dropTable(db, backend, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTable drops the table if it exists.
func dropTable(db *sql.DB, backend schema.DatabaseBackend, tableName string) error {
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
