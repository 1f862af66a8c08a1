package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// Table names for results tracking.
const (
	runsTable       = "utilstudy_runs"
	oddsRatiosTable = "utilstudy_odds_ratios"
	complexityTable = "utilstudy_complexity"
)

// resultsTables lists every results table in creation order.
var resultsTables = []string{runsTable, oddsRatiosTable, complexityTable}

// ResultsStoreImpl implements the ResultsStore interface.
type ResultsStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ResultsStore = &ResultsStoreImpl{} // Compile-time check

// NewResultsStore creates a new ResultsStore with the specified backend.
func NewResultsStore(backend schema.DatabaseBackend, connStr string) (contract.ResultsStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &ResultsStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetResultsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createResultsTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create results tables: %w", err)
	}

	return &ResultsStoreImpl{db: db, backend: backend}, nil
}

// createResultsTables creates the results tracking tables.
func createResultsTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, table := range resultsTables {
		if _, err := db.Exec(getCreateResultsQuery(table, backend)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateResultsQuery returns the CREATE TABLE query for one results table.
func getCreateResultsQuery(table string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(table, backend)

	// Column types per backend: id, timestamp, text, key text, float, bool.
	var idCol, tsCol, keyCol, floatCol, boolCol string
	switch backend {
	case schema.MySQLBackend:
		idCol, tsCol, keyCol, floatCol, boolCol = "BIGINT AUTO_INCREMENT PRIMARY KEY", "DATETIME(6)", "VARCHAR(255)", "DOUBLE", "BOOLEAN"
	case schema.PostgreSQLBackend:
		idCol, tsCol, keyCol, floatCol, boolCol = "BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ", "TEXT", "DOUBLE PRECISION", "BOOLEAN"
	default: // SQLite
		idCol, tsCol, keyCol, floatCol, boolCol = "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT", "TEXT", "REAL", "INTEGER"
	}

	switch table {
	case runsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id %s,
				kind %s NOT NULL,
				project %s NOT NULL,
				start_time %s NOT NULL,
				end_time %s,
				run_duration_ms INT,
				total_records INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted, idCol, keyCol, keyCol, tsCol, tsCol)

	case oddsRatiosTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project %s NOT NULL,
				scope %s NOT NULL,
				tests_included %s NOT NULL,
				util_off INT NOT NULL,
				util_non_off INT NOT NULL,
				non_util_off INT NOT NULL,
				non_util_non_off INT NOT NULL,
				odds_ratio %s,
				PRIMARY KEY (run_id, project, scope, tests_included)
			);
		`, quoted, keyCol, keyCol, boolCol, floatCol)

	default: // complexityTable
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project %s NOT NULL,
				dataset %s NOT NULL,
				side %s NOT NULL,
				ratio_mean %s NOT NULL,
				ratio_std %s NOT NULL,
				lines_mean %s NOT NULL,
				lines_std %s NOT NULL,
				uloc_mean %s NOT NULL,
				uloc_std %s NOT NULL,
				snapshots INT NOT NULL,
				PRIMARY KEY (run_id, project, dataset, side)
			);
		`, quoted, keyCol, keyCol, keyCol, floatCol, floatCol, floatCol, floatCol, floatCol, floatCol)
	}
}

func (rs *ResultsStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *ResultsStoreImpl) BeginRun(kind schema.RunKind, project string, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	args := []any{string(kind), project, formatTime(startTime, rs.backend), string(configJSON)}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (kind, project, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (kind, project, start_time, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *ResultsStoreImpl) EndRun(runID int64, endTime time.Time, totalRecords int) error {
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(rs.backend, 1))

	start := timeScanner{backend: rs.backend}
	if err := rs.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	if startTime == nil {
		return fmt.Errorf("run %d has no start_time", runID)
	}

	durationMs := endTime.Sub(*startTime).Milliseconds()

	var updateQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_records = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_records = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalRecords, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordOddsRatio stores one contingency table of a run.
func (rs *ResultsStoreImpl) RecordOddsRatio(runID int64, project string, result schema.OddsRatioResult) error {
	if rs.disabled() {
		return nil
	}

	var ratio *float64
	if result.Defined {
		r := result.Ratio
		ratio = &r
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, project, scope, tests_included, util_off, util_non_off,
		                non_util_off, non_util_non_off, odds_ratio)
		VALUES (%s)
	`, quoteTableName(oddsRatiosTable, rs.backend), placeholders(rs.backend, 9))

	t := result.Table
	_, err := rs.db.Exec(query, runID, project, result.Scope, result.TestsIncluded,
		t.UtilOff, t.UtilNonOff, t.NonUtilOff, t.NonUtilNonOff, ratio)
	if err != nil {
		return fmt.Errorf("failed to insert odds ratio: %w", err)
	}
	return nil
}

// RecordComplexity stores one side of a complexity summary.
func (rs *ResultsStoreImpl) RecordComplexity(runID int64, project string, dataset string, side string, summary schema.SideSummary) error {
	if rs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, project, dataset, side, ratio_mean, ratio_std,
		                lines_mean, lines_std, uloc_mean, uloc_std, snapshots)
		VALUES (%s)
	`, quoteTableName(complexityTable, rs.backend), placeholders(rs.backend, 11))

	_, err := rs.db.Exec(query, runID, project, dataset, side,
		summary.RatioMean, summary.RatioStdDev, summary.LinesMean, summary.LinesStdDev,
		summary.UlocMean, summary.UlocStdDev, summary.Snapshots)
	if err != nil {
		return fmt.Errorf("failed to insert complexity summary: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ResultsStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the results store.
func (rs *ResultsStoreImpl) GetStatus() (schema.ResultsStatus, error) {
	status := schema.ResultsStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: rs.backend}
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastTime, err := last.value()
		if err != nil {
			return status, err
		}
		if lastTime != nil {
			status.LastRunTime = *lastTime
		}

		oldest := timeScanner{backend: rs.backend}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(oldestQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestTime, err := oldest.value()
		if err != nil {
			return status, err
		}
		if oldestTime != nil {
			status.OldestRunTime = *oldestTime
		}
	}

	for _, table := range resultsTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *ResultsStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, kind, project, start_time, end_time, run_duration_ms, total_records, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		start := timeScanner{backend: rs.backend}
		end := timeScanner{backend: rs.backend}
		if err := rows.Scan(&record.RunID, &record.Kind, &record.Project, start.dest(), end.dest(),
			&record.RunDurationMs, &record.TotalRecords, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllOddsRatios retrieves all odds ratio rows from the store.
func (rs *ResultsStoreImpl) GetAllOddsRatios() ([]schema.OddsRatioRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, project, scope, tests_included, util_off, util_non_off,
		non_util_off, non_util_non_off, odds_ratio
		FROM %s ORDER BY run_id, project, scope, tests_included DESC`, quoteTableName(oddsRatiosTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds ratios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.OddsRatioRecord
	for rows.Next() {
		var record schema.OddsRatioRecord
		if err := rows.Scan(&record.RunID, &record.Project, &record.Scope, &record.TestsIncluded,
			&record.UtilOff, &record.UtilNonOff, &record.NonUtilOff, &record.NonUtilNonOff,
			&record.OddsRatio); err != nil {
			return nil, fmt.Errorf("failed to scan odds ratio: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds ratios: %w", err)
	}
	return results, nil
}

// GetAllComplexity retrieves all complexity rows from the store.
func (rs *ResultsStoreImpl) GetAllComplexity() ([]schema.ComplexityRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, project, dataset, side, ratio_mean, ratio_std,
		lines_mean, lines_std, uloc_mean, uloc_std, snapshots
		FROM %s ORDER BY run_id, project, dataset, side`, quoteTableName(complexityTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query complexity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ComplexityRecord
	for rows.Next() {
		var record schema.ComplexityRecord
		if err := rows.Scan(&record.RunID, &record.Project, &record.Dataset, &record.Side,
			&record.RatioMean, &record.RatioStdDev, &record.LinesMean, &record.LinesStdDev,
			&record.UlocMean, &record.UlocStdDev, &record.Snapshots); err != nil {
			return nil, fmt.Errorf("failed to scan complexity: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complexity: %w", err)
	}
	return results, nil
}
