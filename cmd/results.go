package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/internal/iocache"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resultsBackendConfig reads and validates the results backend settings.
func resultsBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("results-backend")
	connStr := viper.GetString("results-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// resultsSetup loads minimal configuration needed for results operations.
func resultsSetup() error {
	backend, connStr, err := resultsBackendConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no response cache for results commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize results store: %w", err)
	}

	cfg.ResultsBackend = backend
	cfg.ResultsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// resultsSetupWrapper wraps resultsSetup to provide PreRunE for results commands.
func resultsSetupWrapper(_ *cobra.Command, _ []string) error {
	return resultsSetup()
}

// resultsMigrateSetup loads the results backend without opening the store, so
// migrations can run on a fresh database.
func resultsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := resultsBackendConfig()
	if err != nil {
		return err
	}
	cfg.ResultsBackend = backend
	cfg.ResultsDBConnect = connStr
	return nil
}

// resultsCmd focused on results store management.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage recorded analysis runs and exports",
	Long: `Manage the results store filled by "complexity analyze", "odds" and "usage"
when they run with --record.

The store keeps:
- Run metadata (kind, project, timestamps, parameters)
- Contingency tables and odds ratios per scope
- Complexity summaries per dataset and side

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show results store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded results
  migrate - Run database schema migrations

Examples:
  # Check store status
  utilstudy results status

  # Export for analysis in pandas/DuckDB
  utilstudy results export --output-file study`,
}

// resultsClearCmd clears the results store.
var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded analysis results",
	Long: `Delete all recorded runs, odds ratios and complexity summaries.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  utilstudy results export --output-file backup
  utilstudy results clear`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The open store holds the SQLite file
		iocache.CloseStores()
		if err := iocache.ClearResults(cfg.ResultsBackend, sqliteFile(cfg.ResultsDBConnect, contract.GetResultsDBFilePath()), cfg.ResultsDBConnect); err != nil {
			contract.LogFatal("Failed to clear results", err)
		}
		fmt.Println("Results cleared successfully.")
	},
}

// resultsStatusCmd shows results store status.
var resultsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display results store statistics and connection details",
	Long: `Show detailed information about the results store.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Last and oldest run timestamps
- Table sizes

Examples:
  utilstudy results status`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetResultsStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get results status", err)
		}
		iocache.PrintResultsStatus(os.Stdout, status)
	},
}

// resultsExportCmd exports the results store to Parquet files.
var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded results to Parquet for BI tools and analytics",
	Long: `Export all recorded results to Parquet files named after --output-file:

- <prefix>.runs.parquet
- <prefix>.odds_ratios.parquet
- <prefix>.complexity.parquet

Requires: --output-file parameter

Examples:
  utilstudy results export --output-file study
  duckdb -c "SELECT * FROM read_parquet('study.odds_ratios.parquet') LIMIT 10"`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportResults(os.Stdout, iocache.Manager.GetResultsStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export results", err)
		}
	},
}

// resultsMigrateCmd runs database migrations for the results store.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the results store.

Examples:
  # Migrate to the latest version
  utilstudy results migrate

  # Roll back to a specific version
  utilstudy results migrate --target-version 1

  # Roll back every migration
  utilstudy results migrate --target-version 0`,
	PreRunE: resultsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateResults(cfg.ResultsBackend, cfg.ResultsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Migrations completed successfully.")
	},
}
