// Package cmd defines the command-line interface for utilstudy.
package cmd

import (
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(complexityCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(prevalenceCmd)
	rootCmd.AddCommand(cweCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(recidivismCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(vhpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(resultsCmd)

	complexityCmd.AddCommand(complexityRunCmd)
	complexityCmd.AddCommand(complexityAnalyzeCmd)

	renameCmd.AddCommand(renameRecordsCmd)
	renameCmd.AddCommand(renameRenameCmd)
	renameCmd.AddCommand(renameBothCmd)

	recidivismCmd.AddCommand(recidivismReportCmd)
	recidivismCmd.AddCommand(recidivismGraphCmd)

	vhpCmd.AddCommand(vhpCollectCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the results subcommands to the parent results command
	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or table or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "VHP response cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("results-backend", string(schema.SQLiteBackend), "Results store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("results-db-connect", "", "Database connection string for the results store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command flags are bound to Viper by sharedSetup for the command that runs.
	commitsCmd.Flags().String("owner", "", "GitHub owner of the repository (omit to walk the local history)")
	commitsCmd.Flags().String("repo", "", "GitHub name of the repository")
	commitsCmd.Flags().String("out", "commits.csv", "Path of the commit CSV to write")
	commitsCmd.Flags().String("token-file", "", "File whose first line is the GitHub token")
	commitsCmd.Flags().String("github-token", "", "GitHub token (prefer UTILSTUDY_GITHUB_TOKEN)")
	commitsCmd.Flags().String("github-base-url", "", "GitHub Enterprise API base URL")

	complexityAnalyzeCmd.Flags().String("project", "", "Project name; chromium drops vendored libraries")
	complexityAnalyzeCmd.Flags().Bool("record", false, "Store the summaries in the results store")

	renameRecordsCmd.Flags().Bool("skip-vendor", false, "Drop paths recognized as vendored code")
	renameRenameCmd.Flags().String("strategy", string(schema.MapStrategy), "Rename strategy: follow or filtered or map")
	renameBothCmd.Flags().String("strategy", string(schema.FollowStrategy), "Rename strategy: follow or filtered or map")
	renameBothCmd.Flags().Bool("skip-vendor", false, "Drop paths recognized as vendored code")

	prevalenceCmd.Flags().String("extensions", "", "Extension list of the project (required)")
	prevalenceCmd.Flags().String("percentage-out", "", "Write the prevalence report here")
	prevalenceCmd.Flags().String("concentration-out", "", "Write the directory depth report here")
	prevalenceCmd.Flags().String("promotions-out", "", "Write the promotion report here")

	addVulnInputFlags(cweCmd)

	oddsCmd.Flags().String("offenders", "", "VHP offender_files.json (required)")
	oddsCmd.Flags().String("vhp-project", "", "Project name as spelled in VHP records (required)")
	oddsCmd.Flags().String("project", "", "Project name printed in the report (defaults to --vhp-project)")
	oddsCmd.Flags().Bool("record", false, "Store each contingency table in the results store")

	addVulnInputFlags(recidivismReportCmd)
	recidivismReportCmd.Flags().String("events", "", "Directory of <cve>.json event files (required)")
	recidivismReportCmd.Flags().String("out", "recidivism_data", "Directory for the series files")

	recidivismGraphCmd.Flags().String("out", "recidivism.html", "Path of the HTML chart")
	recidivismGraphCmd.Flags().String("scale", "30", "Window length shown in the chart title")

	usageCmd.Flags().Bool("skip-index", false, "Reuse an existing tags.json instead of running ctags")
	usageCmd.Flags().Bool("skip-vendor", false, "Drop functions declared in vendored files")
	usageCmd.Flags().String("out", contract.DefaultUsageReport, "Path of the usage report")
	usageCmd.Flags().Bool("record", false, "Record the run in the results store")

	vhpCollectCmd.Flags().String("out", contract.DefaultVHPOutDir, "Directory for the VHP records")
	vhpCollectCmd.Flags().String("base-url", contract.DefaultVHPBaseURL, "VHP API base URL")
	vhpCollectCmd.Flags().Int("workers", 1, "Concurrent event downloads")

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}

// addVulnInputFlags registers the VHP record inputs shared by cwe and recidivism report.
func addVulnInputFlags(c *cobra.Command) {
	c.Flags().String("vulns", "", "VHP vulnerabilities_list.json (required)")
	c.Flags().String("tags", "", "VHP tag_mapping.json (required)")
	c.Flags().String("offenders", "", "VHP offender_files.json (required)")
	c.Flags().String("renames", "rename_records", "Directory of <project>.csv rename records")
	c.Flags().String("projects", "", "Comma-separated rename records to read (default: the study projects)")
}
