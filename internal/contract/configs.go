package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/utilstudy/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 4
	MaxPrecision       = 6
	DefaultVHPBaseURL  = "https://vulnerabilityhistory.org/api"
	DefaultVHPOutDir   = "vhp_records"
	DefaultUsageReport = "usage_report.txt"
)

// Config holds the runtime configuration for a stage.
// This struct remains the "final, validated" config.
type Config struct {
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	// GitHub access for commit selection
	GitHubToken   string // Please use env var or token file as this is plaintext
	GitHubBaseURL string
	Owner         string
	Repo          string

	Strategy   schema.RenameStrategy
	SkipVendor bool

	Project    string
	VHPProject string
	VHPBaseURL string
	VHPWorkers int
	Record     bool
	SkipIndex  bool

	ExtensionsFile string
	OffendersFile  string
	VulnsFile      string
	TagsFile       string
	EventsDir      string
	RenamesDir     string
	RenameProjects []string
	OutPath        string

	PercentageOut    string
	ConcentrationOut string
	PromotionsOut    string
	Scale            string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	ResultsBackend   schema.DatabaseBackend
	ResultsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	ResultsBackend   string `mapstructure:"results-backend"`
	ResultsDBConnect string `mapstructure:"results-db-connect"`

	// --- Fields from commitsCmd.Flags() ---
	GitHubToken   string `mapstructure:"github-token"`
	GitHubBaseURL string `mapstructure:"github-base-url"`
	TokenFile     string `mapstructure:"token-file"`
	Owner         string `mapstructure:"owner"`
	Repo          string `mapstructure:"repo"`

	// --- Fields from renameCmd.PersistentFlags() ---
	Strategy   string `mapstructure:"strategy"`
	SkipVendor bool   `mapstructure:"skip-vendor"`

	// --- Fields shared by the analysis commands ---
	Project    string `mapstructure:"project"`
	VHPProject string `mapstructure:"vhp-project"`
	VHPBaseURL string `mapstructure:"base-url"`
	VHPWorkers int    `mapstructure:"workers"`
	Record     bool   `mapstructure:"record"`
	SkipIndex  bool   `mapstructure:"skip-index"`
	Extensions string `mapstructure:"extensions"`
	Offenders  string `mapstructure:"offenders"`
	Vulns      string `mapstructure:"vulns"`
	Tags       string `mapstructure:"tags"`
	Events     string `mapstructure:"events"`
	Renames    string `mapstructure:"renames"`
	Projects   string `mapstructure:"projects"`
	Out        string `mapstructure:"out"`

	// --- Fields from prevalenceCmd and recidivismGraphCmd ---
	PercentageOut    string `mapstructure:"percentage-out"`
	ConcentrationOut string `mapstructure:"concentration-out"`
	PromotionsOut    string `mapstructure:"promotions-out"`
	Scale            string `mapstructure:"scale"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.RenameProjects != nil {
		clone.RenameProjects = make([]string, len(c.RenameProjects))
		copy(clone.RenameProjects, c.RenameProjects)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processGitHubAccess(cfg, input); err != nil {
		return err
	}
	processVulnInputs(cfg, input)
	return nil
}

// validateSimpleInputs processes and validates the output and rename fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.SkipVendor = input.SkipVendor
	cfg.Record = input.Record
	cfg.SkipIndex = input.SkipIndex
	cfg.Project = input.Project
	cfg.VHPProject = input.VHPProject
	cfg.OutPath = input.Out

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, table, csv, json", input.Output)
	}

	cfg.Strategy = schema.RenameStrategy(strings.ToLower(input.Strategy))
	if cfg.Strategy != "" {
		if _, ok := schema.ValidRenameStrategies[cfg.Strategy]; !ok {
			return fmt.Errorf("invalid strategy '%s'. must be follow, filtered, map", input.Strategy)
		}
	}

	cfg.VHPBaseURL = strings.TrimRight(input.VHPBaseURL, "/")
	if cfg.VHPBaseURL == "" {
		cfg.VHPBaseURL = DefaultVHPBaseURL
	}

	cfg.VHPWorkers = input.VHPWorkers
	if cfg.VHPWorkers == 0 {
		cfg.VHPWorkers = 1
	}
	if cfg.VHPWorkers < 0 {
		return fmt.Errorf("workers must be at least 1, got %d", input.VHPWorkers)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' followed by host:port")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and results backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	cfg.ResultsBackend = schema.DatabaseBackend(strings.ToLower(input.ResultsBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ResultsBackend]; !ok {
		return fmt.Errorf("invalid results backend '%s'. must be sqlite, mysql, postgresql, none", input.ResultsBackend)
	}
	cfg.ResultsDBConnect = input.ResultsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ResultsBackend, cfg.ResultsDBConnect); err != nil {
		return fmt.Errorf("results: %w", err)
	}

	// Both stores create their own tables, so one SQLite file cannot hold both
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.ResultsBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		resultsPath := cfg.ResultsDBConnect
		if resultsPath == "" {
			resultsPath = GetResultsDBFilePath()
		}
		if cachePath == resultsPath {
			return fmt.Errorf("cache and results storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// processGitHubAccess resolves the GitHub token from the flag, env, or token file.
func processGitHubAccess(cfg *Config, input *ConfigRawInput) error {
	cfg.Owner = strings.TrimSpace(input.Owner)
	cfg.Repo = strings.TrimSpace(input.Repo)
	cfg.GitHubBaseURL = strings.TrimSpace(input.GitHubBaseURL)
	cfg.GitHubToken = strings.TrimSpace(input.GitHubToken)
	if cfg.GitHubToken != "" || input.TokenFile == "" {
		return nil
	}
	token, err := ReadFirstLine(input.TokenFile)
	if err != nil {
		return fmt.Errorf("cannot read token file: %w", err)
	}
	cfg.GitHubToken = token
	return nil
}

// processVulnInputs transfers the file locations used by the vulnerability stages.
func processVulnInputs(cfg *Config, input *ConfigRawInput) {
	cfg.ExtensionsFile = input.Extensions
	cfg.OffendersFile = input.Offenders
	cfg.VulnsFile = input.Vulns
	cfg.TagsFile = input.Tags
	cfg.EventsDir = input.Events
	cfg.RenamesDir = input.Renames
	cfg.PercentageOut = input.PercentageOut
	cfg.ConcentrationOut = input.ConcentrationOut
	cfg.PromotionsOut = input.PromotionsOut
	cfg.Scale = input.Scale

	cfg.RenameProjects = nil
	for p := range strings.SplitSeq(input.Projects, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.RenameProjects = append(cfg.RenameProjects, p)
		}
	}
	if len(cfg.RenameProjects) == 0 {
		cfg.RenameProjects = append([]string(nil), schema.DefaultRenameProjects...)
	}
}

// GetCacheDBFilePath returns the path to the SQLite DB file for response caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".utilstudy_cache.db"
	}
	return filepath.Join(homeDir, ".utilstudy_cache.db")
}

// GetResultsDBFilePath returns the path to the SQLite DB file for results storage.
func GetResultsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".utilstudy_results.db"
	}
	return filepath.Join(homeDir, ".utilstudy_results.db")
}
