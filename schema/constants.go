package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and results.
	DatabaseBackend string

	// RenameStrategy selects how alias chains are reconstructed from git history.
	RenameStrategy string

	// UtilStatus partitions CVEs for recidivism reports.
	UtilStatus string

	// RunKind labels a row in the results store.
	RunKind string
)

// All output modes supported.
const (
	CSVOut   OutputMode = "csv"
	TextOut  OutputMode = "text" // default, labelled report lines
	TableOut OutputMode = "table"
	JSONOut  OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Rename tracking strategies.
const (
	FollowStrategy   RenameStrategy = "follow"   // per-file git log --follow
	FilteredStrategy RenameStrategy = "filtered" // follow, only for files seen in a rename
	MapStrategy      RenameStrategy = "map"      // single rename log, walk parent map
)

// Recidivism partitions. The string values appear in report file names.
const (
	UtilOnly UtilStatus = "True"
	NonOnly  UtilStatus = "False"
	AllCVEs  UtilStatus = "ALL"
)

// Kinds of analysis runs recorded in the results store.
const (
	ComplexityRun RunKind = "complexity"
	OddsRun       RunKind = "odds"
	UsageRun      RunKind = "usage"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:   {},
	TextOut:  {},
	TableOut: {},
	JSONOut:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidRenameStrategies lists all valid rename strategies.
var ValidRenameStrategies = map[RenameStrategy]struct{}{
	FollowStrategy:   {},
	FilteredStrategy: {},
	MapStrategy:      {},
}

// AllUtilStatuses is the order in which recidivism partitions are generated.
var AllUtilStatuses = []UtilStatus{UtilOnly, NonOnly, AllCVEs}

// DefaultRenameProjects are the rename CSVs read to build the util map for CVE analysis.
var DefaultRenameProjects = []string{
	"chromium", "django", "FFmpeg", "httpd", "linux", "struts", "systemd", "tomcat",
}
