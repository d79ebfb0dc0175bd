package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Override database file path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ReadCommand records a reading session for a document.
type ReadCommand struct {
	Path  string `long:"path" description:"Document path (required; also accepted as positional argument)"`
	Title string `long:"title" description:"Document title"`
	Spent string `long:"spent" description:"Time spent reading (e.g., 25m, 90s, 1h)" default:"0s"`
	Show  bool   `long:"show" description:"Print the document from the library root, rendered for the terminal"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows level, XP, streak, totals, and database health.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// HistoryCommand lists recent read events with filters.
type HistoryCommand struct {
	Since    string `long:"since" description:"Only reads newer than duration (e.g., 7d, 24h, 2w)" default:"30d"`
	Category string `long:"category" description:"Filter by category"`
	Match    string `long:"match" description:"Substring match against path and title"`
	Limit    int    `long:"limit" description:"Maximum results" default:"20"`
	Offset   int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
}

// StatsCommand shows weekly buckets, heatmap, and category breakdown.
type StatsCommand struct {
	Weeks int `long:"weeks" description:"Number of weekly buckets" default:"8"`
	Days  int `long:"days" description:"Number of heatmap days" default:"30"`

	globals *GlobalFlags
	version string
}

// TodoCommand manages the reading list.
type TodoCommand struct {
	Add    string `long:"add" description:"Add a document path to the reading list"`
	Title  string `long:"title" description:"Title for the added item"`
	Done   int64  `long:"done" description:"Mark the item with this ID as completed"`
	Remove int64  `long:"remove" description:"Remove the item with this ID"`
	All    bool   `long:"all" description:"Include completed items when listing"`

	globals *GlobalFlags
	version string
}

// AchievementsCommand lists locked and unlocked achievements.
type AchievementsCommand struct {
	Locked bool `long:"locked" description:"Show only locked achievements"`

	globals *GlobalFlags
	version string
}

// PrefsCommand gets or sets persisted reader preferences.
type PrefsCommand struct {
	Set string `long:"set" description:"Set a preference as key=value (keys: theme, font)"`
	Get string `long:"get" description:"Print the value of one preference key"`

	globals *GlobalFlags
	version string
}

// PruneCommand deletes read events older than a retention window.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Retention window override (e.g., 90d)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
}

// ResetCommand deletes ALL lectern data with safety confirmation.
type ResetCommand struct {
	All   bool `long:"all" description:"Required flag to confirm reset intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}

// ServeCommand starts the lectern daemon (local HTTP service).
type ServeCommand struct {
	Host string `long:"host" description:"Override daemon host"`
	Port int    `long:"port" description:"Override daemon port"`

	globals *GlobalFlags
	version string
}
