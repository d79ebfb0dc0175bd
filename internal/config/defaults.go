package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/lectern",
			SQLiteFile:        "lectern.db",
			SQLiteJournalMode: "wal",
		},
		Library: LibraryConfig{
			Root:       "~/docs",
			Extensions: []string{".md", ".markdown", ".txt"},
		},
		Retention: RetentionConfig{
			Days: 0, // keep everything
		},
		Goals: GoalsConfig{
			DailyMinutes: 15,
		},
		Daemon: DaemonConfig{
			Host: "127.0.0.1",
			Port: 7719,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Reader: ReaderConfig{
			Theme:      "auto",
			FontFamily: "monospace",
			WordWrap:   100,
		},
	}
}
