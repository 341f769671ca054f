package config

// Config is the complete lectern configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	Session  SessionConfig  `mapstructure:"session" toml:"session" json:"session"`
	Search   SearchConfig   `mapstructure:"search" toml:"search" json:"search"`
	Bus      BusConfig      `mapstructure:"bus" toml:"bus" json:"bus"`
	Windows  WindowsConfig  `mapstructure:"windows" toml:"windows" json:"windows"`
	Viewer   ViewerConfig   `mapstructure:"viewer" toml:"viewer" json:"viewer"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output. The viewer owns the terminal, so windows log to a file.
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir,omitempty"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=0"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
}

// DatabaseConfig holds the session database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path,omitempty"`
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	// SaveDebounceMs is the quiet period after the last change before a save.
	SaveDebounceMs int `mapstructure:"save_debounce_ms" toml:"save_debounce_ms" json:"save_debounce_ms" jsonschema:"minimum=1"`
	// MaxStoredSessions is how many recently opened documents keep a session.
	MaxStoredSessions int `mapstructure:"max_stored_sessions" toml:"max_stored_sessions" json:"max_stored_sessions" jsonschema:"minimum=1"`
}

// SearchConfig controls full-text search.
type SearchConfig struct {
	ContextChars    int `mapstructure:"context_chars" toml:"context_chars" json:"context_chars" jsonschema:"minimum=0"`
	YieldEveryPages int `mapstructure:"yield_every_pages" toml:"yield_every_pages" json:"yield_every_pages" jsonschema:"minimum=1"`
}

// BusConfig locates the event relay shared by all windows.
type BusConfig struct {
	Address string `mapstructure:"address" toml:"address" json:"address"`
	Path    string `mapstructure:"path" toml:"path" json:"path"`
}

// WindowsConfig controls how standalone windows are spawned.
type WindowsConfig struct {
	// Launcher is a command prefix that opens a terminal, e.g. "foot -e".
	// Empty runs the viewer process directly.
	Launcher string `mapstructure:"launcher" toml:"launcher" json:"launcher"`
}

// ViewerConfig holds viewer defaults.
type ViewerConfig struct {
	DefaultZoom float64 `mapstructure:"default_zoom" toml:"default_zoom" json:"default_zoom" jsonschema:"minimum=0.25,maximum=4"`
	ZoomStep    float64 `mapstructure:"zoom_step" toml:"zoom_step" json:"zoom_step" jsonschema:"exclusiveMinimum=0"`
}
