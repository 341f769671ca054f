package config

// Default configuration constants
const (
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3

	defaultSaveDebounceMs    = 500
	defaultMaxStoredSessions = 50

	defaultContextChars    = 40
	defaultYieldEveryPages = 5

	defaultBusAddress = "127.0.0.1:47615"
	defaultBusPath    = "/events"

	defaultZoom     = 1.0
	defaultZoomStep = 0.25
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:         defaultLogLevel,
			Format:        defaultLogFormat,
			EnableFileLog: true,
			MaxSizeMB:     defaultMaxSizeMB,
			MaxBackups:    defaultMaxBackups,
		},
		Session: SessionConfig{
			SaveDebounceMs:    defaultSaveDebounceMs,
			MaxStoredSessions: defaultMaxStoredSessions,
		},
		Search: SearchConfig{
			ContextChars:    defaultContextChars,
			YieldEveryPages: defaultYieldEveryPages,
		},
		Bus: BusConfig{
			Address: defaultBusAddress,
			Path:    defaultBusPath,
		},
		Viewer: ViewerConfig{
			DefaultZoom: defaultZoom,
			ZoomStep:    defaultZoomStep,
		},
	}
}
