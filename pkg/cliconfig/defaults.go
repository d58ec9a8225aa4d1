package cliconfig

// DefaultAPIURL is the API server used when nothing else is configured.
const DefaultAPIURL = "http://localhost:8000"

// DefaultTimeout is the request timeout in seconds (0 = none).
const DefaultTimeout = 0

// DefaultLogLevel is the CLI log level.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the CLI log format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		APIURL:    DefaultAPIURL,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources:   make(map[string]string),
	}

	// Mark all as default source
	for _, key := range Keys {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
