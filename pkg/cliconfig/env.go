package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvAPIURL    = "SITECTL_API_URL"
	EnvTokenFile = "SITECTL_TOKEN_FILE"
	EnvLogLevel  = "SITECTL_LOG_LEVEL"
	EnvLogFormat = "SITECTL_LOG_FORMAT"
	EnvInsecure  = "SITECTL_INSECURE"
	EnvTimeout   = "SITECTL_TIMEOUT"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
		cfg.Sources["apiUrl"] = SourceEnv
	}

	if v := os.Getenv(EnvTokenFile); v != "" {
		cfg.TokenFile = v
		cfg.Sources["tokenFile"] = SourceEnv
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}

	if v := os.Getenv(EnvInsecure); v != "" {
		cfg.Insecure = v == "true" || v == "1" || v == "yes"
		cfg.Sources["insecure"] = SourceEnv
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = timeout
			cfg.Sources["timeout"] = SourceEnv
		}
	}
}
