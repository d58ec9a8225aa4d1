// Package cliconfig provides configuration types and loading for the sitectl CLI.
package cliconfig

// CLIConfig represents the complete configuration for the sitectl CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.sitectlrc.yaml in current directory)
// 4. Global config file (~/.config/sitectl/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// API settings
	APIURL   string `yaml:"apiUrl" json:"apiUrl"`
	Timeout  int    `yaml:"timeout" json:"timeout"`
	Insecure bool   `yaml:"insecure" json:"insecure"`

	// Session settings
	TokenFile string `yaml:"tokenFile,omitempty" json:"tokenFile,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys were present in a loaded file, so that an
	// explicit false can override a true from a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Keys lists the config keys in display order.
var Keys = []string{"apiUrl", "timeout", "insecure", "tokenFile", "logLevel", "logFormat", "logFile", "json"}
