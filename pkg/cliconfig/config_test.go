package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  CLIConfig
		wantErr string
	}{
		{
			name:    "valid defaults",
			config:  *NewDefault(),
			wantErr: "",
		},
		{
			name: "valid https with timeout",
			config: CLIConfig{
				APIURL:    "https://sites.example.com",
				Timeout:   30,
				LogLevel:  "DEBUG",
				LogFormat: "json",
			},
			wantErr: "",
		},
		{
			name:    "missing scheme",
			config:  CLIConfig{APIURL: "localhost:8000"},
			wantErr: "must be an http or https URL",
		},
		{
			name:    "unsupported scheme",
			config:  CLIConfig{APIURL: "ftp://example.com"},
			wantErr: "must be an http or https URL",
		},
		{
			name:    "timeout negative",
			config:  CLIConfig{APIURL: DefaultAPIURL, Timeout: -1},
			wantErr: "timeout -1 is out of range",
		},
		{
			name:    "bad log level",
			config:  CLIConfig{APIURL: DefaultAPIURL, LogLevel: "loud"},
			wantErr: "logLevel \"loud\"",
		},
		{
			name:    "bad log format",
			config:  CLIConfig{APIURL: DefaultAPIURL, LogFormat: "xml"},
			wantErr: "logFormat \"xml\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
			}
		})
	}
}

func TestMergeConfig_BasicFields(t *testing.T) {
	t.Run("merges non-zero values", func(t *testing.T) {
		target := NewDefault()
		source := &CLIConfig{
			APIURL:    "http://custom:9090",
			Timeout:   15,
			SetFields: map[string]bool{"apiUrl": true, "timeout": true},
		}

		MergeConfig(target, source, SourceLocal)

		if target.APIURL != "http://custom:9090" {
			t.Errorf("expected custom API URL, got %q", target.APIURL)
		}
		if target.Timeout != 15 {
			t.Errorf("expected timeout 15, got %d", target.Timeout)
		}
		if target.Sources["apiUrl"] != SourceLocal {
			t.Errorf("expected source 'local', got %q", target.Sources["apiUrl"])
		}
	})

	t.Run("does not overwrite with zero values", func(t *testing.T) {
		target := NewDefault()
		source := &CLIConfig{}

		MergeConfig(target, source, SourceLocal)

		if target.APIURL != DefaultAPIURL {
			t.Errorf("expected default URL %q, got %q", DefaultAPIURL, target.APIURL)
		}
		if target.Sources["apiUrl"] != SourceDefault {
			t.Errorf("expected source 'default', got %q", target.Sources["apiUrl"])
		}
	})

	t.Run("handles boolean false with SetFields", func(t *testing.T) {
		target := NewDefault()
		target.Insecure = true

		source := &CLIConfig{
			Insecure:  false,
			SetFields: map[string]bool{"insecure": true},
		}

		MergeConfig(target, source, SourceLocal)

		if target.Insecure {
			t.Error("expected insecure to be false after merge")
		}
	})

	t.Run("does not merge boolean false without SetFields", func(t *testing.T) {
		target := NewDefault()
		target.JSON = true

		MergeConfig(target, &CLIConfig{JSON: false}, SourceLocal)

		if !target.JSON {
			t.Error("expected json to remain true without SetFields")
		}
	})

	t.Run("nil source is no-op", func(t *testing.T) {
		target := NewDefault()

		MergeConfig(target, nil, SourceLocal)

		if target.APIURL != DefaultAPIURL {
			t.Errorf("expected URL unchanged, got %q", target.APIURL)
		}
	})
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig("test.yaml", []byte("apiUrl: https://api.example.com\ninsecure: false\nlogLevel: debug\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("expected apiUrl, got %q", cfg.APIURL)
	}
	if !cfg.SetFields["insecure"] || cfg.SetFields["json"] {
		t.Errorf("unexpected SetFields %v", cfg.SetFields)
	}

	_, err = ParseConfig("bad.yaml", []byte("apiUrl: [unclosed\n"))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if ce.Path != "bad.yaml" {
		t.Errorf("expected path bad.yaml, got %q", ce.Path)
	}
}

func TestConfigError_Error(t *testing.T) {
	withLine := &ConfigError{Path: "a.yaml", Line: 3, Message: "boom"}
	if got := withLine.Error(); got != "a.yaml (line 3): boom" {
		t.Errorf("unexpected message %q", got)
	}
	noLine := &ConfigError{Path: "a.yaml", Message: "boom"}
	if got := noLine.Error(); got != "a.yaml: boom" {
		t.Errorf("unexpected message %q", got)
	}
}

// isolate points the global and local config lookups at empty temp dirs and
// clears the SITECTL_* environment.
func isolate(t *testing.T) (globalDir, workDir string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	for _, env := range []string{EnvAPIURL, EnvTokenFile, EnvLogLevel, EnvLogFormat, EnvInsecure, EnvTimeout} {
		t.Setenv(env, "")
	}
	workDir = t.TempDir()
	t.Chdir(workDir)
	globalDir = filepath.Join(home, GlobalConfigDir)
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return globalDir, workDir
}

func TestLoadAll_Precedence(t *testing.T) {
	globalDir, workDir := isolate(t)

	writeFile(t, filepath.Join(globalDir, "config.yaml"), "apiUrl: http://global:1\ntimeout: 5\nlogLevel: info\n")
	writeFile(t, filepath.Join(workDir, ".sitectlrc.yaml"), "apiUrl: http://local:2\n")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadAll("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		key, got, want, source string
	}{
		{"apiUrl", cfg.APIURL, "http://local:2", SourceLocal},
		{"logLevel", cfg.LogLevel, "debug", SourceEnv},
		{"logFormat", cfg.LogFormat, DefaultLogFormat, SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %q, got %q", c.key, c.want, c.got)
		}
		if cfg.Sources[c.key] != c.source {
			t.Errorf("%s: expected source %q, got %q", c.key, c.source, cfg.Sources[c.key])
		}
	}
	if cfg.Timeout != 5 || cfg.Sources["timeout"] != SourceGlobal {
		t.Errorf("expected global timeout 5, got %d from %q", cfg.Timeout, cfg.Sources["timeout"])
	}
}

func TestLoadAll_EnvOverridesFile(t *testing.T) {
	_, workDir := isolate(t)
	writeFile(t, filepath.Join(workDir, ".sitectlrc.yaml"), "apiUrl: http://file:1\ninsecure: true\n")
	t.Setenv(EnvAPIURL, "http://env:2")
	t.Setenv(EnvInsecure, "0")
	t.Setenv(EnvTimeout, "12")

	cfg, err := LoadAll("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://env:2" {
		t.Errorf("expected env URL, got %q", cfg.APIURL)
	}
	if cfg.Insecure {
		t.Error("expected env to turn insecure off")
	}
	if cfg.Timeout != 12 {
		t.Errorf("expected timeout 12, got %d", cfg.Timeout)
	}
}

func TestLoadAll_ExplicitPath(t *testing.T) {
	_, workDir := isolate(t)
	writeFile(t, filepath.Join(workDir, ".sitectlrc.yaml"), "apiUrl: http://ignored:1\n")
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "apiUrl: http://explicit:3\n")

	cfg, err := LoadAll(explicit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://explicit:3" {
		t.Errorf("expected explicit URL, got %q", cfg.APIURL)
	}

	_, err = LoadAll(filepath.Join(workDir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadAll_MalformedFile(t *testing.T) {
	_, workDir := isolate(t)
	writeFile(t, filepath.Join(workDir, ".sitectlrc.yaml"), "timeout: soon\n")

	_, err := LoadAll("")
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
