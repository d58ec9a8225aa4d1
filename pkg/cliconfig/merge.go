package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.APIURL != "" {
		target.APIURL = source.APIURL
		target.Sources["apiUrl"] = sourceType
	}
	if source.Timeout != 0 || isSet(source, "timeout") {
		target.Timeout = source.Timeout
		target.Sources["timeout"] = sourceType
	}
	if source.TokenFile != "" {
		target.TokenFile = source.TokenFile
		target.Sources["tokenFile"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		target.Sources["logFile"] = sourceType
	}
	// An explicit false is only visible through SetFields.
	if boolIsSet(source, "insecure") {
		target.Insecure = source.Insecure
		target.Sources["insecure"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

func isSet(cfg *CLIConfig, key string) bool {
	return cfg.SetFields != nil && cfg.SetFields[key]
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config. Without SetFields only true counts.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "insecure":
		return cfg.Insecure
	case "json":
		return cfg.JSON
	}
	return false
}
