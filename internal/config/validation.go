package config

import (
	"strings"
	"time"

	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks the configuration for values the engine and server cannot run with.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return derrors.ConfigError("content_dir is required").Build()
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return derrors.ConfigError("server.addr is required").Build()
	}
	if cfg.Server.RefreshInterval != "" {
		d, err := time.ParseDuration(cfg.Server.RefreshInterval)
		if err != nil || d <= 0 {
			return derrors.ValidationError("server.refresh_interval must be a positive duration").
				WithContext("value", cfg.Server.RefreshInterval).Build()
		}
	}
	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		return derrors.ValidationError("logging.level must be one of debug, info, warn, error").
			WithContext("value", cfg.Logging.Level).Build()
	}
	if !validLogFormats[strings.ToLower(cfg.Logging.Format)] {
		return derrors.ValidationError("logging.format must be text or json").
			WithContext("value", cfg.Logging.Format).Build()
	}
	if !strings.Contains(cfg.Site.TitleTemplate, "%s") {
		return derrors.ValidationError("site.title_template must contain %s").
			WithContext("value", cfg.Site.TitleTemplate).Build()
	}
	return ValidateEngine(cfg.Engine)
}

// ValidateEngine checks the engine options.
func ValidateEngine(opts EngineOptions) error {
	base := opts.ContentDirBasePath
	if !strings.HasPrefix(base, "/") || (len(base) > 1 && strings.HasSuffix(base, "/")) {
		return derrors.ValidationError("contentDirBasePath must start with / and have no trailing slash").
			WithContext("value", base).Build()
	}
	return nil
}
