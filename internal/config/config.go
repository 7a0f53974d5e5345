package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

// DefaultConfigFile is the configuration path used when --config is not given.
const DefaultConfigFile = "stackdocs.yaml"

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "STACKDOCS_LOG_LEVEL"

// Config represents the application configuration.
type Config struct {
	ContentDir string        `yaml:"content_dir"`
	Site       SiteConfig    `yaml:"site"`
	Server     ServerConfig  `yaml:"server"`
	Output     OutputConfig  `yaml:"output"`
	Logging    LoggingConfig `yaml:"logging"`

	// Engine is not read from the file; see Engine().
	Engine EngineOptions `yaml:"-"`
}

// SiteConfig is the static metadata of the page shell.
type SiteConfig struct {
	DefaultTitle     string `yaml:"default_title"`
	TitleTemplate    string `yaml:"title_template"`
	ApplicationName  string `yaml:"application_name"`
	Generator        string `yaml:"generator"`
	AppleWebAppTitle string `yaml:"apple_web_app_title"`
	Logo             string `yaml:"logo"`
	ProjectLink      string `yaml:"project_link"`
	FaviconGlyph     string `yaml:"favicon_glyph"`
	Lang             string `yaml:"lang"`
	Dir              string `yaml:"dir"`
	BaseURL          string `yaml:"base_url,omitempty"`
}

// ServerConfig configures the HTTP server used by `serve`.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	Watch           bool   `yaml:"watch"`
	RefreshInterval string `yaml:"refresh_interval,omitempty"`
	Metrics         bool   `yaml:"metrics"`
}

// OutputConfig configures static export.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RefreshEvery returns the parsed refresh interval, or zero when unset.
func (s ServerConfig) RefreshEvery() time.Duration {
	if s.RefreshInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil {
		return 0
	}
	return d
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ContentDir: "content",
		Site: SiteConfig{
			DefaultTitle:     "My Docs",
			TitleTemplate:    "%s - Nextra",
			ApplicationName:  "Nextra",
			Generator:        "Next.js",
			AppleWebAppTitle: "My Docs",
			Logo:             "My Docs",
			ProjectLink:      "https://github.com/Poovarasan-Official",
			FaviconGlyph:     "✦",
			Lang:             "en",
			Dir:              "ltr",
		},
		Server: ServerConfig{
			Addr:    ":3000",
			Metrics: true,
		},
		Output: OutputConfig{
			Directory: "./site",
			Clean:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Engine: Engine(),
	}
}

// Load reads configuration from configPath on top of Default().
// Environment variables in the file are expanded after .env files are loaded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").
			Fatal().WithContext("path", configPath).Build()
	}
	cfg.Engine = Engine()
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load, but returns Default() when configPath is the
// implicit default file and it does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == DefaultConfigFile {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			loadEnvFiles()
			cfg := Default()
			applyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}
	return Load(configPath)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Server.Watch = true
	example.Server.RefreshInterval = "10m"

	data, err := yaml.Marshal(example)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}

// loadEnvFiles loads .env and .env.local without overriding the process environment.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = lvl
	}
}
