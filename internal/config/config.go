package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look for the YAML file
const DefaultPath = "configs/config.yaml"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`

		// AuthSecret, when set, requires HS256 bearer tokens on /api/v1
		AuthSecret string `yaml:"auth_secret" env:"SERVER_AUTH_SECRET"`
	} `yaml:"server"`

	// Backend describes the remote Kaddem REST provider
	Backend struct {
		BaseURL string        `yaml:"base_url" env:"KADDEM_API_URL"`
		Timeout time.Duration `yaml:"timeout" env:"KADDEM_API_TIMEOUT"`

		// ContextPath prefixes every resource path. Path matching is case
		// sensitive on most deployments, e.g. "kaddem" vs "Kaddem".
		ContextPath string `yaml:"context_path" env:"KADDEM_API_CONTEXT_PATH"`

		ServiceToken struct {
			Secret string        `yaml:"secret" env:"KADDEM_TOKEN_SECRET"`
			Issuer string        `yaml:"issuer" env:"KADDEM_TOKEN_ISSUER"`
			TTL    time.Duration `yaml:"ttl" env:"KADDEM_TOKEN_TTL"`
		} `yaml:"service_token"`
	} `yaml:"backend"`

	Dashboard struct {
		RecentLimit int    `yaml:"recent_limit" env:"DASHBOARD_RECENT_LIMIT"`
		EmailDomain string `yaml:"email_domain" env:"DASHBOARD_EMAIL_DOMAIN"`
		LoadOnStart bool   `yaml:"load_on_start" env:"DASHBOARD_LOAD_ON_START"`
	} `yaml:"dashboard"`

	Exporter struct {
		Port          string        `yaml:"port" env:"EXPORTER_PORT"`
		FrontendURL   string        `yaml:"frontend_url" env:"EXPORTER_FRONTEND_URL"`
		ProbeInterval time.Duration `yaml:"probe_interval" env:"EXPORTER_PROBE_INTERVAL"`
		ProbeTimeout  time.Duration `yaml:"probe_timeout" env:"EXPORTER_PROBE_TIMEOUT"`
	} `yaml:"exporter"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from defaults, a YAML file, an optional
// .env file and the process environment, in that order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Backend.BaseURL = "http://localhost:8089"
	config.Backend.Timeout = 10 * time.Second
	config.Backend.ContextPath = "kaddem"
	config.Backend.ServiceToken.Issuer = "kaddem-dashboard"
	config.Backend.ServiceToken.TTL = 5 * time.Minute

	config.Dashboard.RecentLimit = 5
	config.Dashboard.EmailDomain = "university.edu"
	config.Dashboard.LoadOnStart = true

	config.Exporter.Port = "5174"
	config.Exporter.FrontendURL = "http://localhost:5173"
	config.Exporter.ProbeInterval = 5 * time.Second
	config.Exporter.ProbeTimeout = 3 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Backend.BaseURL) == "" {
		return fmt.Errorf("backend base URL is required")
	}
	u, err := url.Parse(config.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend base URL %q must be an absolute URL", config.Backend.BaseURL)
	}

	if strings.Trim(config.Backend.ContextPath, "/ ") == "" {
		return fmt.Errorf("backend context path is required")
	}

	if config.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if config.Backend.ServiceToken.Secret != "" && config.Backend.ServiceToken.TTL <= 0 {
		return fmt.Errorf("service token TTL must be positive")
	}

	if config.Dashboard.RecentLimit <= 0 {
		return fmt.Errorf("dashboard recent limit must be positive")
	}

	if config.Exporter.ProbeInterval <= 0 {
		return fmt.Errorf("exporter probe interval must be positive")
	}

	if _, err := url.Parse(config.Exporter.FrontendURL); err != nil {
		return fmt.Errorf("invalid exporter frontend URL: %w", err)
	}

	return nil
}

// PrettyLogs reports whether console logging was requested
func (c *Config) PrettyLogs() bool {
	return strings.ToLower(c.Logging.Format) == "text"
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
