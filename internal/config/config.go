// Package config loads the application configuration from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Discogs DiscogsConfig `yaml:"discogs"`
	Google  GoogleConfig  `yaml:"google"`
	Pairs   []PairConfig  `yaml:"pairs"`
	Logging LoggingConfig `yaml:"logging"`
}

// DiscogsConfig holds the Discogs API settings.
type DiscogsConfig struct {
	BaseURL        string `yaml:"base_url"`
	Username       string `yaml:"username"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request wall-clock ceiling.
func (c DiscogsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GoogleConfig holds the spreadsheet and credential settings.
type GoogleConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsPath string `yaml:"credentials_path"`
	TokenPath       string `yaml:"token_path"`
	ReleaseRange    string `yaml:"release_range"`
	URLRange        string `yaml:"url_range"`
}

// PairConfig names one sheet tab and the Discogs collection folder it is
// reconciled against. The pairing is explicit; nothing depends on the
// declaration order of sheets and folders.
type PairConfig struct {
	Sheet    string `yaml:"sheet"`
	SheetGID int64  `yaml:"sheet_gid"`
	Folder   string `yaml:"folder"`
	FolderID int    `yaml:"folder_id"`
}

// Name returns the display name for the pair: the folder name when it
// differs from the sheet name, otherwise just the sheet name.
func (p PairConfig) Name() string {
	if p.Folder != "" && p.Folder != p.Sheet {
		return fmt.Sprintf("%s / %s", p.Sheet, p.Folder)
	}
	return p.Sheet
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Discogs: DiscogsConfig{
			BaseURL:        "https://api.discogs.com",
			TimeoutSeconds: 30,
		},
		Google: GoogleConfig{
			CredentialsPath: "secrets/credentials.json",
			TokenPath:       "secrets/token.json",
			ReleaseRange:    "A2:C",
			URLRange:        "D2:D",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from flag or env, trusted
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("CD_DISCOGS_BASE_URL"); v != "" {
		c.Discogs.BaseURL = v
	}
	if v := os.Getenv("CD_DISCOGS_USERNAME"); v != "" {
		c.Discogs.Username = v
	}
	if v := os.Getenv("CD_DISCOGS_TOKEN"); v != "" {
		c.Discogs.Token = v
	}
	if v := os.Getenv("CD_DISCOGS_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Discogs.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("CD_SPREADSHEET_ID"); v != "" {
		c.Google.SpreadsheetID = v
	}
	if v := os.Getenv("CD_GOOGLE_CREDENTIALS"); v != "" {
		c.Google.CredentialsPath = v
	}
	if v := os.Getenv("CD_GOOGLE_TOKEN"); v != "" {
		c.Google.TokenPath = v
	}
	if v := os.Getenv("CD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CD_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("CD_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

func (c *Config) validate() error {
	if c.Discogs.Username == "" {
		return fmt.Errorf("discogs username is required")
	}
	if c.Discogs.Token == "" {
		return fmt.Errorf("discogs token is required")
	}
	if c.Discogs.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid discogs timeout: %d", c.Discogs.TimeoutSeconds)
	}
	if c.Google.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required")
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("at least one sheet/folder pair is required")
	}
	for i, p := range c.Pairs {
		if p.Sheet == "" {
			return fmt.Errorf("pair %d: sheet name is required", i)
		}
		if p.FolderID < 0 {
			return fmt.Errorf("pair %d: invalid folder ID %d", i, p.FolderID)
		}
	}
	return nil
}
