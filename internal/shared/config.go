package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// with environment variables taking precedence over file values.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Index    IndexConfig    `toml:"index"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Fetch    FetchConfig    `toml:"fetch"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// StorageConfig contains blob store credentials and bucket settings.
type StorageConfig struct {
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
}

// IndexConfig contains search index connection settings.
type IndexConfig struct {
	Scheme string `toml:"scheme"`
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	Name   string `toml:"name"`
}

// URL returns the index service address as scheme://host:port.
func (c IndexConfig) URL() string {
	return fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
}

// CatalogConfig contains catalog provider settings.
type CatalogConfig struct {
	BaseURL string `toml:"base_url"`
}

// FetchConfig contains transient download settings.
type FetchConfig struct {
	Workdir string `toml:"workdir"`
}

// DatabaseConfig contains local acquisition log settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains settings for log output redirected away from the
// terminal, used while the interactive menu owns the screen.
type LogConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config and environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays environment variables onto the config. The AWS_* names
// match the original deployment's .env contract.
func (c *Config) applyEnv() {
	setEnv(&c.Storage.AccessKey, "AWS_ACCESS_KEY")
	setEnv(&c.Storage.SecretKey, "AWS_SECRET_KEY")
	setEnv(&c.Storage.Bucket, "AWS_S3_BUCKET")
	setEnv(&c.Storage.Region, "AWS_S3_REGION")
	setEnv(&c.Index.Scheme, "SOUNDVAULT_INDEX_SCHEME")
	setEnv(&c.Index.Host, "SOUNDVAULT_INDEX_HOST")
	setEnv(&c.Index.Name, "SOUNDVAULT_INDEX_NAME")
	setEnv(&c.Catalog.BaseURL, "SOUNDVAULT_CATALOG_URL")
	setEnv(&c.Fetch.Workdir, "SOUNDVAULT_WORKDIR")
	setEnv(&c.Database.Path, "SOUNDVAULT_DB_PATH")
	setEnv(&c.Log.Path, "SOUNDVAULT_LOG_PATH")

	if v := os.Getenv("SOUNDVAULT_INDEX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Index.Port = port
		}
	}
}

func setEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// Validate checks that every value the pipeline cannot run without is
// present. A missing value is a fatal startup error, never a per-item one.
func (c *Config) Validate() error {
	required := []struct {
		value, name string
	}{
		{c.Storage.AccessKey, "storage.access_key"},
		{c.Storage.SecretKey, "storage.secret_key"},
		{c.Storage.Bucket, "storage.bucket"},
		{c.Storage.Region, "storage.region"},
		{c.Index.Host, "index.host"},
		{c.Index.Scheme, "index.scheme"},
		{c.Index.Name, "index.name"},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrMissingConfig, r.name)
		}
	}

	if c.Index.Port <= 0 || c.Index.Port > 65535 {
		return fmt.Errorf("%w: index.port %d out of range", ErrInvalidConfig, c.Index.Port)
	}

	return nil
}
