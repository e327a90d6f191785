// Package config provides configuration loading and management for DecoToolsHelper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
	"github.com/Girbilcannon/DecoToolsHelper/internal/telemetry"
)

const (
	// EnvPrefix is the prefix of every environment override
	EnvPrefix = "DECOHELPER"

	// AppDirName is the directory created under the XDG data and config homes
	AppDirName = "DecoToolsHelper"

	// ConfigFileName is the file looked up under the XDG config directories
	ConfigFileName = "config.yaml"

	// DefaultAddress is where the front door listens. Loopback only.
	DefaultAddress = "127.0.0.1:61337"

	// DefaultGuildEndpoint is the guild hall upgrade catalog
	DefaultGuildEndpoint = "https://api.guildwars2.com/v2/guild/upgrades"

	// DefaultHomesteadEndpoint is the homestead decoration catalog
	DefaultHomesteadEndpoint = "https://api.guildwars2.com/v2/homestead/decorations"

	// DefaultHTTPTimeout bounds every catalog request
	DefaultHTTPTimeout = "30s"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path  string
	viper *viper.Viper
}

// WithConfigPath loads configuration from a YAML file. A missing file is not
// an error; defaults are used instead.
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			realPath = filepath.Clean(path)
		case err != nil:
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// WithViper applies overrides that are set in v on top of the file values.
// Use BindEnv and BindPFlag on v to expose environment variables and flags.
func WithViper(v *viper.Viper) Option {
	return func(cfg *loaderConfig) error {
		if v == nil {
			return fmt.Errorf("viper instance is required")
		}
		cfg.viper = v
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// DataDir holds the decoration database, the build status and the build lock.
	// Defaults to $XDG_DATA_HOME/DecoToolsHelper.
	DataDir string `yaml:"dataDir,omitempty"`

	// Address is the listen address of the front door
	Address string `yaml:"address,omitempty"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"logLevel,omitempty"`

	Catalogs  CatalogsConfig    `yaml:"catalogs"`
	HTTP      HTTPConfig        `yaml:"http"`
	Build     BuildConfig       `yaml:"build"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// CatalogsConfig names the two remote catalogs
type CatalogsConfig struct {
	Guild     CatalogConfig `yaml:"guild"`
	Homestead CatalogConfig `yaml:"homestead"`
}

// CatalogConfig defines one catalog root
type CatalogConfig struct {
	// Endpoint returns the identifier list on GET and records on GET ?ids=
	Endpoint string `yaml:"endpoint"`
}

// HTTPConfig defines outbound request settings
type HTTPConfig struct {
	// Timeout is a duration string such as "30s"
	Timeout string `yaml:"timeout,omitempty"`
}

// BuildConfig defines when and how builds run
type BuildConfig struct {
	// BatchSize is the number of identifiers per bulk query. Larger values are
	// clamped to catalog.MaxBatchSize.
	BatchSize int `yaml:"batchSize,omitempty"`

	// OnStartup runs a build when the server starts. Defaults to true.
	OnStartup *bool `yaml:"onStartup,omitempty"`

	// RefreshInterval re-checks the catalogs periodically when set (e.g. "6h")
	RefreshInterval string `yaml:"refreshInterval,omitempty"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultDataDir returns the per-user data directory
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppDirName)
}

// FindConfigFile returns the first config.yaml found in the XDG config
// directories, or an empty string.
func FindConfigFile() string {
	path, err := xdg.SearchConfigFile(filepath.Join(AppDirName, ConfigFileName))
	if err != nil {
		return ""
	}
	return path
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Catalogs.Guild.Endpoint == "" {
		c.Catalogs.Guild.Endpoint = DefaultGuildEndpoint
	}
	if c.Catalogs.Homestead.Endpoint == "" {
		c.Catalogs.Homestead.Endpoint = DefaultHomesteadEndpoint
	}
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.Build.BatchSize == 0 || c.Build.BatchSize > catalog.MaxBatchSize {
		c.Build.BatchSize = catalog.MaxBatchSize
	}
	if c.Build.OnStartup == nil {
		onStartup := true
		c.Build.OnStartup = &onStartup
	}
}

// LoadConfig loads and parses configuration. Without WithConfigPath, or when
// the file does not exist, defaults are used.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	var config Config
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	if loaderCfg.viper != nil {
		applyOverrides(&config, loaderCfg.viper)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Viper keys; flags and environment variables are bound to these
const (
	KeyDataDir           = "dataDir"
	KeyAddress           = "address"
	KeyLogLevel          = "logLevel"
	KeyGuildEndpoint     = "catalogs.guild.endpoint"
	KeyHomesteadEndpoint = "catalogs.homestead.endpoint"
	KeyHTTPTimeout       = "http.timeout"
	KeyBatchSize         = "build.batchSize"
	KeyBuildOnStartup    = "build.onStartup"
	KeyRefreshInterval   = "build.refreshInterval"
)

var envNames = map[string]string{
	KeyDataDir:           "DATA_DIR",
	KeyAddress:           "ADDRESS",
	KeyLogLevel:          "LOG_LEVEL",
	KeyGuildEndpoint:     "GUILD_ENDPOINT",
	KeyHomesteadEndpoint: "HOMESTEAD_ENDPOINT",
	KeyHTTPTimeout:       "HTTP_TIMEOUT",
	KeyBatchSize:         "BATCH_SIZE",
	KeyBuildOnStartup:    "BUILD_ON_STARTUP",
	KeyRefreshInterval:   "REFRESH_INTERVAL",
}

// BindEnv binds every key to its DECOHELPER_ environment variable, e.g.
// dataDir to DECOHELPER_DATA_DIR.
func BindEnv(v *viper.Viper) error {
	for key, name := range envNames {
		if err := v.BindEnv(key, EnvPrefix+"_"+name); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

func applyOverrides(c *Config, v *viper.Viper) {
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setString(KeyDataDir, &c.DataDir)
	setString(KeyAddress, &c.Address)
	setString(KeyLogLevel, &c.LogLevel)
	setString(KeyGuildEndpoint, &c.Catalogs.Guild.Endpoint)
	setString(KeyHomesteadEndpoint, &c.Catalogs.Homestead.Endpoint)
	setString(KeyHTTPTimeout, &c.HTTP.Timeout)
	setString(KeyRefreshInterval, &c.Build.RefreshInterval)

	if v.IsSet(KeyBatchSize) {
		c.Build.BatchSize = v.GetInt(KeyBatchSize)
	}
	if v.IsSet(KeyBuildOnStartup) {
		onStartup := v.GetBool(KeyBuildOnStartup)
		c.Build.OnStartup = &onStartup
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.DataDir == "" {
		return fmt.Errorf("dataDir is required")
	}
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}

	if err := validateEndpoint("catalogs.guild.endpoint", c.Catalogs.Guild.Endpoint); err != nil {
		return err
	}
	if err := validateEndpoint("catalogs.homestead.endpoint", c.Catalogs.Homestead.Endpoint); err != nil {
		return err
	}

	if _, err := parseDuration("http.timeout", c.HTTP.Timeout); err != nil {
		return err
	}
	if c.Build.BatchSize < 1 || c.Build.BatchSize > catalog.MaxBatchSize {
		return fmt.Errorf("build.batchSize must be between 1 and %d, got %d", catalog.MaxBatchSize, c.Build.BatchSize)
	}
	if c.Build.RefreshInterval != "" {
		if _, err := parseDuration("build.refreshInterval", c.Build.RefreshInterval); err != nil {
			return err
		}
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

func validateEndpoint(key, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration (e.g., '30s', '6h'): %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, value)
	}
	return d, nil
}

// GetHTTPTimeout returns the catalog request timeout
func (c *Config) GetHTTPTimeout() time.Duration {
	d, err := parseDuration("http.timeout", c.HTTP.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetRefreshInterval returns the periodic rebuild check interval, zero when disabled
func (c *Config) GetRefreshInterval() time.Duration {
	if c.Build.RefreshInterval == "" {
		return 0
	}
	d, err := parseDuration("build.refreshInterval", c.Build.RefreshInterval)
	if err != nil {
		return 0
	}
	return d
}

// BuildOnStartup reports whether serve should build immediately
func (c *Config) BuildOnStartup() bool {
	return c.Build.OnStartup == nil || *c.Build.OnStartup
}

// GuildSource returns the guild catalog source
func (c *Config) GuildSource() catalog.Source {
	return catalog.Source{Kind: catalog.KindGuild, Endpoint: c.Catalogs.Guild.Endpoint}
}

// HomesteadSource returns the homestead catalog source
func (c *Config) HomesteadSource() catalog.Source {
	return catalog.Source{Kind: catalog.KindHomestead, Endpoint: c.Catalogs.Homestead.Endpoint}
}
