package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds the geodex configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	Resolve   ResolveConfig   `yaml:"resolve"`
	Geodata   GeodataConfig   `yaml:"geodata"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the result cache backend and TTL classes.
type CacheConfig struct {
	Driver               string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs                []string `yaml:"addrs"`
	Username             string   `yaml:"username"`
	Password             string   `yaml:"password"`
	DB                   int      `yaml:"db"`
	KeyPrefix            string   `yaml:"key_prefix"`
	AmenityTTLSec        int      `yaml:"amenity_ttl_sec"`
	InfrastructureTTLSec int      `yaml:"infrastructure_ttl_sec"`
	ReadinessTimeout     int      `yaml:"readiness_timeout_sec"`
}

// ProviderConfig holds one geocoding provider's settings.
type ProviderConfig struct {
	Disabled   bool    `yaml:"disabled"`
	BaseURL    string  `yaml:"base_url"`
	APIKey     string  `yaml:"api_key"`
	UserAgent  string  `yaml:"user_agent"` // empty uses the build default
	TimeoutSec int     `yaml:"timeout_sec"`
	RatePerSec float64 `yaml:"rate_per_sec"` // 0 = unthrottled
	Share      float64 `yaml:"share"`        // fraction of the limit; 0 = built-in share
}

// ProvidersConfig holds the geocoding providers.
type ProvidersConfig struct {
	Nominatim  ProviderConfig `yaml:"nominatim"`
	Photon     ProviderConfig `yaml:"photon"`
	Foursquare ProviderConfig `yaml:"foursquare"` // disabled without api_key
}

// ResolveConfig holds location resolution settings.
type ResolveConfig struct {
	CountryCode   string     `yaml:"country_code"`
	Language      string     `yaml:"language"`
	Near          string     `yaml:"near"`
	DefaultLimit  int        `yaml:"default_limit"`
	MaxLimit      int        `yaml:"max_limit"`
	Brands        []string   `yaml:"brands"`         // empty uses the built-in list
	PhoneticPairs [][]string `yaml:"phonetic_pairs"` // empty uses the built-in list
}

// GeodataConfig holds the Overpass interpreter and fetcher settings.
type GeodataConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	QueryTimeoutSec   int     `yaml:"query_timeout_sec"`
	RatePerSec        float64 `yaml:"rate_per_sec"`
	MaxConcurrency    int     `yaml:"max_concurrency"`
	MaxRadiusMeters   int     `yaml:"max_radius_m"`
	DefaultMaxResults int     `yaml:"default_max_results"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates one configuration file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 40 // above geodata timeout_sec
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = DriverMemory
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "geodex:"
	}
	if c.Cache.AmenityTTLSec <= 0 {
		c.Cache.AmenityTTLSec = 600
	}
	if c.Cache.InfrastructureTTLSec <= 0 {
		c.Cache.InfrastructureTTLSec = 1800
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}

	providerDefaults(&c.Providers.Nominatim, "https://nominatim.openstreetmap.org", 1)
	providerDefaults(&c.Providers.Photon, "https://photon.komoot.io", 0)
	providerDefaults(&c.Providers.Foursquare, "https://api.foursquare.com", 0)

	if c.Resolve.CountryCode == "" {
		c.Resolve.CountryCode = "vn"
	}
	if c.Resolve.Language == "" {
		c.Resolve.Language = "vi"
	}
	if c.Resolve.Near == "" {
		c.Resolve.Near = "Vietnam"
	}
	if c.Resolve.DefaultLimit <= 0 {
		c.Resolve.DefaultLimit = 10
	}
	if c.Resolve.MaxLimit <= 0 {
		c.Resolve.MaxLimit = 50
	}

	if c.Geodata.BaseURL == "" {
		c.Geodata.BaseURL = "https://overpass-api.de/api/interpreter"
	}
	if c.Geodata.TimeoutSec <= 0 {
		c.Geodata.TimeoutSec = 25
	}
	if c.Geodata.QueryTimeoutSec <= 0 {
		c.Geodata.QueryTimeoutSec = c.Geodata.TimeoutSec
	}
	if c.Geodata.MaxConcurrency <= 0 {
		c.Geodata.MaxConcurrency = 4
	}
	if c.Geodata.MaxRadiusMeters <= 0 {
		c.Geodata.MaxRadiusMeters = 5000
	}
	if c.Geodata.DefaultMaxResults <= 0 {
		c.Geodata.DefaultMaxResults = 50
	}
}

func providerDefaults(p *ProviderConfig, baseURL string, ratePerSec float64) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.TimeoutSec <= 0 {
		p.TimeoutSec = 8
	}
	if p.RatePerSec <= 0 {
		p.RatePerSec = ratePerSec
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Cache.Driver {
	case DriverMemory:
	case DriverRedis:
		if len(c.Cache.Addrs) == 0 {
			return errors.New("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be %q or %q, got %q", DriverMemory, DriverRedis, c.Cache.Driver)
	}

	for name, p := range c.Providers.All() {
		if p.Share < 0 || p.Share > 1 {
			return fmt.Errorf("providers.%s.share must be between 0 and 1, got %v", name, p.Share)
		}
	}

	if c.Resolve.MaxLimit < c.Resolve.DefaultLimit {
		return fmt.Errorf("resolve.max_limit (%d) must not be below resolve.default_limit (%d)",
			c.Resolve.MaxLimit, c.Resolve.DefaultLimit)
	}
	for i, pair := range c.Resolve.PhoneticPairs {
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
			return fmt.Errorf("resolve.phonetic_pairs[%d] must hold exactly two non-empty words", i)
		}
	}

	if c.Geodata.QueryTimeoutSec > c.Geodata.TimeoutSec {
		return fmt.Errorf("geodata.query_timeout_sec (%d) must not exceed geodata.timeout_sec (%d)",
			c.Geodata.QueryTimeoutSec, c.Geodata.TimeoutSec)
	}
	return nil
}

// All returns the providers keyed by config name.
func (p ProvidersConfig) All() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		"nominatim":  p.Nominatim,
		"photon":     p.Photon,
		"foursquare": p.Foursquare,
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
