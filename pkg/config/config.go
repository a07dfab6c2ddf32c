// Package config loads the settings shared by the CLI and the HTTP server.
//
// Sources, later ones winning:
//
//  1. built-in defaults
//  2. a dotenv file (".env" unless told otherwise)
//  3. a config file (TOML, YAML or JSON)
//  4. environment variables prefixed with NEIGHBOURS_, plus GITHUB_TOKEN
//  5. command-line flags, applied by the caller on the returned Config
//
// Nested keys map to variables with "." replaced by "_", so cache.backend is
// read from NEIGHBOURS_CACHE_BACKEND.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/benjaminlong/mergify-algos/pkg/cache"
	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/httputil"
	"github.com/benjaminlong/mergify-algos/pkg/integrations"
	"github.com/benjaminlong/mergify-algos/pkg/integrations/github"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
	"github.com/benjaminlong/mergify-algos/pkg/observability"
)

// AppName names the binary, its config file and its cache directory.
const AppName = "starneighbours"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NEIGHBOURS"

// Defaults.
const (
	DefaultAppName     = "Mergify Algo API"
	DefaultPerPage     = github.DefaultPerPage
	DefaultPageLimit   = 2
	DefaultThreshold   = 1
	DefaultBatchSize   = neighbours.DefaultBatchSize
	DefaultHTTPTimeout = 30 * time.Second
	DefaultRetryDelay  = time.Second
	DefaultCacheTTL    = 24 * time.Hour
	DefaultServerAddr  = ":8000"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	AppName           string        `mapstructure:"app_name"`
	GitHubToken       string        `mapstructure:"github_token"`
	APIURL            string        `mapstructure:"api_url"`
	PerPage           int           `mapstructure:"per_page"`
	PageLimit         int           `mapstructure:"page_limit"`
	Threshold         int           `mapstructure:"threshold"`
	BatchSize         int           `mapstructure:"batch_size"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	Retries           int           `mapstructure:"retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// LoadOptions locates the files Load reads.
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist. When empty,
	// starneighbours.{toml,yaml,json} is looked up in the working directory
	// and the user config directory, and a missing file is not an error.
	ConfigFile string

	// EnvFile is the dotenv file, ".env" when empty. A missing file is
	// not an error.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", DefaultAppName)
	v.SetDefault("github_token", "")
	v.SetDefault("api_url", github.DefaultBaseURL)
	v.SetDefault("per_page", DefaultPerPage)
	v.SetDefault("page_limit", DefaultPageLimit)
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("retries", 0)
	v.SetDefault("requests_per_second", 0.0)
	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// envNames returns the variables a key is read from, highest priority first.
func envNames(key string) []string {
	name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if key == "github_token" {
		return []string{name, "GITHUB_TOKEN"}
	}
	return []string{name}
}

// Load reads configuration from the dotenv file, the config file and the
// environment, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := applyDotenv(v, opts.EnvFile); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	for _, key := range v.AllKeys() {
		if err := v.BindEnv(append([]string{key}, envNames(key)...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDotenv layers the dotenv file between defaults and the config file.
// Unlike godotenv.Load it does not touch the process environment.
func applyDotenv(v *viper.Viper, path string) error {
	if path == "" {
		path = ".env"
	}
	vals, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		for _, name := range envNames(key) {
			if val, ok := vals[name]; ok {
				v.SetDefault(key, val)
				break
			}
		}
	}
	return nil
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	var problems []error
	check := func(err error) {
		if err != nil {
			problems = append(problems, err)
		}
	}

	check(errs.ValidateRange("per_page", c.PerPage, 1, 100))
	check(errs.ValidatePositive("page_limit", c.PageLimit))
	check(errs.ValidatePositive("batch_size", c.BatchSize))
	check(errs.ValidateURL(c.APIURL))
	if c.Retries < 0 {
		check(errs.New(errs.ErrCodeInvalidInput, "retries must be >= 0, got %d", c.Retries))
	}
	if c.RequestsPerSecond < 0 {
		check(errs.New(errs.ErrCodeInvalidInput, "requests_per_second must be >= 0, got %g", c.RequestsPerSecond))
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			check(errs.New(errs.ErrCodeInvalidInput, "cache.redis_url is required for the redis backend"))
		}
	default:
		check(errs.New(errs.ErrCodeInvalidInput, "unknown cache.backend %q (want none, file or redis)", c.Cache.Backend))
	}
	return errors.Join(problems...)
}

// CacheDir returns the file cache directory: cache.dir when set, else the
// XDG cache directory (~/.cache/starneighbours).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// OpenCache opens the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheFile:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisURL, AppName+":")
	default:
		return cache.NewNullCache(), nil
	}
}

// GitHub returns the client configuration for the GitHub API, sending
// responses through store.
func (c *Config) GitHub(store cache.Cache) github.Config {
	opts := integrations.Options{
		HTTP:  integrations.NewHTTPClient(c.HTTPTimeout),
		Retry: httputil.Backoff(c.Retries+1, DefaultRetryDelay),
		Cache: store,
		TTL:   c.Cache.TTL,
	}
	if c.RequestsPerSecond > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1)
	}
	return github.Config{
		BaseURL:   c.APIURL,
		PerPage:   c.PerPage,
		Transport: opts,
	}
}

// TracingFor returns the tracer settings for the given build version.
func (c *Config) TracingFor(version string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName:    AppName,
		ServiceVersion: version,
		OTLPEndpoint:   c.Tracing.OTLPEndpoint,
		SampleRate:     c.Tracing.SampleRate,
	}
}
