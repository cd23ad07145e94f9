// Package config loads nlquery settings with viper.
//
// Precedence (lowest to highest): defaults < config file < NLQUERY_*
// environment variables. The config file is TOML; without an explicit
// path, ./nlquery.toml is read when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "nlquery.toml"

// Config is the complete nlquery configuration.
type Config struct {
	Parser   ParserConfig   `mapstructure:"parser"`
	Wikidata WikidataConfig `mapstructure:"wikidata"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// ParserConfig locates the CoreNLP server.
type ParserConfig struct {
	Host           string            `mapstructure:"host"`
	Port           int               `mapstructure:"port"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	Properties     map[string]string `mapstructure:"properties"` // Extra annotator properties (dotless keys)
}

// Timeout returns the request timeout.
func (c ParserConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WikidataConfig configures the knowledge source endpoints.
type WikidataConfig struct {
	APIURL            string  `mapstructure:"api_url"`
	SPARQLURL         string  `mapstructure:"sparql_url"`
	Language          string  `mapstructure:"language"`
	UserAgent         string  `mapstructure:"user_agent"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 disables rate limiting
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout.
func (c WikidataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StoreConfig configures the query log. An empty path disables it.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// SlogLevel maps Level onto a slog level. Unknown levels map to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parser.host", "localhost")
	v.SetDefault("parser.port", 9000)
	v.SetDefault("parser.timeout_seconds", 30)

	v.SetDefault("wikidata.api_url", "https://www.wikidata.org/w/api.php")
	v.SetDefault("wikidata.sparql_url", "https://query.wikidata.org/sparql")
	v.SetDefault("wikidata.language", "en")
	v.SetDefault("wikidata.user_agent", "nlquery/0.1 (https://github.com/roach88/nlquery)")
	v.SetDefault("wikidata.requests_per_second", 5.0) // Polite to the public endpoints
	v.SetDefault("wikidata.timeout_seconds", 30)

	v.SetDefault("store.path", "")
	v.SetDefault("server.addr", ":8888")
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NLQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration from path, or from DefaultFile when path is
// empty and the file exists.
func Load(path string) (*Config, error) {
	v := New()

	explicit := path != ""
	if !explicit {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if explicit || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var problems []string
	if c.Parser.Port <= 0 || c.Parser.Port > 65535 {
		problems = append(problems, fmt.Sprintf("parser.port %d out of range", c.Parser.Port))
	}
	if c.Parser.TimeoutSeconds < 0 {
		problems = append(problems, "parser.timeout_seconds must not be negative")
	}
	if c.Wikidata.RequestsPerSecond < 0 {
		problems = append(problems, "wikidata.requests_per_second must not be negative")
	}
	if c.Wikidata.TimeoutSeconds < 0 {
		problems = append(problems, "wikidata.timeout_seconds must not be negative")
	}
	if c.Wikidata.Language == "" {
		problems = append(problems, "wikidata.language is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q unknown", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
