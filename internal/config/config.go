// Package config handles configuration loading for LiteScan.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Asset   AssetConfig   `mapstructure:"asset"   yaml:"asset"`
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Refresh RefreshConfig `mapstructure:"refresh" yaml:"refresh"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// AssetConfig identifies the primary asset and its comparison set.
type AssetConfig struct {
	ID          string   `mapstructure:"id"           yaml:"id"`           // source id, e.g. "litecoin"
	Symbol      string   `mapstructure:"symbol"       yaml:"symbol"`       // display symbol, e.g. "LTC"
	Compare     []string `mapstructure:"compare"      yaml:"compare"`      // "id:SYMBOL" pairs
	HistoryDays int      `mapstructure:"history_days" yaml:"history_days"` // 30 default, 7 supported
	TxLimit     int      `mapstructure:"tx_limit"     yaml:"tx_limit"`
	NewsLimit   int      `mapstructure:"news_limit"   yaml:"news_limit"`
}

// SourcesConfig holds upstream API settings. Only the news source takes
// a credential, and it is optional.
type SourcesConfig struct {
	CoinGeckoURL   string   `mapstructure:"coingecko_url"   yaml:"coingecko_url"`
	BlockchairURL  string   `mapstructure:"blockchair_url"  yaml:"blockchair_url"`
	BlockCypherURL string   `mapstructure:"blockcypher_url" yaml:"blockcypher_url"`
	NewsAPIURL     string   `mapstructure:"newsapi_url"     yaml:"newsapi_url"`
	NewsAPIKey     string   `mapstructure:"newsapi_key"     yaml:"newsapi_key"`
	NewsFeeds      []string `mapstructure:"news_feeds"      yaml:"news_feeds"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// RefreshConfig controls the background snapshot refresher.
type RefreshConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.litescan/config.yaml (home directory)
//  3. /etc/litescan/config.yaml (system)
//
// Environment variables override config file values.
// Format: LITESCAN_<SECTION>_<KEY>, e.g., LITESCAN_SOURCES_NEWSAPI_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".litescan"))
	v.AddConfigPath("/etc/litescan")

	v.SetEnvPrefix("LITESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("LITESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Asset defaults
	v.SetDefault("asset.id", "litecoin")
	v.SetDefault("asset.symbol", "LTC")
	v.SetDefault("asset.compare", []string{"bitcoin:BTC", "ethereum:ETH", "dogecoin:DOGE"})
	v.SetDefault("asset.history_days", 30)
	v.SetDefault("asset.tx_limit", 5)
	v.SetDefault("asset.news_limit", 6)

	// Source defaults (empty URL means the source's built-in default)
	v.SetDefault("sources.coingecko_url", "")
	v.SetDefault("sources.blockchair_url", "")
	v.SetDefault("sources.blockcypher_url", "")
	v.SetDefault("sources.newsapi_url", "")
	v.SetDefault("sources.news_feeds", []string{})

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Refresh defaults
	v.SetDefault("refresh.interval_sec", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("LITESCAN_SOURCES_NEWSAPI_KEY"); key != "" {
		cfg.Sources.NewsAPIKey = key
	}
}

// CompareAssets splits the configured "id:SYMBOL" pairs. Entries
// without an explicit symbol use the uppercased id.
func (c *Config) CompareAssets() [][2]string {
	assets := make([][2]string, 0, len(c.Asset.Compare))
	for _, entry := range c.Asset.Compare {
		id, symbol, ok := strings.Cut(entry, ":")
		if id == "" {
			continue
		}
		if !ok || symbol == "" {
			symbol = strings.ToUpper(id)
		}
		assets = append(assets, [2]string{id, symbol})
	}
	return assets
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
