package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	SerpAPI SerpAPIConfig
	Cache   CacheConfig
	Storage StorageConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerpAPIConfig holds SerpApi search backend configuration
type SerpAPIConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	GoogleDomain string `mapstructure:"google_domain"`
	Country      string `mapstructure:"country"`
	Language     string `mapstructure:"language"`
	NumResults   int    `mapstructure:"num_results"`
}

// CacheConfig holds search-cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StorageConfig holds the user document store configuration
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from flags, environment variables and config
// files, in that order of precedence for the config path.
func Load() (*Config, error) {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	configPath := cmdLine.StringP("config", "c", "", "path to config file")
	if err := cmdLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	return load(*configPath)
}

func load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/priceai/")
	}

	// Environment variable settings
	v.SetEnvPrefix("PRICEAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// SerpApi defaults. The api_key default registers the key with viper
	// so PRICEAI_SERPAPI_API_KEY is picked up by Unmarshal.
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.google_domain", "google.co.in")
	v.SetDefault("serpapi.country", "in")
	v.SetDefault("serpapi.language", "en")
	v.SetDefault("serpapi.num_results", 20)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Storage defaults
	v.SetDefault("storage.path", "priceai.db")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.SerpAPI.APIKey == "" {
		return fmt.Errorf("SerpApi key is required (set PRICEAI_SERPAPI_API_KEY)")
	}

	if config.SerpAPI.NumResults <= 0 || config.SerpAPI.NumResults > 100 {
		return fmt.Errorf("serpapi num_results must be in (0, 100], got: %d", config.SerpAPI.NumResults)
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	return nil
}
