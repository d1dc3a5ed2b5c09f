package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DaemonConfig struct {
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

type ScanConfig struct {
	Workers int `mapstructure:"workers"`
}

type IndexConfig struct {
	// EntriesPerPage is the index panel page size used when sampling the
	// flat pager array.
	EntriesPerPage int `mapstructure:"entries_per_page"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Daemon DaemonConfig `mapstructure:"daemon"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Index  IndexConfig  `mapstructure:"index"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

// cacheBase returns the base cache directory for docnav.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/docnav as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "docnav")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "docnav")
	}
	return filepath.Join(os.TempDir(), "docnav")
}

// DBPath returns the path to the DuckDB database file.
func DBPath() string {
	return filepath.Join(cacheBase(), "db.db")
}

// CASDir returns the path to the content-addressable page text store.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

// ScanCacheDir returns the path to the compressed scan cache directory.
func ScanCacheDir() string {
	return filepath.Join(cacheBase(), "scans")
}

// SearchIndexDir returns the path to the bleve search index.
func SearchIndexDir() string {
	return filepath.Join(cacheBase(), "search")
}

// LogPath returns the path to the daemon's log file.
func LogPath() string {
	return filepath.Join(cacheBase(), "daemon.log")
}

// SocketPath returns the path to the daemon's unix socket.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "docnav", "daemon.sock")
	}
	return filepath.Join(fmt.Sprintf("/run/user/%d", os.Getuid()), "docnav", "daemon.sock")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "docnav"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "docnav"))
	}

	viper.SetDefault("daemon.expiration_seconds", 600)
	viper.SetDefault("scan.workers", 8)
	viper.SetDefault("index.entries_per_page", 25)
	viper.SetDefault("serve.addr", ":8977")

	viper.SetEnvPrefix("DOCNAV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
