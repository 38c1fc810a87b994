package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
	Import   ImportConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig controls where the zap logger writes. The terminal belongs to the
// shell, so logs always go to a file.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
	StartRoute     string `mapstructure:"start_route"`
	PageSize       int    `mapstructure:"page_size"`
}

// ImportConfig holds ingest settings.
type ImportConfig struct {
	// AutoCategoriseScore is the minimum suggestion score (0-100) for an
	// imported transaction to be categorised without asking.
	AutoCategoriseScore int `mapstructure:"auto_categorise_score"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "cattrack")
}

// Path is the config file used when none is given: $CATTRACK_CONFIG, or
// ~/.config/cattrack/config.toml.
func Path() string {
	if p := os.Getenv("CATTRACK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "cattrack", "config.toml")
}

// LoadFile reads configuration from path and env. An empty path means
// $CATTRACK_CONFIG, then the default search location. Env var overrides use
// prefix CATTRACK_.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "cattrack.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "cattrack.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.start_route", "/dashboard")
	v.SetDefault("ui.page_size", 100)
	v.SetDefault("import.auto_categorise_score", 90)

	if path == "" {
		path = os.Getenv("CATTRACK_CONFIG")
	}
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "cattrack"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CATTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 100
	}
	return c, nil
}

// Save writes cfg to path, or Path() when empty, creating the directory if
// needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.start_route", cfg.UI.StartRoute)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("import.auto_categorise_score", cfg.Import.AutoCategoriseScore)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
