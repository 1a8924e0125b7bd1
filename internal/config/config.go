package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultUpdateURL serves the release descriptor {version, notes, pub_date}.
	DefaultUpdateURL = "https://github.com/coulsontl/ai-toolbox/releases/latest/download/latest.json"
	// DefaultReleaseURLTemplate is expanded with the latest version.
	DefaultReleaseURLTemplate = "https://github.com/coulsontl/ai-toolbox/releases/tag/v{version}"
	// DefaultBridgeURL is where the host process exposes its command bridge.
	DefaultBridgeURL = "ws://127.0.0.1:47821/bridge"

	envPrefix      = "AITOOLBOX"
	configFileName = "config.yaml"
	envFileName    = ".env"
)

// Config holds user/system configuration for the CLI.
type Config struct {
	HomeDir            string        `mapstructure:"home"`
	UpdateURL          string        `mapstructure:"update_url"`
	ReleaseURLTemplate string        `mapstructure:"release_url_template"`
	BridgeURL          string        `mapstructure:"bridge_url"`
	HTTPTimeout        time.Duration `mapstructure:"http_timeout"`
	LogLevel           string        `mapstructure:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		HomeDir:            filepath.Join(home, ".aitoolbox"),
		UpdateURL:          DefaultUpdateURL,
		ReleaseURLTemplate: DefaultReleaseURLTemplate,
		BridgeURL:          DefaultBridgeURL,
		HTTPTimeout:        30 * time.Second,
		LogLevel:           "warn",
	}
}

// Load resolves configuration from defaults, an optional config.yaml and
// .env in the home directory, and AITOOLBOX_* environment variables.
// homeOverride (usually the --home flag) wins over AITOOLBOX_HOME.
func Load(homeOverride string) (Config, error) {
	def := Defaults()

	home := homeOverride
	if home == "" {
		home = os.Getenv(envPrefix + "_HOME")
	}
	if home == "" {
		home = def.HomeDir
	}

	// .env values only fill variables that are not already set.
	if err := godotenv.Load(filepath.Join(home, envFileName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", envFileName, err)
	}

	v := viper.New()
	v.SetDefault("home", home)
	v.SetDefault("update_url", def.UpdateURL)
	v.SetDefault("release_url_template", def.ReleaseURLTemplate)
	v.SetDefault("bridge_url", def.BridgeURL)
	v.SetDefault("http_timeout", def.HTTPTimeout)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(home, configFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// The resolved home is authoritative; a home key inside the file itself
	// would otherwise point at a different file than the one just read.
	cfg.HomeDir = home
	return cfg, nil
}
