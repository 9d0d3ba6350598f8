package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GGREFLECT_SERVER_PORT.
	EnvPrefix = "GGREFLECT"
	// ConfigDirName is the directory below the user config dir.
	ConfigDirName = "ggreflect"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

// keys lists every setting so environment overrides work without a file.
var keys = []string{
	"log.level", "log.format",
	"preview.width", "preview.height", "preview.interpolation",
	"defaults.opacity", "defaults.offset", "defaults.orientation",
	"assets.root", "assets.url_ttl", "assets.max_bytes", "assets.http_timeout",
	"output.dir", "output.interpolation",
	"server.host", "server.port", "server.read_timeout", "server.write_timeout", "server.max_upload_bytes",
	"batch.workers", "batch.queue_size",
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName), nil
}

// Load reads configuration from configFile, or from config.yaml in the
// working directory or the user config directory when configFile is
// empty. .env files in envPath are loaded first, and GGREFLECT_*
// environment variables override file values. A missing default file is
// not an error; a missing explicit file is.
func Load(configFile, envPath string) (*Config, error) {
	v := configureViper(configFile, envPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configureViper(configFile, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, filepath.Ext(ConfigFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ConfigDirName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	setDefaults(v, Default())
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("preview.width", d.Preview.Width)
	v.SetDefault("preview.height", d.Preview.Height)
	v.SetDefault("preview.interpolation", d.Preview.Interpolation)
	v.SetDefault("defaults.opacity", d.Defaults.Opacity)
	v.SetDefault("defaults.offset", d.Defaults.Offset)
	v.SetDefault("defaults.orientation", d.Defaults.Orientation)
	v.SetDefault("assets.root", d.Assets.Root)
	v.SetDefault("assets.url_ttl", d.Assets.URLTTL)
	v.SetDefault("assets.max_bytes", d.Assets.MaxBytes)
	v.SetDefault("assets.http_timeout", d.Assets.HTTPTimeout)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.interpolation", d.Output.Interpolation)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.queue_size", d.Batch.QueueSize)
}

// loadEnv loads .env then .env.local from envPath; later files win.
func loadEnv(envPath string) {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(filepath.Join(envPath, name))
	}
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes the default configuration to path. It refuses to
// overwrite an existing file.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return Save(Default(), path)
}

// MarshalYAML writes durations in their string form.
func (a AssetsConfig) MarshalYAML() (any, error) {
	return struct {
		Root        string `yaml:"root"`
		URLTTL      string `yaml:"url_ttl"`
		MaxBytes    int64  `yaml:"max_bytes"`
		HTTPTimeout string `yaml:"http_timeout"`
	}{a.Root, a.URLTTL.String(), a.MaxBytes, a.HTTPTimeout.String()}, nil
}

// MarshalYAML writes durations in their string form.
func (s ServerConfig) MarshalYAML() (any, error) {
	return struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		ReadTimeout    string `yaml:"read_timeout"`
		WriteTimeout   string `yaml:"write_timeout"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	}{s.Host, s.Port, s.ReadTimeout.String(), s.WriteTimeout.String(), s.MaxUploadBytes}, nil
}
