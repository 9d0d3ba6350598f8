// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gogpu/ggreflect"
)

// Config is the application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Preview  PreviewConfig  `mapstructure:"preview" yaml:"preview"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Assets   AssetsConfig   `mapstructure:"assets" yaml:"assets"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// PreviewConfig sizes the interactive preview container.
type PreviewConfig struct {
	Width         int    `mapstructure:"width" yaml:"width"`
	Height        int    `mapstructure:"height" yaml:"height"`
	Interpolation string `mapstructure:"interpolation" yaml:"interpolation"`
}

// DefaultsConfig holds the parameters a new reflection starts with.
type DefaultsConfig struct {
	Opacity     int    `mapstructure:"opacity" yaml:"opacity"`
	Offset      int    `mapstructure:"offset" yaml:"offset"`
	Orientation string `mapstructure:"orientation" yaml:"orientation"`
}

// AssetsConfig configures image resolution and fetching.
type AssetsConfig struct {
	Root        string        `mapstructure:"root" yaml:"root"`
	URLTTL      time.Duration `mapstructure:"url_ttl" yaml:"url_ttl"`
	MaxBytes    int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
}

// OutputConfig configures exports.
type OutputConfig struct {
	Dir           string `mapstructure:"dir" yaml:"dir"`
	Interpolation string `mapstructure:"interpolation" yaml:"interpolation"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Host           string        `mapstructure:"host" yaml:"host"`
	Port           int           `mapstructure:"port" yaml:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// BatchConfig sizes the batch worker pool.
type BatchConfig struct {
	Workers   int `mapstructure:"workers" yaml:"workers"`
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"` // 0 is unbounded
}

// Default returns the default configuration.
func Default() *Config {
	opts := ggreflect.DefaultRenderOptions()
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Preview: PreviewConfig{
			Width:         300,
			Height:        200,
			Interpolation: "bilinear",
		},
		Defaults: DefaultsConfig{
			Opacity:     opts.Opacity,
			Offset:      opts.Offset,
			Orientation: opts.Orientation.String(),
		},
		Assets: AssetsConfig{
			Root:        ".",
			URLTTL:      5 * time.Minute,
			MaxBytes:    32 << 20,
			HTTPTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Dir:           "reflections",
			Interpolation: "bilinear",
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxUploadBytes: 32 << 20,
		},
		Batch: BatchConfig{
			Workers:   4,
			QueueSize: 0,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	_, err := parseLevel(c.Log.Level)
	check(err == nil, "log.level: unknown level %q", c.Log.Level)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format: must be text or json, got %q", c.Log.Format)

	check(c.Preview.Width > 0 && c.Preview.Height > 0,
		"preview: size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	_, err = ParseInterpolation(c.Preview.Interpolation)
	check(err == nil, "preview.interpolation: %v", err)

	check(c.Defaults.Opacity >= 0 && c.Defaults.Opacity <= 100, "defaults.opacity: %d out of 0..100", c.Defaults.Opacity)
	check(c.Defaults.Offset >= 0 && c.Defaults.Offset <= 100, "defaults.offset: %d out of 0..100", c.Defaults.Offset)
	_, err = ggreflect.ParseOrientation(c.Defaults.Orientation)
	check(err == nil, "defaults.orientation: %v", err)

	check(c.Assets.URLTTL > 0, "assets.url_ttl: must be positive")
	check(c.Assets.MaxBytes > 0, "assets.max_bytes: must be positive")
	check(c.Assets.HTTPTimeout > 0, "assets.http_timeout: must be positive")

	_, err = ParseInterpolation(c.Output.Interpolation)
	check(err == nil, "output.interpolation: %v", err)

	check(c.Server.Port >= 0 && c.Server.Port <= 65535, "server.port: %d out of range", c.Server.Port)
	check(c.Server.MaxUploadBytes > 0, "server.max_upload_bytes: must be positive")

	check(c.Batch.Workers > 0, "batch.workers: must be positive")
	check(c.Batch.QueueSize >= 0, "batch.queue_size: must not be negative")

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// RenderOptions returns the default reflection parameters.
func (c *Config) RenderOptions() ggreflect.RenderOptions {
	o, err := ggreflect.ParseOrientation(c.Defaults.Orientation)
	if err != nil {
		o = ggreflect.Below
	}
	return ggreflect.RenderOptions{
		Opacity:     c.Defaults.Opacity,
		Offset:      c.Defaults.Offset,
		Orientation: o,
	}.Normalize()
}

// LogLevel returns the configured slog level, info when unknown.
func (c *Config) LogLevel() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseInterpolation parses "bilinear" or "nearest".
func ParseInterpolation(s string) (ggreflect.Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bilinear", "":
		return ggreflect.InterpBilinear, nil
	case "nearest":
		return ggreflect.InterpNearest, nil
	default:
		return ggreflect.InterpBilinear, fmt.Errorf("unknown interpolation %q", s)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
