// Package cli implements the ggreflect command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggreflect"
	"github.com/gogpu/ggreflect/internal/asset"
	"github.com/gogpu/ggreflect/internal/config"
	"github.com/gogpu/ggreflect/session"
)

var (
	version = ggreflect.Version

	cfgFile  string
	envDir   string
	logLevel string

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "ggreflect",
	Short: "Create mirrored, faded reflections of images",
	Long: `ggreflect mirrors an image along one of its edges and fades the
mirrored copy out with a linear gradient.

Configuration is read from config.yaml in the working directory or the
user config directory. GGREFLECT_* environment variables and .env files
override file values, e.g. GGREFLECT_DEFAULTS_OPACITY=70.

Examples:
  ggreflect render photo.png -o photo-reflection.png
  ggreflect render photo.png --position left --offset 30 --data-url
  ggreflect edit photo.png
  ggreflect batch *.jpg --out-dir reflections
  ggreflect serve --port 9000`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or user config dir)")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding .env files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Version = version
}

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile, envDir)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded
	ggreflect.SetLogger(newLogger(cmd.ErrOrStderr(), cfg.Log))
	return nil
}

func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	c := config.Config{Log: lc}
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newAssets builds the resolver and fetcher from the asset settings.
func newAssets(ac config.AssetsConfig) (session.AssetResolver, session.Fetcher, error) {
	resolver, err := asset.NewDirResolver(ac.Root, ac.URLTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("asset root: %w", err)
	}
	fetcher := asset.NewFetcher(
		asset.WithHTTPClient(&http.Client{Timeout: ac.HTTPTimeout}),
		asset.WithMaxBytes(ac.MaxBytes),
	)
	return resolver, fetcher, nil
}

// previewOptions applies the preview and output settings of c and starts
// reflections with opts.
func previewOptions(c *config.Config, opts ggreflect.RenderOptions) ([]ggreflect.PreviewOption, error) {
	previewMode, err := config.ParseInterpolation(c.Preview.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("preview.interpolation: %w", err)
	}
	outputMode, err := config.ParseInterpolation(c.Output.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("output.interpolation: %w", err)
	}
	return []ggreflect.PreviewOption{
		ggreflect.WithPreviewInterpolation(previewMode),
		ggreflect.WithOutput(ggreflect.NewOutput(outputMode)),
		ggreflect.WithRenderOptions(opts),
	}, nil
}

// paramFlags are the reflection parameters accepted on the command line.
type paramFlags struct {
	position string
	opacity  int
	offset   int
}

func (p *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.position, "position", "p", "", "reflection position (below, above, left, right)")
	cmd.Flags().IntVar(&p.opacity, "opacity", 0, "opacity in percent, 0-100 (default from config)")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "fade length in percent of the image, 0-100 (default from config)")
}

// options applies the flags set on cmd to base. Position is applied first
// because changing it resets opacity and offset.
func (p *paramFlags) options(cmd *cobra.Command, base ggreflect.RenderOptions) (ggreflect.RenderOptions, error) {
	flags := cmd.Flags()
	opts := base
	if flags.Changed("position") {
		o, err := ggreflect.ParseOrientation(p.position)
		if err != nil {
			return opts, err
		}
		opts = opts.WithOrientation(o)
	}
	if flags.Changed("opacity") {
		if p.opacity < 0 || p.opacity > 100 {
			return opts, fmt.Errorf("opacity %d out of range 0-100", p.opacity)
		}
		opts = opts.WithOpacity(p.opacity)
	}
	if flags.Changed("offset") {
		if p.offset < 0 || p.offset > 100 {
			return opts, fmt.Errorf("offset %d out of range 0-100", p.offset)
		}
		opts = opts.WithOffset(p.offset)
	}
	return opts, nil
}
