package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggreflect"
	"github.com/gogpu/ggreflect/internal/config"
	"github.com/gogpu/ggreflect/internal/server"
)

const shutdownTimeout = 10 * time.Second

var (
	serveHost  string
	servePort  int
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reflections over HTTP",
	Long: `Serve starts an HTTP server.

Routes:
  GET  /health               liveness and version
  POST /api/v1/reflections   multipart upload with an "image" file and
                             optional opacity, offset, orientation,
                             preview_width and preview_height fields.
                             Responds with {"type":"image","dataUrl":...};
                             add ?format=png for the raw PNG.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default: server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: server.port)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "gin debug mode")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	mode, err := config.ParseInterpolation(cfg.Output.Interpolation)
	if err != nil {
		return err
	}

	sc := server.Config{
		Debug:          serveDebug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Defaults:       cfg.RenderOptions(),
		PreviewWidth:   cfg.Preview.Width,
		PreviewHeight:  cfg.Preview.Height,
		Interpolation:  mode,
	}
	if serveHost != "" {
		sc.Host = serveHost
	}
	if servePort > 0 {
		sc.Port = servePort
	}
	srv := server.New(sc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	ggreflect.Logger().Info("server stopped")
	return nil
}
