package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggreflect/internal/batch"
	"github.com/gogpu/ggreflect/internal/config"
)

var (
	batchOutDir  string
	batchWorkers int
	batchParams  paramFlags
)

var batchCmd = &cobra.Command{
	Use:   "batch <image>...",
	Short: "Render reflections of many images concurrently",
	Long: `Batch renders every input with the same parameters on a worker pool
and writes <name>-reflection.png files to --out-dir. Failed inputs are
reported and do not stop the others.

Examples:
  ggreflect batch a.png b.jpg c.webp
  ggreflect batch photos/*.jpg --out-dir out --workers 8 --position left`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "output directory (default: output.dir)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "number of workers (default: batch.workers)")
	batchParams.register(batchCmd)

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	opts, err := batchParams.options(cmd, cfg.RenderOptions())
	if err != nil {
		return err
	}
	mode, err := config.ParseInterpolation(cfg.Output.Interpolation)
	if err != nil {
		return err
	}

	outDir := batchOutDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	runner := batch.NewRunner(batch.Config{
		Workers:       workers,
		QueueSize:     cfg.Batch.QueueSize,
		Options:       opts,
		PreviewWidth:  cfg.Preview.Width,
		PreviewHeight: cfg.Preview.Height,
		Interpolation: mode,
	})
	results, err := runner.Run(cmd.Context(), batch.Jobs(args, outDir))
	if err != nil {
		return err
	}

	failed := 0
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tOUTPUT\tSIZE\tTIME")
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t-\t-\terror: %v\n", r.Input, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\n", r.Input, r.Output, r.Width, r.Height, r.Duration.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(results))
	}
	return nil
}
