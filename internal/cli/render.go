package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggreflect/internal/insert"
	"github.com/gogpu/ggreflect/session"
)

var (
	renderOutput  string
	renderDataURL bool
	renderWidth   int
	renderHeight  int
	renderParams  paramFlags
)

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render the reflection of one image",
	Long: `Render loads an image, applies the reflection parameters and writes
the result at the image's own size.

The image may be a path below assets.root, an http(s) URL or a data URL.
The preview container size affects the fade exactly as in the editor.

Examples:
  ggreflect render photo.png
  ggreflect render photo.png -o out.png --position right --opacity 80
  ggreflect render https://example.com/logo.svg --data-url`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG path (default: <image>-reflection.png)")
	renderCmd.Flags().BoolVar(&renderDataURL, "data-url", false, `print {"type":"image","dataUrl":...} to stdout instead of writing a file`)
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "preview container width (default from config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "preview container height (default from config)")
	renderParams.register(renderCmd)

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ref := args[0]

	opts, err := renderParams.options(cmd, cfg.RenderOptions())
	if err != nil {
		return err
	}
	previewOpts, err := previewOptions(cfg, opts)
	if err != nil {
		return err
	}
	resolver, fetcher, err := newAssets(cfg.Assets)
	if err != nil {
		return err
	}

	var inserter session.Inserter
	out := renderOutput
	if renderDataURL {
		inserter = insert.NewWriter(cmd.OutOrStdout())
	} else {
		if out == "" {
			out = defaultOutput(ref)
		}
		inserter = insert.NewFileAt(out)
	}

	w, h := cfg.Preview.Width, cfg.Preview.Height
	if renderWidth > 0 {
		w = renderWidth
	}
	if renderHeight > 0 {
		h = renderHeight
	}

	var insertErr error
	sess := session.New(resolver, fetcher, inserter,
		session.WithContainer(w, h),
		session.WithPreviewOptions(previewOpts...),
		session.WithNotifier(func(n session.Notification) { insertErr = n.Err }),
	)
	sess.OnSelectionChange(session.SelectionEvent{Elements: []session.ImageRef{session.ImageRef(ref)}})

	if err := <-sess.Create(ctx); err != nil {
		return fmt.Errorf("failed to load %s: %w", ref, err)
	}
	if err := sess.AddToDesign(ctx); err != nil {
		return err
	}
	if insertErr != nil {
		return fmt.Errorf("failed to write reflection: %w", insertErr)
	}
	if !renderDataURL {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
	}
	return nil
}

// defaultOutput names the output after the last path or URL segment of ref.
func defaultOutput(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return "reflection.png"
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	base := filepath.Base(filepath.FromSlash(ref))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return base + "-reflection.png"
}
