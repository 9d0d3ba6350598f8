package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggreflect"
	"github.com/gogpu/ggreflect/internal/insert"
	"github.com/gogpu/ggreflect/internal/tui"
	"github.com/gogpu/ggreflect/session"
)

var (
	editOutDir    string
	editClipboard bool
	editLogFile   string
)

var editCmd = &cobra.Command{
	Use:   "edit [image...]",
	Short: "Edit a reflection interactively in the terminal",
	Long: `Edit opens the terminal editor. Exactly one image must be given to
create a reflection; with none or several the editor explains what to
select.

Each "add to design" writes a new PNG to --out-dir, or copies the data
URL to the clipboard with --clipboard.

Keys:
  tab / shift+tab   switch control
  left / right      change the focused control
  - / +             fine adjust
  a                 add to design
  b / esc           go back
  q                 quit`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editOutDir, "out-dir", "", "directory for added reflections (default: output.dir)")
	editCmd.Flags().BoolVar(&editClipboard, "clipboard", false, "copy the data URL to the clipboard instead of writing files")
	editCmd.Flags().StringVar(&editLogFile, "log-file", "", "write logs to this file while the editor runs")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The editor owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if editLogFile != "" {
		f, err := os.OpenFile(editLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	ggreflect.SetLogger(newLogger(logOut, cfg.Log))

	previewOpts, err := previewOptions(cfg, cfg.RenderOptions())
	if err != nil {
		return err
	}
	resolver, fetcher, err := newAssets(cfg.Assets)
	if err != nil {
		return err
	}

	var inserter session.Inserter
	if editClipboard {
		inserter = insert.NewClipboard()
	} else {
		dir := editOutDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		inserter = insert.NewFile(dir)
	}

	notes := tui.NewNotifications()
	sess := session.New(resolver, fetcher, inserter,
		session.WithContainer(cfg.Preview.Width, cfg.Preview.Height),
		session.WithPreviewOptions(previewOpts...),
		session.WithNotifier(notes.Notify),
	)

	refs := make([]session.ImageRef, 0, len(args))
	for _, a := range args {
		refs = append(refs, session.ImageRef(a))
	}
	sess.OnSelectionChange(session.SelectionEvent{Elements: refs})

	return tui.Run(ctx, sess, notes)
}
