package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	watchCmd.Flags().Duration("wait", 200*time.Millisecond, "quiet period before re-rendering")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch PIECE",
	Short: "Re-renders a piece file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := renderConfig()
		if err != nil {
			return err
		}
		wait, _ := cmd.Flags().GetDuration("wait")
		path := args[0]
		out := cmd.OutOrStdout()

		rerender := func() {
			if err := renderFile(path, cfg, out); err != nil {
				logger.Error("render failed", zap.String("piece", path), zap.Error(err))
			}
		}
		rerender()

		w, err := newPieceWatcher(path, wait, rerender)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		logger.Info("watching", zap.String("piece", path))
		return w.run(ctx)
	},
}

// pieceWatcher calls onChange once writes to a single file settle.
type pieceWatcher struct {
	path     string
	onChange func()
	debounce func(func())
	watcher  *fsnotify.Watcher
}

// newPieceWatcher watches the file's directory, since editors often replace
// the file instead of writing to it.
func newPieceWatcher(path string, wait time.Duration, onChange func()) (*pieceWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &pieceWatcher{
		path:     abs,
		onChange: onChange,
		debounce: debounce.New(wait),
		watcher:  fw,
	}, nil
}

func (w *pieceWatcher) run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.debounce(w.onChange)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
