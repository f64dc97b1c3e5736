package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapparse/pkg/leapparse"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/spf13/cobra"
)

// defaultDebounce is how long watch waits after the last change before parsing.
const defaultDebounce = 150 * time.Millisecond

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Rule     string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Re-parse SQL files as they change",
		Long: `Watch directories for changes to SQL files and report unparsable regions
each time a file is written. Every matching file is checked once at startup.
Press Ctrl+C to stop.`,
		Example: `  # Watch the current directory
  leapparse watch

  # Watch models/ with the postgres dialect
  leapparse watch -d postgres models/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmdCtx := NewCommandContext(cmd)
			p, err := cmdCtx.Parser("")
			if err != nil {
				return err
			}
			w := &fileWatcher{cmdCtx: cmdCtx, parser: p, rule: opts.Rule, debounce: opts.Debounce}
			return w.run(ctx, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Rule, "rule", "r", "", "Rule to parse with (default: dialect statement rule)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", defaultDebounce, "Wait this long after the last change before parsing")

	return cmd
}

// fileWatcher re-parses changed files under a set of directories.
type fileWatcher struct {
	cmdCtx   *CommandContext
	parser   *parser.Parser
	rule     string
	debounce time.Duration

	// ready is closed once the initial pass is reported and events are being read.
	ready chan struct{}
}

func (w *fileWatcher) run(ctx context.Context, dirs []string) error {
	r := w.cmdCtx.Renderer
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range dirs {
		if err := w.watchDir(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	paths, err := collectInputs(dirs, w.cmdCtx.Cfg.Extensions)
	if err != nil {
		return err
	}
	w.check(ctx, paths)
	r.Println(r.Muted(fmt.Sprintf("watching %s for changes (dialect %s)", strings.Join(dirs, ", "), w.parser.Dialect().Name())))
	if w.ready != nil {
		close(w.ready)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchDir(watcher, event.Name); err != nil {
						w.cmdCtx.Logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !hasExtension(event.Name, w.cmdCtx.Cfg.Extensions) {
				continue
			}
			w.cmdCtx.Logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			clear(pending)
			slices.Sort(changed)
			w.check(ctx, changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.cmdCtx.Logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDir recursively adds a directory to the watcher.
func (w *fileWatcher) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// check parses paths and reports each one.
func (w *fileWatcher) check(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	r := w.cmdCtx.Renderer
	ctx, cancel := w.cmdCtx.WithTimeout(ctx)
	defer cancel()

	results, err := leapparse.ParseFilesWith(ctx, w.parser, w.rule, paths, w.cmdCtx.Cfg.Workers)
	if err != nil {
		r.Error(err.Error())
		return
	}
	for _, res := range results {
		switch {
		case res.Err != nil:
			r.Error(res.Err.Error())
		case len(res.Unparsable) > 0:
			r.Unparsable(res.Path, res.Unparsable)
		default:
			r.Success(fmt.Sprintf("%s: ok (%s)", res.Path, res.Duration.Round(time.Microsecond)))
		}
	}
}
