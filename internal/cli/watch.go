package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"bennypowers.dev/sfcgen/internal/log"
)

// debounce coalesces bursts of events for one file
const debounce = 50 * time.Millisecond

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [globs...]",
		Short: "Compile documents and recompile them when they change",
		Long: `Compile every matching document, then watch the root for changes and
recompile changed documents. Each recompile is compared with the document's
previous version, so template-only edits take the render-only hot-reload path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			patterns := args
			if len(patterns) == 0 {
				patterns = cfg.Include
			}

			b, err := newBuilder(cfg, newReporter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return b.watch(cmd.Context(), patterns)
		},
	}
}

// watch runs an initial build and then recompiles matching documents on
// change until ctx is done
func (b *builder) watch(ctx context.Context, patterns []string) error {
	paths, err := b.discover(patterns)
	if err != nil {
		return err
	}
	if err := b.compileAll(ctx, paths); err != nil && ctx.Err() != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := b.watchDir(watcher, b.cfg.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", b.cfg.Root, err)
	}
	b.report.note("watching %s (%d documents cached)", b.cfg.Root, b.cache.Len())

	var (
		mu      sync.Mutex
		timers  = make(map[string]*time.Timer)
		compile sync.Mutex
	)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}()

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
					if err := b.watchDir(watcher, event.Name); err != nil {
						log.Warn("Failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !b.matches(event.Name, patterns) {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := b.cache.Forget(event.Name); err == nil {
					log.Debug("Forgot %s", event.Name)
				}
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				compile.Lock()
				defer compile.Unlock()
				if ctx.Err() != nil {
					return
				}
				log.Debug("Change detected: %s", path)
				_ = b.compileFile(ctx, path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)
		}
	}
}

// watchDir adds dir and its subdirectories, skipping node_modules, hidden
// directories and the output directory
func (b *builder) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if path != dir && (name == "node_modules" || name[0] == '.' || path == b.cfg.OutDir) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
