package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ffl-directory/feature/ffl/upload"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	processedDir = "processed"
	failedDir    = "failed"

	// DefaultSettle is how long a file must stay quiet before it is picked up.
	DefaultSettle = 500 * time.Millisecond
)

// Handler syncs one dropped file.
type Handler func(ctx context.Context, path string) error

// Watcher feeds files dropped into a directory to a Handler, one at a time.
// Handled files move to processed/, rejected ones to failed/.
type Watcher struct {
	dir    string
	handle Handler
	logger *zap.Logger
	settle time.Duration
}

// New creates a watcher over dir.
func New(dir string, handle Handler, logger *zap.Logger) *Watcher {
	return &Watcher{dir: dir, handle: handle, logger: logger, settle: DefaultSettle}
}

// WithSettle overrides the quiet period before a file is handled.
func (w *Watcher) WithSettle(d time.Duration) *Watcher {
	w.settle = d
	return w
}

// Run handles the files already present, then watches for new ones until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	for _, sub := range []string{processedDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Inbox watcher started", zap.String("dir", w.dir))

	if err := w.Drain(ctx); err != nil {
		return err
	}

	pending := map[string]struct{}{}
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.settle)
			timerCh = timer.C
		} else {
			timer.Reset(w.settle)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("Inbox watcher stopped")
			return nil

		case <-timerCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			for _, p := range paths {
				w.process(ctx, p)
			}

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !upload.Supported(ev.Name) {
				continue
			}
			if filepath.Dir(ev.Name) != filepath.Clean(w.dir) {
				continue
			}
			pending[ev.Name] = struct{}{}
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Inbox watcher error", zap.Error(watchErr))
		}
	}
}

// Drain handles every supported file currently in the directory, oldest name first.
func (w *Watcher) Drain(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !upload.Supported(e.Name()) {
			continue
		}
		w.process(ctx, filepath.Join(w.dir, e.Name()))
	}
	return nil
}

func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	target := processedDir
	if err := w.handle(ctx, path); err != nil {
		target = failedDir
		w.logger.Error("Inbox file failed", zap.String("file", path), zap.Error(err))
	} else {
		w.logger.Info("Inbox file synced", zap.String("file", path))
	}

	dest := filepath.Join(w.dir, target, time.Now().UTC().Format("20060102T150405")+"-"+filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		w.logger.Error("Failed to move inbox file", zap.String("file", path), zap.String("dest", dest), zap.Error(err))
	}
}
