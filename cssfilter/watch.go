package cssfilter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle is time to wait after last change before running again, editors
// tend to produce bursts of events for a single save.
const settle = 200 * time.Millisecond

// Watch calls fn every time file changes until ctx is done. Directory is
// watched rather than the file itself so replacing file by rename is noticed
// too. Errors from fn are logged and watching continues.
func Watch(ctx context.Context, fname string, fn func() error, log *zap.Logger) error {
	fname, err := filepath.Abs(fname)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(fname)); err != nil {
		return fmt.Errorf("unable to watch %q: %w", fname, err)
	}
	log.Info("Watching for changes, interrupt to stop", zap.String("file", fname))

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Watching stopped", zap.Error(ctx.Err()))
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fname || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("Change detected", zap.Stringer("op", ev.Op), zap.String("file", ev.Name))
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher error", zap.Error(err))
		case <-timer.C:
			if err := fn(); err != nil {
				log.Error("Processing failed", zap.Error(err))
			}
		}
	}
}
