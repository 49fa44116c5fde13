package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher calls onChange whenever one of its files is written, created or
// renamed into place. It watches the parent directories so editors that save
// by rename are still seen.
type FileWatcher struct {
	files    map[string]struct{}
	onChange func()
	logger   *zap.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewFileWatcher creates a FileWatcher over paths.
//
// Precondition: paths is non-empty; onChange and logger are non-nil.
func NewFileWatcher(paths []string, onChange func(), logger *zap.Logger) *FileWatcher {
	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		files[filepath.Clean(p)] = struct{}{}
	}
	return &FileWatcher{
		files:    files,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start implements Service.
func (f *FileWatcher) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating watcher: %w", err)
	}
	defer w.Close()

	dirs := make(map[string]struct{})
	for p := range f.files {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch: watching %q: %w", dir, err)
		}
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, watched := f.files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				f.logger.Debug("watched file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
				f.onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("file watcher error", zap.Error(err))
		case <-f.done:
			return nil
		}
	}
}

// Stop implements Service.
func (f *FileWatcher) Stop() {
	f.stopOnce.Do(func() { close(f.done) })
}
