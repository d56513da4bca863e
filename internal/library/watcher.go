package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultSettle is how long the watcher waits after the last change before
// reporting, so files still being copied are complete.
const DefaultSettle = 500 * time.Millisecond

// Watcher reports audio files appearing or disappearing under a folder.
type Watcher struct {
	scanner  *Scanner
	watcher  *fsnotify.Watcher
	logger   *logrus.Logger
	settle   time.Duration
	onChange func()

	mutex sync.Mutex
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

// NewWatcher starts watching root and every directory below it. onChange
// runs on the watcher's own goroutine after changes settle.
func NewWatcher(scanner *Scanner, root string, settle time.Duration, onChange func(), logger *logrus.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		scanner:  scanner,
		watcher:  fw,
		logger:   logger,
		settle:   settle,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	if err := w.addDirectory(root); err != nil {
		fw.Close()
		return nil, err
	}

	go w.watchFiles()
	logger.WithField("library_path", root).Info("File watcher started")
	return w, nil
}

// addDirectory recursively adds root and its subdirectories.
func (w *Watcher) addDirectory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) watchFiles() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("File watcher error")

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectory(event.Name); err != nil {
				w.logger.WithError(err).WithField("directory", event.Name).Warn("Failed to watch directory")
			}
			// A new directory may already hold files.
			w.schedule()
			return
		}
		if w.scanner.IsAudioFile(event.Name) {
			w.schedule()
		}

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.scanner.registry.Revoke(event.Name)
		w.schedule()

	case event.Has(fsnotify.Write) && w.scanner.IsAudioFile(event.Name):
		w.schedule()
	}
}

// schedule debounces change notifications.
func (w *Watcher) schedule() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.logger.Debug("Library changed")
		w.onChange()
	})
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mutex.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mutex.Unlock()
		err = w.watcher.Close()
	})
	return err
}
