// Package watch signals debounced changes to a single document file.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Config holds watcher options.
type Config struct {
	Path     string
	Debounce time.Duration
	Logger   zerolog.Logger
}

// DefaultConfig watches path with a 250ms debounce.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 250 * time.Millisecond,
		Logger:   zerolog.Nop(),
	}
}

// Watcher reports writes to one file. Editors that save by renaming a temp
// file over the original are covered because the parent directory is
// watched rather than the file itself.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	logger    zerolog.Logger
	onChange  chan struct{}
	done      chan struct{}
}

// New creates a watcher. Call Start to begin receiving events.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Path, err)
	}
	return &Watcher{
		fsWatcher: fsw,
		path:      path,
		debounce:  cfg.Debounce,
		logger:    cfg.Logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the file's directory and returns the change channel. Bursts
// of events collapse into one signal per debounce window.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}
	go w.loop()
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Str("path", w.path).Msg("watch error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}
