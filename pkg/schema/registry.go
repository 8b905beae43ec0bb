package schema

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Registry holds the active schema and allows it to be swapped at runtime.
type Registry struct {
	mu     sync.RWMutex
	schema *Schema
}

// NewRegistry returns a registry serving s, or Default() when s is nil.
func NewRegistry(s *Schema) *Registry {
	if s == nil {
		s = Default()
	}
	return &Registry{schema: s}
}

// Current returns the active schema.
func (r *Registry) Current() *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schema
}

// Replace swaps the active schema. A nil schema is ignored.
func (r *Registry) Replace(s *Schema) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.schema = s
	r.mu.Unlock()
}

// ReloadFromFile loads path and, on success, makes it the active schema.
// On failure the previous schema stays active.
func (r *Registry) ReloadFromFile(path string) (*Schema, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.Replace(s)
	return s, nil
}

// Watch reloads path whenever it changes. Bursts of events are coalesced
// for debounce before a reload runs. The returned Closer stops the watcher.
func (r *Registry) Watch(path string, debounce time.Duration, logger *log.Logger) (io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("schema file path is empty")
	}
	if debounce <= 0 {
		return nil, errors.New("debounce must be > 0")
	}
	if logger == nil {
		logger = log.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so editors that replace the file by rename are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	target := filepath.Clean(path)

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				s, err := r.ReloadFromFile(path)
				if err != nil {
					logger.Printf("schema reload failed: file=%q err=%v", path, err)
					continue
				}
				logger.Printf("schema reload ok: file=%q resources=%d", path, len(s.Resources()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("schema watcher error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if shouldTriggerReload(evt, target) {
					resetTimer()
				}
			}
		}
	}()

	logger.Printf("schema auto-reload enabled: file=%q debounce_ms=%d", path, debounce.Milliseconds())
	var once sync.Once
	return closerFunc(func() error {
		once.Do(func() {
			close(stopCh)
			_ = watcher.Close()
			<-doneCh
		})
		return nil
	}), nil
}

func shouldTriggerReload(evt fsnotify.Event, target string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(evt.Name) == target
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
