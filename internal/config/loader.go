package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader reads the layers YAML file and watches it for changes. A reload
// that fails to parse or validate leaves the previous document in place.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Document
	onChange []func(*Document)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load. Validation
// errors are fatal here: the engine must not start on a bad document.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = doc
	return l, nil
}

// Document returns the current (latest valid) document.
func (l *Loader) Document() *Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever a valid document replaces
// the current one.
func (l *Loader) OnChange(fn func(*Document)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the document on file
// changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("layers watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("layers watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					doc, err := l.load()
					if err != nil {
						// Keep the old document; the operator fixes the file
						// and saves again.
						continue
					}
					l.swap(doc)
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the layers file.
func (l *Loader) Reload() (*Document, error) {
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	l.swap(doc)
	return doc, nil
}

func (l *Loader) swap(doc *Document) {
	l.mu.Lock()
	l.current = doc
	callbacks := make([]func(*Document), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(doc)
	}
}

func (l *Loader) load() (*Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read layers %s: %w", l.path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layers %s: %w", l.path, err)
	}
	return doc, nil
}

// Parse unmarshals and validates a layers document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
