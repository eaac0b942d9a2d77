// Package watcher auto-ingests documents dropped into a watched
// directory.
//
// Editors and download managers emit bursts of write events while a
// file lands on disk, so ingestion is debounced: a file is only picked
// up once it has been quiet for the debounce window.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before ingestion.
const DefaultDebounce = 500 * time.Millisecond

// Watcher ingests supported files as they appear in a directory.
type Watcher struct {
	service  driving.RetrievalService
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet window before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over dir. The directory must exist.
func New(service driving.RetrievalService, dir string, opts ...Option) (*Watcher, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: retrieval service is required", domain.ErrInvalidInput)
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: watch directory is required", domain.ErrInvalidInput)
	}

	w := &Watcher{
		service:  service,
		dir:      dir,
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run watches the directory until the context is cancelled. Supported
// files created or modified while running are ingested after the
// debounce window; everything else is ignored.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for documents", w.dir)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !supported(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case now := <-ticker.C:
			for _, path := range w.takeQuiet(now) {
				w.ingest(ctx, path)
			}
		}
	}
}

// takeQuiet removes and returns paths whose last event is older than
// the debounce window.
func (w *Watcher) takeQuiet(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	result := w.service.IngestFile(ctx, path, nil)
	if result.Status == domain.IngestError {
		logger.Warn("Auto-ingest of %s failed: %s", filepath.Base(path), result.Message)
		return
	}
	logger.Info("Auto-ingested %s (%d chunks)", filepath.Base(path), result.Chunks)
}

// supported reports whether the path has an ingestable extension.
func supported(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, err := domain.ParseFileType(ext)
	return err == nil
}
