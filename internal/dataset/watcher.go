package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Invalidator drops cached data derived from the datasets.
type Invalidator interface {
	Invalidate()
}

// Watcher invalidates the catalog cache when a CSV file in the data
// directory changes. Bursts of events are coalesced into one invalidation.
type Watcher struct {
	dir      string
	target   Invalidator
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching dir. Call Run to process events and Close to
// release the underlying watcher.
func NewWatcher(dir string, target Invalidator, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, target: target, debounce: debounce, fsw: fsw}, nil
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching datasets")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("dataset changed")
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("dataset watcher error")

		case <-timer.C:
			if pending {
				pending = false
				w.target.Invalidate()
				log.Info().Msg("datasets changed, catalog cache invalidated")
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
