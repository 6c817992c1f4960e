package cache

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Watch invalidates cached entries as soon as one of paths changes on disk and
// reports each changed path on the returned channel once the burst of events
// settles. The channel is closed when ctx is done.
func (c *Cache) Watch(ctx context.Context, debounce time.Duration, paths ...string) (<-chan string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("resolve path %q: %w", p, err)
		}
		watched[abs] = true
		// fsnotify watches directories; editors often replace files via rename.
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch dir %q: %w", dir, err)
		}
		dirs[dir] = true
	}

	out := make(chan string, len(watched))
	go func() {
		defer close(out)
		defer w.Close()
		pending := make(map[string]bool)
		var flush <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				abs, _ := filepath.Abs(event.Name)
				if !watched[abs] {
					continue
				}
				if n := c.Invalidate(abs); n > 0 {
					log.Printf("cache watcher: %s changed, dropped %d entr(ies)", abs, n)
				}
				pending[abs] = true
				if flush == nil {
					flush = time.After(debounce)
				}
			case <-flush:
				flush = nil
				changed := make([]string, 0, len(pending))
				for p := range pending {
					changed = append(changed, p)
				}
				sort.Strings(changed)
				pending = make(map[string]bool)
				for _, p := range changed {
					select {
					case out <- p:
					case <-ctx.Done():
						return
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("cache watcher: error: %v", err)
			}
		}
	}()
	log.Printf("cache watcher: watching %d file(s)", len(watched))
	return out, nil
}
