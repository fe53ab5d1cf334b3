package plugin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/starshine-sys/griffin/common/log"
)

// DefaultDebounce is how long Watch waits after the last change to a manifest before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads loaded cogs when their manifest changes, until ctx is cancelled.
// Changes to cogs that aren't loaded are ignored.
// onReload, if not nil, is called after every reload attempt.
func (m *Manager) Watch(ctx context.Context, debounce time.Duration, onReload func(name string, err error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer w.Close()

	err = w.Add(m.root)
	if err != nil {
		return errors.Wrap(err, "watching cogs directory")
	}
	for d := range m.Discover() {
		if d.Dir {
			if err := w.Add(d.Path); err != nil {
				log.Warnf("Couldn't watch %v: %v", d.Path, err)
			}
		}
	}

	var (
		mu     sync.Mutex
		timers = map[string]*time.Timer{}
		wg     sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for name, t := range timers {
			if t.Stop() {
				wg.Done()
			}
			delete(timers, name)
		}
		mu.Unlock()
		wg.Wait()
	}()

	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()

		if t, ok := timers[name]; ok {
			if !t.Stop() {
				// already firing
				return
			}
			wg.Done()
		}

		wg.Add(1)
		timers[name] = time.AfterFunc(debounce, func() {
			defer wg.Done()

			mu.Lock()
			delete(timers, name)
			mu.Unlock()

			if ctx.Err() != nil || !m.IsActive(name) {
				return
			}

			log.Infof("Manifest of cogs.%v changed, reloading", name)
			err := m.Reload(ctx, name)
			if err != nil {
				log.Errorf("Error reloading cogs.%v: %v", name, err)
			}
			if onReload != nil {
				onReload(name, err)
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Errorf("Error watching cogs: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			// new cog directories have to be watched themselves
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == filepath.Clean(m.root) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.Add(ev.Name)
				}
			}

			name, ok := cogForPath(m.root, ev.Name)
			if !ok {
				continue
			}
			schedule(name)
		}
	}
}

// cogForPath returns the name of the cog whose manifest is at path.
func cogForPath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch {
	case len(parts) == 1 && filepath.Ext(parts[0]) == ManifestExt && parts[0] != InitFile:
		return strings.TrimSuffix(parts[0], ManifestExt), true
	case len(parts) == 2 && parts[1] == InitFile:
		return parts[0], true
	}
	return "", false
}
