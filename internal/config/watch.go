package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config hierarchy when one of its files changes. The
// REPL keeps one alive so edits to .tabsmith.yml apply without restarting.
type Watcher struct {
	dir      string
	loader   *Loader
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)

	mu      sync.Mutex
	pending time.Time
	cancel  context.CancelFunc
}

// Watch starts watching the config files that apply to dir. onReload runs
// with the freshly merged config after each change, debounced so editors
// that write in bursts trigger a single reload.
func Watch(dir string, loader *Loader, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      dir,
		loader:   loader,
		watcher:  fsw,
		debounce: 200 * time.Millisecond,
		onReload: onReload,
		cancel:   cancel,
	}

	// Watch the directories holding config files rather than the files:
	// editors replace files on save, which drops a file-level watch.
	dirs := map[string]struct{}{dir: {}}
	if chain, err := FindConfigFiles(dir); err == nil {
		for _, path := range chain {
			dirs[filepath.Dir(path)] = struct{}{}
		}
	}
	if globalPath, err := GetGlobalConfigPath(); err == nil {
		dirs[filepath.Dir(globalPath)] = struct{}{}
	}
	for d := range dirs {
		// Missing directories (no global config yet) are fine to skip.
		_ = w.watcher.Add(d)
	}

	go w.run(ctx)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isConfigName(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if !due {
				continue
			}
			if merged, _, err := w.loader.LoadHierarchy(w.dir); err == nil {
				w.onReload(merged)
			}
		}
	}
}

func isConfigName(name string) bool {
	for _, candidate := range SupportedConfigNames {
		if name == candidate {
			return true
		}
	}
	return name == GlobalConfigName
}
