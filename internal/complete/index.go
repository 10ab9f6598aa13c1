package complete

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// dirSnapshot caches one $PATH directory's executable names together with
// the directory's modification time, which invalidates the snapshot.
type dirSnapshot struct {
	ModTime time.Time `json:"mtime"`
	Names   []string  `json:"names"`
}

// indexFile is the on-disk shape of the command index cache.
type indexFile struct {
	ForceExecution bool                   `json:"force_execution"`
	Dirs           map[string]dirSnapshot `json:"dirs"`
}

// CommandIndex enumerates the executables on the search path. Directories
// are scanned only when a completion actually asks for command names, and
// scans are cached per directory and persisted, so a slow or remote mount
// costs one listing until its mtime changes.
type CommandIndex struct {
	mu        sync.RWMutex
	cachePath string
	dirs      map[string]dirSnapshot
	modified  bool

	// forceExecution widens the filter from executable files to any
	// readable file.
	forceExecution bool

	// searchPath overrides $PATH, mainly for tests.
	searchPath []string
}

// NewCommandIndex creates an index backed by the JSON cache at cachePath.
// An empty cachePath keeps the index purely in memory. A cache written
// under a different force_execution setting is discarded.
func NewCommandIndex(cachePath string, forceExecution bool) *CommandIndex {
	ix := &CommandIndex{
		cachePath:      cachePath,
		dirs:           make(map[string]dirSnapshot),
		forceExecution: forceExecution,
	}
	ix.load()
	return ix
}

// SetSearchPath overrides the directory list scanned by Commands.
func (ix *CommandIndex) SetSearchPath(dirs []string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.searchPath = dirs
}

func (ix *CommandIndex) pathDirs() []string {
	if ix.searchPath != nil {
		return ix.searchPath
	}
	return filepath.SplitList(os.Getenv("PATH"))
}

// Commands returns the names on the search path, sorted and deduplicated
// (first directory wins, matching lookup order).
func (ix *CommandIndex) Commands() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	seen := make(map[string]struct{})
	var names []string
	for _, dir := range ix.pathDirs() {
		if dir == "" {
			continue
		}
		for _, name := range ix.scanDirLocked(dir) {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is on the search path.
func (ix *CommandIndex) Has(name string) bool {
	for _, candidate := range ix.Commands() {
		if candidate == name {
			return true
		}
	}
	return false
}

// scanDirLocked returns the cached names for dir, rescanning when the
// directory's mtime moved. Unreadable directories yield nothing.
func (ix *CommandIndex) scanDirLocked(dir string) []string {
	info, err := os.Stat(dir)
	if err != nil {
		return nil
	}

	if snap, ok := ix.dirs[dir]; ok && snap.ModTime.Equal(info.ModTime()) {
		return snap.Names
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		mode := fi.Mode()
		if mode&os.ModeSymlink != 0 {
			resolved, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || resolved.IsDir() {
				continue
			}
			mode = resolved.Mode()
		}
		if ix.forceExecution {
			if mode&0444 == 0 {
				continue
			}
		} else if mode&0111 == 0 {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	ix.dirs[dir] = dirSnapshot{ModTime: info.ModTime(), Names: names}
	ix.modified = true
	return names
}

// Stats reports the number of cached directories and distinct names.
func (ix *CommandIndex) Stats() (dirs, commands int) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, snap := range ix.dirs {
		for _, name := range snap.Names {
			seen[name] = struct{}{}
		}
	}
	return len(ix.dirs), len(seen)
}

// Save persists the cache if anything changed since load.
func (ix *CommandIndex) Save() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.modified || ix.cachePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(ix.cachePath), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(indexFile{
		ForceExecution: ix.forceExecution,
		Dirs:           ix.dirs,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(ix.cachePath, data, 0644); err != nil {
		return err
	}
	ix.modified = false
	return nil
}

// Clear drops the in-memory snapshots and removes the cache file.
func (ix *CommandIndex) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dirs = make(map[string]dirSnapshot)
	ix.modified = false
	if ix.cachePath == "" {
		return nil
	}
	if err := os.Remove(ix.cachePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CachePath returns the backing cache file path.
func (ix *CommandIndex) CachePath() string {
	return ix.cachePath
}

func (ix *CommandIndex) load() {
	if ix.cachePath == "" {
		return
	}
	data, err := os.ReadFile(ix.cachePath)
	if err != nil {
		return
	}
	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return
	}
	if file.ForceExecution != ix.forceExecution || file.Dirs == nil {
		return
	}
	ix.dirs = file.Dirs
}
