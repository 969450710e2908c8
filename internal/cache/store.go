package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	appDirName    = "td"
	cacheFileName = "cache.json"
)

// Store serializes a Cache to disk. It owns no live data; the sync manager
// keeps the authoritative in-memory copy. Writes are atomic: a sibling .tmp
// file is written, synced, and renamed over cache.json, so a partially
// written file is never visible under the real name.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the platform user-cache directory.
func NewStore() (*Store, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locating cache dir: %w", err)
	}
	return &Store{dir: filepath.Join(root, appDirName)}, nil
}

// NewStoreAt creates a store rooted at an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, cacheFileName)
}

// Exists reports whether a cache file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load reads and parses the cache file, then rebuilds the indexes.
func (s *Store) Load() (*Cache, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing cache %s: %w", s.Path(), err)
	}
	c.RebuildIndexes()
	return &c, nil
}

// LoadOrDefault reads the cache file, returning a fresh cache when the file
// does not exist. Any other error propagates.
func (s *Store) LoadOrDefault() (*Cache, error) {
	c, err := s.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}
	return c, nil
}

// Save writes the cache atomically.
func (s *Store) Save(c *Cache) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp := s.Path() + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temp cache: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing temp cache: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("syncing temp cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("closing temp cache: %w", err)
	}
	if err := renameWithRetry(tmp, s.Path()); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes the cache file; a missing file is success.
func (s *Store) Delete() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache: %w", err)
	}
	return nil
}

// LoadAsync runs Load on a goroutine for callers that must not block.
func (s *Store) LoadAsync() <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		c, err := s.Load()
		ch <- LoadResult{Cache: c, Err: err}
		close(ch)
	}()
	return ch
}

// LoadResult pairs the outcome of an asynchronous load.
type LoadResult struct {
	Cache *Cache
	Err   error
}

// SaveAsync runs Save on a goroutine. The caller must not mutate c until
// the channel yields.
func (s *Store) SaveAsync(c *Cache) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- s.Save(c)
		close(ch)
	}()
	return ch
}

// DeleteAsync runs Delete on a goroutine.
func (s *Store) DeleteAsync() <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- s.Delete()
		close(ch)
	}()
	return ch
}

// renameWithRetry renames with exponential-backoff retries on Windows,
// where a daemon or editor holding the target can fail the rename with
// "Access is denied". Elsewhere a failure is permanent.
func renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 3
	delay := 100 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = os.Rename(oldPath, newPath)
		if lastErr == nil {
			return nil
		}
		if runtime.GOOS != "windows" {
			break
		}
		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("replacing cache file: %w", lastErr)
}
