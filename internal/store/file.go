package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockFileName      = ".taskboard.lock"
	fileExt           = ".json"
	lockRetryInterval = 50 * time.Millisecond
)

// FileStore keeps one JSON document per key inside a data directory.
// Every operation holds an exclusive flock on the directory so the server
// and the ops CLI never interleave writes.
type FileStore struct {
	mu          sync.Mutex
	dir         string
	lock        *flock.Flock
	lockTimeout time.Duration
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{
		dir:         dataDir,
		lock:        flock.New(filepath.Join(dataDir, lockFileName)),
		lockTimeout: 3 * time.Second,
	}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// WithLock runs fn while holding the store's in-process and file locks.
func (s *FileStore) WithLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()

	return fn()
}

func (s *FileStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	found := false
	err := s.WithLock(ctx, func() error {
		b, err := os.ReadFile(s.path(key))
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if len(b) == 0 {
			return nil
		}
		if err := json.Unmarshal(b, dst); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		found = true
		return nil
	})
	return found, err
}

func (s *FileStore) Set(ctx context.Context, key string, v any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.WithLock(ctx, func() error {
		return writeFileAtomic(s.dir, s.path(key), b)
	})
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.WithLock(ctx, func() error {
		err := os.Remove(s.path(key))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}

// Keys lists the keys currently present, sorted.
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.WithLock(ctx, func() error {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if key, ok := KeyFromFileName(e.Name()); ok {
				keys = append(keys, key)
			}
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}

func writeFileAtomic(dir, path string, b []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// FileName is the on-disk name of key inside a FileStore directory.
func FileName(key string) string { return key + fileExt }

// KeyFromFileName reverses FileName. It rejects anything that is not a
// valid key file, including paths with separators.
func KeyFromFileName(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
