package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File keeps one JSON file per key in a directory.
type File struct {
	dir   string
	scope string
	ttl   time.Duration
}

var _ Cache = (*File)(nil)

// NewFile creates a file cache in dir for the server at baseURL.
func NewFile(dir, baseURL string, ttl time.Duration) *File {
	return &File{dir: dir, scope: scopeHash(baseURL), ttl: ttl}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, fmt.Sprintf("%s_%s.json", sanitizeKey(key), f.scope))
}

func (f *File) Get(_ context.Context, key string, dst any) bool {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return false
	}
	return decodeEntry(data, f.ttl, dst)
}

func (f *File) Put(_ context.Context, key string, v any) {
	data, err := encodeEntry(v)
	if err != nil {
		return
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return
	}
	path := f.path(key)
	// Write temp then rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, path)
}

func (f *File) Delete(_ context.Context, key string) {
	_ = os.Remove(f.path(key))
}

// Clear removes this server's cache files. Files of other servers and
// anything not matching the cache filename scheme are left alone.
func (f *File) Clear(_ context.Context) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) || !strings.HasSuffix(name, "_"+f.scope+".json") {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// DefaultDir returns "$XDG_CACHE_HOME/backoffice-cli" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "backoffice-cli"), nil
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	return len(parts[1]) == 12 && isHex(parts[1])
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
