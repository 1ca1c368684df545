// Package cache stores serialized analysis payloads on disk, keyed by
// analyzer name and a fingerprint of the analyzed file set. A report
// run over unchanged sources is served from cache instead of being
// recomputed.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// Cache is a file-backed result cache. A disabled cache is valid and
// misses on every lookup.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

type entry struct {
	Fingerprint string    `json:"fingerprint"`
	Timestamp   time.Time `json:"timestamp"`
	Data        []byte    `json:"data"`
}

// New creates a cache rooted at dir with the given TTL in hours.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Fingerprint computes a BLAKE3 digest over the paths and contents of
// the given files. Any change to the file set, to a path, or to a
// file's bytes produces a different fingerprint. Files must already be
// in deterministic order.
func Fingerprint(files []string) (string, error) {
	hasher := blake3.New()
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(hasher, "%s\x00", path)
		_, err = io.Copy(hasher, f)
		f.Close()
		if err != nil {
			return "", err
		}
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes computes a BLAKE3 hash of bytes as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the cached payload for an analyzer if the stored
// fingerprint matches and the entry has not expired.
func (c *Cache) Get(analyzer, fingerprint string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	path := c.entryPath(analyzer)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}

	if e.Fingerprint != fingerprint {
		return nil, false
	}
	if time.Since(e.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	return e.Data, true
}

// Set stores an analyzer payload under the given fingerprint.
func (c *Cache) Set(analyzer, fingerprint string, data []byte) error {
	if !c.enabled {
		return nil
	}

	raw, err := json.Marshal(entry{
		Fingerprint: fingerprint,
		Timestamp:   time.Now(),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(c.entryPath(analyzer), raw, 0600)
}

// Invalidate removes the entry for an analyzer.
func (c *Cache) Invalidate(analyzer string) error {
	if !c.enabled {
		return nil
	}
	err := os.Remove(c.entryPath(analyzer))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// entryPath maps an analyzer name to a filesystem path. The name is
// hashed so arbitrary strings stay safe as filenames.
func (c *Cache) entryPath(analyzer string) string {
	hash := blake3.Sum256([]byte(analyzer))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats describes the cache contents.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats walks the cache directory and summarizes it.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}

	return stats, nil
}
