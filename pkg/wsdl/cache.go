package wsdl

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"github.com/soapbridge/soapbridge/lib"
)

const uploadsSubdir = "uploads"

// DocumentCache is an on-disk cache for fetched WSDL and schema documents.
// Fetched documents are stored under content-addressed names and expire
// after the configured TTL. Uploaded documents live in a separate uploads
// subdirectory: they are the only copy of the WSDL a service was converted
// from, so they survive both TTL expiry and Clear.
type DocumentCache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
}

// CacheStats summarizes cache contents for the health endpoint.
type CacheStats struct {
	Entries   int   `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
	Uploads   int   `json:"uploads"`
}

// NewDocumentCache creates the cache directories if needed.
func NewDocumentCache(dir string, ttl time.Duration) (*DocumentCache, error) {
	if err := os.MkdirAll(filepath.Join(dir, uploadsSubdir), 0o755); err != nil {
		return nil, err
	}
	return &DocumentCache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache root directory.
func (c *DocumentCache) Dir() string {
	return c.dir
}

func (c *DocumentCache) entryPath(url string) string {
	return filepath.Join(c.dir, lib.HashBytes([]byte(url))+".wsdl")
}

// Get returns a cached document if present and not expired.
func (c *DocumentCache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(url)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a fetched document under its URL.
func (c *DocumentCache) Put(url string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.WriteFile(c.entryPath(url), data, 0o644)
}

// StoreUpload persists an uploaded WSDL and returns its absolute path. The
// path doubles as the service's wsdl_url, so the runtime can rebuild SOAP
// clients for uploaded services without refetching anything.
func (c *DocumentCache) StoreUpload(filename string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	name := slug.Make(strings.TrimSuffix(base, ext))
	if name == "" {
		name = "upload"
	}
	if ext == "" {
		ext = ".wsdl"
	}

	// Content hash prefix keeps distinct uploads with the same filename apart
	name = lib.HashBytes(data)[:16] + "_" + name + ext

	path := filepath.Join(c.dir, uploadsSubdir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Clear removes every cached fetch entry and reports how many were removed.
// Uploaded documents are kept.
func (c *DocumentCache) Clear() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}

// Stats reports entry counts and total size on disk.
func (c *DocumentCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats CacheStats

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return stats
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stats.Entries++
		if info, err := entry.Info(); err == nil {
			stats.SizeBytes += info.Size()
		}
	}

	uploads, err := os.ReadDir(filepath.Join(c.dir, uploadsSubdir))
	if err != nil {
		return stats
	}
	for _, entry := range uploads {
		if entry.IsDir() {
			continue
		}
		stats.Uploads++
		if info, err := entry.Info(); err == nil {
			stats.SizeBytes += info.Size()
		}
	}

	return stats
}
