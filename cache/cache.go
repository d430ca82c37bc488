// Package cache stores compressed layer payloads by layer index.
//
// Two implementations share one interface: MemoryCache holds entries in a
// map for the common interactive case, DiskCache spills them into a pebble
// store for files too large to hold compressed in memory. Entries carry the
// codec, level and dimensions needed to restore the pixels later; payloads
// are not self-describing.
package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/slicerlab/slicepack/format"
)

// ErrEntryNotFound indicates no entry is cached under the requested layer
// index.
var ErrEntryNotFound = errors.New("cache entry not found")

// Entry is one cached layer: the compressed payload plus everything needed
// to decompress it again.
type Entry struct {
	// Codec identifies the codec that produced Data.
	Codec format.CodecType
	// Level is the compression level Data was produced with. Informational;
	// decompression does not need it.
	Level format.Level
	// Width and Height are the layer's pixel dimensions.
	Width  int
	Height int
	// BytesPerPixel is the size of one pixel in bytes.
	BytesPerPixel int
	// Digest is the xxHash64 of the uncompressed pixel payload, used to
	// verify restored layers.
	Digest uint64
	// Data is the compressed payload.
	Data []byte
}

// UncompressedLen returns the byte length of the entry's pixel payload once
// restored.
func (e *Entry) UncompressedLen() int {
	return e.Width * e.Height * e.BytesPerPixel
}

// CompressedLen returns the byte length of the stored payload.
func (e *Entry) CompressedLen() int {
	return len(e.Data)
}

func (e *Entry) validate() error {
	if e == nil {
		return errors.New("nil cache entry")
	}
	if e.Width <= 0 || e.Height <= 0 || e.BytesPerPixel <= 0 {
		return fmt.Errorf("invalid entry dimensions %dx%dx%d", e.Width, e.Height, e.BytesPerPixel)
	}

	return nil
}

// Cache stores compressed layer entries by layer index.
//
// Implementations are safe for concurrent use. Get returns the stored entry
// as-is; callers must treat it as read-only.
type Cache interface {
	// Put stores an entry under the given layer index, replacing any
	// previous entry for that index.
	Put(index int, e *Entry) error

	// Get retrieves the entry for the given layer index.
	// Returns ErrEntryNotFound when the index has no entry.
	Get(index int) (*Entry, error)

	// Len returns the number of cached entries.
	Len() int

	// Size returns the total compressed payload size in bytes.
	Size() int64

	// Clear removes all entries.
	Clear() error

	// Close releases the cache's resources. The cache is unusable afterwards.
	Close() error
}

// MemoryCache is the in-memory Cache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int]*Entry
	size    int64
}

var _ Cache = (*MemoryCache)(nil)

// NewMemory creates an empty in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{
		entries: make(map[int]*Entry),
	}
}

// Put stores an entry under the given layer index.
func (c *MemoryCache) Put(index int, e *Entry) error {
	if index < 0 {
		return fmt.Errorf("negative layer index %d", index)
	}
	if err := e.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[index]; ok {
		c.size -= int64(len(old.Data))
	}
	c.entries[index] = e
	c.size += int64(len(e.Data))

	return nil
}

// Get retrieves the entry for the given layer index.
func (c *MemoryCache) Get(index int) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[index]
	if !ok {
		return nil, fmt.Errorf("%w: layer %d", ErrEntryNotFound, index)
	}

	return e, nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Size returns the total compressed payload size in bytes.
func (c *MemoryCache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}

// Clear removes all entries.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int]*Entry)
	c.size = 0

	return nil
}

// Close clears the cache. A closed MemoryCache can technically be reused,
// but callers should not rely on that.
func (c *MemoryCache) Close() error {
	return c.Clear()
}
