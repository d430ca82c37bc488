package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/slicerlab/slicepack/endian"
	"github.com/slicerlab/slicepack/internal/log"
)

// Layer keys are the prefix plus a big-endian index, so pebble iterates
// layers in numeric order. '0' is the byte after '/', which makes it the
// natural exclusive upper bound for the key space.
var (
	layerKeyLower = []byte("layer/")
	layerKeyUpper = []byte("layer0")
)

func layerKey(index int) []byte {
	key := make([]byte, 0, len(layerKeyLower)+8)
	key = append(key, layerKeyLower...)

	return endian.GetBigEndianEngine().AppendUint64(key, uint64(index))
}

// pebbleLogger routes pebble's event log into the shared slog logger.
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...any) {
	log.Logger().Debug(fmt.Sprintf(format, args...), "component", "pebble")
}

func (pebbleLogger) Fatalf(format string, args ...any) {
	log.Logger().Error(fmt.Sprintf(format, args...), "component", "pebble")
	panic(fmt.Sprintf(format, args...))
}

// DiskCache is the pebble-backed Cache implementation for files whose
// compressed layers do not fit in memory.
//
// Writes are unsynced: the cache is rebuildable from the source file, so
// losing it in a crash costs a re-open, not data.
type DiskCache struct {
	db *pebble.DB

	mu    sync.RWMutex
	sizes map[int]int
	size  int64
}

var _ Cache = (*DiskCache)(nil)

// OpenDisk opens (or creates) a disk cache at dir. An existing store is
// picked up where it was left: entry counts and sizes are rebuilt by one
// scan of the layer key space.
func OpenDisk(dir string) (*DiskCache, error) {
	db, err := pebble.Open(dir, &pebble.Options{Logger: pebbleLogger{}})
	if err != nil {
		return nil, fmt.Errorf("open disk cache: %w", err)
	}

	c := &DiskCache{
		db:    db,
		sizes: make(map[int]int),
	}
	if err := c.rebuildStats(); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Logger().Debug("disk cache opened", "dir", dir, "layers", c.Len())

	return c, nil
}

func (c *DiskCache) rebuildStats() error {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: layerKeyLower,
		UpperBound: layerKeyUpper,
	})
	if err != nil {
		return fmt.Errorf("scan disk cache: %w", err)
	}
	defer iter.Close()

	engine := endian.GetBigEndianEngine()
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != len(layerKeyLower)+8 {
			return fmt.Errorf("malformed cache key %q", key)
		}
		index := int(engine.Uint64(key[len(layerKeyLower):]))

		e, err := decodeRecord(iter.Value())
		if err != nil {
			return fmt.Errorf("layer %d: %w", index, err)
		}
		c.sizes[index] = len(e.Data)
		c.size += int64(len(e.Data))
	}

	return iter.Error()
}

// Put stores an entry under the given layer index.
func (c *DiskCache) Put(index int, e *Entry) error {
	if index < 0 {
		return fmt.Errorf("negative layer index %d", index)
	}
	if err := e.validate(); err != nil {
		return err
	}

	if err := c.db.Set(layerKey(index), encodeRecord(e), pebble.NoSync); err != nil {
		return fmt.Errorf("store layer %d: %w", index, err)
	}

	c.mu.Lock()
	if old, ok := c.sizes[index]; ok {
		c.size -= int64(old)
	}
	c.sizes[index] = len(e.Data)
	c.size += int64(len(e.Data))
	c.mu.Unlock()

	return nil
}

// Get retrieves the entry for the given layer index.
func (c *DiskCache) Get(index int) (*Entry, error) {
	value, closer, err := c.db.Get(layerKey(index))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: layer %d", ErrEntryNotFound, index)
		}

		return nil, fmt.Errorf("load layer %d: %w", index, err)
	}
	defer closer.Close()

	e, err := decodeRecord(value)
	if err != nil {
		return nil, fmt.Errorf("layer %d: %w", index, err)
	}

	return e, nil
}

// Len returns the number of cached entries.
func (c *DiskCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.sizes)
}

// Size returns the total compressed payload size in bytes.
func (c *DiskCache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}

// Clear removes all entries but keeps the store open.
func (c *DiskCache) Clear() error {
	if err := c.db.DeleteRange(layerKeyLower, layerKeyUpper, pebble.NoSync); err != nil {
		return fmt.Errorf("clear disk cache: %w", err)
	}

	c.mu.Lock()
	c.sizes = make(map[int]int)
	c.size = 0
	c.mu.Unlock()

	return nil
}

// Close closes the underlying store.
func (c *DiskCache) Close() error {
	return c.db.Close()
}
