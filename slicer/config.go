package slicer

import (
	"errors"
	"fmt"

	"github.com/slicerlab/slicepack/cache"
	"github.com/slicerlab/slicepack/codec"
	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/options"
)

// FileConfig holds the configuration applied while opening a slicer file.
type FileConfig struct {
	codecType format.CodecType
	level     format.Level
	cache     cache.Cache
}

// newFileConfig seeds the configuration from the process-wide default
// codec/level pair. Opening without explicit options therefore follows
// whatever the benchmark runner (or the embedding application) configured.
func newFileConfig() *FileConfig {
	ct, level := codec.Default()

	return &FileConfig{
		codecType: ct,
		level:     level,
	}
}

// FileOption represents a functional option for configuring how a slicer
// file is opened. This is a type alias for the generic Option interface
// specialized for FileConfig.
type FileOption = options.Option[*FileConfig]

// WithCodec selects the codec used to compress the file's layers, overriding
// the process-wide default.
func WithCodec(ct format.CodecType) FileOption {
	return options.New(func(c *FileConfig) error {
		if _, err := codec.Lookup(ct); err != nil {
			return err
		}
		c.codecType = ct

		return nil
	})
}

// WithLevel selects the compression level used for the file's layers,
// overriding the process-wide default.
func WithLevel(level format.Level) FileOption {
	return options.New(func(c *FileConfig) error {
		switch level {
		case format.LevelFastest, format.LevelDefault, format.LevelBest:
			c.level = level
			return nil
		default:
			return fmt.Errorf("unknown compression level %d", uint8(level))
		}
	})
}

// WithCache stores the file's layers in the given cache instead of a fresh
// in-memory one. The caller keeps ownership: closing the file leaves the
// cache open.
func WithCache(c cache.Cache) FileOption {
	return options.New(func(cfg *FileConfig) error {
		if c == nil {
			return errors.New("nil cache")
		}
		cfg.cache = c

		return nil
	})
}
