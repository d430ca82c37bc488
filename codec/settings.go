package codec

import (
	"fmt"
	"sync/atomic"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/raster"
)

// defaultSetting holds the process-wide codec/level pair packed into one
// word, so a compress call observes a consistent pair with a single atomic
// load. The benchmark runner rewrites it between trials.
var defaultSetting atomic.Uint32

func init() {
	defaultSetting.Store(packSetting(format.CodecPNG, format.LevelDefault))
}

func packSetting(ct format.CodecType, level format.Level) uint32 {
	return uint32(ct)<<8 | uint32(level)
}

func unpackSetting(v uint32) (format.CodecType, format.Level) {
	return format.CodecType(v >> 8), format.Level(v & 0xFF)
}

// Default returns the process-wide default codec type and compression level
// used by Compress calls that carry no explicit codec.
func Default() (format.CodecType, format.Level) {
	return unpackSetting(defaultSetting.Load())
}

// SetDefault replaces the process-wide default codec/level pair.
//
// The pair is validated against the closed enumerations before it is stored,
// so a successful SetDefault guarantees later Compress calls cannot fail on
// codec selection. Callers must not race SetDefault against in-flight
// Compress calls that should observe the old pair; the default is read at
// compress time, not at buffer creation time.
func SetDefault(ct format.CodecType, level format.Level) error {
	if _, err := Lookup(ct); err != nil {
		return err
	}
	switch level {
	case format.LevelFastest, format.LevelDefault, format.LevelBest:
	default:
		return fmt.Errorf("%w: level %s", ErrUnsupportedCombination, level)
	}

	defaultSetting.Store(packSetting(ct, level))

	return nil
}

// Compress compresses buf with the process-wide default codec and level.
func Compress(buf *raster.Buffer) ([]byte, error) {
	ct, level := Default()
	c, err := Lookup(ct)
	if err != nil {
		return nil, err
	}

	return c.Compress(buf, level)
}

// Decompress restores data into dst using the specified codec. Payloads are
// not self-describing, so the codec type that produced the data must be
// supplied by the caller.
func Decompress(ct format.CodecType, data []byte, dst *raster.Buffer) error {
	c, err := Lookup(ct)
	if err != nil {
		return err
	}

	return c.Decompress(data, dst)
}
