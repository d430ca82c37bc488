package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/pool"
	"github.com/slicerlab/slicepack/raster"
)

// lz4Level maps the ordinal compression level onto lz4's own level
// enumeration. LZ4 has no continuous scale, so the three ordinals land on
// its coarse tiers: fast mode, mid-range HC, and maximum HC.
func lz4Level(level format.Level) (lz4.CompressionLevel, error) {
	switch level {
	case format.LevelFastest:
		return lz4.Fast, nil
	case format.LevelDefault:
		return lz4.Level5, nil
	case format.LevelBest:
		return lz4.Level9, nil
	default:
		return 0, fmt.Errorf("%w: level %s", ErrUnsupportedCombination, level)
	}
}

var lz4WriterPools [format.LevelBest + 1]sync.Pool

func getLZ4Writer(level format.Level, w io.Writer) (*lz4.Writer, error) {
	cl, err := lz4Level(level)
	if err != nil {
		return nil, err
	}

	if zw, ok := lz4WriterPools[level].Get().(*lz4.Writer); ok {
		zw.Reset(w)
		return zw, nil
	}

	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(cl)); err != nil {
		return nil, fmt.Errorf("lz4 level option: %w", err)
	}

	return zw, nil
}

// LZ4Codec compresses layer payloads as LZ4 frames. Fast on both ends with a
// more modest ratio than the flate family.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 frame codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Type returns format.CodecLZ4.
func (c LZ4Codec) Type() format.CodecType { return format.CodecLZ4 }

// Compress streams the buffer's pixel bytes through an LZ4 frame writer at
// the mapped tier and returns the compressed frame.
func (c LZ4Codec) Compress(buf *raster.Buffer, level format.Level) ([]byte, error) {
	bb := pool.GetLayerBuffer()
	defer pool.PutLayerBuffer(bb)

	zw, err := getLZ4Writer(level, bb)
	if err != nil {
		return nil, err
	}
	defer lz4WriterPools[level].Put(zw)

	if err := writeTo(zw, buf); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	return bb.CopyBytes(), nil
}

// Decompress decodes the frame into dst, which must consume exactly
// dst.ByteLen() decoded bytes.
func (c LZ4Codec) Decompress(data []byte, dst *raster.Buffer) error {
	return readInto(lz4.NewReader(bytes.NewReader(data)), dst)
}
