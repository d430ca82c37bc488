package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/pool"
	"github.com/slicerlab/slicepack/raster"
)

// brotliLevel maps the ordinal compression level onto brotli's 0-11 quality
// scale. Quality 11 is prohibitively slow on layer-sized payloads, which is
// why the benchmark runner skips the (Brotli, Best) trial.
func brotliLevel(level format.Level) (int, error) {
	switch level {
	case format.LevelFastest:
		return brotli.BestSpeed, nil
	case format.LevelDefault:
		return brotli.DefaultCompression, nil
	case format.LevelBest:
		return brotli.BestCompression, nil
	default:
		return 0, fmt.Errorf("%w: level %s", ErrUnsupportedCombination, level)
	}
}

var brotliWriterPools [format.LevelBest + 1]sync.Pool

func getBrotliWriter(level format.Level, w io.Writer) (*brotli.Writer, error) {
	q, err := brotliLevel(level)
	if err != nil {
		return nil, err
	}

	if zw, ok := brotliWriterPools[level].Get().(*brotli.Writer); ok {
		zw.Reset(w)
		return zw, nil
	}

	return brotli.NewWriterLevel(w, q), nil
}

// BrotliCodec compresses layer payloads as brotli streams.
type BrotliCodec struct{}

var _ Codec = (*BrotliCodec)(nil)

// NewBrotliCodec creates a new brotli codec.
func NewBrotliCodec() BrotliCodec {
	return BrotliCodec{}
}

// Type returns format.CodecBrotli.
func (c BrotliCodec) Type() format.CodecType { return format.CodecBrotli }

// Compress streams the buffer's pixel bytes through a brotli writer at the
// mapped quality and returns the compressed stream.
func (c BrotliCodec) Compress(buf *raster.Buffer, level format.Level) ([]byte, error) {
	bb := pool.GetLayerBuffer()
	defer pool.PutLayerBuffer(bb)

	zw, err := getBrotliWriter(level, bb)
	if err != nil {
		return nil, err
	}
	defer brotliWriterPools[level].Put(zw)

	if err := writeTo(zw, buf); err != nil {
		return nil, fmt.Errorf("brotli compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("brotli compress: %w", err)
	}

	return bb.CopyBytes(), nil
}

// Decompress decodes the payload into dst, which must consume exactly
// dst.ByteLen() decoded bytes.
func (c BrotliCodec) Decompress(data []byte, dst *raster.Buffer) error {
	return readInto(brotli.NewReader(bytes.NewReader(data)), dst)
}
