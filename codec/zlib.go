package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/pool"
	"github.com/slicerlab/slicepack/raster"
)

var zlibWriterPools [format.LevelBest + 1]sync.Pool

func getZLibWriter(level format.Level, w io.Writer) (*zlib.Writer, error) {
	fl, err := flateLevel(level)
	if err != nil {
		return nil, err
	}

	if zw, ok := zlibWriterPools[level].Get().(*zlib.Writer); ok {
		zw.Reset(w)
		return zw, nil
	}

	return zlib.NewWriterLevel(w, fl)
}

// ZLibCodec compresses layer payloads as zlib streams.
type ZLibCodec struct{}

var _ Codec = (*ZLibCodec)(nil)

// NewZLibCodec creates a new zlib codec.
func NewZLibCodec() ZLibCodec {
	return ZLibCodec{}
}

// Type returns format.CodecZLib.
func (c ZLibCodec) Type() format.CodecType { return format.CodecZLib }

// Compress streams the buffer's pixel bytes through a zlib writer at the
// mapped level and returns the compressed stream.
func (c ZLibCodec) Compress(buf *raster.Buffer, level format.Level) ([]byte, error) {
	bb := pool.GetLayerBuffer()
	defer pool.PutLayerBuffer(bb)

	zw, err := getZLibWriter(level, bb)
	if err != nil {
		return nil, err
	}
	defer zlibWriterPools[level].Put(zw)

	if err := writeTo(zw, buf); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}

	return bb.CopyBytes(), nil
}

// Decompress inflates the payload into dst. An invalid zlib header is
// reported as ErrCorruptStream before any pixel data is written.
func (c ZLibCodec) Decompress(data []byte, dst *raster.Buffer) error {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer zr.Close()

	return readInto(zr, dst)
}
