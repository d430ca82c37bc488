package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/pool"
	"github.com/slicerlab/slicepack/raster"
)

var gzipWriterPools [format.LevelBest + 1]sync.Pool

func getGZipWriter(level format.Level, w io.Writer) (*gzip.Writer, error) {
	fl, err := flateLevel(level)
	if err != nil {
		return nil, err
	}

	if zw, ok := gzipWriterPools[level].Get().(*gzip.Writer); ok {
		zw.Reset(w)
		return zw, nil
	}

	return gzip.NewWriterLevel(w, fl)
}

// GZipCodec compresses layer payloads as gzip streams. Same compressed core
// as Deflate with a checksummed container around it, so corrupt payloads are
// caught at the header instead of mid-stream.
type GZipCodec struct{}

var _ Codec = (*GZipCodec)(nil)

// NewGZipCodec creates a new gzip codec.
func NewGZipCodec() GZipCodec {
	return GZipCodec{}
}

// Type returns format.CodecGZip.
func (c GZipCodec) Type() format.CodecType { return format.CodecGZip }

// Compress streams the buffer's pixel bytes through a gzip writer at the
// mapped level and returns the compressed stream.
func (c GZipCodec) Compress(buf *raster.Buffer, level format.Level) ([]byte, error) {
	bb := pool.GetLayerBuffer()
	defer pool.PutLayerBuffer(bb)

	zw, err := getGZipWriter(level, bb)
	if err != nil {
		return nil, err
	}
	defer gzipWriterPools[level].Put(zw)

	if err := writeTo(zw, buf); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}

	return bb.CopyBytes(), nil
}

// Decompress inflates the payload into dst. An invalid gzip header is
// reported as ErrCorruptStream before any pixel data is written.
func (c GZipCodec) Decompress(data []byte, dst *raster.Buffer) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer zr.Close()

	return readInto(zr, dst)
}
