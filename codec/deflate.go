package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/pool"
	"github.com/slicerlab/slicepack/raster"
)

// flateLevel maps the ordinal compression level onto flate's numeric scale.
// Deflate, GZip and ZLib all share this mapping since they wrap the same
// compressed stream format.
func flateLevel(level format.Level) (int, error) {
	switch level {
	case format.LevelFastest:
		return flate.BestSpeed, nil
	case format.LevelDefault:
		return flate.DefaultCompression, nil
	case format.LevelBest:
		return flate.BestCompression, nil
	default:
		return 0, fmt.Errorf("%w: level %s", ErrUnsupportedCombination, level)
	}
}

// deflateWriterPools holds one writer pool per ordinal level. Flate writers
// carry sizable internal state that is expensive to recreate per layer.
var deflateWriterPools [format.LevelBest + 1]sync.Pool

func getDeflateWriter(level format.Level, w io.Writer) (*flate.Writer, error) {
	fl, err := flateLevel(level)
	if err != nil {
		return nil, err
	}

	if zw, ok := deflateWriterPools[level].Get().(*flate.Writer); ok {
		zw.Reset(w)
		return zw, nil
	}

	return flate.NewWriter(w, fl)
}

// DeflateCodec compresses layer payloads as raw DEFLATE streams.
type DeflateCodec struct{}

var _ Codec = (*DeflateCodec)(nil)

// NewDeflateCodec creates a new raw DEFLATE codec.
func NewDeflateCodec() DeflateCodec {
	return DeflateCodec{}
}

// Type returns format.CodecDeflate.
func (c DeflateCodec) Type() format.CodecType { return format.CodecDeflate }

// Compress streams the buffer's pixel bytes through a DEFLATE writer at the
// mapped level and returns the compressed stream.
func (c DeflateCodec) Compress(buf *raster.Buffer, level format.Level) ([]byte, error) {
	bb := pool.GetLayerBuffer()
	defer pool.PutLayerBuffer(bb)

	zw, err := getDeflateWriter(level, bb)
	if err != nil {
		return nil, err
	}
	defer deflateWriterPools[level].Put(zw)

	if err := writeTo(zw, buf); err != nil {
		return nil, fmt.Errorf("deflate compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("deflate compress: %w", err)
	}

	return bb.CopyBytes(), nil
}

// Decompress inflates the payload into dst, which must consume exactly
// dst.ByteLen() decoded bytes.
func (c DeflateCodec) Decompress(data []byte, dst *raster.Buffer) error {
	zr := flate.NewReader(bytes.NewReader(data))
	defer zr.Close()

	return readInto(zr, dst)
}
