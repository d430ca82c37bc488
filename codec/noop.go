package codec

import (
	"fmt"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/raster"
)

// NoneCodec stores layer payloads uncompressed.
//
// The "compressed" payload is the raw pixel bytes, flattened when the source
// buffer is strided. It is the baseline every benchmark run measures other
// codecs against, and the right choice when CPU matters more than memory.
type NoneCodec struct{}

var _ Codec = (*NoneCodec)(nil)

// NewNoneCodec creates a new identity codec.
func NewNoneCodec() NoneCodec {
	return NoneCodec{}
}

// Type returns format.CodecNone.
func (c NoneCodec) Type() format.CodecType { return format.CodecNone }

// Compress returns a copy of the buffer's pixel bytes. The output length
// always equals buf.ByteLen() exactly. The level argument is ignored.
func (c NoneCodec) Compress(buf *raster.Buffer, _ format.Level) ([]byte, error) {
	out := make([]byte, 0, buf.ByteLen())
	if buf.Contiguous() {
		return append(out, buf.Pix()...), nil
	}

	for y := 0; y < buf.Height(); y++ {
		out = append(out, buf.Row(y)...)
	}

	return out, nil
}

// Decompress copies the payload bytes back into dst. The payload length must
// equal dst.ByteLen() exactly.
func (c NoneCodec) Decompress(data []byte, dst *raster.Buffer) error {
	if len(data) != dst.ByteLen() {
		return fmt.Errorf("%w: payload is %d bytes, destination wants %d", ErrSizeMismatch, len(data), dst.ByteLen())
	}

	if dst.Contiguous() {
		copy(dst.Pix(), data)
		return nil
	}

	rowLen := dst.RowLen()
	for y := 0; y < dst.Height(); y++ {
		copy(dst.Row(y), data[y*rowLen:(y+1)*rowLen])
	}

	return nil
}
