package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/pool"
	"github.com/slicerlab/slicepack/raster"
)

// pngEncoderBufferPool recycles png.EncoderBuffer scratch state between
// encodes. A nil Get is fine, the encoder allocates on demand.
type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	eb, _ := p.pool.Get().(*png.EncoderBuffer)
	return eb
}

func (p *pngEncoderBufferPool) Put(eb *png.EncoderBuffer) {
	p.pool.Put(eb)
}

// pngEncoder is shared by both PNG codecs. Layer buffers are grayscale, so
// every encode emits an 8-bit gray PNG. The encoder manages its own internal
// compression parameters; the ordinal level argument is deliberately ignored.
var pngEncoder = &png.Encoder{
	CompressionLevel: png.DefaultCompression,
	BufferPool:       &pngEncoderBufferPool{},
}

func encodePNG(buf *raster.Buffer) ([]byte, error) {
	bb := pool.GetLayerBuffer()
	defer pool.PutLayerBuffer(bb)

	if err := pngEncoder.Encode(bb, buf.GrayImage()); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}

	return bb.CopyBytes(), nil
}

func checkDecodedDims(r image.Rectangle, dst *raster.Buffer) error {
	if r.Dx() != dst.Width() || r.Dy() != dst.Height() {
		return fmt.Errorf("%w: decoded image is %dx%d, destination is %dx%d",
			ErrSizeMismatch, r.Dx(), r.Dy(), dst.Width(), dst.Height())
	}

	return nil
}

// PNGCodec stores layer payloads as lossless 8-bit grayscale PNG images.
//
// Decode is strict: the payload must decode to an 8-bit grayscale image with
// the destination's exact dimensions. Payloads in any other color model are
// rejected; use PNGGrayCodec to force a grayscale conversion instead.
type PNGCodec struct{}

var _ Codec = (*PNGCodec)(nil)

// NewPNGCodec creates a new strict PNG codec.
func NewPNGCodec() PNGCodec {
	return PNGCodec{}
}

// Type returns format.CodecPNG.
func (c PNGCodec) Type() format.CodecType { return format.CodecPNG }

// Compress encodes the buffer as a grayscale PNG. The level argument is
// ignored; the image codec controls its own compression parameters.
func (c PNGCodec) Compress(buf *raster.Buffer, _ format.Level) ([]byte, error) {
	return encodePNG(buf)
}

// Decompress decodes a PNG payload into dst. The payload must be an 8-bit
// grayscale image matching dst's dimensions exactly.
func (c PNGCodec) Decompress(data []byte, dst *raster.Buffer) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		return fmt.Errorf("%w: decoded image is %T, want 8-bit grayscale", ErrSizeMismatch, img)
	}
	if err := checkDecodedDims(gray.Bounds(), dst); err != nil {
		return err
	}

	src, err := raster.FromGrayImage(gray)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	for y := 0; y < dst.Height(); y++ {
		copy(dst.Row(y), src.Row(y))
	}

	return nil
}

// PNGGrayCodec stores layer payloads as lossless PNG images and forces a
// single-channel grayscale decode regardless of the encoded channel count.
//
// Encoding is identical to PNGCodec. On decode, payloads in other color
// models are converted to 8-bit grayscale instead of rejected.
type PNGGrayCodec struct{}

var _ Codec = (*PNGGrayCodec)(nil)

// NewPNGGrayCodec creates a new grayscale-forcing PNG codec.
func NewPNGGrayCodec() PNGGrayCodec {
	return PNGGrayCodec{}
}

// Type returns format.CodecPNGGray.
func (c PNGGrayCodec) Type() format.CodecType { return format.CodecPNGGray }

// Compress encodes the buffer as a grayscale PNG. The level argument is
// ignored; the image codec controls its own compression parameters.
func (c PNGGrayCodec) Compress(buf *raster.Buffer, _ format.Level) ([]byte, error) {
	return encodePNG(buf)
}

// Decompress decodes a PNG payload into dst, converting to 8-bit grayscale
// when the payload was encoded with a different color model. Dimensions must
// still match dst exactly.
func (c PNGGrayCodec) Decompress(data []byte, dst *raster.Buffer) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	if err := checkDecodedDims(img.Bounds(), dst); err != nil {
		return err
	}

	// Drawing into the gray wrap converts and writes straight into dst's
	// memory, strided views included.
	out := dst.GrayImage()
	xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Src)

	return nil
}
