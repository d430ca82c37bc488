package codec

import (
	"fmt"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/raster"
)

// Compressor compresses one layer's raster buffer into an opaque payload.
//
// The payload is not self-describing: the codec type and the original buffer
// dimensions must be carried externally (the layer cache stores both) to
// decompress it later.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - The input buffer is only read, never modified
//   - Internal scratch buffers may be pooled and reused across calls
type Compressor interface {
	// Compress compresses the buffer's pixel payload at the given level.
	//
	// Codecs that have no native level scale (None, PNG, PNGGray) ignore the
	// level argument.
	Compress(buf *raster.Buffer, level format.Level) ([]byte, error)
}

// Decompressor restores a compressed layer payload into a destination
// raster buffer.
//
// The destination carries the expected dimensions; decompression must write
// exactly dst.ByteLen() bytes into it. Implementations return
// ErrSizeMismatch when the decoded payload disagrees with the destination's
// byte length and ErrCorruptStream when the input is malformed or ends
// early.
type Decompressor interface {
	// Decompress decodes data into dst. The data must have been produced by
	// the same codec; payloads carry no codec marker of their own.
	Decompress(data []byte, dst *raster.Buffer) error
}

// Codec combines compression and decompression for one compression scheme.
//
// Implementations are stateless singletons: one shared instance per codec
// type, safe for concurrent use across independent buffers.
type Codec interface {
	// Type returns the codec identifier this implementation handles.
	Type() format.CodecType

	Compressor
	Decompressor
}

// builtinCodecs maps every codec type to its shared stateless instance.
var builtinCodecs = map[format.CodecType]Codec{
	format.CodecNone:    NewNoneCodec(),
	format.CodecPNG:     NewPNGCodec(),
	format.CodecPNGGray: NewPNGGrayCodec(),
	format.CodecDeflate: NewDeflateCodec(),
	format.CodecGZip:    NewGZipCodec(),
	format.CodecZLib:    NewZLibCodec(),
	format.CodecBrotli:  NewBrotliCodec(),
	format.CodecLZ4:     NewLZ4Codec(),
}

// Lookup retrieves the built-in Codec singleton for the specified codec type.
//
// Returns:
//   - Codec: shared stateless codec instance
//   - error: ErrUnsupportedCombination if the type is outside the closed set
func Lookup(ct format.CodecType) (Codec, error) {
	if c, ok := builtinCodecs[ct]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: codec %s", ErrUnsupportedCombination, ct)
}
