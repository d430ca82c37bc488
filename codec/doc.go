// Package codec provides the interchangeable compression strategies used to
// store slicer layer images in the layer cache.
//
// A slicer exposure file carries hundreds to thousands of layers, each a
// single-channel 8-bit raster of the printer's full LCD resolution. Holding
// them raw costs gigabytes; holding them compressed costs CPU on every layer
// access. This package supplies one Codec per compression scheme behind a
// single contract so the trade-off can be tuned per workload, and the bench
// package can measure which scheme wins for a given file.
//
// # Architecture
//
// Three core interfaces:
//
//	type Compressor interface {
//	    Compress(buf *raster.Buffer, level format.Level) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte, dst *raster.Buffer) error
//	}
//
//	type Codec interface {
//	    Type() format.CodecType
//	    Compressor
//	    Decompressor
//	}
//
// Every implementation is a stateless singleton registered under its
// format.CodecType; Lookup resolves the identifier to the shared instance:
//
//	c, err := codec.Lookup(format.CodecZLib)
//	if err != nil {
//	    return err
//	}
//	payload, err := c.Compress(layer, format.LevelDefault)
//
// Payloads are not self-describing. The codec type and the layer dimensions
// travel with the cache entry, never inside the payload, and decompression
// targets a destination buffer that already carries the expected dimensions.
//
// # Supported Codecs
//
//   - None: identity passthrough, output size always equals the pixel payload
//   - PNG: lossless grayscale PNG, strict decode
//   - PNGGray: lossless PNG, decode forces 8-bit grayscale conversion
//   - Deflate: raw DEFLATE stream
//   - GZip: DEFLATE in a checksummed gzip container
//   - ZLib: DEFLATE in a zlib container
//   - Brotli: brotli stream, best ratios but slow at high quality
//   - LZ4: LZ4 frame, fastest decode
//
// # Compression Levels
//
// Levels form a closed three-tier ordinal scale (Fastest, Default, Best)
// that each codec maps onto its native range: the flate family and brotli
// map onto their numeric quality scales, LZ4 onto its coarse tier
// enumeration, and the PNG codecs ignore the level entirely because the
// image encoder owns its internal parameters.
//
// # Non-Contiguous Buffers
//
// Layer buffers may be strided views over a larger pixel grid. Stream-based
// codecs share one adapter that writes contiguous buffers as a single flat
// span and strided buffers row by row, so sub-region views compress without
// materializing a padded copy. A strided view and its compact clone always
// produce payloads that decode to identical pixel content.
//
// # Concurrency
//
// Codec instances are immutable and safe for concurrent use on independent
// buffers; internal scratch state lives in sync.Pools. The process-wide
// default pair read by Compress is the one piece of shared mutable
// configuration: SetDefault is atomic, but callers must not rewrite it while
// in-flight Compress calls are expected to observe the old value. The
// benchmark runner relies on exactly this mutation between trials.
//
// CompressAsync and DecompressAsync wrap the synchronous calls for callers
// that need non-blocking behavior, with cancellation honored only until the
// operation starts.
//
// # Errors
//
// Decompression distinguishes two failure classes: ErrSizeMismatch when the
// decoded payload disagrees with the destination's dimensions or byte
// length, and ErrCorruptStream when the input is malformed or ends before
// the destination is filled. ErrUnsupportedCombination guards the closed
// codec/level enumerations and should not occur in practice. Errors are
// never retried internally; a failed layer is the caller's to handle.
package codec
