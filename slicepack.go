// Package slicepack compresses per-layer raster buffers from sliced 3D
// print files and benchmarks which codec suits a given workload.
//
// A sliced print file carries hundreds to thousands of single-channel 8-bit
// layer images. Holding them raw is expensive (a 4K mSLA plate is ~8MiB per
// layer), so layers are compressed into a cache right after decode and
// restored on demand. Which codec pays off depends on the plate: sparse
// supports compress brilliantly under PNG, dense lattices may favor LZ4's
// speed. The bench package answers that question empirically.
//
// # Core Features
//
//   - Eight interchangeable codecs behind one contract: None, PNG, PNGGray,
//     Deflate, GZip, ZLib, Brotli and LZ4
//   - Strided sub-views compress without flattening into a padded copy
//   - Exact byte-for-byte round trip for every codec at every level
//   - In-memory and on-disk (pebble) layer caches
//   - A sequential benchmark harness with ranked recommendations
//
// # Basic Usage
//
// Opening a slice archive and reading layers back:
//
//	import "github.com/slicerlab/slicepack"
//	import "github.com/slicerlab/slicepack/slicer"
//
//	f, err := slicer.Open("plate.sl1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	fmt.Printf("%d layers, %s compressed\n", f.LayerCount(), f.CacheSizeHuman())
//
//	layer, err := f.Layer(0) // decompressed from the cache
//
// Compressing a single buffer with the process-wide default codec:
//
//	buf, _ := raster.New(3840, 2400)
//	payload, err := slicepack.Compress(buf)
//
// Choosing the default codec for the whole process:
//
//	slicepack.SetDefault(format.CodecLZ4, format.LevelFastest)
//
// Benchmarking a real file to pick a codec:
//
//	runner, _ := bench.NewRunner("plate.sl1")
//	result, err := runner.Run()
//
// # Packages
//
//   - format: the closed codec and level enumerations
//   - raster: the pixel buffer view type
//   - codec: the codec implementations, async wrappers and defaults
//   - cache: in-memory and on-disk compressed layer caches
//   - slicer: the slice-archive reader feeding layers into a cache
//   - bench: the codec/level benchmark harness
//
// This package provides convenient top-level wrappers around codec and the
// shared logger. For full control, use the sub-packages directly.
package slicepack

import (
	"github.com/slicerlab/slicepack/codec"
	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/hash"
	"github.com/slicerlab/slicepack/raster"
)

// Compress compresses buf with the process-wide default codec and level.
// The returned payload is not self-describing; keep the codec type and the
// buffer dimensions next to it (the cache package does this for you).
func Compress(buf *raster.Buffer) ([]byte, error) {
	return codec.Compress(buf)
}

// Decompress restores data into dst using the codec that produced it.
func Decompress(ct format.CodecType, data []byte, dst *raster.Buffer) error {
	return codec.Decompress(ct, data, dst)
}

// Default returns the process-wide default codec type and compression level.
func Default() (format.CodecType, format.Level) {
	return codec.Default()
}

// SetDefault replaces the process-wide default codec/level pair used by
// Compress calls without an explicit codec.
func SetDefault(ct format.CodecType, level format.Level) error {
	return codec.SetDefault(ct, level)
}

// LayerDigest computes the xxHash64 digest of a layer's raw pixel bytes,
// the same digest the cache stores to verify restored layers.
func LayerDigest(pix []byte) uint64 {
	return hash.Sum64(pix)
}
