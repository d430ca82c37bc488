package codec

import (
	"context"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/raster"
)

// CompressResult carries the outcome of an asynchronous compress call.
type CompressResult struct {
	// Data is the compressed payload, nil when Err is set.
	Data []byte
	// Err is the compression error, or the context's error when the call was
	// cancelled before it started.
	Err error
}

// CompressAsync runs c.Compress on a background goroutine and delivers the
// result on the returned channel. The channel is buffered, so the result can
// be collected late without leaking the goroutine.
//
// Cancellation is only honored before the compression starts; once the codec
// begins writing, the operation runs to completion. This keeps codecs free
// of mid-stream interruption handling, which no pooled writer supports.
func CompressAsync(ctx context.Context, c Codec, buf *raster.Buffer, level format.Level) <-chan CompressResult {
	ch := make(chan CompressResult, 1)

	go func() {
		if err := ctx.Err(); err != nil {
			ch <- CompressResult{Err: err}
			return
		}
		data, err := c.Compress(buf, level)
		ch <- CompressResult{Data: data, Err: err}
	}()

	return ch
}

// DecompressAsync runs c.Decompress on a background goroutine and delivers
// its error on the returned channel. Cancellation semantics match
// CompressAsync: the context is checked once before the decode starts.
//
// The caller must not touch dst until the channel delivers, the decoder
// writes into it concurrently.
func DecompressAsync(ctx context.Context, c Codec, data []byte, dst *raster.Buffer) <-chan error {
	ch := make(chan error, 1)

	go func() {
		if err := ctx.Err(); err != nil {
			ch <- err
			return
		}
		ch <- c.Decompress(data, dst)
	}()

	return ch
}
