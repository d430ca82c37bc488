package codec

import (
	"fmt"
	"io"

	"github.com/slicerlab/slicepack/raster"
)

// writeTo streams a buffer's pixel bytes into w without materializing a
// padded copy. Contiguous buffers are written as one flat span; strided
// views are written row by row in top-to-bottom order, which preserves
// logical pixel order. Shared by every stream-based codec.
func writeTo(w io.Writer, buf *raster.Buffer) error {
	if buf.Contiguous() {
		_, err := w.Write(buf.Pix())
		return err
	}

	for y := 0; y < buf.Height(); y++ {
		if _, err := w.Write(buf.Row(y)); err != nil {
			return err
		}
	}

	return nil
}

// readInto fills dst's pixel payload from r, branching on contiguity the
// same way writeTo does. The read must produce exactly dst.ByteLen() bytes;
// a decoder that errors or ends early yields ErrCorruptStream.
func readInto(r io.Reader, dst *raster.Buffer) error {
	if dst.Contiguous() {
		if _, err := io.ReadFull(r, dst.Pix()); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptStream, err)
		}

		return nil
	}

	for y := 0; y < dst.Height(); y++ {
		if _, err := io.ReadFull(r, dst.Row(y)); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptStream, err)
		}
	}

	return nil
}
