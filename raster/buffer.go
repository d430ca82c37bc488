// Package raster provides the in-memory pixel buffer type shared by the
// slicepack codecs.
//
// A Buffer is a read/write view over a 2D grid of single-channel 8-bit
// pixels. Buffers created by New own a contiguous backing slice; View
// produces strided sub-views that alias the parent's memory, which is how
// non-contiguous buffers arise. Codecs branch on Contiguous to decide
// between one flat write and per-row access.
package raster

import (
	"fmt"
	"image"
)

// grayBPP is the only pixel format slicer layers use: one byte per pixel.
const grayBPP = 1

// Buffer is a width × height grid of raw pixel bytes with an explicit row
// stride. The total pixel payload is always Width*Height*BytesPerPixel
// regardless of stride.
type Buffer struct {
	width  int
	height int
	bpp    int
	stride int
	pix    []byte
}

// New creates a contiguous grayscale buffer of the given dimensions.
// Width and height must be positive.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", width, height)
	}

	return &Buffer{
		width:  width,
		height: height,
		bpp:    grayBPP,
		stride: width * grayBPP,
		pix:    make([]byte, width*height*grayBPP),
	}, nil
}

// NewWithPix wraps an existing flat pixel slice without copying.
// The slice length must be exactly width*height bytes.
func NewWithPix(width, height int, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*grayBPP {
		return nil, fmt.Errorf("pixel slice is %d bytes, want %d for %dx%d", len(pix), width*height*grayBPP, width, height)
	}

	return &Buffer{
		width:  width,
		height: height,
		bpp:    grayBPP,
		stride: width * grayBPP,
		pix:    pix,
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// BytesPerPixel returns the size of one pixel in bytes.
func (b *Buffer) BytesPerPixel() int { return b.bpp }

// Stride returns the byte distance between vertically adjacent pixels.
func (b *Buffer) Stride() int { return b.stride }

// ByteLen returns the total pixel payload size: Width*Height*BytesPerPixel.
// This is the exact number of bytes a decompression must produce.
func (b *Buffer) ByteLen() int { return b.width * b.height * b.bpp }

// RowLen returns the byte length of one row's pixel span.
func (b *Buffer) RowLen() int { return b.width * b.bpp }

// Contiguous reports whether the pixel rows are adjacent in memory, i.e. the
// whole payload is one flat span. Full-width views remain contiguous;
// narrower views do not.
func (b *Buffer) Contiguous() bool { return b.stride == b.width*b.bpp }

// Pix returns the whole pixel payload as one flat span. It panics if the
// buffer is not contiguous; callers must branch on Contiguous and fall back
// to Row access.
func (b *Buffer) Pix() []byte {
	if !b.Contiguous() {
		panic("raster: Pix called on non-contiguous buffer")
	}

	return b.pix[:b.ByteLen()]
}

// Row returns the pixel span of row y, top row first. The returned slice
// aliases the buffer's memory.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		panic(fmt.Sprintf("raster: row %d out of range [0,%d)", y, b.height))
	}
	off := y * b.stride

	return b.pix[off : off+b.RowLen() : off+b.RowLen()]
}

// View returns a sub-buffer covering the rectangle (x, y)-(x+w, y+h).
// The view shares the parent's memory: writes through the view are visible
// in the parent. A view narrower than its parent is non-contiguous.
func (b *Buffer) View(x, y, w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > b.width || y+h > b.height {
		return nil, fmt.Errorf("view %dx%d at (%d,%d) outside %dx%d buffer", w, h, x, y, b.width, b.height)
	}
	off := y*b.stride + x*b.bpp
	end := off + (h-1)*b.stride + w*b.bpp

	return &Buffer{
		width:  w,
		height: h,
		bpp:    b.bpp,
		stride: b.stride,
		pix:    b.pix[off:end],
	}, nil
}

// At returns the pixel value at (x, y).
func (b *Buffer) At(x, y int) byte {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("raster: pixel (%d,%d) out of range %dx%d", x, y, b.width, b.height))
	}

	return b.pix[y*b.stride+x*b.bpp]
}

// Set writes the pixel value at (x, y).
func (b *Buffer) Set(x, y int, v byte) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("raster: pixel (%d,%d) out of range %dx%d", x, y, b.width, b.height))
	}
	b.pix[y*b.stride+x*b.bpp] = v
}

// Fill sets every pixel to v.
func (b *Buffer) Fill(v byte) {
	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		for i := range row {
			row[i] = v
		}
	}
}

// Clone returns a compact contiguous copy of the buffer's pixel content.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		width:  b.width,
		height: b.height,
		bpp:    b.bpp,
		stride: b.width * b.bpp,
		pix:    make([]byte, b.ByteLen()),
	}
	for y := 0; y < b.height; y++ {
		copy(out.Row(y), b.Row(y))
	}

	return out
}

// Equal reports whether two buffers have identical dimensions and pixel
// content, ignoring stride differences.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.width != other.width || b.height != other.height || b.bpp != other.bpp {
		return false
	}
	for y := 0; y < b.height; y++ {
		ra, rb := b.Row(y), other.Row(y)
		for i := range ra {
			if ra[i] != rb[i] {
				return false
			}
		}
	}

	return true
}

// GrayImage wraps the buffer as an *image.Gray without copying pixels.
// image.Gray carries its own stride, so views wrap cleanly too; writes to
// the returned image land in the buffer.
func (b *Buffer) GrayImage() *image.Gray {
	return &image.Gray{
		Pix:    b.pix,
		Stride: b.stride,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// FromGrayImage wraps an *image.Gray as a Buffer without copying pixels.
// Sub-images carry a non-zero origin; the wrap is re-based so the buffer's
// (0,0) is the image's top-left pixel.
func FromGrayImage(img *image.Gray) (*Buffer, error) {
	r := img.Bounds()
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid image bounds %v", r)
	}
	off := img.PixOffset(r.Min.X, r.Min.Y)
	end := off + (r.Dy()-1)*img.Stride + r.Dx()*grayBPP
	if end > len(img.Pix) {
		return nil, fmt.Errorf("image pixel slice too short: %d < %d", len(img.Pix), end)
	}

	return &Buffer{
		width:  r.Dx(),
		height: r.Dy(),
		bpp:    grayBPP,
		stride: img.Stride,
		pix:    img.Pix[off:end],
	}, nil
}
