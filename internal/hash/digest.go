package hash

import "github.com/cespare/xxhash/v2"

// RowSource is a row-addressable pixel payload. It is satisfied by
// raster.Buffer without an explicit dependency.
type RowSource interface {
	Contiguous() bool
	Pix() []byte
	Height() int
	Row(y int) []byte
}

// Sum64 computes the xxHash64 of the given bytes.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumRows computes the xxHash64 of a row-addressable payload. The result
// equals Sum64 over the concatenated rows, so strided and contiguous sources
// with the same pixels always produce the same digest.
func SumRows(src RowSource) uint64 {
	if src.Contiguous() {
		return xxhash.Sum64(src.Pix())
	}

	d := xxhash.New()
	for y := 0; y < src.Height(); y++ {
		_, _ = d.Write(src.Row(y))
	}

	return d.Sum64()
}
