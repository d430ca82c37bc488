package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slicerlab/slicepack/raster"
)

func TestWriteToContiguous(t *testing.T) {
	buf, err := raster.New(4, 3)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		buf.Set(i%4, i/4, byte(i))
	}

	var out bytes.Buffer
	require.NoError(t, writeTo(&out, buf))
	require.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, out.Bytes())
}

func TestWriteToStrided(t *testing.T) {
	parent, err := raster.New(6, 5)
	require.NoError(t, err)
	parent.Fill(0xFF)

	view, err := parent.View(1, 1, 3, 2)
	require.NoError(t, err)
	view.Set(0, 0, 1)
	view.Set(1, 0, 2)
	view.Set(2, 0, 3)
	view.Set(0, 1, 4)
	view.Set(1, 1, 5)
	view.Set(2, 1, 6)

	// Rows must come out top to bottom with no padding bytes between them.
	var out bytes.Buffer
	require.NoError(t, writeTo(&out, view))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out.Bytes())
}

func TestReadIntoFillsExactly(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6}

	dst, err := raster.New(3, 2)
	require.NoError(t, err)
	require.NoError(t, readInto(bytes.NewReader(payload), dst))
	require.Equal(t, byte(1), dst.At(0, 0))
	require.Equal(t, byte(6), dst.At(2, 1))

	parent, err := raster.New(5, 4)
	require.NoError(t, err)
	view, err := parent.View(1, 1, 3, 2)
	require.NoError(t, err)
	require.NoError(t, readInto(bytes.NewReader(payload), view))
	require.Equal(t, byte(1), parent.At(1, 1))
	require.Equal(t, byte(6), parent.At(3, 2))
	// Pixels outside the view stay untouched.
	require.Equal(t, byte(0), parent.At(0, 0))
	require.Equal(t, byte(0), parent.At(4, 3))
}

func TestReadIntoShortStream(t *testing.T) {
	dst, err := raster.New(4, 4)
	require.NoError(t, err)

	err = readInto(bytes.NewReader(make([]byte, 10)), dst)
	require.ErrorIs(t, err, ErrCorruptStream)

	parent, err := raster.New(6, 6)
	require.NoError(t, err)
	view, err := parent.View(1, 1, 4, 4)
	require.NoError(t, err)

	err = readInto(bytes.NewReader(make([]byte, 10)), view)
	require.ErrorIs(t, err, ErrCorruptStream)
}

type failWriter struct{ err error }

func (w failWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestWriteToPropagatesWriterError(t *testing.T) {
	buf, err := raster.New(2, 2)
	require.NoError(t, err)

	werr := errors.New("sink closed")
	require.ErrorIs(t, writeTo(failWriter{err: werr}, buf), werr)
}
