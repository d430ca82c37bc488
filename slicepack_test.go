package slicepack

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/raster"
)

func restoreDefault(t *testing.T) {
	t.Helper()

	ct, level := Default()
	t.Cleanup(func() {
		require.NoError(t, SetDefault(ct, level))
	})
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	restoreDefault(t)
	require.NoError(t, SetDefault(format.CodecZLib, format.LevelDefault))

	buf, err := raster.New(33, 17)
	require.NoError(t, err)
	for y := 0; y < buf.Height(); y++ {
		row := buf.Row(y)
		for x := range row {
			row[x] = byte(x ^ y)
		}
	}

	payload, err := Compress(buf)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	restored, err := raster.New(33, 17)
	require.NoError(t, err)
	require.NoError(t, Decompress(format.CodecZLib, payload, restored))
	require.True(t, buf.Equal(restored))
}

func TestSetDefault(t *testing.T) {
	restoreDefault(t)

	require.NoError(t, SetDefault(format.CodecLZ4, format.LevelBest))
	ct, level := Default()
	require.Equal(t, format.CodecLZ4, ct)
	require.Equal(t, format.LevelBest, level)

	require.Error(t, SetDefault(format.CodecType(0xFF), format.LevelBest))
	ct, level = Default()
	require.Equal(t, format.CodecLZ4, ct, "failed SetDefault must not change the pair")
	require.Equal(t, format.LevelBest, level)
}

func TestLayerDigest(t *testing.T) {
	a := LayerDigest([]byte{1, 2, 3, 4})
	b := LayerDigest([]byte{1, 2, 3, 4})
	c := LayerDigest([]byte{4, 3, 2, 1})

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Logger().Debug("hello")
	require.Contains(t, out.String(), "hello")

	SetLogger(nil)
	out.Reset()
	Logger().Debug("silent")
	require.Empty(t, out.String())
}
