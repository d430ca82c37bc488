package slicer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/slicerlab/slicepack/cache"
	"github.com/slicerlab/slicepack/codec"
	"github.com/slicerlab/slicepack/format"
)

// archiveMember is one file to place into a test archive. Exactly one of
// img and raw is used.
type archiveMember struct {
	name string
	img  image.Image
	raw  []byte
}

func writeArchive(t *testing.T, members []archiveMember) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.sl1")
	out, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		if m.img != nil {
			require.NoError(t, png.Encode(w, m.img))
			continue
		}
		_, err = w.Write(m.raw)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	return path
}

// grayLayer builds a deterministic gray image whose content varies by seed.
func grayLayer(width, height int, seed byte) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: byte(x*y) + seed})
		}
	}

	return img
}

func defaultMembers(layers int) []archiveMember {
	members := []archiveMember{
		{name: "config.ini", raw: []byte("jobDir = fixture\n")},
	}
	for i := 0; i < layers; i++ {
		members = append(members, archiveMember{
			name: fmt.Sprintf("fixture%05d.png", i),
			img:  grayLayer(16, 12, byte(i)),
		})
	}

	return members
}

func TestOpen(t *testing.T) {
	path := writeArchive(t, defaultMembers(3))

	f, err := Open(path, WithCodec(format.CodecZLib), WithLevel(format.LevelFastest))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, path, f.Path())
	require.Equal(t, 3, f.LayerCount())
	require.Equal(t, 16, f.Width())
	require.Equal(t, 12, f.Height())
	require.Equal(t, format.CodecZLib, f.Codec())
	require.Equal(t, format.LevelFastest, f.Level())
	require.Equal(t, int64(3*16*12), f.UncompressedSize())
	require.Greater(t, f.CacheSize(), int64(0))
	require.NotEmpty(t, f.CacheSizeHuman())
}

func TestOpenRestoresLayers(t *testing.T) {
	path := writeArchive(t, defaultMembers(4))

	f, err := Open(path, WithCodec(format.CodecGZip))
	require.NoError(t, err)
	defer f.Close()

	for i := 0; i < 4; i++ {
		buf, err := f.Layer(i)
		require.NoError(t, err)

		want := grayLayer(16, 12, byte(i))
		for y := 0; y < 12; y++ {
			for x := 0; x < 16; x++ {
				require.Equal(t, want.GrayAt(x, y).Y, buf.At(x, y), "layer %d pixel (%d,%d)", i, x, y)
			}
		}
	}

	_, err = f.Layer(4)
	require.ErrorIs(t, err, cache.ErrEntryNotFound)
}

func TestOpenUsesProcessDefault(t *testing.T) {
	origCT, origLevel := codec.Default()
	defer func() {
		require.NoError(t, codec.SetDefault(origCT, origLevel))
	}()

	path := writeArchive(t, defaultMembers(2))

	require.NoError(t, codec.SetDefault(format.CodecLZ4, format.LevelBest))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, format.CodecLZ4, f.Codec())
	require.Equal(t, format.LevelBest, f.Level())
}

func TestOpenOrdersLayersByNumber(t *testing.T) {
	// Archive order and numbering disagree; numbering must win. Sparse
	// numbering collapses to a dense index range.
	members := []archiveMember{
		{name: "slice_30.png", img: grayLayer(8, 8, 30)},
		{name: "slice_10.png", img: grayLayer(8, 8, 10)},
		{name: "slice_20.png", img: grayLayer(8, 8, 20)},
	}
	path := writeArchive(t, members)

	f, err := Open(path, WithCodec(format.CodecNone))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, 3, f.LayerCount())
	for i, seed := range []byte{10, 20, 30} {
		buf, err := f.Layer(i)
		require.NoError(t, err)
		require.Equal(t, byte(1*1)+seed, buf.At(1, 1))
	}
}

func TestOpenNormalizesColorLayers(t *testing.T) {
	// An RGBA layer with r=g=b converts to the same gray values.
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			v := byte(10*y + x)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 0xFF})
		}
	}
	path := writeArchive(t, []archiveMember{{name: "0.png", img: img}})

	f, err := Open(path, WithCodec(format.CodecNone))
	require.NoError(t, err)
	defer f.Close()

	buf, err := f.Layer(0)
	require.NoError(t, err)
	require.Equal(t, byte(0), buf.At(0, 0))
	require.Equal(t, byte(23), buf.At(3, 2))
}

func TestOpenValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		members  []archiveMember
		contains []string
	}{
		{
			name: "no layers",
			members: []archiveMember{
				{name: "config.ini", raw: []byte("x")},
			},
			contains: []string{"no layer images"},
		},
		{
			name: "unnumbered layer",
			members: []archiveMember{
				{name: "thumbnail.png", img: grayLayer(4, 4, 0)},
			},
			contains: []string{"thumbnail.png", "no layer number"},
		},
		{
			name: "duplicate numbers",
			members: []archiveMember{
				{name: "a1.png", img: grayLayer(4, 4, 0)},
				{name: "b01.png", img: grayLayer(4, 4, 1)},
			},
			contains: []string{"duplicate layer number 1"},
		},
		{
			name: "multiple problems reported together",
			members: []archiveMember{
				{name: "preview.png", img: grayLayer(4, 4, 0)},
				{name: "c2.png", img: grayLayer(4, 4, 0)},
				{name: "d2.png", img: grayLayer(4, 4, 1)},
			},
			contains: []string{"preview.png", "duplicate layer number 2"},
		},
		{
			name: "corrupt layer image",
			members: []archiveMember{
				{name: "0.png", img: grayLayer(4, 4, 0)},
				{name: "1.png", raw: []byte("not a png")},
			},
			contains: []string{`"1.png"`, "decode png"},
		},
		{
			name: "dimension mismatch",
			members: []archiveMember{
				{name: "0.png", img: grayLayer(4, 4, 0)},
				{name: "1.png", img: grayLayer(5, 4, 0)},
			},
			contains: []string{"dimensions 5x4 differ from 4x4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArchive(t, tt.members)

			_, err := Open(path, WithCodec(format.CodecNone))
			require.Error(t, err)
			for _, want := range tt.contains {
				require.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.sl1"))
	require.Error(t, err)
}

func TestOpenOptionErrors(t *testing.T) {
	path := writeArchive(t, defaultMembers(1))

	_, err := Open(path, WithCodec(format.CodecType(0xFF)))
	require.ErrorIs(t, err, codec.ErrUnsupportedCombination)

	_, err = Open(path, WithLevel(format.Level(0xFF)))
	require.Error(t, err)

	_, err = Open(path, WithCache(nil))
	require.Error(t, err)
}

func TestOpenWithSuppliedCache(t *testing.T) {
	path := writeArchive(t, defaultMembers(2))
	c := cache.NewMemory()

	f, err := Open(path, WithCodec(format.CodecDeflate), WithCache(c))
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	require.Equal(t, c.Size(), f.CacheSize())

	// Closing the file leaves the supplied cache intact.
	require.NoError(t, f.Close())
	require.Equal(t, 2, c.Len())

	e, err := c.Get(0)
	require.NoError(t, err)
	require.Equal(t, format.CodecDeflate, e.Codec)
	require.Equal(t, 16, e.Width)
	require.Equal(t, 12, e.Height)
	require.NoError(t, c.Close())
}

func TestOpenWithDiskCache(t *testing.T) {
	path := writeArchive(t, defaultMembers(2))

	dc, err := cache.OpenDisk(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	defer dc.Close()

	f, err := Open(path, WithCodec(format.CodecPNG), WithCache(dc))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, 2, f.LayerCount())
	buf, err := f.Layer(1)
	require.NoError(t, err)
	require.Equal(t, grayLayer(16, 12, 1).GrayAt(2, 3).Y, buf.At(2, 3))
}

func TestLayerDigestDetectsTampering(t *testing.T) {
	path := writeArchive(t, defaultMembers(1))
	c := cache.NewMemory()

	f, err := Open(path, WithCodec(format.CodecNone), WithCache(c))
	require.NoError(t, err)
	defer f.Close()

	e, err := c.Get(0)
	require.NoError(t, err)
	e.Data[0] ^= 0xFF

	_, err = f.Layer(0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "digest")
}

func TestParseLayerNumber(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		want    int
		wantErr bool
	}{
		{name: "bare number", entry: "42.png", want: 42},
		{name: "padded", entry: "fixture00007.png", want: 7},
		{name: "nested path", entry: "layers/slice_3.png", want: 3},
		{name: "no digits", entry: "preview.png", wantErr: true},
		{name: "digits not trailing", entry: "12preview.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLayerNumber(tt.entry)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
