package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slicerlab/slicepack/format"
)

func testEntry(codec format.CodecType, payload []byte) *Entry {
	return &Entry{
		Codec:         codec,
		Level:         format.LevelDefault,
		Width:         8,
		Height:        4,
		BytesPerPixel: 1,
		Digest:        0xDEADBEEFCAFE,
		Data:          payload,
	}
}

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemory()
	defer c.Close()

	e := testEntry(format.CodecZLib, []byte{1, 2, 3, 4})
	require.NoError(t, c.Put(0, e))
	require.Equal(t, 1, c.Len())
	require.Equal(t, int64(4), c.Size())

	got, err := c.Get(0)
	require.NoError(t, err)
	require.Equal(t, e, got)
	require.Equal(t, 32, got.UncompressedLen())
	require.Equal(t, 4, got.CompressedLen())

	_, err = c.Get(1)
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestMemoryCacheReplace(t *testing.T) {
	c := NewMemory()
	defer c.Close()

	require.NoError(t, c.Put(3, testEntry(format.CodecGZip, make([]byte, 100))))
	require.NoError(t, c.Put(3, testEntry(format.CodecLZ4, make([]byte, 40))))

	require.Equal(t, 1, c.Len())
	require.Equal(t, int64(40), c.Size())

	got, err := c.Get(3)
	require.NoError(t, err)
	require.Equal(t, format.CodecLZ4, got.Codec)
}

func TestMemoryCacheValidation(t *testing.T) {
	c := NewMemory()
	defer c.Close()

	require.Error(t, c.Put(-1, testEntry(format.CodecNone, nil)))
	require.Error(t, c.Put(0, nil))

	bad := testEntry(format.CodecNone, nil)
	bad.Width = 0
	require.Error(t, c.Put(0, bad))

	require.Equal(t, 0, c.Len())
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemory()
	defer c.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Put(i, testEntry(format.CodecPNG, make([]byte, 10))))
	}
	require.Equal(t, 5, c.Len())
	require.Equal(t, int64(50), c.Size())

	require.NoError(t, c.Clear())
	require.Equal(t, 0, c.Len())
	require.Equal(t, int64(0), c.Size())

	_, err := c.Get(0)
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRecordRoundTrip(t *testing.T) {
	e := &Entry{
		Codec:         format.CodecBrotli,
		Level:         format.LevelBest,
		Width:         1620,
		Height:        2560,
		BytesPerPixel: 1,
		Digest:        0x0123456789ABCDEF,
		Data:          []byte{9, 8, 7, 6, 5},
	}

	record := encodeRecord(e)
	require.Len(t, record, recordHeaderLen+5)

	got, err := decodeRecord(record)
	require.NoError(t, err)
	require.Equal(t, e, got)

	// The decoded payload must not alias the record.
	record[recordHeaderLen] = 0xFF
	require.Equal(t, byte(9), got.Data[0])
}

func TestRecordDecodeErrors(t *testing.T) {
	e := testEntry(format.CodecDeflate, []byte{1, 2, 3})
	record := encodeRecord(e)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short header", data: record[:10]},
		{name: "bad version", data: append([]byte{0x7F}, record[1:]...)},
		{name: "truncated payload", data: record[:len(record)-1]},
		{name: "trailing bytes", data: append(append([]byte(nil), record...), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRecord(tt.data)
			require.Error(t, err)
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{4 * 1024 * 1024, "4.00 MiB"},
		{int64(3.25 * 1024 * 1024 * 1024), "3.25 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, HumanSize(tt.n))
		})
	}
}
