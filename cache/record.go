package cache

import (
	"fmt"

	"github.com/slicerlab/slicepack/endian"
	"github.com/slicerlab/slicepack/format"
)

// On-disk record layout, little-endian:
//
//	[version u8][codec u8][level u8][bpp u8]
//	[width u32][height u32][digest u64][dataLen u32]
//	[data ...]
const (
	recordVersion   = 0x01
	recordHeaderLen = 24
)

// encodeRecord serializes an entry into the on-disk record format.
func encodeRecord(e *Entry) []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, recordHeaderLen+len(e.Data))
	buf = append(buf, recordVersion, byte(e.Codec), byte(e.Level), byte(e.BytesPerPixel))
	buf = engine.AppendUint32(buf, uint32(e.Width))
	buf = engine.AppendUint32(buf, uint32(e.Height))
	buf = engine.AppendUint64(buf, e.Digest)
	buf = engine.AppendUint32(buf, uint32(len(e.Data)))

	return append(buf, e.Data...)
}

// decodeRecord deserializes an on-disk record. The payload is copied, so the
// entry stays valid after the store reclaims the input slice.
func decodeRecord(data []byte) (*Entry, error) {
	if len(data) < recordHeaderLen {
		return nil, fmt.Errorf("truncated cache record: %d bytes", len(data))
	}
	if data[0] != recordVersion {
		return nil, fmt.Errorf("unsupported cache record version: %d", data[0])
	}

	engine := endian.GetLittleEndianEngine()
	e := &Entry{
		Codec:         format.CodecType(data[1]),
		Level:         format.Level(data[2]),
		BytesPerPixel: int(data[3]),
		Width:         int(engine.Uint32(data[4:8])),
		Height:        int(engine.Uint32(data[8:12])),
		Digest:        engine.Uint64(data[12:20]),
	}

	dataLen := int(engine.Uint32(data[20:24]))
	if len(data) != recordHeaderLen+dataLen {
		return nil, fmt.Errorf("cache record payload is %d bytes, header says %d", len(data)-recordHeaderLen, dataLen)
	}
	e.Data = append([]byte(nil), data[recordHeaderLen:]...)

	return e, nil
}
