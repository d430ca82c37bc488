// Package format defines the closed codec and level enumerations shared by
// every slicepack package.
package format

import "fmt"

type (
	CodecType uint8
	Level     uint8
)

const (
	CodecNone    CodecType = 0x1 // CodecNone stores raw pixel bytes without compression.
	CodecPNG     CodecType = 0x2 // CodecPNG stores layers as lossless PNG images.
	CodecPNGGray CodecType = 0x3 // CodecPNGGray is PNG with forced single-channel decode.
	CodecDeflate CodecType = 0x4 // CodecDeflate represents raw DEFLATE streams.
	CodecGZip    CodecType = 0x5 // CodecGZip represents gzip-framed DEFLATE streams.
	CodecZLib    CodecType = 0x6 // CodecZLib represents zlib-framed DEFLATE streams.
	CodecBrotli  CodecType = 0x7 // CodecBrotli represents Brotli streams.
	CodecLZ4     CodecType = 0x8 // CodecLZ4 represents LZ4 frame streams.

	LevelFastest Level = 0x1 // LevelFastest trades ratio for speed.
	LevelDefault Level = 0x2 // LevelDefault is each codec's balanced setting.
	LevelBest    Level = 0x3 // LevelBest trades speed for ratio.
)

func (c CodecType) String() string {
	switch c {
	case CodecNone:
		return "None"
	case CodecPNG:
		return "PNG"
	case CodecPNGGray:
		return "PNGGray"
	case CodecDeflate:
		return "Deflate"
	case CodecGZip:
		return "GZip"
	case CodecZLib:
		return "ZLib"
	case CodecBrotli:
		return "Brotli"
	case CodecLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (l Level) String() string {
	switch l {
	case LevelFastest:
		return "Fastest"
	case LevelDefault:
		return "Default"
	case LevelBest:
		return "Best"
	default:
		return "Unknown"
	}
}

// AllCodecTypes returns every codec identifier in declaration order.
// The benchmark harness iterates this slice, so the order is part of the
// reporting contract.
func AllCodecTypes() []CodecType {
	return []CodecType{
		CodecNone,
		CodecPNG,
		CodecPNGGray,
		CodecDeflate,
		CodecGZip,
		CodecZLib,
		CodecBrotli,
		CodecLZ4,
	}
}

// AllLevels returns every compression level in ascending order.
func AllLevels() []Level {
	return []Level{LevelFastest, LevelDefault, LevelBest}
}

// ParseCodecType resolves a codec name as produced by CodecType.String.
func ParseCodecType(name string) (CodecType, error) {
	for _, ct := range AllCodecTypes() {
		if ct.String() == name {
			return ct, nil
		}
	}

	return 0, fmt.Errorf("unknown codec type: %q", name)
}

// ParseLevel resolves a level name as produced by Level.String.
func ParseLevel(name string) (Level, error) {
	for _, l := range AllLevels() {
		if l.String() == name {
			return l, nil
		}
	}

	return 0, fmt.Errorf("unknown compression level: %q", name)
}
