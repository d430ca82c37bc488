package bench

import (
	"math"
	"time"

	"github.com/slicerlab/slicepack/format"
)

// Record holds the measured outcome of one codec/level trial. Only the raw
// measurements are stored; every score is a pure function of them, computed
// on demand and never persisted.
type Record struct {
	Codec            format.CodecType
	Level            format.Level
	UncompressedSize int64
	CompressedSize   int64
	Elapsed          time.Duration
	// Delta is the elapsed difference versus the previous level of the same
	// codec, zero at each codec's first level.
	Delta time.Duration
}

// Label returns the trial's "Codec/Level" display name.
func (r Record) Label() string {
	return r.Codec.String() + "/" + r.Level.String()
}

// Ratio returns uncompressed size divided by compressed size, or 0 when
// either size is absent.
func (r Record) Ratio() float64 {
	if r.UncompressedSize == 0 || r.CompressedSize == 0 {
		return 0
	}

	return float64(r.UncompressedSize) / float64(r.CompressedSize)
}

// PercentSaved returns the size reduction as a percentage of the
// uncompressed size, or 0 when either size is absent.
func (r Record) PercentSaved() float64 {
	if r.UncompressedSize == 0 || r.CompressedSize == 0 {
		return 0
	}

	return (1 - float64(r.CompressedSize)/float64(r.UncompressedSize)) * 100
}

// ThroughputMBps returns how many MiB of source pixels the trial processed
// per second, or 0 when no time elapsed.
func (r Record) ThroughputMBps() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}

	return float64(r.UncompressedSize) / (1024 * 1024) / secs
}

// Efficiency returns ratio*100/(elapsedMs+1), a balance of compression
// against time. The +1 keeps sub-millisecond trials finite.
func (r Record) Efficiency() float64 {
	return r.Ratio() * 100 / (r.elapsedMs() + 1)
}

// WeightedEfficiency returns ratio^1.5*100/(elapsedMs+1). Compared to
// Efficiency, the exponent favors codecs that compress harder even when they
// spend a little longer doing it.
func (r Record) WeightedEfficiency() float64 {
	return math.Pow(r.Ratio(), 1.5) * 100 / (r.elapsedMs() + 1)
}

func (r Record) elapsedMs() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}
