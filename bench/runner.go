package bench

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/slicerlab/slicepack/cache"
	"github.com/slicerlab/slicepack/codec"
	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/internal/log"
	"github.com/slicerlab/slicepack/internal/options"
	"github.com/slicerlab/slicepack/slicer"
)

// RunnerConfig holds the configuration for a benchmark run.
type RunnerConfig struct {
	output   io.Writer
	verify   bool
	cacheDir string
	csvPath  string
}

// RunnerOption represents a functional option for configuring a benchmark
// runner. This is a type alias for the generic Option interface specialized
// for RunnerConfig.
type RunnerOption = options.Option[*RunnerConfig]

// WithOutput sets the writer the report is printed to. Defaults to stdout.
func WithOutput(w io.Writer) RunnerOption {
	return options.New(func(c *RunnerConfig) error {
		if w == nil {
			return errors.New("output writer cannot be nil")
		}
		c.output = w

		return nil
	})
}

// WithVerify enables restoring every layer after each trial and checking its
// pixel digest. Verification happens outside the timed section.
func WithVerify(verify bool) RunnerOption {
	return options.NoError(func(c *RunnerConfig) {
		c.verify = verify
	})
}

// WithCacheDir stores each trial's compressed layers in an on-disk cache
// under dir instead of in memory. The directory is created on first use and
// cleared between trials.
func WithCacheDir(dir string) RunnerOption {
	return options.New(func(c *RunnerConfig) error {
		if dir == "" {
			return errors.New("cache directory cannot be empty")
		}
		c.cacheDir = dir

		return nil
	})
}

// WithCSVPath additionally exports the per-trial records to a CSV file.
func WithCSVPath(path string) RunnerOption {
	return options.New(func(c *RunnerConfig) error {
		if path == "" {
			return errors.New("csv path cannot be empty")
		}
		c.csvPath = path

		return nil
	})
}

// Runner drives the full codec/level matrix against one slicer file. Trials
// run strictly sequentially so wall-clock timings never interfere with each
// other.
type Runner struct {
	path string
	cfg  *RunnerConfig
}

// Result holds everything one benchmark run produced.
type Result struct {
	Path       string
	LayerCount int
	Width      int
	Height     int
	Records    []Record
	Rankings   Rankings
}

// NewRunner creates a benchmark runner for the slicer file at path.
//
// Parameters:
//   - path: slicer archive the matrix is run against
//   - opts: optional runner configuration (output, verify, cache dir, CSV)
//
// Returns:
//   - *Runner: configured runner ready for Run
//   - error: configuration error if any option is invalid
func NewRunner(path string, opts ...RunnerOption) (*Runner, error) {
	if path == "" {
		return nil, errors.New("file path cannot be empty")
	}

	cfg := &RunnerConfig{output: os.Stdout}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Runner{path: path, cfg: cfg}, nil
}

// Run executes one trial per codec/level pair, prints the report and returns
// the collected result.
//
// The matrix iterates codecs in declaration order and levels in ascending
// order. Each trial sets the process-wide default pair and re-opens the file
// from scratch, so the measured time covers decode plus full-layer
// compression under that pair. The previous default pair is restored before
// Run returns.
//
// Brotli at the Best level is skipped unconditionally: quality 11 is
// prohibitively slow on real plates and would dwarf every other cell of the
// matrix.
//
// Any trial error aborts the whole run. A partial matrix would silently skew
// the rankings, so no partial results are returned.
func (r *Runner) Run() (*Result, error) {
	origCT, origLevel := codec.Default()
	defer func() { _ = codec.SetDefault(origCT, origLevel) }()

	var trialCache cache.Cache
	if r.cfg.cacheDir != "" {
		dc, err := cache.OpenDisk(r.cfg.cacheDir)
		if err != nil {
			return nil, fmt.Errorf("open trial cache: %w", err)
		}
		defer dc.Close()
		trialCache = dc
	}

	result := &Result{
		Path:    r.path,
		Records: make([]Record, 0, len(format.AllCodecTypes())*len(format.AllLevels())),
	}

	for _, ct := range format.AllCodecTypes() {
		first := true
		var prev time.Duration

		for _, level := range format.AllLevels() {
			if ct == format.CodecBrotli && level == format.LevelBest {
				continue
			}

			rec, err := r.runTrial(ct, level, trialCache, result)
			if err != nil {
				return nil, fmt.Errorf("trial %s/%s: %w", ct, level, err)
			}
			if !first {
				rec.Delta = rec.Elapsed - prev
			}
			first = false
			prev = rec.Elapsed
			result.Records = append(result.Records, rec)
		}
	}

	result.Rankings = Rank(result.Records)

	if err := writeReport(r.cfg.output, result); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if r.cfg.csvPath != "" {
		if err := ExportCSV(r.cfg.csvPath, result.Records); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
	}

	return result, nil
}

// runTrial measures one codec/level pair. The timed section covers exactly
// the file open; cache clearing and the optional verify pass sit outside it.
func (r *Runner) runTrial(ct format.CodecType, level format.Level, trialCache cache.Cache, result *Result) (Record, error) {
	if err := codec.SetDefault(ct, level); err != nil {
		return Record{}, err
	}

	var opts []slicer.FileOption
	if trialCache != nil {
		if err := trialCache.Clear(); err != nil {
			return Record{}, fmt.Errorf("clear trial cache: %w", err)
		}
		opts = append(opts, slicer.WithCache(trialCache))
	}

	start := time.Now()
	f, err := slicer.Open(r.path, opts...)
	elapsed := time.Since(start)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	if result.LayerCount == 0 {
		result.LayerCount = f.LayerCount()
		result.Width = f.Width()
		result.Height = f.Height()
	}

	if r.cfg.verify {
		for i := 0; i < f.LayerCount(); i++ {
			if _, err := f.Layer(i); err != nil {
				return Record{}, fmt.Errorf("verify layer %d: %w", i, err)
			}
		}
	}

	rec := Record{
		Codec:            ct,
		Level:            level,
		UncompressedSize: f.UncompressedSize(),
		CompressedSize:   f.CacheSize(),
		Elapsed:          elapsed,
	}

	log.Logger().Debug("benchmark trial finished",
		"codec", ct.String(),
		"level", level.String(),
		"compressed", rec.CompressedSize,
		"ratio", rec.Ratio(),
		"elapsed", elapsed,
	)

	return rec, nil
}
