package bench

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/slicerlab/slicepack/cache"
)

// reportWriter latches the first write error so the section helpers can
// print without checking every call.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

// writeReport prints the full multi-section report: run summary, per-trial
// table, the four ranked listings and the recommendations block.
func writeReport(w io.Writer, result *Result) error {
	rw := &reportWriter{w: w}

	var uncompressed int64
	if len(result.Records) > 0 {
		uncompressed = result.Records[0].UncompressedSize
	}

	rw.printf("=== Codec Benchmark Results ===\n\n")
	rw.printf("File:         %s\n", result.Path)
	rw.printf("Layers:       %d\n", result.LayerCount)
	rw.printf("Resolution:   %dx%d\n", result.Width, result.Height)
	rw.printf("Uncompressed: %s\n", cache.HumanSize(uncompressed))
	rw.printf("\n")

	rw.printf("%-8s | %-8s | %-12s | %-7s | %-7s | %-12s | %-12s | %-10s | %-10s\n",
		"Codec", "Level", "Compressed", "Ratio", "Saved", "Time", "Delta", "Efficiency", "Weighted")
	rw.printf("%s\n", strings.Repeat("-", 110))
	for _, rec := range result.Records {
		rw.printf("%-8s | %-8s | %-12s | %-7s | %-7s | %-12s | %-12s | %-10.4f | %-10.4f\n",
			rec.Codec.String(),
			rec.Level.String(),
			cache.HumanSize(rec.CompressedSize),
			fmt.Sprintf("%.2fx", rec.Ratio()),
			fmt.Sprintf("%.1f%%", rec.PercentSaved()),
			formatDuration(rec.Elapsed),
			formatDuration(rec.Delta),
			rec.Efficiency(),
			rec.WeightedEfficiency())
	}
	rw.printf("\n")

	writeRanking(rw, "Ranked by Compression Ratio", result.Rankings.ByRatio, func(r Record) string {
		return fmt.Sprintf("%.2fx (%.1f%% saved)", r.Ratio(), r.PercentSaved())
	})
	writeRanking(rw, "Ranked by Speed", result.Rankings.ByElapsed, func(r Record) string {
		return fmt.Sprintf("%s (%.2f MB/s)", formatDuration(r.Elapsed), r.ThroughputMBps())
	})
	writeRanking(rw, "Ranked by Efficiency", result.Rankings.ByEfficiency, func(r Record) string {
		return fmt.Sprintf("%.4f", r.Efficiency())
	})
	writeRanking(rw, "Ranked by Weighted Efficiency", result.Rankings.ByWeighted, func(r Record) string {
		return fmt.Sprintf("%.4f", r.WeightedEfficiency())
	})

	if rec, ok := result.Rankings.Recommendations(); ok {
		rw.printf("=== Recommendations ===\n\n")
		rw.printf("  Best compression: %-16s %.2fx, %.1f%% saved\n",
			rec.BestCompression.Label(), rec.BestCompression.Ratio(), rec.BestCompression.PercentSaved())
		rw.printf("  Best speed:       %-16s %s\n",
			rec.BestSpeed.Label(), formatDuration(rec.BestSpeed.Elapsed))
		rw.printf("  Best balanced:    %-16s efficiency %.4f\n",
			rec.BestBalanced.Label(), rec.BestBalanced.Efficiency())
		rw.printf("  Best weighted:    %-16s weighted %.4f\n",
			rec.BestWeighted.Label(), rec.BestWeighted.WeightedEfficiency())
	}

	return rw.err
}

func writeRanking(rw *reportWriter, title string, ranked []Record, score func(Record) string) {
	rw.printf("=== %s ===\n\n", title)
	for i, rec := range ranked {
		rw.printf("%3d. %-16s %s\n", i+1, rec.Label(), score(rec))
	}
	rw.printf("\n")
}

func formatDuration(d time.Duration) string {
	return d.Round(10 * time.Microsecond).String()
}

// ExportCSV writes one row per trial, stored fields and derived scores both,
// to a CSV file at path.
func ExportCSV(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString("codec,level,uncompressed_bytes,compressed_bytes,elapsed_ms,delta_ms,ratio,percent_saved,throughput_mbps,efficiency,weighted_efficiency\n")
	if err != nil {
		return err
	}

	for _, r := range records {
		_, err = file.WriteString(fmt.Sprintf("%s,%s,%d,%d,%.3f,%.3f,%.4f,%.2f,%.2f,%.4f,%.4f\n",
			r.Codec.String(),
			r.Level.String(),
			r.UncompressedSize,
			r.CompressedSize,
			float64(r.Elapsed)/float64(time.Millisecond),
			float64(r.Delta)/float64(time.Millisecond),
			r.Ratio(),
			r.PercentSaved(),
			r.ThroughputMBps(),
			r.Efficiency(),
			r.WeightedEfficiency()))
		if err != nil {
			return err
		}
	}

	return nil
}
