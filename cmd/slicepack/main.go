// Command slicepack benchmarks layer compression codecs against sliced
// print files and inspects how a file compresses under one codec.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/slicerlab/slicepack"
	"github.com/slicerlab/slicepack/bench"
	"github.com/slicerlab/slicepack/format"
	"github.com/slicerlab/slicepack/slicer"
)

func main() {
	app := cli.App{
		Name:  "slicepack",
		Usage: "Benchmark and inspect layer compression for sliced print files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				slicepack.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "benchmark",
				Usage:     "Run every codec/level combination against a file and rank the results",
				Action:    runBenchmark,
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "csv",
						Usage: "also export per-trial records to a CSV file at `PATH`",
					},
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "decompress and digest-check every layer after each trial",
					},
					&cli.StringFlag{
						Name:  "disk-cache",
						Usage: "store trial layers in an on-disk cache under `DIR`",
					},
				},
			},
			{
				Name:      "info",
				Usage:     "Open a file once and report how well it compresses",
				Action:    runInfo,
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "codec",
						Value: "PNG",
						Usage: "codec to compress layers with (None, PNG, PNGGray, Deflate, GZip, ZLib, Brotli, LZ4)",
					},
					&cli.StringFlag{
						Name:  "level",
						Value: "Default",
						Usage: "compression level (Fastest, Default, Best)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "slicepack:", err)
		os.Exit(1)
	}
}

func runBenchmark(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument, got %d", c.NArg())
	}

	var opts []bench.RunnerOption
	if path := c.String("csv"); path != "" {
		opts = append(opts, bench.WithCSVPath(path))
	}
	if c.Bool("verify") {
		opts = append(opts, bench.WithVerify(true))
	}
	if dir := c.String("disk-cache"); dir != "" {
		opts = append(opts, bench.WithCacheDir(dir))
	}

	runner, err := bench.NewRunner(c.Args().First(), opts...)
	if err != nil {
		return err
	}
	_, err = runner.Run()

	return err
}

func runInfo(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument, got %d", c.NArg())
	}

	ct, err := format.ParseCodecType(c.String("codec"))
	if err != nil {
		return err
	}
	level, err := format.ParseLevel(c.String("level"))
	if err != nil {
		return err
	}

	f, err := slicer.Open(c.Args().First(), slicer.WithCodec(ct), slicer.WithLevel(level))
	if err != nil {
		return err
	}
	defer f.Close()

	ratio := 0.0
	if f.CacheSize() > 0 {
		ratio = float64(f.UncompressedSize()) / float64(f.CacheSize())
	}

	fmt.Printf("File:         %s\n", f.Path())
	fmt.Printf("Layers:       %d\n", f.LayerCount())
	fmt.Printf("Resolution:   %dx%d\n", f.Width(), f.Height())
	fmt.Printf("Codec:        %s/%s\n", f.Codec(), f.Level())
	fmt.Printf("Uncompressed: %d bytes\n", f.UncompressedSize())
	fmt.Printf("Compressed:   %s (%.2fx)\n", f.CacheSizeHuman(), ratio)

	return nil
}
