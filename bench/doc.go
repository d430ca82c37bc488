// Package bench benchmarks every codec/level combination against one slicer
// file and reports which combination suits the workload best.
//
// The matrix is fixed: codecs in declaration order, levels ascending, with
// the Brotli/Best pair skipped because quality 11 is prohibitively slow.
// Each trial sets the process-wide default codec and level, then re-opens
// the file from scratch and measures the wall-clock open time, so the
// numbers reflect exactly what an application pays when it loads a plate
// under that configuration. Trials run strictly sequentially; nothing else
// should compress concurrently while a run is in flight.
//
// # Usage
//
//	runner, err := bench.NewRunner("plate.sl1",
//	    bench.WithVerify(true),
//	    bench.WithCSVPath("plate_bench.csv"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := runner.Run()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	best, _ := result.Rankings.Recommendations()
//	fmt.Println("use", best.BestWeighted.Label())
//
// The report printed by Run contains the per-trial table, four ranked
// listings (compression ratio, speed, efficiency, weighted efficiency) and a
// recommendations block naming the winner of each ranking. An error on any
// single trial aborts the whole run: a silently skipped cell would corrupt
// the comparison between codecs.
package bench
