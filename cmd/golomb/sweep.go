package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeamy/golomb/internal/bench"
	"github.com/jeamy/golomb/internal/util"
	"github.com/jeamy/golomb/pkg/golomb"
)

var sweepFlags struct {
	from      int
	to        int
	maxLen    int
	threads   int
	processes int
	verify    bool
	benchDB   string
	benchCSV  string
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a benchmark sweep across a range of n (equivalent to bare `prog`)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep()
	},
}

func init() {
	sweepCmd.Flags().IntVar(&sweepFlags.from, "from", 2, "first n in the sweep")
	sweepCmd.Flags().IntVar(&sweepFlags.to, "to", 10, "last n in the sweep (inclusive)")
	sweepCmd.Flags().IntVar(&sweepFlags.maxLen, "max-len", golomb.MaxLen, "maximum ruler length to search up to")
	sweepCmd.Flags().IntVar(&sweepFlags.threads, "threads", 0, "number of search threads (0 = all CPUs)")
	sweepCmd.Flags().IntVar(&sweepFlags.processes, "processes", 1, "number of cooperating processes")
	sweepCmd.Flags().BoolVar(&sweepFlags.verify, "verify", false, "run the correctness self-check on every row")
	sweepCmd.Flags().StringVar(&sweepFlags.benchDB, "bench-db", "", "persist sweep rows to a SQLite database at this path")
	sweepCmd.Flags().StringVar(&sweepFlags.benchCSV, "bench-csv", "", "persist sweep rows to a gzip CSV file at this path")
}

func runSweep() error {
	if sweepFlags.from > sweepFlags.to {
		return fmt.Errorf("--from (%d) must be <= --to (%d)", sweepFlags.from, sweepFlags.to)
	}

	cfg := golomb.DefaultOptions().Config
	if sweepFlags.threads > 0 {
		cfg.Threads = sweepFlags.threads
	}
	if sweepFlags.processes > 0 {
		cfg.Processes = sweepFlags.processes
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ns := make([]int, 0, sweepFlags.to-sweepFlags.from+1)
	for n := sweepFlags.from; n <= sweepFlags.to; n++ {
		ns = append(ns, n)
	}

	util.Log(verbose, "sweeping n=%d..%d max-len=%d threads=%d processes=%d",
		sweepFlags.from, sweepFlags.to, sweepFlags.maxLen, cfg.Threads, cfg.Processes)

	opts := golomb.Options{Config: cfg, EventLog: util.Noop()}
	rows, err := bench.Sweep(context.Background(), ns, sweepFlags.maxLen, opts)
	if err != nil {
		return err
	}

	progress := util.NewProgressLogger(uint64(len(rows)), "sweep: ", " rows done", verbose)
	failed := false
	for _, row := range rows {
		fmt.Printf("n=%d length=%d time_ms=%d states=%d states/sec=%.0f\n",
			row.N, row.Length, row.ElapsedMillis, row.Explored, row.StatesPerSec)
		if sweepFlags.verify {
			if err := bench.Verify(row); err != nil {
				fmt.Printf("n=%d: FAILED correctness check: %v\n", row.N, err)
				failed = true
			}
		}
		progress.Log()
	}
	progress.Finalize()

	if sweepFlags.benchCSV != "" {
		if err := bench.WriteCSVGz(sweepFlags.benchCSV, rows); err != nil {
			return err
		}
	}
	if sweepFlags.benchDB != "" {
		if err := bench.WriteSQLite(sweepFlags.benchDB, rows); err != nil {
			return err
		}
	}

	if failed {
		os.Exit(1)
	}
	return nil
}
