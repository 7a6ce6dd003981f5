package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeamy/golomb/internal/config"
	"github.com/jeamy/golomb/internal/jsonenc"
	"github.com/jeamy/golomb/internal/util"
	"github.com/jeamy/golomb/pkg/golomb"
)

var solveFlags struct {
	maxLen      int
	fast        bool
	threads     int
	processes   int
	prefixDepth int
	configPath  string
	json        bool
}

var solveCmd = &cobra.Command{
	Use:   "solve <n>",
	Short: "Solve for a single n (equivalent to `prog n`)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("n must be an integer: %w", err)
		}
		return runSolve(n)
	},
}

func init() {
	solveCmd.Flags().IntVar(&solveFlags.maxLen, "max-len", golomb.MaxLen, "maximum ruler length to search up to")
	solveCmd.Flags().BoolVar(&solveFlags.fast, "fast", false, "seed bestLen with the known-optimal length for n")
	solveCmd.Flags().IntVar(&solveFlags.threads, "threads", 0, "number of search threads (0 = all CPUs)")
	solveCmd.Flags().IntVar(&solveFlags.processes, "processes", 0, "number of cooperating processes (0 = from config, default 1)")
	solveCmd.Flags().IntVar(&solveFlags.prefixDepth, "prefix-depth", 0, "prefix depth override (0 = auto)")
	solveCmd.Flags().StringVar(&solveFlags.configPath, "config", "", "path to a YAML config file")
	solveCmd.Flags().BoolVar(&solveFlags.json, "json", false, "emit the result as JSON")
}

func loadCLIConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runSolve(n int) error {
	cfg, err := loadCLIConfig(solveFlags.configPath)
	if err != nil {
		return err
	}
	if solveFlags.threads > 0 {
		cfg.Threads = solveFlags.threads
	}
	if solveFlags.processes > 0 {
		cfg.Processes = solveFlags.processes
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	util.Log(verbose, "solving n=%d max-len=%d threads=%d processes=%d design=%s",
		n, solveFlags.maxLen, cfg.Threads, cfg.Processes, cfg.CoordinatorDesign)

	opts := golomb.Options{Config: cfg, PrefixDepth: solveFlags.prefixDepth, EventLog: util.Noop()}
	if verbose {
		opts.Progress = util.NewRateProgressLogger("solve: ", 500*time.Millisecond, true)
	}
	if solveFlags.fast {
		if optimal, ok := golomb.Optimal[n]; ok {
			opts.InitialBound = optimal
			util.Log(verbose, "--fast: seeding initial bound with tabulated optimum %d", optimal)
		}
	}

	start := time.Now()
	res, err := golomb.Solve(context.Background(), n, solveFlags.maxLen, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if solveFlags.json {
		return printJSON(n, solveFlags.maxLen, res, cfg)
	}
	printResult(n, res, elapsed)
	return nil
}

func printResult(n int, res golomb.Result, elapsed time.Duration) {
	if res.Ruler.Length == 0 {
		fmt.Printf("n=%d: no feasible ruler found\n", n)
		return
	}
	statesPerSec := float64(0)
	if secs := elapsed.Seconds(); secs > 0 {
		statesPerSec = float64(res.Explored) / secs
	}
	fmt.Printf("n=%d length=%d marks=%v time=%s states=%d states/sec=%.0f",
		n, res.Ruler.Length, res.Ruler.Marks, elapsed, res.Explored, statesPerSec)
	if res.PrefixesServed > 0 {
		fmt.Printf(" prefixes-served=%d", res.PrefixesServed)
	}
	fmt.Println()
}

func printJSON(n, maxLen int, res golomb.Result, cfg config.Config) error {
	data, err := jsonenc.Marshal(jsonenc.RulerJSON{
		N:              n,
		MaxLen:         maxLen,
		Length:         res.Ruler.Length,
		Marks:          res.Ruler.Marks,
		Explored:       res.Explored,
		Design:         cfg.CoordinatorDesign,
		PrefixesServed: res.PrefixesServed,
	})
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
