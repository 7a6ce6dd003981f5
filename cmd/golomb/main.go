// Command golomb searches for optimal Golomb rulers, exposing a
// "solve <n>" / "sweep" CLI surface as a cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "golomb",
	Short: "Search for optimal Golomb rulers",
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic progress messages")
	rootCmd.AddCommand(solveCmd, sweepCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
