package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/structkit/memlayout/layout"
	"github.com/structkit/memlayout/linmem"
	"github.com/structkit/memlayout/source"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "memlayout",
	Short: "Inspect, check and optimize struct memory layouts",
	Long: `memlayout computes struct layouts the way a C-family compiler would:
field offsets, alignment, padding holes, and the field order that
minimizes size. It works on Go source files and supports multiple
targets (amd64, 386, wasm32).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			return
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug logging unavailable: %v\n", err)
			return
		}
		source.SetLogger(logger)
		linmem.SetLogger(logger)
	},
}

// Execute runs the root command. Called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

var targetCycle = []layout.Target{layout.AMD64, layout.I386, layout.Wasm32}

func resolveTarget(name string) (layout.Target, error) {
	target, ok := layout.TargetByName(name)
	if !ok {
		var names []string
		for _, t := range targetCycle {
			names = append(names, t.Name)
		}
		return layout.Target{}, fmt.Errorf("unknown target %q (supported: %s)", name, strings.Join(names, ", "))
	}
	return target, nil
}
