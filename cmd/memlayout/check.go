package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structkit/memlayout/source"
)

var (
	checkTarget string
	sarifOut    string
	applyFix    bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file-or-dir>",
	Short: "Report structs whose field order wastes padding",
	Long: `check analyses Go source and reports every struct that would shrink
if its fields were reordered by descending alignment. With --fix the
file is rewritten in place, gofmt formatted. Exits nonzero when
findings remain.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkTarget, "target", "t", "amd64", "layout target (amd64, 386, wasm32)")
	checkCmd.Flags().StringVarP(&sarifOut, "sarif", "o", "", "write findings to a SARIF file")
	checkCmd.Flags().BoolVar(&applyFix, "fix", false, "rewrite padded structs in place")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget(checkTarget)
	if err != nil {
		return err
	}

	path := args[0]
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if applyFix {
		if stat.IsDir() {
			return fmt.Errorf("--fix takes a single file, not a directory")
		}
		n, err := source.FixFile(path, target)
		if err != nil {
			return err
		}
		fmt.Printf("%s: rewrote %d struct(s)\n", path, n)
		return nil
	}

	var findings []source.Finding
	if stat.IsDir() {
		findings, err = source.CheckDir(path, target)
	} else {
		findings, err = source.Check(path, target)
	}
	if err != nil {
		return err
	}

	for _, f := range findings {
		fmt.Printf("%s:%d:%d: %s\n", f.Pos.Filename, f.Pos.Line, f.Pos.Column, f.Message)
	}

	if sarifOut != "" {
		if err := source.WriteSARIFFile(findings, sarifOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "SARIF report written to %s\n", sarifOut)
	}

	if len(findings) > 0 {
		os.Exit(1)
	}
	return nil
}
